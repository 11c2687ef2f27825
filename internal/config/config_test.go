//go:build !integration

package config

import (
	"os"
	"path/filepath"
	"testing"
)

const baseYAML = `
server:
  port: 9090
log:
  level: debug
payment:
  provider: Razorpay
  razorpay:
    key_id: rzp_test_key
    key_secret: rzp_test_secret
plans:
  - id: basic
    name: Basic
    prices:
      monthly: 19900
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Run("parses yaml and normalizes the provider tag", func(t *testing.T) {
		cfg, err := LoadConfig(writeConfig(t, baseYAML))
		if err != nil {
			t.Fatalf("LoadConfig: %v", err)
		}
		if cfg.Payment.Provider != "razorpay" {
			t.Errorf("provider = %q, want razorpay (case-insensitive)", cfg.Payment.Provider)
		}
		if cfg.Server.Port != 9090 {
			t.Errorf("port = %d, want 9090", cfg.Server.Port)
		}
		if cfg.Storage.Backend != "memory" {
			t.Errorf("backend default = %q, want memory", cfg.Storage.Backend)
		}
		if cfg.Payment.Currency != "INR" {
			t.Errorf("currency default = %q, want INR", cfg.Payment.Currency)
		}
	})

	t.Run("environment overrides win", func(t *testing.T) {
		t.Setenv("PAYMENT_PROVIDER", "pinelabs")
		t.Setenv("PINELABS_MERCHANT_ID", "m_env")
		t.Setenv("PINELABS_SECRET", "s_env")
		t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example")
		t.Setenv("PORT", "7001")

		cfg, err := LoadConfig(writeConfig(t, baseYAML))
		if err != nil {
			t.Fatalf("LoadConfig: %v", err)
		}
		if cfg.Payment.Provider != "pinelabs" {
			t.Errorf("provider = %q, want pinelabs", cfg.Payment.Provider)
		}
		if cfg.Payment.PineLabs.MerchantID != "m_env" {
			t.Errorf("merchant id = %q, want m_env", cfg.Payment.PineLabs.MerchantID)
		}
		if len(cfg.Server.AllowedOrigins) != 2 || cfg.Server.AllowedOrigins[1] != "https://b.example" {
			t.Errorf("allowed origins = %v", cfg.Server.AllowedOrigins)
		}
		if cfg.Server.Port != 7001 {
			t.Errorf("port = %d, want 7001", cfg.Server.Port)
		}
	})

	t.Run("rejects unknown providers", func(t *testing.T) {
		t.Setenv("PAYMENT_PROVIDER", "stripe")
		if _, err := LoadConfig(writeConfig(t, baseYAML)); err == nil {
			t.Error("expected error for unknown provider")
		}
	})

	t.Run("rejects missing provider credentials", func(t *testing.T) {
		yaml := `
payment:
  provider: razorpay
plans:
  - id: basic
    name: Basic
    prices:
      monthly: 19900
`
		if _, err := LoadConfig(writeConfig(t, yaml)); err == nil {
			t.Error("expected error for missing razorpay credentials")
		}
	})

	t.Run("rejects empty plan catalog", func(t *testing.T) {
		yaml := `
payment:
  provider: razorpay
  razorpay:
    key_id: k
    key_secret: s
`
		if _, err := LoadConfig(writeConfig(t, yaml)); err == nil {
			t.Error("expected error for empty plan catalog")
		}
	})

	t.Run("requires backend connection urls", func(t *testing.T) {
		t.Setenv("STORAGE_BACKEND", "redis")
		if _, err := LoadConfig(writeConfig(t, baseYAML)); err == nil {
			t.Error("expected error for redis backend without url")
		}
	})
}
