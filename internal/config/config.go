// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type ServerConfig struct {
	Port           int      `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type RazorpayConfig struct {
	KeyID         string `yaml:"key_id"`
	KeySecret     string `yaml:"key_secret"`
	WebhookSecret string `yaml:"webhook_secret"`
}

type PineLabsConfig struct {
	MerchantID    string `yaml:"merchant_id"`
	Secret        string `yaml:"secret"`
	WebhookSecret string `yaml:"webhook_secret"`
	BaseURL       string `yaml:"base_url"`
}

type PaymentConfig struct {
	Provider string         `yaml:"provider"` // razorpay | pinelabs
	Currency string         `yaml:"currency"`
	Razorpay RazorpayConfig `yaml:"razorpay"`
	PineLabs PineLabsConfig `yaml:"pinelabs"`
}

type RedisConfig struct {
	URL      string `yaml:"url"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type StorageConfig struct {
	Backend  string         `yaml:"backend"` // memory | redis | postgres
	Redis    RedisConfig    `yaml:"redis"`
	Database DatabaseConfig `yaml:"database"`
}

type PlanConfig struct {
	ID       string           `yaml:"id"`
	Name     string           `yaml:"name"`
	Prices   map[string]int64 `yaml:"prices"` // billing cycle -> minor units
	Features []string         `yaml:"features"`
}

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Log     LogConfig     `yaml:"log"`
	Payment PaymentConfig `yaml:"payment"`
	Storage StorageConfig `yaml:"storage"`
	Plans   []PlanConfig  `yaml:"plans"`
}

// LoadConfig reads the YAML config file, then applies environment overrides.
// A .env file next to the binary is loaded first if present; secrets are
// expected to arrive via the environment in deployments.
func LoadConfig(path string) (*Config, error) {
	_ = godotenv.Load()

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyEnv()

	// defaults
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Payment.Currency == "" {
		cfg.Payment.Currency = "INR"
	}
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = "memory"
	}
	cfg.Payment.Provider = strings.ToLower(strings.TrimSpace(cfg.Payment.Provider))
	cfg.Storage.Backend = strings.ToLower(strings.TrimSpace(cfg.Storage.Backend))

	// Minimal validation
	switch cfg.Payment.Provider {
	case "razorpay":
		if cfg.Payment.Razorpay.KeyID == "" || cfg.Payment.Razorpay.KeySecret == "" {
			return nil, errors.New("payment.razorpay.key_id and key_secret are required")
		}
	case "pinelabs":
		if cfg.Payment.PineLabs.MerchantID == "" || cfg.Payment.PineLabs.Secret == "" {
			return nil, errors.New("payment.pinelabs.merchant_id and secret are required")
		}
	default:
		return nil, fmt.Errorf("payment.provider must be razorpay or pinelabs, got %q", cfg.Payment.Provider)
	}
	switch cfg.Storage.Backend {
	case "memory":
	case "redis":
		if cfg.Storage.Redis.URL == "" {
			return nil, errors.New("storage.redis.url is required for the redis backend")
		}
	case "postgres":
		if cfg.Storage.Database.URL == "" {
			return nil, errors.New("storage.database.url is required for the postgres backend")
		}
	default:
		return nil, fmt.Errorf("storage.backend must be memory, redis or postgres, got %q", cfg.Storage.Backend)
	}
	if len(cfg.Plans) == 0 {
		return nil, errors.New("at least one pricing plan is required")
	}

	return &cfg, nil
}

func (c *Config) applyEnv() {
	setStr := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setStr(&c.Payment.Provider, "PAYMENT_PROVIDER")
	setStr(&c.Payment.Razorpay.KeyID, "RAZORPAY_KEY_ID")
	setStr(&c.Payment.Razorpay.KeySecret, "RAZORPAY_KEY_SECRET")
	setStr(&c.Payment.Razorpay.WebhookSecret, "RAZORPAY_WEBHOOK_SECRET")
	setStr(&c.Payment.PineLabs.MerchantID, "PINELABS_MERCHANT_ID")
	setStr(&c.Payment.PineLabs.Secret, "PINELABS_SECRET")
	setStr(&c.Payment.PineLabs.WebhookSecret, "PINELABS_WEBHOOK_SECRET")
	setStr(&c.Storage.Redis.URL, "REDIS_URL")
	setStr(&c.Storage.Database.URL, "DATABASE_URL")
	setStr(&c.Storage.Backend, "STORAGE_BACKEND")

	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		parts := strings.Split(v, ",")
		origins := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				origins = append(origins, p)
			}
		}
		c.Server.AllowedOrigins = origins
	}
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
}
