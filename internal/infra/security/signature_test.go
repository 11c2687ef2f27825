//go:build !integration

package security

import "testing"

func TestSignHMAC(t *testing.T) {
	// Known vector: HMAC-SHA256("secret", "o1|p1")
	sig := SignHMAC("secret", "o1|p1")
	if len(sig) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(sig))
	}
	if sig != SignHMAC("secret", "o1|p1") {
		t.Error("signing is not deterministic")
	}
	if sig == SignHMAC("other-secret", "o1|p1") {
		t.Error("different secrets must produce different signatures")
	}
	if sig == SignHMAC("secret", "o1|p2") {
		t.Error("different messages must produce different signatures")
	}
}

func TestVerifyHMAC(t *testing.T) {
	secret := "test-secret"
	msg := "order_123|pay_456"
	good := SignHMAC(secret, msg)

	t.Run("accepts a valid signature", func(t *testing.T) {
		if got := VerifyHMAC(secret, msg, good); got != Verified {
			t.Errorf("expected Verified, got %v", got)
		}
	})

	t.Run("rejects a flipped character", func(t *testing.T) {
		tampered := []byte(good)
		if tampered[0] == 'a' {
			tampered[0] = 'b'
		} else {
			tampered[0] = 'a'
		}
		if got := VerifyHMAC(secret, msg, string(tampered)); got != Rejected {
			t.Errorf("expected Rejected, got %v", got)
		}
	})

	t.Run("rejects before comparing when length differs", func(t *testing.T) {
		if got := VerifyHMAC(secret, msg, good[:32]); got != Rejected {
			t.Errorf("expected Rejected for short signature, got %v", got)
		}
		if got := VerifyHMAC(secret, msg, good+"00"); got != Rejected {
			t.Errorf("expected Rejected for long signature, got %v", got)
		}
		if got := VerifyHMAC(secret, msg, ""); got != Rejected {
			t.Errorf("expected Rejected for empty signature, got %v", got)
		}
	})

	t.Run("is deterministic over repeated calls", func(t *testing.T) {
		for i := 0; i < 100; i++ {
			if got := VerifyHMAC(secret, msg, good); got != Verified {
				t.Fatalf("call %d: expected Verified, got %v", i, got)
			}
		}
	})

	t.Run("rejects a signature for a different message", func(t *testing.T) {
		other := SignHMAC(secret, "order_123|pay_457")
		if got := VerifyHMAC(secret, msg, other); got != Rejected {
			t.Errorf("expected Rejected, got %v", got)
		}
	})
}

func TestVerifyResultString(t *testing.T) {
	cases := map[VerifyResult]string{
		Verified: "verified",
		Rejected: "rejected",
		Errored:  "errored",
	}
	for r, want := range cases {
		if r.String() != want {
			t.Errorf("VerifyResult(%d).String() = %q, want %q", r, r.String(), want)
		}
	}
	if Rejected.OK() || Errored.OK() {
		t.Error("only Verified may report OK")
	}
	if !Verified.OK() {
		t.Error("Verified must report OK")
	}
}
