// File: internal/infra/security/signature.go
package security

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// VerifyResult distinguishes a signature that failed comparison from one that
// could not be compared at all. Callers collapse it to a boolean at the
// adapter boundary; the distinction exists for logging and metrics only, and
// both non-Verified states mean "reject".
type VerifyResult int

const (
	Rejected VerifyResult = iota
	Verified
	Errored
)

func (r VerifyResult) OK() bool { return r == Verified }

func (r VerifyResult) String() string {
	switch r {
	case Verified:
		return "verified"
	case Errored:
		return "errored"
	}
	return "rejected"
}

// SignHMAC returns hex(HMAC-SHA256(secret, message)).
func SignHMAC(secret, message string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(message))
	return hex.EncodeToString(h.Sum(nil))
}

// VerifyHMAC recomputes the expected signature for message and compares it
// against the provided one. A signature whose length differs from the digest
// length is rejected before comparison so the mismatch position never leaks
// via timing. Any panic during comparison is treated as Errored, never as
// success.
func VerifyHMAC(secret, message, signature string) (result VerifyResult) {
	defer func() {
		if recover() != nil {
			result = Errored
		}
	}()

	expected := SignHMAC(secret, message)
	if len(signature) != len(expected) {
		return Rejected
	}
	// hmac.Equal is constant-time for equal-length inputs.
	if hmac.Equal([]byte(expected), []byte(signature)) {
		return Verified
	}
	return Rejected
}
