package web

import "strings"

// trimOnly is the only sanitization ever applied to cryptographic fields
// (orderId, paymentId, signature). Stripping markup or escaping would corrupt
// a valid signature and cause false verification failures. Trimming is
// idempotent: trimOnly(trimOnly(s)) == trimOnly(s).
func trimOnly(s string) string {
	return strings.TrimSpace(s)
}
