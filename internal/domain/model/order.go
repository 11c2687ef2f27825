package model

import "strings"

// Provider identifies a supported payment provider.
type Provider string

const (
	ProviderRazorpay Provider = "razorpay"
	ProviderPineLabs Provider = "pinelabs"
)

// ParseProvider normalizes a provider tag (case-insensitive).
func ParseProvider(s string) (Provider, bool) {
	switch Provider(strings.ToLower(strings.TrimSpace(s))) {
	case ProviderRazorpay:
		return ProviderRazorpay, true
	case ProviderPineLabs:
		return ProviderPineLabs, true
	}
	return "", false
}

// Order is the provider-side payment intent surfaced to the checkout client.
// It is request-scoped; the provider is the source of truth and nothing here
// is persisted.
type Order struct {
	ID          string   `json:"orderId"`
	Amount      int64    `json:"amount"` // minor currency units (e.g. paise)
	Currency    string   `json:"currency"`
	Provider    Provider `json:"provider"`
	ProviderKey string   `json:"providerKey"` // publishable key / merchant id, never a secret
}

// VerificationRequest carries a client-submitted payment verification.
// OrderID, PaymentID and Signature are cryptographic material: they must only
// ever be whitespace-trimmed, any other sanitization corrupts valid signatures.
type VerificationRequest struct {
	OrderID   string   `json:"orderId"`
	PaymentID string   `json:"paymentId"`
	Signature string   `json:"signature"`
	Provider  Provider `json:"provider"`
	PlanID    string   `json:"planId"`
	Amount    int64    `json:"amount"`
}
