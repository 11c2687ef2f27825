package adapter

import (
	"context"

	"merchant-payment-gateway/internal/domain/model"
)

// PaymentGateway is the hex port for payment providers.
//
// CreateOrder is the only method that performs I/O. Both verify methods are
// pure functions over their inputs plus the gateway's server-held secret:
// deterministic, repeat-safe, and they fail closed on any internal error.
type PaymentGateway interface {
	Name() model.Provider

	// CreateOrder registers a payment intent with the provider and returns the
	// order the checkout client needs to collect payment. Provider or network
	// failures are wrapped as domain.ErrProviderError.
	CreateOrder(ctx context.Context, amountMinorUnits int64, currency string, meta map[string]string) (*model.Order, error)

	// ProviderKey returns the provider's public identifier (publishable key or
	// merchant id). Never a secret.
	ProviderKey() string

	// VerifyPayment checks a client-submitted payment signature against the
	// provider's signing scheme.
	VerifyPayment(orderID, paymentID, signature string) bool

	// VerifyWebhook checks a provider-pushed signature computed over the raw
	// request body, keyed by the webhook secret (account secret if none).
	VerifyWebhook(body []byte, signature string) bool
}
