// File: internal/infra/adapters/payment/razorpay_gateway.go
package payment

import (
	"context"
	"errors"
	"fmt"

	razorpay "github.com/razorpay/razorpay-go"

	"merchant-payment-gateway/internal/domain"
	"merchant-payment-gateway/internal/domain/model"
	"merchant-payment-gateway/internal/domain/ports/adapter"
	"merchant-payment-gateway/internal/infra/security"
)

var _ adapter.PaymentGateway = (*RazorpayGateway)(nil)

// RazorpayGateway implements adapter.PaymentGateway on top of the official
// Razorpay SDK for order creation. Signature verification is local HMAC work
// and never calls out.
type RazorpayGateway struct {
	keyID         string
	keySecret     string
	webhookSecret string
	client        *razorpay.Client
}

func NewRazorpayGateway(keyID, keySecret, webhookSecret string) (*RazorpayGateway, error) {
	if keyID == "" || keySecret == "" {
		return nil, errors.New("razorpay key id and secret are required")
	}
	return &RazorpayGateway{
		keyID:         keyID,
		keySecret:     keySecret,
		webhookSecret: webhookSecret,
		client:        razorpay.NewClient(keyID, keySecret),
	}, nil
}

func (g *RazorpayGateway) Name() model.Provider { return model.ProviderRazorpay }

func (g *RazorpayGateway) ProviderKey() string { return g.keyID }

// CreateOrder registers an order with Razorpay. The returned order id is what
// the provider references in its checkout callback and webhook events.
func (g *RazorpayGateway) CreateOrder(ctx context.Context, amountMinorUnits int64, currency string, meta map[string]string) (*model.Order, error) {
	if amountMinorUnits <= 0 || currency == "" {
		return nil, domain.ErrInvalidArgument
	}
	data := map[string]interface{}{
		"amount":          amountMinorUnits,
		"currency":        currency,
		"payment_capture": 1,
	}
	if len(meta) > 0 {
		notes := make(map[string]interface{}, len(meta))
		for k, v := range meta {
			notes[k] = v
		}
		data["notes"] = notes
	}
	body, err := g.client.Order.Create(data, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: razorpay order create: %v", domain.ErrProviderError, err)
	}
	id, ok := body["id"].(string)
	if !ok || id == "" {
		return nil, fmt.Errorf("%w: razorpay order create: missing order id", domain.ErrProviderError)
	}
	return &model.Order{
		ID:          id,
		Amount:      amountMinorUnits,
		Currency:    currency,
		Provider:    model.ProviderRazorpay,
		ProviderKey: g.keyID,
	}, nil
}

// VerifyPayment checks hex(HMAC-SHA256(keySecret, "{orderId}|{paymentId}"))
// against the client-submitted signature.
func (g *RazorpayGateway) VerifyPayment(orderID, paymentID, signature string) bool {
	if orderID == "" || paymentID == "" || signature == "" {
		return false
	}
	msg := orderID + "|" + paymentID
	return security.VerifyHMAC(g.keySecret, msg, signature).OK()
}

// VerifyWebhook checks the signature Razorpay computes over the raw request
// body. The dedicated webhook secret is used when configured, the account
// secret otherwise.
func (g *RazorpayGateway) VerifyWebhook(body []byte, signature string) bool {
	if signature == "" {
		return false
	}
	secret := g.webhookSecret
	if secret == "" {
		secret = g.keySecret
	}
	return security.VerifyHMAC(secret, string(body), signature).OK()
}
