package payment

import (
	"context"
	"fmt"
	"sync"

	"merchant-payment-gateway/internal/domain/model"
	"merchant-payment-gateway/internal/domain/ports/adapter"
	"merchant-payment-gateway/internal/infra/security"
)

var _ adapter.PaymentGateway = (*NoopPaymentGateway)(nil)

// NoopPaymentGateway is a simple in-memory gateway to use in tests. It signs
// with a fixed secret using the Razorpay message shape so tests can compute
// matching signatures.
type NoopPaymentGateway struct {
	mu     sync.Mutex
	seq    int64
	Secret string
	// FailOrders makes CreateOrder return a provider error.
	FailOrders bool
}

func NewNoopPaymentGateway(secret string) *NoopPaymentGateway {
	return &NoopPaymentGateway{Secret: secret}
}

func (g *NoopPaymentGateway) Name() model.Provider { return model.ProviderRazorpay }

func (g *NoopPaymentGateway) ProviderKey() string { return "noop_key" }

func (g *NoopPaymentGateway) CreateOrder(ctx context.Context, amountMinorUnits int64, currency string, meta map[string]string) (*model.Order, error) {
	if g.FailOrders {
		return nil, fmt.Errorf("noop: order creation disabled")
	}
	g.mu.Lock()
	g.seq++
	id := fmt.Sprintf("order_noop_%d", g.seq)
	g.mu.Unlock()
	return &model.Order{
		ID:          id,
		Amount:      amountMinorUnits,
		Currency:    currency,
		Provider:    model.ProviderRazorpay,
		ProviderKey: g.ProviderKey(),
	}, nil
}

func (g *NoopPaymentGateway) VerifyPayment(orderID, paymentID, signature string) bool {
	if orderID == "" || paymentID == "" || signature == "" {
		return false
	}
	return security.VerifyHMAC(g.Secret, orderID+"|"+paymentID, signature).OK()
}

func (g *NoopPaymentGateway) VerifyWebhook(body []byte, signature string) bool {
	if signature == "" {
		return false
	}
	return security.VerifyHMAC(g.Secret, string(body), signature).OK()
}
