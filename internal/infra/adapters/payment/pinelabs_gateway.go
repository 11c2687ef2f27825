// File: internal/infra/adapters/payment/pinelabs_gateway.go
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"merchant-payment-gateway/internal/domain"
	"merchant-payment-gateway/internal/domain/model"
	"merchant-payment-gateway/internal/domain/ports/adapter"
	"merchant-payment-gateway/internal/infra/security"
)

var _ adapter.PaymentGateway = (*PineLabsGateway)(nil)

const defaultPineLabsBaseURL = "https://api.pluralonline.com/api/v2"

// PineLabsGateway implements adapter.PaymentGateway against the PineLabs
// order REST API. The signed message for payment verification includes the
// merchant id, so a signature computed for another merchant never verifies.
type PineLabsGateway struct {
	merchantID    string
	secret        string
	webhookSecret string
	baseURL       string
	client        *http.Client
}

func NewPineLabsGateway(merchantID, secret, webhookSecret, baseURL string) (*PineLabsGateway, error) {
	if merchantID == "" || secret == "" {
		return nil, errors.New("pinelabs merchant id and secret are required")
	}
	if baseURL == "" {
		baseURL = defaultPineLabsBaseURL
	}
	return &PineLabsGateway{
		merchantID:    merchantID,
		secret:        secret,
		webhookSecret: webhookSecret,
		baseURL:       baseURL,
		client:        &http.Client{Timeout: 15 * time.Second},
	}, nil
}

func (g *PineLabsGateway) Name() model.Provider { return model.ProviderPineLabs }

func (g *PineLabsGateway) ProviderKey() string { return g.merchantID }

// CreateOrder calls the PineLabs order create endpoint and returns the
// provider order id.
func (g *PineLabsGateway) CreateOrder(ctx context.Context, amountMinorUnits int64, currency string, meta map[string]string) (*model.Order, error) {
	if amountMinorUnits <= 0 || currency == "" {
		return nil, domain.ErrInvalidArgument
	}
	payload := map[string]any{
		"merchant_id": g.merchantID,
		"amount":      amountMinorUnits,
		"currency":    currency,
	}
	if len(meta) > 0 {
		payload["merchant_data"] = meta
	}
	b, _ := json.Marshal(payload)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/order/create", bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("%w: pinelabs order create: %v", domain.ErrProviderError, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.secret)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: pinelabs order create: %v", domain.ErrProviderError, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: pinelabs order create: http %d", domain.ErrProviderError, resp.StatusCode)
	}
	var out struct {
		OrderID string `json:"order_id"`
		Status  string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: pinelabs order create: %v", domain.ErrProviderError, err)
	}
	if out.OrderID == "" {
		return nil, fmt.Errorf("%w: pinelabs order create: missing order id", domain.ErrProviderError)
	}
	return &model.Order{
		ID:          out.OrderID,
		Amount:      amountMinorUnits,
		Currency:    currency,
		Provider:    model.ProviderPineLabs,
		ProviderKey: g.merchantID,
	}, nil
}

// VerifyPayment checks hex(HMAC-SHA256(secret, "{orderId}|{paymentId}|{merchantId}")).
// The merchant id is part of the signed message: a signature computed over
// only order and payment ids is always rejected.
func (g *PineLabsGateway) VerifyPayment(orderID, paymentID, signature string) bool {
	if orderID == "" || paymentID == "" || signature == "" {
		return false
	}
	msg := orderID + "|" + paymentID + "|" + g.merchantID
	return security.VerifyHMAC(g.secret, msg, signature).OK()
}

// VerifyWebhook checks a raw-body signature with the webhook secret, falling
// back to the account secret when no dedicated secret is configured.
func (g *PineLabsGateway) VerifyWebhook(body []byte, signature string) bool {
	if signature == "" {
		return false
	}
	secret := g.webhookSecret
	if secret == "" {
		secret = g.secret
	}
	return security.VerifyHMAC(secret, string(body), signature).OK()
}
