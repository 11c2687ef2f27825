// File: internal/usecase/payment_uc.go
package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"merchant-payment-gateway/internal/domain"
	"merchant-payment-gateway/internal/domain/model"
	"merchant-payment-gateway/internal/domain/ports/adapter"
	"merchant-payment-gateway/internal/domain/ports/repository"
	"merchant-payment-gateway/internal/infra/metrics"
)

// Compile-time check
var _ PaymentUseCase = (*paymentUC)(nil)

// GatewayResolver maps provider tags to configured gateways. Satisfied by the
// adapter registry built at startup.
type GatewayResolver interface {
	Get(p model.Provider) (adapter.PaymentGateway, error)
	Default() adapter.PaymentGateway
}

type PaymentUseCase interface {
	// Initiate creates a provider order for a plan purchase using the
	// configured default provider.
	Initiate(ctx context.Context, planID string, amountMinorUnits int64, billingCycle string) (*model.Order, error)
	// Verify checks a client-submitted payment signature and, on success,
	// issues the subscription idempotently. Returns ErrVerificationFailed
	// when the signature does not verify.
	Verify(ctx context.Context, req *model.VerificationRequest) (*model.SubscriptionRecord, error)
	// Capture records a provider-confirmed payment from a webhook whose
	// signature has already been verified by the caller. Safe under
	// at-least-once delivery.
	Capture(ctx context.Context, provider model.Provider, paymentID, planID string, amountMinorUnits int64) (*model.SubscriptionRecord, bool, error)
}

type paymentUC struct {
	gateways GatewayResolver
	plans    PlanUseCase
	subs     SubscriptionUseCase
	ledger   repository.IdempotencyLedger
	currency string
	log      *zerolog.Logger
}

func NewPaymentUseCase(gateways GatewayResolver, plans PlanUseCase, subs SubscriptionUseCase, ledger repository.IdempotencyLedger, currency string, logger *zerolog.Logger) *paymentUC {
	return &paymentUC{
		gateways: gateways,
		plans:    plans,
		subs:     subs,
		ledger:   ledger,
		currency: currency,
		log:      logger,
	}
}

func (u *paymentUC) Initiate(ctx context.Context, planID string, amountMinorUnits int64, billingCycle string) (*model.Order, error) {
	price, err := u.plans.Price(ctx, planID, billingCycle)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown plan %q", domain.ErrInvalidArgument, planID)
		}
		return nil, err
	}
	if amountMinorUnits != price {
		return nil, fmt.Errorf("%w: amount %d does not match plan price %d", domain.ErrInvalidArgument, amountMinorUnits, price)
	}

	gw := u.gateways.Default()
	order, err := gw.CreateOrder(ctx, amountMinorUnits, u.currency, map[string]string{
		"plan_id":       planID,
		"billing_cycle": billingCycle,
	})
	if err != nil {
		metrics.IncPayment(string(gw.Name()), "failed")
		return nil, err
	}
	metrics.IncPayment(string(gw.Name()), "initiated")
	u.log.Info().
		Str("provider", string(gw.Name())).
		Str("order_id", order.ID).
		Str("plan_id", planID).
		Int64("amount", amountMinorUnits).
		Msg("payment initiated")
	return order, nil
}

func (u *paymentUC) Verify(ctx context.Context, req *model.VerificationRequest) (*model.SubscriptionRecord, error) {
	if req == nil || req.PlanID == "" || req.Amount <= 0 {
		return nil, domain.ErrInvalidArgument
	}
	gw, err := u.gateways.Get(req.Provider)
	if err != nil {
		return nil, err
	}

	// Signature verification is unconditionally first. Nothing below this
	// check runs unless it returns true.
	if !gw.VerifyPayment(req.OrderID, req.PaymentID, req.Signature) {
		metrics.IncPayment(string(req.Provider), "failed")
		return nil, domain.ErrVerificationFailed
	}

	if existing, err := u.ledger.Lookup(ctx, req.PaymentID); err == nil {
		return existing, nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	rec, created, err := u.subs.Issue(ctx, req.PlanID, req.Amount, req.PaymentID)
	if err != nil {
		return nil, err
	}
	if created {
		metrics.IncPayment(string(req.Provider), "succeeded")
		metrics.AddPaymentRevenue(u.currency, req.Amount)
	}
	return rec, nil
}

func (u *paymentUC) Capture(ctx context.Context, provider model.Provider, paymentID, planID string, amountMinorUnits int64) (*model.SubscriptionRecord, bool, error) {
	if paymentID == "" || planID == "" || amountMinorUnits <= 0 {
		return nil, false, domain.ErrInvalidArgument
	}
	if existing, err := u.ledger.Lookup(ctx, paymentID); err == nil {
		return existing, false, nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, false, err
	}

	rec, created, err := u.subs.Issue(ctx, planID, amountMinorUnits, paymentID)
	if err != nil {
		return nil, false, err
	}
	if created {
		metrics.IncPayment(string(provider), "succeeded")
		metrics.AddPaymentRevenue(u.currency, amountMinorUnits)
	}
	return rec, created, nil
}
