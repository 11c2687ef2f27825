// File: internal/usecase/subscription_uc.go
package usecase

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"merchant-payment-gateway/internal/domain"
	"merchant-payment-gateway/internal/domain/model"
	"merchant-payment-gateway/internal/domain/ports/repository"
	"merchant-payment-gateway/internal/infra/metrics"
)

// Compile-time check
var _ SubscriptionUseCase = (*subscriptionUC)(nil)

// SubscriptionUseCase is the single place subscription state is created.
// It never sees card data; by the time Issue runs, payment verification has
// already succeeded.
type SubscriptionUseCase interface {
	// Issue creates a subscription for a verified payment. When transactionID
	// is non-empty the idempotency ledger arbitrates: a duplicate transaction
	// returns the previously issued record and created=false, with no new
	// side effects.
	Issue(ctx context.Context, planID string, amountMinorUnits int64, transactionID string) (*model.SubscriptionRecord, bool, error)
	FindByID(ctx context.Context, id string) (*model.SubscriptionRecord, error)
}

type subscriptionUC struct {
	store  repository.SubscriptionStore
	ledger repository.IdempotencyLedger
	log    *zerolog.Logger
}

func NewSubscriptionUseCase(store repository.SubscriptionStore, ledger repository.IdempotencyLedger, logger *zerolog.Logger) *subscriptionUC {
	return &subscriptionUC{store: store, ledger: ledger, log: logger}
}

func (u *subscriptionUC) Issue(ctx context.Context, planID string, amountMinorUnits int64, transactionID string) (*model.SubscriptionRecord, bool, error) {
	if planID == "" || amountMinorUnits <= 0 {
		return nil, false, domain.ErrInvalidArgument
	}
	rec, err := model.NewSubscriptionRecord(uuid.NewString(), planID, amountMinorUnits, transactionID)
	if err != nil {
		return nil, false, err
	}

	if transactionID == "" {
		if err := u.store.Save(ctx, rec); err != nil {
			return nil, false, err
		}
		metrics.IncSubscriptionIssued(planID)
		return rec, true, nil
	}

	final, created, err := u.ledger.RecordIfAbsent(ctx, transactionID, rec)
	if err != nil {
		return nil, false, err
	}
	if created {
		metrics.IncSubscriptionIssued(planID)
		u.log.Info().
			Str("subscription_id", final.ID).
			Str("plan_id", planID).
			Int64("amount", amountMinorUnits).
			Msg("subscription issued")
	} else {
		u.log.Debug().
			Str("subscription_id", final.ID).
			Msg("duplicate transaction, returning existing subscription")
	}
	return final, created, nil
}

func (u *subscriptionUC) FindByID(ctx context.Context, id string) (*model.SubscriptionRecord, error) {
	if id == "" {
		return nil, domain.ErrInvalidArgument
	}
	return u.store.FindByID(ctx, id)
}
