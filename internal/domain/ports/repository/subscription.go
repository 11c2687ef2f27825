package repository

import (
	"context"

	"merchant-payment-gateway/internal/domain/model"
)

// SubscriptionStore persists issued subscription records.
type SubscriptionStore interface {
	Save(ctx context.Context, rec *model.SubscriptionRecord) error
	FindByID(ctx context.Context, id string) (*model.SubscriptionRecord, error)
}

// IdempotencyLedger maps a provider transaction id to the subscription record
// it produced. RecordIfAbsent must be atomic: under concurrent calls with the
// same transaction id exactly one caller observes created=true, every other
// caller gets the winner's record. This is what keeps webhook redelivery and
// client double-submits from issuing a second subscription.
type IdempotencyLedger interface {
	// Lookup returns the record previously bound to transactionID, or
	// domain.ErrNotFound.
	Lookup(ctx context.Context, transactionID string) (*model.SubscriptionRecord, error)

	// RecordIfAbsent binds rec to transactionID unless a binding already
	// exists, persisting rec as if Save had been called. Returns the
	// surviving record and whether this call created it.
	RecordIfAbsent(ctx context.Context, transactionID string, rec *model.SubscriptionRecord) (*model.SubscriptionRecord, bool, error)
}
