package model

import (
	"time"

	"merchant-payment-gateway/internal/domain"
)

type SubscriptionStatus string

const (
	SubscriptionStatusCompleted SubscriptionStatus = "completed"
	SubscriptionStatusPending   SubscriptionStatus = "pending" // reserved
	SubscriptionStatusFailed    SubscriptionStatus = "failed"  // reserved
)

// SubscriptionRecord is created exactly once per successfully verified
// payment and never mutated afterwards. TransactionID links the record to the
// provider payment that paid for it; it is the idempotency key.
type SubscriptionRecord struct {
	ID            string             `json:"subscriptionId"` // UUIDv4
	PlanID        string             `json:"planId"`
	Amount        int64              `json:"amount"` // minor currency units
	Status        SubscriptionStatus `json:"status"`
	TransactionID string             `json:"-"`
	CreatedAt     time.Time          `json:"createdAt"`
}

// NewSubscriptionRecord validates and constructs a completed record.
func NewSubscriptionRecord(id, planID string, amount int64, transactionID string) (*SubscriptionRecord, error) {
	if id == "" || planID == "" || amount <= 0 {
		return nil, domain.ErrInvalidArgument
	}
	return &SubscriptionRecord{
		ID:            id,
		PlanID:        planID,
		Amount:        amount,
		Status:        SubscriptionStatusCompleted,
		TransactionID: transactionID,
		CreatedAt:     time.Now(),
	}, nil
}
