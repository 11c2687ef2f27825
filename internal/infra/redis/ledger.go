// File: internal/infra/redis/ledger.go
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"merchant-payment-gateway/internal/domain"
	"merchant-payment-gateway/internal/domain/model"
	"merchant-payment-gateway/internal/domain/ports/repository"
)

var (
	_ repository.SubscriptionStore = (*Ledger)(nil)
	_ repository.IdempotencyLedger = (*Ledger)(nil)
)

const (
	txKeyPrefix  = "ledger:tx:"
	subKeyPrefix = "subscription:"
)

// Ledger backs the idempotency ledger and subscription store with Redis.
// RecordIfAbsent relies on SETNX, so the at-most-once guarantee holds across
// multiple gateway processes sharing one Redis.
type Ledger struct {
	cli *redis.Client
}

func NewLedger(c *Client) *Ledger {
	return &Ledger{cli: c.cli}
}

func (l *Ledger) Save(ctx context.Context, rec *model.SubscriptionRecord) error {
	if rec == nil || rec.ID == "" {
		return domain.ErrInvalidArgument
	}
	b, err := marshalRecord(rec)
	if err != nil {
		return err
	}
	if err := l.cli.Set(ctx, subKeyPrefix+rec.ID, b, 0).Err(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}
	return nil
}

func (l *Ledger) FindByID(ctx context.Context, id string) (*model.SubscriptionRecord, error) {
	raw, err := l.cli.Get(ctx, subKeyPrefix+id).Result()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}
	return unmarshalRecord([]byte(raw))
}

func (l *Ledger) Lookup(ctx context.Context, transactionID string) (*model.SubscriptionRecord, error) {
	if transactionID == "" {
		return nil, domain.ErrInvalidArgument
	}
	raw, err := l.cli.Get(ctx, txKeyPrefix+transactionID).Result()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}
	return unmarshalRecord([]byte(raw))
}

func (l *Ledger) RecordIfAbsent(ctx context.Context, transactionID string, rec *model.SubscriptionRecord) (*model.SubscriptionRecord, bool, error) {
	if transactionID == "" || rec == nil || rec.ID == "" {
		return nil, false, domain.ErrInvalidArgument
	}
	b, err := marshalRecord(rec)
	if err != nil {
		return nil, false, err
	}
	ok, err := l.cli.SetNX(ctx, txKeyPrefix+transactionID, b, 0).Result()
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}
	if !ok {
		existing, err := l.Lookup(ctx, transactionID)
		if err != nil {
			return nil, false, err
		}
		return existing, false, nil
	}
	if err := l.Save(ctx, rec); err != nil {
		return nil, false, err
	}
	cp := *rec
	return &cp, true, nil
}

// ledgerRecord mirrors model.SubscriptionRecord with the transaction id
// included, since the model hides it from API JSON.
type ledgerRecord struct {
	ID            string                   `json:"id"`
	PlanID        string                   `json:"plan_id"`
	Amount        int64                    `json:"amount"`
	Status        model.SubscriptionStatus `json:"status"`
	TransactionID string                   `json:"transaction_id"`
	CreatedAt     int64                    `json:"created_at"`
}

func marshalRecord(rec *model.SubscriptionRecord) ([]byte, error) {
	b, err := json.Marshal(ledgerRecord{
		ID:            rec.ID,
		PlanID:        rec.PlanID,
		Amount:        rec.Amount,
		Status:        rec.Status,
		TransactionID: rec.TransactionID,
		CreatedAt:     rec.CreatedAt.Unix(),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}
	return b, nil
}

func unmarshalRecord(b []byte) (*model.SubscriptionRecord, error) {
	var lr ledgerRecord
	if err := json.Unmarshal(b, &lr); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}
	return &model.SubscriptionRecord{
		ID:            lr.ID,
		PlanID:        lr.PlanID,
		Amount:        lr.Amount,
		Status:        lr.Status,
		TransactionID: lr.TransactionID,
		CreatedAt:     time.Unix(lr.CreatedAt, 0),
	}, nil
}
