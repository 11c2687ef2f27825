// File: internal/infra/db/postgres/subscription_store.go
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"merchant-payment-gateway/internal/domain"
	"merchant-payment-gateway/internal/domain/model"
	"merchant-payment-gateway/internal/domain/ports/repository"
)

var (
	_ repository.SubscriptionStore = (*subscriptionStore)(nil)
	_ repository.IdempotencyLedger = (*subscriptionStore)(nil)
)

// subscriptionStore persists subscriptions in Postgres. The unique constraint
// on transaction_id plus ON CONFLICT DO NOTHING gives the atomic conditional
// insert the at-most-once guarantee requires under true parallelism.
//
// Schema:
//
//	CREATE TABLE subscriptions (
//	  id             UUID PRIMARY KEY,
//	  plan_id        TEXT NOT NULL,
//	  amount         BIGINT NOT NULL,
//	  status         TEXT NOT NULL,
//	  transaction_id TEXT UNIQUE,
//	  created_at     TIMESTAMPTZ NOT NULL
//	);
type subscriptionStore struct{ pool *pgxpool.Pool }

func NewSubscriptionStore(pool *pgxpool.Pool) *subscriptionStore {
	return &subscriptionStore{pool: pool}
}

func (r *subscriptionStore) Save(ctx context.Context, rec *model.SubscriptionRecord) error {
	if rec == nil || rec.ID == "" {
		return domain.ErrInvalidArgument
	}
	const q = `
INSERT INTO subscriptions (id, plan_id, amount, status, transaction_id, created_at)
VALUES ($1,$2,$3,$4,NULLIF($5,''),$6)
ON CONFLICT (id) DO NOTHING;`
	if _, err := r.pool.Exec(ctx, q, rec.ID, rec.PlanID, rec.Amount, rec.Status, rec.TransactionID, rec.CreatedAt); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}
	return nil
}

func (r *subscriptionStore) FindByID(ctx context.Context, id string) (*model.SubscriptionRecord, error) {
	const q = `SELECT id, plan_id, amount, status, COALESCE(transaction_id,''), created_at FROM subscriptions WHERE id=$1;`
	return r.scanOne(ctx, q, id)
}

func (r *subscriptionStore) Lookup(ctx context.Context, transactionID string) (*model.SubscriptionRecord, error) {
	if transactionID == "" {
		return nil, domain.ErrInvalidArgument
	}
	const q = `SELECT id, plan_id, amount, status, COALESCE(transaction_id,''), created_at FROM subscriptions WHERE transaction_id=$1;`
	return r.scanOne(ctx, q, transactionID)
}

func (r *subscriptionStore) RecordIfAbsent(ctx context.Context, transactionID string, rec *model.SubscriptionRecord) (*model.SubscriptionRecord, bool, error) {
	if transactionID == "" || rec == nil || rec.ID == "" {
		return nil, false, domain.ErrInvalidArgument
	}
	const q = `
INSERT INTO subscriptions (id, plan_id, amount, status, transaction_id, created_at)
VALUES ($1,$2,$3,$4,$5,$6)
ON CONFLICT (transaction_id) DO NOTHING;`
	tag, err := r.pool.Exec(ctx, q, rec.ID, rec.PlanID, rec.Amount, rec.Status, transactionID, rec.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			// Unique violation on the primary key: the same record id was
			// reused with a different transaction id.
			return nil, false, domain.ErrAlreadyExists
		}
		return nil, false, fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}
	if tag.RowsAffected() == 1 {
		cp := *rec
		return &cp, true, nil
	}
	// Lost the race or a retry: somebody else owns this transaction id.
	existing, err := r.Lookup(ctx, transactionID)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

func (r *subscriptionStore) scanOne(ctx context.Context, q string, arg any) (*model.SubscriptionRecord, error) {
	rec := &model.SubscriptionRecord{}
	err := r.pool.QueryRow(ctx, q, arg).
		Scan(&rec.ID, &rec.PlanID, &rec.Amount, &rec.Status, &rec.TransactionID, &rec.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}
	return rec, nil
}
