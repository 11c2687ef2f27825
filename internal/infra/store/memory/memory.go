// File: internal/infra/store/memory/memory.go
package memory

import (
	"context"
	"sync"

	"merchant-payment-gateway/internal/domain"
	"merchant-payment-gateway/internal/domain/model"
	"merchant-payment-gateway/internal/domain/ports/repository"
)

var (
	_ repository.SubscriptionStore = (*Store)(nil)
	_ repository.IdempotencyLedger = (*Store)(nil)
)

// Store keeps subscriptions and the idempotency ledger in process memory.
// The mutex is held across the whole check-and-create in RecordIfAbsent, so
// the at-most-once guarantee holds under Go's concurrent HTTP server, not
// just under a single-threaded request model.
type Store struct {
	mu     sync.Mutex
	subs   map[string]*model.SubscriptionRecord // subscription id -> record
	ledger map[string]string                    // transaction id -> subscription id
}

func New() *Store {
	return &Store{
		subs:   make(map[string]*model.SubscriptionRecord),
		ledger: make(map[string]string),
	}
}

func (s *Store) Save(ctx context.Context, rec *model.SubscriptionRecord) error {
	if rec == nil || rec.ID == "" {
		return domain.ErrInvalidArgument
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *rec
	s.subs[rec.ID] = &cp
	return nil
}

func (s *Store) FindByID(ctx context.Context, id string) (*model.SubscriptionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.subs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *rec
	return &cp, nil
}

func (s *Store) Lookup(ctx context.Context, transactionID string) (*model.SubscriptionRecord, error) {
	if transactionID == "" {
		return nil, domain.ErrInvalidArgument
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	subID, ok := s.ledger[transactionID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	rec, ok := s.subs[subID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *rec
	return &cp, nil
}

func (s *Store) RecordIfAbsent(ctx context.Context, transactionID string, rec *model.SubscriptionRecord) (*model.SubscriptionRecord, bool, error) {
	if transactionID == "" || rec == nil || rec.ID == "" {
		return nil, false, domain.ErrInvalidArgument
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if subID, ok := s.ledger[transactionID]; ok {
		if existing, ok := s.subs[subID]; ok {
			cp := *existing
			return &cp, false, nil
		}
		return nil, false, domain.ErrStorage
	}
	cp := *rec
	s.subs[rec.ID] = &cp
	s.ledger[transactionID] = rec.ID
	out := cp
	return &out, true, nil
}

// Len reports how many ledger entries exist. Test helper.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ledger)
}
