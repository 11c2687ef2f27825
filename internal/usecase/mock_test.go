package usecase_test

import (
	"context"
	"io"
	"sync"

	"github.com/rs/zerolog"

	"merchant-payment-gateway/internal/domain"
	"merchant-payment-gateway/internal/domain/model"
	"merchant-payment-gateway/internal/domain/ports/adapter"
)

func newTestLogger() *zerolog.Logger {
	l := zerolog.New(io.Discard)
	return &l
}

// MockPaymentGateway counts calls so tests can assert ordering properties.
type MockPaymentGateway struct {
	mu sync.Mutex

	ProviderName  model.Provider
	VerifyResult  bool
	CreateErr     error
	VerifyCalls   int
	CreatedOrders int
}

var _ adapter.PaymentGateway = (*MockPaymentGateway)(nil)

func (m *MockPaymentGateway) Name() model.Provider {
	if m.ProviderName == "" {
		return model.ProviderRazorpay
	}
	return m.ProviderName
}

func (m *MockPaymentGateway) ProviderKey() string { return "mock_key" }

func (m *MockPaymentGateway) CreateOrder(ctx context.Context, amount int64, currency string, meta map[string]string) (*model.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}
	m.CreatedOrders++
	return &model.Order{
		ID:          "order_mock",
		Amount:      amount,
		Currency:    currency,
		Provider:    m.Name(),
		ProviderKey: m.ProviderKey(),
	}, nil
}

func (m *MockPaymentGateway) VerifyPayment(orderID, paymentID, signature string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.VerifyCalls++
	return m.VerifyResult
}

func (m *MockPaymentGateway) VerifyWebhook(body []byte, signature string) bool {
	return m.VerifyResult
}

// MockResolver serves a single gateway for every provider tag.
type MockResolver struct {
	Gateway *MockPaymentGateway
}

func (r *MockResolver) Get(p model.Provider) (adapter.PaymentGateway, error) {
	return r.Gateway, nil
}

func (r *MockResolver) Default() adapter.PaymentGateway { return r.Gateway }

// CountingStore wraps the in-memory store to count issuance side effects.
type CountingStore struct {
	mu     sync.Mutex
	subs   map[string]*model.SubscriptionRecord
	ledger map[string]string

	SaveCalls   int
	RecordCalls int
}

func NewCountingStore() *CountingStore {
	return &CountingStore{
		subs:   make(map[string]*model.SubscriptionRecord),
		ledger: make(map[string]string),
	}
}

func (s *CountingStore) Save(ctx context.Context, rec *model.SubscriptionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.SaveCalls++
	cp := *rec
	s.subs[rec.ID] = &cp
	return nil
}

func (s *CountingStore) FindByID(ctx context.Context, id string) (*model.SubscriptionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.subs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *rec
	return &cp, nil
}

func (s *CountingStore) Lookup(ctx context.Context, transactionID string) (*model.SubscriptionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	subID, ok := s.ledger[transactionID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *s.subs[subID]
	return &cp, nil
}

func (s *CountingStore) RecordIfAbsent(ctx context.Context, transactionID string, rec *model.SubscriptionRecord) (*model.SubscriptionRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.RecordCalls++
	if subID, ok := s.ledger[transactionID]; ok {
		cp := *s.subs[subID]
		return &cp, false, nil
	}
	cp := *rec
	s.subs[rec.ID] = &cp
	s.ledger[transactionID] = rec.ID
	out := cp
	return &out, true, nil
}

func (s *CountingStore) LedgerLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ledger)
}
