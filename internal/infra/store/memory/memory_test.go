//go:build !integration

package memory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"

	"merchant-payment-gateway/internal/domain"
	"merchant-payment-gateway/internal/domain/model"
)

func newRecord(t *testing.T, txID string) *model.SubscriptionRecord {
	t.Helper()
	rec, err := model.NewSubscriptionRecord(uuid.NewString(), "plan-pro", 49900, txID)
	if err != nil {
		t.Fatalf("NewSubscriptionRecord: %v", err)
	}
	return rec
}

func TestStore_SaveAndFind(t *testing.T) {
	ctx := context.Background()
	s := New()
	rec := newRecord(t, "pay_1")

	if err := s.Save(ctx, rec); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := s.FindByID(ctx, rec.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if got.ID != rec.ID || got.PlanID != "plan-pro" || got.Amount != 49900 {
		t.Errorf("unexpected record: %+v", got)
	}

	if _, err := s.FindByID(ctx, "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_RecordIfAbsent(t *testing.T) {
	ctx := context.Background()

	t.Run("first call creates, later calls return the winner", func(t *testing.T) {
		s := New()
		first := newRecord(t, "pay_dup")

		got, created, err := s.RecordIfAbsent(ctx, "pay_dup", first)
		if err != nil || !created {
			t.Fatalf("expected created=true, got created=%v err=%v", created, err)
		}
		if got.ID != first.ID {
			t.Errorf("expected winner id %s, got %s", first.ID, got.ID)
		}

		for i := 0; i < 3; i++ {
			loser := newRecord(t, "pay_dup")
			got, created, err := s.RecordIfAbsent(ctx, "pay_dup", loser)
			if err != nil {
				t.Fatalf("RecordIfAbsent: %v", err)
			}
			if created {
				t.Fatal("duplicate transaction id must not create a second record")
			}
			if got.ID != first.ID {
				t.Errorf("expected existing id %s, got %s", first.ID, got.ID)
			}
		}
		if s.Len() != 1 {
			t.Errorf("ledger size = %d, want 1", s.Len())
		}
	})

	t.Run("ledger entries are visible via Lookup", func(t *testing.T) {
		s := New()
		rec := newRecord(t, "pay_2")
		if _, _, err := s.RecordIfAbsent(ctx, "pay_2", rec); err != nil {
			t.Fatalf("RecordIfAbsent: %v", err)
		}
		got, err := s.Lookup(ctx, "pay_2")
		if err != nil {
			t.Fatalf("Lookup: %v", err)
		}
		if got.ID != rec.ID {
			t.Errorf("Lookup returned %s, want %s", got.ID, rec.ID)
		}
		if _, err := s.Lookup(ctx, "pay_missing"); !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("at most one winner under concurrency", func(t *testing.T) {
		s := New()
		const workers = 32
		var wg sync.WaitGroup
		createdCount := make(chan bool, workers)

		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				rec := newRecord(t, "pay_race")
				_, created, err := s.RecordIfAbsent(ctx, "pay_race", rec)
				if err != nil {
					t.Error(err)
					return
				}
				createdCount <- created
			}()
		}
		wg.Wait()
		close(createdCount)

		winners := 0
		for created := range createdCount {
			if created {
				winners++
			}
		}
		if winners != 1 {
			t.Errorf("expected exactly one winner, got %d", winners)
		}
		if s.Len() != 1 {
			t.Errorf("ledger size = %d, want 1", s.Len())
		}
	})
}
