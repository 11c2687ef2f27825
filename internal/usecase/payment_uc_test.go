//go:build !integration

package usecase_test

import (
	"context"
	"errors"
	"testing"

	"merchant-payment-gateway/internal/config"
	"merchant-payment-gateway/internal/domain"
	"merchant-payment-gateway/internal/domain/model"
	"merchant-payment-gateway/internal/usecase"
)

// paymentUCTestDeps holds all the mock dependencies for the payment use case tests.
type paymentUCTestDeps struct {
	gateway *MockPaymentGateway
	store   *CountingStore
	plans   usecase.PlanUseCase
	subs    usecase.SubscriptionUseCase
	uc      usecase.PaymentUseCase
}

func newPaymentUCDeps(t *testing.T) *paymentUCTestDeps {
	t.Helper()
	plans, err := usecase.NewPlanUseCase([]config.PlanConfig{
		{ID: "plan-pro", Name: "Pro", Prices: map[string]int64{"monthly": 49900, "yearly": 499000}},
	}, "INR")
	if err != nil {
		t.Fatalf("NewPlanUseCase: %v", err)
	}
	deps := &paymentUCTestDeps{
		gateway: &MockPaymentGateway{VerifyResult: true},
		store:   NewCountingStore(),
		plans:   plans,
	}
	deps.subs = usecase.NewSubscriptionUseCase(deps.store, deps.store, newTestLogger())
	deps.uc = usecase.NewPaymentUseCase(&MockResolver{Gateway: deps.gateway}, deps.plans, deps.subs, deps.store, "INR", newTestLogger())
	return deps
}

func validRequest() *model.VerificationRequest {
	return &model.VerificationRequest{
		OrderID:   "order_1",
		PaymentID: "pay_1",
		Signature: "sig",
		Provider:  model.ProviderRazorpay,
		PlanID:    "plan-pro",
		Amount:    49900,
	}
}

func TestPaymentUseCase_Initiate(t *testing.T) {
	ctx := context.Background()

	t.Run("creates an order for a priced plan", func(t *testing.T) {
		deps := newPaymentUCDeps(t)
		order, err := deps.uc.Initiate(ctx, "plan-pro", 49900, "monthly")
		if err != nil {
			t.Fatalf("Initiate: %v", err)
		}
		if order.ID == "" || order.Amount != 49900 {
			t.Errorf("unexpected order %+v", order)
		}
		if deps.gateway.CreatedOrders != 1 {
			t.Errorf("expected 1 order created, got %d", deps.gateway.CreatedOrders)
		}
	})

	t.Run("rejects an unknown plan", func(t *testing.T) {
		deps := newPaymentUCDeps(t)
		_, err := deps.uc.Initiate(ctx, "plan-missing", 49900, "monthly")
		if !errors.Is(err, domain.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
		if deps.gateway.CreatedOrders != 0 {
			t.Error("no order may be created for an invalid plan")
		}
	})

	t.Run("rejects an amount that does not match the plan price", func(t *testing.T) {
		deps := newPaymentUCDeps(t)
		_, err := deps.uc.Initiate(ctx, "plan-pro", 100, "monthly")
		if !errors.Is(err, domain.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("surfaces provider failures", func(t *testing.T) {
		deps := newPaymentUCDeps(t)
		deps.gateway.CreateErr = domain.ErrProviderError
		_, err := deps.uc.Initiate(ctx, "plan-pro", 49900, "monthly")
		if !errors.Is(err, domain.ErrProviderError) {
			t.Errorf("expected ErrProviderError, got %v", err)
		}
	})
}

func TestPaymentUseCase_Verify(t *testing.T) {
	ctx := context.Background()

	t.Run("issues a subscription after a true signature check", func(t *testing.T) {
		deps := newPaymentUCDeps(t)
		rec, err := deps.uc.Verify(ctx, validRequest())
		if err != nil {
			t.Fatalf("Verify: %v", err)
		}
		if rec.PlanID != "plan-pro" || rec.Amount != 49900 {
			t.Errorf("unexpected record %+v", rec)
		}
		if rec.Status != model.SubscriptionStatusCompleted {
			t.Errorf("status = %s, want completed", rec.Status)
		}
		if deps.gateway.VerifyCalls != 1 {
			t.Errorf("VerifyPayment calls = %d, want 1", deps.gateway.VerifyCalls)
		}
	})

	t.Run("never touches subscription state when verification fails", func(t *testing.T) {
		deps := newPaymentUCDeps(t)
		deps.gateway.VerifyResult = false

		_, err := deps.uc.Verify(ctx, validRequest())
		if !errors.Is(err, domain.ErrVerificationFailed) {
			t.Fatalf("expected ErrVerificationFailed, got %v", err)
		}
		if deps.store.SaveCalls != 0 || deps.store.RecordCalls != 0 {
			t.Errorf("subscription creation invoked despite failed verification (saves=%d records=%d)",
				deps.store.SaveCalls, deps.store.RecordCalls)
		}
	})

	t.Run("repeated verify calls return the same subscription", func(t *testing.T) {
		deps := newPaymentUCDeps(t)
		first, err := deps.uc.Verify(ctx, validRequest())
		if err != nil {
			t.Fatalf("Verify: %v", err)
		}
		for i := 0; i < 3; i++ {
			again, err := deps.uc.Verify(ctx, validRequest())
			if err != nil {
				t.Fatalf("Verify retry %d: %v", i, err)
			}
			if again.ID != first.ID {
				t.Errorf("retry %d returned id %s, want %s", i, again.ID, first.ID)
			}
		}
		if deps.store.LedgerLen() != 1 {
			t.Errorf("ledger size = %d, want 1", deps.store.LedgerLen())
		}
	})

	t.Run("rejects structurally invalid requests before verifying", func(t *testing.T) {
		deps := newPaymentUCDeps(t)
		req := validRequest()
		req.PlanID = ""
		if _, err := deps.uc.Verify(ctx, req); !errors.Is(err, domain.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})
}

func TestPaymentUseCase_Capture(t *testing.T) {
	ctx := context.Background()

	t.Run("creates once and no-ops on redelivery", func(t *testing.T) {
		deps := newPaymentUCDeps(t)

		rec, created, err := deps.uc.Capture(ctx, model.ProviderRazorpay, "pay_hook_1", "plan-pro", 49900)
		if err != nil || !created {
			t.Fatalf("expected created=true, got created=%v err=%v", created, err)
		}
		for i := 0; i < 2; i++ {
			again, created, err := deps.uc.Capture(ctx, model.ProviderRazorpay, "pay_hook_1", "plan-pro", 49900)
			if err != nil {
				t.Fatalf("redelivery %d: %v", i, err)
			}
			if created {
				t.Error("redelivery must not create a new subscription")
			}
			if again.ID != rec.ID {
				t.Errorf("redelivery returned id %s, want %s", again.ID, rec.ID)
			}
		}
		if deps.store.LedgerLen() != 1 {
			t.Errorf("ledger size = %d, want 1", deps.store.LedgerLen())
		}
	})

	t.Run("rejects partial payloads without panicking", func(t *testing.T) {
		deps := newPaymentUCDeps(t)
		if _, _, err := deps.uc.Capture(ctx, model.ProviderRazorpay, "", "plan-pro", 49900); !errors.Is(err, domain.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument for missing payment id, got %v", err)
		}
		if _, _, err := deps.uc.Capture(ctx, model.ProviderRazorpay, "pay_x", "", 49900); !errors.Is(err, domain.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument for missing plan, got %v", err)
		}
		if _, _, err := deps.uc.Capture(ctx, model.ProviderRazorpay, "pay_x", "plan-pro", 0); !errors.Is(err, domain.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument for zero amount, got %v", err)
		}
	})
}
