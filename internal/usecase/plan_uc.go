package usecase

import (
	"context"
	"fmt"

	"merchant-payment-gateway/internal/config"
	"merchant-payment-gateway/internal/domain"
	"merchant-payment-gateway/internal/domain/model"
)

// Compile-time check
var _ PlanUseCase = (*planUC)(nil)

// PlanUseCase serves the pricing plan catalog the checkout UI renders.
type PlanUseCase interface {
	List(ctx context.Context) []*model.Plan
	FindByID(ctx context.Context, id string) (*model.Plan, error)
	// Price validates that amount is the configured price of the plan for the
	// given billing cycle.
	Price(ctx context.Context, planID, billingCycle string) (int64, error)
}

type planUC struct {
	byID  map[string]*model.Plan
	plans []*model.Plan
}

// NewPlanUseCase builds the catalog from configuration. The catalog is fixed
// for the process lifetime.
func NewPlanUseCase(cfgPlans []config.PlanConfig, currency string) (*planUC, error) {
	uc := &planUC{byID: make(map[string]*model.Plan, len(cfgPlans))}
	for _, pc := range cfgPlans {
		plan, err := model.NewPlan(pc.ID, pc.Name, currency, pc.Prices)
		if err != nil {
			return nil, fmt.Errorf("plan %q: %w", pc.ID, err)
		}
		plan.Features = pc.Features
		if _, dup := uc.byID[plan.ID]; dup {
			return nil, fmt.Errorf("plan %q: %w", pc.ID, domain.ErrAlreadyExists)
		}
		uc.byID[plan.ID] = plan
		uc.plans = append(uc.plans, plan)
	}
	return uc, nil
}

func (u *planUC) List(ctx context.Context) []*model.Plan {
	out := make([]*model.Plan, len(u.plans))
	copy(out, u.plans)
	return out
}

func (u *planUC) FindByID(ctx context.Context, id string) (*model.Plan, error) {
	plan, ok := u.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return plan, nil
}

func (u *planUC) Price(ctx context.Context, planID, billingCycle string) (int64, error) {
	plan, err := u.FindByID(ctx, planID)
	if err != nil {
		return 0, err
	}
	amount, ok := plan.PriceFor(billingCycle)
	if !ok {
		return 0, fmt.Errorf("%w: plan %q has no %q price", domain.ErrInvalidArgument, planID, billingCycle)
	}
	return amount, nil
}
