package model

import (
	"time"

	"merchant-payment-gateway/internal/domain"
)

// Plan is a purchasable pricing plan. Prices are keyed by billing cycle
// ("monthly", "yearly") and stored in minor currency units.
type Plan struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Currency  string           `json:"currency"`
	Prices    map[string]int64 `json:"prices"`
	Features  []string         `json:"features,omitempty"`
	CreatedAt time.Time        `json:"-"`
}

func (p *Plan) IsZero() bool { return p == nil || p.ID == "" }

// PriceFor returns the price for a billing cycle.
func (p *Plan) PriceFor(cycle string) (int64, bool) {
	amount, ok := p.Prices[cycle]
	return amount, ok
}

// NewPlan validates and constructs a plan.
func NewPlan(id, name, currency string, prices map[string]int64) (*Plan, error) {
	if id == "" || name == "" || currency == "" || len(prices) == 0 {
		return nil, domain.ErrInvalidArgument
	}
	for _, amount := range prices {
		if amount <= 0 {
			return nil, domain.ErrInvalidArgument
		}
	}
	return &Plan{
		ID:        id,
		Name:      name,
		Currency:  currency,
		Prices:    prices,
		CreatedAt: time.Now(),
	}, nil
}
