package payment

import (
	"fmt"

	"merchant-payment-gateway/internal/domain"
	"merchant-payment-gateway/internal/domain/model"
	"merchant-payment-gateway/internal/domain/ports/adapter"
)

// Registry resolves provider tags to gateway instances. Gateways register at
// startup so handlers never dispatch on raw strings.
type Registry struct {
	gateways map[model.Provider]adapter.PaymentGateway
	def      model.Provider
}

// NewRegistry builds a registry from the given gateways. The default provider
// must be among them.
func NewRegistry(def model.Provider, gws ...adapter.PaymentGateway) (*Registry, error) {
	r := &Registry{
		gateways: make(map[model.Provider]adapter.PaymentGateway, len(gws)),
		def:      def,
	}
	for _, gw := range gws {
		r.gateways[gw.Name()] = gw
	}
	if _, ok := r.gateways[def]; !ok {
		return nil, fmt.Errorf("default provider %q has no configured gateway", def)
	}
	return r, nil
}

// Get returns the gateway for a provider tag.
func (r *Registry) Get(p model.Provider) (adapter.PaymentGateway, error) {
	gw, ok := r.gateways[p]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownProvider, p)
	}
	return gw, nil
}

// Default returns the gateway selected by configuration.
func (r *Registry) Default() adapter.PaymentGateway {
	return r.gateways[r.def]
}
