package payment

import (
	"fmt"

	"github.com/apex/backoffice/internal/domain/integration"
)

// Registry resolves payment gateways by provider key. Webhook routes
// carry the provider in the path; reconciliation looks the adapter up
// here instead of switching on provider names.
type Registry struct {
	gateways map[string]integration.PaymentGateway
}

// NewRegistry creates a registry from the given gateways
func NewRegistry(gateways ...integration.PaymentGateway) *Registry {
	r := &Registry{gateways: make(map[string]integration.PaymentGateway, len(gateways))}
	for _, g := range gateways {
		r.gateways[g.Provider()] = g
	}
	return r
}

// Get returns the gateway for a provider key
func (r *Registry) Get(provider string) (integration.PaymentGateway, error) {
	g, ok := r.gateways[provider]
	if !ok {
		return nil, fmt.Errorf("payment provider %q is not configured", provider)
	}
	return g, nil
}

// Providers lists the configured provider keys
func (r *Registry) Providers() []string {
	keys := make([]string, 0, len(r.gateways))
	for key := range r.gateways {
		keys = append(keys, key)
	}
	return keys
}
