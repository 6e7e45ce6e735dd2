// Package llm builds model clients for the configured providers and holds the
// extraction instructions sent to them.
package llm

import (
	"context"
	"fmt"

	"legalextract/internal/config"
	"legalextract/internal/port"
)

// ProviderFactory creates a ModelClient from a provider config.
type ProviderFactory func(ctx context.Context, cfg *config.ProviderConfig) (port.ModelClient, error)

// Registry maps provider names to factories.
type Registry struct {
	factories map[string]ProviderFactory
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{factories: map[string]ProviderFactory{}}
}

// Register adds or replaces a provider factory.
func (r *Registry) Register(name string, factory ProviderFactory) {
	r.factories[name] = factory
}

// NewClient creates a ModelClient using the factory registered for cfg.Provider.
func (r *Registry) NewClient(ctx context.Context, cfg *config.ProviderConfig) (port.ModelClient, error) {
	factory, ok := r.factories[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("unknown model provider: %s", cfg.Provider)
	}
	return factory(ctx, cfg)
}
