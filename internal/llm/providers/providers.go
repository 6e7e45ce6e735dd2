// Package providers wires the configured model providers into one client.
package providers

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"legalextract/internal/config"
	"legalextract/internal/llm"
	"legalextract/internal/llm/claude"
	"legalextract/internal/llm/gemini"
	"legalextract/internal/llm/openai"
	"legalextract/internal/llm/vertex"
	"legalextract/internal/port"
)

// DefaultRegistry returns a registry with every built-in provider.
func DefaultRegistry() *llm.Registry {
	r := llm.NewRegistry()
	r.Register("gemini", gemini.Factory)
	r.Register("claude", claude.Factory)
	r.Register("openai", openai.Factory)
	r.Register("vertex", vertex.Factory)
	return r
}

// Build creates the primary client and, when a secondary provider is
// configured, wraps both in a FallbackClient. The returned close function
// releases provider connections and is safe to call once.
func Build(ctx context.Context, registry *llm.Registry, cfg *config.ModelConfig, logger *zap.Logger) (port.ModelClient, func() error, error) {
	var closers []io.Closer
	closeAll := func() error {
		var errs []error
		for _, c := range closers {
			errs = append(errs, c.Close())
		}
		return errors.Join(errs...)
	}

	primaryCfg := cfg.PrimaryConfig()
	primary, err := registry.NewClient(ctx, primaryCfg)
	if err != nil {
		return nil, nil, fmt.Errorf("creating primary model client: %w", err)
	}
	if c, ok := primary.(io.Closer); ok {
		closers = append(closers, c)
	}

	secondaryCfg := cfg.SecondaryConfig()
	if secondaryCfg == nil {
		logger.Info("model client ready", zap.String("provider", primaryCfg.Provider))
		return primary, closeAll, nil
	}

	secondary, err := registry.NewClient(ctx, secondaryCfg)
	if err != nil {
		_ = closeAll()
		return nil, nil, fmt.Errorf("creating secondary model client: %w", err)
	}
	if c, ok := secondary.(io.Closer); ok {
		closers = append(closers, c)
	}

	logger.Info("model client ready",
		zap.String("provider", primaryCfg.Provider),
		zap.String("fallback", secondaryCfg.Provider))
	client := llm.NewFallbackClient(
		[]port.ModelClient{primary, secondary},
		[]string{primaryCfg.Provider, secondaryCfg.Provider},
		logger,
	)
	return client, closeAll, nil
}
