package llm_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"legalextract/internal/config"
	"legalextract/internal/llm"
	"legalextract/internal/port"
)

// stubClient is a minimal ModelClient for testing the registry.
type stubClient struct {
	model string
}

func (s *stubClient) Generate(_ context.Context, _ port.ModelRequest) (*port.ModelResponse, error) {
	return &port.ModelResponse{Model: s.model}, nil
}

func TestRegistry_RegisterAndCreate(t *testing.T) {
	r := llm.NewRegistry()
	r.Register("test-provider", func(_ context.Context, cfg *config.ProviderConfig) (port.ModelClient, error) {
		return &stubClient{model: cfg.DefaultModel}, nil
	})

	c, err := r.NewClient(context.Background(), &config.ProviderConfig{
		Provider:     "test-provider",
		DefaultModel: "test-model",
	})

	assert.NoError(t, err)
	assert.Equal(t, &stubClient{model: "test-model"}, c)
}

func TestRegistry_UnknownProvider(t *testing.T) {
	c, err := llm.NewRegistry().NewClient(context.Background(), &config.ProviderConfig{
		Provider: "nonexistent-provider-xyz",
	})

	assert.Nil(t, c)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown model provider")
}
