package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"legalextract/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("LEGALEX_MODEL_API_KEY", "test-key")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Port)
	assert.Equal(t, "gemini", cfg.Model.Provider)
	assert.Equal(t, "test-key", cfg.Model.APIKey)
	assert.InDelta(t, 0.2, cfg.Model.Temperature, 1e-9)
	assert.Equal(t, 4096, cfg.Model.MaxOutputTokens)
	assert.Equal(t, "union", cfg.Extraction.HeaderPolicy)
	assert.Equal(t, []string{"Tax Amount"}, cfg.Extraction.AmountColumns)
	assert.Equal(t, int64(20*1024*1024), cfg.Extraction.MaxFileBytes())
	assert.Equal(t, 10, cfg.Extraction.MaxDocuments)
	assert.Equal(t, "none", cfg.Export.Sink)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestLoad_MissingAPIKey(t *testing.T) {
	t.Setenv("LEGALEX_MODEL_API_KEY", "")

	cfg, err := config.Load()

	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api_key is required")
}

func TestLoad_PortFallback(t *testing.T) {
	t.Setenv("LEGALEX_MODEL_API_KEY", "test-key")
	t.Setenv("PORT", "9090")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Port)
}

func TestLoad_PrimaryAndSecondary(t *testing.T) {
	t.Setenv("LEGALEX_MODEL_PRIMARY_PROVIDER", "claude")
	t.Setenv("LEGALEX_MODEL_PRIMARY_API_KEY", "sk-primary")
	t.Setenv("LEGALEX_MODEL_SECONDARY_PROVIDER", "openai")
	t.Setenv("LEGALEX_MODEL_SECONDARY_API_KEY", "sk-secondary")

	cfg, err := config.Load()
	require.NoError(t, err)

	primary := cfg.Model.PrimaryConfig()
	assert.Equal(t, "claude", primary.Provider)
	assert.Equal(t, "sk-primary", primary.APIKey)

	secondary := cfg.Model.SecondaryConfig()
	require.NotNil(t, secondary)
	assert.Equal(t, "openai", secondary.Provider)
	assert.Equal(t, 120, secondary.TimeoutSecs)
	assert.Equal(t, []string{"claude", "openai"}, cfg.Model.ProviderNames())
}

func TestModelConfig_PrimaryConfig_LegacyFallback(t *testing.T) {
	cfg := config.ModelConfig{
		Provider:        "gemini",
		APIKey:          "legacy-key",
		DefaultModel:    "gemini-2.0-flash",
		TimeoutSecs:     30,
		MaxOutputTokens: 2048,
	}

	primary := cfg.PrimaryConfig()

	assert.Equal(t, "gemini", primary.Provider)
	assert.Equal(t, "legacy-key", primary.APIKey)
	assert.Equal(t, "gemini-2.0-flash", primary.DefaultModel)
	assert.Equal(t, 30, primary.TimeoutSecs)
	assert.Equal(t, 2048, primary.MaxOutputTokens)
	assert.Nil(t, cfg.SecondaryConfig())
	assert.Equal(t, []string{"gemini"}, cfg.ProviderNames())
}

func validConfig() *config.Config {
	return &config.Config{
		Model:      config.ModelConfig{Provider: "gemini", APIKey: "k"},
		Extraction: config.ExtractionConfig{MaxFileSizeMB: 10, MaxDocuments: 5, HeaderPolicy: "first"},
		Export:     config.ExportConfig{Sink: "none"},
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *config.Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *config.Config) {}},
		{name: "unknown provider", mutate: func(c *config.Config) { c.Model.Provider = "llama" }, wantErr: "unknown provider"},
		{name: "vertex without project", mutate: func(c *config.Config) { c.Model.Provider = "vertex" }, wantErr: "project and region"},
		{name: "vertex with project", mutate: func(c *config.Config) {
			c.Model.Provider = "vertex"
			c.Model.APIKey = ""
			c.Model.Project = "p"
			c.Model.Region = "us-central1"
		}},
		{name: "no document limit", mutate: func(c *config.Config) { c.Extraction.MaxDocuments = 0 }, wantErr: "max_documents"},
		{name: "bad header policy", mutate: func(c *config.Config) { c.Extraction.HeaderPolicy = "merge" }, wantErr: "header_policy"},
		{name: "local sink without dir", mutate: func(c *config.Config) { c.Export.Sink = "local" }, wantErr: "local_dir"},
		{name: "s3 sink without bucket", mutate: func(c *config.Config) { c.Export.Sink = "s3" }, wantErr: "s3.bucket"},
		{name: "bad secondary", mutate: func(c *config.Config) {
			c.Model.Secondary = config.ProviderConfig{Provider: "claude"}
		}, wantErr: "model.secondary"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_WriteTimeoutCoversFullBatch(t *testing.T) {
	t.Setenv("LEGALEX_MODEL_API_KEY", "test-key")
	t.Setenv("LEGALEX_EXTRACTION_MAX_DOCUMENTS", "3")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 300*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, 3*120*time.Second+30*time.Second, cfg.BatchTimeout())
	assert.Equal(t, cfg.BatchTimeout(), cfg.EffectiveWriteTimeout())
}

func TestConfig_EffectiveWriteTimeout(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *config.Config)
		want   time.Duration
	}{
		{
			name: "configured timeout is long enough",
			mutate: func(c *config.Config) {
				c.Server.WriteTimeout = time.Hour
			},
			want: time.Hour,
		},
		{
			name: "raised to cover every document",
			mutate: func(c *config.Config) {
				c.Server.WriteTimeout = 300 * time.Second
				c.Model.TimeoutSecs = 120
			},
			want: 5*120*time.Second + 30*time.Second,
		},
		{
			name: "fallback provider adds its timeout per document",
			mutate: func(c *config.Config) {
				c.Server.WriteTimeout = 300 * time.Second
				c.Model.TimeoutSecs = 60
				c.Model.Secondary = config.ProviderConfig{Provider: "claude", APIKey: "k", TimeoutSecs: 30}
			},
			want: 5*90*time.Second + 30*time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			assert.Equal(t, tt.want, cfg.EffectiveWriteTimeout())
		})
	}
}
