package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig
	Log        LogConfig
	Model      ModelConfig
	Extraction ExtractionConfig
	Export     ExportConfig
	S3         S3Config
	CORS       CORSConfig
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// ProviderConfig holds settings for a single model provider.
type ProviderConfig struct {
	Provider        string  `mapstructure:"provider"`
	APIKey          string  `mapstructure:"api_key"`
	DefaultModel    string  `mapstructure:"default_model"`
	TimeoutSecs     int     `mapstructure:"timeout_secs"`
	Temperature     float64 `mapstructure:"temperature"`
	MaxOutputTokens int     `mapstructure:"max_output_tokens"`

	// Vertex AI only; authenticates with application default credentials.
	Project string `mapstructure:"project"`
	Region  string `mapstructure:"region"`
}

// ModelConfig holds model provider settings with optional fallback provider.
type ModelConfig struct {
	// Legacy flat fields (single provider)
	Provider        string  `mapstructure:"provider"`
	APIKey          string  `mapstructure:"api_key"`
	DefaultModel    string  `mapstructure:"default_model"`
	TimeoutSecs     int     `mapstructure:"timeout_secs"`
	Temperature     float64 `mapstructure:"temperature"`
	MaxOutputTokens int     `mapstructure:"max_output_tokens"`
	Project         string  `mapstructure:"project"`
	Region          string  `mapstructure:"region"`

	Primary   ProviderConfig `mapstructure:"primary"`
	Secondary ProviderConfig `mapstructure:"secondary"`
}

// PrimaryConfig returns the primary provider config, falling back to legacy flat fields.
func (m *ModelConfig) PrimaryConfig() *ProviderConfig {
	if m.Primary.Provider != "" {
		return &m.Primary
	}
	return &ProviderConfig{
		Provider:        m.Provider,
		APIKey:          m.APIKey,
		DefaultModel:    m.DefaultModel,
		TimeoutSecs:     m.TimeoutSecs,
		Temperature:     m.Temperature,
		MaxOutputTokens: m.MaxOutputTokens,
		Project:         m.Project,
		Region:          m.Region,
	}
}

// SecondaryConfig returns the fallback provider config, or nil if not configured.
func (m *ModelConfig) SecondaryConfig() *ProviderConfig {
	if m.Secondary.Provider != "" {
		return &m.Secondary
	}
	return nil
}

// ProviderNames lists the configured providers in fallback order.
func (m *ModelConfig) ProviderNames() []string {
	names := []string{m.PrimaryConfig().Provider}
	if secondary := m.SecondaryConfig(); secondary != nil {
		names = append(names, secondary.Provider)
	}
	return names
}

// ExtractionConfig holds settings for the extraction pipeline.
type ExtractionConfig struct {
	MaxFileSizeMB int64    `mapstructure:"max_file_size_mb"`
	MaxDocuments  int      `mapstructure:"max_documents"`
	HeaderPolicy  string   `mapstructure:"header_policy"`
	AmountColumns []string `mapstructure:"amount_columns"`
}

// MaxFileBytes returns the upload limit in bytes.
func (e *ExtractionConfig) MaxFileBytes() int64 {
	return e.MaxFileSizeMB * 1024 * 1024
}

// writeTimeoutSlack covers request parsing and the response write on top of
// the model calls.
const writeTimeoutSlack = 30 * time.Second

// BatchTimeout is the longest a full batch can take: every document may wait
// for the primary provider and then the fallback.
func (c *Config) BatchTimeout() time.Duration {
	perDocument := time.Duration(c.Model.PrimaryConfig().TimeoutSecs) * time.Second
	if secondary := c.Model.SecondaryConfig(); secondary != nil {
		perDocument += time.Duration(secondary.TimeoutSecs) * time.Second
	}
	return time.Duration(c.Extraction.MaxDocuments)*perDocument + writeTimeoutSlack
}

// EffectiveWriteTimeout returns the configured write timeout, raised to
// BatchTimeout when that is longer. Sequential batches otherwise outlive the
// connection and the response is dropped.
func (c *Config) EffectiveWriteTimeout() time.Duration {
	if batch := c.BatchTimeout(); batch > c.Server.WriteTimeout {
		return batch
	}
	return c.Server.WriteTimeout
}

// ExportConfig holds settings for publishing extracted CSV artifacts.
type ExportConfig struct {
	Sink          string `mapstructure:"sink"`
	LocalDir      string `mapstructure:"local_dir"`
	IncludeBOM    bool   `mapstructure:"include_bom"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// S3Config holds AWS S3 settings.
type S3Config struct {
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Validate checks that the configuration can start the service. A missing model
// credential is fatal here rather than on the first request.
func (c *Config) Validate() error {
	primary := c.Model.PrimaryConfig()
	if err := primary.Validate(); err != nil {
		return fmt.Errorf("model.primary: %w", err)
	}
	if secondary := c.Model.SecondaryConfig(); secondary != nil {
		if err := secondary.Validate(); err != nil {
			return fmt.Errorf("model.secondary: %w", err)
		}
	}

	switch c.Extraction.HeaderPolicy {
	case "first", "strict", "union":
	default:
		return fmt.Errorf("extraction.header_policy: unknown policy %q", c.Extraction.HeaderPolicy)
	}
	if c.Extraction.MaxFileSizeMB <= 0 {
		return errors.New("extraction.max_file_size_mb must be positive")
	}
	if c.Extraction.MaxDocuments <= 0 {
		return errors.New("extraction.max_documents must be positive")
	}

	switch c.Export.Sink {
	case "none", "":
	case "local":
		if c.Export.LocalDir == "" {
			return errors.New("export.local_dir is required for the local sink")
		}
	case "s3":
		if c.S3.Bucket == "" {
			return errors.New("s3.bucket is required for the s3 sink")
		}
	default:
		return fmt.Errorf("export.sink: unknown sink %q", c.Export.Sink)
	}
	return nil
}

// Validate checks the provider has the credential it needs.
func (p *ProviderConfig) Validate() error {
	switch p.Provider {
	case "gemini", "claude", "openai":
		if strings.TrimSpace(p.APIKey) == "" {
			return fmt.Errorf("api_key is required for provider %q", p.Provider)
		}
	case "vertex":
		if p.Project == "" || p.Region == "" {
			return errors.New("project and region are required for provider \"vertex\"")
		}
	case "":
		return errors.New("provider is required")
	default:
		return fmt.Errorf("unknown provider %q", p.Provider)
	}
	return nil
}

// Load reads configuration from environment variables with the LEGALEX_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("LEGALEX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "300s")
	v.SetDefault("server.environment", "development")

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Model defaults (legacy flat)
	v.SetDefault("model.provider", "gemini")
	v.SetDefault("model.api_key", "")
	v.SetDefault("model.default_model", "")
	v.SetDefault("model.timeout_secs", 120)
	v.SetDefault("model.temperature", 0.2)
	v.SetDefault("model.max_output_tokens", 4096)
	v.SetDefault("model.project", "")
	v.SetDefault("model.region", "us-central1")

	// Model primary/secondary defaults
	for _, p := range []string{"primary", "secondary"} {
		v.SetDefault("model."+p+".provider", "")
		v.SetDefault("model."+p+".api_key", "")
		v.SetDefault("model."+p+".default_model", "")
		v.SetDefault("model."+p+".timeout_secs", 120)
		v.SetDefault("model."+p+".temperature", 0.2)
		v.SetDefault("model."+p+".max_output_tokens", 4096)
		v.SetDefault("model."+p+".project", "")
		v.SetDefault("model."+p+".region", "us-central1")
	}

	// Extraction defaults
	v.SetDefault("extraction.max_file_size_mb", 20)
	v.SetDefault("extraction.max_documents", 10)
	v.SetDefault("extraction.header_policy", "union")
	v.SetDefault("extraction.amount_columns", "Tax Amount")

	// Export defaults
	v.SetDefault("export.sink", "none")
	v.SetDefault("export.local_dir", "")
	v.SetDefault("export.include_bom", false)
	v.SetDefault("export.presign_expiry", 3600)

	// S3 defaults
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.key_prefix", "exports")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                 "LEGALEX_SERVER_PORT",
		"server.read_timeout":         "LEGALEX_SERVER_READ_TIMEOUT",
		"server.write_timeout":        "LEGALEX_SERVER_WRITE_TIMEOUT",
		"server.environment":          "LEGALEX_SERVER_ENVIRONMENT",
		"log.level":                   "LEGALEX_LOG_LEVEL",
		"log.format":                  "LEGALEX_LOG_FORMAT",
		"cors.allowed_origins":        "LEGALEX_CORS_ALLOWED_ORIGINS",
		"model.provider":              "LEGALEX_MODEL_PROVIDER",
		"model.api_key":               "LEGALEX_MODEL_API_KEY",
		"model.default_model":         "LEGALEX_MODEL_DEFAULT_MODEL",
		"model.timeout_secs":          "LEGALEX_MODEL_TIMEOUT_SECS",
		"model.temperature":           "LEGALEX_MODEL_TEMPERATURE",
		"model.max_output_tokens":     "LEGALEX_MODEL_MAX_OUTPUT_TOKENS",
		"model.project":               "LEGALEX_MODEL_PROJECT",
		"model.region":                "LEGALEX_MODEL_REGION",
		"extraction.max_file_size_mb": "LEGALEX_EXTRACTION_MAX_FILE_SIZE_MB",
		"extraction.max_documents":    "LEGALEX_EXTRACTION_MAX_DOCUMENTS",
		"extraction.header_policy":    "LEGALEX_EXTRACTION_HEADER_POLICY",
		"extraction.amount_columns":   "LEGALEX_EXTRACTION_AMOUNT_COLUMNS",
		"export.sink":                 "LEGALEX_EXPORT_SINK",
		"export.local_dir":            "LEGALEX_EXPORT_LOCAL_DIR",
		"export.include_bom":          "LEGALEX_EXPORT_INCLUDE_BOM",
		"export.presign_expiry":       "LEGALEX_EXPORT_PRESIGN_EXPIRY",
		"s3.region":                   "LEGALEX_S3_REGION",
		"s3.bucket":                   "LEGALEX_S3_BUCKET",
		"s3.endpoint":                 "LEGALEX_S3_ENDPOINT",
		"s3.access_key":               "LEGALEX_S3_ACCESS_KEY",
		"s3.secret_key":               "LEGALEX_S3_SECRET_KEY",
		"s3.key_prefix":               "LEGALEX_S3_KEY_PREFIX",
	}
	for _, p := range []string{"primary", "secondary"} {
		for _, field := range []string{"provider", "api_key", "default_model", "timeout_secs", "temperature", "max_output_tokens", "project", "region"} {
			key := "model." + p + "." + field
			envBindings[key] = "LEGALEX_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		}
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if LEGALEX_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("LEGALEX_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: splitList(v.GetString("cors.allowed_origins")),
	}

	cfg.Model = ModelConfig{
		Provider:        v.GetString("model.provider"),
		APIKey:          v.GetString("model.api_key"),
		DefaultModel:    v.GetString("model.default_model"),
		TimeoutSecs:     v.GetInt("model.timeout_secs"),
		Temperature:     v.GetFloat64("model.temperature"),
		MaxOutputTokens: v.GetInt("model.max_output_tokens"),
		Project:         v.GetString("model.project"),
		Region:          v.GetString("model.region"),
		Primary:         providerFromViper(v, "model.primary"),
		Secondary:       providerFromViper(v, "model.secondary"),
	}

	cfg.Extraction = ExtractionConfig{
		MaxFileSizeMB: v.GetInt64("extraction.max_file_size_mb"),
		MaxDocuments:  v.GetInt("extraction.max_documents"),
		HeaderPolicy:  strings.ToLower(v.GetString("extraction.header_policy")),
		AmountColumns: splitList(v.GetString("extraction.amount_columns")),
	}

	cfg.Export = ExportConfig{
		Sink:          strings.ToLower(v.GetString("export.sink")),
		LocalDir:      v.GetString("export.local_dir"),
		IncludeBOM:    v.GetBool("export.include_bom"),
		PresignExpiry: v.GetInt64("export.presign_expiry"),
	}

	cfg.S3 = S3Config{
		Region:    v.GetString("s3.region"),
		Bucket:    v.GetString("s3.bucket"),
		Endpoint:  v.GetString("s3.endpoint"),
		AccessKey: v.GetString("s3.access_key"),
		SecretKey: v.GetString("s3.secret_key"),
		KeyPrefix: v.GetString("s3.key_prefix"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func providerFromViper(v *viper.Viper, prefix string) ProviderConfig {
	return ProviderConfig{
		Provider:        v.GetString(prefix + ".provider"),
		APIKey:          v.GetString(prefix + ".api_key"),
		DefaultModel:    v.GetString(prefix + ".default_model"),
		TimeoutSecs:     v.GetInt(prefix + ".timeout_secs"),
		Temperature:     v.GetFloat64(prefix + ".temperature"),
		MaxOutputTokens: v.GetInt(prefix + ".max_output_tokens"),
		Project:         v.GetString(prefix + ".project"),
		Region:          v.GetString(prefix + ".region"),
	}
}

// splitList parses a comma-separated value, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
