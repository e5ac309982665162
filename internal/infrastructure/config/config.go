// Package config loads process configuration from the environment once at
// startup. The resulting Config is treated as immutable for the lifetime of
// the process.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all runtime configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Azure    AzureConfig    `mapstructure:"azure"`
	Analysis AnalysisConfig `mapstructure:"analysis"`
	CORS     CORSConfig     `mapstructure:"cors"`
	Log      LogConfig      `mapstructure:"log"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

// AzureConfig holds the Azure OpenAI connection settings consumed by the
// model gateway.
type AzureConfig struct {
	Endpoint        string        `mapstructure:"endpoint"`
	SubscriptionKey string        `mapstructure:"subscription_key"`
	APIVersion      string        `mapstructure:"api_version"`
	DeploymentID    string        `mapstructure:"deployment_id"`
	Timeout         time.Duration `mapstructure:"timeout"`
}

// Configured reports whether the gateway has everything it needs to reach
// the upstream service.
func (c AzureConfig) Configured() bool {
	return c.Endpoint != "" && c.SubscriptionKey != "" && c.DeploymentID != ""
}

// AnalysisConfig tunes the batch pipeline.
type AnalysisConfig struct {
	// Workers caps simultaneous in-flight gateway calls per batch.
	Workers int `mapstructure:"workers"`
	// MaxRetries is the number of extra attempts after a retryable
	// gateway failure.
	MaxRetries int `mapstructure:"max_retries"`
	// RetryBackoff is the base delay before a retry; rate-limited
	// responses wait twice as long.
	RetryBackoff time.Duration `mapstructure:"retry_backoff"`
	// KeywordFallback enables rule-based categorization for records the
	// model could not classify. Off by default so failed records are
	// simply absent from the results.
	KeywordFallback bool `mapstructure:"keyword_fallback"`
}

// CORSConfig holds the allowed-origins list for the HTTP layer.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from environment variables prefixed with
// OPPSIGHT_ (e.g. OPPSIGHT_AZURE_ENDPOINT), falling back to defaults.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("OPPSIGHT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.mode", "debug")

	// Azure OpenAI defaults
	v.SetDefault("azure.endpoint", "")
	v.SetDefault("azure.subscription_key", "")
	v.SetDefault("azure.api_version", "2024-02-15-preview")
	v.SetDefault("azure.deployment_id", "")
	v.SetDefault("azure.timeout", 30*time.Second)

	// Analysis pipeline defaults
	v.SetDefault("analysis.workers", 5)
	v.SetDefault("analysis.max_retries", 1)
	v.SetDefault("analysis.retry_backoff", 500*time.Millisecond)
	v.SetDefault("analysis.keyword_fallback", false)

	// CORS defaults
	v.SetDefault("cors.allowed_origins", []string{"http://localhost:5173"})

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}
