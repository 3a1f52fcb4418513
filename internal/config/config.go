package config

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
	Catalog    CatalogConfig    `yaml:"catalog" mapstructure:"catalog"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	AI         AIConfig         `yaml:"ai" mapstructure:"ai"`
	Anthropic  AnthropicConfig  `yaml:"anthropic" mapstructure:"anthropic"`
	Gemini     GeminiConfig     `yaml:"gemini" mapstructure:"gemini"`
	Resilience ResilienceConfig `yaml:"resilience" mapstructure:"resilience"`
	Export     ExportConfig     `yaml:"export" mapstructure:"export"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// CatalogConfig points at reference data. An empty DataDir uses the data
// compiled into the binary.
type CatalogConfig struct {
	DataDir string `yaml:"data_dir" mapstructure:"data_dir"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
	RecommendRPS   float64  `yaml:"recommend_rps" mapstructure:"recommend_rps"`
	RecommendBurst int      `yaml:"recommend_burst" mapstructure:"recommend_burst"`
}

// AIConfig selects the recommendation provider.
type AIConfig struct {
	Provider    string `yaml:"provider" mapstructure:"provider"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	Key       string `yaml:"key" mapstructure:"key"`
	Model     string `yaml:"model" mapstructure:"model"`
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// GeminiConfig holds Google Gemini API settings.
type GeminiConfig struct {
	Key   string `yaml:"key" mapstructure:"key"`
	Model string `yaml:"model" mapstructure:"model"`
}

// ResilienceConfig tunes retries and the circuit breaker around provider
// calls.
type ResilienceConfig struct {
	MaxAttempts      int `yaml:"max_attempts" mapstructure:"max_attempts"`
	InitialBackoffMs int `yaml:"initial_backoff_ms" mapstructure:"initial_backoff_ms"`
	FailureThreshold int `yaml:"failure_threshold" mapstructure:"failure_threshold"`
	ResetTimeoutSecs int `yaml:"reset_timeout_secs" mapstructure:"reset_timeout_secs"`
}

// ExportConfig configures document export.
type ExportConfig struct {
	Dir string `yaml:"dir" mapstructure:"dir"`
}

// Load reads configuration from config.yaml in the working directory and
// AGRIGRANT_* environment variables.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("AGRIGRANT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("catalog.data_dir", "")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.recommend_rps", 0.5)
	v.SetDefault("server.recommend_burst", 2)
	v.SetDefault("ai.provider", "gemini")
	v.SetDefault("ai.timeout_secs", 60)
	// Keys without a default are invisible to AutomaticEnv during Unmarshal.
	v.SetDefault("anthropic.key", "")
	v.SetDefault("anthropic.model", "claude-sonnet-4-5-20250929")
	v.SetDefault("anthropic.max_tokens", 4096)
	v.SetDefault("gemini.key", "")
	v.SetDefault("gemini.model", "gemini-2.5-flash")
	v.SetDefault("resilience.max_attempts", 3)
	v.SetDefault("resilience.initial_backoff_ms", 500)
	v.SetDefault("resilience.failure_threshold", 5)
	v.SetDefault("resilience.reset_timeout_secs", 30)
	v.SetDefault("export.dir", ".")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}
	return &cfg, nil
}

// Validate checks the settings a command mode depends on. Mode "catalog"
// covers the read-only commands; "serve" and "recommend" add their own
// requirements.
func (c *Config) Validate(mode string) error {
	var errs []string

	switch c.AI.Provider {
	case ProviderGemini, ProviderAnthropic:
	default:
		errs = append(errs, fmt.Sprintf("ai.provider %q must be gemini or anthropic", c.AI.Provider))
	}
	if c.AI.TimeoutSecs < 0 {
		errs = append(errs, "ai.timeout_secs must be >= 0")
	}

	switch mode {
	case "catalog":
	case "serve":
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			errs = append(errs, "server.port must be > 0 and <= 65535")
		}
		if c.Server.RecommendRPS < 0 {
			errs = append(errs, "server.recommend_rps must be >= 0")
		}
		if c.Server.RecommendBurst < 0 {
			errs = append(errs, "server.recommend_burst must be >= 0")
		}
	case "recommend":
		if c.APIKey() == "" {
			errs = append(errs, fmt.Sprintf("%s.key is required", c.AI.Provider))
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(errs) > 0 {
		return eris.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
}

// Provider names accepted by ai.provider.
const (
	ProviderGemini    = "gemini"
	ProviderAnthropic = "anthropic"
)

// APIKey returns the key of the selected provider.
func (c *Config) APIKey() string {
	if c.AI.Provider == ProviderAnthropic {
		return c.Anthropic.Key
	}
	return c.Gemini.Key
}

// ProviderModel returns the model of the selected provider.
func (c *Config) ProviderModel() string {
	if c.AI.Provider == ProviderAnthropic {
		return c.Anthropic.Model
	}
	return c.Gemini.Model
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
