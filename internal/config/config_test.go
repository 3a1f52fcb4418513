package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Empty(t, cfg.Catalog.DataDir)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.InDelta(t, 0.5, cfg.Server.RecommendRPS, 0.001)
	assert.Equal(t, 2, cfg.Server.RecommendBurst)
	assert.Equal(t, ProviderGemini, cfg.AI.Provider)
	assert.Equal(t, 60, cfg.AI.TimeoutSecs)
	assert.Equal(t, "claude-sonnet-4-5-20250929", cfg.Anthropic.Model)
	assert.Equal(t, 4096, cfg.Anthropic.MaxTokens)
	assert.Equal(t, "gemini-2.5-flash", cfg.Gemini.Model)
	assert.Equal(t, 3, cfg.Resilience.MaxAttempts)
	assert.Equal(t, 500, cfg.Resilience.InitialBackoffMs)
	assert.Equal(t, 5, cfg.Resilience.FailureThreshold)
	assert.Equal(t, 30, cfg.Resilience.ResetTimeoutSecs)
	assert.Equal(t, ".", cfg.Export.Dir)
}

func TestLoadFromYAML(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
log:
  level: debug
  format: console
server:
  port: 9090
  allowed_origins: [https://agrigrant.example.org]
ai:
  provider: anthropic
anthropic:
  model: claude-haiku-4-5-20251001
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, []string{"https://agrigrant.example.org"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, ProviderAnthropic, cfg.AI.Provider)
	assert.Equal(t, "claude-haiku-4-5-20251001", cfg.ProviderModel())
	// Defaults still apply for unset values
	assert.Equal(t, 4096, cfg.Anthropic.MaxTokens)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
log:
  level: debug
gemini:
  model: gemini-2.0-flash
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	t.Setenv("AGRIGRANT_LOG_LEVEL", "warn")
	t.Setenv("AGRIGRANT_GEMINI_KEY", "g-key")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "g-key", cfg.Gemini.Key)
	assert.Equal(t, "g-key", cfg.APIKey())
	assert.Equal(t, "gemini-2.0-flash", cfg.Gemini.Model)
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	chdirTemp(t)

	t.Setenv("AGRIGRANT_SERVER_PORT", "3000")
	t.Setenv("AGRIGRANT_CATALOG_DATA_DIR", "/srv/catalog")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "/srv/catalog", cfg.Catalog.DataDir)
}

func TestLoadBadFile(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("log: [unclosed"), 0o644))

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config: read file")
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSON(t *testing.T) {
	err := InitLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "invalid", Format: "json"})
	assert.Error(t, err)
}

func validDefaults() *Config {
	cfg := &Config{}
	cfg.AI.Provider = ProviderGemini
	cfg.AI.TimeoutSecs = 60
	cfg.Server.Port = 8080
	cfg.Server.RecommendRPS = 0.5
	cfg.Server.RecommendBurst = 2
	return cfg
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mode    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "catalog ok", mode: "catalog"},
		{name: "serve ok", mode: "serve"},
		{
			name:    "serve bad port",
			mode:    "serve",
			mutate:  func(c *Config) { c.Server.Port = 0 },
			wantErr: "server.port must be > 0",
		},
		{
			name:    "serve negative rate",
			mode:    "serve",
			mutate:  func(c *Config) { c.Server.RecommendRPS = -1 },
			wantErr: "server.recommend_rps must be >= 0",
		},
		{
			name:    "unknown provider",
			mode:    "catalog",
			mutate:  func(c *Config) { c.AI.Provider = "openai" },
			wantErr: `ai.provider "openai" must be gemini or anthropic`,
		},
		{
			name:    "recommend needs gemini key",
			mode:    "recommend",
			wantErr: "gemini.key is required",
		},
		{
			name: "recommend gemini key present",
			mode: "recommend",
			mutate: func(c *Config) {
				c.Gemini.Key = "g"
			},
		},
		{
			name: "recommend needs anthropic key",
			mode: "recommend",
			mutate: func(c *Config) {
				c.AI.Provider = ProviderAnthropic
				c.Gemini.Key = "g"
			},
			wantErr: "anthropic.key is required",
		},
		{
			name:    "unknown mode",
			mode:    "import",
			wantErr: "unknown mode",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validDefaults()
			if tt.mutate != nil {
				tt.mutate(cfg)
			}
			err := cfg.Validate(tt.mode)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestProviderAccessors(t *testing.T) {
	cfg := validDefaults()
	cfg.Gemini = GeminiConfig{Key: "g", Model: "gemini-2.5-flash"}
	cfg.Anthropic = AnthropicConfig{Key: "a", Model: "claude-sonnet-4-5-20250929"}

	assert.Equal(t, "g", cfg.APIKey())
	assert.Equal(t, "gemini-2.5-flash", cfg.ProviderModel())

	cfg.AI.Provider = ProviderAnthropic
	assert.Equal(t, "a", cfg.APIKey())
	assert.Equal(t, "claude-sonnet-4-5-20250929", cfg.ProviderModel())
}
