package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"GOOGLE_API_KEY", "GEMINI_MODEL", "DATABASE_URL", "SLACK_BOT_TOKEN",
		"SLACK_CHANNEL_ID", "IDEAS_CONFIG", "IDEAS_MAX_RETRIES",
	} {
		t.Setenv(key, "")
	}
	// keep godotenv away from any developer .env
	t.Chdir(t.TempDir())
}

func TestLoadConfigDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("GOOGLE_API_KEY", "key")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "key", cfg.GoogleAPIKey)
	assert.Equal(t, "gemini-1.5-flash", cfg.Model)
	assert.Equal(t, float32(0.9), cfg.Generation.Temperature)
	assert.Equal(t, int32(2048), cfg.Generation.MaxOutputTokens)
	assert.Equal(t, "BLOCK_LOW_AND_ABOVE", cfg.Safety.DangerousContent)
	assert.Equal(t, 1000, cfg.Retry.BaseDelayMs)
	assert.Equal(t, 3, cfg.Retry.MaxRetries)
	assert.Equal(t, 3, cfg.Retry.IdeaAttempts)
	assert.Empty(t, cfg.Guard.Patterns)
}

func TestLoadConfigFileAndEnvOverrides(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "ideas.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
model: gemini-1.5-pro
generation:
  temperature: 0.4
retry:
  base_delay_ms: 250
  max_retries: 5
guard:
  patterns:
    - '\bcasino\b'
`), 0o600))

	t.Setenv("GOOGLE_API_KEY", "key")
	t.Setenv("GEMINI_MODEL", "gemini-2.0-flash")
	t.Setenv("IDEAS_MAX_RETRIES", "1")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "gemini-2.0-flash", cfg.Model, "environment wins over the file")
	assert.Equal(t, float32(0.4), cfg.Generation.Temperature)
	assert.Equal(t, float32(1), cfg.Generation.TopK, "unset keys keep defaults")
	assert.Equal(t, 250, cfg.Retry.BaseDelayMs)
	assert.Equal(t, 1, cfg.Retry.MaxRetries)
	assert.Equal(t, []string{`\bcasino\b`}, cfg.Guard.Patterns)
}

func TestLoadConfigMissingFile(t *testing.T) {
	clearEnv(t)

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	assert.Error(t, cfg.Validate(), "api key missing")

	cfg.GoogleAPIKey = "key"
	require.NoError(t, cfg.Validate())

	cfg.SlackToken = "xoxb"
	assert.Error(t, cfg.Validate(), "slack channel missing")
	cfg.SlackChannel = "C123"
	require.NoError(t, cfg.Validate())

	cfg.Retry.IdeaAttempts = 0
	assert.Error(t, cfg.Validate())
}
