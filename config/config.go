package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

type Config struct {
	GoogleAPIKey string `yaml:"-"`
	Model        string `yaml:"model"`
	DatabaseURL  string `yaml:"-"`
	SlackToken   string `yaml:"-"`
	SlackChannel string `yaml:"slack_channel"`

	Generation GenerationConfig `yaml:"generation"`
	Safety     SafetyConfig     `yaml:"safety"`
	Retry      RetryConfig      `yaml:"retry"`
	Guard      GuardConfig      `yaml:"guard"`
}

// GenerationConfig is handed to the model as is
type GenerationConfig struct {
	Temperature     float32 `yaml:"temperature"`
	TopK            float32 `yaml:"top_k"`
	TopP            float32 `yaml:"top_p"`
	MaxOutputTokens int32   `yaml:"max_output_tokens"`
}

// SafetyConfig holds Gemini block thresholds per harm category
type SafetyConfig struct {
	Harassment       string `yaml:"harassment"`
	HateSpeech       string `yaml:"hate_speech"`
	SexuallyExplicit string `yaml:"sexually_explicit"`
	DangerousContent string `yaml:"dangerous_content"`
}

type RetryConfig struct {
	BaseDelayMs      int     `yaml:"base_delay_ms"`
	Multiplier       float64 `yaml:"multiplier"`
	MaxRetries       int     `yaml:"max_retries"`
	IdeaAttempts     int     `yaml:"idea_attempts"`
	IdeaRetryPauseMs int     `yaml:"idea_retry_pause_ms"`
}

type GuardConfig struct {
	Patterns []string `yaml:"patterns"`
}

func Default() *Config {
	return &Config{
		Model: "gemini-1.5-flash",
		Generation: GenerationConfig{
			Temperature:     0.9,
			TopK:            1,
			TopP:            1,
			MaxOutputTokens: 2048,
		},
		Safety: SafetyConfig{
			Harassment:       "BLOCK_LOW_AND_ABOVE",
			HateSpeech:       "BLOCK_LOW_AND_ABOVE",
			SexuallyExplicit: "BLOCK_LOW_AND_ABOVE",
			DangerousContent: "BLOCK_LOW_AND_ABOVE",
		},
		Retry: RetryConfig{
			BaseDelayMs:      1000,
			Multiplier:       2,
			MaxRetries:       3,
			IdeaAttempts:     3,
			IdeaRetryPauseMs: 1000,
		},
	}
}

// LoadConfig loads configuration from environment variables and an optional YAML file.
// It first tries to load a .env file, then falls back to system environment variables.
// The YAML file (path argument, or IDEAS_CONFIG) overrides the built-in defaults.
func LoadConfig(path string) (*Config, error) {
	// Load .env file if it exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg(".env file not found or couldn't be loaded")
	}

	cfg := Default()

	if path == "" {
		path = os.Getenv("IDEAS_CONFIG")
	}
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.GoogleAPIKey = getEnv("GOOGLE_API_KEY", "")
	cfg.Model = getEnv("GEMINI_MODEL", cfg.Model)
	cfg.DatabaseURL = getEnv("DATABASE_URL", "")
	cfg.SlackToken = getEnv("SLACK_BOT_TOKEN", "")
	cfg.SlackChannel = getEnv("SLACK_CHANNEL_ID", cfg.SlackChannel)

	if v := os.Getenv("IDEAS_MAX_RETRIES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, errors.Wrap(err, "IDEAS_MAX_RETRIES must be an integer")
		}
		cfg.Retry.MaxRetries = n
	}

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "failed to read config file %s", path)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return errors.Wrapf(err, "failed to parse config file %s", path)
	}

	log.Debug().Str("path", path).Msg("Loaded config file")
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func (c *Config) Validate() error {
	if c.GoogleAPIKey == "" {
		return errors.New("GOOGLE_API_KEY is required")
	}
	if c.Model == "" {
		return errors.New("model name is required")
	}
	if c.SlackToken != "" && c.SlackChannel == "" {
		return errors.New("SLACK_CHANNEL_ID is required when SLACK_BOT_TOKEN is set")
	}
	if c.Retry.BaseDelayMs < 0 || c.Retry.IdeaRetryPauseMs < 0 {
		return errors.New("retry delays must not be negative")
	}
	if c.Retry.Multiplier < 1 {
		return errors.New("retry multiplier must be at least 1")
	}
	if c.Retry.MaxRetries < 0 {
		return errors.New("max_retries must not be negative")
	}
	if c.Retry.IdeaAttempts < 1 {
		return errors.New("idea_attempts must be at least 1")
	}
	return nil
}
