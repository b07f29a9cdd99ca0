package main

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/shubh-37/idea-assistant/config"
	"github.com/shubh-37/idea-assistant/internal/agents"
	"github.com/shubh-37/idea-assistant/internal/database"
	"github.com/shubh-37/idea-assistant/internal/guard"
	"github.com/shubh-37/idea-assistant/internal/session"
	slackpkg "github.com/shubh-37/idea-assistant/internal/slack"
	"github.com/shubh-37/idea-assistant/internal/terminal"
)

type rootOptions struct {
	configPath string
	model      string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "ideas",
		Short:        "Ask what to build, pick from three ideas, get detailed guidance",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(opts.logLevel)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd.Context(), opts)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "YAML config file (defaults to $IDEAS_CONFIG)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	cmd.Flags().StringVar(&opts.model, "model", "", "Gemini model name, overrides GEMINI_MODEL")

	cmd.AddCommand(newTranscriptsCmd(opts))

	return cmd
}

func setupLogging(level string) error {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return errors.Wrapf(err, "invalid log level %q", level)
	}

	zerolog.SetGlobalLevel(lvl)
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		With().
		Timestamp().
		Logger()

	return nil
}

func loadConfig(opts *rootOptions) (*config.Config, error) {
	cfg, err := config.LoadConfig(opts.configPath)
	if err != nil {
		return nil, err
	}
	if opts.model != "" {
		cfg.Model = opts.model
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "configuration error")
	}
	return cfg, nil
}

func runChat(ctx context.Context, opts *rootOptions) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	log.Info().Str("model", cfg.Model).Msg("🚀 Idea assistant starting")

	contentGuard, err := guard.New(cfg.Guard.Patterns)
	if err != nil {
		return err
	}

	provider, err := agents.NewGeminiProvider(ctx, cfg.GoogleAPIKey, providerOptions(cfg))
	if err != nil {
		return err
	}

	conv, err := provider.StartChat(ctx)
	if err != nil {
		return err
	}

	sinks, cleanup, err := buildSinks(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	renderer := terminal.NewRenderer(os.Stdout)

	client := agents.NewGenerationClient(agents.BackoffConfig{
		BaseDelay:  time.Duration(cfg.Retry.BaseDelayMs) * time.Millisecond,
		Multiplier: cfg.Retry.Multiplier,
		MaxRetries: cfg.Retry.MaxRetries,
	}, renderer)

	ideaGenerator := agents.NewIdeaGeneratorAgent(client, contentGuard, agents.IdeaGeneratorConfig{
		MaxAttempts: cfg.Retry.IdeaAttempts,
		Pause:       time.Duration(cfg.Retry.IdeaRetryPauseMs) * time.Millisecond,
	}, renderer)

	controller := session.NewController(
		contentGuard,
		ideaGenerator,
		agents.NewDetailAgent(client),
		terminal.NewPrompter(os.Stdin, os.Stdout),
		renderer,
		sinks...,
	)

	sess := session.NewSession(conv)
	log.Debug().Str("session", sess.ID).Msg("Session started")

	err = controller.Run(ctx, sess)
	if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
		renderer.Goodbye()
		return nil
	}
	return err
}

func providerOptions(cfg *config.Config) agents.ProviderOptions {
	return agents.ProviderOptions{
		Model:           cfg.Model,
		Temperature:     cfg.Generation.Temperature,
		TopK:            cfg.Generation.TopK,
		TopP:            cfg.Generation.TopP,
		MaxOutputTokens: cfg.Generation.MaxOutputTokens,
		Safety: agents.SafetyThresholds{
			Harassment:       cfg.Safety.Harassment,
			HateSpeech:       cfg.Safety.HateSpeech,
			SexuallyExplicit: cfg.Safety.SexuallyExplicit,
			DangerousContent: cfg.Safety.DangerousContent,
		},
	}
}

// buildSinks wires the optional transcript archive and Slack share
func buildSinks(ctx context.Context, cfg *config.Config) ([]session.TranscriptSink, func(), error) {
	var sinks []session.TranscriptSink
	cleanup := func() {}

	if cfg.DatabaseURL != "" {
		db, err := database.NewDB(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, cleanup, errors.Wrap(err, "failed to connect to database")
		}
		if err := db.CreateTables(ctx); err != nil {
			db.Close()
			return nil, cleanup, err
		}
		cleanup = db.Close
		sinks = append(sinks, database.NewTranscriptRepository(db))
		log.Info().Msg("📊 Transcript archive enabled")
	}

	if cfg.SlackToken != "" {
		client, err := slackpkg.NewClient(cfg.SlackToken)
		if err != nil {
			cleanup()
			return nil, func() {}, err
		}
		sinks = append(sinks, slackpkg.NewSharePublisher(client, cfg.SlackChannel))
		log.Info().Str("channel", cfg.SlackChannel).Msg("💬 Slack sharing enabled")
	}

	return sinks, cleanup, nil
}
