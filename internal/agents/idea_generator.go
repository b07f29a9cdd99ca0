package agents

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/shubh-37/idea-assistant/internal/guard"
)

// IdeaCount is how many ideas every question must produce
const IdeaCount = 3

// ErrIdeaGenerationFailed means every attempt for a question came back unusable
var ErrIdeaGenerationFailed = errors.New("unable to generate appropriate ideas")

var (
	errMalformedIdeas = errors.New("malformed idea list")
	errUnsafeIdea     = errors.New("idea flagged by content guard")
)

type IdeaGeneratorConfig struct {
	MaxAttempts int
	// Pause is waited after a transport failure before the next attempt
	Pause time.Duration
}

func DefaultIdeaGeneratorConfig() IdeaGeneratorConfig {
	return IdeaGeneratorConfig{
		MaxAttempts: 3,
		Pause:       1 * time.Second,
	}
}

type IdeaGeneratorAgent struct {
	client   *GenerationClient
	guard    *guard.ContentGuard
	cfg      IdeaGeneratorConfig
	notifier Notifier
	sleep    func(ctx context.Context, d time.Duration) error
}

func NewIdeaGeneratorAgent(client *GenerationClient, g *guard.ContentGuard, cfg IdeaGeneratorConfig, notifier Notifier) *IdeaGeneratorAgent {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}

	return &IdeaGeneratorAgent{
		client:   client,
		guard:    g,
		cfg:      cfg,
		notifier: notifier,
		sleep:    sleepContext,
	}
}

// Generate returns exactly IdeaCount ideas for question, or an error wrapping
// ErrIdeaGenerationFailed once MaxAttempts have been spent.
func (a *IdeaGeneratorAgent) Generate(ctx context.Context, conv Conversation, question string) ([]string, error) {
	prompt := ideasPrompt(question)

	var lastErr error
	for attempt := 1; attempt <= a.cfg.MaxAttempts; attempt++ {
		responseText, err := a.client.Send(ctx, conv, prompt)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}

			lastErr = err
			log.Warn().Err(err).Int("attempt", attempt).Msg("❌ Idea generation request failed")
			a.notifier.IdeaRetry(attempt, a.cfg.MaxAttempts, err)

			if attempt < a.cfg.MaxAttempts {
				if err := a.sleep(ctx, a.cfg.Pause); err != nil {
					return nil, err
				}
			}
			continue
		}

		ideas, err := a.parseIdeas(responseText)
		if err == nil {
			return ideas, nil
		}

		lastErr = err
		log.Debug().Err(err).Int("attempt", attempt).Str("response", responseText).Msg("Rejected idea response")
		a.notifier.IdeaRetry(attempt, a.cfg.MaxAttempts, err)
	}

	return nil, errors.Wrapf(ErrIdeaGenerationFailed, "%d attempts: %v", a.cfg.MaxAttempts, lastErr)
}

func (a *IdeaGeneratorAgent) parseIdeas(response string) ([]string, error) {
	var ideas []string
	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			ideas = append(ideas, line)
		}
	}

	if len(ideas) != IdeaCount {
		return nil, errors.Wrapf(errMalformedIdeas, "expected %d lines, got %d", IdeaCount, len(ideas))
	}

	for i, idea := range ideas {
		if a.guard.IsInappropriate(idea) {
			return nil, errors.Wrapf(errUnsafeIdea, "idea %d", i+1)
		}
	}

	return ideas, nil
}

func ideasPrompt(question string) string {
	return fmt.Sprintf(`Generate exactly %d unique, creative, and practical numbered ideas in response to this question: "%s".
Focus on professional and constructive suggestions only.
Make sure each idea is different and specific.
Put each idea on its own line and list them briefly, without any introduction, closing remarks or additional details.`, IdeaCount, question)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
