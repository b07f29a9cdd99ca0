package agents

import (
	"context"
	"math"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

var (
	// ErrRateLimited classifies a provider failure that can be retried after waiting
	ErrRateLimited = errors.New("rate limited")
	// ErrRateLimitExceeded is returned once the backoff budget is used up
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
)

// Conversation is the provider-side chat that keeps context across calls.
// Implementations must wrap rate limit failures with ErrRateLimited.
type Conversation interface {
	SendMessage(ctx context.Context, text string) (string, error)
}

type BackoffConfig struct {
	BaseDelay  time.Duration
	Multiplier float64
	MaxRetries int
}

func DefaultBackoffConfig() BackoffConfig {
	return BackoffConfig{
		BaseDelay:  1 * time.Second,
		Multiplier: 2,
		MaxRetries: 3,
	}
}

// GenerationClient sends prompts through a Conversation and rides out rate limiting
type GenerationClient struct {
	cfg      BackoffConfig
	notifier Notifier
	newTimer func() backoff.Timer
}

func NewGenerationClient(cfg BackoffConfig, notifier Notifier) *GenerationClient {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	if cfg.Multiplier < 1 {
		cfg.Multiplier = 1
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}

	return &GenerationClient{
		cfg:      cfg,
		notifier: notifier,
	}
}

// Send delivers prompt and returns the reply text. Rate limited calls are
// retried after BaseDelay, BaseDelay*Multiplier, ... up to MaxRetries times;
// any other failure is returned straight away.
func (c *GenerationClient) Send(ctx context.Context, conv Conversation, prompt string) (string, error) {
	var reply string

	operation := func() error {
		text, err := conv.SendMessage(ctx, prompt)
		if err != nil {
			if errors.Is(err, ErrRateLimited) {
				return err
			}
			return backoff.Permanent(err)
		}
		reply = text
		return nil
	}

	retry := 0
	notify := func(err error, wait time.Duration) {
		retry++
		log.Warn().
			Err(err).
			Dur("wait", wait).
			Int("retry", retry).
			Int("max_retries", c.cfg.MaxRetries).
			Msg("⏳ Rate limit hit, backing off")
		c.notifier.RateLimited(wait, retry, c.cfg.MaxRetries)
	}

	var timer backoff.Timer
	if c.newTimer != nil {
		timer = c.newTimer()
	}

	err := backoff.RetryNotifyWithTimer(operation, c.policy(ctx), notify, timer)
	if err != nil {
		if errors.Is(err, ErrRateLimited) {
			return "", errors.Wrapf(ErrRateLimitExceeded, "gave up after %d retries: %v", c.cfg.MaxRetries, err)
		}
		return "", err
	}

	return reply, nil
}

func (c *GenerationClient) policy(ctx context.Context) backoff.BackOff {
	maxInterval := time.Duration(float64(c.cfg.BaseDelay) * math.Pow(c.cfg.Multiplier, float64(c.cfg.MaxRetries)))

	exp := &backoff.ExponentialBackOff{
		InitialInterval:     c.cfg.BaseDelay,
		RandomizationFactor: 0,
		Multiplier:          c.cfg.Multiplier,
		MaxInterval:         maxInterval,
		MaxElapsedTime:      0,
		Stop:                backoff.Stop,
		Clock:               backoff.SystemClock,
	}
	exp.Reset()

	return backoff.WithContext(backoff.WithMaxRetries(exp, uint64(c.cfg.MaxRetries)), ctx)
}
