package agents

import "time"

// Notifier receives advisory progress notices meant for the user.
// Nothing in the retry logic depends on them.
type Notifier interface {
	RateLimited(wait time.Duration, retry, maxRetries int)
	IdeaRetry(attempt, maxAttempts int, cause error)
}

type NopNotifier struct{}

func (NopNotifier) RateLimited(time.Duration, int, int) {}
func (NopNotifier) IdeaRetry(int, int, error)          {}
