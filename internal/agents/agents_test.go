package agents

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/shubh-37/idea-assistant/internal/guard"
)

type reply struct {
	text string
	err  error
}

type scriptedConversation struct {
	replies []reply
	prompts []string
}

func (s *scriptedConversation) SendMessage(_ context.Context, text string) (string, error) {
	s.prompts = append(s.prompts, text)
	if len(s.replies) == 0 {
		return "", errors.New("no scripted reply left")
	}
	r := s.replies[0]
	s.replies = s.replies[1:]
	return r.text, r.err
}

// instantTimer fires immediately and records the requested waits
type instantTimer struct {
	waits []time.Duration
	c     chan time.Time
}

func (t *instantTimer) Start(d time.Duration) {
	t.waits = append(t.waits, d)
	t.c = make(chan time.Time, 1)
	t.c <- time.Now()
}

func (t *instantTimer) Stop() {}

func (t *instantTimer) C() <-chan time.Time { return t.c }

type recordingNotifier struct {
	waits      []time.Duration
	ideaRetry  []int
	lastReason error
}

func (n *recordingNotifier) RateLimited(wait time.Duration, _, _ int) {
	n.waits = append(n.waits, wait)
}

func (n *recordingNotifier) IdeaRetry(attempt, _ int, cause error) {
	n.ideaRetry = append(n.ideaRetry, attempt)
	n.lastReason = cause
}

func newTestClient(notifier Notifier) (*GenerationClient, *instantTimer) {
	timer := &instantTimer{}
	client := NewGenerationClient(DefaultBackoffConfig(), notifier)
	client.newTimer = func() backoff.Timer { return timer }
	return client, timer
}

func rateLimited() reply {
	return reply{err: errors.Wrap(ErrRateLimited, "429 Too Many Requests")}
}

func TestSendBacksOffExponentiallyAndGivesUp(t *testing.T) {
	notifier := &recordingNotifier{}
	client, timer := newTestClient(notifier)
	conv := &scriptedConversation{replies: []reply{rateLimited(), rateLimited(), rateLimited(), rateLimited()}}

	_, err := client.Send(context.Background(), conv, "prompt")

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRateLimitExceeded))
	expected := []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
	assert.Equal(t, expected, timer.waits)
	assert.Equal(t, expected, notifier.waits)
	assert.Len(t, conv.prompts, 4)
}

func TestSendRecoversAfterRateLimit(t *testing.T) {
	client, timer := newTestClient(nil)
	conv := &scriptedConversation{replies: []reply{rateLimited(), rateLimited(), {text: "ok"}}}

	text, err := client.Send(context.Background(), conv, "prompt")

	require.NoError(t, err)
	assert.Equal(t, "ok", text)
	assert.Equal(t, []time.Duration{1 * time.Second, 2 * time.Second}, timer.waits)
}

func TestSendDoesNotRetryOtherErrors(t *testing.T) {
	client, timer := newTestClient(nil)
	boom := errors.New("service unavailable")
	conv := &scriptedConversation{replies: []reply{{err: boom}, {text: "never reached"}}}

	_, err := client.Send(context.Background(), conv, "prompt")

	require.Error(t, err)
	assert.True(t, errors.Is(err, boom))
	assert.False(t, errors.Is(err, ErrRateLimitExceeded))
	assert.Empty(t, timer.waits)
	assert.Len(t, conv.prompts, 1)
}

func TestSendUsesConfiguredBackoff(t *testing.T) {
	timer := &instantTimer{}
	client := NewGenerationClient(BackoffConfig{BaseDelay: 500 * time.Millisecond, Multiplier: 3, MaxRetries: 2}, nil)
	client.newTimer = func() backoff.Timer { return timer }
	conv := &scriptedConversation{replies: []reply{rateLimited(), rateLimited(), rateLimited()}}

	_, err := client.Send(context.Background(), conv, "prompt")

	assert.True(t, errors.Is(err, ErrRateLimitExceeded))
	assert.Equal(t, []time.Duration{500 * time.Millisecond, 1500 * time.Millisecond}, timer.waits)
}

func newTestIdeaAgent(conv *scriptedConversation, notifier Notifier) (*IdeaGeneratorAgent, *[]time.Duration) {
	client, _ := newTestClient(nil)
	agent := NewIdeaGeneratorAgent(client, guard.Default(), DefaultIdeaGeneratorConfig(), notifier)

	var pauses []time.Duration
	agent.sleep = func(_ context.Context, d time.Duration) error {
		pauses = append(pauses, d)
		return nil
	}
	return agent, &pauses
}

func TestGenerateReturnsThreeIdeas(t *testing.T) {
	conv := &scriptedConversation{replies: []reply{
		{text: "1. Habit tracker\n\n  2. Recipe planner  \n3. Budget app\n"},
	}}
	agent, _ := newTestIdeaAgent(conv, nil)

	ideas, err := agent.Generate(context.Background(), conv, "What app should I build?")

	require.NoError(t, err)
	assert.Equal(t, []string{"1. Habit tracker", "2. Recipe planner", "3. Budget app"}, ideas)
	require.Len(t, conv.prompts, 1)
	assert.Contains(t, conv.prompts[0], `"What app should I build?"`)
}

func TestGenerateFailsAfterThreeBadResponses(t *testing.T) {
	notifier := &recordingNotifier{}
	conv := &scriptedConversation{replies: []reply{
		{text: "only one idea"},
		{text: "1. a\n2. b\n3. c\n4. d"},
		{text: "1. Coffee shop\n2. Cocaine delivery\n3. Bakery"},
		{text: "1. a\n2. b\n3. c"},
	}}
	agent, pauses := newTestIdeaAgent(conv, notifier)

	_, err := agent.Generate(context.Background(), conv, "What business should I start?")

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrIdeaGenerationFailed))
	assert.Len(t, conv.prompts, 3)
	assert.Equal(t, []int{1, 2, 3}, notifier.ideaRetry)
	assert.Empty(t, *pauses, "validation failures retry without pausing")
}

func TestGenerateRetriesAfterTransportError(t *testing.T) {
	conv := &scriptedConversation{replies: []reply{
		{err: errors.New("connection reset")},
		{text: "1. a\n2. b\n3. c"},
	}}
	agent, pauses := newTestIdeaAgent(conv, nil)

	ideas, err := agent.Generate(context.Background(), conv, "q")

	require.NoError(t, err)
	assert.Len(t, ideas, 3)
	assert.Equal(t, []time.Duration{time.Second}, *pauses)
}

func TestGenerateCountsRateLimitExhaustionAsAttempt(t *testing.T) {
	var replies []reply
	for i := 0; i < 3*4; i++ {
		replies = append(replies, rateLimited())
	}
	conv := &scriptedConversation{replies: replies}
	notifier := &recordingNotifier{}
	agent, pauses := newTestIdeaAgent(conv, notifier)

	_, err := agent.Generate(context.Background(), conv, "q")

	assert.True(t, errors.Is(err, ErrIdeaGenerationFailed))
	assert.True(t, errors.Is(notifier.lastReason, ErrRateLimitExceeded))
	// no pause after the final attempt
	assert.Len(t, *pauses, 2)
	assert.Len(t, conv.prompts, 12)
}

func TestExpandJoinsSelectedIdeas(t *testing.T) {
	conv := &scriptedConversation{replies: []reply{{text: "  Here is the plan.  "}}}
	client, _ := newTestClient(nil)
	agent := NewDetailAgent(client)

	detail, err := agent.Expand(context.Background(), conv, []string{"1. Habit tracker", "2. Recipe planner"})

	require.NoError(t, err)
	assert.Equal(t, "Here is the plan.", detail)
	require.Len(t, conv.prompts, 1)
	assert.True(t, strings.Contains(conv.prompts[0], "1. Habit tracker, 2. Recipe planner."))
}

func TestExpandRejectsEmptyResponse(t *testing.T) {
	conv := &scriptedConversation{replies: []reply{{text: "   "}}}
	client, _ := newTestClient(nil)

	_, err := NewDetailAgent(client).Expand(context.Background(), conv, []string{"idea"})
	assert.Error(t, err)
}

func TestClassifyError(t *testing.T) {
	assert.True(t, errors.Is(classifyError(genai.APIError{Code: 429, Message: "quota"}), ErrRateLimited))
	assert.True(t, errors.Is(classifyError(genai.APIError{Code: 400, Status: "RESOURCE_EXHAUSTED"}), ErrRateLimited))
	assert.True(t, errors.Is(classifyError(errors.New("googleapi: Error 429")), ErrRateLimited))

	assert.False(t, errors.Is(classifyError(genai.APIError{Code: 503, Message: "unavailable"}), ErrRateLimited))
	assert.False(t, errors.Is(classifyError(errors.New("dial tcp: timeout")), ErrRateLimited))
}

func TestSafetySettingsSkipEmptyThresholds(t *testing.T) {
	settings := safetySettings(SafetyThresholds{
		Harassment:       "BLOCK_LOW_AND_ABOVE",
		DangerousContent: "BLOCK_ONLY_HIGH",
	})

	require.Len(t, settings, 2)
	assert.Equal(t, genai.HarmCategoryHarassment, settings[0].Category)
	assert.Equal(t, genai.HarmBlockThreshold("BLOCK_LOW_AND_ABOVE"), settings[0].Threshold)
	assert.Equal(t, genai.HarmCategoryDangerousContent, settings[1].Category)
}
