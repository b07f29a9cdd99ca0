package session

import (
	"context"

	"github.com/google/uuid"

	"github.com/shubh-37/idea-assistant/internal/agents"
	"github.com/shubh-37/idea-assistant/internal/history"
	"github.com/shubh-37/idea-assistant/internal/models"
)

// Session is everything one user accumulates while talking to the assistant:
// the question history and the provider conversation. The caller owns it.
type Session struct {
	ID      string
	History *history.ConversationHistory
	conv    agents.Conversation
}

func NewSession(conv agents.Conversation) *Session {
	return &Session{
		ID:      uuid.New().String(),
		History: history.New(),
		conv:    conv,
	}
}

// IdeaGenerator produces the candidate ideas for a question
type IdeaGenerator interface {
	Generate(ctx context.Context, conv agents.Conversation, question string) ([]string, error)
}

// DetailExpander turns the chosen ideas into guidance
type DetailExpander interface {
	Expand(ctx context.Context, conv agents.Conversation, selectedIdeas []string) (string, error)
}

// Prompter shows a prompt and reads one line of input
type Prompter interface {
	Ask(prompt string) (string, error)
}

// Display renders assistant output for the user
type Display interface {
	Welcome()
	Info(msg string)
	Warn(msg string)
	Error(msg string)
	Ideas(ideas []string)
	SelectionHelp()
	Detail(detail string)
	NextSteps()
	Goodbye()
}

// TranscriptSink receives every resolved turn. Sinks are best effort.
type TranscriptSink interface {
	Name() string
	Record(ctx context.Context, record *models.TranscriptRecord) error
}
