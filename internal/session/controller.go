package session

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/shubh-37/idea-assistant/internal/agents"
	"github.com/shubh-37/idea-assistant/internal/guard"
	"github.com/shubh-37/idea-assistant/internal/models"
)

const (
	cmdExit  = "exit"
	cmdBack  = "back"
	cmdRetry = "retry"
)

// State is a step of one question round
type State int

const (
	AwaitingQuestion State = iota
	GeneratingIdeas
	AwaitingSelection
	GeneratingDetail
	Done
)

func (s State) String() string {
	switch s {
	case AwaitingQuestion:
		return "awaiting_question"
	case GeneratingIdeas:
		return "generating_ideas"
	case AwaitingSelection:
		return "awaiting_selection"
	case GeneratingDetail:
		return "generating_detail"
	case Done:
		return "done"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

type Controller struct {
	guard    *guard.ContentGuard
	ideas    IdeaGenerator
	details  DetailExpander
	prompter Prompter
	display  Display
	sinks    []TranscriptSink
}

func NewController(
	g *guard.ContentGuard,
	ideas IdeaGenerator,
	details DetailExpander,
	prompter Prompter,
	display Display,
	sinks ...TranscriptSink,
) *Controller {
	return &Controller{
		guard:    g,
		ideas:    ideas,
		details:  details,
		prompter: prompter,
		display:  display,
		sinks:    sinks,
	}
}

// Run reads questions until the user types exit or input ends
func (c *Controller) Run(ctx context.Context, sess *Session) error {
	c.display.Welcome()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		input, err := c.prompter.Ask("You: ")
		if err != nil {
			return err
		}

		if isCommand(input, cmdExit) {
			c.display.Goodbye()
			return nil
		}

		ok, err := c.HandleInput(ctx, sess, input)
		if err != nil {
			return err
		}
		if ok {
			c.display.NextSteps()
		}
	}
}

// HandleInput drives one round from a top level input until it either
// completes (true) or drops back to waiting for a question (false). The
// returned error is reserved for cancellation and input failures.
func (c *Controller) HandleInput(ctx context.Context, sess *Session, input string) (bool, error) {
	state := AwaitingQuestion
	var turn *models.Turn
	var err error

	if isCommand(input, cmdBack) {
		turn, state = c.goBack(sess)
	} else {
		turn, state = c.acceptQuestion(sess, input)
	}

	for {
		log.Debug().Str("session", sess.ID).Stringer("state", state).Msg("Session transition")

		switch state {
		case AwaitingQuestion:
			return false, nil

		case GeneratingIdeas:
			state, err = c.generateIdeas(ctx, sess, turn)

		case AwaitingSelection:
			turn, state, err = c.awaitSelection(sess, turn)

		case GeneratingDetail:
			state, err = c.generateDetail(ctx, sess, turn)

		case Done:
			return true, nil

		default:
			return false, errors.Errorf("unknown session state %v", state)
		}

		if err != nil {
			return false, err
		}
	}
}

func (c *Controller) acceptQuestion(sess *Session, input string) (*models.Turn, State) {
	question := strings.TrimSpace(input)
	if question == "" {
		return nil, AwaitingQuestion
	}

	if c.guard.IsInappropriate(question) {
		log.Info().Str("session", sess.ID).Err(guard.ErrInappropriateContent).Msg("Question rejected")
		c.display.Error("Please keep your questions appropriate and professional. Try asking about business, technology, or creative projects instead.")
		return nil, AwaitingQuestion
	}

	turn := sess.History.AddQuestion(question)
	c.display.Info("Generating ideas for you... 🤔")
	return turn, GeneratingIdeas
}

func (c *Controller) goBack(sess *Session) (*models.Turn, State) {
	turn := sess.History.GoBack()
	if turn == nil {
		c.display.Warn("No previous questions available.")
		return nil, AwaitingQuestion
	}

	c.display.Info(fmt.Sprintf("Going back to previous question:\n%q", turn.Question))

	if turn.HasIdeas() {
		c.display.Ideas(turn.Ideas)
		return turn, AwaitingSelection
	}

	// the earlier attempt never produced ideas
	c.display.Info("Generating ideas for you... 🤔")
	return turn, GeneratingIdeas
}

func (c *Controller) generateIdeas(ctx context.Context, sess *Session, turn *models.Turn) (State, error) {
	ideas, err := c.ideas.Generate(ctx, sess.conv, turn.Question)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return AwaitingQuestion, ctxErr
		}

		log.Warn().Err(err).Str("session", sess.ID).Str("turn", turn.ID).Msg("❌ Idea generation failed")
		if errors.Is(err, agents.ErrIdeaGenerationFailed) {
			c.display.Error("Unable to generate appropriate ideas after multiple attempts. Please try a different question.")
		} else {
			c.display.Error(fmt.Sprintf("Error: %v", err))
		}
		return AwaitingQuestion, nil
	}

	sess.History.UpdateIdeas(ideas)
	c.display.Ideas(ideas)
	return AwaitingSelection, nil
}

func (c *Controller) awaitSelection(sess *Session, turn *models.Turn) (*models.Turn, State, error) {
	for {
		c.display.SelectionHelp()

		answer, err := c.prompter.Ask("Your selection: ")
		if err != nil {
			return turn, AwaitingQuestion, err
		}

		switch {
		case isCommand(answer, cmdRetry):
			sess.History.UpdateIdeas(nil)
			c.display.Info("Generating new ideas for your question... 🤔")
			return turn, GeneratingIdeas, nil

		case isCommand(answer, cmdBack):
			prev, state := c.goBack(sess)
			return prev, state, nil

		case isCommand(answer, cmdExit):
			c.display.Info("Leaving this question. Ask another one whenever you're ready.")
			return turn, AwaitingQuestion, nil
		}

		selection := ParseSelection(answer)
		if !ValidSelection(selection, len(turn.Ideas)) {
			log.Debug().Err(ErrInvalidSelection).Str("input", answer).Msg("Selection rejected")
			c.display.Error(fmt.Sprintf("Please select valid numbers between 1 and %d.", len(turn.Ideas)))
			continue
		}

		sess.History.UpdateSelection(selection)
		return turn, GeneratingDetail, nil
	}
}

func (c *Controller) generateDetail(ctx context.Context, sess *Session, turn *models.Turn) (State, error) {
	c.display.Info("Generating detailed suggestions... 🔍")

	detail, err := c.details.Expand(ctx, sess.conv, turn.SelectedIdeas())
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return AwaitingQuestion, ctxErr
		}

		log.Warn().Err(err).Str("session", sess.ID).Str("turn", turn.ID).Msg("❌ Detail expansion failed")
		c.display.Error("Error generating detailed suggestions. Please try selecting different ideas.")
		return AwaitingQuestion, nil
	}

	sess.History.UpdateDetail(detail)
	c.display.Detail(detail)
	c.record(ctx, sess, turn)

	return Done, nil
}

func (c *Controller) record(ctx context.Context, sess *Session, turn *models.Turn) {
	if len(c.sinks) == 0 {
		return
	}

	record := models.NewTranscriptRecord(sess.ID, turn)
	for _, sink := range c.sinks {
		if err := sink.Record(ctx, record); err != nil {
			log.Warn().Err(err).Str("sink", sink.Name()).Str("turn", turn.ID).Msg("⚠️ Failed to record turn")
			c.display.Warn(fmt.Sprintf("Could not save this answer to %s.", sink.Name()))
		}
	}
}

func isCommand(input, command string) bool {
	return strings.EqualFold(strings.TrimSpace(input), command)
}
