// Package history keeps the navigable list of questions asked during a session.
//
// History is linear: asking a new question after going back drops every turn
// after the cursor before the new turn is appended.
package history

import "github.com/shubh-37/idea-assistant/internal/models"

type ConversationHistory struct {
	turns  []*models.Turn
	cursor int
}

func New() *ConversationHistory {
	return &ConversationHistory{cursor: -1}
}

// AddQuestion truncates everything after the cursor and appends a new turn.
// The cursor moves to the new turn, which is returned.
func (h *ConversationHistory) AddQuestion(question string) *models.Turn {
	if h.cursor < len(h.turns)-1 {
		for i := h.cursor + 1; i < len(h.turns); i++ {
			h.turns[i] = nil
		}
		h.turns = h.turns[:h.cursor+1]
	}

	turn := models.NewTurn(question)
	h.turns = append(h.turns, turn)
	h.cursor = len(h.turns) - 1

	return turn
}

// GoBack moves the cursor one turn back. It returns nil, leaving the cursor
// where it was, when there is no earlier turn.
func (h *ConversationHistory) GoBack() *models.Turn {
	if h.cursor > 0 {
		h.cursor--
		return h.turns[h.cursor]
	}
	return nil
}

func (h *ConversationHistory) Current() *models.Turn {
	if h.cursor >= 0 {
		return h.turns[h.cursor]
	}
	return nil
}

func (h *ConversationHistory) UpdateIdeas(ideas []string) {
	if turn := h.Current(); turn != nil {
		turn.Ideas = ideas
	}
}

func (h *ConversationHistory) UpdateSelection(selection []int) {
	if turn := h.Current(); turn != nil {
		turn.Selection = selection
	}
}

func (h *ConversationHistory) UpdateDetail(detail string) {
	if turn := h.Current(); turn != nil {
		turn.Detail = detail
	}
}

func (h *ConversationHistory) Len() int {
	return len(h.turns)
}

// Cursor is -1 for an empty history
func (h *ConversationHistory) Cursor() int {
	return h.cursor
}

// Turns returns a copy of the turn list, oldest first
func (h *ConversationHistory) Turns() []*models.Turn {
	return append([]*models.Turn(nil), h.turns...)
}
