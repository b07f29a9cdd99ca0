package models

import (
	"time"

	"github.com/google/uuid"
)

// Turn is one question and everything produced for it
type Turn struct {
	ID        string    `json:"id"`
	Question  string    `json:"question"`
	Ideas     []string  `json:"ideas"`     // nil until generated
	Selection []int     `json:"selection"` // 1-based, nil until chosen
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NewTurn creates a turn for a fresh question
func NewTurn(question string) *Turn {
	return &Turn{
		ID:        uuid.New().String(),
		Question:  question,
		CreatedAt: time.Now(),
	}
}

// HasIdeas reports whether ideas were generated for this turn
func (t *Turn) HasIdeas() bool {
	return t != nil && len(t.Ideas) > 0
}

// SelectedIdeas maps the 1-based selection onto idea texts, skipping
// indices that fall outside the idea list.
func (t *Turn) SelectedIdeas() []string {
	var selected []string
	for _, n := range t.Selection {
		if n >= 1 && n <= len(t.Ideas) {
			selected = append(selected, t.Ideas[n-1])
		}
	}
	return selected
}
