package models

import "time"

// TranscriptRecord is the archived form of a resolved turn
type TranscriptRecord struct {
	ID         string    `json:"id"`
	SessionID  string    `json:"session_id"`
	Question   string    `json:"question"`
	Ideas      []string  `json:"ideas"`
	Selection  []int     `json:"selection"`
	Detail     string    `json:"detail"`
	CreatedAt  time.Time `json:"created_at"`
	ResolvedAt time.Time `json:"resolved_at"`
}

// NewTranscriptRecord snapshots a turn so later edits to the turn do not leak into the record
func NewTranscriptRecord(sessionID string, turn *Turn) *TranscriptRecord {
	return &TranscriptRecord{
		ID:         turn.ID,
		SessionID:  sessionID,
		Question:   turn.Question,
		Ideas:      append([]string(nil), turn.Ideas...),
		Selection:  append([]int(nil), turn.Selection...),
		Detail:     turn.Detail,
		CreatedAt:  turn.CreatedAt,
		ResolvedAt: time.Now(),
	}
}

// SelectedIdeas returns the chosen ideas in selection order
func (r *TranscriptRecord) SelectedIdeas() []string {
	return (&Turn{Ideas: r.Ideas, Selection: r.Selection}).SelectedIdeas()
}
