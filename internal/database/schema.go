package database

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const transcriptsTable = `
	CREATE TABLE IF NOT EXISTS idea_transcripts (
		id UUID PRIMARY KEY,
		session_id UUID NOT NULL,
		question TEXT NOT NULL,
		ideas TEXT[] NOT NULL,
		selection INTEGER[] NOT NULL,
		detail TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		resolved_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_idea_transcripts_session ON idea_transcripts(session_id);
	CREATE INDEX IF NOT EXISTS idx_idea_transcripts_resolved ON idea_transcripts(resolved_at DESC);
	`

// CreateTables creates the transcript archive table
func (db *DB) CreateTables(ctx context.Context) error {
	log.Debug().Msg("Creating database tables...")

	if _, err := db.Pool.Exec(ctx, transcriptsTable); err != nil {
		return errors.Wrap(err, "failed to create idea_transcripts table")
	}

	log.Debug().Msg("✅ All tables created successfully")
	return nil
}
