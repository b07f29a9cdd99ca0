package database

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"

	"github.com/shubh-37/idea-assistant/internal/models"
)

type TranscriptRepository struct {
	db *DB
}

func NewTranscriptRepository(db *DB) *TranscriptRepository {
	return &TranscriptRepository{db: db}
}

func (r *TranscriptRepository) Name() string {
	return "the transcript archive"
}

// Record upserts a resolved turn. A turn revisited with "back" and resolved
// again replaces its earlier row.
func (r *TranscriptRepository) Record(ctx context.Context, record *models.TranscriptRecord) error {
	if record.ResolvedAt.IsZero() {
		record.ResolvedAt = time.Now()
	}

	query := `
		INSERT INTO idea_transcripts (id, session_id, question, ideas, selection,
		                              detail, created_at, resolved_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE
		SET ideas = EXCLUDED.ideas, selection = EXCLUDED.selection,
		    detail = EXCLUDED.detail, resolved_at = EXCLUDED.resolved_at
	`

	_, err := r.db.Pool.Exec(ctx, query,
		record.ID,
		record.SessionID,
		record.Question,
		record.Ideas,
		toInt32s(record.Selection),
		record.Detail,
		record.CreatedAt,
		record.ResolvedAt,
	)
	if err != nil {
		return errors.Wrap(err, "failed to record transcript")
	}

	return nil
}

// GetRecent lists the newest resolved turns, optionally limited to one session
func (r *TranscriptRepository) GetRecent(ctx context.Context, sessionID string, limit int) ([]*models.TranscriptRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, session_id, question, ideas, selection, detail, created_at, resolved_at
		FROM idea_transcripts
		WHERE $1 = '' OR session_id::text = $1
		ORDER BY resolved_at DESC
		LIMIT $2
	`

	rows, err := r.db.Pool.Query(ctx, query, sessionID, limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query transcripts")
	}
	defer rows.Close()

	var records []*models.TranscriptRecord
	for rows.Next() {
		record, err := scanTranscript(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to read transcripts")
	}

	return records, nil
}

func (r *TranscriptRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM idea_transcripts`).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "failed to count transcripts")
	}
	return count, nil
}

func scanTranscript(row pgx.Row) (*models.TranscriptRecord, error) {
	record := &models.TranscriptRecord{}
	var selection []int32

	err := row.Scan(
		&record.ID,
		&record.SessionID,
		&record.Question,
		&record.Ideas,
		&selection,
		&record.Detail,
		&record.CreatedAt,
		&record.ResolvedAt,
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to scan transcript")
	}

	for _, n := range selection {
		record.Selection = append(record.Selection, int(n))
	}

	return record, nil
}

func toInt32s(values []int) []int32 {
	out := make([]int32, len(values))
	for i, v := range values {
		out[i] = int32(v)
	}
	return out
}
