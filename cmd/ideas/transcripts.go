package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/shubh-37/idea-assistant/config"
	"github.com/shubh-37/idea-assistant/internal/database"
	"github.com/shubh-37/idea-assistant/internal/models"
)

const previewLength = 100

func newTranscriptsCmd(root *rootOptions) *cobra.Command {
	var sessionID string
	var limit int

	cmd := &cobra.Command{
		Use:   "transcripts",
		Short: "List archived idea sessions (requires DATABASE_URL)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit <= 0 {
				return errors.Errorf("--limit must be positive, got %d", limit)
			}

			cfg, err := config.LoadConfig(root.configPath)
			if err != nil {
				return err
			}
			if cfg.DatabaseURL == "" {
				return errors.New("DATABASE_URL is required")
			}
			return listTranscripts(cmd.Context(), cfg.DatabaseURL, sessionID, limit, os.Stdout)
		},
	}

	cmd.Flags().StringVar(&sessionID, "session", "", "Only show turns from this session")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of turns to show")

	return cmd
}

func listTranscripts(ctx context.Context, databaseURL, sessionID string, limit int, out io.Writer) error {
	db, err := database.NewDB(ctx, databaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	repo := database.NewTranscriptRepository(db)

	total, err := repo.Count(ctx)
	if err != nil {
		return err
	}

	records, err := repo.GetRecent(ctx, sessionID, limit)
	if err != nil {
		return err
	}

	if len(records) == 0 {
		fmt.Fprintln(out, "📭 No archived sessions yet.")
		return nil
	}

	fmt.Fprintf(out, "📚 Showing %d of %d archived turns\n\n", len(records), total)
	for _, record := range records {
		fmt.Fprint(out, formatRecord(record))
	}
	return nil
}

func formatRecord(record *models.TranscriptRecord) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s  %s\n", record.ResolvedAt.Format("Jan 02 at 3:04 PM"), record.Question)
	for _, idea := range record.SelectedIdeas() {
		fmt.Fprintf(&b, "   ✅ %s\n", idea)
	}

	preview := truncateRunes(record.Detail, previewLength)
	fmt.Fprintf(&b, "   %s\n\n", strings.ReplaceAll(preview, "\n", " "))

	return b.String()
}

func truncateRunes(s string, limit int) string {
	count := 0
	for i := range s {
		if count == limit {
			return s[:i] + "..."
		}
		count++
	}
	return s
}
