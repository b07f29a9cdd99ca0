package slack

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/shubh-37/idea-assistant/internal/models"
)

const maxDetailLength = 3500

// SharePublisher posts every completed round to one Slack channel
type SharePublisher struct {
	client    *Client
	channelID string
}

func NewSharePublisher(client *Client, channelID string) *SharePublisher {
	return &SharePublisher{
		client:    client,
		channelID: channelID,
	}
}

func (p *SharePublisher) Name() string {
	return "Slack"
}

func (p *SharePublisher) Record(ctx context.Context, record *models.TranscriptRecord) error {
	if err := p.client.SendMessage(ctx, p.channelID, FormatTranscript(record)); err != nil {
		return errors.Wrapf(err, "failed to post to channel %s", p.channelID)
	}

	log.Debug().Str("channel", p.channelID).Str("turn", record.ID).Msg("📤 Shared turn to Slack")
	return nil
}

// FormatTranscript renders a resolved turn as Slack mrkdwn
func FormatTranscript(record *models.TranscriptRecord) string {
	var b strings.Builder

	b.WriteString("💡 *New Idea Session*\n\n")
	b.WriteString(fmt.Sprintf("*Question:* %s\n\n", record.Question))
	b.WriteString("━━━━━━━━━━━━━━━━━━\n\n")
	b.WriteString("*Ideas:*\n")

	selected := make(map[int]bool, len(record.Selection))
	for _, n := range record.Selection {
		selected[n] = true
	}
	for i, idea := range record.Ideas {
		marker := "•"
		if selected[i+1] {
			marker = "✅"
		}
		b.WriteString(fmt.Sprintf("%s %s\n", marker, idea))
	}

	detail := truncate(record.Detail, maxDetailLength)

	b.WriteString("\n━━━━━━━━━━━━━━━━━━\n\n")
	b.WriteString("*Detailed suggestions:*\n")
	b.WriteString(detail)

	return b.String()
}

// truncate cuts s to at most limit runes
func truncate(s string, limit int) string {
	count := 0
	for i := range s {
		if count == limit {
			return s[:i] + "..."
		}
		count++
	}
	return s
}
