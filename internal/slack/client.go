package slack

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/slack-go/slack"
)

type Client struct {
	api   *slack.Client
	botID string
}

// NewClient authenticates the bot token before returning
func NewClient(token string, options ...slack.Option) (*Client, error) {
	if token == "" {
		return nil, errors.New("SLACK_BOT_TOKEN is required")
	}

	api := slack.New(token, options...)

	authTest, err := api.AuthTest()
	if err != nil {
		return nil, errors.Wrap(err, "failed to authenticate with Slack")
	}

	log.Debug().Str("bot", authTest.UserID).Msg("💬 Slack client authenticated")

	return &Client{
		api:   api,
		botID: authTest.UserID,
	}, nil
}

func (c *Client) GetBotID() string {
	return c.botID
}

func (c *Client) SendMessage(ctx context.Context, channelID, message string) error {
	_, _, err := c.api.PostMessageContext(ctx,
		channelID,
		slack.MsgOptionText(message, false),
	)
	return err
}
