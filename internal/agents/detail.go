package agents

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// DetailAgent expands the ideas a user picked into implementation guidance
type DetailAgent struct {
	client *GenerationClient
}

func NewDetailAgent(client *GenerationClient) *DetailAgent {
	return &DetailAgent{client: client}
}

func (a *DetailAgent) Expand(ctx context.Context, conv Conversation, selectedIdeas []string) (string, error) {
	if len(selectedIdeas) == 0 {
		return "", errors.New("no ideas selected")
	}

	responseText, err := a.client.Send(ctx, conv, detailPrompt(strings.Join(selectedIdeas, ", ")))
	if err != nil {
		return "", errors.Wrap(err, "failed to generate detailed suggestions")
	}

	responseText = strings.TrimSpace(responseText)
	if responseText == "" {
		return "", errors.New("received an empty detail response")
	}

	return responseText, nil
}

func detailPrompt(ideas string) string {
	return fmt.Sprintf(`Please provide detailed suggestions and implementation guidelines for the following idea(s): %s.
Focus on professional and constructive guidance.
For each idea, include:
1. Key features and functionality
2. Technical implementation considerations
3. Potential challenges and solutions
4. Development timeline estimate
5. Required resources and technologies`, ideas)
}
