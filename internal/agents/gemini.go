package agents

import (
	"context"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"google.golang.org/genai"
)

const DefaultModel = "gemini-1.5-flash"

// SafetyThresholds are passed to Gemini untouched, e.g. "BLOCK_LOW_AND_ABOVE"
type SafetyThresholds struct {
	Harassment       string
	HateSpeech       string
	SexuallyExplicit string
	DangerousContent string
}

type ProviderOptions struct {
	Model           string
	Temperature     float32
	TopK            float32
	TopP            float32
	MaxOutputTokens int32
	Safety          SafetyThresholds
}

// GeminiProvider opens chats against the Gemini API
type GeminiProvider struct {
	client *genai.Client
	opts   ProviderOptions
}

func NewGeminiProvider(ctx context.Context, apiKey string, opts ProviderOptions) (*GeminiProvider, error) {
	if apiKey == "" {
		return nil, errors.New("GOOGLE_API_KEY is required")
	}
	if opts.Model == "" {
		opts.Model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create Gemini client")
	}

	log.Debug().Str("model", opts.Model).Msg("🤖 Gemini provider initialized")

	return &GeminiProvider{client: client, opts: opts}, nil
}

// StartChat opens a fresh conversation with no prior history
func (p *GeminiProvider) StartChat(ctx context.Context) (Conversation, error) {
	chat, err := p.client.Chats.Create(ctx, p.opts.Model, p.generateConfig(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to start Gemini chat")
	}
	return &geminiConversation{chat: chat}, nil
}

func (p *GeminiProvider) generateConfig() *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(p.opts.Temperature),
		TopK:            genai.Ptr(p.opts.TopK),
		TopP:            genai.Ptr(p.opts.TopP),
		MaxOutputTokens: p.opts.MaxOutputTokens,
		SafetySettings:  safetySettings(p.opts.Safety),
	}
}

func safetySettings(t SafetyThresholds) []*genai.SafetySetting {
	settings := []struct {
		category  genai.HarmCategory
		threshold string
	}{
		{genai.HarmCategoryHarassment, t.Harassment},
		{genai.HarmCategoryHateSpeech, t.HateSpeech},
		{genai.HarmCategorySexuallyExplicit, t.SexuallyExplicit},
		{genai.HarmCategoryDangerousContent, t.DangerousContent},
	}

	var out []*genai.SafetySetting
	for _, s := range settings {
		if s.threshold == "" {
			continue
		}
		out = append(out, &genai.SafetySetting{
			Category:  s.category,
			Threshold: genai.HarmBlockThreshold(s.threshold),
		})
	}
	return out
}

type geminiConversation struct {
	chat *genai.Chat
}

func (c *geminiConversation) SendMessage(ctx context.Context, text string) (string, error) {
	resp, err := c.chat.SendMessage(ctx, genai.Part{Text: text})
	if err != nil {
		return "", classifyError(err)
	}
	return resp.Text(), nil
}

// classifyError wraps 429 / RESOURCE_EXHAUSTED responses with ErrRateLimited
func classifyError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Code == http.StatusTooManyRequests || apiErr.Status == "RESOURCE_EXHAUSTED" {
			return errors.Wrap(ErrRateLimited, apiErr.Message)
		}
		return errors.Wrapf(err, "Gemini API error (status %d)", apiErr.Code)
	}

	if strings.Contains(err.Error(), "429") {
		return errors.Wrap(ErrRateLimited, err.Error())
	}

	return errors.Wrap(err, "failed to call Gemini API")
}
