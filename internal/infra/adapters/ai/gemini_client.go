package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"telegram-relay-bot/internal/domain"
	"telegram-relay-bot/internal/domain/ports/adapter"
)

var _ adapter.AIServiceAdapter = (*GeminiClient)(nil)

// GeminiClient is the alternate provider, selected when only a Gemini key is
// configured.
type GeminiClient struct {
	client       *genai.Client
	defaultModel string
}

func NewGeminiClient(ctx context.Context, apiKey, baseURL, defaultModel string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, errors.New("gemini api key empty")
	}
	if defaultModel == "" {
		defaultModel = "gemini-2.0-flash"
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{
			BaseURL: baseURL,
		},
	})
	if err != nil {
		return nil, err
	}
	return &GeminiClient{client: c, defaultModel: defaultModel}, nil
}

func (g *GeminiClient) Provider() string { return "gemini" }

func (g *GeminiClient) Chat(ctx context.Context, model string, messages []adapter.Message) (string, error) {
	if len(messages) == 0 {
		return "", fmt.Errorf("%w: no messages", domain.ErrGenerationFailed)
	}
	if model == "" {
		model = g.defaultModel
	}

	last := messages[len(messages)-1]
	if strings.ToLower(last.Role) != "user" {
		return "", fmt.Errorf("%w: last message must be from user", domain.ErrGenerationFailed)
	}

	chat, err := g.client.Chats.Create(ctx, model, nil, toGenAIHistory(messages[:len(messages)-1]))
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrGenerationFailed, err)
	}

	resp, err := chat.SendMessage(ctx, genai.Part{Text: last.Content})
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrGenerationFailed, err)
	}
	if resp != nil && len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil && len(resp.Candidates[0].Content.Parts) > 0 {
		if t := resp.Candidates[0].Content.Parts[0].Text; t != "" {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: empty completion", domain.ErrGenerationFailed)
}

func toGenAIHistory(msgs []adapter.Message) []*genai.Content {
	out := make([]*genai.Content, 0, len(msgs))
	for _, m := range msgs {
		role := genai.RoleUser
		switch strings.ToLower(m.Role) {
		case "assistant", "model":
			role = genai.RoleModel
		case "system":
			// Gemini has no separate system role in history; carry the
			// instruction as a user turn.
			role = genai.RoleUser
		}
		out = append(out, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: m.Content}},
		})
	}
	return out
}
