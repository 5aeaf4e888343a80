package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	"telegram-relay-bot/internal/domain"
	"telegram-relay-bot/internal/domain/ports/adapter"
)

// Compile-time assurance this client satisfies the port
var _ adapter.AIServiceAdapter = (*OpenAIClient)(nil)

// OpenAIClient implements adapter.AIServiceAdapter through the Chat
// Completions API. The base URL is configurable because the reference setup
// talks to an OpenAI-compatible gateway rather than api.openai.com directly.
type OpenAIClient struct {
	client       openai.Client
	defaultModel string
}

func NewOpenAIClient(apiKey, baseURL, defaultModel string) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, errors.New("openai api key empty")
	}
	if defaultModel == "" {
		defaultModel = "gpt-3.5-turbo"
	}
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(strings.TrimRight(baseURL, "/")))
	}
	return &OpenAIClient{
		client:       openai.NewClient(opts...),
		defaultModel: defaultModel,
	}, nil
}

func (o *OpenAIClient) Provider() string { return "openai" }

func (o *OpenAIClient) Chat(ctx context.Context, model string, messages []adapter.Message) (string, error) {
	if model == "" {
		model = o.defaultModel
	}

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(model),
		Messages: make([]openai.ChatCompletionMessageParamUnion, 0, len(messages)),
	}
	for _, m := range messages {
		switch strings.ToLower(m.Role) {
		case "system":
			params.Messages = append(params.Messages, openai.SystemMessage(m.Content))
		case "assistant":
			params.Messages = append(params.Messages, openai.AssistantMessage(m.Content))
		default:
			params.Messages = append(params.Messages, openai.UserMessage(m.Content))
		}
	}

	resp, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrGenerationFailed, err)
	}
	for _, c := range resp.Choices {
		if c.Message.Content != "" {
			return c.Message.Content, nil
		}
	}
	return "", fmt.Errorf("%w: empty completion", domain.ErrGenerationFailed)
}
