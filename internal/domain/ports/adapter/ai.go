package adapter

import "context"

// Message represents a chat message.
type Message struct {
	Role    string `json:"role"` // "user", "assistant", "system"
	Content string `json:"content"`
}

// AIServiceAdapter is the port for LLM chat completion. One synchronous call
// per invocation; no retries, no streaming.
type AIServiceAdapter interface {
	// Provider names the backing service for logs and metrics.
	Provider() string

	// Chat returns only the assistant text.
	Chat(ctx context.Context, model string, messages []Message) (string, error)
}
