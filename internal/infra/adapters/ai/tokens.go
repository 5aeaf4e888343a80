package ai

import (
	"github.com/pkoukk/tiktoken-go"
)

// TokenCounter estimates token counts for audit diagnostics and metrics.
// Counts are best-effort: for non-OpenAI models the cl100k_base encoding is
// an approximation, which is fine for observability purposes.
type TokenCounter struct {
	enc *tiktoken.Tiktoken
}

func NewTokenCounter(model string) *TokenCounter {
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		enc, _ = tiktoken.GetEncoding("cl100k_base")
	}
	return &TokenCounter{enc: enc}
}

func (c *TokenCounter) Count(text string) int {
	if c == nil || c.enc == nil || text == "" {
		return 0
	}
	return len(c.enc.Encode(text, nil, nil))
}
