package usecase

import (
	"context"
	"fmt"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"telegram-relay-bot/internal/domain/model"
	"telegram-relay-bot/internal/domain/ports/adapter"
	"telegram-relay-bot/internal/infra/metrics"
)

// TokenCounter is satisfied by the tiktoken-backed counter in infra.
type TokenCounter interface {
	Count(text string) int
}

// AuditLogger sends one structured record per handled command to the log
// channel. Delivery is strictly best-effort: a failure is counted and logged,
// never surfaced to the pipeline.
type AuditLogger struct {
	bot        adapter.TelegramBotAdapter
	logChannel int64
	tokens     TokenCounter
	log        *zerolog.Logger
}

func NewAuditLogger(bot adapter.TelegramBotAdapter, logChannel int64, tokens TokenCounter, logger *zerolog.Logger) *AuditLogger {
	return &AuditLogger{bot: bot, logChannel: logChannel, tokens: tokens, log: logger}
}

// Log formats and emits the entry. A zero log channel disables auditing.
func (a *AuditLogger) Log(ctx context.Context, entry model.AuditEntry) {
	if a.logChannel == 0 {
		return
	}
	entry.ID = ulid.Make().String()
	if a.tokens != nil {
		entry.OutputTokens = a.tokens.Count(entry.Output)
	}

	mention := entry.Username
	if mention == "" {
		mention = "Unknown"
	}
	text := fmt.Sprintf(
		"👤 User: %s\n🆔 ID: %d\n💬 Command: %s\n🧾 Ref: %s (%d tokens)\n📥 Input:\n%s\n\n📤 Output:\n%s",
		mention, entry.UserID, entry.Command, entry.ID, entry.OutputTokens,
		entry.Input, entry.TruncatedOutput(),
	)

	if err := a.bot.SendMessage(ctx, a.logChannel, text); err != nil {
		metrics.IncAuditFailure()
		a.log.Warn().Err(err).Str("audit_id", entry.ID).Int64("tg_id", entry.UserID).
			Msg("audit record not delivered")
	}
}
