package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"telegram-relay-bot/internal/domain/ports/adapter"
	"telegram-relay-bot/internal/infra/logging"
)

// callbackCheckJoin is the inline-button payload for the membership recheck.
const callbackCheckJoin = "check_join"

// handleCallback dispatches inline-button presses.
func (r *RealBot) handleCallback(ctx context.Context, query *tgbotapi.CallbackQuery) error {
	ctx = logging.WithTgID(ctx, query.From.ID)

	switch query.Data {
	case callbackCheckJoin:
		return r.handleCheckJoin(ctx, query)
	default:
		// Stale buttons from older bot versions: ack silently.
		return r.AnswerCallback(ctx, query.ID, "", false)
	}
}

// handleCheckJoin re-verifies membership. On success the join prompt message
// is edited in place; otherwise the user gets a transient alert and the
// prompt stays as is. The refused command is never replayed; the user is
// asked to resend it.
func (r *RealBot) handleCheckJoin(ctx context.Context, query *tgbotapi.CallbackQuery) error {
	status, err := r.facade.AccessUC.ConfirmJoin(ctx, query.From.ID)
	if err != nil {
		logging.With(ctx, r.log).Error().Err(err).Msg("join confirmation failed")
		return r.AnswerCallback(ctx, query.ID, r.translator.T("error_generic"), true)
	}

	if status == adapter.MembershipMember {
		if query.Message != nil {
			if err := r.EditMessage(ctx, query.Message.Chat.ID, query.Message.MessageID, r.translator.T("join_success")); err != nil {
				logging.With(ctx, r.log).Warn().Err(err).Msg("join prompt edit failed")
			}
		}
		return r.AnswerCallback(ctx, query.ID, "", false)
	}
	return r.AnswerCallback(ctx, query.ID, r.translator.T("join_not_yet"), true)
}
