package telegram

import (
	"context"
	"errors"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"telegram-relay-bot/internal/domain"
	"telegram-relay-bot/internal/domain/ports/adapter"
	"telegram-relay-bot/internal/infra/logging"
	"telegram-relay-bot/internal/infra/metrics"
	"telegram-relay-bot/internal/usecase"
)

type commandHandler func(ctx context.Context, message *tgbotapi.Message) error

// commandRoutes defines all available bot commands and their handlers.
func (r *RealBot) commandRoutes() map[string]commandHandler {
	return map[string]commandHandler{
		"start":   r.handleStartCommand,
		"explain": r.handleExplainCommand,
		"prompt":  r.handlePromptCommand,

		"broadcast": r.adminOnly(r.handleBroadcastCommand),
	}
}

// handleMessage routes a plain message: commands through the route table,
// free text through the explain pipeline.
func (r *RealBot) handleMessage(ctx context.Context, message *tgbotapi.Message) error {
	ctx = logging.WithTgID(ctx, message.From.ID)

	if message.IsCommand() {
		cmd := message.Command()
		ctx = logging.WithCommand(ctx, cmd)
		metrics.IncCommand(cmd)
		if handler, ok := r.commandRoutes()[cmd]; ok {
			return handler(ctx, message)
		}
		// Unknown command: treat like /start so the user sees what exists.
		return r.handleStartCommand(ctx, message)
	}

	if message.Text == "" {
		return nil
	}
	ctx = logging.WithCommand(ctx, "explain")
	metrics.IncCommand("message")
	return r.relay(ctx, message, usecase.KindExplain, message.Text)
}

// adminOnly guards admin commands behind the configured administrator id.
func (r *RealBot) adminOnly(next commandHandler) commandHandler {
	return func(ctx context.Context, message *tgbotapi.Message) error {
		if message.From.ID != r.cfg.AdminID {
			metrics.IncCommandOutcome(message.Command(), "unauthorized")
			return r.SendMessage(ctx, message.Chat.ID, r.translator.T("error_unauthorized"))
		}
		return next(ctx, message)
	}
}

// handleStartCommand registers the user and either welcomes them or shows
// the join prompt.
func (r *RealBot) handleStartCommand(ctx context.Context, message *tgbotapi.Message) error {
	joined, err := r.facade.HandleStart(ctx, message.From.ID)
	if err != nil {
		return r.SendMessage(ctx, message.Chat.ID, r.translator.T("error_generic"))
	}
	if !joined {
		return r.sendJoinPrompt(ctx, message.Chat.ID)
	}
	return r.SendMessage(ctx, message.Chat.ID, r.translator.T("welcome_joined"))
}

func (r *RealBot) handleExplainCommand(ctx context.Context, message *tgbotapi.Message) error {
	return r.relay(ctx, message, usecase.KindExplain, message.CommandArguments())
}

func (r *RealBot) handlePromptCommand(ctx context.Context, message *tgbotapi.Message) error {
	return r.relay(ctx, message, usecase.KindRefine, message.CommandArguments())
}

// relay funnels both generation commands through the pipeline and maps its
// sentinel errors onto user-facing replies.
func (r *RealBot) relay(ctx context.Context, message *tgbotapi.Message, kind usecase.PromptKind, text string) error {
	err := r.facade.RelayUC.Relay(ctx, usecase.RelayRequest{
		UserID:   message.From.ID,
		ChatID:   message.Chat.ID,
		Username: message.From.UserName,
		Kind:     kind,
		Text:     text,
	})
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrNotMember):
		return r.sendJoinPrompt(ctx, message.Chat.ID)
	case errors.Is(err, domain.ErrEmptyInput):
		key := "usage_explain"
		if kind == usecase.KindRefine {
			key = "usage_prompt"
		}
		return r.SendMessage(ctx, message.Chat.ID, r.translator.T(key))
	default:
		logging.With(ctx, r.log).Error().Err(err).Msg("relay pipeline failed")
		return r.SendMessage(ctx, message.Chat.ID, r.translator.T("error_generic"))
	}
}

func (r *RealBot) handleBroadcastCommand(ctx context.Context, message *tgbotapi.Message) error {
	sent, failed, err := r.facade.BroadcastUC.Broadcast(ctx, message.From.ID, message.CommandArguments())
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		return r.SendMessage(ctx, message.Chat.ID, r.translator.T("error_unauthorized"))
	case errors.Is(err, domain.ErrEmptyInput):
		return r.SendMessage(ctx, message.Chat.ID, r.translator.T("usage_broadcast"))
	case err != nil:
		logging.With(ctx, r.log).Error().Err(err).Msg("broadcast failed")
		return r.SendMessage(ctx, message.Chat.ID, r.translator.T("error_generic"))
	}
	return r.SendMessage(ctx, message.Chat.ID, r.translator.T("broadcast_report", sent, failed))
}

// sendJoinPrompt shows the two-button join UI: the channel link and the
// recheck action.
func (r *RealBot) sendJoinPrompt(ctx context.Context, chatID int64) error {
	rows := [][]adapter.InlineButton{
		{{Text: r.translator.T("button_join_channel"), URL: r.cfg.ChannelURL()}},
		{{Text: r.translator.T("button_joined"), Data: callbackCheckJoin}},
	}
	return r.SendButtons(ctx, chatID, r.translator.T("join_prompt"), rows)
}
