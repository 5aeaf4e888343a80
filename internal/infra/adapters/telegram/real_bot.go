package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"telegram-relay-bot/internal/application"
	"telegram-relay-bot/internal/config"
	"telegram-relay-bot/internal/domain/ports/adapter"
	"telegram-relay-bot/internal/infra/i18n"
	"telegram-relay-bot/internal/infra/logging"
)

// Compile-time assurance the bot satisfies the transport port
var _ adapter.TelegramBotAdapter = (*RealBot)(nil)

// RealBot drives tgbotapi and delegates every command to the BotFacade.
// Updates arrive either from long polling or from the webhook endpoint,
// and are processed by a fixed set of worker goroutines.
type RealBot struct {
	bot        *tgbotapi.BotAPI
	cfg        *config.BotConfig
	facade     *application.BotFacade
	translator *i18n.Translator
	log        *zerolog.Logger

	updateWorkers  int
	webhookUpdates chan tgbotapi.Update
	cancelRun      context.CancelFunc
}

func NewRealBot(cfg *config.BotConfig, facade *application.BotFacade, translator *i18n.Translator, logger *zerolog.Logger) (*RealBot, error) {
	if cfg == nil {
		return nil, errors.New("bot config is nil")
	}
	if facade == nil {
		return nil, errors.New("bot facade is nil")
	}
	if translator == nil {
		return nil, errors.New("translator is nil")
	}

	bot, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, err
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = 5
	}

	return &RealBot{
		bot:            bot,
		cfg:            cfg,
		facade:         facade,
		translator:     translator,
		log:            logger,
		updateWorkers:  workers,
		webhookUpdates: make(chan tgbotapi.Update, 100),
	}, nil
}

// Run consumes updates until ctx is canceled. In polling mode it long-polls
// Telegram; in webhook mode it drains the channel fed by WebhookHandler.
func (r *RealBot) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	r.cancelRun = cancel

	var updates tgbotapi.UpdatesChannel
	if strings.ToLower(r.cfg.Mode) == "webhook" {
		if err := r.registerWebhook(); err != nil {
			return err
		}
		updates = r.webhookUpdates
	} else {
		// Polling cannot coexist with a registered webhook.
		if _, err := r.bot.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
			r.log.Warn().Err(err).Msg("delete webhook failed")
		}
		u := tgbotapi.NewUpdate(0)
		u.Timeout = 60
		updates = r.bot.GetUpdatesChan(u)
	}

	var wg sync.WaitGroup
	updateChan := make(chan tgbotapi.Update, 100)

	for i := 0; i < r.updateWorkers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case up := <-updateChan:
					r.handleUpdate(ctx, up)
				}
			}
		}(i)
	}

	for {
		select {
		case <-ctx.Done():
			r.bot.StopReceivingUpdates()
			close(updateChan)
			wg.Wait()
			return ctx.Err()
		case up := <-updates:
			select {
			case updateChan <- up:
			case <-ctx.Done():
			}
		}
	}
}

func (r *RealBot) Stop() {
	if r.cancelRun != nil {
		r.cancelRun()
	}
}

// WebhookPath is the route the ops server mounts for inbound updates. The
// token in the path is Telegram's recommended way to keep the endpoint
// unguessable.
func (r *RealBot) WebhookPath() string {
	return "/webhook/" + r.cfg.Token
}

// WebhookHandler decodes Telegram's POST body and feeds the update into the
// same dispatch pipeline polling uses.
func (r *RealBot) WebhookHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		var update tgbotapi.Update
		if err := json.NewDecoder(req.Body).Decode(&update); err != nil {
			r.log.Warn().Err(err).Msg("webhook: bad update payload")
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		select {
		case r.webhookUpdates <- update:
			w.WriteHeader(http.StatusOK)
		case <-req.Context().Done():
			w.WriteHeader(http.StatusServiceUnavailable)
		}
	}
}

func (r *RealBot) registerWebhook() error {
	wh, err := tgbotapi.NewWebhook(strings.TrimRight(r.cfg.WebhookURL, "/") + r.WebhookPath())
	if err != nil {
		return err
	}
	if _, err := r.bot.Request(wh); err != nil {
		return err
	}
	r.log.Info().Str("path", "/webhook/***").Msg("webhook registered")
	return nil
}

// handleUpdate is the per-update boundary: no fault here may kill the
// process, so panics are recovered and forwarded to the log channel.
func (r *RealBot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	ctx = logging.WithTraceID(ctx, uuid.NewString())

	defer func() {
		if rec := recover(); rec != nil {
			log := logging.With(ctx, r.log)
			log.Error().Interface("panic", rec).Msg("update handler panicked")
			if r.cfg.LogChannel != 0 {
				_ = r.SendMessage(ctx, r.cfg.LogChannel, r.translator.T("error_generation", fmt.Sprint(rec)))
			}
		}
	}()

	var err error
	switch {
	case update.CallbackQuery != nil:
		err = r.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil && update.Message.From != nil:
		err = r.handleMessage(ctx, update.Message)
	}
	if err != nil {
		logging.With(ctx, r.log).Error().Err(err).Msg("update handling failed")
	}
}

// ----- adapter.TelegramBotAdapter -----

func (r *RealBot) SendMessage(ctx context.Context, chatID int64, text string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	msg := tgbotapi.NewMessage(chatID, text)
	_, err := r.bot.Send(msg)
	return err
}

func (r *RealBot) SendButtons(ctx context.Context, chatID int64, text string, rows [][]adapter.InlineButton) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = buildKeyboard(rows)
	_, err := r.bot.Send(msg)
	return err
}

func (r *RealBot) EditMessage(ctx context.Context, chatID int64, messageID int, text string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	_, err := r.bot.Send(edit)
	return err
}

func (r *RealBot) AnswerCallback(ctx context.Context, callbackID string, text string, alert bool) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	cb := tgbotapi.NewCallback(callbackID, text)
	cb.ShowAlert = alert
	_, err := r.bot.Request(cb)
	return err
}

// CheckChannelMember queries live membership in the required channel.
// Transport or permission failures classify as MembershipUnknown so the
// caller can log the misconfiguration without letting the user through.
func (r *RealBot) CheckChannelMember(ctx context.Context, userID int64) adapter.MembershipStatus {
	member, err := r.bot.GetChatMember(tgbotapi.GetChatMemberConfig{
		ChatConfigWithUser: tgbotapi.ChatConfigWithUser{
			SuperGroupUsername: r.cfg.RequiredChannel,
			UserID:             userID,
		},
	})
	if err != nil {
		logging.With(ctx, r.log).Warn().Err(err).Int64("tg_id", userID).
			Msg("chat member query failed (is the bot admin in the channel?)")
		return adapter.MembershipUnknown
	}
	return classifyMemberStatus(member.Status)
}

func classifyMemberStatus(status string) adapter.MembershipStatus {
	switch status {
	case "member", "administrator", "creator":
		return adapter.MembershipMember
	default:
		return adapter.MembershipNotMember
	}
}

func buildKeyboard(rows [][]adapter.InlineButton) tgbotapi.InlineKeyboardMarkup {
	kbRows := make([][]tgbotapi.InlineKeyboardButton, 0, len(rows))
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		line := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, btn := range row {
			label := strings.TrimSpace(btn.Text)
			if label == "" {
				label = "•"
			}
			switch {
			case btn.URL != "":
				line = append(line, tgbotapi.NewInlineKeyboardButtonURL(label, btn.URL))
			case btn.Data != "":
				line = append(line, tgbotapi.NewInlineKeyboardButtonData(label, btn.Data))
			default:
				line = append(line, tgbotapi.NewInlineKeyboardButtonData(label, label))
			}
		}
		kbRows = append(kbRows, line)
	}
	return tgbotapi.NewInlineKeyboardMarkup(kbRows...)
}
