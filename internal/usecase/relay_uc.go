package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"telegram-relay-bot/internal/domain"
	"telegram-relay-bot/internal/domain/model"
	"telegram-relay-bot/internal/domain/ports/adapter"
	"telegram-relay-bot/internal/infra/logging"
	"telegram-relay-bot/internal/infra/metrics"
)

// Texter resolves user-facing message keys (satisfied by i18n.Translator).
type Texter interface {
	T(key string, args ...interface{}) string
}

// Compile-time check
var _ RelayUseCase = (*relayUC)(nil)

// RelayUseCase runs the gated request/response pipeline for one inbound
// command: gate, build, generate, reply, audit.
type RelayUseCase interface {
	// Relay processes one request end to end. It returns domain.ErrNotMember
	// when the gate denies (caller shows the join prompt) and
	// domain.ErrEmptyInput on a missing argument (caller shows usage).
	// Generation failures are absorbed: the error text is sent as the reply
	// and the exchange is still audited.
	Relay(ctx context.Context, req RelayRequest) error
}

type RelayRequest struct {
	UserID   int64
	ChatID   int64
	Username string
	Kind     PromptKind
	Text     string
}

type relayUC struct {
	access       AccessUseCase
	ai           adapter.AIServiceAdapter
	bot          adapter.TelegramBotAdapter
	audit        *AuditLogger
	tokens       TokenCounter
	tr           Texter
	explainModel string
	refineModel  string
	log          *zerolog.Logger
}

func NewRelayUseCase(
	access AccessUseCase,
	ai adapter.AIServiceAdapter,
	bot adapter.TelegramBotAdapter,
	audit *AuditLogger,
	tokens TokenCounter,
	tr Texter,
	explainModel, refineModel string,
	logger *zerolog.Logger,
) *relayUC {
	return &relayUC{
		access:       access,
		ai:           ai,
		bot:          bot,
		audit:        audit,
		tokens:       tokens,
		tr:           tr,
		explainModel: explainModel,
		refineModel:  refineModel,
		log:          logger,
	}
}

func (r *relayUC) Relay(ctx context.Context, req RelayRequest) error {
	defer logging.TraceDuration(r.log, "RelayUC.Relay")()

	// The gate runs first so even a malformed command registers the user
	// and, when denied, leads to the join UI rather than a usage hint.
	allowed, err := r.access.Evaluate(ctx, req.UserID)
	if err != nil {
		return err
	}
	if !allowed {
		metrics.IncCommandOutcome(req.Kind.Command(), "denied")
		return domain.ErrNotMember
	}

	text := strings.TrimSpace(req.Text)
	if text == "" {
		metrics.IncCommandOutcome(req.Kind.Command(), "usage_error")
		return domain.ErrEmptyInput
	}

	modelName := r.explainModel
	if req.Kind == KindRefine {
		modelName = r.refineModel
	}
	messages := []adapter.Message{
		{Role: "system", Content: SystemPrompt(req.Kind)},
		{Role: "user", Content: BuildPrompt(req.Kind, text)},
	}

	start := time.Now()
	answer, genErr := r.ai.Chat(ctx, modelName, messages)
	metrics.ObserveAICall(r.ai.Provider(), modelName, time.Since(start), genErr == nil)

	if genErr != nil {
		// The user always gets a response; the error text stands in for the
		// answer and the attempt is audited like any other.
		answer = r.tr.T("error_generation", genErr.Error())
		metrics.IncCommandOutcome(req.Kind.Command(), "generation_error")
		r.log.Error().Err(genErr).Int64("tg_id", req.UserID).Str("command", req.Kind.Command()).
			Msg("generation failed")
	} else {
		metrics.IncCommandOutcome(req.Kind.Command(), "replied")
		if r.tokens != nil {
			metrics.AddAIOutputTokens(r.ai.Provider(), modelName, r.tokens.Count(answer))
		}
	}

	sendErr := r.bot.SendMessage(ctx, req.ChatID, answer)

	r.audit.Log(ctx, model.AuditEntry{
		UserID:   req.UserID,
		Username: req.Username,
		Command:  req.Kind.Command(),
		Input:    text,
		Output:   answer,
	})
	return sendErr
}
