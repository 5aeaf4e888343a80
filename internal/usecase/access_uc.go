package usecase

import (
	"context"

	"github.com/rs/zerolog"

	"telegram-relay-bot/internal/domain"
	"telegram-relay-bot/internal/domain/ports/adapter"
	"telegram-relay-bot/internal/domain/ports/repository"
	"telegram-relay-bot/internal/infra/logging"
	"telegram-relay-bot/internal/infra/metrics"
)

// Compile-time check
var _ AccessUseCase = (*accessUC)(nil)

// AccessUseCase is the gate in front of every generation command.
type AccessUseCase interface {
	// Evaluate reports whether the user may proceed. It always ensures the
	// store record exists first, so a first contact is never an error case.
	Evaluate(ctx context.Context, tgID int64) (bool, error)
	// ConfirmJoin re-queries live channel membership and, when confirmed,
	// flips the stored flag. Safe to call repeatedly.
	ConfirmJoin(ctx context.Context, tgID int64) (adapter.MembershipStatus, error)
}

type accessUC struct {
	users repository.UserRepository
	bot   adapter.TelegramBotAdapter
	log   *zerolog.Logger
}

func NewAccessUseCase(users repository.UserRepository, bot adapter.TelegramBotAdapter, logger *zerolog.Logger) *accessUC {
	return &accessUC{users: users, bot: bot, log: logger}
}

func (a *accessUC) Evaluate(ctx context.Context, tgID int64) (bool, error) {
	defer logging.TraceDuration(a.log, "AccessUC.Evaluate")()

	if err := a.users.EnsureExists(ctx, repository.NoTX, tgID); err != nil {
		return false, err
	}
	// Always a fresh read; a recheck that just passed must be visible here.
	return a.users.IsJoined(ctx, repository.NoTX, tgID)
}

func (a *accessUC) ConfirmJoin(ctx context.Context, tgID int64) (adapter.MembershipStatus, error) {
	defer logging.TraceDuration(a.log, "AccessUC.ConfirmJoin")()

	status := a.bot.CheckChannelMember(ctx, tgID)
	metrics.IncJoinCheck(status.String())

	switch status {
	case adapter.MembershipMember:
		if err := a.users.MarkJoined(ctx, repository.NoTX, tgID); err != nil {
			return status, err
		}
	case adapter.MembershipUnknown:
		// Not a membership gap: the bot is likely missing admin rights in
		// the required channel. Keep the distinct diagnostic kind.
		a.log.Warn().Err(domain.ErrChannelUnavailable).
			Int64("tg_id", tgID).Str("kind", "permission-error").
			Msg("membership check indeterminate")
	default:
		a.log.Debug().Int64("tg_id", tgID).Str("kind", "not-member").
			Msg("membership check negative")
	}
	return status, nil
}
