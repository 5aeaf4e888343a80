package application

import (
	"context"

	"telegram-relay-bot/internal/usecase"
)

// BotFacade composes usecases into the surface the Telegram adapter talks to.
// The adapter stays ignorant of repositories and AI clients.
type BotFacade struct {
	AccessUC    usecase.AccessUseCase
	RelayUC     usecase.RelayUseCase
	BroadcastUC usecase.BroadcastUseCase
}

func NewBotFacade(access usecase.AccessUseCase, relay usecase.RelayUseCase, broadcast usecase.BroadcastUseCase) *BotFacade {
	return &BotFacade{AccessUC: access, RelayUC: relay, BroadcastUC: broadcast}
}

// HandleStart registers the user if needed and reports whether they have
// passed the membership gate, which decides between the welcome text and the
// join prompt.
func (b *BotFacade) HandleStart(ctx context.Context, tgID int64) (bool, error) {
	return b.AccessUC.Evaluate(ctx, tgID)
}
