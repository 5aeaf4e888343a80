//go:build !integration

package usecase_test

import (
	"context"
	"errors"
	"testing"

	"telegram-relay-bot/internal/domain"
	"telegram-relay-bot/internal/domain/ports/repository"
	"telegram-relay-bot/internal/infra/worker"
	"telegram-relay-bot/internal/usecase"
)

const adminID = int64(7)

func TestBroadcast(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()

	t.Run("counts partial failures without aborting", func(t *testing.T) {
		repo := newMemUserRepo()
		for _, id := range []int64{101, 102, 103} {
			_ = repo.EnsureExists(ctx, repository.NoTX, id)
		}

		bot := newMockBot()
		bot.SendFunc = func(ctx context.Context, chatID int64, text string) error {
			if chatID == 102 { // this user blocked the bot
				return errors.New("Forbidden: bot was blocked by the user")
			}
			return nil
		}

		pool := worker.NewPool(2, logger)
		pool.Start(ctx)
		defer pool.Stop()

		uc := usecase.NewBroadcastUseCase(repo, bot, pool, adminID, logger)
		sent, failed, err := uc.Broadcast(ctx, adminID, "hi")
		if err != nil {
			t.Fatalf("Broadcast returned an error: %v", err)
		}
		if sent != 2 || failed != 1 {
			t.Errorf("got sent=%d failed=%d, want 2/1", sent, failed)
		}
	})

	t.Run("non-admin issuers trigger zero deliveries", func(t *testing.T) {
		repo := newMemUserRepo()
		_ = repo.EnsureExists(ctx, repository.NoTX, 101)
		bot := newMockBot()

		pool := worker.NewPool(1, logger)
		pool.Start(ctx)
		defer pool.Stop()

		uc := usecase.NewBroadcastUseCase(repo, bot, pool, adminID, logger)
		sent, failed, err := uc.Broadcast(ctx, adminID+1, "hi")
		if !errors.Is(err, domain.ErrUnauthorized) {
			t.Fatalf("got %v, want ErrUnauthorized", err)
		}
		if sent != 0 || failed != 0 {
			t.Errorf("got sent=%d failed=%d, want 0/0", sent, failed)
		}
		if len(bot.Sent) != 0 {
			t.Errorf("no message may leave the bot; got %d", len(bot.Sent))
		}
	})

	t.Run("empty message is a usage error", func(t *testing.T) {
		repo := newMemUserRepo()
		bot := newMockBot()

		pool := worker.NewPool(1, logger)
		pool.Start(ctx)
		defer pool.Stop()

		uc := usecase.NewBroadcastUseCase(repo, bot, pool, adminID, logger)
		if _, _, err := uc.Broadcast(ctx, adminID, "   "); !errors.Is(err, domain.ErrEmptyInput) {
			t.Fatalf("got %v, want ErrEmptyInput", err)
		}
	})
}
