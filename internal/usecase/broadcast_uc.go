package usecase

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"telegram-relay-bot/internal/domain"
	"telegram-relay-bot/internal/domain/ports/adapter"
	"telegram-relay-bot/internal/domain/ports/repository"
	"telegram-relay-bot/internal/infra/metrics"
	"telegram-relay-bot/internal/infra/worker"
)

// deliveryTimeout caps a single broadcast send so one unreachable recipient
// cannot stall the whole fan-out.
const deliveryTimeout = 10 * time.Second

// Compile-time check
var _ BroadcastUseCase = (*broadcastUC)(nil)

type BroadcastUseCase interface {
	// Broadcast fans the message out to every known user and reports the
	// tallies once all deliveries have settled. Only adminID may invoke it.
	Broadcast(ctx context.Context, issuerID int64, message string) (sent, failed int, err error)
}

type broadcastUC struct {
	users   repository.UserRepository
	bot     adapter.TelegramBotAdapter
	pool    *worker.Pool
	adminID int64
	log     *zerolog.Logger
}

func NewBroadcastUseCase(
	users repository.UserRepository,
	bot adapter.TelegramBotAdapter,
	pool *worker.Pool,
	adminID int64,
	logger *zerolog.Logger,
) *broadcastUC {
	return &broadcastUC{users: users, bot: bot, pool: pool, adminID: adminID, log: logger}
}

func (uc *broadcastUC) Broadcast(ctx context.Context, issuerID int64, message string) (int, int, error) {
	if issuerID != uc.adminID {
		return 0, 0, domain.ErrUnauthorized
	}
	if strings.TrimSpace(message) == "" {
		return 0, 0, domain.ErrEmptyInput
	}

	ids, err := uc.users.ListIDs(ctx, repository.NoTX)
	if err != nil {
		uc.log.Error().Err(err).Msg("broadcast: listing users failed")
		return 0, 0, err
	}
	uc.log.Info().Int("user_count", len(ids)).Msg("broadcast starting")

	var sent, failed int64
	var wg sync.WaitGroup

	// Throttle submissions to respect Telegram's ~30 msg/s send limit.
	throttle := time.NewTicker(time.Second / 25)
	defer throttle.Stop()

	for _, id := range ids {
		select {
		case <-ctx.Done():
			wg.Wait()
			return int(sent), int(failed), ctx.Err()
		case <-throttle.C:
		}

		id := id
		wg.Add(1)
		task := func(taskCtx context.Context) error {
			defer wg.Done()
			sendCtx, cancel := context.WithTimeout(taskCtx, deliveryTimeout)
			defer cancel()
			if err := uc.bot.SendMessage(sendCtx, id, message); err != nil {
				// Blocked bots and dead accounts are expected here; count
				// and move on.
				atomic.AddInt64(&failed, 1)
				uc.log.Warn().Err(err).Int64("tg_id", id).Msg("broadcast delivery failed")
				return nil
			}
			atomic.AddInt64(&sent, 1)
			return nil
		}
		if err := uc.pool.Submit(task); err != nil {
			wg.Done()
			atomic.AddInt64(&failed, 1)
			uc.log.Warn().Err(err).Int64("tg_id", id).Msg("broadcast task not queued")
		}
	}
	wg.Wait()

	metrics.AddBroadcastDeliveries("sent", int(sent))
	metrics.AddBroadcastDeliveries("failed", int(failed))
	uc.log.Info().Int64("sent", sent).Int64("failed", failed).Msg("broadcast finished")
	return int(sent), int(failed), nil
}
