// File: cmd/app/main.go
package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"
	"time"

	"telegram-relay-bot/internal/application"
	"telegram-relay-bot/internal/config"
	"telegram-relay-bot/internal/domain/ports/adapter"
	aiAdapters "telegram-relay-bot/internal/infra/adapters/ai"
	tele "telegram-relay-bot/internal/infra/adapters/telegram"
	pg "telegram-relay-bot/internal/infra/db/postgres"
	"telegram-relay-bot/internal/infra/i18n"
	"telegram-relay-bot/internal/infra/logging"
	"telegram-relay-bot/internal/infra/metrics"
	"telegram-relay-bot/internal/infra/web"
	"telegram-relay-bot/internal/infra/worker"
	"telegram-relay-bot/internal/usecase"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	metrics.MustRegister()

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 10)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres connect")
	}
	defer pool.Close()
	if err := pg.EnsureSchema(ctx, pool); err != nil {
		logger.Fatal().Err(err).Msg("postgres schema")
	}
	userRepo := pg.NewUserRepo(pool)

	// ---- i18n ----
	translator, err := i18n.NewTranslator(i18n.LocalesFS, "en")
	if err != nil {
		logger.Fatal().Err(err).Msg("translator")
	}

	// ---- AI client (OpenAI-compatible gateway -> Gemini) ----
	var ai adapter.AIServiceAdapter
	if cfg.AI.OpenAIKey != "" {
		ai, err = aiAdapters.NewOpenAIClient(cfg.AI.OpenAIKey, cfg.AI.BaseURL, cfg.AI.ExplainModel)
		if err != nil {
			logger.Fatal().Err(err).Msg("openai client")
		}
		logger.Info().Str("base", cfg.AI.BaseURL).Str("model", cfg.AI.ExplainModel).Msg("AI client: OpenAI")
	} else {
		ai, err = aiAdapters.NewGeminiClient(ctx, cfg.AI.GeminiKey, cfg.AI.GeminiURL, cfg.AI.ExplainModel)
		if err != nil {
			logger.Fatal().Err(err).Msg("gemini client")
		}
		logger.Info().Str("model", cfg.AI.ExplainModel).Msg("AI client: Gemini")
	}
	tokens := aiAdapters.NewTokenCounter(cfg.AI.ExplainModel)

	// ---- Worker pool (broadcast fan-out) ----
	taskPool := worker.NewPool(4, logger)
	taskPool.Start(ctx)
	defer taskPool.Stop()

	// ---- Usecases & facade ----
	// The bot adapter implements the transport port the usecases need, and
	// the usecases are reachable from the adapter through the facade. Break
	// the cycle by constructing the facade empty and filling it after the
	// adapter exists.
	facade := &application.BotFacade{}
	bot, err := tele.NewRealBot(&cfg.Bot, facade, translator, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("telegram bot")
	}

	accessUC := usecase.NewAccessUseCase(userRepo, bot, logger)
	audit := usecase.NewAuditLogger(bot, cfg.Bot.LogChannel, tokens, logger)
	relayUC := usecase.NewRelayUseCase(accessUC, ai, bot, audit, tokens, translator,
		cfg.AI.ExplainModel, cfg.AI.RefineModel, logger)
	broadcastUC := usecase.NewBroadcastUseCase(userRepo, bot, taskPool, cfg.Bot.AdminID, logger)
	*facade = *application.NewBotFacade(accessUC, relayUC, broadcastUC)

	// ---- Ops / webhook HTTP server ----
	srv := web.NewServer(cfg.Bot.Port, pool, logger)
	if cfg.Bot.Mode == "webhook" {
		srv.MountWebhook(bot.WebhookPath(), bot.WebhookHandler())
	}
	go func() {
		if err := srv.Start(); err != nil {
			logger.Error().Err(err).Msg("ops server stopped")
		}
	}()

	// ---- Update loop ----
	go func() {
		if err := bot.Run(ctx); err != nil && ctx.Err() == nil {
			logger.Error().Err(err).Msg("telegram loop stopped")
		}
	}()

	logger.Info().Str("mode", cfg.Bot.Mode).Msg("bot started")
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("ops server shutdown")
	}
	bot.Stop()
	logger.Info().Msg("bye")
}
