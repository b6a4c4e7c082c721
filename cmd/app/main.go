// File: cmd/app/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"currency-quote-bot/internal/application"
	"currency-quote-bot/internal/config"
	"currency-quote-bot/internal/domain/ports/adapter"
	"currency-quote-bot/internal/domain/ports/repository"
	"currency-quote-bot/internal/infra/adapters/exchange"
	tele "currency-quote-bot/internal/infra/adapters/telegram"
	httpapi "currency-quote-bot/internal/infra/http"
	"currency-quote-bot/internal/infra/i18n"
	"currency-quote-bot/internal/infra/logging"
	"currency-quote-bot/internal/infra/memory"
	"currency-quote-bot/internal/infra/metrics"
	red "currency-quote-bot/internal/infra/redis"
	"currency-quote-bot/internal/usecase"
)

// set with -ldflags "-X main.version=... -X main.commit=..."
var (
	version = "dev"
	commit  = "none"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs, debug level)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	logger.Info().
		Str("version", version).
		Str("token", logging.Redact(cfg.Bot.Token, cfg.Runtime.Dev)).
		Bool("dev", cfg.Runtime.Dev).
		Msg("starting currency quote bot")

	metrics.MustRegister(prometheus.DefaultRegisterer)

	// ---- Session store + rate limiter ----
	var (
		states  repository.StateRepository
		limiter adapter.RateLimiter
		pinger  httpapi.Pinger
		store   = "memory"
	)
	if strings.TrimSpace(cfg.Redis.URL) != "" {
		redisClient, err := red.NewClient(ctx, &cfg.Redis)
		if err != nil {
			logger.Fatal().Err(err).Msg("redis")
		}
		defer redisClient.Close()
		states = red.NewStateRepo(redisClient, cfg.Session.TTL)
		limiter = red.NewRateLimiter(redisClient)
		pinger = redisClient
		store = "redis"
	} else {
		states = memory.NewStateStore(cfg.Session.TTL)
		limiter = memory.NewRateLimiter()
	}
	metrics.SetBuildInfo(version, commit, store)
	logger.Info().Str("store", store).Dur("session_ttl", cfg.Session.TTL).Msg("session store ready")

	// ---- Exchanges ----
	bybit := exchange.NewBybitClient(cfg.Exchange)
	huobi := exchange.NewHuobiClient(cfg.Exchange)
	binance := exchange.NewBinanceClient(cfg.Exchange)

	// ---- Use cases ----
	quoteUC := usecase.NewQuoteUseCase(bybit, logger, bybit, huobi)
	starsUC := usecase.NewStarsUseCase(binance, logger)
	convUC := usecase.NewConversationUseCase(states, quoteUC, starsUC, logger)

	// ---- Facade ----
	facade := application.NewBotFacade(quoteUC, starsUC, convUC)

	// ---- Telegram ----
	translator, err := i18n.NewTranslator(i18n.LocalesFS, cfg.Bot.Language)
	if err != nil {
		logger.Fatal().Err(err).Str("language", cfg.Bot.Language).Msg("translations")
	}
	botAdapter, err := tele.NewRealTelegramBotAdapter(&cfg.Bot, facade, translator, limiter, cfg.RateLimit.PerMinute, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("telegram")
	}
	if strings.ToLower(cfg.Bot.Mode) != "" && strings.ToLower(cfg.Bot.Mode) != "polling" {
		logger.Warn().Str("mode", cfg.Bot.Mode).Msg("bot.mode not implemented; falling back to polling")
	}
	if err := botAdapter.Prepare(ctx); err != nil {
		logger.Fatal().Err(err).Msg("telegram prepare")
	}

	// ---- Admin HTTP server ----
	admin := httpapi.NewServer(cfg.Admin.Port, prometheus.DefaultGatherer, pinger, logger)
	go func() {
		if err := admin.Start(); err != nil {
			logger.Error().Err(err).Msg("admin http server stopped")
		}
	}()

	// ---- Polling (blocks until a signal arrives) ----
	logger.Info().Int("workers", cfg.Bot.Workers).Msg("telegram polling started")
	if err := botAdapter.StartPolling(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error().Err(err).Msg("telegram polling stopped")
	}

	// ---- Graceful shutdown ----
	logger.Info().Msg("shutdown requested")
	shutdownCtx, done := context.WithTimeout(context.Background(), 10*time.Second)
	defer done()
	if err := admin.Shutdown(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("admin http shutdown")
	}
}
