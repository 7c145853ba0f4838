package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Spok95/cargo-calc-bot/internal/bot"
	"github.com/Spok95/cargo-calc-bot/internal/config"
	"github.com/Spok95/cargo-calc-bot/internal/dialog"
	"github.com/Spok95/cargo-calc-bot/internal/domain/orders"
	"github.com/Spok95/cargo-calc-bot/internal/gateway"
	"github.com/Spok95/cargo-calc-bot/internal/infra/db"
	httpx "github.com/Spok95/cargo-calc-bot/internal/infra/http"
	"github.com/Spok95/cargo-calc-bot/internal/infra/logger"
	"github.com/Spok95/cargo-calc-bot/internal/pricing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"github.com/subosito/gotenv"
)

func runMigrations(dsn string) error {
	sqlDB, err := goose.OpenDBWithDriver("postgres", dsn)
	if err != nil {
		return err
	}
	defer func() { _ = sqlDB.Close() }()
	return goose.Up(sqlDB, "migrations")
}

func main() {
	_ = gotenv.Load()

	cfg, err := config.Load("config/example.yaml")
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg.App.Env)

	if err := runMigrations(cfg.Postgres.DSN); err != nil {
		log.Error("migrations failed", "err", err)
		return
	}
	log.Info("migrations applied")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(ctx, cfg.Postgres.DSN)
	if err != nil {
		log.Error("db connect failed", "err", err)
		return
	}
	defer pool.Close()
	log.Info("db connected")

	api, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		log.Error("telegram init failed", "err", err)
		return
	}
	log.Info("telegram authorized", "bot", api.Self.UserName)

	apiTimeout := time.Duration(cfg.PricingAPI.TimeoutSec) * time.Second
	gw := gateway.New(cfg.PricingAPI.BaseURL, apiTimeout, log)

	statesRepo := dialog.NewRepo(pool)
	ordersRepo := orders.NewRepo(pool)
	prices := pricing.NewTracker(gw, log, apiTimeout)

	tgBot := bot.New(api, log, statesRepo, ordersRepo, gw, prices, cfg.Telegram.AdminChatID)
	go func() {
		if err := tgBot.Run(ctx, 30); err != nil && ctx.Err() == nil {
			log.Error("bot stopped", "err", err)
		}
	}()
	log.Info("bot started")

	srv := httpx.New(cfg.HTTP.Addr, cfg.Metrics.Enabled, pool)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server error", "err", err)
		}
	}()
	log.Info("HTTP server started", "addr", cfg.HTTP.Addr)

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	log.Info("graceful shutdown complete")
}
