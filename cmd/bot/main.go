package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/ddrozdov/kumabot/internal/access"
	"github.com/ddrozdov/kumabot/internal/admin"
	"github.com/ddrozdov/kumabot/internal/bot"
	"github.com/ddrozdov/kumabot/internal/config"
	"github.com/ddrozdov/kumabot/internal/httpapi"
	"github.com/ddrozdov/kumabot/internal/kuma"
	"github.com/ddrozdov/kumabot/internal/logging"
	"github.com/ddrozdov/kumabot/internal/metrics"
	"github.com/ddrozdov/kumabot/internal/store/sqlite"
	"github.com/ddrozdov/kumabot/internal/telegram"
)

func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()

	logger, err := logging.NewLogger(cfg.LogDir)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	metrics.Init()

	st, err := sqlite.Open(cfg.DBPath, logger)
	if err != nil {
		logger.Fatal("db_open_failed", zap.Error(err))
	}
	defer st.Close()

	tg, err := telegram.New(cfg.TelegramToken, logger)
	if err != nil {
		logger.Fatal("telegram_connect_failed", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// reconcile admin roles before any command is serviced
	admin.NewReconciler(st, tg, logger).Run(ctx, cfg.AdminID)

	remote := kuma.NewClient(kuma.Options{
		BaseURL:  cfg.KumaURL,
		Username: cfg.KumaUsername,
		Password: cfg.KumaPassword,
		APIKey:   cfg.KumaAPIKey,
		Timeout:  cfg.RemoteTimeout,
	}, logger)

	gate := access.NewController(st, tg, logger)
	handler := bot.NewHandler(remote, gate, tg, logger, cfg.RemoteTimeout)

	ops := httpapi.NewServer(logger)
	go func() {
		logger.Info("ops_listen", zap.String("addr", cfg.OpsAddr))
		if err := http.ListenAndServe(cfg.OpsAddr, ops.Router()); err != nil {
			logger.Error("ops_server_failed", zap.Error(err))
		}
	}()

	logger.Info("bot_start")
	if err := tg.Run(ctx, handler); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("bot_stopped", zap.Error(err))
	}
	logger.Info("bot_shutdown")
}
