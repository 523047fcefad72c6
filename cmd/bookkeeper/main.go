package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"bookkeeper/internal/amqp"
	"bookkeeper/internal/auth"
	"bookkeeper/internal/cli"
	apphttp "bookkeeper/internal/http"
	"bookkeeper/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()

	cfg := cli.LoadAndValidateConfig(logger)
	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	// The AMQP mirror is optional; without a broker the app still runs,
	// it just skips the spreadsheet sync.
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		var err error
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		logger.Info("AMQP publisher initialized", "exchange", cfg.AMQPExchange)
	} else {
		logger.Info("AMQP disabled - no AMQP_URL provided")
	}

	sessions := auth.NewSessionStore(cfg.SessionTTL)
	ledger := services.NewLedgerService(repo, repo, amqpClient)
	analytics := services.NewAnalyticsService(repo, repo, cfg.ForecastHorizon)

	srv := apphttp.NewServer(":"+cfg.Port, ledger, analytics, repo, sessions)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 25*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		if err := ledger.Close(); err != nil {
			logger.Error("Ledger service close error", "error", err)
		}
	})

	logger.Info("Starting bookkeeper server", "port", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
