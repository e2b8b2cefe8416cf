package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/riskibarqy/quiniela/internal/app"
	"github.com/riskibarqy/quiniela/internal/config"
	"github.com/riskibarqy/quiniela/internal/observability"
	"github.com/riskibarqy/quiniela/internal/platform/logging"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.New(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat}).With(
		"service", cfg.ServiceName,
		"version", cfg.ServiceVersion,
		"env", cfg.AppEnv,
	)
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	telemetry, err := observability.Start(cfg, logger, observability.Options{Component: "api", Tracing: true, Pprof: true})
	if err != nil {
		logger.Error("start observability", "error", err)
		os.Exit(1)
	}

	components, err := app.Build(cfg, logger)
	if err != nil {
		logger.Error("build app", "error", err)
		os.Exit(1)
	}

	srv, err := app.NewHTTPServer(components, logger)
	if err != nil {
		logger.Error("build http server", "error", err)
		os.Exit(1)
	}

	go func() {
		logger.Info("http server starting", "addr", cfg.HTTPAddr, "history_source", cfg.HistorySource)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server failed", "error", err)
			os.Exit(1)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
	if err := components.Close(); err != nil {
		logger.Warn("close components failed", "error", err)
	}
	if err := telemetry.Shutdown(shutdownCtx); err != nil {
		logger.Warn("shutdown observability failed", "error", err)
	}

	logger.Info("http server stopped")
}
