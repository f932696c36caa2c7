package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/language"

	"github.com/TemirB/sales-dashboard/internal/application"
	"github.com/TemirB/sales-dashboard/internal/config"
	"github.com/TemirB/sales-dashboard/internal/httpapi"
	"github.com/TemirB/sales-dashboard/internal/observability"
	"github.com/TemirB/sales-dashboard/internal/present"
	"github.com/TemirB/sales-dashboard/internal/telemetry"
)

func main() {
	cfg := config.Load()

	logger, err := observability.NewLogger(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, cfg.Telemetry)
	if err != nil {
		logger.Fatal("Can't set up tracing", zap.Error(err))
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			logger.Error("Tracing shutdown", zap.Error(err))
		}
	}()

	metrics := observability.NewInmem(1000)
	app, err := application.New(cfg, logger, metrics)
	if err != nil {
		logger.Fatal("Can't build application", zap.Error(err))
	}

	// The first page loads in the background; failures show up on the page.
	go func() {
		if err := app.Dashboard.Refresh(ctx); err != nil {
			logger.Warn("Initial fetch failed", zap.Error(err))
		}
	}()

	server := httpapi.New(app.Dashboard, present.NewFormatter(language.English, time.Local), logger.Named("http"), metrics)
	if err := server.ListenAndServe(ctx, cfg.HTTPAddr); err != nil {
		logger.Fatal("HTTP server failed", zap.Error(err))
	}
	logger.Info("Server stopped")
}
