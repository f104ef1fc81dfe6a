package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/opsline/incident-gateway/internal/app"
	"github.com/opsline/incident-gateway/internal/config"
	"github.com/opsline/incident-gateway/internal/telemetry"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	configPath := flag.String("config", os.Getenv("INCIDENT_CONFIG"), "path to the YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	level := slog.LevelDebug
	if !cfg.Development() {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	shutdownTracer, err := telemetry.Init("incident-gateway", logger)
	if err != nil {
		logger.Error("failed to initialize tracing", slog.String("error", err.Error()))
		os.Exit(1)
	}

	gateway, err := app.New(cfg, logger)
	if err != nil {
		logger.Error("failed to build gateway", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := gateway.Run(ctx); err != nil {
		logger.Error("server failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := shutdownTracer(context.Background()); err != nil {
		logger.Warn("tracer shutdown failed", slog.String("error", err.Error()))
	}
}
