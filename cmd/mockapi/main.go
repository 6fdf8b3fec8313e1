// Package main runs an in-memory AcademiaFlow backend for local development.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/anayy09/AcademiaFlow/internal/config"
	"github.com/anayy09/AcademiaFlow/internal/mockapi"
	"github.com/anayy09/AcademiaFlow/internal/server"
)

func main() {
	if err := config.LoadDotEnv(config.DefaultDotEnvFile); err != nil {
		slog.Error("failed to read .env", "error", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(
		mockapi.NewServer(logger, mockapi.Options{}),
		server.Options{
			Port:            cfg.MockPort,
			ReadTimeout:     cfg.MockReadTimeout,
			WriteTimeout:    cfg.MockWriteTimeout,
			ShutdownTimeout: cfg.MockShutdownTimeout,
		},
		logger,
	)

	logger.Info("starting mock backend",
		"port", cfg.MockPort,
		"api_prefix", mockapi.APIPrefix,
		"env", cfg.AppEnv,
	)

	if err := srv.Run(ctx); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// initLogger initializes the slog logger based on configuration. LOG_LEVEL
// defaults to warn for the CLI; the mock server treats anything but debug
// and error as info so request logs stay visible.
func initLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLogLevel(cfg.LogLevel)}

	var h slog.Handler
	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)
	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
