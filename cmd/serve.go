package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/flowfind/flowfind/internal/api"
	"github.com/flowfind/flowfind/internal/app"
	"github.com/flowfind/flowfind/internal/config"
)

// runServe initializes and starts the HTTP API server.
func runServe() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.ValidateServe(); err != nil {
		return fmt.Errorf("validating config: %w", err)
	}

	addr, err := parseServeAddr(cfg.ServerAddr)
	if err != nil {
		return fmt.Errorf("parsing address: %w", err)
	}
	cfg.ServerAddr = addr

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger := slog.Default()
	logger.Info("starting flowfind server", "version", Version)

	a, err := app.Setup(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("initializing application: %w", err)
	}
	defer func() {
		if closeErr := a.Close(); closeErr != nil {
			logger.Warn("shutdown error", "error", closeErr)
		}
	}()

	srv := api.NewServer(cfg, a.Pool, a.Recommend, a.Stars, logger)
	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("HTTP server: %w", err)
	}
	return nil
}
