package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/flowfind/flowfind/internal/app"
	"github.com/flowfind/flowfind/internal/config"
	"github.com/flowfind/flowfind/internal/ingest"
)

// runIngest bulk-loads catalog records from a CSV file.
func runIngest() error {
	if len(os.Args) < 3 {
		return fmt.Errorf("usage: flowfind ingest <file.csv>")
	}
	path := os.Args[2]

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.ValidateIngest(); err != nil {
		return fmt.Errorf("validating config: %w", err)
	}

	records, err := ingest.LoadCSV(path)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger := slog.Default()
	logger.Info("starting ingestion", "file", path, "records", len(records))

	a, err := app.Setup(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("initializing application: %w", err)
	}
	defer func() {
		if closeErr := a.Close(); closeErr != nil {
			logger.Warn("shutdown error", "error", closeErr)
		}
	}()

	report, err := a.Ingest.Run(ctx, records)
	if err != nil {
		return fmt.Errorf("ingestion: %w", err)
	}

	fmt.Printf("Ingestion complete: %d total, %d skipped, %d attempted, %d succeeded, %d failed\n",
		report.Total, report.Skipped, report.Attempted, report.Succeeded, report.Failed)
	if report.Failed > 0 {
		return fmt.Errorf("%d records failed, see logs", report.Failed)
	}
	return nil
}
