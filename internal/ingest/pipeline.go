package ingest

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/time/rate"

	"github.com/flowfind/flowfind/internal/catalog"
)

// Embedder turns a record description into its stored vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Store is the catalog surface the pipeline writes through.
type Store interface {
	ListNames(ctx context.Context) (map[string]struct{}, error)
	Upsert(ctx context.Context, rec catalog.WorkflowRecord) (bool, error)
}

// Report summarizes one ingestion run.
type Report struct {
	Total     int // records in the input
	Skipped   int // already present before the run
	Attempted int // records actually processed
	Succeeded int
	Failed    int
}

// Config carries the dependencies and tunables for a Pipeline.
type Config struct {
	Embedder Embedder
	Store    Store
	Logger   *slog.Logger

	// Rate throttles embedding calls, in records per second. Zero disables
	// throttling.
	Rate float64
	// Burst is the limiter burst size. With Burst 10 the pipeline runs ten
	// records back to back, then paces at Rate.
	Burst int
}

// Pipeline ingests catalog records sequentially, skipping names that are
// already stored.
type Pipeline struct {
	embedder Embedder
	store    Store
	logger   *slog.Logger
	limiter  *rate.Limiter
}

// New creates an ingestion Pipeline.
func New(cfg Config) (*Pipeline, error) {
	if cfg.Embedder == nil {
		return nil, fmt.Errorf("embedder is required")
	}
	if cfg.Store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.Rate > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.Rate), burst)
	}

	return &Pipeline{
		embedder: cfg.Embedder,
		store:    cfg.Store,
		logger:   cfg.Logger,
		limiter:  limiter,
	}, nil
}

// Run ingests the given records and reports the outcome.
//
// Records whose names are already stored are skipped without embedding. A
// record that fails to embed or store is counted and logged, and the run
// continues with the next record. Only a context cancellation or a failure
// to list existing names aborts the run.
func (p *Pipeline) Run(ctx context.Context, records []catalog.WorkflowRecord) (*Report, error) {
	report := &Report{Total: len(records)}

	existing, err := p.store.ListNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing existing records: %w", err)
	}

	work := make([]catalog.WorkflowRecord, 0, len(records))
	for _, rec := range records {
		if _, ok := existing[rec.Name]; ok {
			report.Skipped++
			continue
		}
		work = append(work, rec)
	}

	p.logger.Info("starting ingestion",
		"total", report.Total, "skipped", report.Skipped, "to_process", len(work))

	if len(work) == 0 {
		return report, nil
	}

	for _, rec := range work {
		if err := p.limiter.Wait(ctx); err != nil {
			return report, fmt.Errorf("ingestion aborted: %w", err)
		}

		report.Attempted++
		if err := p.ingestOne(ctx, rec); err != nil {
			if ctx.Err() != nil {
				return report, fmt.Errorf("ingestion aborted: %w", ctx.Err())
			}
			report.Failed++
			p.logger.Warn("record failed", "name", rec.Name, "error", err)
			continue
		}
		report.Succeeded++
	}

	p.logger.Info("ingestion finished",
		"attempted", report.Attempted, "succeeded", report.Succeeded, "failed", report.Failed)
	return report, nil
}

func (p *Pipeline) ingestOne(ctx context.Context, rec catalog.WorkflowRecord) error {
	vec, err := p.embedder.Embed(ctx, rec.Description)
	if err != nil {
		return fmt.Errorf("embedding: %w", err)
	}
	rec.Embedding = vec

	written, err := p.store.Upsert(ctx, rec)
	if err != nil {
		return fmt.Errorf("storing: %w", err)
	}
	if !written {
		// The store swallowed the write without an error. Counted as a
		// failure so the report never overstates what was ingested.
		return fmt.Errorf("store did not acknowledge %q", rec.Name)
	}
	return nil
}
