package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/firebase/genkit/go/genkit"
	"github.com/firebase/genkit/go/plugins/googlegenai"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/flowfind/flowfind/db"
	"github.com/flowfind/flowfind/internal/catalog"
	"github.com/flowfind/flowfind/internal/config"
	"github.com/flowfind/flowfind/internal/ingest"
	"github.com/flowfind/flowfind/internal/llm"
	"github.com/flowfind/flowfind/internal/recommend"
	"github.com/flowfind/flowfind/internal/stars"
)

// Setup initializes the application: runs migrations, opens the database
// pool, initializes Genkit with the Google AI plugin and builds the stores
// and pipelines. Call Close on the returned App to release resources.
func Setup(ctx context.Context, cfg *config.Config, logger *slog.Logger) (_ *App, retErr error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	a := &App{Config: cfg, Logger: logger}

	// Release anything already opened when a later step fails.
	defer func() {
		if retErr != nil {
			if err := a.Close(); err != nil {
				logger.Warn("cleanup during setup failure", "error", err)
			}
		}
	}()

	pool, err := openPool(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	a.Pool = pool

	g := genkit.Init(ctx, genkit.WithPlugins(&googlegenai.GoogleAI{}))
	if g == nil {
		return nil, errors.New("initializing genkit")
	}
	a.Genkit = g

	embedder := llm.NewEmbedder(g, cfg.EmbedderModel)
	generator := llm.NewGenerator(g, cfg.ModelName, cfg.Temperature)

	a.Catalog, err = catalog.NewStore(pool, logger)
	if err != nil {
		return nil, err
	}
	a.Stars, err = stars.NewStore(pool, logger)
	if err != nil {
		return nil, err
	}

	a.Recommend, err = recommend.New(recommend.Config{
		Embedder:      embedder,
		Searcher:      a.Catalog,
		Generator:     generator,
		Logger:        logger,
		TopK:          cfg.TopK,
		MinSimilarity: cfg.MinSimilarity,
	})
	if err != nil {
		return nil, fmt.Errorf("building recommend pipeline: %w", err)
	}

	a.Ingest, err = ingest.New(ingest.Config{
		Embedder: embedder,
		Store:    a.Catalog,
		Logger:   logger,
		Rate:     cfg.IngestRate,
		Burst:    cfg.IngestBurst,
	})
	if err != nil {
		return nil, fmt.Errorf("building ingest pipeline: %w", err)
	}

	logger.Info("application initialized",
		"model", cfg.ModelName, "embedder", cfg.EmbedderModel)
	return a, nil
}

// openPool runs migrations and opens the pgx connection pool.
func openPool(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*pgxpool.Pool, error) {
	if err := db.Migrate(cfg.PostgresURL(), logger); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.PostgresConnectionString())
	if err != nil {
		return nil, fmt.Errorf("parsing connection config: %w", err)
	}
	poolCfg.MaxConns = 10
	poolCfg.MinConns = 2
	poolCfg.MaxConnLifetime = 30 * time.Minute
	poolCfg.MaxConnIdleTime = 5 * time.Minute
	poolCfg.HealthCheckPeriod = time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return pool, nil
}
