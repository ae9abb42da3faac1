// Package app wires the application together: configuration, database pool,
// Genkit, stores and pipelines. Both the serve and ingest commands start from
// Setup and pick the pieces they need.
package app

import (
	"log/slog"

	"github.com/firebase/genkit/go/genkit"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/flowfind/flowfind/internal/catalog"
	"github.com/flowfind/flowfind/internal/config"
	"github.com/flowfind/flowfind/internal/ingest"
	"github.com/flowfind/flowfind/internal/recommend"
	"github.com/flowfind/flowfind/internal/stars"
)

// App is the application container. Create with Setup, release with Close.
type App struct {
	Config *config.Config
	Logger *slog.Logger

	Genkit *genkit.Genkit
	Pool   *pgxpool.Pool

	Catalog   *catalog.Store
	Stars     *stars.Store
	Recommend *recommend.Pipeline
	Ingest    *ingest.Pipeline
}

// Close releases all resources held by the App.
func (a *App) Close() error {
	if a.Pool != nil {
		a.Pool.Close()
		a.Logger.Debug("database pool closed")
	}
	return nil
}
