// Package api exposes the recommendation service over HTTP.
//
// Endpoints:
//
//	POST /api/query           collected recommendation
//	POST /api/query/stream    incremental recommendation (SSE)
//	POST /api/stars           record a star
//	GET  /api/stars           star count
//	GET  /api/stars/check     has this visitor starred
//	GET  /health              liveness probe
//	GET  /ready               readiness probe (DB ping)
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/flowfind/flowfind/internal/config"
)

const (
	// ShutdownTimeout is the maximum time to wait for graceful shutdown.
	ShutdownTimeout = 10 * time.Second

	// ReadHeaderTimeout bounds header reads so slow clients cannot pin
	// connections open.
	ReadHeaderTimeout = 10 * time.Second

	// ReadTimeout is the maximum duration for reading the entire request.
	ReadTimeout = 30 * time.Second

	// WriteTimeout is generous because streamed generations hold the
	// response open while the model produces text.
	WriteTimeout = 120 * time.Second

	// IdleTimeout applies between keep-alive requests.
	IdleTimeout = 120 * time.Second

	// Per-IP rate limit for query endpoints. Generation is the expensive
	// path; everything else is unthrottled.
	queryRatePerSecond = 1.0
	queryRateBurst     = 5
)

// Server is the HTTP server for the recommendation API.
type Server struct {
	mux    *http.ServeMux
	cfg    *config.Config
	logger *slog.Logger

	health *HealthHandler
	query  *QueryHandler
	stars  *StarsHandler
}

// NewServer creates a server with all routes registered.
func NewServer(cfg *config.Config, pool *pgxpool.Pool, rec Recommender, stars StarService, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()
	s := &Server{
		mux:    mux,
		cfg:    cfg,
		logger: logger,
		health: NewHealthHandler(pool, logger),
		query:  NewQueryHandler(rec, logger),
		stars:  NewStarsHandler(stars, cfg.TrustProxy, logger),
	}

	s.health.RegisterRoutes(mux)

	limited := rateLimitMiddleware(newRateLimiter(queryRatePerSecond, queryRateBurst), cfg.TrustProxy, logger)
	s.query.RegisterRoutes(mux, limited)
	s.stars.RegisterRoutes(mux)

	return s
}

// Handler returns the HTTP handler with middleware applied.
// Middleware order: recovery, then CORS, then logging.
func (s *Server) Handler() http.Handler {
	return chain(s.mux,
		recoveryMiddleware(s.logger),
		corsMiddleware(s.cfg.CORSOrigins),
		loggingMiddleware(s.logger),
	)
}

// Run starts the HTTP server and blocks until the context is cancelled,
// then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	addr := s.cfg.ServerAddr
	if addr == "" {
		addr = config.DefaultServerAddr
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: ReadHeaderTimeout,
		ReadTimeout:       ReadTimeout,
		WriteTimeout:      WriteTimeout,
		IdleTimeout:       IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}
