package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
)

// ErrInvalidRecord indicates a record that cannot be stored (missing name,
// missing description, or an embedding with the wrong dimension).
var ErrInvalidRecord = errors.New("invalid workflow record")

// searchTimeout bounds similarity-search queries so a slow vector scan cannot
// block a request indefinitely.
const searchTimeout = 10 * time.Second

// Store manages workflow records backed by PostgreSQL + pgvector.
//
// Store is safe for concurrent use by multiple goroutines.
type Store struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewStore creates a catalog Store.
func NewStore(pool *pgxpool.Pool, logger *slog.Logger) (*Store, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{pool: pool, logger: logger}, nil
}

// Upsert inserts a workflow record, keyed by name.
// Names already present are left untouched (records are never mutated in
// place); the returned bool reports whether a row was actually written.
func (s *Store) Upsert(ctx context.Context, rec WorkflowRecord) (bool, error) {
	if err := validateRecord(rec); err != nil {
		return false, err
	}

	tag, err := s.pool.Exec(ctx,
		`INSERT INTO workflows (name, description, link, embedding)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (name) DO NOTHING`,
		rec.Name, rec.Description, rec.Link, pgvector.NewVector(rec.Embedding))
	if err != nil {
		return false, fmt.Errorf("upserting workflow %q: %w", rec.Name, err)
	}

	written := tag.RowsAffected() > 0
	s.logger.Debug("upserted workflow", "name", rec.Name, "written", written)
	return written, nil
}

// SimilaritySearch returns up to limit records whose cosine similarity to the
// query vector exceeds minSimilarity, ordered by descending similarity.
// Tie-break order among equal distances is whatever the database produces.
func (s *Store) SimilaritySearch(ctx context.Context, vec []float32, minSimilarity float32, limit int) ([]SearchResult, error) {
	if len(vec) != int(VectorDimension) {
		return nil, fmt.Errorf("%w: query vector has %d dimensions, want %d", ErrInvalidRecord, len(vec), VectorDimension)
	}
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive, got %d", limit)
	}

	queryCtx, cancel := context.WithTimeout(ctx, searchTimeout)
	defer cancel()

	rows, err := s.pool.Query(queryCtx,
		`SELECT name, description, link, 1 - (embedding <=> $1) AS similarity
		 FROM workflows
		 WHERE 1 - (embedding <=> $1) > $2
		 ORDER BY embedding <=> $1
		 LIMIT $3`,
		pgvector.NewVector(vec), minSimilarity, limit)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("similarity search timeout: %w", err)
		}
		return nil, fmt.Errorf("similarity search: %w", err)
	}
	defer rows.Close()

	results := make([]SearchResult, 0, limit)
	for rows.Next() {
		var r SearchResult
		var similarity float64
		if err := rows.Scan(&r.Name, &r.Description, &r.Link, &similarity); err != nil {
			return nil, fmt.Errorf("scanning search result: %w", err)
		}
		r.Similarity = float32(similarity)
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading search results: %w", err)
	}

	return results, nil
}

// ListNames returns the set of workflow names already stored.
// The ingestion pipeline uses this set to skip records that were written by a
// previous run.
func (s *Store) ListNames(ctx context.Context) (map[string]struct{}, error) {
	rows, err := s.pool.Query(ctx, `SELECT name FROM workflows`)
	if err != nil {
		return nil, fmt.Errorf("listing workflow names: %w", err)
	}
	defer rows.Close()

	names := make(map[string]struct{})
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning workflow name: %w", err)
		}
		names[name] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading workflow names: %w", err)
	}

	return names, nil
}

// Count returns the number of stored workflow records.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM workflows`).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting workflows: %w", err)
	}
	return count, nil
}

// Get returns a single record by name, without its embedding.
func (s *Store) Get(ctx context.Context, name string) (*WorkflowRecord, error) {
	var rec WorkflowRecord
	err := s.pool.QueryRow(ctx,
		`SELECT name, description, link FROM workflows WHERE name = $1`,
		name).Scan(&rec.Name, &rec.Description, &rec.Link)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("workflow %q not found", name)
	}
	if err != nil {
		return nil, fmt.Errorf("getting workflow %q: %w", name, err)
	}
	return &rec, nil
}

func validateRecord(rec WorkflowRecord) error {
	if rec.Name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidRecord)
	}
	if rec.Description == "" {
		return fmt.Errorf("%w: empty description", ErrInvalidRecord)
	}
	if len(rec.Embedding) != int(VectorDimension) {
		return fmt.Errorf("%w: embedding has %d dimensions, want %d", ErrInvalidRecord, len(rec.Embedding), VectorDimension)
	}
	return nil
}
