// Package stars tracks a visitor appreciation counter. Each star is keyed by
// (client IP, session ID) so repeated clicks from the same visitor count
// once.
package stars

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrInvalidSession indicates a missing or malformed session ID. Session IDs
// must be UUIDs minted by the client.
var ErrInvalidSession = errors.New("invalid session id")

// Store persists stars in PostgreSQL.
//
// Store is safe for concurrent use by multiple goroutines.
type Store struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewStore creates a stars Store.
func NewStore(pool *pgxpool.Pool, logger *slog.Logger) (*Store, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{pool: pool, logger: logger}, nil
}

// Add records a star for the given visitor and returns whether a new star
// was written plus the resulting total. A visitor who already starred gets
// added=false and the unchanged total.
func (s *Store) Add(ctx context.Context, ip, sessionID, userAgent string) (bool, int64, error) {
	if err := validateSession(sessionID); err != nil {
		return false, 0, err
	}
	if ip == "" {
		return false, 0, fmt.Errorf("client ip is required")
	}

	tag, err := s.pool.Exec(ctx,
		`INSERT INTO stars (ip_address, session_id, user_agent)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (ip_address, session_id) DO NOTHING`,
		ip, sessionID, userAgent)
	if err != nil {
		return false, 0, fmt.Errorf("adding star: %w", err)
	}
	added := tag.RowsAffected() > 0

	count, err := s.Count(ctx)
	if err != nil {
		return added, 0, err
	}

	s.logger.Debug("star recorded", "added", added, "total", count)
	return added, count, nil
}

// Count returns the total number of stars.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM stars`).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting stars: %w", err)
	}
	return count, nil
}

// HasStarred reports whether the given visitor already starred.
func (s *Store) HasStarred(ctx context.Context, ip, sessionID string) (bool, error) {
	if err := validateSession(sessionID); err != nil {
		return false, err
	}

	var starred bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM stars WHERE ip_address = $1 AND session_id = $2)`,
		ip, sessionID).Scan(&starred)
	if err != nil {
		return false, fmt.Errorf("checking star: %w", err)
	}
	return starred, nil
}

func validateSession(sessionID string) error {
	if sessionID == "" {
		return fmt.Errorf("%w: empty", ErrInvalidSession)
	}
	if _, err := uuid.Parse(sessionID); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidSession, sessionID)
	}
	return nil
}
