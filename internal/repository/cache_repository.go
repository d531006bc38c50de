package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ndewijer/Bikram-Sambat-Calendar-Backend/internal/cache"
)

// CacheRepository provides data access methods for the cache_entry table.
// It implements cache.MonthCache on top of SQLite so that normalized months
// survive restarts. Timestamps are stored as Unix milliseconds.
type CacheRepository struct {
	db    *sql.DB
	clock cache.Clock
}

// NewCacheRepository creates a new CacheRepository with the provided database connection.
// A nil clock uses cache.RealClock.
func NewCacheRepository(db *sql.DB, clock cache.Clock) *CacheRepository {
	if clock == nil {
		clock = cache.RealClock{}
	}
	return &CacheRepository{db: db, clock: clock}
}

// Get retrieves a cached value by key.
// Expired rows are treated as missing and deleted on the way out; a failure to
// delete them is ignored since the next PruneExpired will catch them.
//
// Returns:
//   - []byte: the stored value
//   - bool: false when the key is missing or expired
//   - error: if the query fails
func (r *CacheRepository) Get(ctx context.Context, key string) ([]byte, bool, error) {
	query := `
		SELECT value, expires_at
		FROM cache_entry
		WHERE key = ?
	`

	var (
		value     []byte
		expiresAt int64
	)
	err := r.db.QueryRowContext(ctx, query, key).Scan(&value, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cache entry %s: %w", key, err)
	}

	if r.clock.Now().UnixMilli() > expiresAt {
		_, _ = r.db.ExecContext(ctx, `DELETE FROM cache_entry WHERE key = ? AND expires_at = ?`, key, expiresAt)
		return nil, false, nil
	}

	return value, true, nil
}

// Set inserts or replaces a cached value that expires after ttl.
func (r *CacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	query := `
		INSERT INTO cache_entry (key, value, stored_at, expires_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			stored_at = excluded.stored_at,
			expires_at = excluded.expires_at
	`

	now := r.clock.Now()
	_, err := r.db.ExecContext(ctx, query, key, value, now.UnixMilli(), now.Add(ttl).UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to write cache entry %s: %w", key, err)
	}
	return nil
}

// PruneExpired deletes every expired entry and returns the number of rows removed.
func (r *CacheRepository) PruneExpired(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM cache_entry WHERE expires_at < ?`, r.clock.Now().UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("failed to prune cache entries: %w", err)
	}

	removed, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count pruned cache entries: %w", err)
	}
	return removed, nil
}

// Count returns the number of stored entries, expired ones included.
func (r *CacheRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM cache_entry`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count cache entries: %w", err)
	}
	return n, nil
}
