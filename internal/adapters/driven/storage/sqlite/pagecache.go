package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/acqscope/internal/core/domain"
	"github.com/custodia-labs/acqscope/internal/core/ports/driven"
)

// pageCache implements driven.PageCache.
type pageCache struct {
	store *Store
}

var _ driven.PageCache = (*pageCache)(nil)

// Get returns the body stored under key if it has not expired, counting
// the hit.
func (c *pageCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var body []byte
	err := c.store.db.QueryRowContext(ctx,
		`UPDATE page_cache SET hits = hits + 1
		 WHERE key = ? AND expires_at > ?
		 RETURNING body`,
		key, c.store.now().UnixMilli(),
	).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("querying page: %w", err)
	}
	return body, true, nil
}

// Put stores body under key for ttl, replacing any previous entry.
func (c *pageCache) Put(ctx context.Context, key string, body []byte, ttl time.Duration) error {
	now := c.store.now()
	_, err := c.store.db.ExecContext(ctx, `
		INSERT INTO page_cache (key, body, stored_at, expires_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			body = excluded.body,
			stored_at = excluded.stored_at,
			expires_at = excluded.expires_at,
			hits = 0
	`, key, body, now.UnixMilli(), now.Add(ttl).UnixMilli())
	if err != nil {
		return fmt.Errorf("storing page: %w", err)
	}
	return nil
}

// Purge removes every entry.
func (c *pageCache) Purge(ctx context.Context) (int, error) {
	return c.delete(ctx, `DELETE FROM page_cache`)
}

// Prune removes expired entries.
func (c *pageCache) Prune(ctx context.Context) (int, error) {
	return c.delete(ctx, `DELETE FROM page_cache WHERE expires_at <= ?`, c.store.now().UnixMilli())
}

// Stats reports entry counts, sizes and hits.
func (c *pageCache) Stats(ctx context.Context) (domain.CacheStats, error) {
	var (
		stats  domain.CacheStats
		oldest sql.NullInt64
	)
	err := c.store.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN expires_at <= ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(LENGTH(body)), 0),
			COALESCE(SUM(hits), 0),
			MIN(stored_at)
		FROM page_cache
	`, c.store.now().UnixMilli()).Scan(&stats.Entries, &stats.Expired, &stats.Bytes, &stats.Hits, &oldest)
	if err != nil {
		return domain.CacheStats{}, fmt.Errorf("querying stats: %w", err)
	}
	if oldest.Valid {
		stats.Oldest = time.UnixMilli(oldest.Int64)
	}
	return stats, nil
}

func (c *pageCache) delete(ctx context.Context, query string, args ...any) (int, error) {
	result, err := c.store.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("deleting pages: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting deleted pages: %w", err)
	}
	return int(n), nil
}
