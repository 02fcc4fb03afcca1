package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/custodia-labs/acqscope/internal/core/domain"
	"github.com/custodia-labs/acqscope/internal/core/ports/driven"
	"github.com/custodia-labs/acqscope/internal/core/ports/driving"
	"github.com/custodia-labs/acqscope/internal/logger"
)

// Ensure CachedSearchAPI implements both interfaces.
var (
	_ driven.SearchAPI     = (*CachedSearchAPI)(nil)
	_ driving.CacheService = (*CachedSearchAPI)(nil)
)

// CachedSearchAPI wraps a SearchAPI with a raw page cache.
// Cache failures are logged and fall through to the API.
type CachedSearchAPI struct {
	api   driven.SearchAPI
	cache driven.PageCache
	ttl   time.Duration
}

// NewCachedSearchAPI creates a caching decorator. cache may be nil, in which
// case every call goes to api.
func NewCachedSearchAPI(api driven.SearchAPI, cache driven.PageCache, ttl time.Duration) *CachedSearchAPI {
	if ttl <= 0 {
		ttl = domain.DefaultCacheTTL
	}
	return &CachedSearchAPI{api: api, cache: cache, ttl: ttl}
}

// CacheKey returns the canonical request key for a page.
func CacheKey(params domain.QueryParams, page, perPage int) string {
	q := params.Clone()
	q[domain.ParamPage] = strconv.Itoa(page)
	q[domain.ParamPerPage] = strconv.Itoa(perPage)
	return q.String()
}

// FetchPage returns the cached page if fresh, else fetches and stores it.
func (c *CachedSearchAPI) FetchPage(
	ctx context.Context, params domain.QueryParams, page, perPage int,
) ([]byte, error) {
	key := CacheKey(params, page, perPage)
	if c.cache != nil {
		body, ok, err := c.cache.Get(ctx, key)
		switch {
		case err != nil:
			logger.Warn("cache: get %s: %v", key, err)
		case ok:
			logger.Debug("cache: hit %s", key)
			return body, nil
		}
	}

	body, err := c.api.FetchPage(ctx, params, page, perPage)
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		if err := c.cache.Put(ctx, key, body, c.ttl); err != nil {
			logger.Warn("cache: put %s: %v", key, err)
		}
	}
	return body, nil
}

// Clear removes every cached page.
func (c *CachedSearchAPI) Clear(ctx context.Context) (int, error) {
	if c.cache == nil {
		return 0, nil
	}
	n, err := c.cache.Purge(ctx)
	if err != nil {
		return 0, fmt.Errorf("purge cache: %w", err)
	}
	logger.Debug("cache: purged %d pages", n)
	return n, nil
}

// Stats reports what the cache holds.
func (c *CachedSearchAPI) Stats(ctx context.Context) (domain.CacheStats, error) {
	if c.cache == nil {
		return domain.CacheStats{}, nil
	}
	stats, err := c.cache.Stats(ctx)
	if err != nil {
		return domain.CacheStats{}, fmt.Errorf("cache stats: %w", err)
	}
	return stats, nil
}
