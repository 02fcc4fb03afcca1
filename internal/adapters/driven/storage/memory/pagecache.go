package memory

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/acqscope/internal/core/domain"
	"github.com/custodia-labs/acqscope/internal/core/ports/driven"
)

// Ensure PageCache implements the interface.
var _ driven.PageCache = (*PageCache)(nil)

type cachedPage struct {
	body    []byte
	stored  time.Time
	expires time.Time
	hits    int64
}

// PageCache is an in-memory implementation of driven.PageCache.
// Expired entries are dropped lazily on read.
type PageCache struct {
	mu    sync.Mutex
	pages map[string]cachedPage
	now   func() time.Time
}

// NewPageCache creates a new in-memory page cache.
func NewPageCache() *PageCache {
	return &PageCache{
		pages: make(map[string]cachedPage),
		now:   time.Now,
	}
}

// Get returns the cached body for key if present and not expired.
func (c *PageCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	page, ok := c.pages[key]
	if !ok {
		return nil, false, nil
	}
	if !c.now().Before(page.expires) {
		delete(c.pages, key)
		return nil, false, nil
	}
	page.hits++
	c.pages[key] = page
	return append([]byte(nil), page.body...), true, nil
}

// Put stores body under key for ttl.
func (c *PageCache) Put(_ context.Context, key string, body []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	c.pages[key] = cachedPage{
		body:    append([]byte(nil), body...),
		stored:  now,
		expires: now.Add(ttl),
	}
	return nil
}

// Purge removes every entry.
func (c *PageCache) Purge(_ context.Context) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := len(c.pages)
	c.pages = make(map[string]cachedPage)
	return n, nil
}

// Prune removes expired entries.
func (c *PageCache) Prune(_ context.Context) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	n := 0
	for key, page := range c.pages {
		if !now.Before(page.expires) {
			delete(c.pages, key)
			n++
		}
	}
	return n, nil
}

// Stats reports entry counts, sizes and hits.
func (c *PageCache) Stats(_ context.Context) (domain.CacheStats, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	var stats domain.CacheStats
	for _, page := range c.pages {
		stats.Entries++
		if !now.Before(page.expires) {
			stats.Expired++
		}
		stats.Bytes += int64(len(page.body))
		stats.Hits += page.hits
		if stats.Oldest.IsZero() || page.stored.Before(stats.Oldest) {
			stats.Oldest = page.stored
		}
	}
	return stats, nil
}

// Len returns the number of stored entries, including expired ones.
func (c *PageCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pages)
}
