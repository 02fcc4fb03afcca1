package driven

import (
	"context"
	"time"

	"github.com/custodia-labs/acqscope/internal/core/domain"
)

// PageCache stores raw search pages keyed by request.
// A miss is not an error: Get returns (nil, false, nil).
type PageCache interface {
	// Get returns the cached body for key if present and not expired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Put stores body under key for ttl.
	Put(ctx context.Context, key string, body []byte, ttl time.Duration) error

	// Purge removes every entry and returns how many were removed.
	Purge(ctx context.Context) (int, error)

	// Prune removes expired entries and returns how many were removed.
	Prune(ctx context.Context) (int, error)

	// Stats reports entry counts, sizes and hits.
	Stats(ctx context.Context) (domain.CacheStats, error)
}
