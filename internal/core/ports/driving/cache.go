package driving

import (
	"context"

	"github.com/custodia-labs/acqscope/internal/core/domain"
)

// CacheService manages the raw page cache.
type CacheService interface {
	// Clear removes every cached page and returns how many were removed.
	Clear(ctx context.Context) (int, error)

	// Stats reports what the cache holds. A disabled cache reports zeros.
	Stats(ctx context.Context) (domain.CacheStats, error)
}
