package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/acqscope/internal/core/domain"
)

func TestCacheClear(t *testing.T) {
	setupTestServices(t)

	out := mustExecute(t, "cache", "clear")

	assert.Contains(t, out, "Removed 3 cached pages.")
}

func TestCacheClear_Disabled(t *testing.T) {
	setupTestServices(t)
	SetServices(&Services{})

	out := mustExecute(t, "cache", "clear")

	assert.Contains(t, out, "Page cache is disabled.")
}

func TestCacheStats(t *testing.T) {
	ts := setupTestServices(t)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	original := cacheNow
	cacheNow = func() time.Time { return now }
	t.Cleanup(func() { cacheNow = original })

	ts.cache.stats = domain.CacheStats{
		Entries: 12,
		Expired: 2,
		Bytes:   2_500_000,
		Hits:    1234,
		Oldest:  now.Add(-3 * time.Hour),
	}

	out := mustExecute(t, "cache", "stats")

	assert.Contains(t, out, "Pages:   12 (10 live, 2 expired)")
	assert.Contains(t, out, "Size:    2.5 MB")
	assert.Contains(t, out, "Hits:    1,234")
	assert.Contains(t, out, "Oldest:  3 hours ago")
}

func TestCacheStats_Empty(t *testing.T) {
	setupTestServices(t)

	out := mustExecute(t, "cache", "stats")

	assert.Contains(t, out, "Page cache is empty.")
}

func TestCacheStats_Disabled(t *testing.T) {
	setupTestServices(t)
	SetServices(&Services{})

	out := mustExecute(t, "cache", "stats")

	assert.Contains(t, out, "Page cache is disabled.")
}
