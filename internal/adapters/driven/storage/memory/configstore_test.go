package memory

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore(t *testing.T) {
	store := NewConfigStore()
	require.NotNil(t, store)
	assert.Empty(t, store.Keys())
	assert.Empty(t, store.Path())
	assert.NoError(t, store.Load())
}

func TestNewConfigStore_SeedsMergeInOrder(t *testing.T) {
	store := NewConfigStore(
		map[string]any{"api.base_url": "https://example.org", "browse.per_page": 20},
		map[string]any{"browse.per_page": 30},
	)

	v, ok := store.Get("browse.per_page")
	require.True(t, ok)
	assert.Equal(t, 30, v)
	assert.Equal(t, []string{"api.base_url", "browse.per_page"}, store.Keys())
}

func TestConfigStore_SetOverwrites(t *testing.T) {
	store := NewConfigStore()

	require.NoError(t, store.Set("api.search_path", "/v1/search"))
	require.NoError(t, store.Set("api.search_path", "/v2/search"))

	v, ok := store.Get("api.search_path")
	assert.True(t, ok)
	assert.Equal(t, "/v2/search", v)
}

func TestConfigStore_SetAll(t *testing.T) {
	store := NewConfigStore(map[string]any{"api.token": "secret", "cache.enabled": true})

	require.NoError(t, store.SetAll(map[string]any{
		"api.token":         nil,
		"cache.enabled":     false,
		"cache.ttl_seconds": 60,
	}))

	_, ok := store.Get("api.token")
	assert.False(t, ok)
	assert.Equal(t, []string{"cache.enabled", "cache.ttl_seconds"}, store.Keys())
}

func TestConfigStore_ConcurrentAccess(t *testing.T) {
	store := NewConfigStore()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			_ = store.Set("browse.per_page", n)
		}(i)
		go func() {
			defer wg.Done()
			_, _ = store.Get("browse.per_page")
		}()
	}
	wg.Wait()

	_, ok := store.Get("browse.per_page")
	assert.True(t, ok)
}
