package file

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_ReloadsOnChange(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("browse.panels_per_page", 24))

	changed := make(chan struct{}, 1)
	w := NewWatcher(store, func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	w.debounce = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Give the watcher time to register before editing.
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(store.Path(), []byte("[browse]\npanels_per_page = 6\n"), 0600))

	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not report the change")
	}
	v, _ := store.Get("browse.panels_per_page")
	assert.Equal(t, int64(6), v)

	cancel()
	assert.NoError(t, <-done)
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	calls := make(chan struct{}, 1)
	w := NewWatcher(store, func() { calls <- struct{}{} })
	w.debounce = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(store.Path()+".bak", []byte("x"), 0600))

	select {
	case <-calls:
		t.Fatal("unexpected reload")
	case <-time.After(150 * time.Millisecond):
	}
}

func TestWatcher_MissingDirectory(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	store.path = "/nonexistent/acqscope/config.toml"

	err = NewWatcher(store, nil).Run(context.Background())
	assert.Error(t, err)
}
