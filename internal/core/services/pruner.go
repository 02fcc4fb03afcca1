package services

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/acqscope/internal/core/ports/driven"
	"github.com/custodia-labs/acqscope/internal/logger"
)

// DefaultPruneInterval is how often expired cache pages are removed.
const DefaultPruneInterval = 10 * time.Minute

// CachePruner periodically removes expired pages from a PageCache.
// It is used by long-running front ends (TUI, MCP server).
type CachePruner struct {
	cache    driven.PageCache
	interval time.Duration

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	done    chan struct{}
}

// NewCachePruner creates a pruner. A non-positive interval uses
// DefaultPruneInterval.
func NewCachePruner(cache driven.PageCache, interval time.Duration) *CachePruner {
	if interval <= 0 {
		interval = DefaultPruneInterval
	}
	return &CachePruner{cache: cache, interval: interval}
}

// Start prunes once, then on every interval. It blocks until Stop is called
// or ctx is cancelled. Calling Start while running returns immediately.
func (p *CachePruner) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.running || p.cache == nil {
		p.mu.Unlock()
		return nil
	}
	p.running = true
	p.stopCh = make(chan struct{})
	p.done = make(chan struct{})
	stopCh, done := p.stopCh, p.done
	p.mu.Unlock()
	defer close(done)

	p.prune(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.markStopped()
			return ctx.Err()
		case <-stopCh:
			return nil
		case <-ticker.C:
			p.prune(ctx)
		}
	}
}

// Stop ends the loop and waits for it to return.
func (p *CachePruner) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	close(p.stopCh)
	done := p.done
	p.mu.Unlock()

	<-done
}

func (p *CachePruner) markStopped() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.running = false
}

func (p *CachePruner) prune(ctx context.Context) {
	n, err := p.cache.Prune(ctx)
	if err != nil {
		logger.Warn("cache: prune failed: %v", err)
		return
	}
	if n > 0 {
		logger.Debug("cache: pruned %d expired pages", n)
	}
}
