package memory

import (
	"sync"

	"github.com/custodia-labs/acqscope/internal/core/domain"
	"github.com/custodia-labs/acqscope/internal/core/ports/driven"
)

// Ensure Location implements the interface.
var _ driven.Location = (*Location)(nil)

// Location is an in-memory navigation history. Replace rewrites the top
// entry; Push adds one. It stands in for a browser address bar in the TUI,
// CLI and tests.
type Location struct {
	mu       sync.RWMutex
	history  []domain.Location
	replaces int
	onChange func(domain.Location)
}

// NewLocation creates a history whose first entry is initial.
func NewLocation(initial domain.Location) *Location {
	if !initial.Route.IsValid() {
		initial.Route = domain.RouteBuild
	}
	if initial.Query == nil {
		initial.Query = domain.QueryParams{}
	}
	return &Location{history: []domain.Location{initial}}
}

// OnChange registers a callback invoked after every Replace or Push.
func (l *Location) OnChange(fn func(domain.Location)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onChange = fn
}

// Current returns the top entry.
func (l *Location) Current() domain.Location {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return clone(l.history[len(l.history)-1])
}

// Replace overwrites the top entry.
func (l *Location) Replace(loc domain.Location) error {
	l.mu.Lock()
	l.history[len(l.history)-1] = clone(loc)
	l.replaces++
	fn := l.onChange
	l.mu.Unlock()

	if fn != nil {
		fn(loc)
	}
	return nil
}

// Push adds a new entry.
func (l *Location) Push(loc domain.Location) error {
	l.mu.Lock()
	l.history = append(l.history, clone(loc))
	fn := l.onChange
	l.mu.Unlock()

	if fn != nil {
		fn(loc)
	}
	return nil
}

// Back pops the top entry and returns the new current one.
// The first entry is never popped.
func (l *Location) Back() (domain.Location, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.history) == 1 {
		return clone(l.history[0]), false
	}
	l.history = l.history[:len(l.history)-1]
	return clone(l.history[len(l.history)-1]), true
}

// History returns every entry, oldest first.
func (l *Location) History() []domain.Location {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]domain.Location, len(l.history))
	for i, loc := range l.history {
		out[i] = clone(loc)
	}
	return out
}

// Replaces returns how many times Replace was called.
func (l *Location) Replaces() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.replaces
}

func clone(loc domain.Location) domain.Location {
	return domain.Location{Route: loc.Route, Query: loc.Query.Clone()}
}
