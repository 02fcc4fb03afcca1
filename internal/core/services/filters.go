package services

import (
	"fmt"
	"sync"

	"github.com/custodia-labs/acqscope/internal/core/domain"
	"github.com/custodia-labs/acqscope/internal/core/filters"
	"github.com/custodia-labs/acqscope/internal/core/ports/driven"
	"github.com/custodia-labs/acqscope/internal/core/ports/driving"
	"github.com/custodia-labs/acqscope/internal/logger"
)

// Ensure FilterSession implements the interface.
var _ driving.FilterService = (*FilterSession)(nil)

// FilterSession owns the filter state of one builder and keeps the location
// in sync with it. Edits replace the current location entry; only
// ViewResults pushes a new one. The location is decoded once, on the first
// Hydrate; later external location changes are not read back.
type FilterSession struct {
	mu       sync.Mutex
	location driven.Location
	state    domain.FilterState
	hydrated bool
}

// NewFilterSession creates a filter session bound to location.
func NewFilterSession(location driven.Location) *FilterSession {
	return &FilterSession{location: location}
}

// Hydrate decodes the current location on the first call.
func (s *FilterSession) Hydrate() domain.FilterState {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hydrateLocked()
	return s.state.Clone()
}

func (s *FilterSession) hydrateLocked() {
	if s.hydrated {
		return
	}
	s.hydrated = true
	loc := s.location.Current()
	s.state = filters.Decode(loc.Query)
	logger.Debug("filters: hydrated %v from %s", s.state.ActiveFacets(), loc)
}

// State returns a copy of the current filter state.
func (s *FilterSession) State() domain.FilterState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Query returns the encoded current state.
func (s *FilterSession) Query() domain.QueryParams {
	s.mu.Lock()
	defer s.mu.Unlock()
	return filters.Encode(s.state)
}

// Assign sets one facet and replaces the location.
func (s *FilterSession) Assign(keyOrName, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hydrateLocked()

	next := s.state.Clone()
	if err := filters.Assign(&next, keyOrName, value); err != nil {
		return err
	}
	s.state = next
	return s.replaceLocked()
}

// Update applies fn to the state and replaces the location.
func (s *FilterSession) Update(fn func(*domain.FilterState)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hydrateLocked()

	fn(&s.state)
	return s.replaceLocked()
}

// Clear resets every facet and replaces the location.
func (s *FilterSession) Clear() error {
	return s.Update(func(f *domain.FilterState) { f.Clear() })
}

// ViewResults pushes the results route with the encoded query.
func (s *FilterSession) ViewResults() (domain.Location, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hydrateLocked()

	if !s.state.HasActive() {
		return domain.Location{}, domain.ErrNoActiveFilters
	}
	loc := domain.Location{Route: domain.RouteResults, Query: filters.Encode(s.state)}
	if err := s.location.Push(loc); err != nil {
		return domain.Location{}, fmt.Errorf("push location: %w", err)
	}
	logger.Debug("filters: view results %s", loc)
	return loc, nil
}

// replaceLocked rewrites the current entry on the build route.
func (s *FilterSession) replaceLocked() error {
	loc := domain.Location{Route: domain.RouteBuild, Query: filters.Encode(s.state)}
	if err := s.location.Replace(loc); err != nil {
		return fmt.Errorf("replace location: %w", err)
	}
	return nil
}
