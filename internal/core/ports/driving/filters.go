package driving

import "github.com/custodia-labs/acqscope/internal/core/domain"

// FilterService edits filter state and keeps the location in sync.
type FilterService interface {
	// Hydrate decodes the current location into filter state. Only the first
	// call reads the location; later calls return the current state.
	Hydrate() domain.FilterState

	// State returns a copy of the current filter state.
	State() domain.FilterState

	// Query returns the encoded current state.
	Query() domain.QueryParams

	// Assign sets one facet (by dotted key or name) and replaces the location.
	Assign(keyOrName, value string) error

	// Update applies fn to the state and replaces the location.
	Update(fn func(*domain.FilterState)) error

	// Clear resets every facet and replaces the location.
	Clear() error

	// ViewResults pushes the results route carrying the encoded query.
	// Returns domain.ErrNoActiveFilters if no facet is active.
	ViewResults() (domain.Location, error)
}
