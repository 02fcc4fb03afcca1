package driven

import "github.com/custodia-labs/acqscope/internal/core/domain"

// Location is the navigation sink holding the current route and query.
// It is the only place filter state is persisted.
type Location interface {
	// Current returns the current location.
	Current() domain.Location

	// Replace overwrites the current entry without adding history.
	Replace(loc domain.Location) error

	// Push adds a new history entry.
	Push(loc domain.Location) error
}
