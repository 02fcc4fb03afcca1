package driving

import (
	"context"

	"github.com/custodia-labs/acqscope/internal/core/domain"
)

// BrowseService runs acquisition searches and pages through the results
// as photo panels.
type BrowseService interface {
	// Start begins a new search session for state and returns the first
	// panel page. Returns domain.ErrNoActiveFilters if state is empty.
	Start(ctx context.Context, state domain.FilterState) (*domain.PanelWindow, error)

	// Page moves to panel page n (1-based), fetching API pages as needed.
	// Pages beyond the last known page clamp to it.
	Page(ctx context.Context, n int) (*domain.PanelWindow, error)

	// Next moves one panel page forward.
	Next(ctx context.Context) (*domain.PanelWindow, error)

	// Prev moves one panel page back. Never fetches.
	Prev(ctx context.Context) (*domain.PanelWindow, error)

	// Retry re-requests the panel page whose fetch last failed.
	Retry(ctx context.Context) (*domain.PanelWindow, error)

	// Summary describes the current session.
	Summary() (*domain.SearchSummary, error)
}
