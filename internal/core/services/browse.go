package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/acqscope/internal/core/domain"
	"github.com/custodia-labs/acqscope/internal/core/filters"
	"github.com/custodia-labs/acqscope/internal/core/ports/driven"
	"github.com/custodia-labs/acqscope/internal/core/ports/driving"
	"github.com/custodia-labs/acqscope/internal/logger"
)

// Ensure BrowseService implements the interface.
var _ driving.BrowseService = (*BrowseService)(nil)

// BrowseService orchestrates search sessions: it encodes the filter state,
// fetches pages through the search API, normalises them and pages through
// the aggregated panels.
type BrowseService struct {
	api        driven.SearchAPI
	normaliser driven.ResponseNormaliser
	controller *Controller
	perPage    int
}

// NewBrowseService creates a new browse service.
// The api parameter may be nil; Start then returns domain.ErrSearchUnavailable.
func NewBrowseService(
	api driven.SearchAPI,
	normaliser driven.ResponseNormaliser,
	settings domain.BrowseSettings,
) *BrowseService {
	perPage := settings.PerPage
	if perPage <= 0 {
		perPage = domain.DefaultPerPage
	}
	return &BrowseService{
		api:        api,
		normaliser: normaliser,
		controller: NewController(NewAggregator(nil), settings.PanelsPerPage, settings.PhotosPerPanel),
		perPage:    perPage,
	}
}

// Start begins a new search session for state and returns panel page 1.
func (s *BrowseService) Start(ctx context.Context, state domain.FilterState) (*domain.PanelWindow, error) {
	if !state.HasActive() {
		return nil, domain.ErrNoActiveFilters
	}
	if s.api == nil {
		return nil, domain.ErrSearchUnavailable
	}

	query := filters.Encode(state)
	logger.Section("Search")
	logger.Debug("Query: %s", query)

	session := s.controller.Reset(query, s.fetcher(query))
	logger.Debug("Session: %s (per_page=%d)", session, s.perPage)

	return s.controller.Window(ctx, 1)
}

// Page moves to panel page n.
func (s *BrowseService) Page(ctx context.Context, n int) (*domain.PanelWindow, error) {
	return s.controller.Window(ctx, n)
}

// Next moves one panel page forward.
func (s *BrowseService) Next(ctx context.Context) (*domain.PanelWindow, error) {
	return s.controller.Next(ctx)
}

// Prev moves one panel page back.
func (s *BrowseService) Prev(ctx context.Context) (*domain.PanelWindow, error) {
	return s.controller.Prev(ctx)
}

// Retry re-requests the page whose fetch failed.
func (s *BrowseService) Retry(ctx context.Context) (*domain.PanelWindow, error) {
	return s.controller.Retry(ctx)
}

// Summary describes the current session.
func (s *BrowseService) Summary() (*domain.SearchSummary, error) {
	return s.controller.Summary()
}

// fetcher binds query to the search API and normaliser.
func (s *BrowseService) fetcher(query domain.QueryParams) Fetcher {
	return func(ctx context.Context, page int) (domain.SearchPage, error) {
		body, err := s.api.FetchPage(ctx, query, page, s.perPage)
		if err != nil {
			return domain.SearchPage{}, fmt.Errorf("search: %w", err)
		}
		return s.normaliser.Normalise(body, page, s.perPage), nil
	}
}
