package mcp

import (
	"context"

	"github.com/custodia-labs/acqscope/internal/core/domain"
)

// mockBrowseService is a mock implementation of driving.BrowseService.
type mockBrowseService struct {
	window  *domain.PanelWindow
	err     error
	started []domain.FilterState
	pages   []int
}

func (m *mockBrowseService) Start(_ context.Context, state domain.FilterState) (*domain.PanelWindow, error) {
	m.started = append(m.started, state)
	if m.err != nil {
		return nil, m.err
	}
	if !state.HasActive() {
		return nil, domain.ErrNoActiveFilters
	}
	return m.window, nil
}

func (m *mockBrowseService) Page(_ context.Context, n int) (*domain.PanelWindow, error) {
	m.pages = append(m.pages, n)
	w := *m.window
	w.Cursor.PanelPage = n
	return &w, m.err
}

func (m *mockBrowseService) Next(ctx context.Context) (*domain.PanelWindow, error) {
	return m.Page(ctx, m.window.Cursor.PanelPage+1)
}

func (m *mockBrowseService) Prev(ctx context.Context) (*domain.PanelWindow, error) {
	return m.Page(ctx, m.window.Cursor.PanelPage-1)
}

func (m *mockBrowseService) Retry(_ context.Context) (*domain.PanelWindow, error) {
	return m.window, m.err
}

func (m *mockBrowseService) Summary() (*domain.SearchSummary, error) {
	return &domain.SearchSummary{}, m.err
}

// mockImageService is a mock implementation of driving.ImageService.
type mockImageService struct {
	candidates []string
	result     domain.ImageResult
}

func (m *mockImageService) Candidates(_ string) []string {
	return m.candidates
}

func (m *mockImageService) Resolve(_ context.Context, _ string) domain.ImageResult {
	return m.result
}

func sampleWindow() *domain.PanelWindow {
	return &domain.PanelWindow{
		Session:    "s-1",
		Cursor:     domain.PanelCursor{PanelPage: 1, PanelsPerPage: 2},
		TotalPages: 3,
		HasNext:    true,
		Counts:     domain.Counts{Acquisitions: 5, Seconds: 42},
		Panels: []domain.Panel{
			{
				AcquisitionID: "20240305_080910_A",
				TotalPhotos:   3,
				Photos: []domain.LinkDoc{
					{AcquisitionID: "20240305_080910_A", Second: domain.Int(0), URL: "https://img.example/a0.jpg"},
					{AcquisitionID: "20240305_080910_A", URL: "https://img.example/a.jpg"},
				},
			},
			{AcquisitionID: "20240301_120000_B", TotalPhotos: 1},
		},
	}
}

// mockCacheService is a mock implementation of driving.CacheService.
type mockCacheService struct {
	stats domain.CacheStats
	err   error
}

func (m *mockCacheService) Clear(_ context.Context) (int, error) {
	return m.stats.Entries, m.err
}

func (m *mockCacheService) Stats(_ context.Context) (domain.CacheStats, error) {
	return m.stats, m.err
}
