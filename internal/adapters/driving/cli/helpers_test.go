package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/acqscope/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/acqscope/internal/core/domain"
	"github.com/custodia-labs/acqscope/internal/core/services"
)

// mockBrowseService implements driving.BrowseService for testing.
type mockBrowseService struct {
	startErr error
	started  []domain.FilterState
	pages    []int
}

func (m *mockBrowseService) Start(_ context.Context, state domain.FilterState) (*domain.PanelWindow, error) {
	if m.startErr != nil {
		return nil, m.startErr
	}
	if !state.HasActive() {
		return nil, domain.ErrNoActiveFilters
	}
	m.started = append(m.started, state)
	return testWindow(1), nil
}

func (m *mockBrowseService) Page(_ context.Context, n int) (*domain.PanelWindow, error) {
	m.pages = append(m.pages, n)
	if n > 2 {
		n = 2
	}
	return testWindow(n), nil
}

func (m *mockBrowseService) Next(context.Context) (*domain.PanelWindow, error) {
	return testWindow(2), nil
}

func (m *mockBrowseService) Prev(context.Context) (*domain.PanelWindow, error) {
	return testWindow(1), nil
}

func (m *mockBrowseService) Retry(context.Context) (*domain.PanelWindow, error) {
	return testWindow(1), nil
}

func (m *mockBrowseService) Summary() (*domain.SearchSummary, error) {
	return &domain.SearchSummary{Session: "s1"}, nil
}

// testWindow returns panel page n of two.
func testWindow(n int) *domain.PanelWindow {
	id := "acq-1"
	if n == 2 {
		id = "acq-2"
	}
	return &domain.PanelWindow{
		Session:    "s1",
		Cursor:     domain.PanelCursor{PanelPage: n, PanelsPerPage: 1},
		TotalPages: 2,
		Panels: []domain.Panel{{
			AcquisitionID: id,
			TotalPhotos:   2,
			Photos: []domain.LinkDoc{
				{AcquisitionID: id, Second: domain.Int(3), URL: "https://media.example.com/" + id + "/3.jpg"},
				{AcquisitionID: id, URL: "https://media.example.com/" + id + "/x.jpg"},
			},
		}},
		HasPrev:   n > 1,
		HasNext:   n < 2,
		Exhausted: n == 2,
		Buffered:  2,
		Counts:    domain.Counts{Acquisitions: 2, Seconds: 4},
	}
}

// mockImageService implements driving.ImageService for testing.
type mockImageService struct{}

func (m *mockImageService) Candidates(url string) []string {
	return []string{url + "?thumb", url}
}

func (m *mockImageService) Resolve(_ context.Context, url string) domain.ImageResult {
	if url == "https://broken.example.com/a.jpg" {
		return domain.ImageResult{Original: url, Placeholder: true, Tried: m.Candidates(url)}
	}
	return domain.ImageResult{Original: url, URL: url, Tried: m.Candidates(url)}
}

// mockCacheService implements driving.CacheService for testing.
type mockCacheService struct {
	removed int
	stats   domain.CacheStats
}

func (m *mockCacheService) Clear(context.Context) (int, error) {
	return m.removed, nil
}

func (m *mockCacheService) Stats(context.Context) (domain.CacheStats, error) {
	return m.stats, nil
}

// testServices holds the services injected by setupTestServices.
type testServices struct {
	browse   *mockBrowseService
	location *memory.Location
	config   *memory.ConfigStore
	cache    *mockCacheService
}

// setupTestServices injects real filter and settings services over memory
// stores plus mocks for everything that would reach the network. It also
// resets every command flag.
func setupTestServices(t *testing.T) *testServices {
	t.Helper()

	ts := &testServices{
		browse:   &mockBrowseService{},
		location: memory.NewLocation(domain.Location{}),
		config:   memory.NewConfigStore(),
		cache:    &mockCacheService{removed: 3},
	}
	SetServices(&Services{
		Filters:  services.NewFilterSession(ts.location),
		Browse:   ts.browse,
		Images:   &mockImageService{},
		Actions:  services.NewPhotoActionService(),
		Settings: services.NewSettingsService(ts.config),
		Cache:    ts.cache,
	})
	resetFlags()

	t.Cleanup(func() {
		SetServices(nil)
		resetFlags()
	})
	return ts
}

func resetFlags() {
	searchFlags.reset()
	searchPage = 1
	searchJSON = false
	encodeFlags.reset()
	encodeResults = false
	decodeJSON = false
	imagesResolve = false
	imagesJSON = false
	tuiFlags.reset()
	tuiResults = false
	versionShort = false
	mcpPort = 0
}

// execute runs the root command with args and returns its output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}

// mustExecute runs the root command and fails the test on error.
func mustExecute(t *testing.T, args ...string) string {
	t.Helper()
	out, err := execute(t, args...)
	require.NoError(t, err)
	return out
}

// captureOutput redirects command output into a buffer for direct calls.
func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	return buf
}
