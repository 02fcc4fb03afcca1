package tui

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/acqscope/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/acqscope/internal/core/domain"
	"github.com/custodia-labs/acqscope/internal/core/services"
)

// MockBrowseService implements driving.BrowseService for testing.
type MockBrowseService struct {
	StartFunc func(ctx context.Context, state domain.FilterState) (*domain.PanelWindow, error)
	started   []domain.FilterState
}

func (m *MockBrowseService) Start(ctx context.Context, state domain.FilterState) (*domain.PanelWindow, error) {
	m.started = append(m.started, state)
	if m.StartFunc != nil {
		return m.StartFunc(ctx, state)
	}
	return testWindow(), nil
}

func (m *MockBrowseService) Page(context.Context, int) (*domain.PanelWindow, error) {
	return testWindow(), nil
}

func (m *MockBrowseService) Next(context.Context) (*domain.PanelWindow, error) {
	return testWindow(), nil
}

func (m *MockBrowseService) Prev(context.Context) (*domain.PanelWindow, error) {
	return testWindow(), nil
}

func (m *MockBrowseService) Retry(context.Context) (*domain.PanelWindow, error) {
	return testWindow(), nil
}

func (m *MockBrowseService) Summary() (*domain.SearchSummary, error) {
	return &domain.SearchSummary{}, nil
}

func testWindow() *domain.PanelWindow {
	return &domain.PanelWindow{
		Session:    "s1",
		Cursor:     domain.PanelCursor{PanelPage: 1, PanelsPerPage: 9},
		TotalPages: 1,
		Panels: []domain.Panel{{
			AcquisitionID: "acq-1",
			TotalPhotos:   1,
			Photos:        []domain.LinkDoc{{AcquisitionID: "acq-1", Second: domain.Int(4), URL: "https://media.example.com/a.jpg"}},
		}},
		Exhausted: true,
		Buffered:  1,
		Counts:    domain.Counts{Acquisitions: 1, Seconds: 1},
	}
}

func newFilterService(initial string) *services.FilterSession {
	return services.NewFilterSession(memory.NewLocation(domain.ParseLocation(initial)))
}

func TestNewPorts(t *testing.T) {
	filterService := newFilterService("")
	browse := &MockBrowseService{}

	ports := NewPorts(filterService, browse)

	require.NotNil(t, ports)
	assert.Equal(t, browse, ports.Browse)
	assert.NoError(t, ports.Validate())
	assert.Nil(t, ports.Images)
	assert.Nil(t, ports.Actions)
	assert.Nil(t, ports.Settings)
}

func TestPorts_Validate(t *testing.T) {
	tests := []struct {
		name  string
		ports *Ports
		err   error
	}{
		{"nil ports", nil, ErrInvalidPorts},
		{"missing filters", &Ports{Browse: &MockBrowseService{}}, ErrMissingFilterService},
		{"missing browse", &Ports{Filters: newFilterService("")}, ErrMissingBrowseService},
		{"complete", NewPorts(newFilterService(""), &MockBrowseService{}), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ports.Validate()
			if tt.err == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.err)
		})
	}
}
