package settings

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/acqscope/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/acqscope/internal/core/domain"
)

// MockSettingsService is a mock implementation of driving.SettingsService.
type MockSettingsService struct {
	mock.Mock
}

func (m *MockSettingsService) Get() (*domain.AppSettings, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AppSettings), args.Error(1)
}

func (m *MockSettingsService) Save(settings *domain.AppSettings) error {
	args := m.Called(settings)
	return args.Error(0)
}

func (m *MockSettingsService) Set(key, value string) error {
	args := m.Called(key, value)
	return args.Error(0)
}

func (m *MockSettingsService) Keys() []string {
	args := m.Called()
	return args.Get(0).([]string)
}

func (m *MockSettingsService) Value(key string) (string, error) {
	args := m.Called(key)
	return args.String(0), args.Error(1)
}

func (m *MockSettingsService) SetToken(token string) error {
	args := m.Called(token)
	return args.Error(0)
}

func (m *MockSettingsService) GetDefaults() domain.AppSettings {
	args := m.Called()
	return args.Get(0).(domain.AppSettings)
}

func (m *MockSettingsService) Validate() error {
	args := m.Called()
	return args.Error(0)
}

var testKeys = []string{"api.base_url", "api.token", "browse.panels_per_page"}

func newMockService() *MockSettingsService {
	svc := &MockSettingsService{}
	settings := domain.DefaultAppSettings()
	svc.On("Keys").Return(testKeys)
	svc.On("Get").Return(&settings, nil)
	svc.On("Value", "api.base_url").Return("https://search.example.com", nil)
	svc.On("Value", "api.token").Return("abcdefghijkl", nil)
	svc.On("Value", "browse.panels_per_page").Return("9", nil)
	svc.On("Validate").Return(nil)
	return svc
}

func loadedView(t *testing.T, svc *MockSettingsService) *View {
	t.Helper()
	view := NewView(nil, svc)
	view.SetDimensions(120, 40)
	cmd := view.Init()
	require.NotNil(t, cmd)
	view.Update(cmd())
	return view
}

func TestNewView_NilStyles(t *testing.T) {
	view := NewView(nil, nil)

	require.NotNil(t, view)
	assert.NotNil(t, view.styles)
}

func TestView_LoadShowsValues(t *testing.T) {
	svc := newMockService()
	view := loadedView(t, svc)

	out := view.View()
	assert.Contains(t, out, "https://search.example.com")
	assert.Contains(t, out, "abcd...ijkl")
	assert.NotContains(t, out, "abcdefghijkl")
	assert.Contains(t, out, "Configuration is valid")
}

func TestView_LoadingBeforeSettings(t *testing.T) {
	view := NewView(nil, newMockService())

	assert.Contains(t, view.View(), "Loading settings...")
}

func TestView_NoService(t *testing.T) {
	view := NewView(nil, nil)
	view.Update(view.Init()())

	assert.ErrorIs(t, view.Err(), ErrNoSettingsService)
}

func TestView_EditAndSave(t *testing.T) {
	svc := newMockService()
	svc.On("Set", "browse.panels_per_page", "12").Return(nil)
	view := loadedView(t, svc)

	view.Update(tea.KeyMsg{Type: tea.KeyDown})
	view.Update(tea.KeyMsg{Type: tea.KeyDown})
	view.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.True(t, view.Editing())

	// Existing value is pre-filled.
	view.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("12")})
	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.False(t, view.Editing())

	saved, ok := cmd().(messages.SettingsSaved)
	require.True(t, ok)
	assert.NoError(t, saved.Err)

	_, reload := view.Update(saved)
	assert.NotNil(t, reload)
	assert.Contains(t, view.View(), "Saved browse.panels_per_page")
	svc.AssertCalled(t, "Set", "browse.panels_per_page", "12")
}

func TestView_SecretIsNotPrefilled(t *testing.T) {
	svc := newMockService()
	view := loadedView(t, svc)

	view.Update(tea.KeyMsg{Type: tea.KeyDown})
	view.Update(tea.KeyMsg{Type: tea.KeyEnter})

	require.True(t, view.Editing())
	assert.Empty(t, view.input.Value())
}

func TestView_SaveError(t *testing.T) {
	svc := newMockService()
	svc.On("Set", "api.base_url", "https://search.example.com").Return(errors.New("bad url"))
	view := loadedView(t, svc)

	view.Update(tea.KeyMsg{Type: tea.KeyEnter})
	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEnter})
	view.Update(cmd())

	require.Error(t, view.Err())
	assert.Contains(t, view.View(), "bad url")
}

func TestView_EscCancelsThenLeaves(t *testing.T) {
	view := loadedView(t, newMockService())

	view.Update(tea.KeyMsg{Type: tea.KeyEnter})
	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Nil(t, cmd)
	assert.False(t, view.Editing())

	_, cmd = view.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewChanged{View: messages.ViewBuilder}, cmd())
}

func TestView_ConfigChangeReloads(t *testing.T) {
	view := loadedView(t, newMockService())

	_, cmd := view.Update(messages.SettingsChanged{})

	require.NotNil(t, cmd)
	_, ok := cmd().(messages.SettingsLoaded)
	assert.True(t, ok)
}

func TestView_ValidationWarning(t *testing.T) {
	svc := &MockSettingsService{}
	settings := domain.DefaultAppSettings()
	svc.On("Keys").Return([]string{})
	svc.On("Get").Return(&settings, nil)
	svc.On("Validate").Return(domain.ErrSearchUnavailable)

	view := loadedView(t, svc)

	assert.Contains(t, view.View(), "Warning: search endpoint not configured")
}

func TestView_Reset(t *testing.T) {
	view := loadedView(t, newMockService())
	view.Update(tea.KeyMsg{Type: tea.KeyEnter})

	view.Reset()

	assert.False(t, view.Editing())
	assert.NoError(t, view.Err())
}
