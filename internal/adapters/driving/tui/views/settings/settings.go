// Package settings provides the settings configuration view for the TUI.
package settings

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/acqscope/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/acqscope/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/acqscope/internal/core/domain"
	"github.com/custodia-labs/acqscope/internal/core/ports/driving"
)

// ErrNoSettingsService indicates that no settings service was provided.
var ErrNoSettingsService = errors.New("settings service not available")

// View lists every config key with its value and edits one at a time.
type View struct {
	styles          *styles.Styles
	settingsService driving.SettingsService

	keys     []string
	values   map[string]string
	settings *domain.AppSettings
	err      error
	notice   string

	selected int
	editing  bool
	input    textinput.Model

	width  int
	height int
	ready  bool
}

// NewView creates a new settings view.
func NewView(s *styles.Styles, settingsService driving.SettingsService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	in := textinput.New()
	in.CharLimit = 512
	in.Prompt = "> "

	var keys []string
	if settingsService != nil {
		keys = settingsService.Keys()
	}

	return &View{
		styles:          s,
		settingsService: settingsService,
		keys:            keys,
		values:          map[string]string{},
		input:           in,
	}
}

// Init loads the current settings.
func (v *View) Init() tea.Cmd {
	return v.loadSettings()
}

// Reset leaves edit mode and clears transient messages.
func (v *View) Reset() {
	v.editing = false
	v.input.Blur()
	v.input.SetValue("")
	v.err = nil
	v.notice = ""
}

func (v *View) loadSettings() tea.Cmd {
	svc := v.settingsService
	return func() tea.Msg {
		if svc == nil {
			return messages.SettingsLoaded{Err: ErrNoSettingsService}
		}
		settings, err := svc.Get()
		return messages.SettingsLoaded{Settings: settings, Err: err}
	}
}

// Update handles messages for the settings view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.SettingsLoaded:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.settings = msg.Settings
		v.refreshValues()
		return v, nil

	case messages.SettingsSaved:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		v.notice = "Saved " + msg.Key
		return v, v.loadSettings()

	case messages.SettingsChanged:
		return v, v.loadSettings()

	case tea.KeyMsg:
		if v.editing {
			return v.handleEditKeys(msg)
		}
		return v.handleListKeys(msg)
	}

	return v, nil
}

func (v *View) refreshValues() {
	for _, key := range v.keys {
		value, err := v.settingsService.Value(key)
		if err != nil {
			v.err = err
			continue
		}
		v.values[key] = value
	}
}

func (v *View) handleListKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewBuilder}
		}
	case "up", "k":
		if v.selected > 0 {
			v.selected--
		}
	case "down", "j":
		if v.selected < len(v.keys)-1 {
			v.selected++
		}
	case "enter":
		if len(v.keys) == 0 {
			return v, nil
		}
		key := v.keys[v.selected]
		v.editing = true
		v.notice = ""
		v.err = nil
		if isSecret(key) {
			v.input.EchoMode = textinput.EchoPassword
			v.input.SetValue("")
		} else {
			v.input.EchoMode = textinput.EchoNormal
			v.input.SetValue(v.values[key])
		}
		v.input.CursorEnd()
		return v, v.input.Focus()
	}
	return v, nil
}

func (v *View) handleEditKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	//nolint:exhaustive // only enter and esc leave edit mode
	switch msg.Type {
	case tea.KeyEsc:
		v.editing = false
		v.input.Blur()
		return v, nil
	case tea.KeyEnter:
		key := v.keys[v.selected]
		value := v.input.Value()
		v.editing = false
		v.input.Blur()
		return v, v.save(key, value)
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) save(key, value string) tea.Cmd {
	svc := v.settingsService
	return func() tea.Msg {
		if svc == nil {
			return messages.SettingsSaved{Key: key, Err: ErrNoSettingsService}
		}
		return messages.SettingsSaved{Key: key, Err: svc.Set(key, value)}
	}
}

// isSecret reports whether a key holds a credential.
func isSecret(key string) bool {
	return strings.HasSuffix(key, ".token") || strings.HasSuffix(key, "_key")
}

func mask(value string) string {
	switch {
	case value == "":
		return "(not set)"
	case len(value) <= 8:
		return "****"
	default:
		return value[:4] + "..." + value[len(value)-4:]
	}
}

// View renders the settings view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Settings"))
	b.WriteString("\n\n")

	if v.err != nil {
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
		b.WriteString("\n\n")
	}

	if v.settings == nil {
		b.WriteString(v.styles.Muted.Render("Loading settings..."))
		return b.String()
	}

	for i, key := range v.keys {
		value := v.values[key]
		if isSecret(key) {
			value = mask(value)
		} else if value == "" {
			value = "(not set)"
		}

		line := fmt.Sprintf("%-26s %s", key, value)
		if i == v.selected {
			b.WriteString(v.styles.Selected.Render("> " + line))
		} else {
			b.WriteString(v.styles.Normal.Render("  " + line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if v.editing {
		b.WriteString(v.styles.Subtitle.Render("Edit " + v.keys[v.selected]))
		b.WriteString("\n")
		b.WriteString(v.input.View())
		b.WriteString("\n\n")
	}

	if v.notice != "" {
		b.WriteString(v.styles.Success.Render(v.notice))
		b.WriteString("\n")
	}
	if err := v.settingsService.Validate(); err != nil {
		b.WriteString(v.styles.Warning.Render(fmt.Sprintf("Warning: %s", err.Error())))
	} else {
		b.WriteString(v.styles.Success.Render("Configuration is valid"))
	}
	b.WriteString("\n")

	b.WriteString(v.styles.Help.Render("↑/↓: select | enter: edit | esc: back"))
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.input.Width = width - 4
}

// Editing reports whether a value is being edited.
func (v *View) Editing() bool {
	return v.editing
}

// Selected returns the highlighted key index.
func (v *View) Selected() int {
	return v.selected
}

// Err returns the last error shown.
func (v *View) Err() error {
	return v.err
}
