// Package input holds the builder's edit line.
package input

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/acqscope/internal/adapters/driving/tui/styles"
)

// DefaultPlaceholder hints at both accepted input forms.
const DefaultPlaceholder = "speed=20..  building=low,high  or  c.v=20..&o.highway=primary"

const (
	charLimit = 512
	minWidth  = 20
)

// FilterInput is a single-line editor for "key=value" assignments and
// query fragments. Facet keys typed as a prefix are offered as
// completions.
type FilterInput struct {
	textinput textinput.Model
	styles    *styles.Styles
	label     string
	width     int
}

// NewFilterInput creates the builder's filter line.
func NewFilterInput(s *styles.Styles) *FilterInput {
	return NewLabelledInput(s, "Filter: ", DefaultPlaceholder)
}

// NewLabelledInput creates a focused input with its own label.
func NewLabelledInput(s *styles.Styles, label, placeholder string) *FilterInput {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = charLimit
	ti.PlaceholderStyle = s.Muted
	ti.CompletionStyle = s.Muted
	ti.Focus()

	f := &FilterInput{textinput: ti, styles: s, label: label}
	f.SetWidth(50)
	return f
}

// SetSuggestions offers each facet key as "key=" once the typed text is
// a prefix of it.
func (f *FilterInput) SetSuggestions(keys []string) {
	suggestions := make([]string, 0, len(keys))
	for _, k := range keys {
		suggestions = append(suggestions, k+"=")
	}
	f.textinput.SetSuggestions(suggestions)
	f.textinput.ShowSuggestions = len(suggestions) > 0
}

// Complete replaces the text with the current suggestion. It reports false
// when nothing new was offered.
func (f *FilterInput) Complete() bool {
	if !f.textinput.ShowSuggestions || f.textinput.Value() == "" {
		return false
	}
	suggestion := f.textinput.CurrentSuggestion()
	if suggestion == "" || suggestion == f.textinput.Value() {
		return false
	}
	f.SetValue(suggestion)
	return true
}

// Init starts the cursor blink.
func (f *FilterInput) Init() tea.Cmd {
	return textinput.Blink
}

// Update forwards keystrokes and blink ticks to the text input.
func (f *FilterInput) Update(msg tea.Msg) (*FilterInput, tea.Cmd) {
	var cmd tea.Cmd
	f.textinput, cmd = f.textinput.Update(msg)
	return f, cmd
}

// View renders the label and the boxed input side by side.
func (f *FilterInput) View() string {
	//nolint:misspell // lipgloss constant
	return lipgloss.JoinHorizontal(lipgloss.Center,
		f.styles.Title.Render(f.label),
		f.styles.InputField.Render(f.textinput.View()),
	)
}

// Value returns the typed text.
func (f *FilterInput) Value() string {
	return f.textinput.Value()
}

// SetValue replaces the text and puts the cursor at the end.
func (f *FilterInput) SetValue(value string) {
	f.textinput.SetValue(value)
	f.textinput.CursorEnd()
}

func (f *FilterInput) Focus() tea.Cmd {
	return f.textinput.Focus()
}

func (f *FilterInput) Blur() {
	f.textinput.Blur()
}

func (f *FilterInput) Focused() bool {
	return f.textinput.Focused()
}

// SetWidth fits the input box beside its label.
func (f *FilterInput) SetWidth(width int) {
	f.width = width
	f.textinput.Width = max(width-lipgloss.Width(f.label)-6, minWidth)
}

// Width returns the width last set.
func (f *FilterInput) Width() int {
	return f.width
}

// Reset clears the text.
func (f *FilterInput) Reset() {
	f.textinput.Reset()
}
