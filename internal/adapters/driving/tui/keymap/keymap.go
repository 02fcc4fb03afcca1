// Package keymap defines keybindings for the TUI.
package keymap

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines all keybindings for the TUI.
type KeyMap struct {
	// Quit exits the application.
	Quit key.Binding

	// Help shows the help view.
	Help key.Binding

	// Back returns to the previous view.
	Back key.Binding

	// Up navigates up in a list.
	Up key.Binding

	// Down navigates down in a list.
	Down key.Binding

	// Select confirms a selection or an input line.
	Select key.Binding

	// Complete fills the input with the selected facet key.
	Complete key.Binding

	// ClearFilters resets every facet.
	ClearFilters key.Binding

	// Settings opens the settings view.
	Settings key.Binding

	// ViewResults runs the search for the current filters.
	ViewResults key.Binding

	// NextPage moves one panel page forward.
	NextPage key.Binding

	// PrevPage moves one panel page back.
	PrevPage key.Binding

	// Retry re-requests a page whose fetch failed.
	Retry key.Binding

	// NextPhoto cycles the selected photo within a panel.
	NextPhoto key.Binding

	// Copy copies the selected photo link.
	Copy key.Binding

	// Open opens the selected photo in the browser.
	Open key.Binding

	// Resolve probes the selected photo's image candidates.
	Resolve key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "apply"),
		),
		Complete: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "edit facet"),
		),
		ClearFilters: key.NewBinding(
			key.WithKeys("ctrl+x"),
			key.WithHelp("ctrl+x", "clear"),
		),
		Settings: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "settings"),
		),
		ViewResults: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "view results"),
		),
		NextPage: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "next page"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "prev page"),
		),
		Retry: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "retry"),
		),
		NextPhoto: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next photo"),
		),
		Copy: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "copy link"),
		),
		Open: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "open"),
		),
		Resolve: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "image"),
		),
	}
}

// ShortHelp returns a short list of keybindings for the help view.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Quit, k.Help}
}

// BuilderHelp returns keybindings for the filter builder.
func (k *KeyMap) BuilderHelp() []key.Binding {
	return []key.Binding{k.Select, k.Complete, k.ViewResults, k.ClearFilters}
}

// ResultsHelp returns keybindings for the results view.
func (k *KeyMap) ResultsHelp() []key.Binding {
	return []key.Binding{k.PrevPage, k.NextPage, k.Copy, k.Open, k.Back}
}

// FullHelp returns the full list of keybindings for the help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select, k.Complete},
		{k.ViewResults, k.ClearFilters, k.Settings},
		{k.PrevPage, k.NextPage, k.Retry},
		{k.NextPhoto, k.Copy, k.Open, k.Resolve},
		{k.Back, k.Help, k.Quit},
	}
}

// Matches checks if a key string matches a binding.
func Matches(keyStr string, binding key.Binding) bool {
	for _, k := range binding.Keys() {
		if k == keyStr {
			return true
		}
	}
	return false
}
