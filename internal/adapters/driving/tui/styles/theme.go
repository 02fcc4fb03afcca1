// Package styles provides the colour palette and lipgloss styles for the TUI.
package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme is the TUI palette. Colours adapt to light and dark terminals.
type Theme struct {
	Primary    lipgloss.AdaptiveColor
	Secondary  lipgloss.AdaptiveColor
	Background lipgloss.AdaptiveColor
	Foreground lipgloss.AdaptiveColor
	Muted      lipgloss.AdaptiveColor
	Success    lipgloss.AdaptiveColor
	Warning    lipgloss.AdaptiveColor
	Error      lipgloss.AdaptiveColor
	Border     lipgloss.AdaptiveColor

	// Groups colours facet chips by the group prefix of their key
	// ("a" acquisition, "c" dynamics, "o" road, "s" scene, "y" perception).
	Groups map[string]lipgloss.AdaptiveColor
}

func adaptive(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

// DefaultTheme returns the amber-on-stone palette.
func DefaultTheme() *Theme {
	return &Theme{
		Primary:    adaptive("#B45309", "#F59E0B"),
		Secondary:  adaptive("#0F766E", "#14B8A6"),
		Background: adaptive("#FAFAF9", "#1C1917"),
		Foreground: adaptive("#1C1917", "#E7E5E4"),
		Muted:      adaptive("#A8A29E", "#78716C"),
		Success:    adaptive("#4D7C0F", "#84CC16"),
		Warning:    adaptive("#A16207", "#FACC15"),
		Error:      adaptive("#B91C1C", "#EF4444"),
		Border:     adaptive("#D6D3D1", "#44403C"),
		Groups: map[string]lipgloss.AdaptiveColor{
			"a": adaptive("#1D4ED8", "#60A5FA"),
			"c": adaptive("#7E22CE", "#C084FC"),
			"o": adaptive("#0F766E", "#2DD4BF"),
			"s": adaptive("#15803D", "#4ADE80"),
			"y": adaptive("#BE123C", "#FB7185"),
		},
	}
}

// Styles holds the styles built from a Theme.
type Styles struct {
	theme *Theme

	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Normal   lipgloss.Style
	Muted    lipgloss.Style
	Selected lipgloss.Style
	Error    lipgloss.Style
	Success  lipgloss.Style
	Warning  lipgloss.Style

	// Query renders the encoded query string.
	Query lipgloss.Style

	// Chip renders a facet value with no known group.
	Chip lipgloss.Style

	InputField lipgloss.Style

	// Panel and ActivePanel frame one acquisition in the results list.
	Panel       lipgloss.Style
	ActivePanel lipgloss.Style

	StatusBar lipgloss.Style
	Help      lipgloss.Style
	Border    lipgloss.Style

	chips map[string]lipgloss.Style
}

// NewStyles builds styles from theme, or from DefaultTheme when nil.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}

	chip := lipgloss.NewStyle().Foreground(theme.Background).Padding(0, 1)
	s := &Styles{
		theme:    theme,
		Title:    lipgloss.NewStyle().Bold(true).Foreground(theme.Primary),
		Subtitle: lipgloss.NewStyle().Bold(true).Foreground(theme.Secondary),
		Normal:   lipgloss.NewStyle().Foreground(theme.Foreground),
		Muted:    lipgloss.NewStyle().Foreground(theme.Muted),
		Selected: lipgloss.NewStyle().Bold(true).
			Foreground(theme.Background).
			Background(theme.Primary),
		Error:   lipgloss.NewStyle().Foreground(theme.Error),
		Success: lipgloss.NewStyle().Foreground(theme.Success),
		Warning: lipgloss.NewStyle().Foreground(theme.Warning),
		Query:   lipgloss.NewStyle().Foreground(theme.Secondary),
		Chip:    chip.Background(theme.Secondary),
		InputField: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 1),
		Panel: lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderLeft(true).
			BorderForeground(theme.Border).
			PaddingLeft(1),
		ActivePanel: lipgloss.NewStyle().
			BorderStyle(lipgloss.ThickBorder()).
			BorderLeft(true).
			BorderForeground(theme.Primary).
			PaddingLeft(1),
		StatusBar: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Background(adaptive("#E7E5E4", "#0C0A09")).
			Padding(0, 1),
		Help: lipgloss.NewStyle().Foreground(theme.Muted),
		Border: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border),
		chips: make(map[string]lipgloss.Style, len(theme.Groups)),
	}
	for group, colour := range theme.Groups {
		s.chips[group] = chip.Background(colour)
	}
	return s
}

// DefaultStyles returns styles with the default theme.
func DefaultStyles() *Styles {
	return NewStyles(DefaultTheme())
}

// Theme returns the theme used by these styles.
func (s *Styles) Theme() *Theme {
	return s.theme
}

// FacetChip returns the chip style for a dotted facet key such as "c.v".
func (s *Styles) FacetChip(key string) lipgloss.Style {
	group, _, ok := strings.Cut(key, ".")
	if !ok {
		return s.Chip
	}
	if style, found := s.chips[group]; found {
		return style
	}
	return s.Chip
}
