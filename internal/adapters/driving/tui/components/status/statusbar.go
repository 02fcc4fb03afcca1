// Package status renders the one-line footer shared by the builder and
// results views.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/acqscope/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/acqscope/internal/adapters/driving/tui/styles"
)

// State selects what the left side of the bar shows and which key hints
// appear on the right.
type State string

const (
	StateReady     State = "ready"
	StateBuilding  State = "building"
	StateLoading   State = "loading"
	StateError     State = "error"
	StateResults   State = "results"
	StateExhausted State = "exhausted"
)

const separator = " · "

// Bar is the footer. While loading it animates a spinner; call Tick when
// entering StateLoading and route spinner.TickMsg through Update.
type Bar struct {
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	help    help.Model
	spinner spinner.Model

	state      State
	message    string
	page       int
	totalPages int
	buffered   int
	width      int
}

// NewBar creates a bar in StateReady. Nil arguments fall back to defaults.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	h := help.New()
	h.ShortSeparator = " | "
	h.Styles.ShortKey = s.Muted
	h.Styles.ShortDesc = s.Muted
	h.Styles.ShortSeparator = s.Muted

	sp := spinner.New(spinner.WithSpinner(spinner.MiniDot), spinner.WithStyle(s.Muted))

	return &Bar{
		styles:  s,
		keymap:  km,
		help:    h,
		spinner: sp,
		state:   StateReady,
		width:   80,
	}
}

// Tick starts the spinner animation.
func (s *Bar) Tick() tea.Cmd {
	return s.spinner.Tick
}

// Update advances the spinner. Ticks arriving after loading finished are
// dropped, which stops the animation.
func (s *Bar) Update(msg tea.Msg) tea.Cmd {
	tick, ok := msg.(spinner.TickMsg)
	if !ok || s.state != StateLoading {
		return nil
	}
	var cmd tea.Cmd
	s.spinner, cmd = s.spinner.Update(tick)
	return cmd
}

// View renders the bar padded to its width.
func (s *Bar) View() string {
	left := s.status()
	right := s.hints()

	gap := s.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return s.styles.StatusBar.Width(s.width).Render(left + strings.Repeat(" ", gap) + right)
}

func (s *Bar) status() string {
	if s.state == StateError {
		if s.message == "" {
			return s.styles.Error.Render("Error")
		}
		return s.styles.Error.Render("Error: " + s.message)
	}

	var parts []string
	switch s.state {
	case StateLoading:
		parts = append(parts, s.spinner.View()+" "+s.styles.Muted.Render("Searching"))
	case StateResults, StateExhausted:
		parts = append(parts, s.styles.Normal.Render(s.pageLabel()))
		if s.buffered > 0 {
			parts = append(parts, s.styles.Muted.Render(fmt.Sprintf("%d acquisitions", s.buffered)))
		}
		if s.state == StateExhausted {
			parts = append(parts, s.styles.Muted.Render("end of results"))
		}
	case StateBuilding:
		parts = append(parts, s.styles.Muted.Render("Edit filters"))
	default:
		parts = append(parts, s.styles.Muted.Render("Ready"))
	}
	if s.message != "" {
		parts = append(parts, s.styles.Muted.Render(s.message))
	}
	return strings.Join(parts, s.styles.Muted.Render(separator))
}

// pageLabel shows "Page 2 of 5+" while more acquisitions may arrive.
func (s *Bar) pageLabel() string {
	if s.state == StateResults {
		return fmt.Sprintf("Page %d of %d+", s.page, s.totalPages)
	}
	return fmt.Sprintf("Page %d of %d", s.page, s.totalPages)
}

func (s *Bar) hints() string {
	var bindings []key.Binding
	switch s.state {
	case StateResults, StateExhausted:
		bindings = s.keymap.ResultsHelp()
	case StateError:
		bindings = []key.Binding{s.keymap.Retry, s.keymap.Back}
	case StateBuilding:
		bindings = s.keymap.BuilderHelp()
	default:
		bindings = s.keymap.ShortHelp()
	}
	return s.help.ShortHelpView(bindings)
}

// SetState switches the displayed state.
func (s *Bar) SetState(state State) {
	s.state = state
}

// State returns the displayed state.
func (s *Bar) State() State {
	return s.state
}

// SetMessage sets a transient note shown after the state.
func (s *Bar) SetMessage(message string) {
	s.message = message
}

// Message returns the transient note.
func (s *Bar) Message() string {
	return s.message
}

// SetPage sets the panel page and the number of pages known so far.
func (s *Bar) SetPage(page, total int) {
	s.page = page
	s.totalPages = total
}

// Page returns the panel page and the known page count.
func (s *Bar) Page() (int, int) {
	return s.page, s.totalPages
}

// SetBuffered sets how many acquisitions the session has fetched.
func (s *Bar) SetBuffered(n int) {
	s.buffered = n
}

// SetWidth sets the rendered width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// Clear returns the bar to StateReady with no page or note.
func (s *Bar) Clear() {
	s.state = StateReady
	s.message = ""
	s.page = 0
	s.totalPages = 0
	s.buffered = 0
}
