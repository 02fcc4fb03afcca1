// Package builder provides the filter builder view for the TUI.
package builder

import (
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/acqscope/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/acqscope/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/acqscope/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/acqscope/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/acqscope/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/acqscope/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/acqscope/internal/core/domain"
	"github.com/custodia-labs/acqscope/internal/core/filters"
	"github.com/custodia-labs/acqscope/internal/core/ports/driving"
)

// ErrNoFilterService indicates that no filter service was provided.
var ErrNoFilterService = errors.New("filter service is required")

// View is the filter builder: a facet table plus a single edit line.
//
// The edit line accepts "key=value" for one facet or a query fragment
// ("c.v=20..&o.highway=primary") for several at once.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.FilterInput
	facets    *list.FacetList
	statusbar *status.Bar

	filterService driving.FilterService

	width    int
	height   int
	ready    bool
	hydrated bool
	err      error
}

// NewView creates a new builder view.
func NewView(s *styles.Styles, km *keymap.KeyMap, filterService driving.FilterService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	bar := status.NewBar(s, km)
	bar.SetState(status.StateBuilding)

	line := input.NewFilterInput(s)
	line.SetSuggestions(facetNames())

	return &View{
		styles:        s,
		keymap:        km,
		input:         line,
		facets:        list.NewFacetList(s),
		statusbar:     bar,
		filterService: filterService,
		width:         80,
		height:        24,
	}
}

// facetNames lists every key and alias the edit line completes.
func facetNames() []string {
	names := make([]string, 0, 2*len(filters.Facets))
	for _, f := range filters.Facets {
		names = append(names, f.Key, f.Name)
	}
	return names
}

// Init hydrates the facet table from the current location on first use.
func (v *View) Init() tea.Cmd {
	if v.filterService != nil && !v.hydrated {
		v.facets.SetState(v.filterService.Hydrate())
		v.hydrated = true
	}
	return v.input.Init()
}

// Refresh re-reads the filter state, e.g. after the location changed.
func (v *View) Refresh() {
	if v.filterService != nil {
		v.facets.SetState(v.filterService.State())
	}
}

// Update handles messages for the builder view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.ErrorOccurred:
		v.setError(msg.Err)
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up":
		v.facets.MoveUp()
		return v, nil
	case "down":
		v.facets.MoveDown()
		return v, nil
	case "tab":
		if !v.input.Complete() {
			v.input.SetValue(v.facets.SelectedFacet().Key + "=")
		}
		return v, nil
	case "esc":
		v.input.Reset()
		v.clearError()
		return v, nil
	case "enter":
		line := strings.TrimSpace(v.input.Value())
		if line == "" {
			return v, v.viewResults()
		}
		return v, v.apply(line)
	}

	if keymap.Matches(msg.String(), v.keymap.ViewResults) {
		return v, v.viewResults()
	}
	if keymap.Matches(msg.String(), v.keymap.ClearFilters) {
		return v, v.clear()
	}
	if keymap.Matches(msg.String(), v.keymap.Settings) {
		return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewSettings} }
	}
	if keymap.Matches(msg.String(), v.keymap.Help) && v.input.Value() == "" {
		return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewHelp} }
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// apply edits the filter state from one input line.
func (v *View) apply(line string) tea.Cmd {
	if v.filterService == nil {
		v.setError(ErrNoFilterService)
		return nil
	}

	var err error
	if strings.Contains(line, "&") || strings.HasPrefix(line, "?") {
		state := v.filterService.State()
		if err = filters.ApplyQuery(&state, strings.TrimPrefix(line, "?")); err == nil {
			err = v.filterService.Update(func(s *domain.FilterState) { *s = state })
		}
	} else {
		key, value, found := strings.Cut(line, "=")
		if !found {
			v.setError(errors.New("expected key=value"))
			return nil
		}
		err = v.filterService.Assign(key, value)
	}
	if err != nil {
		v.setError(err)
		return nil
	}

	v.input.Reset()
	return v.changed()
}

func (v *View) clear() tea.Cmd {
	if v.filterService == nil {
		v.setError(ErrNoFilterService)
		return nil
	}
	if err := v.filterService.Clear(); err != nil {
		v.setError(err)
		return nil
	}
	return v.changed()
}

// changed refreshes the table and announces the new location.
func (v *View) changed() tea.Cmd {
	v.clearError()
	v.Refresh()
	loc := domain.Location{Route: domain.RouteBuild, Query: v.filterService.Query()}
	return func() tea.Msg { return messages.FiltersChanged{Location: loc} }
}

// viewResults pushes the results location. It refuses an empty state.
func (v *View) viewResults() tea.Cmd {
	if v.filterService == nil {
		v.setError(ErrNoFilterService)
		return nil
	}
	loc, err := v.filterService.ViewResults()
	if err != nil {
		v.setError(err)
		return nil
	}
	v.clearError()
	state := v.filterService.State()
	return func() tea.Msg {
		return messages.ResultsRequested{Location: loc, State: state}
	}
}

func (v *View) setError(err error) {
	v.err = err
	v.statusbar.SetState(status.StateError)
	v.statusbar.SetMessage(err.Error())
}

func (v *View) clearError() {
	v.err = nil
	v.statusbar.SetState(status.StateBuilding)
	v.statusbar.SetMessage("")
}

// View renders the builder.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 10)
	sections = append(sections, v.styles.Title.Render("acqscope · filters"), "")
	sections = append(sections, v.input.View(), "")
	sections = append(sections, v.facets.View(), "")

	query := ""
	if v.filterService != nil {
		query = v.filterService.Query().String()
	}
	if query == "" {
		sections = append(sections, v.styles.Muted.Render("No active filters"))
	} else {
		sections = append(sections, v.styles.Subtitle.Render("Query: ")+v.styles.Query.Render(query))
	}

	if v.err != nil {
		sections = append(sections, "", v.styles.Error.Render("Error: "+v.err.Error()))
	}

	sections = append(sections, "", v.statusbar.View())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.input.SetWidth(width)
	v.statusbar.SetWidth(width)
	// Title, input, query line, status bar and spacing.
	v.facets.SetHeight(height - 10)
}

// Ready returns whether the view has dimensions.
func (v *View) Ready() bool {
	return v.ready
}

// Err returns the last error shown.
func (v *View) Err() error {
	return v.err
}

// Input returns the current edit line.
func (v *View) Input() string {
	return v.input.Value()
}

// SelectedFacet returns the highlighted facet.
func (v *View) SelectedFacet() filters.Facet {
	return v.facets.SelectedFacet()
}
