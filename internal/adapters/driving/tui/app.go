package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/acqscope/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/acqscope/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/acqscope/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/acqscope/internal/adapters/driving/tui/views/builder"
	"github.com/custodia-labs/acqscope/internal/adapters/driving/tui/views/results"
	"github.com/custodia-labs/acqscope/internal/adapters/driving/tui/views/settings"
	"github.com/custodia-labs/acqscope/internal/core/domain"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	styles *styles.Styles
	keymap *keymap.KeyMap
	help   help.Model

	builderView  *builder.View
	resultsView  *results.View
	settingsView *settings.View

	// currentView tracks which view is active.
	currentView messages.ViewType

	// previousView is restored when help is closed.
	previousView messages.ViewType

	// location is the last location announced by the builder or results.
	location domain.Location

	// openResults starts on the results view when filters are active.
	openResults bool

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	h := help.New()
	h.ShowAll = true

	return &App{
		ports:        ports,
		ctx:          context.Background(),
		styles:       s,
		keymap:       km,
		help:         h,
		builderView:  builder.NewView(s, km, ports.Filters),
		resultsView:  results.NewView(s, km, ports.Browse, ports.Images, ports.Actions),
		settingsView: settings.NewView(s, ports.Settings),
		currentView:  messages.ViewBuilder,
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.resultsView.WithContext(ctx)
	return a
}

// WithResults makes the app open on the results view when the hydrated
// location already carries active filters.
func (a *App) WithResults(open bool) *App {
	a.openResults = open
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.SetWindowTitle("acqscope"),
		a.builderView.Init(),
	}

	state := a.ports.Filters.State()
	a.location = domain.Location{Route: domain.RouteBuild, Query: a.ports.Filters.Query()}
	if a.openResults && state.HasActive() {
		loc := domain.Location{Route: domain.RouteResults, Query: a.location.Query}
		cmds = append(cmds, func() tea.Msg {
			return messages.ResultsRequested{Location: loc, State: state}
		})
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
//
//nolint:gocyclo // central message handler
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		return a, a.updateCurrent(msg)

	case messages.ViewChanged:
		return a, a.switchView(msg.View)

	case messages.FiltersChanged:
		a.location = msg.Location
		return a, nil

	case messages.ResultsRequested:
		a.location = msg.Location
		a.currentView = messages.ViewResults
		return a, a.resultsView.Start(msg.Location, msg.State)

	case messages.WindowLoaded, messages.ImageResolved:
		a.resultsView, cmd = a.resultsView.Update(msg)
		a.err = a.resultsView.Err()
		return a, cmd

	case messages.SettingsLoaded, messages.SettingsSaved, messages.SettingsChanged:
		a.settingsView, cmd = a.settingsView.Update(msg)
		return a, cmd

	case messages.ErrorOccurred:
		a.err = msg.Err
		return a, a.updateCurrent(msg)

	case messages.Quit:
		return a, tea.Quit
	}

	return a, a.updateCurrent(msg)
}

// updateCurrent forwards msg to the active view.
func (a *App) updateCurrent(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch a.currentView {
	case messages.ViewBuilder:
		a.builderView, cmd = a.builderView.Update(msg)
	case messages.ViewResults:
		a.resultsView, cmd = a.resultsView.Update(msg)
	case messages.ViewSettings:
		a.settingsView, cmd = a.settingsView.Update(msg)
	case messages.ViewHelp:
		if k, ok := msg.(tea.KeyMsg); ok {
			if keymap.Matches(k.String(), a.keymap.Back) || keymap.Matches(k.String(), a.keymap.Help) {
				a.currentView = a.previousView
			}
		}
	}
	return cmd
}

func (a *App) switchView(view messages.ViewType) tea.Cmd {
	if view == messages.ViewHelp {
		if a.currentView != messages.ViewHelp {
			a.previousView = a.currentView
		}
		a.currentView = view
		return nil
	}

	a.currentView = view
	switch view {
	case messages.ViewBuilder:
		a.builderView.Refresh()
		a.location = domain.Location{Route: domain.RouteBuild, Query: a.ports.Filters.Query()}
	case messages.ViewSettings:
		a.settingsView.Reset()
		return a.settingsView.Init()
	case messages.ViewResults, messages.ViewHelp:
	}
	return nil
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewResults:
		return a.resultsView.View()
	case messages.ViewSettings:
		return a.settingsView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	default:
		return a.builderView.View()
	}
}

// viewHelp renders the help view.
func (a *App) viewHelp() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		a.styles.Title.Render("Help"),
		"",
		a.help.View(a.keymap),
		"",
		a.styles.Muted.Render("Filters: type key=value and press enter, e.g. speed=20.. or s.building=low,high."),
		a.styles.Muted.Render("Several at once: c.v=20..&o.highway=primary"),
		"",
		a.styles.Help.Render("[esc] back"),
	)
}

// NewProgram wraps the app in a Bubbletea program using the alt screen.
func (a *App) NewProgram() *tea.Program {
	return tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
}

// Run starts the TUI application.
func (a *App) Run() error {
	_, err := a.NewProgram().Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Location returns the last known location.
func (a *App) Location() domain.Location {
	return a.location
}

// Window returns the panel page shown in the results view.
func (a *App) Window() *domain.PanelWindow {
	return a.resultsView.Window()
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.help.Width = width
	a.builderView.SetDimensions(width, height)
	a.resultsView.SetDimensions(width, height)
	a.settingsView.SetDimensions(width, height)
}
