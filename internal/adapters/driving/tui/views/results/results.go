// Package results provides the panel results view for the TUI.
package results

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/acqscope/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/acqscope/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/acqscope/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/acqscope/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/acqscope/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/acqscope/internal/core/domain"
	"github.com/custodia-labs/acqscope/internal/core/ports/driving"
)

// ErrNoBrowseService indicates that no browse service was provided.
var ErrNoBrowseService = errors.New("browse service is required")

// View shows one panel page of the current search.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	list      *list.PanelList
	statusbar *status.Bar

	browse  driving.BrowseService
	images  driving.ImageService
	actions driving.PhotoActionService
	ctx     context.Context

	location domain.Location
	window   *domain.PanelWindow
	image    *domain.ImageResult
	request  int
	loading  bool
	err      error

	width  int
	height int
	ready  bool
}

// NewView creates a new results view. images and actions may be nil.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	browse driving.BrowseService,
	images driving.ImageService,
	actions driving.PhotoActionService,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles:    s,
		keymap:    km,
		list:      list.NewPanelList(s),
		statusbar: status.NewBar(s, km),
		browse:    browse,
		images:    images,
		actions:   actions,
		ctx:       context.Background(),
		width:     80,
		height:    24,
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Start begins a new search for state. Windows from earlier requests are
// discarded when they arrive.
func (v *View) Start(loc domain.Location, state domain.FilterState) tea.Cmd {
	v.location = loc
	v.window = nil
	v.image = nil
	v.list.SetPanels(nil, 0)
	return v.navigate(func(ctx context.Context) (*domain.PanelWindow, error) {
		return v.browse.Start(ctx, state)
	})
}

// navigate runs one browse call off the update loop.
func (v *View) navigate(call func(ctx context.Context) (*domain.PanelWindow, error)) tea.Cmd {
	if v.browse == nil {
		v.setError(ErrNoBrowseService)
		return nil
	}

	v.request++
	v.loading = true
	v.err = nil
	v.statusbar.SetState(status.StateLoading)
	v.statusbar.SetMessage("")

	request := v.request
	ctx := v.ctx
	fetch := func() tea.Msg {
		window, err := call(ctx)
		return messages.WindowLoaded{Request: request, Window: window, Err: err}
	}
	return tea.Batch(fetch, v.statusbar.Tick())
}

// Update handles messages for the results view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.WindowLoaded:
		v.handleWindowLoaded(msg)
		return v, nil

	case messages.ImageResolved:
		result := msg.Result
		v.image = &result
		return v, nil

	case messages.ErrorOccurred:
		v.setError(msg.Err)
		return v, nil

	case spinner.TickMsg:
		return v, v.statusbar.Update(msg)

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)
	}

	return v, nil
}

func (v *View) handleWindowLoaded(msg messages.WindowLoaded) {
	if msg.Request != v.request {
		return
	}
	v.loading = false

	if msg.Err != nil {
		if errors.Is(msg.Err, domain.ErrStaleSession) {
			return
		}
		v.setError(msg.Err)
		if v.window != nil {
			v.statusbar.SetPage(v.window.Cursor.PanelPage, v.window.TotalPages)
		}
		return
	}

	v.err = nil
	v.window = msg.Window
	v.image = nil
	offset := (msg.Window.Cursor.PanelPage - 1) * msg.Window.Cursor.PanelsPerPage
	v.list.SetPanels(msg.Window.Panels, offset)
	v.statusbar.SetPage(msg.Window.Cursor.PanelPage, msg.Window.TotalPages)
	v.statusbar.SetBuffered(msg.Window.Buffered)
	v.statusbar.SetMessage("")
	if msg.Window.Exhausted {
		v.statusbar.SetState(status.StateExhausted)
	} else {
		v.statusbar.SetState(status.StateResults)
	}
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	k := msg.String()

	switch {
	case keymap.Matches(k, v.keymap.Back):
		return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewBuilder} }
	case keymap.Matches(k, v.keymap.Help):
		return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewHelp} }
	case keymap.Matches(k, v.keymap.Quit):
		return v, func() tea.Msg { return messages.Quit{} }
	}

	if v.loading || v.browse == nil {
		return v, nil
	}

	switch {
	case keymap.Matches(k, v.keymap.NextPage):
		if v.window == nil || !v.window.HasNext {
			return v, nil
		}
		return v, v.navigate(v.browse.Next)
	case keymap.Matches(k, v.keymap.PrevPage):
		if v.window == nil || !v.window.HasPrev {
			return v, nil
		}
		return v, v.navigate(v.browse.Prev)
	case keymap.Matches(k, v.keymap.Retry):
		if v.err == nil {
			return v, nil
		}
		return v, v.navigate(v.browse.Retry)
	case keymap.Matches(k, v.keymap.Copy):
		v.copyLink()
		return v, nil
	case keymap.Matches(k, v.keymap.Open):
		v.openPhoto()
		return v, nil
	case keymap.Matches(k, v.keymap.Resolve):
		return v, v.resolveImage()
	}

	v.list, _ = v.list.Update(msg)
	v.image = nil
	return v, nil
}

func (v *View) copyLink() {
	photo := v.list.SelectedPhoto()
	if photo == nil {
		return
	}
	if v.actions == nil {
		v.statusbar.SetMessage("Copy not available")
		return
	}
	if err := v.actions.CopyLink(v.ctx, photo); err != nil {
		v.statusbar.SetMessage("Copy: " + err.Error())
		return
	}
	v.statusbar.SetMessage("Link copied")
}

func (v *View) openPhoto() {
	photo := v.list.SelectedPhoto()
	if photo == nil {
		return
	}
	if v.actions == nil {
		v.statusbar.SetMessage("Open not available")
		return
	}
	if err := v.actions.OpenPhoto(v.ctx, photo); err != nil {
		v.statusbar.SetMessage("Open: " + err.Error())
		return
	}
	v.statusbar.SetMessage("Opening photo...")
}

func (v *View) resolveImage() tea.Cmd {
	photo := v.list.SelectedPhoto()
	if photo == nil || v.images == nil {
		return nil
	}
	link := photo.URL
	ctx := v.ctx
	images := v.images
	return func() tea.Msg {
		return messages.ImageResolved{Result: images.Resolve(ctx, link)}
	}
}

func (v *View) setError(err error) {
	v.err = err
	v.statusbar.SetState(status.StateError)
	v.statusbar.SetMessage(err.Error())
}

// View renders the results.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 12)
	sections = append(sections, v.styles.Title.Render("acqscope · results"))
	if len(v.location.Query) > 0 {
		sections = append(sections, v.styles.Query.Render(v.location.Query.String()))
	}
	sections = append(sections, "")

	switch {
	case v.loading && v.window == nil:
		sections = append(sections, v.styles.Muted.Render("Searching..."))
	case v.window != nil && len(v.window.Panels) == 0:
		sections = append(sections, v.styles.Muted.Render("No results found."))
	case v.window != nil:
		sections = append(sections, v.styles.Muted.Render(fmt.Sprintf(
			"Matched %d acquisitions, %d seconds",
			v.window.Counts.Acquisitions, v.window.Counts.Seconds,
		)), "")
		sections = append(sections, v.list.View())
		if v.window.Exhausted {
			sections = append(sections, "", v.styles.Muted.Render("No more results."))
		}
	}

	if v.image != nil {
		sections = append(sections, "", v.renderImage())
	}

	if v.err != nil {
		sections = append(sections, "",
			v.styles.Error.Render("Error: "+v.err.Error()),
			v.styles.Muted.Render("Press r to retry."))
	}

	sections = append(sections, "", v.statusbar.View())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (v *View) renderImage() string {
	if v.image.Placeholder {
		return v.styles.Warning.Render(fmt.Sprintf(
			"Image unavailable (tried %d candidates)", len(v.image.Tried)))
	}
	return v.styles.Subtitle.Render("Image: ") + v.styles.Normal.Render(v.image.URL)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.statusbar.SetWidth(width)
	// Title, query, counts, status bar and spacing.
	v.list.SetDimensions(width, height-9)
}

// Ready returns whether the view has dimensions.
func (v *View) Ready() bool {
	return v.ready
}

// Window returns the panel page shown, or nil before the first load.
func (v *View) Window() *domain.PanelWindow {
	return v.window
}

// Loading reports whether a page request is in flight.
func (v *View) Loading() bool {
	return v.loading
}

// Err returns the last error shown.
func (v *View) Err() error {
	return v.err
}

// Image returns the last resolved image, if any.
func (v *View) Image() *domain.ImageResult {
	return v.image
}

// SelectedPhoto returns the highlighted photo.
func (v *View) SelectedPhoto() *domain.LinkDoc {
	return v.list.SelectedPhoto()
}
