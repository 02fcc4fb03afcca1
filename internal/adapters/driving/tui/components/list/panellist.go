// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/acqscope/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/acqscope/internal/core/domain"
)

// PanelList displays acquisition panels with a selected panel and a
// selected photo within it.
type PanelList struct {
	panels   []domain.Panel
	offset   int
	selected int
	photo    int
	styles   *styles.Styles
	width    int
	height   int
}

// NewPanelList creates a new panel list component.
func NewPanelList(s *styles.Styles) *PanelList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &PanelList{
		styles: s,
		width:  80,
		height: 10,
	}
}

// Init initialises the panel list.
func (p *PanelList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (p *PanelList) Update(msg tea.Msg) (*PanelList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			p.MoveUp()
		case "down", "j":
			p.MoveDown()
		case "tab":
			p.NextPhoto()
		}
	}
	return p, nil
}

// View renders the panel list.
func (p *PanelList) View() string {
	if len(p.panels) == 0 {
		return p.styles.Muted.Render("No results")
	}

	// Each panel takes a header line plus one line per photo.
	lines := make([]string, 0, len(p.panels)*4)
	used := 0
	start := p.firstVisible()
	for i := start; i < len(p.panels); i++ {
		block := p.renderPanel(i, &p.panels[i])
		h := strings.Count(block, "\n") + 1
		if used > 0 && used+h > p.height {
			break
		}
		lines = append(lines, block)
		used += h
	}

	return strings.Join(lines, "\n")
}

// firstVisible scrolls so the selected panel is on screen.
func (p *PanelList) firstVisible() int {
	perPanel := 2
	if len(p.panels) > 0 {
		perPanel = len(p.panels[0].Photos) + 2
	}
	visible := p.height / perPanel
	if visible < 1 {
		visible = 1
	}
	if p.selected >= visible {
		return p.selected - visible + 1
	}
	return 0
}

// renderPanel formats one acquisition panel.
func (p *PanelList) renderPanel(index int, panel *domain.Panel) string {
	header := fmt.Sprintf("%d. %s", p.offset+index+1, panel.AcquisitionID)
	count := fmt.Sprintf("%d photos", panel.TotalPhotos)
	if panel.TotalPhotos == 1 {
		count = "1 photo"
	}

	lines := make([]string, 0, len(panel.Photos)+1)
	if index == p.selected {
		lines = append(lines, p.styles.Selected.Render(header)+"  "+p.styles.Muted.Render(count))
	} else {
		lines = append(lines, p.styles.Normal.Render(header)+"  "+p.styles.Muted.Render(count))
	}

	maxURL := p.width - 16
	if maxURL < 20 {
		maxURL = 20
	}
	for j, photo := range panel.Photos {
		link := photo.URL
		if len(link) > maxURL {
			link = link[:maxURL-3] + "..."
		}
		line := fmt.Sprintf("%6s  %s", SecondLabel(photo), link)
		if index == p.selected && j == p.photo {
			lines = append(lines, p.styles.Subtitle.Render("> "+line))
		} else {
			lines = append(lines, p.styles.Muted.Render("  "+line))
		}
	}

	block := strings.Join(lines, "\n")
	if index == p.selected {
		return p.styles.ActivePanel.Render(block)
	}
	return p.styles.Panel.Render(block)
}

// SecondLabel renders the offset of a photo. Photos without one show "-",
// never second 0.
func SecondLabel(photo domain.LinkDoc) string {
	if photo.Second == nil {
		return "-"
	}
	return fmt.Sprintf("%ds", *photo.Second)
}

// SetPanels replaces the panels. offset is the index of the first panel
// across all pages, used for numbering.
func (p *PanelList) SetPanels(panels []domain.Panel, offset int) {
	p.panels = panels
	p.offset = offset
	p.selected = 0
	p.photo = 0
}

// Panels returns the current panels.
func (p *PanelList) Panels() []domain.Panel {
	return p.panels
}

// Selected returns the index of the selected panel.
func (p *PanelList) Selected() int {
	return p.selected
}

// SelectedPanel returns the selected panel, or nil if none.
func (p *PanelList) SelectedPanel() *domain.Panel {
	if p.selected < 0 || p.selected >= len(p.panels) {
		return nil
	}
	return &p.panels[p.selected]
}

// SelectedPhoto returns the selected photo of the selected panel, or nil.
func (p *PanelList) SelectedPhoto() *domain.LinkDoc {
	panel := p.SelectedPanel()
	if panel == nil || p.photo < 0 || p.photo >= len(panel.Photos) {
		return nil
	}
	return &panel.Photos[p.photo]
}

// MoveUp moves selection up.
func (p *PanelList) MoveUp() {
	if p.selected > 0 {
		p.selected--
		p.photo = 0
	}
}

// MoveDown moves selection down.
func (p *PanelList) MoveDown() {
	if p.selected < len(p.panels)-1 {
		p.selected++
		p.photo = 0
	}
}

// NextPhoto cycles the selected photo within the selected panel.
func (p *PanelList) NextPhoto() {
	panel := p.SelectedPanel()
	if panel == nil || len(panel.Photos) == 0 {
		return
	}
	p.photo = (p.photo + 1) % len(panel.Photos)
}

// SetDimensions sets the component dimensions.
func (p *PanelList) SetDimensions(width, height int) {
	p.width = width
	p.height = height
}

// Count returns the number of panels.
func (p *PanelList) Count() int {
	return len(p.panels)
}

// IsEmpty returns whether the list is empty.
func (p *PanelList) IsEmpty() bool {
	return len(p.panels) == 0
}
