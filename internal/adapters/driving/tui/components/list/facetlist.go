package list

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/acqscope/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/acqscope/internal/core/domain"
	"github.com/custodia-labs/acqscope/internal/core/filters"
)

// FacetList shows every facet with its current value.
type FacetList struct {
	state    domain.FilterState
	selected int
	styles   *styles.Styles
	height   int
}

// NewFacetList creates a new facet list component.
func NewFacetList(s *styles.Styles) *FacetList {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &FacetList{styles: s, height: len(filters.Facets)}
}

// SetState updates the values shown.
func (f *FacetList) SetState(state domain.FilterState) {
	f.state = state
}

// View renders the facet table.
func (f *FacetList) View() string {
	start := 0
	if f.height > 0 && f.selected >= f.height {
		start = f.selected - f.height + 1
	}
	end := len(filters.Facets)
	if f.height > 0 && start+f.height < end {
		end = start + f.height
	}

	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		facet := filters.Facets[i]
		value, active := facet.Value(f.state)
		label := fmt.Sprintf("%-14s %-18s", facet.Key, facet.Name)

		var line string
		if i == f.selected {
			line = f.styles.Selected.Render("> " + label)
		} else {
			line = f.styles.Normal.Render("  " + label)
		}
		if active {
			line += " " + f.renderValue(facet, value)
		} else if facet.Table != nil {
			line += " " + f.styles.Muted.Render(strings.Join(bandKeys(facet.Table), " "))
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (f *FacetList) renderValue(facet filters.Facet, value string) string {
	if facet.Kind != filters.KindBanded {
		return f.styles.FacetChip(facet.Key).Render(value)
	}
	bands, raw := filters.RangeUnionToBands(value, *facet.Table)
	labels := filters.BandLabels(domain.BandedRange{Bands: bands, Raw: raw})
	chips := make([]string, len(labels))
	for i, l := range labels {
		chips[i] = f.styles.FacetChip(facet.Key).Render(l)
	}
	return strings.Join(chips, " ")
}

func bandKeys(table *filters.BandTable) []string {
	keys := make([]string, len(table.Bands))
	for i, b := range table.Bands {
		keys[i] = string(b.Key)
	}
	return keys
}

// SelectedFacet returns the highlighted facet.
func (f *FacetList) SelectedFacet() filters.Facet {
	return filters.Facets[f.selected]
}

// Selected returns the highlighted index.
func (f *FacetList) Selected() int {
	return f.selected
}

// MoveUp moves selection up.
func (f *FacetList) MoveUp() {
	if f.selected > 0 {
		f.selected--
	}
}

// MoveDown moves selection down.
func (f *FacetList) MoveDown() {
	if f.selected < len(filters.Facets)-1 {
		f.selected++
	}
}

// SetHeight sets the number of visible rows.
func (f *FacetList) SetHeight(height int) {
	if height < 1 {
		height = 1
	}
	f.height = height
}
