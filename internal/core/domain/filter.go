package domain

import (
	"slices"
	"strings"
)

// Range is a numeric interval with optional bounds.
// A nil bound is unbounded on that side; both nil means the facet is inactive.
type Range struct {
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

// Float returns a pointer to v, for building Range literals.
func Float(v float64) *float64 {
	return &v
}

// NewRange creates a range with both bounds set.
func NewRange(minValue, maxValue float64) Range {
	return Range{Min: Float(minValue), Max: Float(maxValue)}
}

// IsActive returns true if at least one bound is set.
func (r Range) IsActive() bool {
	return r.Min != nil || r.Max != nil
}

// Clone returns a copy that shares no bound pointers with r.
func (r Range) Clone() Range {
	var c Range
	if r.Min != nil {
		c.Min = Float(*r.Min)
	}
	if r.Max != nil {
		c.Max = Float(*r.Max)
	}
	return c
}

// BandKey identifies a discrete chip band (e.g. "low", "straight").
type BandKey string

// Common band keys for percentile-style tables.
const (
	BandLow  BandKey = "low"
	BandMid  BandKey = "mid"
	BandHigh BandKey = "high"
)

// Steering direction band keys.
const (
	BandSharpLeft   BandKey = "sharp_left"
	BandLeft        BandKey = "left"
	BandSlightLeft  BandKey = "slight_left"
	BandStraight    BandKey = "straight"
	BandSlightRight BandKey = "slight_right"
	BandRight       BandKey = "right"
	BandSharpRight  BandKey = "sharp_right"
)

// BandedRange is a facet selected either through chip bands or through
// advanced raw ranges. Both contribute to the outbound range union.
type BandedRange struct {
	// Bands are the selected chips, resolved through a threshold table.
	Bands []BandKey `json:"bands,omitempty"`

	// Raw are advanced ranges that match no chip. Raw[0] is the one
	// surfaced in the advanced numeric field.
	Raw []Range `json:"raw,omitempty"`
}

// IsActive returns true if any band or active raw range is selected.
func (b BandedRange) IsActive() bool {
	if len(b.Bands) > 0 {
		return true
	}
	for _, r := range b.Raw {
		if r.IsActive() {
			return true
		}
	}
	return false
}

// Advanced returns the first raw range, or an inactive range.
func (b BandedRange) Advanced() Range {
	if len(b.Raw) == 0 {
		return Range{}
	}
	return b.Raw[0]
}

// HasBand reports whether key is selected.
func (b BandedRange) HasBand(key BandKey) bool {
	for _, k := range b.Bands {
		if k == key {
			return true
		}
	}
	return false
}

// Clone returns a copy whose slices are independent of b.
func (b BandedRange) Clone() BandedRange {
	c := BandedRange{Bands: slices.Clone(b.Bands)}
	if b.Raw != nil {
		c.Raw = make([]Range, len(b.Raw))
		for i, r := range b.Raw {
			c.Raw[i] = r.Clone()
		}
	}
	return c
}

// ToggleBand selects key if absent, deselects it otherwise.
func (b *BandedRange) ToggleBand(key BandKey) {
	for i, k := range b.Bands {
		if k == key {
			b.Bands = append(b.Bands[:i], b.Bands[i+1:]...)
			return
		}
	}
	b.Bands = append(b.Bands, key)
}

// FilterState holds every selected filter facet.
// The zero value is the empty state: no facet constrains the search.
type FilterState struct {
	// Acquisition facets.
	Vehicle   []string `json:"vehicle,omitempty"`
	Period    []string `json:"period,omitempty"`
	Condition []string `json:"condition,omitempty"`

	// Dynamics facets.
	Speed    Range       `json:"speed"`
	Steering BandedRange `json:"steering"`

	// Road (OSM) facets.
	Highway   []string `json:"highway,omitempty"`
	Landuse   []string `json:"landuse,omitempty"`
	Lanes     []string `json:"lanes,omitempty"`
	Oneway    []string `json:"oneway,omitempty"`
	Surface   []string `json:"surface,omitempty"`
	Sidewalk  []string `json:"sidewalk,omitempty"`
	Cycleway  []string `json:"cycleway,omitempty"`
	LaneLeft  []string `json:"lane_left,omitempty"`
	LaneRight []string `json:"lane_right,omitempty"`

	// Scene segmentation facets.
	Building   BandedRange `json:"building"`
	Vegetation BandedRange `json:"vegetation"`

	// Perception (object detection) facets.
	ObjectClass      []string    `json:"object_class,omitempty"`
	RelativePosition []string    `json:"relative_position,omitempty"`
	ObjectDistance   Range       `json:"object_distance"`
	Confidence       BandedRange `json:"confidence"`
}

// Clone returns a deep copy. Mutating the copy never changes f.
func (f FilterState) Clone() FilterState {
	return FilterState{
		Vehicle:          slices.Clone(f.Vehicle),
		Period:           slices.Clone(f.Period),
		Condition:        slices.Clone(f.Condition),
		Speed:            f.Speed.Clone(),
		Steering:         f.Steering.Clone(),
		Highway:          slices.Clone(f.Highway),
		Landuse:          slices.Clone(f.Landuse),
		Lanes:            slices.Clone(f.Lanes),
		Oneway:           slices.Clone(f.Oneway),
		Surface:          slices.Clone(f.Surface),
		Sidewalk:         slices.Clone(f.Sidewalk),
		Cycleway:         slices.Clone(f.Cycleway),
		LaneLeft:         slices.Clone(f.LaneLeft),
		LaneRight:        slices.Clone(f.LaneRight),
		Building:         f.Building.Clone(),
		Vegetation:       f.Vegetation.Clone(),
		ObjectClass:      slices.Clone(f.ObjectClass),
		RelativePosition: slices.Clone(f.RelativePosition),
		ObjectDistance:   f.ObjectDistance.Clone(),
		Confidence:       f.Confidence.Clone(),
	}
}

// Clear resets every facet to its inactive value.
func (f *FilterState) Clear() {
	*f = FilterState{}
}

// HasActive returns true if any facet constrains the search.
func (f FilterState) HasActive() bool {
	return len(f.ActiveFacets()) > 0
}

// ActiveFacets returns the names of the facets that constrain the search:
// categorical facets first, then ranges, then banded facets.
func (f FilterState) ActiveFacets() []string {
	var active []string
	lists := []struct {
		name   string
		values []string
	}{
		{"vehicle", f.Vehicle},
		{"period", f.Period},
		{"condition", f.Condition},
		{"highway", f.Highway},
		{"landuse", f.Landuse},
		{"lanes", f.Lanes},
		{"oneway", f.Oneway},
		{"surface", f.Surface},
		{"sidewalk", f.Sidewalk},
		{"cycleway", f.Cycleway},
		{"lane_left", f.LaneLeft},
		{"lane_right", f.LaneRight},
		{"object_class", f.ObjectClass},
		{"relative_position", f.RelativePosition},
	}
	for _, l := range lists {
		if hasValue(l.values) {
			active = append(active, l.name)
		}
	}
	if f.Speed.IsActive() {
		active = append(active, "speed")
	}
	if f.ObjectDistance.IsActive() {
		active = append(active, "object_distance")
	}
	banded := []struct {
		name string
		b    BandedRange
	}{
		{"steering", f.Steering},
		{"building", f.Building},
		{"vegetation", f.Vegetation},
		{"confidence", f.Confidence},
	}
	for _, b := range banded {
		if b.b.IsActive() {
			active = append(active, b.name)
		}
	}
	return active
}

// hasValue ignores blank entries so that [""] does not count as a constraint.
func hasValue(values []string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return true
		}
	}
	return false
}
