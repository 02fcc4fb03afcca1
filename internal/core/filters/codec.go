package filters

import (
	"fmt"
	"sort"
	"strings"

	"github.com/custodia-labs/acqscope/internal/core/domain"
)

// Kind is the serialisation kind of a facet.
type Kind int

const (
	// KindList is a categorical multi-select, serialised as a comma list.
	KindList Kind = iota
	// KindRange is a numeric interval, serialised as one range token.
	KindRange
	// KindBanded is a chip-band selection plus raw ranges, serialised as a
	// range union.
	KindBanded
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindList:
		return "list"
	case KindRange:
		return "range"
	case KindBanded:
		return "banded"
	default:
		return "unknown"
	}
}

// Facet describes one filter facet and how it maps onto FilterState.
type Facet struct {
	// Key is the dotted query key.
	Key string
	// Name is the human-facing facet name, also accepted as an alias.
	Name string
	// Kind selects the serialisation.
	Kind Kind
	// Table is set for banded facets.
	Table *BandTable

	list   func(*domain.FilterState) *[]string
	rng    func(*domain.FilterState) *domain.Range
	banded func(*domain.FilterState) *domain.BandedRange
}

func listFacet(key, name string, field func(*domain.FilterState) *[]string) Facet {
	return Facet{Key: key, Name: name, Kind: KindList, list: field}
}

func rangeFacet(key, name string, field func(*domain.FilterState) *domain.Range) Facet {
	return Facet{Key: key, Name: name, Kind: KindRange, rng: field}
}

func bandedFacet(key, name string, table *BandTable, field func(*domain.FilterState) *domain.BandedRange) Facet {
	return Facet{Key: key, Name: name, Kind: KindBanded, Table: table, banded: field}
}

// Facets is the facet key table, in display order.
var Facets = []Facet{
	listFacet("a.vehicle", "vehicle", func(f *domain.FilterState) *[]string { return &f.Vehicle }),
	listFacet("a.period", "period", func(f *domain.FilterState) *[]string { return &f.Period }),
	listFacet("a.condition", "condition", func(f *domain.FilterState) *[]string { return &f.Condition }),
	rangeFacet("c.v", "speed", func(f *domain.FilterState) *domain.Range { return &f.Speed }),
	bandedFacet("c.steer", "steering", &SteeringTable, func(f *domain.FilterState) *domain.BandedRange { return &f.Steering }),
	listFacet("o.highway", "highway", func(f *domain.FilterState) *[]string { return &f.Highway }),
	listFacet("o.landuse", "landuse", func(f *domain.FilterState) *[]string { return &f.Landuse }),
	listFacet("o.lanes", "lanes", func(f *domain.FilterState) *[]string { return &f.Lanes }),
	listFacet("o.oneway", "oneway", func(f *domain.FilterState) *[]string { return &f.Oneway }),
	listFacet("o.surface", "surface", func(f *domain.FilterState) *[]string { return &f.Surface }),
	listFacet("o.sidewalk", "sidewalk", func(f *domain.FilterState) *[]string { return &f.Sidewalk }),
	listFacet("o.cycleway", "cycleway", func(f *domain.FilterState) *[]string { return &f.Cycleway }),
	listFacet("o.lane_left", "lane_left", func(f *domain.FilterState) *[]string { return &f.LaneLeft }),
	listFacet("o.lane_right", "lane_right", func(f *domain.FilterState) *[]string { return &f.LaneRight }),
	bandedFacet("s.building", "building", &BuildingTable, func(f *domain.FilterState) *domain.BandedRange { return &f.Building }),
	bandedFacet("s.vegetation", "vegetation", &VegetationTable, func(f *domain.FilterState) *domain.BandedRange { return &f.Vegetation }),
	listFacet("y.class", "object_class", func(f *domain.FilterState) *[]string { return &f.ObjectClass }),
	listFacet("y.pos", "relative_position", func(f *domain.FilterState) *[]string { return &f.RelativePosition }),
	rangeFacet("y.dist", "object_distance", func(f *domain.FilterState) *domain.Range { return &f.ObjectDistance }),
	bandedFacet("y.conf", "confidence", &ConfidenceTable, func(f *domain.FilterState) *domain.BandedRange { return &f.Confidence }),
}

// LookupFacet finds a facet by dotted key or by name.
func LookupFacet(keyOrName string) (Facet, bool) {
	needle := strings.ToLower(strings.TrimSpace(keyOrName))
	needle = strings.ReplaceAll(needle, "-", "_")
	for _, f := range Facets {
		if f.Key == needle || f.Name == needle {
			return f, true
		}
	}
	return Facet{}, false
}

// Encode serialises every active facet. Inactive facets are omitted, never
// emitted as empty strings.
func Encode(state domain.FilterState) domain.QueryParams {
	params := domain.QueryParams{}
	for _, f := range Facets {
		if value, ok := f.encode(&state); ok {
			params[f.Key] = value
		}
	}
	return params
}

// Decode rebuilds a FilterState from params. Unknown keys are ignored.
// Banded facets are reconstructed as chips first; sub-tokens matching no
// chip become raw ranges.
func Decode(params domain.QueryParams) domain.FilterState {
	var state domain.FilterState
	for _, f := range Facets {
		if value, ok := params[f.Key]; ok {
			f.decode(&state, value)
		}
	}
	return state
}

// Value returns the serialised value of one facet of state.
func (f Facet) Value(state domain.FilterState) (string, bool) {
	return f.encode(&state)
}

func (f Facet) encode(state *domain.FilterState) (string, bool) {
	switch f.Kind {
	case KindList:
		values := normaliseList(*f.list(state))
		if len(values) == 0 {
			return "", false
		}
		return strings.Join(values, ","), true
	case KindRange:
		return ToRangeToken(*f.rng(state))
	case KindBanded:
		value := encodeBanded(*f.banded(state), *f.Table)
		return value, value != ""
	}
	return "", false
}

func (f Facet) decode(state *domain.FilterState, value string) {
	switch f.Kind {
	case KindList:
		*f.list(state) = normaliseList(SplitList(value))
	case KindRange:
		items := SplitList(value)
		if len(items) == 0 {
			*f.rng(state) = domain.Range{}
			return
		}
		*f.rng(state) = ParseRangeToken(items[0])
	case KindBanded:
		bands, raw := RangeUnionToBands(value, *f.Table)
		*f.banded(state) = domain.BandedRange{Bands: bands, Raw: raw}
	}
}

// encodeBanded folds raw ranges that equal a chip into the chip selection
// and drops duplicate raw ranges, so the output is already canonical.
func encodeBanded(b domain.BandedRange, table BandTable) string {
	bands := append([]domain.BandKey(nil), b.Bands...)
	var raw []domain.Range
	for _, r := range b.Raw {
		if !r.IsActive() {
			continue
		}
		if key, ok := matchBand(r, table); ok {
			bands = append(bands, key)
			continue
		}
		if containsRange(raw, r) {
			continue
		}
		raw = append(raw, r)
	}

	tokens := make([]string, 0, len(bands)+len(raw))
	if union := BandsToRangeUnion(bands, table); union != "" {
		tokens = append(tokens, union)
	}
	for _, r := range raw {
		token, _ := ToRangeToken(r)
		tokens = append(tokens, token)
	}
	return strings.Join(tokens, ",")
}

func containsRange(list []domain.Range, r domain.Range) bool {
	for _, existing := range list {
		if RangesEq(existing, r) {
			return true
		}
	}
	return false
}

// normaliseList splits embedded commas, trims, de-duplicates and sorts.
func normaliseList(values []string) []string {
	seen := make(map[string]bool, len(values))
	var out []string
	for _, v := range values {
		for _, item := range SplitList(v) {
			if !seen[item] {
				seen[item] = true
				out = append(out, item)
			}
		}
	}
	sort.Strings(out)
	return out
}

// Assign edits a single facet of state through the codec. An empty value
// clears the facet. For banded facets the value may mix chip keys and range
// tokens (e.g. "low,high" or "straight,10..50").
func Assign(state *domain.FilterState, keyOrName, value string) error {
	f, ok := LookupFacet(keyOrName)
	if !ok {
		return fmt.Errorf("%w: unknown filter %q", domain.ErrInvalidInput, keyOrName)
	}

	params := Encode(*state)
	value = strings.TrimSpace(value)
	if f.Kind == KindBanded {
		value = expandBandKeys(value, *f.Table)
	}
	if value == "" {
		delete(params, f.Key)
	} else {
		params[f.Key] = value
	}

	next := Decode(params)
	// Only the edited facet changes; everything else keeps its exact form.
	f.copyField(state, &next)
	return nil
}

// ApplyQuery merges a query-string fragment ("c.v=20..&o.highway=primary")
// into state, one facet at a time. Unknown keys are reported.
func ApplyQuery(state *domain.FilterState, fragment string) error {
	params := domain.ParseQueryParams(fragment)
	for _, key := range params.Keys() {
		if err := Assign(state, key, params[key]); err != nil {
			return err
		}
	}
	return nil
}

func (f Facet) copyField(dst, src *domain.FilterState) {
	switch f.Kind {
	case KindList:
		*f.list(dst) = *f.list(src)
	case KindRange:
		*f.rng(dst) = *f.rng(src)
	case KindBanded:
		*f.banded(dst) = *f.banded(src)
	}
}

func expandBandKeys(value string, table BandTable) string {
	items := SplitList(value)
	for i, item := range items {
		key := domain.BandKey(strings.ReplaceAll(strings.ToLower(item), "-", "_"))
		if b, ok := table.Lookup(key); ok {
			items[i] = b.Token()
		}
	}
	return strings.Join(items, ",")
}

// FacetValue is one active facet and its serialised value.
type FacetValue struct {
	Facet Facet
	Value string
}

// Describe lists the active facets of state in display order.
func Describe(state domain.FilterState) []FacetValue {
	var out []FacetValue
	for _, f := range Facets {
		if value, ok := f.encode(&state); ok {
			out = append(out, FacetValue{Facet: f, Value: value})
		}
	}
	return out
}

// BandLabels returns the chip keys of a banded facet value, for display.
// Raw ranges are rendered as their tokens.
func BandLabels(b domain.BandedRange) []string {
	labels := make([]string, 0, len(b.Bands)+len(b.Raw))
	for _, k := range b.Bands {
		labels = append(labels, string(k))
	}
	for _, r := range b.Raw {
		if token, ok := ToRangeToken(r); ok {
			labels = append(labels, token)
		}
	}
	return labels
}
