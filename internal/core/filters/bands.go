package filters

import (
	"strings"

	"github.com/custodia-labs/acqscope/internal/core/domain"
)

// Band is one chip of a threshold table.
type Band struct {
	Key   domain.BandKey
	Label string
	Range domain.Range
}

// Token returns the canonical range token of the band.
func (b Band) Token() string {
	token, _ := ToRangeToken(b.Range)
	return token
}

// BandTable is an ordered threshold table. Table order is the canonical
// serialisation order.
type BandTable struct {
	Name  string
	Bands []Band
}

// Lookup returns the band for key.
func (t BandTable) Lookup(key domain.BandKey) (Band, bool) {
	for _, b := range t.Bands {
		if b.Key == key {
			return b, true
		}
	}
	return Band{}, false
}

// Keys returns the band keys in canonical order.
func (t BandTable) Keys() []domain.BandKey {
	keys := make([]domain.BandKey, len(t.Bands))
	for i, b := range t.Bands {
		keys[i] = b.Key
	}
	return keys
}

// percentileTable builds a low/mid/high table split at p25 and p75.
func percentileTable(name string, p25, p75 float64) BandTable {
	return BandTable{
		Name: name,
		Bands: []Band{
			{Key: domain.BandLow, Label: "Low", Range: domain.Range{Max: domain.Float(p25)}},
			{Key: domain.BandMid, Label: "Mid", Range: domain.NewRange(p25, p75)},
			{Key: domain.BandHigh, Label: "High", Range: domain.Range{Min: domain.Float(p75)}},
		},
	}
}

// Threshold tables for the banded facets.
var (
	// BuildingTable splits building coverage (%) at its dataset p25/p75.
	BuildingTable = percentileTable("building", 0, 28.72)

	// VegetationTable splits vegetation coverage (%) at its dataset p25/p75.
	VegetationTable = percentileTable("vegetation", 3.41, 37.86)

	// ConfidenceTable splits detector confidence at fixed thirds.
	ConfidenceTable = percentileTable("confidence", 0.33, 0.66)

	// SteeringTable classifies steering angle in degrees. Negative is left;
	// the bands are not symmetric around zero.
	SteeringTable = BandTable{
		Name: "steering",
		Bands: []Band{
			{Key: domain.BandSharpLeft, Label: "Sharp left", Range: domain.Range{Max: domain.Float(-60)}},
			{Key: domain.BandLeft, Label: "Left", Range: domain.NewRange(-60, -15)},
			{Key: domain.BandSlightLeft, Label: "Slight left", Range: domain.NewRange(-15, -3)},
			{Key: domain.BandStraight, Label: "Straight", Range: domain.NewRange(-3, 3)},
			{Key: domain.BandSlightRight, Label: "Slight right", Range: domain.NewRange(3, 12)},
			{Key: domain.BandRight, Label: "Right", Range: domain.NewRange(12, 50)},
			{Key: domain.BandSharpRight, Label: "Sharp right", Range: domain.Range{Min: domain.Float(50)}},
		},
	}
)

// BandsToRangeUnion serialises the selected bands as comma-joined range
// tokens in table order. Unknown keys are ignored and duplicates collapse,
// so the output is independent of selection order.
func BandsToRangeUnion(selected []domain.BandKey, table BandTable) string {
	if len(selected) == 0 {
		return ""
	}
	chosen := make(map[domain.BandKey]bool, len(selected))
	for _, k := range selected {
		chosen[k] = true
	}
	tokens := make([]string, 0, len(selected))
	for _, b := range table.Bands {
		if chosen[b.Key] {
			tokens = append(tokens, b.Token())
		}
	}
	return strings.Join(tokens, ",")
}

// RangeUnionToBands splits a range union and matches each sub-token against
// the table. Matched bands are returned in table order; sub-tokens matching
// no band are returned as leftover raw ranges in input order. Sub-tokens
// that parse to no bound at all are dropped.
func RangeUnionToBands(token string, table BandTable) ([]domain.BandKey, []domain.Range) {
	matched := make(map[domain.BandKey]bool)
	var leftovers []domain.Range

	for _, sub := range SplitList(token) {
		r := ParseRangeToken(sub)
		if !r.IsActive() {
			continue
		}
		if key, ok := matchBand(r, table); ok {
			matched[key] = true
			continue
		}
		leftovers = append(leftovers, r)
	}

	var bands []domain.BandKey
	for _, b := range table.Bands {
		if matched[b.Key] {
			bands = append(bands, b.Key)
		}
	}
	return bands, leftovers
}

func matchBand(r domain.Range, table BandTable) (domain.BandKey, bool) {
	for _, b := range table.Bands {
		if RangesEq(r, b.Range) {
			return b.Key, true
		}
	}
	return "", false
}

// ParseBandKeys parses a comma list of band keys, keeping only those the
// table knows. Keys are matched case-insensitively; "-" is accepted for "_".
func ParseBandKeys(value string, table BandTable) []domain.BandKey {
	var keys []domain.BandKey
	for _, item := range SplitList(value) {
		key := domain.BandKey(strings.ReplaceAll(strings.ToLower(item), "-", "_"))
		if _, ok := table.Lookup(key); ok {
			keys = append(keys, key)
		}
	}
	return keys
}
