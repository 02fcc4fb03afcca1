package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestRange_IsActive tests bound presence
func TestRange_IsActive(t *testing.T) {
	assert.False(t, Range{}.IsActive())
	assert.True(t, Range{Min: Float(0)}.IsActive())
	assert.True(t, Range{Max: Float(-3)}.IsActive())
	assert.True(t, NewRange(1, 2).IsActive())
}

// TestBandedRange_IsActive tests chip and raw activity
func TestBandedRange_IsActive(t *testing.T) {
	assert.False(t, BandedRange{}.IsActive())
	assert.False(t, BandedRange{Raw: []Range{{}}}.IsActive())
	assert.True(t, BandedRange{Bands: []BandKey{BandLow}}.IsActive())
	assert.True(t, BandedRange{Raw: []Range{{}, NewRange(10, 50)}}.IsActive())
}

// TestBandedRange_Advanced tests the advanced field accessor
func TestBandedRange_Advanced(t *testing.T) {
	assert.Equal(t, Range{}, BandedRange{}.Advanced())
	b := BandedRange{Raw: []Range{NewRange(10, 50), NewRange(-40, -20)}}
	assert.Equal(t, NewRange(10, 50), b.Advanced())
}

// TestBandedRange_ToggleBand tests chip toggling
func TestBandedRange_ToggleBand(t *testing.T) {
	var b BandedRange
	b.ToggleBand(BandHigh)
	b.ToggleBand(BandLow)
	assert.Equal(t, []BandKey{BandHigh, BandLow}, b.Bands)
	assert.True(t, b.HasBand(BandLow))

	b.ToggleBand(BandHigh)
	assert.Equal(t, []BandKey{BandLow}, b.Bands)
	assert.False(t, b.HasBand(BandHigh))
}

// TestFilterState_Clone tests copy independence
func TestFilterState_Clone(t *testing.T) {
	orig := FilterState{
		Vehicle:  []string{"car"},
		Speed:    NewRange(20, 80),
		Building: BandedRange{Bands: []BandKey{BandLow, BandHigh}, Raw: []Range{NewRange(5, 9)}},
	}
	c := orig.Clone()
	assert.Equal(t, orig, c)

	c.Vehicle[0] = "truck"
	*c.Speed.Max = 120
	c.Building.ToggleBand(BandLow)
	*c.Building.Raw[0].Min = 0

	assert.Equal(t, []string{"car"}, orig.Vehicle)
	assert.Equal(t, 80.0, *orig.Speed.Max)
	assert.Equal(t, []BandKey{BandLow, BandHigh}, orig.Building.Bands)
	assert.Equal(t, 5.0, *orig.Building.Raw[0].Min)
	assert.Equal(t, FilterState{}, FilterState{}.Clone())
}

// TestFilterState_ActiveFacets tests active facet detection
func TestFilterState_ActiveFacets(t *testing.T) {
	tests := []struct {
		name     string
		state    FilterState
		expected []string
	}{
		{
			name:     "zero value",
			state:    FilterState{},
			expected: nil,
		},
		{
			name:     "blank categorical entries do not count",
			state:    FilterState{Vehicle: []string{"", "  "}},
			expected: nil,
		},
		{
			name: "mixed kinds",
			state: FilterState{
				Confidence: BandedRange{Bands: []BandKey{BandHigh}},
				Speed:      Range{Min: Float(20)},
				Highway:    []string{"primary"},
			},
			expected: []string{"highway", "speed", "confidence"},
		},
		{
			name:     "raw steering only",
			state:    FilterState{Steering: BandedRange{Raw: []Range{NewRange(10, 50)}}},
			expected: []string{"steering"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.state.ActiveFacets())
			assert.Equal(t, len(tt.expected) > 0, tt.state.HasActive())
		})
	}
}

// TestFilterState_Clear tests reset
func TestFilterState_Clear(t *testing.T) {
	s := FilterState{Speed: NewRange(1, 2), Lanes: []string{"2"}}
	s.Clear()
	assert.False(t, s.HasActive())
	assert.Equal(t, FilterState{}, s)
}
