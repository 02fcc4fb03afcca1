package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestParseQueryParams tests query string parsing
func TestParseQueryParams(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected QueryParams
	}{
		{"empty", "", QueryParams{}},
		{"leading question mark", "?c.v=20..", QueryParams{"c.v": "20.."}},
		{"escaped comma", "o.highway=primary%2Ctrunk", QueryParams{"o.highway": "primary,trunk"}},
		{"first duplicate wins", "a.vehicle=x&a.vehicle=y", QueryParams{"a.vehicle": "x"}},
		{"empty pairs skipped", "&&y.conf=0.66..&", QueryParams{"y.conf": "0.66.."}},
		{"missing value", "o.oneway", QueryParams{"o.oneway": ""}},
		{"malformed escape skipped", "a=%zz&b=1", QueryParams{"b": "1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseQueryParams(tt.raw))
		})
	}
}

// TestQueryParams_String tests canonical rendering
func TestQueryParams_String(t *testing.T) {
	q := QueryParams{
		"y.conf":    "0.66..",
		"c.v":       "20..",
		"o.highway": "primary,trunk",
		"a.vehicle": "zoe & co",
	}
	assert.Equal(t, "a.vehicle=zoe+%26+co&c.v=20..&o.highway=primary,trunk&y.conf=0.66..", q.String())
	assert.Equal(t, q, ParseQueryParams(q.String()))
	assert.Equal(t, "", QueryParams{}.String())
}

// TestQueryParams_Clone tests copy independence
func TestQueryParams_Clone(t *testing.T) {
	q := QueryParams{"c.v": "20.."}
	c := q.Clone()
	c["c.v"] = "30.."
	assert.Equal(t, "20..", q["c.v"])
	assert.True(t, QueryParams{}.IsEmpty())
	assert.False(t, q.IsEmpty())
}

// TestQueryParams_Values tests url.Values conversion
func TestQueryParams_Values(t *testing.T) {
	v := QueryParams{"c.v": "20..", ParamPage: "2"}.Values()
	assert.Equal(t, "20..", v.Get("c.v"))
	assert.Equal(t, "2", v.Get("page"))
}
