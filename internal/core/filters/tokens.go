// Package filters implements the query-string mini-language for filter
// selections: range tokens, chip-band resolution and the facet codec.
//
// Everything here is pure. Malformed input degrades to "unconstrained"
// instead of returning errors, so a hand-edited URL can never break the
// filter builder.
package filters

import (
	"math"
	"strconv"
	"strings"

	"github.com/custodia-labs/acqscope/internal/core/domain"
)

// RangeSeparator splits the two bounds of a range token.
const RangeSeparator = ".."

// Epsilon is the tolerance used when comparing bounds against band
// thresholds. Thresholds are floating-point percentiles.
const Epsilon = 0.01

// ToRangeToken serialises r as "min..max", "..max" or "min..".
// It returns false when both bounds are absent.
func ToRangeToken(r domain.Range) (string, bool) {
	if !r.IsActive() {
		return "", false
	}
	return formatBound(r.Min) + RangeSeparator + formatBound(r.Max), true
}

// ParseRangeToken parses a range token. An empty side yields an absent
// bound; non-numeric content also yields an absent bound. A token without
// the separator is treated as unconstrained.
func ParseRangeToken(token string) domain.Range {
	lo, hi, found := strings.Cut(strings.TrimSpace(token), RangeSeparator)
	if !found {
		return domain.Range{}
	}
	return domain.Range{Min: parseBound(lo), Max: parseBound(hi)}
}

// SplitList splits a comma-joined value, trimming items and dropping empties.
func SplitList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ApproxEq compares two numbers within Epsilon.
func ApproxEq(a, b float64) bool {
	return math.Abs(a-b) <= Epsilon
}

// BoundsEq reports whether two optional bounds are equal: both absent, or
// both present and within Epsilon.
func BoundsEq(a, b *float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return ApproxEq(*a, *b)
}

// RangesEq compares both bounds of two ranges with BoundsEq.
func RangesEq(a, b domain.Range) bool {
	return BoundsEq(a.Min, b.Min) && BoundsEq(a.Max, b.Max)
}

func formatBound(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func parseBound(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
