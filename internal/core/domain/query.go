package domain

import (
	"net/url"
	"sort"
	"strings"
)

// Reserved request keys appended by the search client.
const (
	ParamPage    = "page"
	ParamPerPage = "per_page"
)

// QueryParams maps dotted facet keys (e.g. "c.v", "o.highway") to their
// serialised values. A missing key means the facet is unconstrained.
type QueryParams map[string]string

// ParseQueryParams parses a query string (with or without a leading "?").
// Later duplicates of a key are ignored; malformed pairs are skipped.
func ParseQueryParams(raw string) QueryParams {
	raw = strings.TrimPrefix(strings.TrimSpace(raw), "?")
	params := QueryParams{}
	if raw == "" {
		return params
	}
	for _, pair := range strings.Split(raw, "&") {
		if pair == "" {
			continue
		}
		k, v, _ := strings.Cut(pair, "=")
		key, err := url.QueryUnescape(k)
		if err != nil || key == "" {
			continue
		}
		value, err := url.QueryUnescape(v)
		if err != nil {
			continue
		}
		if _, seen := params[key]; !seen {
			params[key] = value
		}
	}
	return params
}

// Keys returns the keys in sorted order.
func (q QueryParams) Keys() []string {
	keys := make([]string, 0, len(q))
	for k := range q {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns an independent copy.
func (q QueryParams) Clone() QueryParams {
	out := make(QueryParams, len(q))
	for k, v := range q {
		out[k] = v
	}
	return out
}

// IsEmpty returns true if no key is present.
func (q QueryParams) IsEmpty() bool {
	return len(q) == 0
}

// String renders the params as a query string with sorted keys.
// Commas and dots stay readable; everything else is escaped.
func (q QueryParams) String() string {
	var b strings.Builder
	for i, k := range q.Keys() {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(escapeQueryComponent(k))
		b.WriteByte('=')
		b.WriteString(escapeQueryComponent(q[k]))
	}
	return b.String()
}

// Values converts to url.Values for use with net/http.
func (q QueryParams) Values() url.Values {
	v := make(url.Values, len(q))
	for k, val := range q {
		v.Set(k, val)
	}
	return v
}

func escapeQueryComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "%2C", ",")
}
