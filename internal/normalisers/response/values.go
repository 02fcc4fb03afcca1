package response

import (
	"encoding/json"
	"math"
	"net/url"
	"path"
	"strconv"
	"strings"
)

// Field aliases accepted across shapes.
var (
	linkKeys        = []string{"link", "url", "image_url", "src"}
	secondKeys      = []string{"second", "sec", "second_offset", "t"}
	acquisitionKeys = []string{"acquisition_id", "acquisition", "acq_id"}
	extensionKeys   = []string{"extension", "ext"}
)

// lookup returns the first present, non-null value among keys.
func lookup(m map[string]any, keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// asMap returns v as an object.
func asMap(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

// asList returns v as an array.
func asList(v any) ([]any, bool) {
	l, ok := v.([]any)
	return l, ok
}

// asString coerces strings and numbers to a trimmed string.
func asString(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		s := strings.TrimSpace(t)
		return s, s != ""
	case json.Number:
		return t.String(), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	}
	return "", false
}

// asFloat coerces JSON numbers and numeric strings.
func asFloat(v any) (float64, bool) {
	var f float64
	var err error
	switch t := v.(type) {
	case json.Number:
		f, err = t.Float64()
	case float64:
		f = t
	case string:
		f, err = strconv.ParseFloat(strings.TrimSpace(t), 64)
	default:
		return 0, false
	}
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// asInt coerces to an integer, truncating fractional values.
func asInt(v any) (int, bool) {
	f, ok := asFloat(v)
	if !ok {
		return 0, false
	}
	return int(f), true
}

// asBool accepts booleans, "true"/"false" strings and numbers.
func asBool(v any) (bool, bool) {
	switch t := v.(type) {
	case bool:
		return t, true
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(t))
		return b, err == nil
	}
	if f, ok := asFloat(v); ok {
		return f != 0, true
	}
	return false, false
}

// lookupString returns the first key that coerces to a non-empty string.
func lookupString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := asString(m[k]); ok {
			return s
		}
	}
	return ""
}

// lookupInt returns the first key that coerces to an integer.
func lookupInt(m map[string]any, keys ...string) (int, bool) {
	for _, k := range keys {
		if n, ok := asInt(m[k]); ok {
			return n, true
		}
	}
	return 0, false
}

// extensionOf derives a lowercase extension from a URL path, e.g. "jpg".
// Query strings and fragments are ignored; implausible suffixes yield "".
func extensionOf(link string) string {
	p := link
	if u, err := url.Parse(link); err == nil {
		p = u.Path
	}
	ext := strings.TrimPrefix(strings.ToLower(path.Ext(p)), ".")
	if ext == "" || len(ext) > 5 {
		return ""
	}
	for _, r := range ext {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ""
		}
	}
	return ext
}
