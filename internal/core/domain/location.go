package domain

import "strings"

// Route distinguishes the filter builder from the results view.
// Both share the same query-string grammar.
type Route string

const (
	// RouteBuild is the filter builder view.
	RouteBuild Route = "/build"

	// RouteResults is the results view.
	RouteResults Route = "/results"
)

// IsValid returns true if the route is recognised.
func (r Route) IsValid() bool {
	return r == RouteBuild || r == RouteResults
}

// Location is the navigable state: a route plus its query string.
// It is the only persisted representation of a FilterState.
type Location struct {
	Route Route
	Query QueryParams
}

// String renders the location as "/route?query".
func (l Location) String() string {
	route := l.Route
	if !route.IsValid() {
		route = RouteBuild
	}
	if len(l.Query) == 0 {
		return string(route)
	}
	return string(route) + "?" + l.Query.String()
}

// ParseLocation reads a full URL, a path with query, or a bare query string.
// The route is matched on the path suffix, so hash-style paths ("/#/results")
// work too. Unknown routes fall back to the builder.
func ParseLocation(raw string) Location {
	raw = strings.TrimSpace(raw)
	path, query, found := strings.Cut(raw, "?")
	if !found && strings.Contains(raw, "=") && !strings.Contains(raw, "/") {
		path, query = "", raw
	}

	route := RouteBuild
	if strings.HasSuffix(strings.TrimRight(path, "/"), string(RouteResults)) {
		route = RouteResults
	}

	return Location{Route: route, Query: ParseQueryParams(query)}
}
