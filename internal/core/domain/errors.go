package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// Search Errors.

	// ErrNoActiveFilters indicates a search was requested without any constraint.
	// Unconstrained searches would scan the full dataset and are refused locally.
	ErrNoActiveFilters = errors.New("select at least one filter before viewing results")

	// ErrNoSession indicates paging was requested before a search was started.
	ErrNoSession = errors.New("no search in progress")

	// ErrStaleSession indicates a fetch completed after its search was replaced.
	// The response is discarded and never merged into the newer search.
	ErrStaleSession = errors.New("search session was replaced")

	// ErrSearchUnavailable indicates the search endpoint is not configured.
	ErrSearchUnavailable = errors.New("search endpoint not configured")

	// Upstream Errors.

	// ErrUpstream indicates the search API returned a failure status.
	ErrUpstream = errors.New("search API error")

	// ErrRateLimited indicates the API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")

	// ErrImageUnavailable indicates no image candidate could be loaded.
	ErrImageUnavailable = errors.New("image unavailable")
)
