package searchapi

import (
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/acqscope/internal/core/domain"
)

// StatusError is a non-2xx response from the search endpoint.
type StatusError struct {
	StatusCode int
	URL        string
	// Body holds the start of the response body, for diagnostics.
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("search api: status %d (URL: %s)", e.StatusCode, e.URL)
	}
	return fmt.Sprintf("search api: status %d: %s (URL: %s)", e.StatusCode, e.Body, e.URL)
}

// Unwrap lets errors.Is match domain.ErrUpstream.
func (e *StatusError) Unwrap() error {
	return domain.ErrUpstream
}

// RateLimitError is a 429 response, with the time requests may resume.
type RateLimitError struct {
	ResetAt   time.Time
	Remaining int
	Limit     int
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("search api: rate limit exceeded, resets at %s", e.ResetAt.Format(time.RFC3339))
}

// Unwrap lets errors.Is match both domain.ErrRateLimited and domain.ErrUpstream.
func (e *RateLimitError) Unwrap() []error {
	return []error{domain.ErrRateLimited, domain.ErrUpstream}
}

// IsRateLimited checks if the error indicates rate limiting.
func IsRateLimited(err error) bool {
	var rateLimitErr *RateLimitError
	return errors.As(err, &rateLimitErr)
}

// IsUnauthorized checks if the error indicates a rejected token.
func IsUnauthorized(err error) bool {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode == 401 || statusErr.StatusCode == 403
	}
	return false
}
