package driven

import (
	"context"

	"github.com/custodia-labs/acqscope/internal/core/domain"
)

// SearchAPI fetches raw result pages from the acquisition search endpoint.
type SearchAPI interface {
	// FetchPage issues GET <endpoint>?<params>&page=<page>&per_page=<perPage>
	// and returns the undecoded response body.
	// Non-2xx responses are returned as errors wrapping domain.ErrUpstream
	// (or domain.ErrRateLimited for 429).
	FetchPage(ctx context.Context, params domain.QueryParams, page, perPage int) ([]byte, error)
}
