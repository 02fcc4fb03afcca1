package driven

import "github.com/custodia-labs/acqscope/internal/core/domain"

// ResponseNormaliser converts a raw search response into a SearchPage.
// It never fails: malformed or unknown payloads yield an empty page.
type ResponseNormaliser interface {
	// Normalise decodes body. perPage is the page size that was requested,
	// used when the payload omits its own.
	Normalise(body []byte, page, perPage int) domain.SearchPage
}

// ResponseShape recognises one payload layout.
// Shapes are tried in descending priority; the first match extracts.
type ResponseShape interface {
	// Name identifies the shape in logs.
	Name() string

	// Priority returns the selection priority (higher = tried first).
	// Specific shapes should return 50-100; fallbacks 1-9.
	Priority() int

	// Match reports whether doc has this layout.
	Match(doc map[string]any) bool

	// Extract returns the link documents of doc and the raw item count
	// seen (before links were filtered).
	Extract(doc map[string]any) ([]domain.LinkDoc, int)
}
