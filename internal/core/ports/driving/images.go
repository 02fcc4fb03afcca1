package driving

import (
	"context"

	"github.com/custodia-labs/acqscope/internal/core/domain"
)

// ImageService resolves displayable image URLs for link documents.
type ImageService interface {
	// Candidates returns the ordered fallback URLs for a media link.
	Candidates(url string) []string

	// Resolve tries the candidates in order and returns the first that loads,
	// or a placeholder result. It never returns an error.
	Resolve(ctx context.Context, url string) domain.ImageResult
}
