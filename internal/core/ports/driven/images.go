package driven

import "context"

// ImageProber checks whether an image URL can be loaded.
type ImageProber interface {
	// Probe returns nil if url serves an image.
	Probe(ctx context.Context, url string) error
}
