package searchapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/custodia-labs/acqscope/internal/core/domain"
	"github.com/custodia-labs/acqscope/internal/core/ports/driven"
)

// Ensure Prober implements the interface.
var _ driven.ImageProber = (*Prober)(nil)

// Prober checks image URLs with a GET, accepting a 2xx image response.
type Prober struct {
	http *http.Client
}

// NewProber creates a prober. A nil client uses an instrumented default.
func NewProber(client *http.Client) *Prober {
	if client == nil {
		client = NewHTTPClient("")
	}
	return &Prober{http: client}
}

// Probe requests url and reports whether it serves an image.
// Only the response headers are inspected.
func (p *Prober) Probe(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrImageUnavailable, err)
	}
	req.Header.Set("Accept", "image/*")

	resp, err := p.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrImageUnavailable, err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: status %d", domain.ErrImageUnavailable, resp.StatusCode)
	}
	contentType := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(strings.ToLower(contentType), "image/") {
		return fmt.Errorf("%w: content type %q", domain.ErrImageUnavailable, contentType)
	}
	return nil
}
