package services

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/custodia-labs/acqscope/internal/core/domain"
	"github.com/custodia-labs/acqscope/internal/core/ports/driven"
	"github.com/custodia-labs/acqscope/internal/core/ports/driving"
	"github.com/custodia-labs/acqscope/internal/logger"
)

// Ensure ImageService implements the interface.
var _ driving.ImageService = (*ImageService)(nil)

// Candidate URL templates for storage-hosted files, in fallback order.
const (
	thumbnailURL = "https://drive.google.com/thumbnail?id=%s&sz=w640"
	previewURL   = "https://drive.google.com/uc?export=view&id=%s"
	fullURL      = "https://lh3.googleusercontent.com/d/%s"
)

// File id patterns, tried in order.
var fileIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`/file/d/([A-Za-z0-9_-]{10,})`),
	regexp.MustCompile(`/d/([A-Za-z0-9_-]{10,})`),
	regexp.MustCompile(`[?&]id=([A-Za-z0-9_-]{10,})`),
}

// ImageService resolves photo links to loadable image URLs.
type ImageService struct {
	prober  driven.ImageProber
	timeout time.Duration
}

// NewImageService creates a new image service.
// prober may be nil, in which case the first candidate is returned unchecked.
// A zero timeout uses domain.DefaultImageTimeout.
func NewImageService(prober driven.ImageProber, timeout time.Duration) *ImageService {
	if timeout <= 0 {
		timeout = domain.DefaultImageTimeout
	}
	return &ImageService{prober: prober, timeout: timeout}
}

// FileID extracts a storage-provider file id from link.
// Only Google storage hosts are considered.
func FileID(link string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(link))
	if err != nil || !isStorageHost(u.Hostname()) {
		return "", false
	}
	for _, re := range fileIDPatterns {
		if m := re.FindStringSubmatch(link); m != nil {
			return m[1], true
		}
	}
	return "", false
}

func isStorageHost(host string) bool {
	host = strings.ToLower(host)
	return host == "drive.google.com" ||
		host == "docs.google.com" ||
		strings.HasSuffix(host, ".googleusercontent.com") ||
		strings.HasSuffix(host, ".usercontent.google.com")
}

// Candidates returns thumbnail, preview, full and raw forms of link,
// de-duplicated. Links without a file id yield only the raw link.
func (s *ImageService) Candidates(link string) []string {
	return Candidates(link)
}

// Candidates is the package-level form of ImageService.Candidates.
func Candidates(link string) []string {
	link = strings.TrimSpace(link)
	if link == "" {
		return nil
	}
	id, ok := FileID(link)
	if !ok {
		return []string{link}
	}

	forms := []string{
		fmt.Sprintf(thumbnailURL, id),
		fmt.Sprintf(previewURL, id),
		fmt.Sprintf(fullURL, id),
		link,
	}
	seen := make(map[string]bool, len(forms))
	out := forms[:0]
	for _, f := range forms {
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	return out
}

// Resolve probes the candidates in order and returns the first that loads.
// When every candidate fails, or the timeout elapses first, the result is
// a placeholder. Failures are logged, never returned.
func (s *ImageService) Resolve(ctx context.Context, link string) domain.ImageResult {
	result := domain.ImageResult{Original: link, Tried: []string{}}
	candidates := Candidates(link)
	if len(candidates) == 0 {
		result.Placeholder = true
		return result
	}
	if s.prober == nil {
		result.URL = candidates[0]
		result.Tried = candidates[:1]
		return result
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	for _, c := range candidates {
		if ctx.Err() != nil {
			logger.Debug("images: %s timed out after %d candidates", link, len(result.Tried))
			break
		}
		result.Tried = append(result.Tried, c)
		if err := s.prober.Probe(ctx, c); err != nil {
			logger.Debug("images: candidate %s failed: %v", c, err)
			continue
		}
		result.URL = c
		return result
	}

	result.Placeholder = true
	return result
}
