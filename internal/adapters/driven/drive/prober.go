// Package drive checks Drive-hosted photos through the Drive metadata API
// before their candidate URLs are fetched.
package drive

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/custodia-labs/acqscope/internal/core/domain"
	"github.com/custodia-labs/acqscope/internal/core/ports/driven"
	"github.com/custodia-labs/acqscope/internal/logger"
)

// Ensure Prober implements the interface.
var _ driven.ImageProber = (*Prober)(nil)

// FileIDFunc extracts a Drive file id from a link.
type FileIDFunc func(link string) (string, bool)

// NewService creates a Drive API service authenticated with an API key.
func NewService(ctx context.Context, apiKey string, opts ...option.ClientOption) (*drive.Service, error) {
	all := append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	svc, err := drive.NewService(ctx, all...)
	if err != nil {
		return nil, fmt.Errorf("drive service: %w", err)
	}
	return svc, nil
}

// Prober rejects Drive files that are missing, trashed or not images, then
// defers to the next prober for the candidate URL itself. Metadata is looked
// up once per file id. Links without a file id go straight to next.
type Prober struct {
	files  *drive.FilesService
	fileID FileIDFunc
	next   driven.ImageProber

	mu      sync.Mutex
	verdict map[string]error
}

// NewProber creates a Drive-aware prober. next may be nil, in which case a
// file whose metadata checks out is accepted as-is.
func NewProber(svc *drive.Service, fileID FileIDFunc, next driven.ImageProber) *Prober {
	p := &Prober{fileID: fileID, next: next, verdict: make(map[string]error)}
	if svc != nil {
		p.files = svc.Files
	}
	return p
}

// Probe checks url.
func (p *Prober) Probe(ctx context.Context, url string) error {
	if id, ok := p.fileID(url); ok && p.files != nil {
		if err := p.check(ctx, id); err != nil {
			return err
		}
	}
	if p.next == nil {
		return nil
	}
	return p.next.Probe(ctx, url)
}

func (p *Prober) check(ctx context.Context, id string) error {
	p.mu.Lock()
	err, seen := p.verdict[id]
	p.mu.Unlock()
	if seen {
		return err
	}

	file, err := p.files.Get(id).
		Fields("id", "mimeType", "trashed").
		SupportsAllDrives(true).
		Context(ctx).
		Do()
	switch {
	case isNotFound(err):
		err = fmt.Errorf("%w: drive file %s not found", domain.ErrImageUnavailable, id)
	case err != nil:
		// Metadata is advisory; an unreachable API must not hide the photo.
		logger.Debug("drive: metadata for %s unavailable: %v", id, err)
		return nil
	case file.Trashed:
		err = fmt.Errorf("%w: drive file %s is trashed", domain.ErrImageUnavailable, id)
	case !strings.HasPrefix(file.MimeType, "image/"):
		err = fmt.Errorf("%w: drive file %s is %s", domain.ErrImageUnavailable, id, file.MimeType)
	}

	p.mu.Lock()
	p.verdict[id] = err
	p.mu.Unlock()
	return err
}

func isNotFound(err error) bool {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code == http.StatusNotFound
	}
	return false
}
