package driving

import (
	"context"

	"github.com/custodia-labs/acqscope/internal/core/domain"
)

// PhotoActionService provides actions on displayed photos.
// This is used by TUI and CLI adapters.
type PhotoActionService interface {
	// CopyLink copies the photo's original link to the system clipboard.
	CopyLink(ctx context.Context, photo *domain.LinkDoc) error

	// OpenPhoto opens the photo's preview URL in the default browser.
	OpenPhoto(ctx context.Context, photo *domain.LinkDoc) error
}
