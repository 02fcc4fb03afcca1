package services

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"

	"github.com/atotto/clipboard"

	"github.com/custodia-labs/acqscope/internal/core/domain"
	"github.com/custodia-labs/acqscope/internal/core/ports/driving"
)

// Operating system identifiers.
const (
	osDarwin  = "darwin"
	osLinux   = "linux"
	osWindows = "windows"
)

// Ensure PhotoActionService implements the interface.
var _ driving.PhotoActionService = (*PhotoActionService)(nil)

// PhotoActionService provides actions on displayed photos.
type PhotoActionService struct {
	copy func(text string) error
	open func(url string) error
}

// NewPhotoActionService creates a new photo action service using the system
// clipboard and browser.
func NewPhotoActionService() *PhotoActionService {
	return &PhotoActionService{
		copy: clipboard.WriteAll,
		open: openURL,
	}
}

// CopyLink copies the photo's original link to the system clipboard.
func (s *PhotoActionService) CopyLink(_ context.Context, photo *domain.LinkDoc) error {
	if photo == nil || photo.URL == "" {
		return fmt.Errorf("%w: photo has no link", domain.ErrInvalidInput)
	}
	if err := s.copy(photo.URL); err != nil {
		return fmt.Errorf("copy link: %w", err)
	}
	return nil
}

// OpenPhoto opens the photo in the default browser. Storage-hosted links
// open in their preview form; other links open as-is.
func (s *PhotoActionService) OpenPhoto(_ context.Context, photo *domain.LinkDoc) error {
	if photo == nil || photo.URL == "" {
		return fmt.Errorf("%w: photo has no link", domain.ErrInvalidInput)
	}
	return s.open(openableURL(photo.URL))
}

// openableURL picks the preview candidate when one exists.
func openableURL(link string) string {
	candidates := Candidates(link)
	if len(candidates) > 1 {
		return candidates[1]
	}
	return link
}

// openURL opens url with the platform's default handler.
func openURL(url string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case osDarwin:
		cmd = exec.Command("open", url)
	case osLinux:
		cmd = exec.Command("xdg-open", url)
	case osWindows:
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	return cmd.Start()
}
