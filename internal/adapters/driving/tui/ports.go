// Package tui is the interactive terminal front end: a filter builder, a
// paged panel view and a settings editor, driven by the core services.
package tui

import (
	"errors"

	"github.com/custodia-labs/acqscope/internal/core/ports/driving"
)

var (
	ErrInvalidPorts         = errors.New("tui: no services supplied")
	ErrMissingFilterService = errors.New("tui: filter service is required")
	ErrMissingBrowseService = errors.New("tui: browse service is required")
)

// Ports are the services behind the views. Filters and Browse are
// required; a view whose optional service is nil shows it as unavailable.
type Ports struct {
	Filters  driving.FilterService
	Browse   driving.BrowseService
	Images   driving.ImageService
	Actions  driving.PhotoActionService
	Settings driving.SettingsService
}

// NewPorts returns Ports with only the required services set.
func NewPorts(filterService driving.FilterService, browse driving.BrowseService) *Ports {
	return &Ports{Filters: filterService, Browse: browse}
}

// Validate reports the first missing required service.
func (p *Ports) Validate() error {
	switch {
	case p == nil:
		return ErrInvalidPorts
	case p.Filters == nil:
		return ErrMissingFilterService
	case p.Browse == nil:
		return ErrMissingBrowseService
	}
	return nil
}
