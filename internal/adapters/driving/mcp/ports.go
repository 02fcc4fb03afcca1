package mcp

import (
	"github.com/custodia-labs/acqscope/internal/core/ports/driving"
)

// Ports are the services the MCP tools call. Only Browse is required; a
// tool whose service is nil is not registered.
type Ports struct {
	Browse driving.BrowseService
	Images driving.ImageService
	Cache  driving.CacheService
}

// Validate reports a missing required service.
func (p *Ports) Validate() error {
	if p.Browse == nil {
		return ErrMissingBrowseService
	}
	return nil
}
