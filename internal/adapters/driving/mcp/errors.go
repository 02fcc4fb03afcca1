// Package mcp provides an MCP (Model Context Protocol) server adapter for acqscope.
// It lets AI assistants build filter queries and page through acquisition
// photo panels.
package mcp

import "errors"

// ErrMissingBrowseService is returned when the browse service is not provided.
var ErrMissingBrowseService = errors.New("mcp: browse service is required")
