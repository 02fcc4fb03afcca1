package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/acqscope/internal/core/filters"
)

const (
	// uriScheme is the custom URI scheme for acqscope resources.
	uriScheme = "acqscope://"

	facetsURI = uriScheme + "facets"
)

// facetInfo describes one facet in the facets resource.
type facetInfo struct {
	Key   string     `json:"key"`
	Name  string     `json:"name"`
	Kind  string     `json:"kind"`
	Bands []bandInfo `json:"bands,omitempty"`
}

type bandInfo struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Token string `json:"token"`
}

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         facetsURI,
		Name:        "facets",
		Description: "Filter facet keys, kinds and chip bands",
		MIMEType:    "application/json",
	}, s.handleFacetsResource)
}

// handleFacetsResource returns the facet key table.
func (s *Server) handleFacetsResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(facetInfos(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling facets: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

func facetInfos() []facetInfo {
	infos := make([]facetInfo, len(filters.Facets))
	for i, f := range filters.Facets {
		infos[i] = facetInfo{Key: f.Key, Name: f.Name, Kind: f.Kind.String()}
		if f.Table == nil {
			continue
		}
		for _, b := range f.Table.Bands {
			infos[i].Bands = append(infos[i].Bands, bandInfo{
				Key:   string(b.Key),
				Label: b.Label,
				Token: b.Token(),
			})
		}
	}
	return infos
}
