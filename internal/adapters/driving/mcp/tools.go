package mcp

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/acqscope/internal/core/domain"
	"github.com/custodia-labs/acqscope/internal/core/filters"
)

// SearchInput is the input schema for the search_acquisitions tool.
type SearchInput struct {
	Query   string            `json:"query,omitempty" jsonschema:"filter query string or results URL, e.g. c.v=20..&o.highway=primary"`
	Filters map[string]string `json:"filters,omitempty" jsonschema:"facet assignments by key or name, applied after query, e.g. {\"building\": \"low,high\"}"`
	Page    int               `json:"page,omitempty" jsonschema:"panel page to return (default 1)"`
}

// SearchOutput is the output schema for the search_acquisitions tool.
type SearchOutput struct {
	Query      string        `json:"query"`
	Page       int           `json:"page"`
	TotalPages int           `json:"total_pages"`
	HasNext    bool          `json:"has_next"`
	Exhausted  bool          `json:"exhausted"`
	Counts     domain.Counts `json:"counts"`
	Panels     []PanelOutput `json:"panels"`
}

// PanelOutput represents one acquisition panel.
type PanelOutput struct {
	AcquisitionID string        `json:"acquisition_id"`
	TotalPhotos   int           `json:"total_photos"`
	Photos        []PhotoOutput `json:"photos"`
}

// PhotoOutput represents one sampled photo.
type PhotoOutput struct {
	Second *int   `json:"second,omitempty"`
	URL    string `json:"url"`
}

// EncodeInput is the input schema for the encode_filters tool.
type EncodeInput struct {
	Query   string            `json:"query,omitempty" jsonschema:"query string to start from"`
	Filters map[string]string `json:"filters,omitempty" jsonschema:"facet assignments by key or name; an empty value clears the facet"`
}

// EncodeOutput is the output schema for the encode_filters tool.
type EncodeOutput struct {
	Query    string `json:"query"`
	Location string `json:"location"`
}

// DecodeInput is the input schema for the decode_query tool.
type DecodeInput struct {
	Query string `json:"query" jsonschema:"query string or URL to decode"`
}

// DecodeOutput is the output schema for the decode_query tool.
type DecodeOutput struct {
	Route     string        `json:"route"`
	Facets    []FacetOutput `json:"facets"`
	Canonical string        `json:"canonical"`
}

// FacetOutput is one active facet of a decoded query.
type FacetOutput struct {
	Key   string   `json:"key"`
	Name  string   `json:"name"`
	Value string   `json:"value"`
	Bands []string `json:"bands,omitempty"`
}

// ImageInput is the input schema for the image_candidates tool.
type ImageInput struct {
	URL     string `json:"url" jsonschema:"photo link as returned by a search"`
	Resolve bool   `json:"resolve,omitempty" jsonschema:"probe the candidates and report the first that loads"`
}

// ImageOutput is the output schema for the image_candidates tool.
type ImageOutput struct {
	Candidates  []string `json:"candidates"`
	Resolved    string   `json:"resolved,omitempty"`
	Placeholder bool     `json:"placeholder,omitempty"`
}

// CacheStatsInput is the empty input of the cache_stats tool.
type CacheStatsInput struct{}

// CacheStatsOutput is the output schema for the cache_stats tool.
type CacheStatsOutput struct {
	Pages   int    `json:"pages"`
	Expired int    `json:"expired"`
	Bytes   int64  `json:"bytes"`
	Hits    int64  `json:"hits"`
	Oldest  string `json:"oldest,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_acquisitions",
		Description: "Search acquisitions matching filters and return one page of photo panels",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "encode_filters",
		Description: "Encode facet assignments as a canonical filter query string",
	}, s.handleEncode)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "decode_query",
		Description: "Decode a filter query string or results URL into its active facets",
	}, s.handleDecode)

	if s.ports.Images != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "image_candidates",
			Description: "List the loadable image URLs for a photo link",
		}, s.handleImages)
	}

	if s.ports.Cache != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "cache_stats",
			Description: "Report how many search API pages are cached and how often they were reused",
		}, s.handleCacheStats)
	}
}

// buildState applies query then the assignments in key order.
func buildState(query string, assignments map[string]string) (domain.FilterState, error) {
	var state domain.FilterState
	if query != "" {
		loc := domain.ParseLocation(query)
		if err := filters.ApplyQuery(&state, loc.Query.String()); err != nil {
			return state, err
		}
	}
	keys := make([]string, 0, len(assignments))
	for k := range assignments {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := filters.Assign(&state, k, assignments[k]); err != nil {
			return state, err
		}
	}
	return state, nil
}

// handleSearch handles the search_acquisitions tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	state, err := buildState(input.Query, input.Filters)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	s.searchMu.Lock()
	defer s.searchMu.Unlock()

	window, err := s.ports.Browse.Start(ctx, state)
	if err != nil {
		return nil, SearchOutput{}, fmt.Errorf("search failed: %w", err)
	}
	if input.Page > 1 {
		window, err = s.ports.Browse.Page(ctx, input.Page)
		if err != nil {
			return nil, SearchOutput{}, fmt.Errorf("search failed: %w", err)
		}
	}

	output := SearchOutput{
		Query:      filters.Encode(state).String(),
		Page:       window.Cursor.PanelPage,
		TotalPages: window.TotalPages,
		HasNext:    window.HasNext,
		Exhausted:  window.Exhausted,
		Counts:     window.Counts,
		Panels:     make([]PanelOutput, len(window.Panels)),
	}
	for i, panel := range window.Panels {
		photos := make([]PhotoOutput, len(panel.Photos))
		for j, p := range panel.Photos {
			photos[j] = PhotoOutput{Second: p.Second, URL: p.URL}
		}
		output.Panels[i] = PanelOutput{
			AcquisitionID: panel.AcquisitionID,
			TotalPhotos:   panel.TotalPhotos,
			Photos:        photos,
		}
	}

	return nil, output, nil
}

// handleEncode handles the encode_filters tool invocation.
func (s *Server) handleEncode(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input EncodeInput,
) (*mcp.CallToolResult, EncodeOutput, error) {
	state, err := buildState(input.Query, input.Filters)
	if err != nil {
		return nil, EncodeOutput{}, err
	}
	params := filters.Encode(state)
	loc := domain.Location{Route: domain.RouteResults, Query: params}
	return nil, EncodeOutput{Query: params.String(), Location: loc.String()}, nil
}

// handleDecode handles the decode_query tool invocation.
func (s *Server) handleDecode(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input DecodeInput,
) (*mcp.CallToolResult, DecodeOutput, error) {
	loc := domain.ParseLocation(input.Query)
	state := filters.Decode(loc.Query)

	output := DecodeOutput{
		Route:     string(loc.Route),
		Facets:    []FacetOutput{},
		Canonical: filters.Encode(state).String(),
	}
	for _, fv := range filters.Describe(state) {
		out := FacetOutput{Key: fv.Facet.Key, Name: fv.Facet.Name, Value: fv.Value}
		if fv.Facet.Kind == filters.KindBanded {
			bands, raw := filters.RangeUnionToBands(fv.Value, *fv.Facet.Table)
			out.Bands = filters.BandLabels(domain.BandedRange{Bands: bands, Raw: raw})
		}
		output.Facets = append(output.Facets, out)
	}
	return nil, output, nil
}

// handleImages handles the image_candidates tool invocation.
func (s *Server) handleImages(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ImageInput,
) (*mcp.CallToolResult, ImageOutput, error) {
	if input.URL == "" {
		return nil, ImageOutput{}, fmt.Errorf("%w: url is required", domain.ErrInvalidInput)
	}
	output := ImageOutput{Candidates: s.ports.Images.Candidates(input.URL)}
	if input.Resolve {
		result := s.ports.Images.Resolve(ctx, input.URL)
		output.Resolved = result.URL
		output.Placeholder = result.Placeholder
	}
	return nil, output, nil
}

// handleCacheStats handles the cache_stats tool invocation.
func (s *Server) handleCacheStats(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ CacheStatsInput,
) (*mcp.CallToolResult, CacheStatsOutput, error) {
	stats, err := s.ports.Cache.Stats(ctx)
	if err != nil {
		return nil, CacheStatsOutput{}, fmt.Errorf("cache stats: %w", err)
	}
	output := CacheStatsOutput{
		Pages:   stats.Entries,
		Expired: stats.Expired,
		Bytes:   stats.Bytes,
		Hits:    stats.Hits,
	}
	if !stats.Oldest.IsZero() {
		output.Oldest = stats.Oldest.UTC().Format(time.RFC3339)
	}
	return nil, output, nil
}
