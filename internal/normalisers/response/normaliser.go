package response

import (
	"bytes"
	"encoding/json"
	"sort"

	"github.com/custodia-labs/acqscope/internal/core/domain"
	"github.com/custodia-labs/acqscope/internal/core/ports/driven"
	"github.com/custodia-labs/acqscope/internal/logger"
)

// Ensure Normaliser implements the interface.
var _ driven.ResponseNormaliser = (*Normaliser)(nil)

// Pagination and counter aliases.
var (
	metaKeys         = []string{"pagination", "meta"}
	countKeys        = []string{"counts", "stats"}
	pageKeys         = []string{"page", "current_page"}
	perPageKeys      = []string{"per_page", "page_size"}
	hasMoreKeys      = []string{"has_more", "hasMore"}
	totalKeys        = []string{"total", "total_count"}
	totalPagesKeys   = []string{"total_pages", "pages"}
	acquisitionCount = []string{"matched_acquisitions", "acquisitions", "acquisition_count"}
	secondCount      = []string{"matched_seconds", "matched_links", "seconds_count"}
)

// Normaliser matches payloads against registered shapes in priority order.
type Normaliser struct {
	shapes []driven.ResponseShape
}

// New creates a normaliser. With no shapes, the built-in documents, items
// and generic shapes are registered.
func New(shapes ...driven.ResponseShape) *Normaliser {
	n := &Normaliser{}
	if len(shapes) == 0 {
		shapes = []driven.ResponseShape{DocumentsShape{}, ItemsShape{}, GenericShape{}}
	}
	for _, s := range shapes {
		n.Register(s)
	}
	return n
}

// Register adds a shape, keeping the list sorted by descending priority.
// Shapes of equal priority keep registration order.
func (n *Normaliser) Register(shape driven.ResponseShape) {
	n.shapes = append(n.shapes, shape)
	sort.SliceStable(n.shapes, func(i, j int) bool {
		return n.shapes[i].Priority() > n.shapes[j].Priority()
	})
}

// Shapes returns the registered shape names in match order.
func (n *Normaliser) Shapes() []string {
	names := make([]string, len(n.shapes))
	for i, s := range n.shapes {
		names[i] = s.Name()
	}
	return names
}

// Normalise decodes body and extracts links, pagination and counters.
// page and perPage are the requested values, used as defaults.
func (n *Normaliser) Normalise(body []byte, page, perPage int) domain.SearchPage {
	doc, ok := decode(body)
	if !ok {
		logger.Debug("normalise: payload is not a JSON object (%d bytes)", len(body))
		return emptyPage(page, perPage)
	}

	var (
		docs     []domain.LinkDoc
		rawCount int
		matched  string
	)
	for _, shape := range n.shapes {
		if shape.Match(doc) {
			docs, rawCount = shape.Extract(doc)
			matched = shape.Name()
			break
		}
	}
	if matched == "" {
		logger.Debug("normalise: no shape matched keys %v", keysOf(doc))
		return emptyPage(page, perPage)
	}

	info := pageInfo(doc, page, perPage, rawCount)
	counts, reported := counters(doc, docs)
	logger.Debug("normalise: shape=%s items=%d links=%d page=%d has_more=%t",
		matched, rawCount, len(docs), info.Page, info.HasMore)

	return domain.SearchPage{Docs: docs, Page: info, Counts: counts, Items: rawCount, CountsReported: reported}
}

// decode reads body as untyped JSON, keeping numbers exact.
// A top-level array is wrapped as {"results": [...]}.
func decode(body []byte) (map[string]any, bool) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, false
	}
	switch t := v.(type) {
	case map[string]any:
		return t, true
	case []any:
		return map[string]any{"results": t}, true
	}
	return nil, false
}

func emptyPage(page, perPage int) domain.SearchPage {
	return domain.SearchPage{
		Docs: []domain.LinkDoc{},
		Page: domain.PageInfo{Page: page, PerPage: perPage},
	}
}

// containers returns doc followed by any nested objects named by keys.
func containers(doc map[string]any, keys []string) []map[string]any {
	out := []map[string]any{doc}
	for _, k := range keys {
		if m, ok := asMap(doc[k]); ok {
			out = append(out, m)
		}
	}
	return out
}

func findInt(maps []map[string]any, keys []string) (int, bool) {
	for _, m := range maps {
		if n, ok := lookupInt(m, keys...); ok {
			return n, true
		}
	}
	return 0, false
}

func findBool(maps []map[string]any, keys []string) (bool, bool) {
	for _, m := range maps {
		for _, k := range keys {
			if b, ok := asBool(m[k]); ok {
				return b, true
			}
		}
	}
	return false, false
}

// pageInfo reads pagination metadata. When has_more is absent it is derived
// from total_pages, then total, then whether the page came back full.
func pageInfo(doc map[string]any, page, perPage, rawCount int) domain.PageInfo {
	maps := containers(doc, metaKeys)

	info := domain.PageInfo{Page: page, PerPage: perPage}
	if n, ok := findInt(maps, pageKeys); ok && n > 0 {
		info.Page = n
	}
	if n, ok := findInt(maps, perPageKeys); ok && n > 0 {
		info.PerPage = n
	}
	if n, ok := findInt(maps, totalKeys); ok && n >= 0 {
		info.Total = domain.Int(n)
	}
	if n, ok := findInt(maps, totalPagesKeys); ok && n >= 0 {
		info.TotalPages = domain.Int(n)
	}

	if b, ok := findBool(maps, hasMoreKeys); ok {
		info.HasMore = b
		return info
	}
	switch {
	case info.TotalPages != nil:
		info.HasMore = info.Page < *info.TotalPages
	case info.Total != nil:
		info.HasMore = info.Page*info.PerPage < *info.Total
	default:
		info.HasMore = info.PerPage > 0 && rawCount >= info.PerPage
	}
	return info
}

// counters reads the aggregate counters, defaulting to what was observed
// so a payload without counters never reports zero matches.
// counters reports whether the API sent an acquisition count; when it did
// not, the count is derived from docs.
func counters(doc map[string]any, docs []domain.LinkDoc) (domain.Counts, bool) {
	maps := containers(doc, append(append([]string{}, countKeys...), metaKeys...))

	distinct := make(map[string]bool, len(docs))
	for _, d := range docs {
		distinct[d.AcquisitionID] = true
	}

	counts := domain.Counts{Acquisitions: len(distinct), Seconds: len(docs)}
	reported := false
	if n, ok := findInt(maps, acquisitionCount); ok && n >= 0 {
		counts.Acquisitions = n
		reported = true
	}
	if n, ok := findInt(maps, secondCount); ok && n >= 0 {
		counts.Seconds = n
	}
	return counts, reported
}

func keysOf(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
