package response

import (
	"strings"

	"github.com/custodia-labs/acqscope/internal/core/domain"
	"github.com/custodia-labs/acqscope/internal/core/ports/driven"
)

// Ensure the shapes implement the interface.
var (
	_ driven.ResponseShape = DocumentsShape{}
	_ driven.ResponseShape = ItemsShape{}
	_ driven.ResponseShape = GenericShape{}
)

// UnknownAcquisition groups link documents that carry no acquisition id.
const UnknownAcquisition = "unknown"

// Nested list aliases inside an item.
var (
	perSecondKeys = []string{"seconds", "photos", "frames"}
	linkListKeys  = []string{"links", "images", "urls"}
	genericKeys   = []string{"documents", "results", "images"}
)

// DocumentsShape matches a flat documents list whose entries already carry
// an acquisition id and a link.
type DocumentsShape struct{}

// Name returns the shape name.
func (DocumentsShape) Name() string { return "documents" }

// Priority returns the selection priority.
func (DocumentsShape) Priority() int { return 100 }

// Match reports whether doc has a documents list of acquisition-tagged links.
// An empty list matches.
func (DocumentsShape) Match(doc map[string]any) bool {
	list, ok := asList(doc["documents"])
	if !ok {
		return false
	}
	if len(list) == 0 {
		return true
	}
	for _, raw := range list {
		item, ok := asMap(raw)
		if !ok {
			continue
		}
		if lookupString(item, acquisitionKeys...) != "" && lookupString(item, linkKeys...) != "" {
			return true
		}
	}
	return false
}

// Extract returns one LinkDoc per documents entry that has a link.
func (DocumentsShape) Extract(doc map[string]any) ([]domain.LinkDoc, int) {
	list, _ := asList(doc["documents"])
	docs := make([]domain.LinkDoc, 0, len(list))
	for _, raw := range list {
		item, ok := asMap(raw)
		if !ok {
			continue
		}
		if d, ok := linkFromObject(item, ""); ok {
			docs = append(docs, d)
		}
	}
	return docs, len(list)
}

// ItemsShape matches an items list. Each item may embed a per-second photo
// list, a flat link list, or a single direct link.
type ItemsShape struct{}

// Name returns the shape name.
func (ItemsShape) Name() string { return "items" }

// Priority returns the selection priority.
func (ItemsShape) Priority() int { return 90 }

// Match reports whether doc has an items list.
func (ItemsShape) Match(doc map[string]any) bool {
	_, ok := asList(doc["items"])
	return ok
}

// Extract flattens every item into link documents.
func (ItemsShape) Extract(doc map[string]any) ([]domain.LinkDoc, int) {
	list, _ := asList(doc["items"])
	return extractItems(list), len(list)
}

// GenericShape scans the first of documents, results or images with every
// alias. A top-level array is treated as results.
type GenericShape struct{}

// Name returns the shape name.
func (GenericShape) Name() string { return "generic" }

// Priority returns the selection priority.
func (GenericShape) Priority() int { return 1 }

// Match reports whether any generic list key holds an array.
func (GenericShape) Match(doc map[string]any) bool {
	_, ok := genericList(doc)
	return ok
}

// Extract scans the generic list.
func (GenericShape) Extract(doc map[string]any) ([]domain.LinkDoc, int) {
	list, _ := genericList(doc)
	return extractItems(list), len(list)
}

func genericList(doc map[string]any) ([]any, bool) {
	for _, k := range genericKeys {
		if list, ok := asList(doc[k]); ok {
			return list, true
		}
	}
	return nil, false
}

// extractItems reads a list of items that may each be a bare link string,
// a direct link object, or a container of nested photos or links.
func extractItems(list []any) []domain.LinkDoc {
	var docs []domain.LinkDoc
	for _, raw := range list {
		switch item := raw.(type) {
		case string:
			if d, ok := linkFromValue(item, "", nil); ok {
				docs = append(docs, d)
			}
		case map[string]any:
			docs = append(docs, extractItem(item)...)
		}
	}
	return docs
}

func extractItem(item map[string]any) []domain.LinkDoc {
	acquisition := lookupString(item, acquisitionKeys...)
	itemSecond := lookupSecond(item)

	var docs []domain.LinkDoc
	if nested, ok := lookup(item, perSecondKeys...); ok {
		if list, ok := asList(nested); ok {
			for _, raw := range list {
				if d, ok := linkFromValue(raw, acquisition, nil); ok {
					docs = append(docs, d)
				}
			}
			return docs
		}
	}
	if flat, ok := lookup(item, linkListKeys...); ok {
		if list, ok := asList(flat); ok {
			for _, raw := range list {
				if d, ok := linkFromValue(raw, acquisition, itemSecond); ok {
					docs = append(docs, d)
				}
			}
			return docs
		}
	}
	if d, ok := linkFromObject(item, acquisition); ok {
		docs = append(docs, d)
	}
	return docs
}

// linkFromValue accepts a link string or a link object. Strings inherit
// the parent's acquisition and second.
func linkFromValue(v any, acquisition string, second *int) (domain.LinkDoc, bool) {
	if m, ok := asMap(v); ok {
		d, ok := linkFromObject(m, acquisition)
		if ok && d.Second == nil {
			d.Second = second
		}
		return d, ok
	}
	link, ok := v.(string)
	if !ok {
		return domain.LinkDoc{}, false
	}
	return newLinkDoc(acquisition, second, strings.TrimSpace(link), "")
}

// linkFromObject reads a LinkDoc from an object, inheriting acquisition
// when the object has none. Objects without a link are dropped.
func linkFromObject(m map[string]any, acquisition string) (domain.LinkDoc, bool) {
	if own := lookupString(m, acquisitionKeys...); own != "" {
		acquisition = own
	}
	return newLinkDoc(acquisition, lookupSecond(m), lookupString(m, linkKeys...), lookupString(m, extensionKeys...))
}

func newLinkDoc(acquisition string, second *int, link, ext string) (domain.LinkDoc, bool) {
	if link == "" {
		return domain.LinkDoc{}, false
	}
	if acquisition == "" {
		acquisition = UnknownAcquisition
	}
	ext = strings.TrimPrefix(strings.ToLower(ext), ".")
	if ext == "" {
		ext = extensionOf(link)
	}
	return domain.LinkDoc{
		AcquisitionID: acquisition,
		Second:        second,
		URL:           link,
		Extension:     ext,
	}, true
}

func lookupSecond(m map[string]any) *int {
	if n, ok := lookupInt(m, secondKeys...); ok {
		return domain.Int(n)
	}
	return nil
}
