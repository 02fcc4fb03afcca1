package services

import (
	"regexp"
	"sort"
	"strconv"
	"time"

	"github.com/custodia-labs/acqscope/internal/core/domain"
)

// DefaultPhotosPerPanel is the display cap used when none is configured.
const DefaultPhotosPerPanel = domain.DefaultPhotosPerPanel

// OrderFunc reports whether acquisition a is displayed before b.
type OrderFunc func(a, b string) bool

// Aggregator groups link documents into per-acquisition photo buckets.
// It is stateless: every merge re-derives the buckets from its inputs.
type Aggregator struct {
	order OrderFunc
}

// NewAggregator creates an aggregator. A nil order uses NewestFirst.
func NewAggregator(order OrderFunc) *Aggregator {
	if order == nil {
		order = NewestFirst
	}
	return &Aggregator{order: order}
}

// Merge returns new groups holding prior's photos followed by docs.
// Touched buckets are sorted by second and de-duplicated keeping the
// first-seen photo per second. prior is not modified.
func (a *Aggregator) Merge(prior []domain.AcquisitionGroup, docs []domain.LinkDoc) []domain.AcquisitionGroup {
	buckets := make(map[string][]domain.LinkDoc, len(prior))
	var ids []string
	for _, g := range prior {
		if _, ok := buckets[g.AcquisitionID]; !ok {
			ids = append(ids, g.AcquisitionID)
		}
		buckets[g.AcquisitionID] = append(buckets[g.AcquisitionID], g.Photos...)
	}

	touched := make(map[string]bool)
	for _, d := range docs {
		if _, ok := buckets[d.AcquisitionID]; !ok {
			ids = append(ids, d.AcquisitionID)
		}
		buckets[d.AcquisitionID] = append(buckets[d.AcquisitionID], d)
		touched[d.AcquisitionID] = true
	}

	groups := make([]domain.AcquisitionGroup, 0, len(ids))
	for _, id := range ids {
		photos := buckets[id]
		if touched[id] {
			photos = dedupBySecond(photos)
		}
		groups = append(groups, domain.AcquisitionGroup{AcquisitionID: id, Photos: photos})
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return a.order(groups[i].AcquisitionID, groups[j].AcquisitionID)
	})
	return groups
}

// Panels builds the display panels of groups, sampling each to photoCap.
func (a *Aggregator) Panels(groups []domain.AcquisitionGroup, photoCap int) []domain.Panel {
	panels := make([]domain.Panel, 0, len(groups))
	for _, g := range groups {
		panels = append(panels, domain.Panel{
			AcquisitionID: g.AcquisitionID,
			Photos:        Sample(g.Photos, photoCap),
			TotalPhotos:   len(g.Photos),
		})
	}
	return panels
}

// dedupBySecond stable-sorts photos by second (nil as zero) and keeps the
// first photo of each second. Photos without a second are kept once per URL.
func dedupBySecond(photos []domain.LinkDoc) []domain.LinkDoc {
	sorted := append([]domain.LinkDoc(nil), photos...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].SecondValue() < sorted[j].SecondValue()
	})

	seenSecond := make(map[int]bool, len(sorted))
	seenURL := make(map[string]bool)
	out := sorted[:0]
	for _, p := range sorted {
		if p.Second == nil {
			if seenURL[p.URL] {
				continue
			}
			seenURL[p.URL] = true
		} else {
			if seenSecond[*p.Second] {
				continue
			}
			seenSecond[*p.Second] = true
		}
		out = append(out, p)
	}
	return out
}

// Sample picks up to photoCap photos at evenly spaced indices
// floor(i*len/photoCap), preserving temporal spread.
func Sample(photos []domain.LinkDoc, photoCap int) []domain.LinkDoc {
	if photoCap <= 0 || len(photos) == 0 {
		return []domain.LinkDoc{}
	}
	if len(photos) <= photoCap {
		return append([]domain.LinkDoc(nil), photos...)
	}
	out := make([]domain.LinkDoc, photoCap)
	for i := range out {
		out[i] = photos[i*len(photos)/photoCap]
	}
	return out
}

var digitRuns = regexp.MustCompile(`\d+`)

// AcquisitionTime extracts the timestamp embedded in an acquisition id.
// Recognised forms: YYYYMMDD[_-T]HHMMSS, YYYYMMDDHHMMSS, YYYY-MM-DD[_T]HH-MM-SS,
// unix seconds (10 digits) and unix milliseconds (13 digits).
func AcquisitionTime(id string) (time.Time, bool) {
	runs := digitRuns.FindAllString(id, -1)
	for i, run := range runs {
		switch len(run) {
		case 14:
			if t, err := time.Parse("20060102150405", run); err == nil {
				return t, true
			}
		case 8:
			if i+1 < len(runs) && len(runs[i+1]) == 6 {
				if t, err := time.Parse("20060102150405", run+runs[i+1]); err == nil {
					return t, true
				}
			}
			if t, err := time.Parse("20060102", run); err == nil {
				return t, true
			}
		case 4:
			if i+5 < len(runs) {
				joined := run
				for _, r := range runs[i+1 : i+6] {
					if len(r) != 2 {
						joined = ""
						break
					}
					joined += r
				}
				if t, err := time.Parse("20060102150405", joined); joined != "" && err == nil {
					return t, true
				}
			}
		case 10, 13:
			n, err := strconv.ParseInt(run, 10, 64)
			if err != nil {
				continue
			}
			if len(run) == 13 {
				return time.UnixMilli(n).UTC(), true
			}
			return time.Unix(n, 0).UTC(), true
		}
	}
	return time.Time{}, false
}

// NewestFirst orders acquisitions by embedded timestamp, newest first.
// Ids without a timestamp come last. Ties are broken by id, descending.
func NewestFirst(a, b string) bool {
	ta, okA := AcquisitionTime(a)
	tb, okB := AcquisitionTime(b)
	switch {
	case okA && !okB:
		return true
	case !okA && okB:
		return false
	case okA && okB && !ta.Equal(tb):
		return ta.After(tb)
	}
	return a > b
}
