package domain

// LinkDoc is a single normalised media reference returned by the search API.
// It is produced by the response normaliser and never persisted.
type LinkDoc struct {
	// AcquisitionID identifies the recording session.
	AcquisitionID string `json:"acquisition_id"`

	// Second is the offset within the acquisition. Nil when the API omits it;
	// a nil second sorts like zero but is never displayed as second 0.
	Second *int `json:"second,omitempty"`

	// URL is the media link as returned by the API.
	URL string `json:"url"`

	// Extension is the file extension without the dot (e.g. "jpg"), if known.
	Extension string `json:"extension,omitempty"`
}

// Int returns a pointer to v, for building LinkDoc literals.
func Int(v int) *int {
	return &v
}

// SecondValue returns the second offset, treating nil as zero.
func (d LinkDoc) SecondValue() int {
	if d.Second == nil {
		return 0
	}
	return *d.Second
}

// AcquisitionGroup holds the photos of one acquisition, ordered ascending
// by second and unique per second.
type AcquisitionGroup struct {
	AcquisitionID string    `json:"acquisition_id"`
	Photos        []LinkDoc `json:"photos"`
}

// Panel is the display unit for one acquisition.
type Panel struct {
	// AcquisitionID identifies the acquisition shown.
	AcquisitionID string `json:"acquisition_id"`

	// Photos are temporally sampled from the full group.
	Photos []LinkDoc `json:"photos"`

	// TotalPhotos is the number of distinct seconds in the group.
	TotalPhotos int `json:"total_photos"`
}

// PageInfo is the pagination metadata of one API page.
type PageInfo struct {
	Page       int  `json:"page"`
	PerPage    int  `json:"per_page"`
	HasMore    bool `json:"has_more"`
	Total      *int `json:"total,omitempty"`
	TotalPages *int `json:"total_pages,omitempty"`
}

// Counts are the aggregate counters of a search.
type Counts struct {
	// Acquisitions is the number of matched acquisitions.
	Acquisitions int `json:"acquisitions"`

	// Seconds is the number of matched seconds (media links).
	Seconds int `json:"seconds"`
}

// SearchPage is one normalised API page.
type SearchPage struct {
	Docs   []LinkDoc `json:"docs"`
	Page   PageInfo  `json:"page"`
	Counts Counts    `json:"counts"`

	// Items is the number of raw items the API returned, including those
	// dropped for lacking a link.
	Items int `json:"items"`

	// CountsReported is false when Counts were derived from Docs because
	// the API sent no acquisition counter.
	CountsReported bool `json:"counts_reported"`
}

// OuterCursor tracks API pagination. It is advanced only by successful fetches.
type OuterCursor struct {
	// Page is the last API page merged; 0 before the first fetch.
	Page int `json:"page"`

	// HasMore reports whether the API has pages beyond Page.
	HasMore bool `json:"has_more"`
}

// PanelCursor is a slicing index over the buffered acquisition groups.
type PanelCursor struct {
	PanelPage     int `json:"panel_page"`
	PanelsPerPage int `json:"panels_per_page"`
}

// PanelWindow is one panel page ready for display.
type PanelWindow struct {
	// Session identifies the search that produced the window.
	Session string `json:"session"`

	// Cursor is the panel page shown.
	Cursor PanelCursor `json:"cursor"`

	// TotalPages is the number of panel pages currently known.
	TotalPages int `json:"total_pages"`

	// Panels are the acquisitions on this page.
	Panels []Panel `json:"panels"`

	// HasPrev and HasNext gate the navigation actions.
	HasPrev bool `json:"has_prev"`
	HasNext bool `json:"has_next"`

	// Exhausted is true when the API has no more pages and the buffer
	// has been fully shown ("no more results").
	Exhausted bool `json:"exhausted"`

	// Buffered is the number of acquisition groups loaded so far.
	Buffered int `json:"buffered"`

	// Counts are the aggregate counters reported by the API.
	Counts Counts `json:"counts"`

	// Outer is the API page cursor at the time the window was built.
	Outer OuterCursor `json:"outer"`
}

// SearchSummary describes the state of the current search.
type SearchSummary struct {
	Session  string      `json:"session"`
	Query    QueryParams `json:"query"`
	Outer    OuterCursor `json:"outer"`
	Panel    PanelCursor `json:"panel"`
	Buffered int         `json:"buffered"`
	Counts   Counts      `json:"counts"`
}

// ImageResult is the outcome of resolving a photo through its candidates.
type ImageResult struct {
	// Original is the link as returned by the API.
	Original string `json:"original"`

	// URL is the first candidate that loaded. Empty for a placeholder.
	URL string `json:"url,omitempty"`

	// Placeholder is true when no candidate loaded in time.
	Placeholder bool `json:"placeholder"`

	// Tried lists the candidates attempted, in order.
	Tried []string `json:"tried"`
}
