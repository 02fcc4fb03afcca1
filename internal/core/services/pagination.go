package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/acqscope/internal/core/domain"
	"github.com/custodia-labs/acqscope/internal/logger"
)

// Fetcher retrieves and normalises one outer (API) page.
type Fetcher func(ctx context.Context, page int) (domain.SearchPage, error)

// session is one search: its buffer, cursors and fetch bookkeeping.
// Fields other than ensure are guarded by Controller.mu.
type session struct {
	id    string
	query domain.QueryParams
	fetch Fetcher

	// ensure serialises outer fetches within the session.
	ensure sync.Mutex

	groups   []domain.AcquisitionGroup
	outer    domain.OuterCursor
	counts   domain.Counts
	panel    int
	inFlight map[int]bool
	fetched  map[int]bool

	// failedPanel is the panel page whose fetch last failed, 0 if none.
	failedPanel int
}

// Controller drives two-level pagination: outer API pages are fetched
// sequentially into a buffer of acquisition groups, and panel pages are
// sliced from that buffer independently of API page boundaries.
//
// Every Reset starts a new session. Fetches that complete after their
// session was replaced are discarded and reported as domain.ErrStaleSession.
type Controller struct {
	mu             sync.Mutex
	cur            *session
	aggregator     *Aggregator
	panelsPerPage  int
	photosPerPanel int
}

// NewController creates a pagination controller.
func NewController(aggregator *Aggregator, panelsPerPage, photosPerPanel int) *Controller {
	if aggregator == nil {
		aggregator = NewAggregator(nil)
	}
	if panelsPerPage <= 0 {
		panelsPerPage = domain.DefaultPanelsPerPage
	}
	if photosPerPanel <= 0 {
		photosPerPanel = domain.DefaultPhotosPerPanel
	}
	return &Controller{
		aggregator:     aggregator,
		panelsPerPage:  panelsPerPage,
		photosPerPanel: photosPerPanel,
	}
}

// Reset discards the buffer and both cursors and starts a new session.
// Returns the new session id.
func (c *Controller) Reset(query domain.QueryParams, fetch Fetcher) string {
	s := &session{
		id:       uuid.New().String(),
		query:    query.Clone(),
		fetch:    fetch,
		outer:    domain.OuterCursor{Page: 0, HasMore: true},
		inFlight: make(map[int]bool),
		fetched:  make(map[int]bool),
	}

	c.mu.Lock()
	if c.cur != nil {
		logger.Debug("pagination: session %s replaced by %s", short(c.cur.id), short(s.id))
	}
	c.cur = s
	c.mu.Unlock()
	return s.id
}

// Session returns the current session id, or "" before the first Reset.
func (c *Controller) Session() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cur == nil {
		return ""
	}
	return c.cur.id
}

// Window returns panel page n (1-based), fetching outer pages until enough
// groups are buffered or the API reports no more. Moving backward never
// fetches. Pages beyond the last known page clamp to it.
// On fetch failure the cursors are left unchanged.
func (c *Controller) Window(ctx context.Context, n int) (*domain.PanelWindow, error) {
	c.mu.Lock()
	s := c.cur
	if s == nil {
		c.mu.Unlock()
		return nil, domain.ErrNoSession
	}
	if n < 1 {
		n = 1
	}
	if len(s.fetched) > 0 {
		n = min(n, c.totalPages(s))
	}
	backward := s.panel > 0 && n < s.panel
	c.mu.Unlock()

	if !backward {
		if err := c.ensure(ctx, s, n*c.panelsPerPage); err != nil {
			c.mu.Lock()
			if c.cur == s {
				s.failedPanel = n
			}
			c.mu.Unlock()
			return nil, err
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cur != s {
		return nil, domain.ErrStaleSession
	}
	s.failedPanel = 0
	return c.window(s, min(n, c.totalPages(s))), nil
}

// Next moves one panel page forward.
func (c *Controller) Next(ctx context.Context) (*domain.PanelWindow, error) {
	return c.Window(ctx, c.currentPanel()+1)
}

// Prev moves one panel page back.
func (c *Controller) Prev(ctx context.Context) (*domain.PanelWindow, error) {
	return c.Window(ctx, c.currentPanel()-1)
}

// Retry re-requests the panel page whose fetch last failed, or the current
// page if nothing failed. The outer cursor was not advanced by the failure,
// so the same API page is requested again.
func (c *Controller) Retry(ctx context.Context) (*domain.PanelWindow, error) {
	c.mu.Lock()
	s := c.cur
	if s == nil {
		c.mu.Unlock()
		return nil, domain.ErrNoSession
	}
	n := s.failedPanel
	if n == 0 {
		n = max(s.panel, 1)
	}
	c.mu.Unlock()
	return c.Window(ctx, n)
}

// Summary describes the current session.
func (c *Controller) Summary() (*domain.SearchSummary, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.cur
	if s == nil {
		return nil, domain.ErrNoSession
	}
	return &domain.SearchSummary{
		Session:  s.id,
		Query:    s.query.Clone(),
		Outer:    s.outer,
		Panel:    domain.PanelCursor{PanelPage: s.panel, PanelsPerPage: c.panelsPerPage},
		Buffered: len(s.groups),
		Counts:   s.counts,
	}, nil
}

func (c *Controller) currentPanel() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cur == nil {
		return 0
	}
	return c.cur.panel
}

// ensure fetches outer pages one at a time until need groups are buffered
// or has_more is false. Only one ensure loop runs per session.
func (c *Controller) ensure(ctx context.Context, s *session, need int) error {
	s.ensure.Lock()
	defer s.ensure.Unlock()

	for {
		c.mu.Lock()
		if c.cur != s {
			c.mu.Unlock()
			return domain.ErrStaleSession
		}
		if len(s.groups) >= need || !s.outer.HasMore {
			c.mu.Unlock()
			return nil
		}
		next := s.outer.Page + 1
		if s.inFlight[next] || s.fetched[next] {
			c.mu.Unlock()
			return nil
		}
		s.inFlight[next] = true
		c.mu.Unlock()

		start := time.Now()
		page, err := s.fetch(ctx, next)
		logger.Elapsed(fmt.Sprintf("fetch page %d", next), start)

		c.mu.Lock()
		delete(s.inFlight, next)
		if c.cur != s {
			c.mu.Unlock()
			logger.Debug("pagination: discarding page %d of replaced session %s", next, short(s.id))
			return domain.ErrStaleSession
		}
		if err != nil {
			c.mu.Unlock()
			logger.Warn("pagination: page %d failed: %v", next, err)
			return fmt.Errorf("fetch page %d: %w", next, err)
		}

		s.fetched[next] = true
		s.groups = c.aggregator.Merge(s.groups, page.Docs)
		s.counts = mergeCounts(s.counts, page, len(s.groups))
		s.outer = domain.OuterCursor{Page: next, HasMore: page.Page.HasMore}
		if page.Items == 0 && s.outer.HasMore {
			logger.Debug("pagination: page %d had no items, treating as last", next)
			s.outer.HasMore = false
		}
		logger.Debug("pagination: merged page %d items=%d docs=%d groups=%d has_more=%t",
			next, page.Items, len(page.Docs), len(s.groups), s.outer.HasMore)
		c.mu.Unlock()
	}
}

// mergeCounts folds a page's counters into the session's. A counter the
// API reported replaces the old one; a derived one only covers its own
// page, so it never lowers what was already seen.
func mergeCounts(prev domain.Counts, page domain.SearchPage, buffered int) domain.Counts {
	if page.CountsReported {
		return page.Counts
	}
	return domain.Counts{
		Acquisitions: max(prev.Acquisitions, page.Counts.Acquisitions, buffered),
		Seconds:      max(prev.Seconds, page.Counts.Seconds),
	}
}

// known returns the number of acquisitions the session is known to have.
// Caller must hold c.mu.
func (c *Controller) known(s *session) int {
	if !s.outer.HasMore {
		return len(s.groups)
	}
	return max(len(s.groups), s.counts.Acquisitions)
}

// totalPages returns max(1, ceil(known/panelsPerPage)). While the API has
// more and every known page is full, one further page is reachable.
// Caller must hold c.mu.
func (c *Controller) totalPages(s *session) int {
	pages := max(1, (c.known(s)+c.panelsPerPage-1)/c.panelsPerPage)
	if s.outer.HasMore && len(s.groups) >= pages*c.panelsPerPage {
		pages++
	}
	return pages
}

// window slices panel page n from the buffer. Caller must hold c.mu.
func (c *Controller) window(s *session, n int) *domain.PanelWindow {
	s.panel = n
	total := c.totalPages(s)
	start := min((n-1)*c.panelsPerPage, len(s.groups))
	end := min(n*c.panelsPerPage, len(s.groups))

	return &domain.PanelWindow{
		Session:    s.id,
		Cursor:     domain.PanelCursor{PanelPage: n, PanelsPerPage: c.panelsPerPage},
		TotalPages: total,
		Panels:     c.aggregator.Panels(s.groups[start:end], c.photosPerPanel),
		HasPrev:    n > 1,
		HasNext:    n < total,
		Exhausted:  !s.outer.HasMore && end >= len(s.groups),
		Buffered:   len(s.groups),
		Counts:     s.counts,
		Outer:      s.outer,
	}
}

func short(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
