package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/acqscope/internal/core/domain"
	"github.com/custodia-labs/acqscope/internal/normalisers/response"
)

// fakeFetcher serves canned pages and records every request.
type fakeFetcher struct {
	mu      sync.Mutex
	pages   map[int]domain.SearchPage
	fail    map[int]int
	calls   []int
	started chan int
	gate    chan struct{}
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{pages: map[int]domain.SearchPage{}, fail: map[int]int{}}
}

// addPage registers page n holding one photo for each acquisition in ids.
func (f *fakeFetcher) addPage(n int, hasMore bool, ids ...string) {
	docs := make([]domain.LinkDoc, 0, len(ids))
	for _, id := range ids {
		docs = append(docs, photo(id, domain.Int(n), fmt.Sprintf("https://img.example/%s/%d.jpg", id, n)))
	}
	f.pages[n] = domain.SearchPage{
		Docs:  docs,
		Page:  domain.PageInfo{Page: n, PerPage: len(ids), HasMore: hasMore},
		Items: len(ids),
	}
}

func (f *fakeFetcher) fetch(_ context.Context, page int) (domain.SearchPage, error) {
	f.mu.Lock()
	f.calls = append(f.calls, page)
	failing := f.fail[page] > 0
	if failing {
		f.fail[page]--
	}
	started, gate := f.started, f.gate
	result, ok := f.pages[page]
	f.mu.Unlock()

	if started != nil {
		started <- page
	}
	if gate != nil {
		<-gate
	}
	if failing {
		return domain.SearchPage{}, errors.New("connection reset")
	}
	if !ok {
		return domain.SearchPage{Page: domain.PageInfo{Page: page}}, nil
	}
	return result, nil
}

func (f *fakeFetcher) Calls() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int(nil), f.calls...)
}

func acqIDs(from, to int) []string {
	ids := make([]string, 0, to-from+1)
	for i := from; i <= to; i++ {
		ids = append(ids, fmt.Sprintf("A%02d", i))
	}
	return ids
}

func panelIDs(w *domain.PanelWindow) []string {
	ids := make([]string, 0, len(w.Panels))
	for _, p := range w.Panels {
		ids = append(ids, p.AcquisitionID)
	}
	return ids
}

func newTestController(panelsPerPage int) *Controller {
	return NewController(NewAggregator(ascending), panelsPerPage, DefaultPhotosPerPanel)
}

func TestController_WindowWithoutSession(t *testing.T) {
	c := newTestController(2)
	_, err := c.Window(context.Background(), 1)
	assert.ErrorIs(t, err, domain.ErrNoSession)

	_, err = c.Summary()
	assert.ErrorIs(t, err, domain.ErrNoSession)
	assert.Empty(t, c.Session())
}

func TestController_ClampsPastLastPageWithoutFetching(t *testing.T) {
	ctx := context.Background()
	f := newFakeFetcher()
	f.addPage(1, false, acqIDs(1, 40)...)

	c := newTestController(24)
	c.Reset(domain.QueryParams{"c.v": "20.."}, f.fetch)

	first, err := c.Window(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 40, first.Buffered)
	assert.Equal(t, 2, first.TotalPages)

	w, err := c.Window(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, f.Calls(), "no fetch once has_more is false")
	assert.Equal(t, 2, w.Cursor.PanelPage)
	assert.Equal(t, acqIDs(25, 40), panelIDs(w))
	assert.False(t, w.HasNext)
	assert.True(t, w.HasPrev)
	assert.True(t, w.Exhausted)
}

func TestController_FetchesSequentiallyOnDemand(t *testing.T) {
	ctx := context.Background()
	f := newFakeFetcher()
	f.addPage(1, true, "A01", "A02")
	f.addPage(2, true, "A03", "A04")
	f.addPage(3, false, "A05", "A06")

	c := newTestController(2)
	c.Reset(domain.QueryParams{"c.v": "20.."}, f.fetch)

	w, err := c.Window(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, f.Calls())
	assert.True(t, w.HasNext, "has_more keeps the next page reachable")
	assert.False(t, w.Exhausted)

	// Unknown pages are not skippable: a jump clamps to the next reachable page.
	w, err = c.Window(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, 2, w.Cursor.PanelPage)
	assert.Equal(t, []int{1, 2}, f.Calls())
	assert.True(t, w.HasNext)

	w, err = c.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, f.Calls())
	assert.Equal(t, []string{"A05", "A06"}, panelIDs(w))
	assert.False(t, w.HasNext)
	assert.True(t, w.Exhausted)
	assert.Equal(t, domain.OuterCursor{Page: 3, HasMore: false}, w.Outer)
}

func TestController_BackwardNeverFetches(t *testing.T) {
	ctx := context.Background()
	f := newFakeFetcher()
	f.addPage(1, true, "A01", "A02")
	f.addPage(2, true, "A03", "A04")

	c := newTestController(2)
	c.Reset(domain.QueryParams{"c.v": "20.."}, f.fetch)

	_, err := c.Window(ctx, 2)
	require.NoError(t, err)
	calls := f.Calls()

	w, err := c.Prev(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, w.Cursor.PanelPage)
	assert.Equal(t, []string{"A01", "A02"}, panelIDs(w))

	w, err = c.Prev(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, w.Cursor.PanelPage, "prev on the first page stays there")
	assert.Equal(t, calls, f.Calls())
}

func TestController_OuterCursorIsMonotonic(t *testing.T) {
	ctx := context.Background()
	f := newFakeFetcher()
	for n := 1; n <= 4; n++ {
		f.addPage(n, n < 4, fmt.Sprintf("A%02d", n))
	}

	c := newTestController(1)
	c.Reset(domain.QueryParams{"c.v": "20.."}, f.fetch)

	last := 0
	for _, n := range []int{1, 3, 2, 4, 1, 4, 2} {
		_, err := c.Window(ctx, n)
		require.NoError(t, err)
		summary, err := c.Summary()
		require.NoError(t, err)
		assert.GreaterOrEqual(t, summary.Outer.Page, last)
		last = summary.Outer.Page
	}

	seen := map[int]bool{}
	for _, p := range f.Calls() {
		assert.False(t, seen[p], "page %d requested twice", p)
		seen[p] = true
	}
}

func TestController_FailureLeavesCursorsAndRetryResumes(t *testing.T) {
	ctx := context.Background()
	f := newFakeFetcher()
	f.addPage(1, true, "A01", "A02")
	f.addPage(2, false, "A03", "A04")
	f.fail[2] = 1

	c := newTestController(2)
	c.Reset(domain.QueryParams{"c.v": "20.."}, f.fetch)

	_, err := c.Window(ctx, 1)
	require.NoError(t, err)

	_, err = c.Next(ctx)
	require.Error(t, err)

	summary, err := c.Summary()
	require.NoError(t, err)
	assert.Equal(t, domain.OuterCursor{Page: 1, HasMore: true}, summary.Outer)
	assert.Equal(t, 1, summary.Panel.PanelPage)
	assert.Equal(t, 2, summary.Buffered)

	w, err := c.Retry(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, w.Cursor.PanelPage)
	assert.Equal(t, []string{"A03", "A04"}, panelIDs(w))
	assert.Equal(t, []int{1, 2, 2}, f.Calls())
}

func TestController_RetryWithoutFailureReloadsCurrentPage(t *testing.T) {
	ctx := context.Background()
	f := newFakeFetcher()
	f.addPage(1, false, "A01", "A02", "A03")

	c := newTestController(2)
	c.Reset(domain.QueryParams{"c.v": "20.."}, f.fetch)
	_, err := c.Window(ctx, 2)
	require.NoError(t, err)

	w, err := c.Retry(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, w.Cursor.PanelPage)
	assert.Equal(t, []int{1}, f.Calls())
}

func TestController_EmptyPageEndsTheSearch(t *testing.T) {
	tests := []struct {
		name  string
		items int
		ids   []string
		calls []int
	}{
		{name: "no items", items: 0, ids: []string{}, calls: []int{1}},
		{name: "items without links", items: 3, ids: []string{"A01"}, calls: []int{1, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			f := newFakeFetcher()
			f.pages[1] = domain.SearchPage{Page: domain.PageInfo{Page: 1, HasMore: true}, Items: tt.items}
			f.addPage(2, false, "A01")

			c := newTestController(2)
			c.Reset(domain.QueryParams{"c.v": "20.."}, f.fetch)

			w, err := c.Window(ctx, 1)
			require.NoError(t, err)
			assert.Equal(t, tt.ids, panelIDs(w))
			assert.False(t, w.HasNext)
			assert.True(t, w.Exhausted)
			assert.Equal(t, 1, w.TotalPages)

			_, err = c.Next(ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.calls, f.Calls())
		})
	}
}

func TestController_LinklessPageKeepsPaging(t *testing.T) {
	ctx := context.Background()
	bodies := map[int]string{
		1: `{"items": [{"acquisition_id": "A1"}], "has_more": true}`,
		2: `{"items": [{"acquisition_id": "A2", "second": 4, "url": "https://img.example/a2/4.jpg"}], "has_more": false}`,
	}
	var calls []int
	fetch := func(_ context.Context, page int) (domain.SearchPage, error) {
		calls = append(calls, page)
		return response.New().Normalise([]byte(bodies[page]), page, 50), nil
	}

	c := newTestController(2)
	c.Reset(domain.QueryParams{"c.v": "20.."}, fetch)

	w, err := c.Window(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, calls)
	assert.Equal(t, []string{"A2"}, panelIDs(w))
	assert.True(t, w.Exhausted)
	assert.Equal(t, domain.OuterCursor{Page: 2, HasMore: false}, w.Outer)
}

func TestController_DerivedCountsAccumulate(t *testing.T) {
	ctx := context.Background()
	f := newFakeFetcher()
	f.addPage(1, true, "A01", "A02")
	f.addPage(2, false, "A03")
	for n, acquisitions := range map[int]int{1: 2, 2: 1} {
		page := f.pages[n]
		page.Counts = domain.Counts{Acquisitions: acquisitions, Seconds: acquisitions}
		f.pages[n] = page
	}

	c := newTestController(2)
	c.Reset(domain.QueryParams{"c.v": "20.."}, f.fetch)

	w, err := c.Window(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, w.Buffered)
	assert.Equal(t, 3, w.Counts.Acquisitions)
}

func TestController_TotalPagesUsesReportedCounts(t *testing.T) {
	f := newFakeFetcher()
	f.addPage(1, true, "A01", "A02")
	page := f.pages[1]
	page.Counts = domain.Counts{Acquisitions: 9, Seconds: 90}
	page.CountsReported = true
	f.pages[1] = page

	c := newTestController(2)
	c.Reset(domain.QueryParams{"c.v": "20.."}, f.fetch)

	w, err := c.Window(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 5, w.TotalPages)
	assert.Equal(t, 90, w.Counts.Seconds)
}

func TestController_StaleCompletionIsDiscarded(t *testing.T) {
	ctx := context.Background()
	old := newFakeFetcher()
	old.addPage(1, false, "OLD")
	old.started = make(chan int, 1)
	old.gate = make(chan struct{})

	c := newTestController(2)
	c.Reset(domain.QueryParams{"c.v": "20.."}, old.fetch)

	errCh := make(chan error, 1)
	go func() {
		_, err := c.Window(ctx, 1)
		errCh <- err
	}()
	<-old.started

	fresh := newFakeFetcher()
	fresh.addPage(1, false, "NEW")
	session := c.Reset(domain.QueryParams{"o.highway": "primary"}, fresh.fetch)

	w, err := c.Window(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, session, w.Session)

	close(old.gate)
	assert.ErrorIs(t, <-errCh, domain.ErrStaleSession)

	summary, err := c.Summary()
	require.NoError(t, err)
	assert.Equal(t, session, summary.Session)
	assert.Equal(t, 1, summary.Buffered)
	assert.Equal(t, domain.QueryParams{"o.highway": "primary"}, summary.Query)

	w, err = c.Window(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"NEW"}, panelIDs(w))
}

func TestController_ConcurrentRequestsShareOneFetch(t *testing.T) {
	ctx := context.Background()
	f := newFakeFetcher()
	f.addPage(1, false, "A01", "A02")
	f.started = make(chan int, 4)
	f.gate = make(chan struct{})

	c := newTestController(2)
	c.Reset(domain.QueryParams{"c.v": "20.."}, f.fetch)

	var wg sync.WaitGroup
	results := make([]*domain.PanelWindow, 3)
	errs := make([]error, 3)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = c.Window(ctx, 1)
		}(i)
	}

	<-f.started
	close(f.gate)
	wg.Wait()

	assert.Equal(t, []int{1}, f.Calls())
	for i := range results {
		require.NoError(t, errs[i])
		assert.Equal(t, []string{"A01", "A02"}, panelIDs(results[i]))
	}
}

func TestController_ResetClearsBuffer(t *testing.T) {
	ctx := context.Background()
	f := newFakeFetcher()
	f.addPage(1, false, "A01")

	c := newTestController(2)
	first := c.Reset(domain.QueryParams{"c.v": "20.."}, f.fetch)
	_, err := c.Window(ctx, 1)
	require.NoError(t, err)

	second := c.Reset(domain.QueryParams{"c.v": "30.."}, f.fetch)
	assert.NotEqual(t, first, second)

	summary, err := c.Summary()
	require.NoError(t, err)
	assert.Zero(t, summary.Buffered)
	assert.Equal(t, domain.OuterCursor{Page: 0, HasMore: true}, summary.Outer)
	assert.Zero(t, summary.Panel.PanelPage)
}
