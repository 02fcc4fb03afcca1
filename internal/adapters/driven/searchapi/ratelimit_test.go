package searchapi

import (
	"context"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func responseWith(status int, headers map[string]string) *http.Response {
	resp := &http.Response{StatusCode: status, Header: http.Header{}}
	for k, v := range headers {
		resp.Header.Set(k, v)
	}
	return resp
}

func TestRateLimiter_UpdateFromResponse(t *testing.T) {
	r := NewRateLimiter(0)
	assert.Equal(t, -1, r.Remaining())

	reset := time.Now().Add(time.Minute).Unix()
	r.UpdateFromResponse(responseWith(200, map[string]string{
		HeaderRateLimit:     "100",
		HeaderRateRemaining: "42",
		HeaderRateReset:     strconv.FormatInt(reset, 10),
	}))

	assert.Equal(t, 42, r.Remaining())
	assert.Equal(t, reset, r.ResetTime().Unix())

	r.UpdateFromResponse(responseWith(200, map[string]string{HeaderRateRemaining: "many"}))
	assert.Equal(t, 42, r.Remaining(), "unparseable headers are ignored")
	r.UpdateFromResponse(nil)
}

func TestRateLimiter_CheckRateLimit(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		headers map[string]string
		want    time.Time
	}{
		{"retry-after seconds", map[string]string{HeaderRetryAfter: "10"}, now.Add(10 * time.Second)},
		{"retry-after date", map[string]string{HeaderRetryAfter: now.Add(time.Minute).Format(http.TimeFormat)}, now.Add(time.Minute)},
		{"reset header", map[string]string{HeaderRateReset: strconv.FormatInt(now.Add(2*time.Minute).Unix(), 10)}, now.Add(2 * time.Minute)},
		{"no hint", nil, now.Add(DefaultRetryAfter)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRateLimiter(0)
			r.now = func() time.Time { return now }

			err := r.CheckRateLimit(responseWith(http.StatusTooManyRequests, tt.headers))
			var rlErr *RateLimitError
			require.ErrorAs(t, err, &rlErr)
			assert.True(t, tt.want.Equal(rlErr.ResetAt), "got %s", rlErr.ResetAt)
			assert.Equal(t, 0, r.Remaining())
		})
	}
}

func TestRateLimiter_CheckRateLimitPassesOtherStatuses(t *testing.T) {
	r := NewRateLimiter(0)
	assert.NoError(t, r.CheckRateLimit(responseWith(200, nil)))
	assert.NoError(t, r.CheckRateLimit(responseWith(500, nil)))
	assert.NoError(t, r.CheckRateLimit(nil))
}

func TestRateLimiter_WaitUnthrottled(t *testing.T) {
	r := NewRateLimiter(0)
	for i := 0; i < 5; i++ {
		require.NoError(t, r.Wait(context.Background()))
	}
}

func TestRateLimiter_WaitProactive(t *testing.T) {
	r := NewRateLimiter(20)
	start := time.Now()
	for i := 0; i < 3; i++ {
		require.NoError(t, r.Wait(context.Background()))
	}
	assert.GreaterOrEqual(t, time.Since(start), 80*time.Millisecond)
}

func TestRateLimiter_WaitUntilReset(t *testing.T) {
	r := NewRateLimiter(0)
	r.UpdateFromResponse(responseWith(200, map[string]string{
		HeaderRateRemaining: "0",
		HeaderRateReset:     strconv.FormatInt(time.Now().Add(time.Hour).Unix(), 10),
	}))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, r.Wait(ctx), context.DeadlineExceeded)
}
