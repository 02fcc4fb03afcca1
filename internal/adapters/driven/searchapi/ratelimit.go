package searchapi

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// MinBuffer is the remaining-request reserve below which Wait blocks
	// until the advertised reset.
	MinBuffer = 1

	// DefaultRetryAfter applies to a 429 without a usable Retry-After.
	DefaultRetryAfter = 5 * time.Second
)

// Headers read from every search API response. The reset is in Unix
// seconds; Retry-After is delta-seconds or an HTTP date.
const (
	HeaderRateLimit     = "X-RateLimit-Limit"
	HeaderRateRemaining = "X-RateLimit-Remaining"
	HeaderRateReset     = "X-RateLimit-Reset"
	HeaderRetryAfter    = "Retry-After"
)

// RateLimiter spaces requests with a token bucket and, once the API has
// reported its quota, holds requests back until the quota resets.
type RateLimiter struct {
	mu        sync.Mutex
	remaining int // -1 until the API reports it
	limit     int // -1 until the API reports it
	resetTime time.Time
	bucket    *rate.Limiter
	now       func() time.Time
}

// NewRateLimiter creates a limiter allowing perSecond requests per second.
// A non-positive rate disables proactive throttling.
func NewRateLimiter(perSecond float64) *RateLimiter {
	limit := rate.Inf
	if perSecond > 0 {
		limit = rate.Limit(perSecond)
	}
	return &RateLimiter{
		remaining: -1,
		limit:     -1,
		bucket:    rate.NewLimiter(limit, 1),
		now:       time.Now,
	}
}

// Wait blocks until it is safe to make a request.
func (r *RateLimiter) Wait(ctx context.Context) error {
	if err := r.bucket.Wait(ctx); err != nil {
		return err
	}

	r.mu.Lock()
	remaining := r.remaining
	resetTime := r.resetTime
	now := r.now()
	r.mu.Unlock()

	if remaining >= 0 && remaining < MinBuffer && now.Before(resetTime) {
		timer := time.NewTimer(resetTime.Sub(now))
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}
	return nil
}

// UpdateFromResponse records the X-RateLimit-* headers. Missing or
// malformed headers leave the previous value in place.
func (r *RateLimiter) UpdateFromResponse(resp *http.Response) {
	if resp == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if n, ok := headerInt(resp.Header, HeaderRateRemaining); ok {
		r.remaining = int(n)
	}
	if n, ok := headerInt(resp.Header, HeaderRateLimit); ok {
		r.limit = int(n)
	}
	if n, ok := headerInt(resp.Header, HeaderRateReset); ok {
		r.resetTime = time.Unix(n, 0)
	}
}

func headerInt(h http.Header, name string) (int64, bool) {
	n, err := strconv.ParseInt(h.Get(name), 10, 64)
	return n, err == nil
}

// CheckRateLimit records the response headers and returns a RateLimitError
// for a 429. Further requests are held back until the reset time.
func (r *RateLimiter) CheckRateLimit(resp *http.Response) error {
	if resp == nil {
		return nil
	}
	r.UpdateFromResponse(resp)
	if resp.StatusCode != http.StatusTooManyRequests {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	resetAt := r.resetTime
	if after, ok := parseRetryAfter(resp.Header.Get(HeaderRetryAfter), now); ok {
		resetAt = after
	}
	if !resetAt.After(now) {
		resetAt = now.Add(DefaultRetryAfter)
	}
	r.resetTime = resetAt
	r.remaining = 0

	return &RateLimitError{ResetAt: resetAt, Remaining: 0, Limit: r.limit}
}

// parseRetryAfter reads delta-seconds or an HTTP date.
func parseRetryAfter(value string, now time.Time) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		return now.Add(time.Duration(seconds) * time.Second), true
	}
	if t, err := http.ParseTime(value); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// Remaining returns the remaining requests, or -1 if the API never said.
func (r *RateLimiter) Remaining() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.remaining
}

// ResetTime returns the rate limit reset time.
func (r *RateLimiter) ResetTime() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.resetTime
}
