// Package searchapi implements driven.SearchAPI and driven.ImageProber over
// HTTP.
//
// Requests go through an otelhttp-instrumented transport, an optional
// bearer token (golang.org/x/oauth2) and a dual-strategy rate limiter: a
// proactive token bucket plus reactive handling of 429 and Retry-After.
package searchapi
