package searchapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/oauth2"

	"github.com/custodia-labs/acqscope/internal/core/domain"
	"github.com/custodia-labs/acqscope/internal/core/ports/driven"
	"github.com/custodia-labs/acqscope/internal/logger"
)

const (
	// MaxResponseBytes bounds the size of one search response.
	MaxResponseBytes = 32 << 20

	// maxErrorBody is how much of a failed response is kept for the error.
	maxErrorBody = 512

	// DefaultUserAgent identifies the client to the search service.
	DefaultUserAgent = "acqscope"
)

// Ensure Client implements the interface.
var _ driven.SearchAPI = (*Client)(nil)

// Client calls the acquisition search endpoint.
type Client struct {
	endpoint    string
	http        *http.Client
	rateLimiter *RateLimiter
	userAgent   string
}

// Option configures a Client.
type Option func(*Client)

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithRateLimiter replaces the default limiter.
func WithRateLimiter(r *RateLimiter) Option {
	return func(c *Client) {
		if r != nil {
			c.rateLimiter = r
		}
	}
}

// NewClient creates a search client from the API settings. Returns
// domain.ErrSearchUnavailable when no base URL is configured.
func NewClient(settings domain.APISettings, opts ...Option) (*Client, error) {
	if !settings.IsConfigured() {
		return nil, domain.ErrSearchUnavailable
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	c := &Client{
		endpoint:    settings.Endpoint(),
		http:        NewHTTPClient(settings.Token),
		rateLimiter: NewRateLimiter(settings.RatePerSecond),
		userAgent:   DefaultUserAgent,
	}
	c.http.Timeout = settings.Timeout
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// NewHTTPClient returns an instrumented client that sends token as a bearer
// token when it is non-empty.
func NewHTTPClient(token string) *http.Client {
	transport := otelhttp.NewTransport(http.DefaultTransport)
	if token == "" {
		return &http.Client{Transport: transport}
	}
	return &http.Client{
		Transport: &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}),
			Base:   transport,
		},
	}
}

// Endpoint returns the search endpoint URL.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// PageURL returns the full request URL for one page.
func (c *Client) PageURL(params domain.QueryParams, page, perPage int) string {
	q := params.Clone()
	q[domain.ParamPage] = strconv.Itoa(page)
	q[domain.ParamPerPage] = strconv.Itoa(perPage)
	return c.endpoint + "?" + q.String()
}

// FetchPage issues one search request and returns the raw body.
func (c *Client) FetchPage(ctx context.Context, params domain.QueryParams, page, perPage int) ([]byte, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	url := c.PageURL(params, page, perPage)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	logger.Debug("searchapi: GET %s", url)
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request page %d: %w", page, err)
	}
	defer resp.Body.Close()

	if err := c.rateLimiter.CheckRateLimit(resp); err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &StatusError{
			StatusCode: resp.StatusCode,
			URL:        url,
			Body:       strings.TrimSpace(string(snippet)),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read page %d: %w", page, err)
	}
	logger.Debug("searchapi: page %d returned %d bytes", page, len(body))
	return body, nil
}
