// Package youtube provides a minimal YouTube Data API v3 client for
// resolving artist channels.
package youtube

import (
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/lepinkainen/orpheus/internal/ratelimit"
)

const (
	defaultBaseURL       = "https://www.googleapis.com/youtube/v3"
	defaultMaxAttempts   = 3
	defaultRatePerSecond = 2
	defaultMaxResults    = 3
	defaultRetryAfter    = 30 * time.Second
)

// HTTPDoer is an interface for making HTTP requests.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Client is a YouTube Data API client. A daily-quota 403 disables the
// client for the remainder of the run; the flag is client state, not a
// package global.
type Client struct {
	apiKey        string
	baseURL       string
	httpClient    HTTPDoer
	rateLimiter   *ratelimit.Limiter
	retryAttempts int

	quotaExhausted atomic.Bool
}

// NewClient creates a new YouTube Data API client.
func NewClient(apiKey string, opts ...Option) *Client {
	client := &Client{
		apiKey:        apiKey,
		baseURL:       defaultBaseURL,
		httpClient:    &http.Client{Timeout: 10 * time.Second},
		rateLimiter:   ratelimit.New("YouTube", defaultRatePerSecond),
		retryAttempts: defaultMaxAttempts,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// QuotaExhausted reports whether the daily quota has been hit this run.
func (c *Client) QuotaExhausted() bool {
	return c.quotaExhausted.Load()
}

// markQuotaExhausted records a quota 403. It logs a warning on the first
// call; subsequent calls are no-ops.
func (c *Client) markQuotaExhausted() {
	if c.quotaExhausted.CompareAndSwap(false, true) {
		slog.Warn("YouTube API quota exhausted; skipping further YouTube requests for this run")
	}
}

// Option is a functional option for configuring the Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c HTTPDoer) Option {
	return func(client *Client) {
		if c != nil {
			client.httpClient = c
		}
	}
}

// WithBaseURL sets a custom base URL for the YouTube Data API.
func WithBaseURL(base string) Option {
	return func(client *Client) {
		if base != "" {
			client.baseURL = strings.TrimSuffix(base, "/")
		}
	}
}

// WithRetryAttempts sets the number of retry attempts for failed requests.
func WithRetryAttempts(attempts int) Option {
	return func(client *Client) {
		if attempts > 0 {
			client.retryAttempts = attempts
		}
	}
}

// WithRateLimiter sets a custom rate limiter for the client.
func WithRateLimiter(limiter *ratelimit.Limiter) Option {
	return func(client *Client) {
		if limiter != nil {
			client.rateLimiter = limiter
		}
	}
}
