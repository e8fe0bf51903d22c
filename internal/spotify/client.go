// Package spotify provides a client for the Spotify Web API using the
// client-credentials OAuth flow.
package spotify

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/lepinkainen/orpheus/internal/ratelimit"
)

const (
	defaultBaseURL       = "https://api.spotify.com"
	defaultTokenURL      = "https://accounts.spotify.com/api/token"
	defaultMaxAttempts   = 3
	defaultRatePerSecond = 3
	defaultSearchLimit   = 5

	// defaultRetryAfter is used when a 429 response carries no
	// Retry-After header.
	defaultRetryAfter = 30 * time.Second

	// tokenRefreshMargin refreshes the bearer token this long before its
	// reported expiry.
	tokenRefreshMargin = 5 * time.Minute
)

// HTTPDoer is an interface for making HTTP requests.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Client is a Spotify Web API client. Token state lives on the client, not
// in package globals, and is refreshed transparently shortly before expiry.
type Client struct {
	clientID      string
	clientSecret  string
	baseURL       string
	tokenURL      string
	httpClient    HTTPDoer
	rateLimiter   *ratelimit.Limiter
	retryAttempts int

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

// NewClient creates a new Spotify API client.
func NewClient(clientID, clientSecret string, opts ...Option) *Client {
	client := &Client{
		clientID:      clientID,
		clientSecret:  clientSecret,
		baseURL:       defaultBaseURL,
		tokenURL:      defaultTokenURL,
		httpClient:    &http.Client{Timeout: 10 * time.Second},
		rateLimiter:   ratelimit.New("Spotify", defaultRatePerSecond),
		retryAttempts: defaultMaxAttempts,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
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

// WithBaseURL sets a custom base URL for the Spotify API.
func WithBaseURL(base string) Option {
	return func(client *Client) {
		if base != "" {
			client.baseURL = strings.TrimSuffix(base, "/")
		}
	}
}

// WithTokenURL sets a custom token endpoint.
func WithTokenURL(tokenURL string) Option {
	return func(client *Client) {
		if tokenURL != "" {
			client.tokenURL = tokenURL
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
