// Package soundcloud finds artist profiles by scraping the public
// SoundCloud people search. There is no open API for this, so the client
// pulls the search page and extracts profile paths from hrefs.
package soundcloud

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	orpheuserrors "github.com/lepinkainen/orpheus/internal/errors"
	"github.com/lepinkainen/orpheus/internal/ratelimit"
)

const (
	defaultBaseURL       = "https://soundcloud.com"
	defaultUserAgent     = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	defaultRatePerSecond = 1
	defaultRetryAfter    = 30 * time.Second

	// maxBodyBytes caps how much of the search page we read. Profile links
	// appear in the first chunk of markup.
	maxBodyBytes = 1 << 20
)

// profilePattern matches href attributes pointing at site-root paths,
// which is how profile links appear in the search page markup.
var profilePattern = regexp.MustCompile(`href="/([\w\-]+)"`)

// sitePaths are site-root paths that are never user profiles.
var sitePaths = map[string]bool{
	"discover": true, "search": true, "stream": true, "upload": true,
	"you": true, "pages": true, "settings": true, "charts": true,
	"stations": true, "people": true, "tracks": true, "sets": true,
	"groups": true, "tags": true, "popular": true, "pro": true,
	"go": true, "creators": true, "feed": true, "library": true,
	"messages": true, "notifications": true, "legal": true, "jobs": true,
	"imprint": true, "privacy": true, "cookies": true, "terms-of-use": true,
}

// HTTPDoer is an interface for making HTTP requests.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Client scrapes SoundCloud people search results.
type Client struct {
	baseURL     string
	userAgent   string
	httpClient  HTTPDoer
	rateLimiter *ratelimit.Limiter
}

// NewClient creates a new SoundCloud search client.
func NewClient(opts ...Option) *Client {
	client := &Client{
		baseURL:     defaultBaseURL,
		userAgent:   defaultUserAgent,
		httpClient:  &http.Client{Timeout: 15 * time.Second},
		rateLimiter: ratelimit.New("SoundCloud", defaultRatePerSecond),
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

// WithBaseURL sets a custom base URL.
func WithBaseURL(base string) Option {
	return func(client *Client) {
		if base != "" {
			client.baseURL = strings.TrimSuffix(base, "/")
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

// SearchProfile returns the first plausible profile slug from the people
// search results for name, or "" when the page has none.
func (c *Client) SearchProfile(ctx context.Context, name string) (string, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("%s/search/people?q=%s", c.baseURL, url.QueryEscape(name))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return "", orpheuserrors.NewRateLimitErrorWithRetry(
			"soundcloud rate limit exceeded", defaultRetryAfter)
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("soundcloud: unexpected status %d: %s",
			resp.StatusCode, strings.TrimSpace(string(body)))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", err
	}

	return extractProfile(string(body)), nil
}

// extractProfile picks the first href slug that isn't a known site path or
// a single-character slug.
func extractProfile(html string) string {
	for _, match := range profilePattern.FindAllStringSubmatch(html, -1) {
		slug := match[1]
		if len(slug) <= 1 || sitePaths[slug] {
			continue
		}
		return slug
	}
	return ""
}
