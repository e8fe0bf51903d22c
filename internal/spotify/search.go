package spotify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	orpheuserrors "github.com/lepinkainen/orpheus/internal/errors"
)

// Artist is a Spotify artist identity.
type Artist struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Popularity int    `json:"popularity"`
	Followers  int    `json:"followers"`
	// ImageURL is the largest artist image, when any exist.
	ImageURL string `json:"image_url,omitempty"`
}

type artistPayload struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Popularity int    `json:"popularity"`
	Followers  struct {
		Total int `json:"total"`
	} `json:"followers"`
	Images []struct {
		URL    string `json:"url"`
		Width  int    `json:"width"`
		Height int    `json:"height"`
	} `json:"images"`
}

func (p artistPayload) toArtist() Artist {
	artist := Artist{
		ID:         p.ID,
		Name:       p.Name,
		Popularity: p.Popularity,
		Followers:  p.Followers.Total,
	}
	maxWidth := 0
	for _, img := range p.Images {
		if img.Width > maxWidth {
			maxWidth = img.Width
			artist.ImageURL = img.URL
		}
	}
	return artist
}

// SearchArtists searches Spotify for artists by name, in API ranking order.
func (c *Client) SearchArtists(ctx context.Context, name string, limit int) ([]Artist, error) {
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	params := url.Values{}
	params.Set("q", name)
	params.Set("type", "artist")
	params.Set("limit", strconv.Itoa(limit))
	endpoint := fmt.Sprintf("%s/v1/search?%s", c.baseURL, params.Encode())

	var response struct {
		Artists struct {
			Items []artistPayload `json:"items"`
		} `json:"artists"`
	}
	if err := c.getJSON(ctx, endpoint, &response); err != nil {
		return nil, err
	}

	artists := make([]Artist, 0, len(response.Artists.Items))
	for _, item := range response.Artists.Items {
		artists = append(artists, item.toArtist())
	}
	return artists, nil
}

// GetArtist fetches one artist by its Spotify ID.
// Returns (nil, nil) when the ID is unknown.
func (c *Client) GetArtist(ctx context.Context, id string) (*Artist, error) {
	endpoint := fmt.Sprintf("%s/v1/artists/%s", c.baseURL, url.PathEscape(id))

	var payload artistPayload
	if err := c.getJSON(ctx, endpoint, &payload); err != nil {
		if errors.Is(err, errNotFound) {
			return nil, nil
		}
		return nil, err
	}

	artist := payload.toArtist()
	return &artist, nil
}

var errNotFound = errors.New("spotify: not found")

func (c *Client) getJSON(ctx context.Context, endpoint string, target any) error {
	var lastErr error
	for attempt := 1; attempt <= c.retryAttempts; attempt++ {
		if err := c.doJSONRequest(ctx, endpoint, target); err != nil {
			lastErr = err
			if !isRetryable(err) || attempt == c.retryAttempts {
				return err
			}
			time.Sleep(backoffDelay(attempt))
			continue
		}
		return nil
	}
	return lastErr
}

func (c *Client) doJSONRequest(ctx context.Context, endpoint string, target any) error {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return err
	}

	resp, err := c.doAuthorized(ctx, endpoint)
	if err != nil {
		return err
	}

	// An expired or revoked token gets one transparent re-auth.
	if resp.StatusCode == http.StatusUnauthorized {
		_ = resp.Body.Close()
		c.invalidateToken()
		resp, err = c.doAuthorized(ctx, endpoint)
		if err != nil {
			return err
		}
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return errNotFound
	case resp.StatusCode == http.StatusTooManyRequests:
		return orpheuserrors.NewRateLimitErrorWithRetry(
			"spotify rate limit exceeded", retryAfterDuration(resp, defaultRetryAfter))
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("spotify: unexpected status %d: %s",
			resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return json.NewDecoder(resp.Body).Decode(target)
}

func (c *Client) doAuthorized(ctx context.Context, endpoint string) (*http.Response, error) {
	token, err := c.ensureToken(ctx)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	return c.httpClient.Do(req)
}

// retryAfterDuration parses a Retry-After header in seconds, falling back
// to the given default.
func retryAfterDuration(resp *http.Response, fallback time.Duration) time.Duration {
	header := resp.Header.Get("Retry-After")
	if header == "" {
		return fallback
	}
	seconds, err := strconv.Atoi(header)
	if err != nil || seconds <= 0 {
		return fallback
	}
	return time.Duration(seconds) * time.Second
}

func isRetryable(err error) bool {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		if urlErr.Timeout() {
			return true
		}
		// Network errors (connection resets etc.)
		if strings.Contains(urlErr.Error(), "connection") {
			return true
		}
	}
	return false
}

func backoffDelay(attempt int) time.Duration {
	// exponential backoff capped at 10 seconds
	delay := time.Duration(1<<uint(attempt-1)) * time.Second
	if delay > 10*time.Second {
		return 10 * time.Second
	}
	return delay
}
