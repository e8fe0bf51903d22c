package youtube

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

// ErrQuotaExhausted is returned once the daily API quota has been hit.
var ErrQuotaExhausted = errors.New("youtube: daily quota exhausted")

// Channel is one channel search hit.
type Channel struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// URL returns the canonical channel URL.
func (c Channel) URL() string {
	return "https://www.youtube.com/channel/" + c.ID
}

// SearchChannels searches for channels matching the artist name. The query
// is suffixed with "official artist" to push artist channels up the
// ranking. Auto-generated " - Topic" channels are dropped.
func (c *Client) SearchChannels(ctx context.Context, name string) ([]Channel, error) {
	if c.quotaExhausted.Load() {
		return nil, ErrQuotaExhausted
	}

	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("q", name+" official artist")
	params.Set("type", "channel")
	params.Set("maxResults", strconv.Itoa(defaultMaxResults))
	params.Set("key", c.apiKey)
	endpoint := fmt.Sprintf("%s/search?%s", c.baseURL, params.Encode())

	var response struct {
		Items []struct {
			ID struct {
				ChannelID string `json:"channelId"`
			} `json:"id"`
			Snippet struct {
				Title string `json:"title"`
			} `json:"snippet"`
		} `json:"items"`
	}
	if err := c.getJSON(ctx, endpoint, &response); err != nil {
		return nil, err
	}

	channels := make([]Channel, 0, len(response.Items))
	for _, item := range response.Items {
		if strings.HasSuffix(strings.ToLower(item.Snippet.Title), " - topic") {
			continue
		}
		channels = append(channels, Channel{
			ID:    item.ID.ChannelID,
			Title: item.Snippet.Title,
		})
	}
	return channels, nil
}

// BestChannel applies the channel selection heuristic: a channel whose
// title contains the artist name (or vice versa, case-insensitively) wins;
// otherwise the first non-topic channel is taken. Returns nil when no
// channels remain.
func BestChannel(name string, channels []Channel) *Channel {
	if len(channels) == 0 {
		return nil
	}

	lowerName := strings.ToLower(name)
	for i, ch := range channels {
		lowerTitle := strings.ToLower(ch.Title)
		if strings.Contains(lowerTitle, lowerName) || strings.Contains(lowerName, lowerTitle) {
			return &channels[i]
		}
	}
	return &channels[0]
}

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

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusForbidden:
		// The Data API signals daily-quota exhaustion with 403.
		c.markQuotaExhausted()
		return ErrQuotaExhausted
	case resp.StatusCode == http.StatusTooManyRequests:
		return orpheuserrors.NewRateLimitErrorWithRetry(
			"youtube rate limit exceeded", defaultRetryAfter)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("youtube: unexpected status %d: %s",
			resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return json.NewDecoder(resp.Body).Decode(target)
}

func isRetryable(err error) bool {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		if urlErr.Timeout() {
			return true
		}
		if strings.Contains(urlErr.Error(), "connection") {
			return true
		}
	}
	return false
}

func backoffDelay(attempt int) time.Duration {
	delay := time.Duration(1<<uint(attempt-1)) * time.Second
	if delay > 10*time.Second {
		return 10 * time.Second
	}
	return delay
}
