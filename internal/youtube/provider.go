package youtube

import (
	"context"
	"errors"
	"strings"

	"github.com/lepinkainen/orpheus/internal/artist"
	"github.com/lepinkainen/orpheus/internal/cache"
	"github.com/lepinkainen/orpheus/internal/enrich"
)

const cacheTable = "youtube_cache"

type cachedSearch struct {
	Channels []Channel `json:"channels"`
	NotFound bool      `json:"not_found"`
}

// Provider resolves artist channels through the YouTube Data API and
// contributes youtube_url and youtube_channel_id. After a quota 403 the
// provider is a no-op for the remainder of the run.
type Provider struct {
	client *Client
}

// NewProvider creates an enrichment provider backed by the given client.
func NewProvider(client *Client) *Provider {
	return &Provider{client: client}
}

// Name returns the status tag this provider's contributions are recorded
// under.
func (p *Provider) Name() string { return "youtube_api" }

// Enrich searches for the record's artist channel.
func (p *Provider) Enrich(ctx context.Context, rec *artist.Record) (*enrich.Result, error) {
	if p.client.QuotaExhausted() {
		return nil, nil
	}

	found, _, err := cache.GetOrFetchWithTTL(cacheTable, "search:"+strings.ToLower(rec.Name),
		func() (*cachedSearch, error) {
			channels, err := p.client.SearchChannels(ctx, rec.Name)
			if err != nil {
				return nil, err
			}
			return &cachedSearch{Channels: channels, NotFound: len(channels) == 0}, nil
		},
		cache.SelectNegativeCacheTTL(func(c *cachedSearch) bool { return c.NotFound }))
	if err != nil {
		if errors.Is(err, ErrQuotaExhausted) {
			// Disabled for the rest of the run; not a record error.
			return nil, nil
		}
		return nil, err
	}
	if found.NotFound {
		return nil, nil
	}

	channel := BestChannel(rec.Name, found.Channels)
	if channel == nil {
		return nil, nil
	}

	return &enrich.Result{
		ID: channel.ID,
		Links: map[string]string{
			"youtube_url":        channel.URL(),
			"youtube_channel_id": channel.ID,
		},
	}, nil
}
