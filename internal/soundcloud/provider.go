package soundcloud

import (
	"context"
	"strings"

	"github.com/lepinkainen/orpheus/internal/artist"
	"github.com/lepinkainen/orpheus/internal/cache"
	"github.com/lepinkainen/orpheus/internal/enrich"
)

const cacheTable = "soundcloud_cache"

type cachedProfile struct {
	Slug     string `json:"slug"`
	NotFound bool   `json:"not_found"`
}

// Provider finds SoundCloud profiles via the public people search. Search
// results come from page scraping, so matches are positional rather than
// scored.
type Provider struct {
	client *Client
}

// NewProvider creates an enrichment provider backed by the given client.
func NewProvider(client *Client) *Provider {
	return &Provider{client: client}
}

// Name returns the status tag this provider's contributions are recorded
// under.
func (p *Provider) Name() string { return "soundcloud_search" }

// Enrich fills the soundcloud columns from the first plausible search
// result.
func (p *Provider) Enrich(ctx context.Context, rec *artist.Record) (*enrich.Result, error) {
	found, _, err := cache.GetOrFetchWithTTL(cacheTable, "people:"+strings.ToLower(rec.Name),
		func() (*cachedProfile, error) {
			slug, err := p.client.SearchProfile(ctx, rec.Name)
			if err != nil {
				return nil, err
			}
			return &cachedProfile{Slug: slug, NotFound: slug == ""}, nil
		},
		cache.SelectNegativeCacheTTL(func(c *cachedProfile) bool { return c.NotFound }))
	if err != nil {
		return nil, err
	}
	if found.NotFound || found.Slug == "" {
		return nil, nil
	}

	return &enrich.Result{
		ID: found.Slug,
		Links: map[string]string{
			"soundcloud_url":    "https://soundcloud.com/" + found.Slug,
			"soundcloud_handle": found.Slug,
		},
		Score: enrich.ScoreForPosition(0),
	}, nil
}
