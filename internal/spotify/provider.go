package spotify

import (
	"context"
	"fmt"
	"strings"

	"github.com/lepinkainen/orpheus/internal/artist"
	"github.com/lepinkainen/orpheus/internal/cache"
	"github.com/lepinkainen/orpheus/internal/enrich"
)

// cacheTable is this provider's response cache table.
const cacheTable = "spotify_cache"

// cachedSearch wraps search responses so "no candidates" can be
// negative-cached with a shorter TTL.
type cachedSearch struct {
	Artists  []Artist `json:"artists"`
	NotFound bool     `json:"not_found"`
}

// Provider resolves artists through the Spotify Web API. It contributes the
// spotify_id column and exposes artist images for the download pipeline.
type Provider struct {
	client *Client
	// Select, when set, resolves ambiguous name searches interactively.
	Select enrich.SelectFunc
}

// NewProvider creates an enrichment provider backed by the given client.
func NewProvider(client *Client) *Provider {
	return &Provider{client: client}
}

// Name returns the status tag this provider's contributions are recorded
// under.
func (p *Provider) Name() string { return "spotify" }

// Enrich resolves the record's Spotify identity. A pre-known spotify_id is
// looked up directly; name search is the fallback.
func (p *Provider) Enrich(ctx context.Context, rec *artist.Record) (*enrich.Result, error) {
	if rec.SpotifyID != "" {
		result, err := p.lookupByID(ctx, rec.SpotifyID)
		if err == nil && result != nil {
			return result, nil
		}
		// Direct lookup failed; fall through to name search.
	}
	return p.searchByName(ctx, rec.Name)
}

func (p *Provider) lookupByID(ctx context.Context, id string) (*enrich.Result, error) {
	found, _, err := cache.GetOrFetchWithTTL(cacheTable, "artist:"+id,
		func() (*cachedSearch, error) {
			a, err := p.client.GetArtist(ctx, id)
			if err != nil {
				return nil, err
			}
			if a == nil {
				return &cachedSearch{NotFound: true}, nil
			}
			return &cachedSearch{Artists: []Artist{*a}}, nil
		},
		cache.SelectNegativeCacheTTL(func(c *cachedSearch) bool { return c.NotFound }))
	if err != nil {
		return nil, err
	}
	if found.NotFound || len(found.Artists) == 0 {
		return nil, nil
	}

	a := found.Artists[0]
	return &enrich.Result{
		ID:       a.ID,
		Links:    map[string]string{"spotify_id": a.ID},
		Score:    enrich.ScoreExact,
		ImageURL: a.ImageURL,
	}, nil
}

func (p *Provider) searchByName(ctx context.Context, name string) (*enrich.Result, error) {
	found, _, err := cache.GetOrFetchWithTTL(cacheTable, "search:"+strings.ToLower(name),
		func() (*cachedSearch, error) {
			artists, err := p.client.SearchArtists(ctx, name, defaultSearchLimit)
			if err != nil {
				return nil, err
			}
			return &cachedSearch{Artists: artists, NotFound: len(artists) == 0}, nil
		},
		cache.SelectNegativeCacheTTL(func(c *cachedSearch) bool { return c.NotFound }))
	if err != nil {
		return nil, err
	}
	if found.NotFound || len(found.Artists) == 0 {
		return nil, nil
	}

	candidates := make([]enrich.Candidate, len(found.Artists))
	for i, a := range found.Artists {
		candidates[i] = enrich.Candidate{
			ID:     a.ID,
			Name:   a.Name,
			Detail: fmt.Sprintf("popularity %d, %d followers", a.Popularity, a.Followers),
		}
	}

	idx, score := enrich.PickByName(name, candidates)
	if p.Select != nil && score < enrich.ScoreExact {
		idx, err = p.Select(name, candidates)
		if err != nil {
			return nil, err
		}
		if idx < 0 {
			return nil, nil
		}
		score = enrich.ScoreExact
	}

	a := found.Artists[idx]
	return &enrich.Result{
		ID:       a.ID,
		Links:    map[string]string{"spotify_id": a.ID},
		Score:    score,
		ImageURL: a.ImageURL,
	}, nil
}
