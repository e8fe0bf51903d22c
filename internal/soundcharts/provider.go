package soundcharts

import (
	"context"
	"strings"

	"github.com/lepinkainen/orpheus/internal/artist"
	"github.com/lepinkainen/orpheus/internal/cache"
	"github.com/lepinkainen/orpheus/internal/enrich"
)

const cacheTable = "soundcharts_cache"

type cachedLookup struct {
	Artists  []Artist `json:"artists"`
	NotFound bool     `json:"not_found"`
}

type cachedIdentifiers struct {
	Identifiers []Identifier `json:"identifiers"`
}

// Provider resolves artists through the Soundcharts catalog. It contributes
// the soundcharts_uuid column plus every platform identity the catalog
// carries for the artist.
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
func (p *Provider) Name() string { return "soundcharts" }

// Enrich resolves the record's catalog entry. A pre-known soundcharts_uuid
// skips resolution, a pre-known spotify_id enables a direct lookup, and
// name search is the fallback.
func (p *Provider) Enrich(ctx context.Context, rec *artist.Record) (*enrich.Result, error) {
	uuid := rec.SoundchartsUUID
	score := enrich.ScoreExact
	country := ""

	if uuid == "" && rec.SpotifyID != "" {
		hit, err := p.lookupBySpotifyID(ctx, rec.SpotifyID)
		if err != nil {
			return nil, err
		}
		if hit != nil {
			uuid = hit.UUID
			country = hit.CountryCode
		}
	}

	if uuid == "" {
		hit, hitScore, err := p.searchByName(ctx, rec.Name)
		if err != nil {
			return nil, err
		}
		if hit == nil {
			return nil, nil
		}
		uuid = hit.UUID
		score = hitScore
		country = hit.CountryCode
	}

	identifiers, err := p.fetchIdentifiers(ctx, uuid)
	if err != nil {
		return nil, err
	}

	links := MapIdentifiers(identifiers)
	links["soundcharts_uuid"] = uuid
	if country != "" {
		links["artist_country"] = country
	}

	return &enrich.Result{ID: uuid, Links: links, Score: score}, nil
}

func (p *Provider) lookupBySpotifyID(ctx context.Context, spotifyID string) (*Artist, error) {
	found, _, err := cache.GetOrFetchWithTTL(cacheTable, "spotify:"+spotifyID,
		func() (*cachedLookup, error) {
			a, err := p.client.LookupBySpotifyID(ctx, spotifyID)
			if err != nil {
				return nil, err
			}
			if a == nil {
				return &cachedLookup{NotFound: true}, nil
			}
			return &cachedLookup{Artists: []Artist{*a}}, nil
		},
		cache.SelectNegativeCacheTTL(func(c *cachedLookup) bool { return c.NotFound }))
	if err != nil {
		return nil, err
	}
	if found.NotFound || len(found.Artists) == 0 {
		return nil, nil
	}
	return &found.Artists[0], nil
}

func (p *Provider) searchByName(ctx context.Context, name string) (*Artist, float64, error) {
	found, _, err := cache.GetOrFetchWithTTL(cacheTable, "search:"+strings.ToLower(name),
		func() (*cachedLookup, error) {
			artists, err := p.client.SearchArtists(ctx, name, defaultSearchLimit)
			if err != nil {
				return nil, err
			}
			return &cachedLookup{Artists: artists, NotFound: len(artists) == 0}, nil
		},
		cache.SelectNegativeCacheTTL(func(c *cachedLookup) bool { return c.NotFound }))
	if err != nil {
		return nil, 0, err
	}
	if found.NotFound || len(found.Artists) == 0 {
		return nil, 0, nil
	}

	candidates := make([]enrich.Candidate, len(found.Artists))
	for i, a := range found.Artists {
		candidates[i] = enrich.Candidate{ID: a.UUID, Name: a.Name, Detail: a.CountryCode}
	}

	idx, score := enrich.PickByName(name, candidates)
	if p.Select != nil && score < enrich.ScoreExact {
		idx, err = p.Select(name, candidates)
		if err != nil {
			return nil, 0, err
		}
		if idx < 0 {
			return nil, 0, nil
		}
		score = enrich.ScoreExact
	}

	return &found.Artists[idx], score, nil
}

func (p *Provider) fetchIdentifiers(ctx context.Context, uuid string) ([]Identifier, error) {
	found, _, err := cache.GetOrFetch(cacheTable, "identifiers:"+uuid,
		func() (*cachedIdentifiers, error) {
			identifiers, err := p.client.GetIdentifiers(ctx, uuid)
			if err != nil {
				return nil, err
			}
			return &cachedIdentifiers{Identifiers: identifiers}, nil
		})
	if err != nil {
		return nil, err
	}
	return found.Identifiers, nil
}
