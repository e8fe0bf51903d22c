package musicbrainz

import (
	"context"
	"log/slog"
	"strings"

	"github.com/lepinkainen/orpheus/internal/artist"
	"github.com/lepinkainen/orpheus/internal/cache"
	"github.com/lepinkainen/orpheus/internal/enrich"
)

const cacheTable = "musicbrainz_cache"

type cachedArtist struct {
	Artist   *Artist `json:"artist"`
	NotFound bool    `json:"not_found"`
}

type cachedRelations struct {
	Relations []RelationURL `json:"relations"`
}

// Provider resolves artists through MusicBrainz and maps their URL
// relations onto the record's platform fields. Name→MBID resolutions
// persist in the JSON identifier cache across runs.
type Provider struct {
	client *Client
	// MinScore is the minimum search score (0-100) accepted as a match.
	MinScore int
	// IDCache is optional; when set, known names skip the search step.
	IDCache *IDCache
}

// NewProvider creates an enrichment provider backed by the given client.
func NewProvider(client *Client) *Provider {
	return &Provider{client: client, MinScore: DefaultMinScore}
}

// Name returns the status tag this provider's contributions are recorded
// under.
func (p *Provider) Name() string { return "musicbrainz" }

// Enrich resolves the record's MusicBrainz identity and maps its URL
// relations. A cached MBID skips the name search entirely.
func (p *Provider) Enrich(ctx context.Context, rec *artist.Record) (*enrich.Result, error) {
	mbid, score, country, err := p.resolveMBID(ctx, rec.Name)
	if err != nil {
		return nil, err
	}
	if mbid == "" {
		return nil, nil
	}

	relations, err := p.fetchRelations(ctx, mbid)
	if err != nil {
		return nil, err
	}

	links := MapRelations(relations)
	if country != "" {
		links["artist_country"] = country
	}

	return &enrich.Result{ID: mbid, Links: links, Score: score}, nil
}

// resolveMBID returns the MBID, normalized confidence and country for the
// name, consulting the identifier cache first. An empty MBID means no
// acceptable match.
func (p *Provider) resolveMBID(ctx context.Context, name string) (string, float64, string, error) {
	if p.IDCache != nil {
		if mbid, ok := p.IDCache.Get(name); ok {
			return mbid, enrich.ScoreExact, "", nil
		}
	}

	found, _, err := cache.GetOrFetchWithTTL(cacheTable, "search:"+strings.ToLower(name),
		func() (*cachedArtist, error) {
			hit, err := p.client.SearchArtist(ctx, name)
			if err != nil {
				return nil, err
			}
			return &cachedArtist{Artist: hit, NotFound: hit == nil}, nil
		},
		cache.SelectNegativeCacheTTL(func(c *cachedArtist) bool { return c.NotFound }))
	if err != nil {
		return "", 0, "", err
	}
	if found.NotFound || found.Artist == nil {
		return "", 0, "", nil
	}

	hit := found.Artist
	minScore := p.MinScore
	if minScore <= 0 {
		minScore = DefaultMinScore
	}
	if hit.Score < minScore {
		slog.Debug("MusicBrainz hit below score threshold",
			"artist", name, "hit", hit.Name, "score", hit.Score, "min_score", minScore)
		return "", 0, "", nil
	}

	if p.IDCache != nil {
		if err := p.IDCache.Put(name, hit.MBID); err != nil {
			slog.Warn("Failed to persist identifier cache", "error", err)
		}
	}

	return hit.MBID, float64(hit.Score) / 100, hit.Country, nil
}

func (p *Provider) fetchRelations(ctx context.Context, mbid string) ([]RelationURL, error) {
	found, _, err := cache.GetOrFetch(cacheTable, "relations:"+mbid,
		func() (*cachedRelations, error) {
			relations, err := p.client.GetRelationURLs(ctx, mbid)
			if err != nil {
				return nil, err
			}
			return &cachedRelations{Relations: relations}, nil
		})
	if err != nil {
		return nil, err
	}
	return found.Relations, nil
}
