// Package enrich drives one pass over a table of artist records, calling a
// configured sequence of providers per record and merging results under a
// never-overwrite policy.
package enrich

import (
	"context"

	"github.com/lepinkainen/orpheus/internal/artist"
)

// Result is what a single provider call discovered for one record.
// A nil *Result means no match; a non-nil Result with an empty Links map
// means a match was found but exposed no links. The two are distinct.
type Result struct {
	// ID is the provider-native identifier of the matched identity
	// (Spotify artist ID, MusicBrainz MBID, Soundcharts UUID).
	ID string
	// Links maps record column names to discovered values. Identifier
	// columns (spotify_id, soundcharts_uuid) travel here too.
	Links map[string]string
	// Score is the selection confidence: 1.0 for an exact name match,
	// lower for positional fallback. 0 means the provider doesn't score.
	Score float64
	// ImageURL is an optional artist image exposed by the provider.
	ImageURL string
}

// Provider is a single external identity/social-link source.
// Enrich inspects the record (name, pre-known identifiers) and returns what
// it found. Implementations pace themselves via their own rate limiters.
type Provider interface {
	Name() string
	Enrich(ctx context.Context, rec *artist.Record) (*Result, error)
}

// ScoreExact is the confidence recorded for an exact case-insensitive
// name match.
const ScoreExact = 1.0

// ScoreForPosition is the confidence for taking the candidate at the given
// zero-based rank when no exact match exists. Positional fallback is a known
// source of false positives, so confidence drops quickly with rank.
func ScoreForPosition(rank int) float64 {
	score := 0.8 - 0.1*float64(rank)
	if score < 0.1 {
		return 0.1
	}
	return score
}
