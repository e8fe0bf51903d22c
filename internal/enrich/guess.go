package enrich

import (
	"context"
	"strings"

	"github.com/lepinkainen/orpheus/internal/artist"
	"github.com/lepinkainen/orpheus/internal/handle"
)

// GuessProvider constructs unverified profile URLs by templating the
// normalized artist name into each platform's canonical URL shape. It is
// pattern generation, not discovery: everything it contributes is tagged
// auto_generated and never conflated with provider-verified data.
type GuessProvider struct {
	// CuratorSuffixes also strips trailing curator suffixes like
	// "Records" or "Music" when normalizing the name.
	CuratorSuffixes bool
	// ContactEmails additionally fills the contact_email_guesses column.
	ContactEmails bool
}

// Name returns the status tag guessed data is recorded under.
func (g *GuessProvider) Name() string {
	return artist.StatusAutoGenerated
}

// Enrich guesses links for the record's name. A name with nothing left
// after normalization yields no match rather than empty-handle URLs.
func (g *GuessProvider) Enrich(_ context.Context, rec *artist.Record) (*Result, error) {
	h := handle.Normalize(rec.Name)
	if g.CuratorSuffixes {
		h = handle.NormalizeCurator(rec.Name)
	}

	links := handle.GuessLinks(h)
	if links == nil {
		return nil, nil
	}

	if g.ContactEmails {
		links["contact_email_guesses"] = strings.Join(handle.GuessEmails(h), ";")
	}

	return &Result{Links: links}, nil
}
