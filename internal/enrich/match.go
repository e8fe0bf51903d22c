package enrich

import "strings"

// Candidate is one name-search hit offered for selection.
type Candidate struct {
	// ID is the provider-native identifier.
	ID string
	// Name is the candidate's display name.
	Name string
	// Detail is optional extra context for interactive display
	// (country, follower count, genre).
	Detail string
}

// SelectFunc resolves an ambiguous name search interactively. It returns the
// chosen candidate index, -1 to skip the record, or a StopProcessingError to
// abort the run.
type SelectFunc func(searchName string, candidates []Candidate) (int, error)

// PickByName applies the shared selection policy: prefer an exact
// case-insensitive name match, otherwise take the first (highest-ranked)
// candidate. Returns the chosen index and its confidence score, or (-1, 0)
// when there are no candidates. Positional fallback silently attaches the
// wrong identity for common names, which is why the score is surfaced.
func PickByName(searchName string, candidates []Candidate) (int, float64) {
	if len(candidates) == 0 {
		return -1, 0
	}
	for i, c := range candidates {
		if strings.EqualFold(c.Name, searchName) {
			return i, ScoreExact
		}
	}
	return 0, ScoreForPosition(0)
}
