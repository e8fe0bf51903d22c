package fileutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMarkdownBuilder(t *testing.T) {
	builder := NewMarkdownBuilder()

	doc := builder.
		AddTitle("Drake").
		AddType("artist").
		AddField("spotify_id", "3TVXtAsR1Inumwj472S9r4").
		AddField("match_score", 1.0).
		AddField("country", "CA").
		AddTags("artist", "auto_generated").
		Build()

	// Check that frontmatter exists
	assert.True(t, strings.HasPrefix(doc, "---\n"))
	assert.True(t, strings.Contains(doc, "---\n\n"))

	// Check frontmatter fields
	assert.Contains(t, doc, "title: \"Drake\"")
	assert.Contains(t, doc, "type: artist")
	assert.Contains(t, doc, "spotify_id: \"3TVXtAsR1Inumwj472S9r4\"")
	assert.Contains(t, doc, "match_score: 1.0")
	assert.Contains(t, doc, "country: \"CA\"")

	// Check tags
	assert.Contains(t, doc, "tags:")
	assert.Contains(t, doc, "  - artist")
	assert.Contains(t, doc, "  - auto_generated")
}

func TestMarkdownBuilderSkipsEmptyFields(t *testing.T) {
	doc := NewMarkdownBuilder().
		AddTitle("Drake").
		AddField("soundcharts_uuid", "").
		AddField("match_score", 0.0).
		Build()

	assert.NotContains(t, doc, "soundcharts_uuid")
	assert.NotContains(t, doc, "match_score")
}

func TestExternalLinksCallout(t *testing.T) {
	builder := NewMarkdownBuilder()

	links := map[string]string{
		"Instagram":  "https://www.instagram.com/champagnepapi",
		"SoundCloud": "https://soundcloud.com/octobersveryown",
	}

	doc := builder.AddExternalLinksCallout("Profiles", links).Build()

	assert.Contains(t, doc, ">[!info]- Profiles")
	assert.Contains(t, doc, "> [Instagram](https://www.instagram.com/champagnepapi)")
	assert.Contains(t, doc, "> [SoundCloud](https://soundcloud.com/octobersveryown)")
}

func TestExternalLinksCalloutEmpty(t *testing.T) {
	doc := NewMarkdownBuilder().AddExternalLinksCallout("Profiles", nil).Build()
	assert.NotContains(t, doc, "Profiles")
}
