package enrich

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/lepinkainen/orpheus/internal/artist"
	"github.com/lepinkainen/orpheus/internal/cmdutil"
	"github.com/lepinkainen/orpheus/internal/config"
	"github.com/lepinkainen/orpheus/internal/fileutil"
	"github.com/lepinkainen/orpheus/internal/obsidian"
)

const artistsSchema = `CREATE TABLE IF NOT EXISTS artists (
		artist_name TEXT PRIMARY KEY,
		soundcharts_uuid TEXT,
		spotify_id TEXT,
		instagram_url TEXT,
		instagram_handle TEXT,
		tiktok_url TEXT,
		tiktok_handle TEXT,
		youtube_url TEXT,
		youtube_channel_id TEXT,
		soundcloud_url TEXT,
		soundcloud_handle TEXT,
		twitter_url TEXT,
		twitter_handle TEXT,
		facebook_url TEXT,
		website_url TEXT,
		artist_country TEXT,
		contact_email_guesses TEXT,
		match_score REAL,
		lookup_status TEXT,
		error_message TEXT
	)`

// writeOutputs produces the optional side outputs after the CSV has been
// written: JSON, markdown notes and the Datasette table.
func writeOutputs(results []artist.Record, opts Options) error {
	if opts.JSON {
		jsonOutput := opts.JSONOutput
		if jsonOutput == "" {
			jsonOutput = filepath.Join("json", "artists.json")
		}
		written, err := fileutil.WriteJSONFile(results, jsonOutput, true)
		if err != nil {
			slog.Error("Error writing artists to JSON", "error", err)
		} else if written {
			slog.Info("Wrote artists to JSON", "path", jsonOutput, "count", len(results))
		}
	}

	if opts.Markdown {
		if err := writeMarkdownNotes(results, opts.MarkdownDir); err != nil {
			slog.Error("Error writing markdown notes", "error", err)
		}
	}

	return writeArtistsToDatasetteIfEnabled(results)
}

func writeArtistsToDatasetteIfEnabled(results []artist.Record) error {
	return cmdutil.WriteToDatastore(results, artistsSchema, "artists", "Enriched artists", artistToMap)
}

func artistToMap(rec artist.Record) map[string]any {
	row := make(map[string]any, len(artist.Columns))
	for _, column := range artist.Columns {
		if column == "match_score" {
			row[column] = rec.MatchScore
			continue
		}
		row[column] = rec.Field(column)
	}
	return row
}

// writeMarkdownNotes writes one note per artist that gathered any data,
// with the links in an Obsidian callout.
func writeMarkdownNotes(results []artist.Record, outputDir string) error {
	cfg := &cmdutil.BaseCommandConfig{
		OutputDir: outputDir,
		ConfigKey: "artists",
	}
	if err := cmdutil.SetupOutputDir(cfg); err != nil {
		return err
	}

	written := 0
	for i := range results {
		rec := &results[i]
		if !rec.HasAnyLink() && rec.SpotifyID == "" {
			continue
		}

		path := fileutil.GetMarkdownFilePath(rec.Name, cfg.OutputDir)
		if fileutil.FileExists(path) && !config.OverwriteFiles {
			// Existing note: refresh the frontmatter, keep the body.
			if err := updateArtistNote(path, rec); err != nil {
				slog.Error("Failed to update markdown note", "artist", rec.Name, "error", err)
				continue
			}
			written++
			continue
		}

		ok, err := fileutil.WriteFileWithOverwrite(path, []byte(buildArtistNote(rec)), 0o644, true)
		if err != nil {
			slog.Error("Failed to write markdown note", "artist", rec.Name, "error", err)
			continue
		}
		if ok {
			written++
		}
	}

	slog.Info("Wrote markdown notes", "directory", cfg.OutputDir, "count", written)
	return nil
}

// updateArtistNote merges fresh identifiers into an existing note's
// frontmatter without touching its body.
func updateArtistNote(path string, rec *artist.Record) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	note, err := obsidian.ParseMarkdown(content)
	if err != nil {
		return err
	}

	setIfMissing := func(key, value string) {
		if value == "" || note.Frontmatter.GetString(key) != "" {
			return
		}
		note.Frontmatter.Set(key, value)
	}
	setIfMissing("title", rec.Name)
	setIfMissing("spotify_id", rec.SpotifyID)
	setIfMissing("soundcharts_uuid", rec.SoundchartsUUID)
	setIfMissing("country", rec.Country)
	setIfMissing("lookup_status", rec.LookupStatus)

	tags := obsidian.MergeTags(note.Frontmatter.GetStringArray("tags"), []string{"artist"})
	if strings.Contains(rec.LookupStatus, artist.StatusAutoGenerated) {
		tags = obsidian.MergeTags(tags, []string{artist.StatusAutoGenerated})
	}
	note.Frontmatter.Set("tags", tags)

	updated, err := note.Build()
	if err != nil {
		return err
	}
	return os.WriteFile(path, updated, 0o644)
}

var linkLabels = map[string]string{
	"instagram_url":  "Instagram",
	"tiktok_url":     "TikTok",
	"youtube_url":    "YouTube",
	"soundcloud_url": "SoundCloud",
	"twitter_url":    "Twitter",
	"facebook_url":   "Facebook",
	"website_url":    "Website",
}

func buildArtistNote(rec *artist.Record) string {
	mb := fileutil.NewMarkdownBuilder()
	mb.AddTitle(rec.Name)
	mb.AddType("artist")
	mb.AddField("spotify_id", rec.SpotifyID)
	mb.AddField("soundcharts_uuid", rec.SoundchartsUUID)
	mb.AddField("country", rec.Country)
	mb.AddField("match_score", rec.MatchScore)
	mb.AddField("lookup_status", rec.LookupStatus)

	tags := []string{"artist"}
	if strings.Contains(rec.LookupStatus, artist.StatusAutoGenerated) {
		tags = append(tags, artist.StatusAutoGenerated)
	}
	mb.AddTags(tags...)

	links := make(map[string]string)
	for _, field := range artist.PlatformFields {
		label, ok := linkLabels[field]
		if !ok {
			continue
		}
		if value := rec.Field(field); value != "" {
			links[label] = value
		}
	}
	if rec.SpotifyID != "" {
		links["Spotify"] = "https://open.spotify.com/artist/" + rec.SpotifyID
	}
	mb.AddExternalLinksCallout("Profiles", links)

	return mb.Build()
}
