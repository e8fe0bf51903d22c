// Package verify checks an enriched spreadsheet: URL shape per platform,
// fill-rate reporting and optional backfilling of derivable fields.
package verify

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/lepinkainen/orpheus/internal/artist"
	"github.com/lepinkainen/orpheus/internal/handle"
)

// urlPatterns defines the accepted URL shape per platform column. A filled
// field that doesn't match is reported as invalid, never rewritten.
var urlPatterns = map[string]*regexp.Regexp{
	"instagram_url":  regexp.MustCompile(`^https://(www\.)?instagram\.com/[\w.\-]+/?$`),
	"tiktok_url":     regexp.MustCompile(`^https://(www\.)?tiktok\.com/@[\w.\-]+/?$`),
	"youtube_url":    regexp.MustCompile(`^https://(www\.)?youtube\.com/(channel/[\w\-]+|c/[\w.\-]+|user/[\w.\-]+|@[\w.\-]+)/?$`),
	"soundcloud_url": regexp.MustCompile(`^https://(www\.)?soundcloud\.com/[\w\-]+/?$`),
	"twitter_url":    regexp.MustCompile(`^https://((www\.)?twitter\.com|x\.com)/[\w]+/?$`),
	"facebook_url":   regexp.MustCompile(`^https://(www\.)?facebook\.com/[\w.\-]+/?$`),
	"website_url":    regexp.MustCompile(`^https?://\S+$`),
}

// FieldStats summarizes one column across the spreadsheet.
type FieldStats struct {
	Field   string
	Filled  int
	Invalid int
}

// Report is the outcome of a verification pass.
type Report struct {
	Total     int
	NoResults int
	Guessed   int
	Fields    []FieldStats
	// InvalidValues maps "name/field" to the offending value for log output.
	InvalidValues map[string]string
}

// Options configures a verification run.
type Options struct {
	Input string
	// Fix backfills fields derivable from existing ones and rewrites the
	// file in place.
	Fix bool
}

// Run verifies the spreadsheet and prints the fill-rate table. With Fix
// set, derivable fields are backfilled first and the file rewritten.
func Run(opts Options) error {
	records, err := artist.ReadCSV(opts.Input)
	if err != nil {
		return err
	}

	if opts.Fix {
		fixed := FixRecords(records)
		if fixed > 0 {
			if err := artist.WriteCSV(opts.Input, records); err != nil {
				return fmt.Errorf("failed to rewrite spreadsheet: %w", err)
			}
			slog.Info("Backfilled derivable fields", "fields_filled", fixed, "file", opts.Input)
		}
	}

	report := Verify(records)
	fmt.Println(renderReport(report))

	for key, value := range report.InvalidValues {
		slog.Warn("Invalid URL shape", "where", key, "value", value)
	}
	return nil
}

// Verify computes fill counts and URL-shape validity for every platform
// column.
func Verify(records []artist.Record) Report {
	report := Report{
		Total:         len(records),
		InvalidValues: make(map[string]string),
	}

	for i := range records {
		status := records[i].LookupStatus
		if status == "" || status == artist.StatusNoResults {
			report.NoResults++
		}
		if strings.Contains(status, artist.StatusAutoGenerated) {
			report.Guessed++
		}
	}

	for _, field := range artist.PlatformFields {
		stats := FieldStats{Field: field}
		pattern := urlPatterns[field]
		for i := range records {
			value := records[i].Field(field)
			if value == "" {
				continue
			}
			stats.Filled++
			if pattern != nil && !pattern.MatchString(value) {
				stats.Invalid++
				report.InvalidValues[records[i].Name+"/"+field] = value
			}
		}
		report.Fields = append(report.Fields, stats)
	}

	return report
}

// FixRecords backfills fields derivable from ones already present: handles
// from profile URLs and the channel ID from the YouTube URL. Returns how
// many fields were filled.
func FixRecords(records []artist.Record) int {
	fixed := 0
	for i := range records {
		rec := &records[i]
		fixed += backfill(rec, "instagram_url", "instagram_handle")
		fixed += backfill(rec, "tiktok_url", "tiktok_handle")
		fixed += backfill(rec, "twitter_url", "twitter_handle")
		fixed += backfill(rec, "soundcloud_url", "soundcloud_handle")

		if rec.YouTubeChannel == "" && rec.YouTubeURL != "" {
			if id := handle.ChannelIDFromURL(rec.YouTubeURL); id != "" {
				rec.YouTubeChannel = id
				fixed++
			}
		}
	}
	return fixed
}

func backfill(rec *artist.Record, urlField, handleField string) int {
	if rec.Field(handleField) != "" || rec.Field(urlField) == "" {
		return 0
	}
	h := handle.FromURL(rec.Field(urlField))
	if h == "" {
		return 0
	}
	rec.SetField(handleField, h)
	return 1
}
