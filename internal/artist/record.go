// Package artist defines the enrichment record and its CSV round-trip.
package artist

import (
	"sort"
	"strings"
)

// StatusNoResults is the lookup status for a record no source contributed to.
const StatusNoResults = "no_results"

// StatusAutoGenerated tags data produced by the URL guesser rather than a
// provider lookup. Guessed and verified data are never conflated without it.
const StatusAutoGenerated = "auto_generated"

// Record is one artist or playlist-curator identity being enriched.
// A non-empty field is never overwritten by a later provider, in the same
// run or a subsequent one.
type Record struct {
	Name            string `json:"artist_name"`
	SoundchartsUUID string `json:"soundcharts_uuid,omitempty"`
	SpotifyID       string `json:"spotify_id,omitempty"`

	InstagramURL    string `json:"instagram_url,omitempty"`
	InstagramHandle string `json:"instagram_handle,omitempty"`
	TikTokURL       string `json:"tiktok_url,omitempty"`
	TikTokHandle    string `json:"tiktok_handle,omitempty"`
	YouTubeURL      string `json:"youtube_url,omitempty"`
	YouTubeChannel  string `json:"youtube_channel_id,omitempty"`
	SoundCloudURL   string `json:"soundcloud_url,omitempty"`
	SoundCloudUser  string `json:"soundcloud_handle,omitempty"`
	TwitterURL      string `json:"twitter_url,omitempty"`
	TwitterHandle   string `json:"twitter_handle,omitempty"`
	FacebookURL     string `json:"facebook_url,omitempty"`
	WebsiteURL      string `json:"website_url,omitempty"`

	Country       string  `json:"artist_country,omitempty"`
	ContactEmails string  `json:"contact_email_guesses,omitempty"`
	MatchScore    float64 `json:"match_score,omitempty"`
	LookupStatus  string  `json:"lookup_status,omitempty"`
	ErrorMessage  string  `json:"error_message,omitempty"`

	// Extra holds input columns we don't recognize; they pass through to
	// the output untouched.
	Extra map[string]string `json:"-"`
}

// Columns is the fixed output column order.
var Columns = []string{
	"artist_name",
	"soundcharts_uuid",
	"spotify_id",
	"instagram_url",
	"instagram_handle",
	"tiktok_url",
	"tiktok_handle",
	"youtube_url",
	"youtube_channel_id",
	"soundcloud_url",
	"soundcloud_handle",
	"twitter_url",
	"twitter_handle",
	"facebook_url",
	"website_url",
	"artist_country",
	"contact_email_guesses",
	"match_score",
	"lookup_status",
	"error_message",
}

// PlatformFields are the social-link columns providers can contribute to.
var PlatformFields = []string{
	"instagram_url",
	"instagram_handle",
	"tiktok_url",
	"tiktok_handle",
	"youtube_url",
	"youtube_channel_id",
	"soundcloud_url",
	"soundcloud_handle",
	"twitter_url",
	"twitter_handle",
	"facebook_url",
	"website_url",
}

// Field returns the value of a column by name, or "" for unknown columns.
func (r *Record) Field(name string) string {
	switch name {
	case "artist_name":
		return r.Name
	case "soundcharts_uuid":
		return r.SoundchartsUUID
	case "spotify_id":
		return r.SpotifyID
	case "instagram_url":
		return r.InstagramURL
	case "instagram_handle":
		return r.InstagramHandle
	case "tiktok_url":
		return r.TikTokURL
	case "tiktok_handle":
		return r.TikTokHandle
	case "youtube_url":
		return r.YouTubeURL
	case "youtube_channel_id":
		return r.YouTubeChannel
	case "soundcloud_url":
		return r.SoundCloudURL
	case "soundcloud_handle":
		return r.SoundCloudUser
	case "twitter_url":
		return r.TwitterURL
	case "twitter_handle":
		return r.TwitterHandle
	case "facebook_url":
		return r.FacebookURL
	case "website_url":
		return r.WebsiteURL
	case "artist_country":
		return r.Country
	case "contact_email_guesses":
		return r.ContactEmails
	case "lookup_status":
		return r.LookupStatus
	case "error_message":
		return r.ErrorMessage
	default:
		return ""
	}
}

// SetField sets a column by name. Unknown names are ignored so provider
// link maps can carry fields we don't store.
func (r *Record) SetField(name, value string) {
	switch name {
	case "artist_name":
		r.Name = value
	case "soundcharts_uuid":
		r.SoundchartsUUID = value
	case "spotify_id":
		r.SpotifyID = value
	case "instagram_url":
		r.InstagramURL = value
	case "instagram_handle":
		r.InstagramHandle = value
	case "tiktok_url":
		r.TikTokURL = value
	case "tiktok_handle":
		r.TikTokHandle = value
	case "youtube_url":
		r.YouTubeURL = value
	case "youtube_channel_id":
		r.YouTubeChannel = value
	case "soundcloud_url":
		r.SoundCloudURL = value
	case "soundcloud_handle":
		r.SoundCloudUser = value
	case "twitter_url":
		r.TwitterURL = value
	case "twitter_handle":
		r.TwitterHandle = value
	case "facebook_url":
		r.FacebookURL = value
	case "website_url":
		r.WebsiteURL = value
	case "artist_country":
		r.Country = value
	case "contact_email_guesses":
		r.ContactEmails = value
	case "lookup_status":
		r.LookupStatus = value
	case "error_message":
		r.ErrorMessage = value
	}
}

// Merge fills empty fields from the given link map under the never-overwrite
// policy and returns the names of the fields that were actually filled.
// Fields that already hold a value are left alone.
func (r *Record) Merge(links map[string]string) []string {
	var filled []string
	for field, value := range links {
		if value == "" {
			continue
		}
		if r.Field(field) != "" {
			continue
		}
		r.SetField(field, value)
		filled = append(filled, field)
	}
	sort.Strings(filled)
	return filled
}

// AddStatus appends a source tag to the lookup status, keeping tags unique
// and replacing a prior no_results marker.
func (r *Record) AddStatus(tag string) {
	if tag == "" {
		return
	}
	if r.LookupStatus == "" || r.LookupStatus == StatusNoResults {
		r.LookupStatus = tag
		return
	}
	for _, existing := range strings.Split(r.LookupStatus, ",") {
		if existing == tag {
			return
		}
	}
	r.LookupStatus += "," + tag
}

// HasAnyLink reports whether any platform field holds a value.
func (r *Record) HasAnyLink() bool {
	for _, field := range PlatformFields {
		if r.Field(field) != "" {
			return true
		}
	}
	return false
}

// MissingFields returns the platform fields that are still empty.
func (r *Record) MissingFields() []string {
	var missing []string
	for _, field := range PlatformFields {
		if r.Field(field) == "" {
			missing = append(missing, field)
		}
	}
	return missing
}

// SortByName orders records by name, case-insensitively. Parallel runs
// collect results in completion order; this restores a stable order.
func SortByName(records []Record) {
	sort.Slice(records, func(i, j int) bool {
		return strings.ToLower(records[i].Name) < strings.ToLower(records[j].Name)
	})
}
