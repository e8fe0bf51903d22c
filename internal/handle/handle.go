// Package handle extracts platform handles from profile URLs and constructs
// guessed profile URLs from artist names. Guessed URLs are pattern
// generation, not discovery, and must always be labeled auto_generated.
package handle

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	namePrefixRe    = regexp.MustCompile(`^(dj|lil|young|big|the)\s+`)
	curatorSuffixRe = regexp.MustCompile(`\s+(music|records|magazine|recordings)$`)
	allowedCharsRe  = regexp.MustCompile(`[^a-z0-9_]`)
	channelIDRe     = regexp.MustCompile(`/channel/([A-Za-z0-9_-]+)`)
)

// FromURL extracts a handle from a social profile URL.
// It strips a trailing slash and query string, takes the final path segment
// and removes a leading "@". Returns "" on malformed or empty input.
func FromURL(raw string) string {
	if raw == "" {
		return ""
	}

	trimmed := strings.TrimSuffix(raw, "/")
	if idx := strings.Index(trimmed, "?"); idx >= 0 {
		trimmed = trimmed[:idx]
		trimmed = strings.TrimSuffix(trimmed, "/")
	}

	segment := trimmed
	if idx := strings.LastIndex(trimmed, "/"); idx >= 0 {
		segment = trimmed[idx+1:]
	}

	return strings.TrimPrefix(segment, "@")
}

// ChannelIDFromURL extracts a YouTube channel identifier from a channel URL.
// /channel/<id> URLs yield the raw channel ID; /@handle, /c/<name> and
// /user/<name> URLs yield the handle-style identifier. Returns "" when no
// identifier is present.
func ChannelIDFromURL(raw string) string {
	if raw == "" {
		return ""
	}

	if m := channelIDRe.FindStringSubmatch(raw); m != nil {
		return m[1]
	}

	trimmed := strings.TrimSuffix(raw, "/")
	if idx := strings.Index(trimmed, "?"); idx >= 0 {
		trimmed = strings.TrimSuffix(trimmed[:idx], "/")
	}

	for _, prefix := range []string{"/c/", "/user/"} {
		if idx := strings.Index(trimmed, prefix); idx >= 0 {
			return strings.TrimPrefix(prefix, "/") + trimmed[idx+len(prefix):]
		}
	}

	if idx := strings.LastIndex(trimmed, "/@"); idx >= 0 {
		return trimmed[idx+1:]
	}

	return ""
}

// Normalize turns an artist name into a guessable handle: lowercase, strip
// common artist-name prefixes on a word boundary, remove everything outside
// [a-z0-9_]. Returns "" when nothing survives, in which case no URLs should
// be guessed.
func Normalize(name string) string {
	lower := strings.ToLower(strings.TrimSpace(name))
	lower = namePrefixRe.ReplaceAllString(lower, "")
	return allowedCharsRe.ReplaceAllString(lower, "")
}

// NormalizeCurator is Normalize plus stripping trailing playlist-curator
// suffixes ("music", "records", "magazine", "recordings").
func NormalizeCurator(name string) string {
	lower := strings.ToLower(strings.TrimSpace(name))
	lower = namePrefixRe.ReplaceAllString(lower, "")
	lower = curatorSuffixRe.ReplaceAllString(lower, "")
	return allowedCharsRe.ReplaceAllString(lower, "")
}

// GuessLinks templates a handle into each platform's canonical profile URL
// shape. One handle feeds every platform. Returns nil for an empty handle so
// callers never emit empty-handle URLs.
func GuessLinks(h string) map[string]string {
	if h == "" {
		return nil
	}

	return map[string]string{
		"instagram_url":     fmt.Sprintf("https://www.instagram.com/%s", h),
		"instagram_handle":  h,
		"tiktok_url":        fmt.Sprintf("https://www.tiktok.com/@%s", h),
		"tiktok_handle":     h,
		"youtube_url":       fmt.Sprintf("https://www.youtube.com/@%s", h),
		"twitter_url":       fmt.Sprintf("https://twitter.com/%s", h),
		"twitter_handle":    h,
		"soundcloud_url":    fmt.Sprintf("https://soundcloud.com/%s", h),
		"soundcloud_handle": h,
		"facebook_url":      fmt.Sprintf("https://www.facebook.com/%s", h),
		"website_url":       fmt.Sprintf("https://%s.com", h),
	}
}

// GuessEmails returns common contact address patterns for a handle's
// presumed domain. Returns nil for an empty handle.
func GuessEmails(h string) []string {
	if h == "" {
		return nil
	}

	return []string{
		fmt.Sprintf("contact@%s.com", h),
		fmt.Sprintf("info@%s.com", h),
		fmt.Sprintf("hello@%s.com", h),
		fmt.Sprintf("support@%s.com", h),
	}
}
