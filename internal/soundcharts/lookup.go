package soundcharts

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/lepinkainen/orpheus/internal/handle"
)

// Artist is a Soundcharts catalog entry.
type Artist struct {
	UUID        string `json:"uuid"`
	Name        string `json:"name"`
	CountryCode string `json:"country_code"`
}

// Identifier is one platform identity attached to a catalog entry. An
// artist can have several entries per platform; Default marks the one
// Soundcharts considers canonical.
type Identifier struct {
	PlatformCode string `json:"platform_code"`
	Identifier   string `json:"identifier"`
	URL          string `json:"url"`
	Default      bool   `json:"default"`
}

type artistPayload struct {
	UUID        string `json:"uuid"`
	Name        string `json:"name"`
	CountryCode string `json:"countryCode"`
}

func (p artistPayload) toArtist() Artist {
	return Artist{UUID: p.UUID, Name: p.Name, CountryCode: p.CountryCode}
}

// LookupBySpotifyID resolves a catalog entry directly from a Spotify artist
// ID, or nil when Soundcharts doesn't know the ID.
func (c *Client) LookupBySpotifyID(ctx context.Context, spotifyID string) (*Artist, error) {
	endpoint := fmt.Sprintf("%s/artist/by-platform/spotify/%s", c.baseURL, url.PathEscape(spotifyID))

	var response struct {
		Object artistPayload `json:"object"`
	}
	if err := c.getJSON(ctx, endpoint, &response); err != nil {
		if errors.Is(err, errNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if response.Object.UUID == "" {
		return nil, nil
	}
	a := response.Object.toArtist()
	return &a, nil
}

// SearchArtists queries the catalog by name, returning up to limit
// candidates.
func (c *Client) SearchArtists(ctx context.Context, name string, limit int) ([]Artist, error) {
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	endpoint := fmt.Sprintf("%s/artist/search/%s?limit=%d", c.baseURL, url.PathEscape(name), limit)

	var response struct {
		Items []artistPayload `json:"items"`
	}
	if err := c.getJSON(ctx, endpoint, &response); err != nil {
		if errors.Is(err, errNotFound) {
			return nil, nil
		}
		return nil, err
	}

	artists := make([]Artist, 0, len(response.Items))
	for _, item := range response.Items {
		if item.UUID == "" {
			continue
		}
		artists = append(artists, item.toArtist())
	}
	return artists, nil
}

// GetIdentifiers fetches the platform identities attached to a catalog
// entry.
func (c *Client) GetIdentifiers(ctx context.Context, uuid string) ([]Identifier, error) {
	endpoint := fmt.Sprintf("%s/artist/%s/identifiers", c.baseURL, url.PathEscape(uuid))

	var response struct {
		Items []struct {
			PlatformCode string `json:"platformCode"`
			Identifier   string `json:"identifier"`
			URL          string `json:"url"`
			Default      bool   `json:"default"`
		} `json:"items"`
	}
	if err := c.getJSON(ctx, endpoint, &response); err != nil {
		if errors.Is(err, errNotFound) {
			return nil, nil
		}
		return nil, err
	}

	identifiers := make([]Identifier, 0, len(response.Items))
	for _, item := range response.Items {
		identifiers = append(identifiers, Identifier{
			PlatformCode: item.PlatformCode,
			Identifier:   item.Identifier,
			URL:          item.URL,
			Default:      item.Default,
		})
	}
	return identifiers, nil
}

// MapIdentifiers translates platform identities into record link fields.
// When a platform carries several identities the default one wins, else the
// first seen.
func MapIdentifiers(identifiers []Identifier) map[string]string {
	// Pick one identifier per platform before mapping to fields.
	chosen := make(map[string]Identifier)
	for _, id := range identifiers {
		current, exists := chosen[id.PlatformCode]
		if !exists || (id.Default && !current.Default) {
			chosen[id.PlatformCode] = id
		}
	}

	links := make(map[string]string)
	set := func(urlField, handleField string, id Identifier) {
		if id.URL == "" {
			return
		}
		links[urlField] = id.URL
		if handleField != "" {
			if h := handle.FromURL(id.URL); h != "" {
				links[handleField] = h
			}
		}
	}

	for platform, id := range chosen {
		switch platform {
		case "spotify":
			if id.Identifier != "" {
				links["spotify_id"] = id.Identifier
			}
		case "instagram":
			set("instagram_url", "instagram_handle", id)
		case "tiktok":
			set("tiktok_url", "tiktok_handle", id)
		case "youtube":
			set("youtube_url", "", id)
			if id.URL != "" {
				if channelID := handle.ChannelIDFromURL(id.URL); channelID != "" {
					links["youtube_channel_id"] = channelID
				}
			}
		case "soundcloud":
			set("soundcloud_url", "soundcloud_handle", id)
		case "twitter", "x":
			set("twitter_url", "twitter_handle", id)
		case "facebook":
			set("facebook_url", "", id)
		}
	}

	return links
}
