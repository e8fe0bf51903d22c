package musicbrainz

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/lepinkainen/orpheus/internal/handle"
)

// Artist is a MusicBrainz artist search hit.
type Artist struct {
	MBID    string `json:"mbid"`
	Name    string `json:"name"`
	Score   int    `json:"score"`
	Country string `json:"country"`
}

// SearchArtist queries the artist index for the best hit, or nil when the
// index has no candidates at all.
func (c *Client) SearchArtist(ctx context.Context, name string) (*Artist, error) {
	params := url.Values{}
	params.Set("query", fmt.Sprintf("artist:%q", name))
	params.Set("fmt", "json")
	params.Set("limit", "1")
	endpoint := fmt.Sprintf("%s/artist?%s", c.baseURL, params.Encode())

	var response struct {
		Artists []struct {
			ID      string `json:"id"`
			Name    string `json:"name"`
			Score   int    `json:"score"`
			Country string `json:"country"`
		} `json:"artists"`
	}
	if err := c.getJSON(ctx, endpoint, &response); err != nil {
		return nil, err
	}
	if len(response.Artists) == 0 {
		return nil, nil
	}

	top := response.Artists[0]
	return &Artist{
		MBID:    top.ID,
		Name:    top.Name,
		Score:   top.Score,
		Country: top.Country,
	}, nil
}

// GetRelationURLs fetches the artist's URL relations (social profiles,
// official homepage) by MBID.
func (c *Client) GetRelationURLs(ctx context.Context, mbid string) ([]RelationURL, error) {
	params := url.Values{}
	params.Set("inc", "url-rels")
	params.Set("fmt", "json")
	endpoint := fmt.Sprintf("%s/artist/%s?%s", c.baseURL, url.PathEscape(mbid), params.Encode())

	var response struct {
		Relations []struct {
			Type string `json:"type"`
			URL  struct {
				Resource string `json:"resource"`
			} `json:"url"`
		} `json:"relations"`
	}
	if err := c.getJSON(ctx, endpoint, &response); err != nil {
		return nil, err
	}

	relations := make([]RelationURL, 0, len(response.Relations))
	for _, rel := range response.Relations {
		if rel.URL.Resource == "" {
			continue
		}
		relations = append(relations, RelationURL{Type: rel.Type, URL: rel.URL.Resource})
	}
	return relations, nil
}

// RelationURL is one url-rels entry.
type RelationURL struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}

// MapRelations translates URL relations into record link fields, filling
// handle columns by extraction from the matched URLs.
func MapRelations(relations []RelationURL) map[string]string {
	links := make(map[string]string)

	set := func(urlField, handleField, rawURL string) {
		if _, exists := links[urlField]; exists {
			return
		}
		links[urlField] = rawURL
		if handleField != "" {
			if h := handle.FromURL(rawURL); h != "" {
				links[handleField] = h
			}
		}
	}

	for _, rel := range relations {
		lowerURL := strings.ToLower(rel.URL)
		switch {
		case strings.EqualFold(rel.Type, "official homepage"):
			set("website_url", "", rel.URL)
		case strings.Contains(lowerURL, "instagram.com"):
			set("instagram_url", "instagram_handle", rel.URL)
		case strings.Contains(lowerURL, "tiktok.com"):
			set("tiktok_url", "tiktok_handle", rel.URL)
		case strings.Contains(lowerURL, "youtube.com"):
			set("youtube_url", "", rel.URL)
			if id := handle.ChannelIDFromURL(rel.URL); id != "" {
				if _, exists := links["youtube_channel_id"]; !exists {
					links["youtube_channel_id"] = id
				}
			}
		case strings.Contains(lowerURL, "soundcloud.com"):
			set("soundcloud_url", "soundcloud_handle", rel.URL)
		case strings.Contains(lowerURL, "twitter.com"), strings.Contains(lowerURL, "://x.com"):
			set("twitter_url", "twitter_handle", rel.URL)
		case strings.Contains(lowerURL, "facebook.com"):
			set("facebook_url", "", rel.URL)
		}
	}

	return links
}
