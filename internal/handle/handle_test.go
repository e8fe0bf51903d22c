package handle

import (
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestFromURL(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"simple profile", "https://www.instagram.com/drake", "drake"},
		{"trailing slash", "https://www.instagram.com/drake/", "drake"},
		{"query string", "https://www.instagram.com/drake?hl=en", "drake"},
		{"query string after slash", "https://www.instagram.com/drake/?hl=en", "drake"},
		{"at-handle", "https://www.tiktok.com/@drake", "drake"},
		{"empty input", "", ""},
		{"bare handle", "drake", "drake"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FromURL(tt.raw); got != tt.want {
				t.Errorf("FromURL(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestChannelIDFromURL(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"channel id", "https://www.youtube.com/channel/UCByOQJjav0CUDwxCk-jVNRQ", "UCByOQJjav0CUDwxCk-jVNRQ"},
		{"handle url", "https://www.youtube.com/@drake", "@drake"},
		{"custom url", "https://www.youtube.com/c/DrakeOfficial", "c/DrakeOfficial"},
		{"legacy user url", "https://www.youtube.com/user/DrakeVEVO", "user/DrakeVEVO"},
		{"no identifier", "https://www.youtube.com/", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ChannelIDFromURL(tt.raw); got != tt.want {
				t.Errorf("ChannelIDFromURL(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"dj prefix stripped", "DJ Khaled", "khaled"},
		{"lil prefix stripped", "Lil Wayne", "wayne"},
		{"the prefix stripped", "The Weeknd", "weeknd"},
		{"young prefix stripped", "Young Thug", "thug"},
		{"big prefix stripped", "Big Sean", "sean"},
		{"no prefix", "Drake", "drake"},
		{"prefix without space kept", "Lilith", "lilith"},
		{"spaces and punctuation removed", "A$AP Rocky", "aaprocky"},
		{"underscores kept", "some_artist", "some_artist"},
		{"only symbols yields empty", "$$$", ""},
		{"empty input", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeCurator(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Chill Vibes Music", "chillvibes"},
		{"Night Owl Records", "nightowl"},
		{"Indie Magazine", "indie"},
		{"Mellow Recordings", "mellow"},
		{"Just A Playlist", "justaplaylist"},
	}

	for _, tt := range tests {
		if got := NormalizeCurator(tt.in); got != tt.want {
			t.Errorf("NormalizeCurator(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestGuessLinksEmptyHandle(t *testing.T) {
	assert.Zero(t, GuessLinks(""))
}

// A guessed URL must round-trip back to the handle it was built from.
func TestGuessExtractRoundTrip(t *testing.T) {
	h := Normalize("DJ Khaled")
	assert.Equal(t, "khaled", h)

	links := GuessLinks(h)
	for _, field := range []string{"instagram_url", "tiktok_url", "twitter_url", "soundcloud_url", "facebook_url"} {
		url, ok := links[field]
		assert.True(t, ok, "GuessLinks missing %s", field)
		assert.Equal(t, h, FromURL(url))
	}
}

func TestGuessEmails(t *testing.T) {
	assert.Equal(t,
		[]string{"contact@khaled.com", "info@khaled.com", "hello@khaled.com", "support@khaled.com"},
		GuessEmails("khaled"))
	assert.Zero(t, GuessEmails(""))
}
