package config

import (
	"github.com/spf13/viper"
)

// Global configuration variables
var (
	// OverwriteFiles controls whether existing output files should be overwritten
	OverwriteFiles bool
	// UpdateImages forces re-downloading artist images even if they already exist
	UpdateImages bool
	// SpotifyClientID is the client ID for the Spotify Web API
	SpotifyClientID string
	// SpotifyClientSecret is the client secret for the Spotify Web API
	SpotifyClientSecret string
	// YouTubeAPIKey is the API key for the YouTube Data API
	YouTubeAPIKey string
	// SoundchartsAppID is the application ID for the Soundcharts API
	SoundchartsAppID string
	// SoundchartsAPIKey is the API key for the Soundcharts API
	SoundchartsAPIKey string
)

// InitConfig initializes the global configuration
func InitConfig() {
	// Set default values
	viper.SetDefault("MarkdownOutputDir", "./markdown/")
	viper.SetDefault("JSONOutputDir", "./json/")
	viper.SetDefault("OverwriteFiles", false)

	// Get values from viper
	OverwriteFiles = viper.GetBool("OverwriteFiles")
	SpotifyClientID = viper.GetString("SpotifyClientID")
	SpotifyClientSecret = viper.GetString("SpotifyClientSecret")
	YouTubeAPIKey = viper.GetString("YouTubeAPIKey")
	SoundchartsAppID = viper.GetString("SoundchartsAppID")
	SoundchartsAPIKey = viper.GetString("SoundchartsAPIKey")
}

// SetOverwriteFiles sets the OverwriteFiles flag
func SetOverwriteFiles(overwrite bool) {
	OverwriteFiles = overwrite
}

// SetUpdateImages sets the UpdateImages flag
func SetUpdateImages(update bool) {
	UpdateImages = update
}

// HasSpotifyCredentials reports whether Spotify client credentials are configured.
func HasSpotifyCredentials() bool {
	return SpotifyClientID != "" && SpotifyClientSecret != ""
}

// HasSoundchartsCredentials reports whether Soundcharts credentials are configured.
func HasSoundchartsCredentials() bool {
	return SoundchartsAppID != "" && SoundchartsAPIKey != ""
}
