package testutil

import (
	"testing"

	"github.com/lepinkainen/orpheus/internal/config"
	"github.com/spf13/viper"
)

// ConfigState holds the state of the config package variables.
type ConfigState struct {
	OverwriteFiles      bool
	UpdateImages        bool
	SpotifyClientID     string
	SpotifyClientSecret string
	YouTubeAPIKey       string
	SoundchartsAppID    string
	SoundchartsAPIKey   string
}

// SaveConfigState captures the current state of config package variables.
func SaveConfigState() ConfigState {
	return ConfigState{
		OverwriteFiles:      config.OverwriteFiles,
		UpdateImages:        config.UpdateImages,
		SpotifyClientID:     config.SpotifyClientID,
		SpotifyClientSecret: config.SpotifyClientSecret,
		YouTubeAPIKey:       config.YouTubeAPIKey,
		SoundchartsAppID:    config.SoundchartsAppID,
		SoundchartsAPIKey:   config.SoundchartsAPIKey,
	}
}

// RestoreConfigState restores the config package variables to a saved state.
func RestoreConfigState(state ConfigState) {
	config.OverwriteFiles = state.OverwriteFiles
	config.UpdateImages = state.UpdateImages
	config.SpotifyClientID = state.SpotifyClientID
	config.SpotifyClientSecret = state.SpotifyClientSecret
	config.YouTubeAPIKey = state.YouTubeAPIKey
	config.SoundchartsAppID = state.SoundchartsAppID
	config.SoundchartsAPIKey = state.SoundchartsAPIKey
}

// ResetConfig saves the current config state and schedules restoration
// when the test completes. It also resets viper.
func ResetConfig(t *testing.T) {
	t.Helper()

	// Save current config state
	state := SaveConfigState()

	// Reset viper
	viper.Reset()

	// Schedule restoration on test cleanup
	t.Cleanup(func() {
		RestoreConfigState(state)
		viper.Reset()
	})
}

// SetTestConfig sets up a test configuration with common defaults.
// It saves the current state and restores it when the test completes.
func SetTestConfig(t *testing.T) {
	t.Helper()

	// Save current config state
	state := SaveConfigState()

	// Reset viper and set test defaults
	viper.Reset()

	// Set common test defaults
	config.OverwriteFiles = true
	config.UpdateImages = false
	config.SpotifyClientID = "test-spotify-id"
	config.SpotifyClientSecret = "test-spotify-secret"
	config.YouTubeAPIKey = "test-youtube-key"
	config.SoundchartsAppID = "test-soundcharts-app"
	config.SoundchartsAPIKey = "test-soundcharts-key"

	// Schedule restoration on test cleanup
	t.Cleanup(func() {
		RestoreConfigState(state)
		viper.Reset()
	})
}

// SetViperValue sets a viper configuration value and schedules cleanup.
func SetViperValue(t *testing.T, key string, value any) {
	t.Helper()

	// Get the old value (if any)
	oldValue := viper.Get(key)
	hadValue := viper.IsSet(key)

	// Set the new value
	viper.Set(key, value)

	// Schedule cleanup
	t.Cleanup(func() {
		if hadValue {
			viper.Set(key, oldValue)
		}
		// Note: viper doesn't have an Unset function, so we can't
		// restore the "unset" state. This is a known limitation.
	})
}

// SetupTestCache configures viper for test caching with a temporary directory.
// It creates the cache directory and sets up viper configuration.
func SetupTestCache(t *testing.T, env *TestEnv) string {
	t.Helper()

	// Create cache directory
	cacheDir := env.Path("cache")
	env.MkdirAll("cache")

	// Configure viper
	viper.Set("cache.dbfile", env.Path("cache", "test-cache.db"))
	viper.Set("cache.ttl", "24h")

	return cacheDir
}

// SetupDatasetteDB configures a temporary Datasette database for E2E
// tests and returns its path.
func SetupDatasetteDB(t *testing.T, env *TestEnv) string {
	t.Helper()

	dbPath := env.Path("test.db")
	SetViperValue(t, "datasette.enabled", true)
	SetViperValue(t, "datasette.dbfile", dbPath)

	return dbPath
}
