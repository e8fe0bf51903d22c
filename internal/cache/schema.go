package cache

// SQL schemas for cache tables
// All cache tables use "cache_key" as the primary key column for consistency

// SpotifyCacheSchema defines the schema for Spotify artist search cache
const SpotifyCacheSchema = `
CREATE TABLE IF NOT EXISTS spotify_cache (
	cache_key TEXT PRIMARY KEY NOT NULL,
	data TEXT NOT NULL,
	cached_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_spotify_cached_at ON spotify_cache(cached_at);
`

// YouTubeCacheSchema defines the schema for YouTube channel search cache
const YouTubeCacheSchema = `
CREATE TABLE IF NOT EXISTS youtube_cache (
	cache_key TEXT PRIMARY KEY NOT NULL,
	data TEXT NOT NULL,
	cached_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_youtube_cached_at ON youtube_cache(cached_at);
`

// MusicBrainzCacheSchema defines the schema for MusicBrainz artist/relation cache
const MusicBrainzCacheSchema = `
CREATE TABLE IF NOT EXISTS musicbrainz_cache (
	cache_key TEXT PRIMARY KEY NOT NULL,
	data TEXT NOT NULL,
	cached_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_musicbrainz_cached_at ON musicbrainz_cache(cached_at);
`

// SoundchartsCacheSchema defines the schema for Soundcharts artist/identifier cache
const SoundchartsCacheSchema = `
CREATE TABLE IF NOT EXISTS soundcharts_cache (
	cache_key TEXT PRIMARY KEY NOT NULL,
	data TEXT NOT NULL,
	cached_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_soundcharts_cached_at ON soundcharts_cache(cached_at);
`

// SoundCloudCacheSchema defines the schema for SoundCloud people-search cache
const SoundCloudCacheSchema = `
CREATE TABLE IF NOT EXISTS soundcloud_cache (
	cache_key TEXT PRIMARY KEY NOT NULL,
	data TEXT NOT NULL,
	cached_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_soundcloud_cached_at ON soundcloud_cache(cached_at);
`

// AllCacheSchemas contains all cache table schemas for easy initialization
var AllCacheSchemas = []string{
	SpotifyCacheSchema,
	YouTubeCacheSchema,
	MusicBrainzCacheSchema,
	SoundchartsCacheSchema,
	SoundCloudCacheSchema,
}

// ValidCacheTableNames is the whitelist of allowed cache table names
// Used to prevent SQL injection when interpolating table names
var ValidCacheTableNames = map[string]bool{
	"spotify_cache":     true,
	"youtube_cache":     true,
	"musicbrainz_cache": true,
	"soundcharts_cache": true,
	"soundcloud_cache":  true,
}
