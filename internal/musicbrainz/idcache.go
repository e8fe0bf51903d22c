package musicbrainz

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// IDCache is a flat name→MBID mapping persisted as a JSON file. It is
// loaded at run start and written through on every new resolution. It is
// unbounded with no eviction; the universe of distinct names is small
// relative to run length. All disk writes are serialized by the mutex so
// parallel workers can't interleave them.
type IDCache struct {
	mu      sync.Mutex
	path    string
	entries map[string]string
}

// LoadIDCache reads the identifier cache at path, returning an empty cache
// when the file doesn't exist yet.
func LoadIDCache(path string) (*IDCache, error) {
	c := &IDCache{path: path, entries: make(map[string]string)}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read identifier cache: %w", err)
	}
	if err := json.Unmarshal(data, &c.entries); err != nil {
		return nil, fmt.Errorf("failed to parse identifier cache %s: %w", path, err)
	}
	return c, nil
}

// Get returns the cached MBID for a name, if any.
func (c *IDCache) Get(name string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	mbid, ok := c.entries[strings.ToLower(name)]
	return mbid, ok
}

// Put records a resolution and writes the cache through to disk.
func (c *IDCache) Put(name, mbid string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[strings.ToLower(name)] = mbid

	data, err := json.MarshalIndent(c.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal identifier cache: %w", err)
	}
	if dir := filepath.Dir(c.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create identifier cache directory: %w", err)
		}
	}
	if err := os.WriteFile(c.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write identifier cache: %w", err)
	}
	return nil
}

// Len returns the number of cached resolutions.
func (c *IDCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
