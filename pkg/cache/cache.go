// Package cache stores retrieved LayerViews and rendered artifacts.
//
// Three backends implement [Cache]:
//   - [FileCache]: entries as JSON files under a directory, for the CLI
//   - [RedisCache]: a shared Redis instance, for the HTTP server
//   - [NullCache]: stores nothing, for tests and --no-cache
//
// Keys are produced by a [Keyer] so every component agrees on the layout:
//
//	keys := cache.NewDefaultKeyer()
//	key := keys.LayerViewKey("https://api.analyzere.net", id)
//	data, hit, err := c.Get(ctx, key)
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry TTL.
type Cache interface {
	// Get returns the value for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend's resources.
	Close() error
}

// NullCache is a no-op cache that never stores anything.
type NullCache struct{}

// NewNullCache creates a null cache.
func NewNullCache() Cache {
	return &NullCache{}
}

func (c *NullCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

func (c *NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }

func (c *NullCache) Delete(context.Context, string) error { return nil }

func (c *NullCache) Close() error { return nil }

var _ Cache = (*NullCache)(nil)

// ArtifactKeyOpts are the inputs that change a rendered artifact.
type ArtifactKeyOpts struct {
	Format     string  `json:"format"`
	Rankdir    string  `json:"rankdir"`
	WithTerms  bool    `json:"with_terms"`
	Compact    bool    `json:"compact"`
	Warnings   bool    `json:"warnings"`
	MaxDepth   int     `json:"max_depth"`
	MaxSources int     `json:"max_sources"`
	Colors     int     `json:"colors"`
	ColorMode  string  `json:"color_mode"`
	Scale      float64 `json:"scale,omitempty"`
}

// Keyer builds cache keys.
type Keyer interface {
	// LayerViewKey identifies a LayerView retrieved from a platform instance.
	LayerViewKey(baseURL, id string) string

	// ArtifactKey identifies a rendered artifact of a LayerView document.
	ArtifactKey(documentHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer produces unprefixed keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

func (DefaultKeyer) LayerViewKey(baseURL, id string) string {
	return hashKey("layer_view", baseURL, id)
}

func (DefaultKeyer) ArtifactKey(documentHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", documentHash, opts)
}
