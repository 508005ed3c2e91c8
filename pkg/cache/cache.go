// Package cache stores measured layouts and rendered artifacts.
//
// Entries are opaque byte slices addressed by string keys. Keys are derived
// by a [Keyer] from a content hash of the album plus every option that
// changes the output, so a changed manifest or option never reads a stale
// entry.
//
// Three backends implement [Cache]:
//   - [FileCache] keeps entries under a directory, for the CLI.
//   - [RedisCache] shares entries between server instances.
//   - [NullCache] stores nothing, for --no-cache and tests.
package cache

import (
	"context"
	"time"
)

// Cache is a key/value store with per-entry expiry.
type Cache interface {
	// Get returns the value for key and whether it was present and fresh.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Default entry lifetimes.
const (
	LayoutTTL   = 24 * time.Hour
	ArtifactTTL = 7 * 24 * time.Hour
)

// LayoutKeyOpts are the measure inputs besides the album itself.
type LayoutKeyOpts struct {
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Spacing float64 `json:"spacing"`
	Scale   float64 `json:"scale"`
	Kind    string  `json:"kind"`
}

// ArtifactKeyOpts are the render inputs besides the layout.
type ArtifactKeyOpts struct {
	Format string  `json:"format"`
	Radius float64 `json:"radius"`
	Labels bool    `json:"labels"`
	Images bool    `json:"images"`

	Background string `json:"background,omitempty"`
}

// Keyer derives cache keys.
type Keyer interface {
	// LayoutKey addresses a measured layout of the album with the given
	// content hash.
	LayoutKey(albumHash string, opts LayoutKeyOpts) string

	// ArtifactKey addresses a rendering of the layout with the given hash.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string

	// ProbeKey addresses the decoded pixel size of a media file.
	ProbeKey(path string, modTime time.Time, size int64) string
}

// DefaultKeyer hashes options into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey implements Keyer.
func (DefaultKeyer) LayoutKey(albumHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", albumHash, opts)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

// ProbeKey implements Keyer.
func (DefaultKeyer) ProbeKey(path string, modTime time.Time, size int64) string {
	return hashKey("probe", path, modTime.UnixNano(), size)
}
