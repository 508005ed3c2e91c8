package cache

import "time"

// ScopedKeyer prefixes every key of an inner keyer, giving each server
// instance group or user its own namespace in a shared Redis.
//
//	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), "mosaic:v1:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, or the default keyer when inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// LayoutKey implements Keyer.
func (k *ScopedKeyer) LayoutKey(albumHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(albumHash, opts)
}

// ArtifactKey implements Keyer.
func (k *ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(layoutHash, opts)
}

// ProbeKey implements Keyer.
func (k *ScopedKeyer) ProbeKey(path string, modTime time.Time, size int64) string {
	return k.prefix + k.inner.ProbeKey(path, modTime, size)
}
