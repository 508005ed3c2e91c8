package grouped

import (
	"fmt"

	"github.com/matzehuels/mosaic/pkg/geom"
)

// Item is an opaque handle to one media-bearing entry of an album. The
// engine only needs a stable, unique id; the content size comes from a
// [Resolver].
type Item interface {
	ID() string
}

// Sized is implemented by items that know their own content size. It is
// what the default resolver uses.
type Sized interface {
	ContentSize() geom.Size
}

// FileItem is optionally implemented by items laid out in [KindFiles] mode.
type FileItem interface {
	HasPreview() bool
	IsMusic() bool
}

// Resolver maps an item to its content size at the caller's reference bound.
type Resolver interface {
	ContentSize(Item) geom.Size
}

// ResolverFunc adapts a function to [Resolver].
type ResolverFunc func(Item) geom.Size

// ContentSize calls f.
func (f ResolverFunc) ContentSize(it Item) geom.Size { return f(it) }

// sizedResolver asks the item itself and yields a zero size otherwise; the
// zero size is then clamped and reported as degenerate.
type sizedResolver struct{}

func (sizedResolver) ContentSize(it Item) geom.Size {
	if s, ok := it.(Sized); ok {
		return s.ContentSize()
	}
	return geom.Size{}
}

// Kind selects how an album is laid out.
type Kind string

const (
	// KindMedia packs photos and videos into a collage.
	KindMedia Kind = "media"
	// KindFiles stacks documents as a vertical list.
	KindFiles Kind = "files"
)

// ParseKind accepts "media", "files" or "" (media).
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case "", KindMedia:
		return KindMedia, nil
	case KindFiles:
		return KindFiles, nil
	}
	return "", fmt.Errorf("unknown album kind %q (must be 'media' or 'files')", s)
}

// Option configures a [Layout].
type Option func(*Layout)

// WithResolver sets how item content sizes are obtained.
func WithResolver(r Resolver) Option {
	return func(l *Layout) {
		if r != nil {
			l.resolver = r
		}
	}
}

// WithScale sets the device pixel scale used to snap frames (1 for standard
// displays, 2 for retina). Values below 1 are ignored.
func WithScale(scale float64) Option {
	return func(l *Layout) {
		if scale >= 1 {
			l.scale = scale
		}
	}
}

// WithKind selects the media collage or the files list.
func WithKind(k Kind) Option {
	return func(l *Layout) {
		if k != "" {
			l.kind = k
		}
	}
}
