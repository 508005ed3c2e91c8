package media

import (
	"fmt"
	"math"

	"github.com/matzehuels/mosaic/pkg/geom"
	"github.com/matzehuels/mosaic/pkg/grouped"
)

// ReferenceBound is the box pixel sizes are fitted into before measuring.
var ReferenceBound = geom.Size{Width: 320, Height: 320}

// Type is what an album entry holds.
type Type string

const (
	TypePhoto Type = "photo"
	TypeVideo Type = "video"
	TypeFile  Type = "file"
	TypeMusic Type = "music"
)

// ParseType accepts the Type names; "" is a photo.
func ParseType(s string) (Type, error) {
	switch t := Type(s); t {
	case "":
		return TypePhoto, nil
	case TypePhoto, TypeVideo, TypeFile, TypeMusic:
		return t, nil
	}
	return "", fmt.Errorf("unknown media type %q", s)
}

// Photo is one album entry. Pixels may be zero until probed.
type Photo struct {
	Key    string
	Path   string
	Type   Type
	Pixels geom.Size
}

// ID implements grouped.Item.
func (p Photo) ID() string { return p.Key }

// ContentSize implements grouped.Sized.
func (p Photo) ContentSize() geom.Size { return Fit(p.Pixels, ReferenceBound) }

// HasPreview reports whether the entry renders a thumbnail in a files list.
func (p Photo) HasPreview() bool {
	switch p.Type {
	case TypePhoto, TypeVideo:
		return true
	case TypeFile:
		return !p.Pixels.IsEmpty()
	}
	return false
}

// IsMusic reports whether the entry is an audio file.
func (p Photo) IsMusic() bool { return p.Type == TypeMusic }

var (
	_ grouped.Item     = Photo{}
	_ grouped.Sized    = Photo{}
	_ grouped.FileItem = Photo{}
)

// Fit scales size down, never up, so it fits inside bound, rounding the
// scaled side up to a whole point. Empty sizes are returned unchanged.
func Fit(size, bound geom.Size) geom.Size {
	if size.IsEmpty() {
		return size
	}
	if size.Width > bound.Width {
		size = geom.Size{Width: bound.Width, Height: math.Ceil(size.Height * bound.Width / size.Width)}
	}
	if size.Height > bound.Height {
		size = geom.Size{Width: math.Ceil(size.Width * bound.Height / size.Height), Height: bound.Height}
	}
	return size
}

// Resolver fits item sizes into Bound. Items that are not a [Photo] are
// asked for their own size when they implement grouped.Sized.
type Resolver struct {
	Bound geom.Size
}

// ContentSize implements grouped.Resolver.
func (r Resolver) ContentSize(it grouped.Item) geom.Size {
	bound := r.Bound
	if bound.IsEmpty() {
		bound = ReferenceBound
	}
	switch v := it.(type) {
	case Photo:
		return Fit(v.Pixels, bound)
	case *Photo:
		return Fit(v.Pixels, bound)
	case grouped.Sized:
		return Fit(v.ContentSize(), bound)
	}
	return geom.Size{}
}
