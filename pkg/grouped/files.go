package grouped

import (
	"slices"

	"github.com/matzehuels/mosaic/pkg/geom"
)

const (
	fileRowHeight    = 40.0
	previewRowHeight = 70.0
	fileRowSpacing   = 8.0

	// captionSpacing separates a caption from the row below it.
	captionSpacing = 6.0
)

// measureFiles stacks items as full-width rows. Rows for files with a
// preview, other than music, are taller.
func measureFiles(items []Item, box geom.Size) ([]photoInfo, geom.Size) {
	photos := make([]photoInfo, len(items))
	var y float64
	last := len(items) - 1
	for i, it := range items {
		h := fileRowHeight
		if f, ok := it.(FileItem); ok && f.HasPreview() && !f.IsMusic() {
			h = previewRowHeight
		}

		var flags PositionFlags
		switch i {
		case 0:
			flags = PositionTop | PositionLeft | PositionRight
			if last == 0 {
				flags |= PositionBottom
			}
		case last:
			flags = PositionLeft | PositionRight | PositionBottom
		}

		photos[i] = photoInfo{id: it.ID()}
		photos[i].place(geom.MakeRect(0, y, box.Width, h), flags)
		y += h + fileRowSpacing
	}
	return photos, geom.Size{Width: box.Width, Height: y - fileRowSpacing}
}

// Caption is text drawn under an item of a files list.
type Caption struct {
	ItemID string  `json:"item_id"`
	Height float64 `json:"height"`

	// Offset is set by ApplyCaptions: the caption's distance from the
	// bottom of the collage, as a non-positive value.
	Offset float64 `json:"offset"`
}

// ApplyCaptions makes room for captions in a measured files list. Every row
// below a captioned item moves down by the caption height plus a gap, and
// the collage grows by the total. It returns the captions with their
// offsets filled in. Media layouts are left as they are.
func (l *Layout) ApplyCaptions(captions []Caption) []Caption {
	out := slices.Clone(captions)
	if l.kind != KindFiles || len(l.photos) == 0 {
		return out
	}

	heights := make(map[string]float64, len(out))
	for _, c := range out {
		heights[c.ItemID] += c.Height + captionSpacing
	}

	var offset float64
	for _, it := range l.items {
		i, ok := l.index[it.ID()]
		if !ok {
			continue
		}
		l.photos[i].frame = l.photos[i].frame.Offset(0, offset)
		offset += heights[it.ID()]
	}
	l.dimensions.Height += offset

	for k, c := range out {
		if i, ok := l.index[c.ItemID]; ok {
			out[k].Offset = -(l.dimensions.Height - l.photos[i].frame.MaxY())
		}
	}
	return out
}
