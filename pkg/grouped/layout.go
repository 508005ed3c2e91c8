package grouped

import (
	"math"
	"slices"

	"github.com/matzehuels/mosaic/pkg/errors"
	"github.com/matzehuels/mosaic/pkg/geom"
)

// minBoxRoom is the extent a box needs beyond three gaps, enough for a
// split into one-point slots.
const minBoxRoom = 4.0

// Layout holds an ordered album and the frames of its last measure.
type Layout struct {
	kind     Kind
	resolver Resolver
	scale    float64

	items      []Item
	photos     []photoInfo
	index      map[string]int // item id -> photos index
	dimensions geom.Size
	degenerate []string
}

// New creates a layout for items in display order. Ids must be non-empty
// and unique. Nothing is measured until [Layout.Measure] is called.
func New(items []Item, opts ...Option) (*Layout, error) {
	if len(items) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "album has no items")
	}
	seen := make(map[string]struct{}, len(items))
	for i, it := range items {
		if it == nil {
			return nil, errors.New(errors.ErrCodeInvalidInput, "item %d is nil", i)
		}
		id := it.ID()
		if id == "" {
			return nil, errors.New(errors.ErrCodeInvalidItemID, "item %d has an empty id", i)
		}
		if _, dup := seen[id]; dup {
			return nil, errors.New(errors.ErrCodeInvalidItemID, "duplicate item id %q", id)
		}
		seen[id] = struct{}{}
	}

	l := &Layout{
		kind:     KindMedia,
		resolver: sizedResolver{},
		scale:    1,
		items:    slices.Clone(items),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Measure recomputes every frame for the current item order inside maxSize
// with spacing points between tiles. Results replace those of any earlier
// call; measuring twice with the same inputs gives identical frames.
func (l *Layout) Measure(maxSize geom.Size, spacing float64) error {
	if !(maxSize.Width > 0) || !(maxSize.Height > 0) || math.IsInf(maxSize.Width, 0) || math.IsInf(maxSize.Height, 0) {
		return errors.New(errors.ErrCodeInvalidInput, "bounding size %gx%g must be positive", maxSize.Width, maxSize.Height)
	}
	if !(spacing >= 0) || math.IsInf(spacing, 0) {
		return errors.New(errors.ErrCodeInvalidInput, "spacing %g must not be negative", spacing)
	}
	if maxSize.Width < 3*spacing+minBoxRoom || maxSize.Height < 3*spacing+minBoxRoom {
		return errors.New(errors.ErrCodeInvalidInput, "bounding size %gx%g leaves no room with spacing %g",
			maxSize.Width, maxSize.Height, spacing)
	}

	var photos []photoInfo
	var dims geom.Size
	switch l.kind {
	case KindFiles:
		photos, dims = measureFiles(l.items, maxSize)
		l.degenerate = nil
	default:
		photos, l.degenerate = extractPhotos(l.items, l.resolver)
		measureMedia(photos, maxSize, spacing, 1/l.scale)
		dims = l.finalize(photos)
	}

	l.photos = photos
	l.dimensions = dims
	l.index = make(map[string]int, len(photos))
	for i, p := range photos {
		l.index[p.id] = i
	}
	return nil
}

// measureMedia places every photo. Frames come out at least unit, one
// device pixel, on each side and do not overlap before snapping.
func measureMedia(photos []photoInfo, box geom.Size, sp, unit float64) {
	if len(photos) == 1 {
		size := photos[0].imageSize
		photos[0].place(geom.Rect{Width: math.Max(size.Width, unit), Height: math.Max(size.Height, unit)}, PositionNone)
		return
	}

	props, avg, force := proportions(photos)
	if !force {
		switch len(photos) {
		case 2:
			layoutPair(photos, props, avg, box, sp)
			return
		case 3:
			layoutTriple(photos, props, box, sp)
			return
		case 4:
			layoutQuad(photos, props, box, sp)
			return
		}
	}
	layoutRows(photos, avg, box, sp, unit)
}

// finalize floors every frame to the pixel grid and returns the tight
// bounding size of the snapped frames. Frames arrive at least one pixel on
// each side and apart, and flooring origin and size keeps them that way.
func (l *Layout) finalize(photos []photoInfo) geom.Size {
	var maxX, maxY float64
	for i := range photos {
		f := geom.SnapRect(photos[i].frame, l.scale)
		photos[i].frame = f
		maxX = math.Max(maxX, f.MaxX())
		maxY = math.Max(maxY, f.MaxY())
	}
	return geom.Size{Width: geom.Snap(maxX, l.scale), Height: geom.Snap(maxY, l.scale)}
}

// Dimensions is the size of the measured collage, zero before Measure.
func (l *Layout) Dimensions() geom.Size { return l.dimensions }

// Count returns the number of items.
func (l *Layout) Count() int { return len(l.items) }

// Items returns the items in their current order.
func (l *Layout) Items() []Item { return slices.Clone(l.items) }

// Kind returns the layout mode.
func (l *Layout) Kind() Kind { return l.kind }

// Scale returns the pixel scale frames are snapped to.
func (l *Layout) Scale() float64 { return l.scale }

// Degenerate lists the ids whose content size had to be clamped during the
// last measure.
func (l *Layout) Degenerate() []string { return slices.Clone(l.degenerate) }

// Frame returns the measured frame of the item with the given id.
func (l *Layout) Frame(id string) (geom.Rect, bool) {
	i, ok := l.index[id]
	if !ok {
		return geom.Rect{}, false
	}
	return l.photos[i].frame, true
}

// Position returns the measured position flags of the item with the given
// id.
func (l *Layout) Position(id string) (PositionFlags, bool) {
	i, ok := l.index[id]
	if !ok {
		return PositionNone, false
	}
	return l.photos[i].flags, true
}

func (l *Layout) photoAt(index int) (*photoInfo, error) {
	if index < 0 || index >= len(l.items) {
		return nil, errors.New(errors.ErrCodeIndexOutOfRange, "index %d out of range [0,%d)", index, len(l.items))
	}
	id := l.items[index].ID()
	i, ok := l.index[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "item %q has not been measured", id)
	}
	return &l.photos[i], nil
}

// FrameAt returns the frame of the item currently at index.
func (l *Layout) FrameAt(index int) (geom.Rect, error) {
	p, err := l.photoAt(index)
	if err != nil {
		return geom.Rect{}, err
	}
	return p.frame, nil
}

// PositionAt returns the position flags of the item currently at index.
func (l *Layout) PositionAt(index int) (PositionFlags, error) {
	p, err := l.photoAt(index)
	if err != nil {
		return PositionNone, err
	}
	return p.flags, nil
}

// ItemAt returns the first item, in current order, whose frame contains
// point. Frames include their top and left edges but not their bottom and
// right edges, so a point on a shared border hits one tile.
func (l *Layout) ItemAt(point geom.Point) (Item, bool) {
	_, it, ok := l.hit(point)
	return it, ok
}

func (l *Layout) hit(point geom.Point) (int, Item, bool) {
	for i, it := range l.items {
		if f, ok := l.Frame(it.ID()); ok && f.Contains(point) {
			return i, it, true
		}
	}
	return -1, nil, false
}

// IsNeedMoveItem reports whether dropping the item at index on point would
// move it: point must hit the frame of a different item.
func (l *Layout) IsNeedMoveItem(index int, point geom.Point) bool {
	if index < 0 || index >= len(l.items) {
		return false
	}
	target, _, ok := l.hit(point)
	return ok && target != index
}

// MoveItemIfNeeded moves the item at index to the position of the item
// under point and returns that position. Frames are not recomputed: each
// frame stays attached to its item until the next Measure.
func (l *Layout) MoveItemIfNeeded(index int, point geom.Point) (int, bool) {
	if index < 0 || index >= len(l.items) {
		return index, false
	}
	target, _, ok := l.hit(point)
	if !ok || target == index {
		return index, false
	}
	it := l.items[index]
	l.items = slices.Delete(l.items, index, index+1)
	l.items = slices.Insert(l.items, target, it)
	return target, true
}
