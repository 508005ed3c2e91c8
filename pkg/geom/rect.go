package geom

import "math"

// snapEpsilon absorbs float error such as 0.3*10 = 2.9999999999999996 before
// flooring to the pixel grid.
const snapEpsilon = 1e-6

// Point is a location in collage coordinates.
type Point struct {
	X, Y float64
}

// Size is a width/height pair.
type Size struct {
	Width, Height float64
}

// AspectRatio returns Width/Height. It does not guard against a zero height;
// callers clamp degenerate sizes first.
func (s Size) AspectRatio() float64 { return s.Width / s.Height }

// IsEmpty reports whether either side is zero or negative.
func (s Size) IsEmpty() bool { return s.Width <= 0 || s.Height <= 0 }

// Rect is an axis-aligned rectangle given by its top-left origin and size.
type Rect struct {
	X, Y          float64
	Width, Height float64
}

// MakeRect builds a Rect from origin and size components.
func MakeRect(x, y, w, h float64) Rect { return Rect{X: x, Y: y, Width: w, Height: h} }

// MaxX returns the right edge.
func (r Rect) MaxX() float64 { return r.X + r.Width }

// MaxY returns the bottom edge.
func (r Rect) MaxY() float64 { return r.Y + r.Height }

// CenterX returns the horizontal center point of the rectangle.
func (r Rect) CenterX() float64 { return r.X + r.Width/2 }

// CenterY returns the vertical center point of the rectangle.
func (r Rect) CenterY() float64 { return r.Y + r.Height/2 }

// Size returns the rectangle's dimensions.
func (r Rect) Size() Size { return Size{Width: r.Width, Height: r.Height} }

// IsEmpty reports whether the rectangle has no area.
func (r Rect) IsEmpty() bool { return r.Width <= 0 || r.Height <= 0 }

// Contains reports whether p lies inside r. The test is half-open: the left
// and top edges are inside, the right and bottom edges are not, so a point on
// a shared edge between two touching frames belongs to exactly one of them.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.MaxX() && p.Y >= r.Y && p.Y < r.MaxY()
}

// Intersects reports whether r and o share a region of positive area.
// Rectangles that only touch along an edge do not intersect.
func (r Rect) Intersects(o Rect) bool {
	return r.X < o.MaxX() && o.X < r.MaxX() && r.Y < o.MaxY() && o.Y < r.MaxY()
}

// Union returns the smallest rectangle containing both r and o. An empty
// receiver yields o unchanged.
func (r Rect) Union(o Rect) Rect {
	if r.IsEmpty() {
		return o
	}
	if o.IsEmpty() {
		return r
	}
	x, y := math.Min(r.X, o.X), math.Min(r.Y, o.Y)
	return Rect{
		X:      x,
		Y:      y,
		Width:  math.Max(r.MaxX(), o.MaxX()) - x,
		Height: math.Max(r.MaxY(), o.MaxY()) - y,
	}
}

// Offset returns r translated by (dx, dy).
func (r Rect) Offset(dx, dy float64) Rect {
	r.X += dx
	r.Y += dy
	return r
}

// Snap floors v to the device pixel grid for the given scale factor
// (2 for a 2x display). A non-positive scale is treated as 1.
func Snap(v, scale float64) float64 {
	if scale <= 0 {
		scale = 1
	}
	return math.Floor(v*scale+snapEpsilon) / scale
}

// SnapRect applies [Snap] independently to the origin and size of r.
func SnapRect(r Rect, scale float64) Rect {
	return Rect{
		X:      Snap(r.X, scale),
		Y:      Snap(r.Y, scale),
		Width:  Snap(r.Width, scale),
		Height: Snap(r.Height, scale),
	}
}
