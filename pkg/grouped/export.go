package grouped

import "github.com/matzehuels/mosaic/pkg/geom"

// Export is a serializable snapshot of a measured layout, as cached and
// served over HTTP.
type Export struct {
	Kind   Kind          `json:"kind"`
	Width  float64       `json:"width"`
	Height float64       `json:"height"`
	Scale  float64       `json:"scale"`
	Frames []ExportFrame `json:"frames"`

	Degenerate []string  `json:"degenerate,omitempty"`
	Captions   []Caption `json:"captions,omitempty"`
}

// ExportFrame is one item's measured frame.
type ExportFrame struct {
	ID     string   `json:"id"`
	Index  int      `json:"index"`
	X      float64  `json:"x"`
	Y      float64  `json:"y"`
	Width  float64  `json:"width"`
	Height float64  `json:"height"`
	Flags  []string `json:"flags,omitempty"`
}

// Rect returns the frame as a rectangle.
func (f ExportFrame) Rect() geom.Rect { return geom.MakeRect(f.X, f.Y, f.Width, f.Height) }

// Position parses the flag names back into bits. Unknown names are dropped.
func (f ExportFrame) Position() PositionFlags {
	var p PositionFlags
	for _, name := range f.Flags {
		if v, err := ParseFlags([]string{name}); err == nil {
			p |= v
		}
	}
	return p
}

// Size returns the collage dimensions.
func (e Export) Size() geom.Size { return geom.Size{Width: e.Width, Height: e.Height} }

// Export snapshots the last measure in current item order.
func (l *Layout) Export() Export {
	e := Export{
		Kind:       l.kind,
		Width:      l.dimensions.Width,
		Height:     l.dimensions.Height,
		Scale:      l.scale,
		Frames:     make([]ExportFrame, 0, len(l.items)),
		Degenerate: l.Degenerate(),
	}
	for i, it := range l.items {
		pi, ok := l.index[it.ID()]
		if !ok {
			continue
		}
		p := l.photos[pi]
		e.Frames = append(e.Frames, ExportFrame{
			ID:     p.id,
			Index:  i,
			X:      p.frame.X,
			Y:      p.frame.Y,
			Width:  p.frame.Width,
			Height: p.frame.Height,
			Flags:  p.flags.Names(),
		})
	}
	return e
}
