package grouped

import (
	"math"

	"github.com/matzehuels/mosaic/pkg/geom"
)

const (
	// minSlot is the smallest extent a middle tile or a search row may have
	// before it is widened or penalized.
	minSlot = 70.0

	// Share of the box a leading tile may take.
	leadHeightShare = 0.66
	leadWidthShare  = 0.6

	// Outer tiles of a three-way split keep at least this share.
	outerSlotShare = 0.33
)

// side rounds a computed extent and keeps it at least one point.
func side(v float64) float64 {
	return math.Max(1, math.Round(v))
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// layoutPair places two items: stacked when both are wide, similar and wider
// than the box, side by side in equal halves when they share a class, and
// otherwise split in proportion to their ratios.
func layoutPair(p []photoInfo, props string, avg float64, box geom.Size, sp float64) {
	r0, r1 := p[0].aspectRatio, p[1].aspectRatio
	boxRatio := box.Width / box.Height

	switch {
	case props == "ww" && avg > 1.4*boxRatio && math.Abs(r1-r0) < 0.2:
		w := box.Width
		h := side(min(w/r0, w/r1, (box.Height-sp)/2))
		p[0].place(geom.MakeRect(0, 0, w, h), PositionTop|PositionLeft|PositionRight)
		p[1].place(geom.MakeRect(0, h+sp, w, h), PositionBottom|PositionLeft|PositionRight)

	case props == "ww" || props == "qq":
		w := (box.Width - sp) / 2
		h := side(min(w/r0, w/r1, box.Height))
		p[0].place(geom.MakeRect(0, 0, w, h), PositionTop|PositionLeft|PositionBottom)
		p[1].place(geom.MakeRect(w+sp, 0, w, h), PositionTop|PositionRight|PositionBottom)

	default:
		first := clamp(side((box.Width-sp)/r1/(1/r0+1/r1)), 1, box.Width-sp-1)
		second := box.Width - first - sp
		h := side(min(box.Height, first/r0, second/r1))
		p[0].place(geom.MakeRect(0, 0, first, h), PositionTop|PositionLeft|PositionBottom)
		p[1].place(geom.MakeRect(first+sp, 0, second, h), PositionTop|PositionRight|PositionBottom)
	}
}

// layoutTriple places three items: a full-width lead over two halves when
// all are wide, otherwise a lead column beside two stacked tiles.
func layoutTriple(p []photoInfo, props string, box geom.Size, sp float64) {
	r0, r1, r2 := p[0].aspectRatio, p[1].aspectRatio, p[2].aspectRatio

	if props == "www" {
		w := box.Width
		h0 := side(min(w/r0, (box.Height-sp)*leadHeightShare))
		p[0].place(geom.MakeRect(0, 0, w, h0), PositionTop|PositionLeft|PositionRight)

		half := (box.Width - sp) / 2
		h := side(min(box.Height-h0-sp, half/r1, half/r2))
		y := h0 + sp
		p[1].place(geom.MakeRect(0, y, half, h), PositionLeft|PositionBottom)
		p[2].place(geom.MakeRect(half+sp, y, half, h), PositionRight|PositionBottom)
		return
	}

	h := box.Height
	w0 := side(min(h*r0, (box.Width-sp)*leadWidthShare))
	p[0].place(geom.MakeRect(0, 0, w0, h), PositionTop|PositionLeft|PositionBottom)

	col := (h - sp) / (1/r1 + 1/r2)
	h1 := clamp(side(col/r1), 1, h-sp-1)
	h2 := h - sp - h1
	w := side(min(box.Width-w0-sp, col))
	x := w0 + sp
	p[1].place(geom.MakeRect(x, 0, w, h1), PositionRight|PositionTop)
	p[2].place(geom.MakeRect(x, h1+sp, w, h2), PositionRight|PositionBottom)
}

// layoutQuad places four items: a full-width lead over three columns when
// the first item is wide, otherwise a lead column beside three stacked
// tiles.
func layoutQuad(p []photoInfo, props string, box geom.Size, sp float64) {
	r0, r1, r2, r3 := p[0].aspectRatio, p[1].aspectRatio, p[2].aspectRatio, p[3].aspectRatio

	if props[0] == propWide {
		w := box.Width
		h0 := side(min(w/r0, (box.Height-sp)*leadHeightShare))
		p[0].place(geom.MakeRect(0, 0, w, h0), PositionTop|PositionLeft|PositionRight)

		total := box.Width - 2*sp
		h := total / (r1 + r2 + r3)
		s := splitThree(total, [3]float64{h * r1, h * r2, h * r3})
		h = side(min(box.Height-h0-sp, h))
		y := h0 + sp
		p[1].place(geom.MakeRect(0, y, s[0], h), PositionLeft|PositionBottom)
		p[2].place(geom.MakeRect(s[0]+sp, y, s[1], h), PositionBottom)
		p[3].place(geom.MakeRect(s[0]+s[1]+2*sp, y, s[2], h), PositionRight|PositionBottom)
		return
	}

	h := box.Height
	w0 := side(min(h*r0, (box.Width-sp)*leadWidthShare))
	p[0].place(geom.MakeRect(0, 0, w0, h), PositionTop|PositionLeft|PositionBottom)

	total := box.Height - 2*sp
	w := total / (1/r1 + 1/r2 + 1/r3)
	s := splitThree(total, [3]float64{w / r1, w / r2, w / r3})
	w = side(min(box.Width-w0-sp, w))
	x := w0 + sp
	p[1].place(geom.MakeRect(x, 0, w, s[0]), PositionRight|PositionTop)
	p[2].place(geom.MakeRect(x, s[0]+sp, w, s[1]), PositionRight)
	p[3].place(geom.MakeRect(x, s[0]+s[1]+2*sp, w, s[2]), PositionRight|PositionBottom)
}

// splitThree divides total, which excludes the gaps, into three slots
// starting from ideal extents. The outer slots keep at least a third of the
// total. A middle slot below minSlot is widened, first at the expense of
// the last slot down to the same minimum, then of the first. Slots always
// sum to total.
func splitThree(total float64, ideal [3]float64) [3]float64 {
	floor := total * outerSlotShare
	midMin := math.Min(minSlot, total/3)

	a := math.Round(math.Max(floor, ideal[0]))
	c := math.Round(math.Max(floor, ideal[2]))
	b := total - a - c
	if b < midMin {
		deficit := midMin - b
		b = midMin
		take := math.Min(deficit, math.Max(0, c-midMin))
		c -= take
		a -= deficit - take
	}
	return [3]float64{a, b, c}
}
