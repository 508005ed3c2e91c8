package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/matzehuels/mosaic/pkg/geom"
	"github.com/matzehuels/mosaic/pkg/grouped"
)

// DefaultRadius is the corner radius of the collage bubble in points.
const DefaultRadius = 8.0

var palette = []string{
	"#5B8DEF", "#F2994A", "#27AE60", "#EB5757", "#9B51E0",
	"#2D9CDB", "#F2C94C", "#6FCF97", "#BB6BD9", "#56CCF2",
}

// SVGOption configures RenderSVG.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	radius     float64
	labels     bool
	background string
	images     map[string]string
}

// WithRadius sets the outer corner radius. Negative values are ignored.
func WithRadius(r float64) SVGOption {
	return func(s *svgRenderer) {
		if r >= 0 {
			s.radius = r
		}
	}
}

// WithLabels draws each item's id and index in its tile.
func WithLabels() SVGOption { return func(s *svgRenderer) { s.labels = true } }

// WithBackground fills the collage bounds behind the tiles.
func WithBackground(color string) SVGOption {
	return func(s *svgRenderer) { s.background = color }
}

// WithImages fills tiles with images instead of flat colors. hrefs maps
// item ids to URLs or file paths; images are cropped to fill their tile.
func WithImages(hrefs map[string]string) SVGOption {
	return func(s *svgRenderer) { s.images = hrefs }
}

// RenderSVG draws the layout as a standalone SVG document.
func RenderSVG(e grouped.Export, opts ...SVGOption) []byte {
	r := svgRenderer{radius: DefaultRadius}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %s %s" width="%s" height="%s">`+"\n",
		num(e.Width), num(e.Height), num(e.Width), num(e.Height))

	if r.background != "" {
		fmt.Fprintf(&buf, `  <rect width="%s" height="%s" fill="%s"/>`+"\n", num(e.Width), num(e.Height), escapeXML(r.background))
	}

	single := len(e.Frames) == 1
	for i, f := range e.Frames {
		flags := f.Position()
		if single {
			flags = grouped.PositionTop | grouped.PositionBottom | grouped.PositionLeft | grouped.PositionRight
		}
		d := tilePath(f.Rect(), cornersFor(flags, r.radius))
		id := escapeXML(f.ID)

		if href, ok := r.images[f.ID]; ok {
			fmt.Fprintf(&buf, `  <clipPath id="clip-%d"><path d="%s"/></clipPath>`+"\n", i, d)
			fmt.Fprintf(&buf, `  <image id="tile-%s" href="%s" x="%s" y="%s" width="%s" height="%s" preserveAspectRatio="xMidYMid slice" clip-path="url(#clip-%d)"/>`+"\n",
				id, escapeXML(href), num(f.X), num(f.Y), num(f.Width), num(f.Height), i)
		} else {
			fmt.Fprintf(&buf, `  <path id="tile-%s" class="tile" d="%s" fill="%s"/>`+"\n", id, d, palette[i%len(palette)])
		}

		if r.labels {
			c := f.Rect()
			fmt.Fprintf(&buf, `  <text x="%s" y="%s" text-anchor="middle" dominant-baseline="central" font-family="sans-serif" font-size="12" fill="#fff">%d %s</text>`+"\n",
				num(c.CenterX()), num(c.CenterY()), f.Index, id)
		}
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// corners holds radii clockwise from top-left.
type corners struct {
	tl, tr, br, bl float64
}

// cornersFor rounds a corner only when both edges meeting there are outer.
func cornersFor(flags grouped.PositionFlags, radius float64) corners {
	pick := func(a, b grouped.PositionFlags) float64 {
		if flags.Has(a | b) {
			return radius
		}
		return 0
	}
	return corners{
		tl: pick(grouped.PositionTop, grouped.PositionLeft),
		tr: pick(grouped.PositionTop, grouped.PositionRight),
		br: pick(grouped.PositionBottom, grouped.PositionRight),
		bl: pick(grouped.PositionBottom, grouped.PositionLeft),
	}
}

// tilePath outlines r clockwise with the given corner radii, each limited
// to half the shorter side.
func tilePath(r geom.Rect, c corners) string {
	limit := min(r.Width, r.Height) / 2
	c.tl, c.tr, c.br, c.bl = min(c.tl, limit), min(c.tr, limit), min(c.br, limit), min(c.bl, limit)

	var b bytes.Buffer
	x0, y0, x1, y1 := r.X, r.Y, r.MaxX(), r.MaxY()
	fmt.Fprintf(&b, "M%s,%s H%s", num(x0+c.tl), num(y0), num(x1-c.tr))
	arc(&b, c.tr, x1, y0+c.tr)
	fmt.Fprintf(&b, " V%s", num(y1-c.br))
	arc(&b, c.br, x1-c.br, y1)
	fmt.Fprintf(&b, " H%s", num(x0+c.bl))
	arc(&b, c.bl, x0, y1-c.bl)
	fmt.Fprintf(&b, " V%s", num(y0+c.tl))
	arc(&b, c.tl, x0+c.tl, y0)
	b.WriteString(" Z")
	return b.String()
}

func arc(b *bytes.Buffer, r, x, y float64) {
	if r <= 0 {
		return
	}
	fmt.Fprintf(b, " A%s,%s 0 0 1 %s,%s", num(r), num(r), num(x), num(y))
}

// num formats a coordinate without trailing zeros.
func num(v float64) string {
	return fmt.Sprintf("%g", v)
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
