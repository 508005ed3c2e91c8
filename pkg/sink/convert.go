package sink

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"

	"github.com/matzehuels/mosaic/pkg/errors"
	"github.com/matzehuels/mosaic/pkg/grouped"
)

// RasterOption configures RenderPNG and RenderPDF.
type RasterOption func(*rasterRenderer)

type rasterRenderer struct {
	svgOpts []SVGOption
	scale   float64
}

// WithSVGOptions passes options through to the SVG that is converted.
func WithSVGOptions(opts ...SVGOption) RasterOption {
	return func(r *rasterRenderer) { r.svgOpts = opts }
}

// WithZoom sets the PNG zoom factor; 2 gives a 2x bitmap. Ignored for PDF.
func WithZoom(z float64) RasterOption {
	return func(r *rasterRenderer) {
		if z > 0 {
			r.scale = z
		}
	}
}

// RenderPNG renders the layout as PNG.
func RenderPNG(ctx context.Context, e grouped.Export, opts ...RasterOption) ([]byte, error) {
	r := rasterRenderer{scale: 2}
	for _, opt := range opts {
		opt(&r)
	}
	return rsvgConvert(ctx, RenderSVG(e, r.svgOpts...), "png", "-z", fmt.Sprintf("%.2f", r.scale))
}

// RenderPDF renders the layout as PDF.
func RenderPDF(ctx context.Context, e grouped.Export, opts ...RasterOption) ([]byte, error) {
	var r rasterRenderer
	for _, opt := range opts {
		opt(&r)
	}
	return rsvgConvert(ctx, RenderSVG(e, r.svgOpts...), "pdf")
}

// HasConverter reports whether rsvg-convert is installed.
func HasConverter() bool {
	_, err := exec.LookPath("rsvg-convert")
	return err == nil
}

func rsvgConvert(ctx context.Context, svg []byte, format string, extraArgs ...string) ([]byte, error) {
	if !HasConverter() {
		return nil, errors.New(errors.ErrCodeUnsupported,
			"%s export requires librsvg. Install with:\n  macOS:  brew install librsvg\n  Linux:  apt install librsvg2-bin", format)
	}

	args := append([]string{"-f", format}, extraArgs...)
	cmd := exec.CommandContext(ctx, "rsvg-convert", args...)
	cmd.Stdin = bytes.NewReader(svg)

	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "rsvg-convert: %s", stderr.String())
	}
	return out.Bytes(), nil
}
