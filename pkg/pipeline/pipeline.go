// Package pipeline runs an album through probe → measure → render, with
// caching at every stage. The CLI and the HTTP server both go through a
// [Runner], so they produce identical layouts for identical input.
//
// # Stages
//
//  1. Probe: read pixel sizes of photos that the manifest does not size.
//  2. Measure: compute the grouped layout inside the bounding box.
//  3. Render: draw the layout as SVG, PNG, PDF or JSON.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, album, pipeline.Options{Formats: []string{"svg"}})
//	if err != nil {
//	    return err
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"time"

	"github.com/matzehuels/mosaic/pkg/cache"
	"github.com/matzehuels/mosaic/pkg/errors"
	"github.com/matzehuels/mosaic/pkg/grouped"
	"github.com/matzehuels/mosaic/pkg/manifest"
	"github.com/matzehuels/mosaic/pkg/sink"
)

// Defaults shared by the CLI, the config file and the server.
const (
	DefaultWidth   = 320.0
	DefaultHeight  = 320.0
	DefaultSpacing = 4.0
	DefaultScale   = 2.0
	DefaultRadius  = sink.DefaultRadius
)

// Output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
}

// Options configures a pipeline run. It is accepted as JSON by the server.
type Options struct {
	// Measure options
	Width   float64 `json:"width,omitempty"`
	Height  float64 `json:"height,omitempty"`
	Spacing float64 `json:"spacing,omitempty"`
	Scale   float64 `json:"scale,omitempty"`

	// Render options
	Formats []string `json:"formats,omitempty"`
	Radius  float64  `json:"radius,omitempty"`
	Labels  bool     `json:"labels,omitempty"`
	Images  bool     `json:"images,omitempty"` // fill tiles with the item files

	// Background is an SVG color drawn behind the tiles; empty leaves the
	// canvas transparent.
	Background string `json:"background,omitempty"`

	// Refresh skips cache reads; results are still written.
	Refresh bool `json:"refresh,omitempty"`

	// Workers bounds concurrent file probes and album measures.
	Workers int `json:"-"`

	// defaulted makes SetDefaults idempotent.
	defaulted bool
}

// SetDefaults fills zero fields. A zero Spacing means the default; use
// NoSpacing for tiles without gaps. Calling it again has no effect.
func (o *Options) SetDefaults() {
	if o.defaulted {
		return
	}
	o.defaulted = true
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Spacing == 0 {
		o.Spacing = DefaultSpacing
	}
	if o.Spacing == NoSpacing {
		o.Spacing = 0
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Radius == 0 {
		o.Radius = DefaultRadius
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
}

// NoSpacing requests tiles with no gap, since a zero Spacing means default.
const NoSpacing = -1.0

// Validate checks the options after defaults are applied.
func (o *Options) Validate() error {
	if o.Width <= 0 || o.Height <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "bounding size %gx%g must be positive", o.Width, o.Height)
	}
	if o.Spacing < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "spacing %g must not be negative", o.Spacing)
	}
	if o.Scale < 1 {
		return errors.New(errors.ErrCodeInvalidInput, "scale %g must be at least 1", o.Scale)
	}
	if o.Radius < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "radius %g must not be negative", o.Radius)
	}
	return ValidateFormats(o.Formats)
}

// ValidateFormat checks that a format is supported.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, pdf, json)", format)
	}
	return nil
}

// ValidateFormats checks every format.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// LayoutKeyOpts returns the cache key inputs of the measure stage.
func (o *Options) LayoutKeyOpts(kind grouped.Kind) cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Width:   o.Width,
		Height:  o.Height,
		Spacing: o.Spacing,
		Scale:   o.Scale,
		Kind:    string(kind),
	}
}

// ArtifactKeyOpts returns the cache key inputs of the render stage.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format: format,
		Radius: o.Radius,
		Labels: o.Labels,
		Images: o.Images,

		Background: o.Background,
	}
}

// Result holds the outputs of Execute.
type Result struct {
	Album      *manifest.Album
	Layout     grouped.Export
	LayoutHash string
	Artifacts  map[string][]byte
	Stats      Stats
	CacheInfo  CacheInfo
}

// Stats holds timing and size information.
type Stats struct {
	Items       int
	Probed      int
	Degenerate  int
	ProbeTime   time.Duration
	MeasureTime time.Duration
	RenderTime  time.Duration
}

// CacheInfo records which stages were served from cache.
type CacheInfo struct {
	LayoutHit bool
	RenderHit bool
}
