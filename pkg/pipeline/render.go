package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/mosaic/pkg/cache"
	"github.com/matzehuels/mosaic/pkg/grouped"
	"github.com/matzehuels/mosaic/pkg/manifest"
	"github.com/matzehuels/mosaic/pkg/observability"
	"github.com/matzehuels/mosaic/pkg/sink"
)

// Render draws a measured layout in every requested format.
func (r *Runner) Render(ctx context.Context, album *manifest.Album, e grouped.Export, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, album, e, opts)
	return artifacts, err
}

// RenderWithCacheInfo is Render that also reports whether every format was
// served from cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, album *manifest.Album, e grouped.Export, opts Options) (map[string][]byte, bool, error) {
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return nil, false, err
	}

	layoutHash, err := cache.HashJSON(e)
	if err != nil {
		return nil, false, fmt.Errorf("hash layout: %w", err)
	}
	if opts.Images && album != nil {
		// Image hrefs depend on where the album lives.
		layoutHash = cache.Hash([]byte(layoutHash + album.Dir()))
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	if !opts.Refresh {
		for _, format := range opts.Formats {
			key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil || !hit {
				observability.Cache().OnCacheMiss(ctx, "artifact")
				break
			}
			observability.Cache().OnCacheHit(ctx, "artifact")
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			return artifacts, true, nil
		}
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	rendered, err := RenderLayout(ctx, album, e, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		if r.Cache.Set(ctx, key, data, r.ttl(cache.ArtifactTTL)) == nil {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}
	return rendered, false, nil
}

// RenderLayout renders without caching. album may be nil unless
// opts.Images is set.
func RenderLayout(ctx context.Context, album *manifest.Album, e grouped.Export, opts Options) (map[string][]byte, error) {
	opts.SetDefaults()
	svgOpts := buildSVGOptions(album, opts)

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		var data []byte
		var err error
		switch format {
		case FormatSVG:
			data = sink.RenderSVG(e, svgOpts...)
		case FormatPNG:
			data, err = sink.RenderPNG(ctx, e, sink.WithSVGOptions(svgOpts...), sink.WithZoom(opts.Scale))
		case FormatPDF:
			data, err = sink.RenderPDF(ctx, e, sink.WithSVGOptions(svgOpts...))
		case FormatJSON:
			data, err = sink.RenderJSON(e)
		default:
			err = ValidateFormat(format)
		}
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func buildSVGOptions(album *manifest.Album, opts Options) []sink.SVGOption {
	svgOpts := []sink.SVGOption{sink.WithRadius(opts.Radius)}
	if opts.Labels {
		svgOpts = append(svgOpts, sink.WithLabels())
	}
	if opts.Background != "" {
		svgOpts = append(svgOpts, sink.WithBackground(opts.Background))
	}
	if opts.Images && album != nil {
		hrefs := make(map[string]string, len(album.Items))
		for _, p := range album.Photos() {
			if p.Path != "" {
				hrefs[p.Key] = p.Path
			}
		}
		svgOpts = append(svgOpts, sink.WithImages(hrefs))
	}
	return svgOpts
}
