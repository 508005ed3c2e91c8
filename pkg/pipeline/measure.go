package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/mosaic/pkg/cache"
	"github.com/matzehuels/mosaic/pkg/geom"
	"github.com/matzehuels/mosaic/pkg/grouped"
	"github.com/matzehuels/mosaic/pkg/manifest"
	"github.com/matzehuels/mosaic/pkg/media"
	"github.com/matzehuels/mosaic/pkg/observability"
	"github.com/matzehuels/mosaic/pkg/sink"
)

// albumFingerprint is what a layout depends on: kind, order, ids, sizes
// and caption heights.
type albumFingerprint struct {
	Kind  grouped.Kind    `json:"kind"`
	Items []manifest.Item `json:"items"`
}

// Measure computes the album layout, using the cache when possible.
func (r *Runner) Measure(ctx context.Context, album *manifest.Album, opts Options) (grouped.Export, error) {
	e, _, err := r.MeasureWithCacheInfo(ctx, album, opts)
	return e, err
}

// MeasureWithCacheInfo is Measure that also reports a cache hit.
func (r *Runner) MeasureWithCacheInfo(ctx context.Context, album *manifest.Album, opts Options) (grouped.Export, bool, error) {
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return grouped.Export{}, false, err
	}

	albumHash, err := cache.HashJSON(albumFingerprint{Kind: album.Kind, Items: album.Items})
	if err != nil {
		return grouped.Export{}, false, err
	}
	key := r.Keyer.LayoutKey(albumHash, opts.LayoutKeyOpts(album.Kind))

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			if e, err := sink.ParseJSON(data); err == nil {
				observability.Cache().OnCacheHit(ctx, "layout")
				return e, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "layout")
	}

	hooks := observability.Pipeline()
	hooks.OnMeasureStart(ctx, string(album.Kind), len(album.Items))
	start := time.Now()
	e, err := MeasureAlbum(album, opts)
	hooks.OnMeasureComplete(ctx, string(album.Kind), time.Since(start), err)
	if err != nil {
		return grouped.Export{}, false, err
	}

	if data, err := sink.RenderJSON(e); err == nil {
		if r.Cache.Set(ctx, key, data, r.ttl(cache.LayoutTTL)) == nil {
			observability.Cache().OnCacheSet(ctx, "layout", len(data))
		}
	}
	return e, false, nil
}

// NewLayout builds an unmeasured engine layout for the album.
func NewLayout(album *manifest.Album, opts Options) (*grouped.Layout, error) {
	photos := album.Photos()
	items := make([]grouped.Item, len(photos))
	for i, p := range photos {
		items[i] = p
	}
	return grouped.New(items,
		grouped.WithResolver(media.Resolver{Bound: media.ReferenceBound}),
		grouped.WithScale(opts.Scale),
		grouped.WithKind(album.Kind),
	)
}

// MeasureLayout builds and measures the album's engine layout with
// captions applied, so hit tests see the frames that are served.
func MeasureLayout(album *manifest.Album, opts Options) (*grouped.Layout, []grouped.Caption, error) {
	opts.SetDefaults()
	l, err := NewLayout(album, opts)
	if err != nil {
		return nil, nil, err
	}
	if err := l.Measure(geom.Size{Width: opts.Width, Height: opts.Height}, opts.Spacing); err != nil {
		return nil, nil, err
	}
	return l, l.ApplyCaptions(album.Captions()), nil
}

// MeasureAlbum measures the album without caching. Captions are applied to
// files lists.
func MeasureAlbum(album *manifest.Album, opts Options) (grouped.Export, error) {
	l, captions, err := MeasureLayout(album, opts)
	if err != nil {
		return grouped.Export{}, err
	}
	e := l.Export()
	if album.Kind == grouped.KindFiles {
		e.Captions = captions
	}
	return e, nil
}
