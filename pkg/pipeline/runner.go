package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/mosaic/pkg/cache"
	"github.com/matzehuels/mosaic/pkg/grouped"
	"github.com/matzehuels/mosaic/pkg/manifest"
)

// Runner executes pipeline stages with caching. It holds no per-run state
// and is safe for concurrent use.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL replaces the per-stage cache lifetimes when positive.
	TTL time.Duration
}

func (r *Runner) ttl(stage time.Duration) time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return stage
}

// NewRunner creates a runner. A nil cache disables caching and a nil keyer
// uses the default keyer.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Execute probes, measures and renders one album. Probed sizes are written
// back onto album.
func (r *Runner) Execute(ctx context.Context, album *manifest.Album, opts Options) (*Result, error) {
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{Album: album}
	result.Stats.Items = len(album.Items)

	start := time.Now()
	probed, err := r.Probe(ctx, album, opts)
	if err != nil {
		return nil, fmt.Errorf("probe: %w", err)
	}
	result.Stats.Probed = probed
	result.Stats.ProbeTime = time.Since(start)
	if probed > 0 {
		r.Logger.Info("probed media", "files", probed, "duration", result.Stats.ProbeTime)
	}

	start = time.Now()
	layout, hit, err := r.MeasureWithCacheInfo(ctx, album, opts)
	if err != nil {
		return nil, fmt.Errorf("measure: %w", err)
	}
	result.Layout = layout
	result.LayoutHash, _ = cache.HashJSON(layout)
	result.Stats.MeasureTime = time.Since(start)
	result.Stats.Degenerate = len(layout.Degenerate)
	result.CacheInfo.LayoutHit = hit
	r.Logger.Info("measured layout",
		"items", len(layout.Frames),
		"size", fmt.Sprintf("%gx%g", layout.Width, layout.Height),
		"cached", hit,
		"duration", result.Stats.MeasureTime)
	if len(layout.Degenerate) > 0 {
		r.Logger.Warn("clamped items without a usable size", "ids", layout.Degenerate)
	}

	start = time.Now()
	artifacts, hit, err := r.RenderWithCacheInfo(ctx, album, layout, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(start)
	result.CacheInfo.RenderHit = hit
	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", hit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// MeasureAll measures several albums concurrently, at most opts.Workers at
// a time. Results are in input order; the first failure cancels the rest.
func (r *Runner) MeasureAll(ctx context.Context, albums []*manifest.Album, opts Options) ([]grouped.Export, error) {
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = 4
	}

	out := make([]grouped.Export, len(albums))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, a := range albums {
		g.Go(func() error {
			if _, err := r.Probe(ctx, a, opts); err != nil {
				return fmt.Errorf("album %s: %w", a.ID, err)
			}
			e, _, err := r.MeasureWithCacheInfo(ctx, a, opts)
			if err != nil {
				return fmt.Errorf("album %s: %w", a.ID, err)
			}
			out[i] = e
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
