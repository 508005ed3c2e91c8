package pipeline

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/matzehuels/mosaic/pkg/cache"
	"github.com/matzehuels/mosaic/pkg/geom"
	"github.com/matzehuels/mosaic/pkg/manifest"
	"github.com/matzehuels/mosaic/pkg/media"
	"github.com/matzehuels/mosaic/pkg/observability"
)

// Probe reads the pixel size of every unsized photo in the album and
// stores it on the album items. Sizes are cached per file path, size and
// modification time. It returns how many files needed a size.
func (r *Runner) Probe(ctx context.Context, album *manifest.Album, opts Options) (int, error) {
	photos := album.Photos()

	type pending struct {
		idx int
		key string
	}
	var todo []pending
	needed := 0
	for i, p := range photos {
		if p.Path == "" || !p.Pixels.IsEmpty() || (p.Type != media.TypePhoto && p.Type != "") {
			continue
		}
		needed++
		key := ""
		if fi, err := os.Stat(p.Path); err == nil {
			key = r.Keyer.ProbeKey(p.Path, fi.ModTime(), fi.Size())
		}
		if key != "" && !opts.Refresh {
			if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				var s geom.Size
				if json.Unmarshal(data, &s) == nil && !s.IsEmpty() {
					observability.Cache().OnCacheHit(ctx, "probe")
					photos[i].Pixels = s
					continue
				}
			}
			observability.Cache().OnCacheMiss(ctx, "probe")
		}
		todo = append(todo, pending{idx: i, key: key})
	}

	if len(todo) > 0 {
		batch := make([]media.Photo, len(todo))
		for k, t := range todo {
			batch[k] = photos[t.idx]
		}

		hooks := observability.Pipeline()
		hooks.OnProbeStart(ctx, len(batch))
		start := time.Now()
		err := media.Probe(ctx, batch, opts.Workers)
		hooks.OnProbeComplete(ctx, len(batch), time.Since(start), err)
		if err != nil {
			return 0, err
		}

		for k, t := range todo {
			photos[t.idx].Pixels = batch[k].Pixels
			if t.key == "" {
				continue
			}
			if data, err := json.Marshal(batch[k].Pixels); err == nil {
				if r.Cache.Set(ctx, t.key, data, r.ttl(cache.ArtifactTTL)) == nil {
					observability.Cache().OnCacheSet(ctx, "probe", len(data))
				}
			}
		}
	}

	album.SetSizes(photos)
	return needed, nil
}
