package grouped

import (
	"math"
	"strings"

	"github.com/matzehuels/mosaic/pkg/geom"
)

const (
	wideRatio   = 1.2 // strictly above is wide
	narrowRatio = 0.8 // strictly below is narrow

	// forceSearchRatio sends any set holding a ratio strictly above it to
	// the row search, whatever the count.
	forceSearchRatio = 2.0

	// minContentSide replaces content sides that are not positive and finite.
	minContentSide = 1.0

	// maxAspectRatio bounds ratios in both directions; content beyond it is
	// treated as malformed.
	maxAspectRatio = 1000.0
)

const (
	propWide   = 'w'
	propNarrow = 'n'
	propSquare = 'q'
)

// photoInfo is the per-item working record of a measure pass.
type photoInfo struct {
	id          string
	imageSize   geom.Size
	aspectRatio float64
	frame       geom.Rect
	flags       PositionFlags
}

func (p *photoInfo) place(frame geom.Rect, flags PositionFlags) {
	p.frame = frame
	p.flags = flags
}

// extractPhotos resolves every item and derives its aspect ratio. Content
// sides that are not positive and finite are clamped to one point and
// ratios to [1/maxAspectRatio, maxAspectRatio]; the ids of such items are
// returned alongside.
func extractPhotos(items []Item, r Resolver) ([]photoInfo, []string) {
	photos := make([]photoInfo, len(items))
	var degenerate []string
	for i, it := range items {
		size := r.ContentSize(it)
		w, okW := clampSide(size.Width)
		h, okH := clampSide(size.Height)
		ratio := w / h
		okRatio := ratio >= 1/maxAspectRatio && ratio <= maxAspectRatio
		if !okRatio {
			ratio = math.Max(1/maxAspectRatio, math.Min(maxAspectRatio, ratio))
		}
		if !okW || !okH || !okRatio {
			degenerate = append(degenerate, it.ID())
		}
		photos[i] = photoInfo{
			id:          it.ID(),
			imageSize:   geom.Size{Width: w, Height: h},
			aspectRatio: ratio,
		}
	}
	return photos, degenerate
}

func clampSide(v float64) (float64, bool) {
	if !(v > 0) || math.IsInf(v, 0) {
		return minContentSide, false
	}
	return v, true
}

// classify buckets a ratio as wide, narrow or square. The boundaries are
// exclusive: 1.2 and 0.8 are both square.
func classify(ratio float64) byte {
	switch {
	case ratio > wideRatio:
		return propWide
	case ratio < narrowRatio:
		return propNarrow
	default:
		return propSquare
	}
}

// proportions summarizes a set as one class letter per item, and reports
// the mean ratio and whether any ratio forces the row search.
func proportions(photos []photoInfo) (props string, avg float64, force bool) {
	var b strings.Builder
	b.Grow(len(photos))
	var sum float64
	for _, p := range photos {
		b.WriteByte(classify(p.aspectRatio))
		sum += p.aspectRatio
		if p.aspectRatio > forceSearchRatio {
			force = true
		}
	}
	if len(photos) > 0 {
		avg = sum / float64(len(photos))
	}
	return b.String(), avg, force
}
