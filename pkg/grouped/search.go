package grouped

import (
	"math"

	"github.com/matzehuels/mosaic/pkg/geom"
)

const (
	// Rows hold at most this many items, except that the second of three
	// rows may hold one more when the set is mostly portrait.
	maxRowItems     = 3
	tallMiddleItems = 4
	tallAverage     = 0.85

	// Sets whose mean ratio is above cropBias are cropped towards landscape,
	// the rest towards portrait.
	cropBias = 1.1

	// irregularPenalty multiplies the score of attempts with a shrinking
	// row count or a row shorter than minSlot.
	irregularPenalty = 1.5
)

// attempt is one candidate partition of the items into consecutive rows.
type attempt struct {
	lineCounts []int
	heights    []float64
}

// cropRatios pulls every ratio to the side of 1 the set leans towards, so a
// landscape-heavy album never gets a portrait tile and vice versa.
func cropRatios(photos []photoInfo, avg float64) []float64 {
	ratios := make([]float64, len(photos))
	for i, p := range photos {
		if avg > cropBias {
			ratios[i] = math.Max(1, p.aspectRatio)
		} else {
			ratios[i] = math.Min(1, p.aspectRatio)
		}
	}
	return ratios
}

// rowHeight is the height at which ratios exactly fill width with spacing
// between them.
func rowHeight(ratios []float64, width, sp float64) float64 {
	var sum float64
	for _, r := range ratios {
		sum += r
	}
	return (width - float64(len(ratios)-1)*sp) / sum
}

// generateAttempts enumerates partitions into one to four rows. The order
// is fixed: it decides ties.
func generateAttempts(ratios []float64, avg, width, sp float64) []attempt {
	n := len(ratios)
	var attempts []attempt
	add := func(counts ...int) {
		heights := make([]float64, len(counts))
		start := 0
		for i, c := range counts {
			heights[i] = rowHeight(ratios[start:start+c], width, sp)
			start += c
		}
		attempts = append(attempts, attempt{lineCounts: counts, heights: heights})
	}

	add(n)

	for first := 1; first < n; first++ {
		second := n - first
		if first > maxRowItems || second > maxRowItems {
			continue
		}
		add(first, second)
	}

	middle := maxRowItems
	if avg < tallAverage {
		middle = tallMiddleItems
	}
	for first := 1; first < n-1; first++ {
		for second := 1; second < n-first; second++ {
			third := n - first - second
			if first > maxRowItems || second > middle || third > maxRowItems {
				continue
			}
			add(first, second, third)
		}
	}

	for first := 1; first < n-2; first++ {
		for second := 1; second < n-first-1; second++ {
			for third := 1; third < n-first-second; third++ {
				fourth := n - first - second - third
				if first > maxRowItems || second > maxRowItems || third > maxRowItems || fourth > maxRowItems {
					continue
				}
				add(first, second, third, fourth)
			}
		}
	}
	return attempts
}

// scoreAttempt is the distance of the attempt's total height from target,
// penalized once for any row holding more items than the next and once for
// any row shorter than minSlot. Lower is better.
func scoreAttempt(a attempt, target, sp float64) float64 {
	total := sp * float64(len(a.heights)-1)
	shortest := math.Inf(1)
	for _, h := range a.heights {
		total += h
		shortest = math.Min(shortest, h)
	}
	diff := math.Abs(total - target)

	for i := 0; i+1 < len(a.lineCounts); i++ {
		if a.lineCounts[i] > a.lineCounts[i+1] {
			diff *= irregularPenalty
			break
		}
	}
	if shortest < minSlot {
		diff *= irregularPenalty
	}
	return diff
}

// bestAttempt returns the lowest scoring attempt; the earliest wins a tie.
func bestAttempt(attempts []attempt, target, sp float64) (attempt, bool) {
	var (
		best      attempt
		bestScore = math.Inf(1)
		found     bool
	)
	for _, a := range attempts {
		if s := scoreAttempt(a, target, sp); s < bestScore {
			best, bestScore, found = a, s, true
		}
	}
	return best, found
}

// placeRows lays the chosen rows out top to bottom. Each item's width is
// its cropped ratio times the row height. Rows and tiles thinner than unit
// are widened to it, and everything after them shifts along.
func placeRows(p []photoInfo, ratios []float64, a attempt, sp, unit float64) {
	var y float64
	idx := 0
	last := len(a.lineCounts) - 1
	for row, count := range a.lineCounts {
		raw := a.heights[row]
		h := math.Max(raw, unit)
		var rowFlags PositionFlags
		if row == 0 {
			rowFlags |= PositionTop
		}
		if row == last {
			rowFlags |= PositionBottom
		}

		var x float64
		for k := 0; k < count; k++ {
			flags := rowFlags
			if k == 0 {
				flags |= PositionLeft
			}
			if k == count-1 {
				flags |= PositionRight
			}
			if flags == PositionNone {
				flags = PositionInside
			}
			w := math.Max(ratios[idx]*raw, unit)
			p[idx].place(geom.MakeRect(x, y, w, h), flags)
			x += w + sp
			idx++
		}
		y += h + sp
	}
}

// layoutRows runs the partition search over the whole set.
func layoutRows(p []photoInfo, avg float64, box geom.Size, sp, unit float64) {
	ratios := cropRatios(p, avg)
	attempts := generateAttempts(ratios, avg, box.Width, sp)
	best, ok := bestAttempt(attempts, box.Height*4/3, sp)
	if !ok {
		return
	}
	placeRows(p, ratios, best, sp, unit)
}
