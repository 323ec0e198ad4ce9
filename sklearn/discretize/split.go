package discretize

import (
	"math"

	"github.com/YuminosukeSato/woebin/core/parallel"
	"github.com/YuminosukeSato/woebin/preprocessing"
)

// splitCandidate is a proposed boundary inside one leaf. The left child holds
// vals[start..k], the right child vals[k+1..stop).
type splitCandidate struct {
	leaf  int
	gen   int
	k     int
	value float64
	gain  float64

	left, right       groupStats
	leftWoE, rightWoE float64
}

// neighbours carries the WoE of the bins adjacent to a leaf. A missing
// neighbour is represented by the infinity that never constrains.
type neighbours struct {
	prev float64
	next float64
}

// admissible reports whether children with WoE wl and wr keep the bin WoE
// sequence monotone in direction dir. dir 0 accepts everything.
func admissible(dir int, nb neighbours, wl, wr float64) bool {
	switch dir {
	case 1:
		return nb.prev <= wl && wl <= wr && wr <= nb.next
	case -1:
		return nb.prev >= wl && wl >= wr && wr >= nb.next
	default:
		return true
	}
}

// openNeighbours returns the unconstrained bounds for direction dir.
func openNeighbours(dir int) neighbours {
	if dir < 0 {
		return neighbours{prev: math.Inf(1), next: math.Inf(-1)}
	}
	return neighbours{prev: math.Inf(-1), next: math.Inf(1)}
}

// splitFinder locates the best admissible boundary of a leaf.
type splitFinder struct {
	data      *preprocessing.Partitioned
	stats     binStats
	minObs    float64
	minPos    float64
	minIV     float64
	threshold int
}

func newSplitFinder(data *preprocessing.Partitioned, params Params, threshold int) *splitFinder {
	return &splitFinder{
		data:      data,
		stats:     binStats{totalPos: data.TotalPos, totalNeg: data.TotalNeg},
		minObs:    params.MinObs,
		minPos:    params.MinPos,
		minIV:     params.MinIV,
		threshold: threshold,
	}
}

func (f *splitFinder) rangeStats(start, stop int) groupStats {
	count, pos := f.data.RangeSums(start, stop)
	return groupStats{count: count, pos: pos}
}

// evaluate scores the boundary after vals[k] for the leaf [start, stop).
func (f *splitFinder) evaluate(start, k, stop int, parentIV float64, dir int, nb neighbours) (splitCandidate, bool) {
	value := f.data.Vals[k]
	if math.IsInf(value, 0) {
		return splitCandidate{}, false
	}

	left := f.rangeStats(start, k+1)
	right := f.rangeStats(k+1, stop)
	if left.pos < f.minPos || right.pos < f.minPos {
		return splitCandidate{}, false
	}
	if left.count < f.minObs || right.count < f.minObs {
		return splitCandidate{}, false
	}

	wl, ivl := f.stats.woeIV(left)
	wr, ivr := f.stats.woeIV(right)
	if !admissible(dir, nb, wl, wr) {
		return splitCandidate{}, false
	}

	return splitCandidate{
		k:        k,
		value:    value,
		gain:     ivl + ivr - parentIV,
		left:     left,
		right:    right,
		leftWoE:  wl,
		rightWoE: wr,
	}, true
}

// best returns the maximal-gain admissible candidate of [start, stop), ties
// going to the lowest boundary. It reports false when no candidate survives
// or the best gain is not positive or falls below min_iv.
func (f *splitFinder) best(start, stop int, parentIV float64, dir int, nb neighbours) (splitCandidate, bool) {
	n := stop - start - 1
	if n <= 0 {
		return splitCandidate{}, false
	}

	type scored struct {
		c  splitCandidate
		ok bool
	}
	results := parallel.Map(n, f.threshold, func(i int) scored {
		c, ok := f.evaluate(start, start+i, stop, parentIV, dir, nb)
		return scored{c: c, ok: ok}
	})

	var best splitCandidate
	found := false
	for _, r := range results {
		if !r.ok {
			continue
		}
		if !found || r.c.gain > best.gain {
			best = r.c
			found = true
		}
	}
	if !found || best.gain <= 0 || best.gain < f.minIV {
		return splitCandidate{}, false
	}
	return best, true
}
