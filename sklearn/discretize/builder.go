package discretize

import (
	"container/heap"
	"context"
	"math"
	"sort"

	"github.com/YuminosukeSato/woebin/pkg/log"
	"github.com/YuminosukeSato/woebin/preprocessing"
)

// leaf is a node of the growing partition: a contiguous range of unique
// values. Live leaves form a doubly linked list in ascending value order.
type leaf struct {
	start, stop int
	stats       groupStats
	woe, iv     float64

	prev, next int // -1 at the edges
	gen        int
	dead       bool
}

// candidateHeap orders candidates by gain descending, then value ascending.
type candidateHeap []splitCandidate

func (h candidateHeap) Len() int { return len(h) }

func (h candidateHeap) Less(i, j int) bool {
	if h[i].gain != h[j].gain {
		return h[i].gain > h[j].gain
	}
	return h[i].value < h[j].value
}

func (h candidateHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *candidateHeap) Push(x any) { *h = append(*h, x.(splitCandidate)) }

func (h *candidateHeap) Pop() any {
	old := *h
	n := len(old)
	c := old[n-1]
	*h = old[:n-1]
	return c
}

// builder grows the bin partition best-first across all leaves.
type builder struct {
	data   *preprocessing.Partitioned
	finder *splitFinder
	logger log.Logger

	leaves []leaf
	heap   candidateHeap
	budget int

	// direction is 0 while unconstrained. With autoDirection it is fixed by
	// the first committed split.
	direction     int
	autoDirection bool
	committed     []float64
}

// buildResult is the outcome of a build.
type buildResult struct {
	splits    []float64
	bins      []Bin
	direction int
}

func newBuilder(data *preprocessing.Partitioned, params Params, threshold int, logger log.Logger) *builder {
	b := &builder{
		data:   data,
		finder: newSplitFinder(data, params, threshold),
		logger: logger,
		budget: params.MaxBins - 1,
	}
	if params.Mono == nil {
		b.autoDirection = true
	} else {
		b.direction = *params.Mono
	}
	return b
}

func (b *builder) newLeaf(start, stop, prev, next int) int {
	g := b.finder.rangeStats(start, stop)
	w, iv := b.finder.stats.woeIV(g)
	b.leaves = append(b.leaves, leaf{
		start: start, stop: stop,
		stats: g, woe: w, iv: iv,
		prev: prev, next: next,
	})
	return len(b.leaves) - 1
}

func (b *builder) neighbours(id int) neighbours {
	nb := openNeighbours(b.direction)
	l := b.leaves[id]
	if l.prev >= 0 {
		nb.prev = b.leaves[l.prev].woe
	}
	if l.next >= 0 {
		nb.next = b.leaves[l.next].woe
	}
	return nb
}

// evaluate invalidates any queued candidate of the leaf and queues its
// current best, if one exists.
func (b *builder) evaluate(id int) {
	l := &b.leaves[id]
	l.gen++
	c, ok := b.finder.best(l.start, l.stop, l.iv, b.direction, b.neighbours(id))
	if !ok {
		return
	}
	c.leaf = id
	c.gen = l.gen
	heap.Push(&b.heap, c)
}

// pop returns the best candidate still valid for its leaf.
func (b *builder) pop() (splitCandidate, bool) {
	for b.heap.Len() > 0 {
		c := heap.Pop(&b.heap).(splitCandidate)
		l := b.leaves[c.leaf]
		if l.dead || l.gen != c.gen {
			continue
		}
		return c, true
	}
	return splitCandidate{}, false
}

// commit replaces the candidate's leaf by its two children and returns their ids.
func (b *builder) commit(c splitCandidate) (int, int) {
	parent := b.leaves[c.leaf]
	b.leaves[c.leaf].dead = true

	left := b.newLeaf(parent.start, c.k+1, parent.prev, -1)
	right := b.newLeaf(c.k+1, parent.stop, left, parent.next)
	b.leaves[left].next = right
	if parent.prev >= 0 {
		b.leaves[parent.prev].next = left
	}
	if parent.next >= 0 {
		b.leaves[parent.next].prev = right
	}

	b.committed = append(b.committed, c.value)
	b.budget--

	if b.autoDirection && b.direction == 0 {
		if c.rightWoE > c.leftWoE {
			b.direction = 1
		} else {
			b.direction = -1
		}
	}

	if b.logger != nil && b.logger.Enabled(context.Background(), log.LevelDebug) {
		b.logger.Debug("Split committed",
			log.SplitKey, c.value,
			log.GainKey, c.gain,
			log.LeftWoEKey, c.leftWoE,
			log.RightWoEKey, c.rightWoE,
			log.DirectionKey, b.direction,
		)
	}
	return left, right
}

// build runs global best-first splitting until the bin budget is spent or no
// leaf has an admissible split left.
func (b *builder) build() buildResult {
	if len(b.data.Vals) == 0 {
		return b.result(-1)
	}

	root := b.newLeaf(0, len(b.data.Vals), -1, -1)
	b.evaluate(root)

	for b.budget > 0 {
		c, ok := b.pop()
		if !ok {
			break
		}
		left, right := b.commit(c)
		b.evaluate(left)
		b.evaluate(right)

		if b.direction != 0 {
			if p := b.leaves[left].prev; p >= 0 {
				b.evaluate(p)
			}
			if n := b.leaves[right].next; n >= 0 {
				b.evaluate(n)
			}
		}
	}
	return b.result(root)
}

// result walks the live leaves in order and finalizes the boundaries.
func (b *builder) result(root int) buildResult {
	splits := make([]float64, 0, len(b.committed)+2)
	splits = append(splits, math.Inf(-1))
	sorted := append([]float64(nil), b.committed...)
	sort.Float64s(sorted)
	splits = append(splits, sorted...)
	splits = append(splits, math.Inf(1))

	if root < 0 {
		return buildResult{
			splits:    splits,
			bins:      []Bin{{Lower: math.Inf(-1), Upper: math.Inf(1)}},
			direction: b.direction,
		}
	}

	head := b.firstLive()

	bins := make([]Bin, 0, len(splits)-1)
	for id, i := head, 0; id >= 0; id, i = b.leaves[id].next, i+1 {
		l := b.leaves[id]
		bins = append(bins, Bin{
			Lower: splits[i],
			Upper: splits[i+1],
			Count: l.stats.count,
			Pos:   l.stats.pos,
			Neg:   l.stats.neg(),
			WoE:   l.woe,
			IV:    l.iv,
		})
	}
	return buildResult{splits: splits, bins: bins, direction: b.direction}
}

func (b *builder) firstLive() int {
	for id := range b.leaves {
		l := b.leaves[id]
		if !l.dead && l.prev < 0 {
			return id
		}
	}
	return -1
}
