package discretize

import "math"

// Smoothing is added to both numerator and denominator of each class share
// so that groups with no positives or no negatives keep a finite WoE.
const Smoothing = 1e-9

// groupStats is the weighted tally of a contiguous group of samples.
type groupStats struct {
	count float64
	pos   float64
}

func (g groupStats) neg() float64 {
	return g.count - g.pos
}

func (g groupStats) add(o groupStats) groupStats {
	return groupStats{count: g.count + o.count, pos: g.pos + o.pos}
}

// binStats computes WoE and IV of a group relative to fixed class totals.
type binStats struct {
	totalPos float64
	totalNeg float64
}

// woeIV returns the weight of evidence and information value of g.
// An empty group has WoE = IV = 0, and so does every group when one of the
// classes is absent from the totals.
func (b binStats) woeIV(g groupStats) (woe, iv float64) {
	if g.count <= 0 || b.totalPos <= 0 || b.totalNeg <= 0 {
		return 0, 0
	}
	posShare := (g.pos + Smoothing) / (b.totalPos + Smoothing)
	negShare := (g.neg() + Smoothing) / (b.totalNeg + Smoothing)
	woe = math.Log(posShare / negShare)
	iv = (posShare - negShare) * woe
	return woe, iv
}

func (b binStats) iv(g groupStats) float64 {
	_, iv := b.woeIV(g)
	return iv
}
