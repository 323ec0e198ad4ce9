/*
Package discretize implements supervised, constrained discretization of one
continuous variable against a binary outcome.

A Discretizer partitions the real line into ordered bins (Lower, Upper] that
maximize information value (IV) subject to:

  - min_obs: minimum weighted count per bin
  - min_pos: minimum weighted positive count per bin
  - min_iv: minimum IV gain for a split to be accepted
  - max_bins: maximum number of ordinary bins
  - mono: monotonic weight of evidence (WoE) across bins; fixed (-1, 1),
    disabled (0), or chosen by the first split when unset

Splits are chosen globally best-first: at every step the boundary with the
largest IV gain across all current bins is committed. Exception values,
including NaN, are held out of the ordered bins and get their own WoE/IV
computed against the same class totals, so they never affect bin placement.

WoE and IV use additive smoothing of each class share:

	share = (count + 1e-9) / (total + 1e-9)
	WoE   = ln(posShare / negShare)
	IV    = (posShare - negShare) * WoE

Example:

	d := discretize.NewDiscretizer(
	    discretize.WithMaxBins(10),
	    discretize.WithMinObs(5),
	)
	err := d.Fit(fare, survived, nil, []float64{math.NaN()})
	splits, _ := d.Splits()
	woe, _ := d.PredictWoE(fare)
*/
package discretize
