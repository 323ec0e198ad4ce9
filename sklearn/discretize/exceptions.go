package discretize

import (
	woeerrors "github.com/YuminosukeSato/woebin/pkg/errors"
	"github.com/YuminosukeSato/woebin/preprocessing"
)

// exceptionTracker turns the held-out groups into exception entries, using
// the same class totals as the ordered bins.
type exceptionTracker struct {
	stats binStats
}

func (t exceptionTracker) entries(groups []preprocessing.ExceptionGroup) []ExceptionEntry {
	out := make([]ExceptionEntry, len(groups))
	for i, g := range groups {
		gs := groupStats{count: g.Count, pos: g.Pos}
		w, iv := t.stats.woeIV(gs)
		out[i] = ExceptionEntry{
			Value: g.Value,
			Count: gs.count,
			Pos:   gs.pos,
			Neg:   gs.neg(),
			WoE:   w,
			IV:    iv,
		}
	}
	return out
}

// warnUnseen raises an UndefinedMetricWarning for every exception value that
// never occurred in the training data.
func warnUnseen(entries []ExceptionEntry) {
	for _, e := range entries {
		if e.Count == 0 {
			woeerrors.Warn(woeerrors.NewUndefinedMetricWarning(
				"woe",
				"exception value "+formatValue(e.Value)+" has no training samples",
				0,
			))
		}
	}
}
