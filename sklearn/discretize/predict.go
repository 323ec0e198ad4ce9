package discretize

import (
	"strings"
	"time"

	"gonum.org/v1/gonum/mat"

	woeerrors "github.com/YuminosukeSato/woebin/pkg/errors"
)

// PredictionType selects what Predict returns for each value.
type PredictionType int

const (
	// PredictionWoE replaces each value by the WoE of its bin or exception.
	PredictionWoE PredictionType = iota
	// PredictionIndex replaces each value by its zero-based bin index, or
	// -(1+position) for the exception value at that declaration position.
	PredictionIndex
)

// String returns "woe" or "index".
func (t PredictionType) String() string {
	switch t {
	case PredictionWoE:
		return "woe"
	case PredictionIndex:
		return "index"
	default:
		return "unknown"
	}
}

// ParsePredictionType parses "woe" or "index" (case-insensitive).
func ParsePredictionType(s string) (PredictionType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "woe":
		return PredictionWoE, nil
	case "index":
		return PredictionIndex, nil
	default:
		return 0, woeerrors.NewValidationError("prediction_type", "must be \"woe\" or \"index\"", s)
	}
}

// Prediction holds the result of Predict. Exactly one of WoE and Index is
// set, according to Type.
type Prediction struct {
	Type  PredictionType
	WoE   []float64
	Index []int
}

// Predict transforms x with the fitted scheme.
func (d *Discretizer) Predict(x []float64, t PredictionType) (p *Prediction, err error) {
	start := time.Now()
	if d.observer != nil {
		defer func() { d.observer.ObservePredict(t, len(x), time.Since(start), err) }()
	}

	m, err := d.current("Predict")
	if err != nil {
		return nil, err
	}

	switch t {
	case PredictionWoE:
		return &Prediction{Type: t, WoE: m.predictWoE(x)}, nil
	case PredictionIndex:
		return &Prediction{Type: t, Index: m.predictIndex(x)}, nil
	default:
		return nil, woeerrors.NewValidationError("prediction_type", "must be PredictionWoE or PredictionIndex", int(t))
	}
}

// PredictWoE replaces each value by the WoE of its exception entry or bin.
// An exception value never seen in training maps to 0.
func (d *Discretizer) PredictWoE(x []float64) ([]float64, error) {
	p, err := d.Predict(x, PredictionWoE)
	if err != nil {
		return nil, err
	}
	return p.WoE, nil
}

// PredictIndex replaces each value by its bin index. Exception values map to
// -(1+position) in declaration order.
func (d *Discretizer) PredictIndex(x []float64) ([]int, error) {
	p, err := d.Predict(x, PredictionIndex)
	if err != nil {
		return nil, err
	}
	return p.Index, nil
}

// TransformMatrix replaces every element of X by its WoE, keeping the shape.
func (d *Discretizer) TransformMatrix(X mat.Matrix) (*mat.Dense, error) {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return nil, woeerrors.NewModelError("Discretizer.TransformMatrix", "empty data", woeerrors.ErrEmptyData)
	}
	m, err := d.current("TransformMatrix")
	if err != nil {
		return nil, err
	}

	out := mat.NewDense(r, c, nil)
	col := make([]float64, r)
	for j := 0; j < c; j++ {
		mat.Col(col, j, X)
		out.SetCol(j, m.predictWoE(col))
	}
	return out, nil
}

func (m *FittedModel) predictWoE(x []float64) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		if pos, ok := m.exceptionPos(v); ok {
			e := m.Exceptions[pos]
			if e.Count > 0 {
				out[i] = e.WoE
			}
			continue
		}
		out[i] = m.Bins[m.binIndex(v)].WoE
	}
	return out
}

func (m *FittedModel) predictIndex(x []float64) []int {
	out := make([]int, len(x))
	for i, v := range x {
		if pos, ok := m.exceptionPos(v); ok {
			out[i] = -(1 + pos)
			continue
		}
		out[i] = m.binIndex(v)
	}
	return out
}
