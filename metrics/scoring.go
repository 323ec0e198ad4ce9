// Package metrics measures how well a binned predictor separates the two
// classes of a binary target.
package metrics

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/woebin/pkg/errors"
)

// Report は判別力の指標をまとめたものです
type Report struct {
	AUC  float64
	Gini float64
	KS   float64
}

// scoreGroup は同じスコアを持つ行の重み付き件数
type scoreGroup struct {
	pos, neg float64
}

// groupByScore sorts the rows by score and merges ties. Weights may be nil.
func groupByScore(op string, yTrue, score, weight []float64) ([]scoreGroup, float64, float64, error) {
	n := len(yTrue)
	if n == 0 {
		return nil, 0, 0, errors.NewValidationError(op, "empty input", n)
	}
	if len(score) != n {
		return nil, 0, 0, errors.NewDimensionError(op, "score", n, len(score))
	}
	if weight != nil && len(weight) != n {
		return nil, 0, 0, errors.NewDimensionError(op, "sample_weight", n, len(weight))
	}
	if err := errors.CheckFinite(op, score); err != nil {
		return nil, 0, 0, err
	}

	sorted := append([]float64(nil), score...)
	order := make([]int, n)
	floats.Argsort(sorted, order)

	var groups []scoreGroup
	var totalPos, totalNeg float64
	for i, row := range order {
		w := 1.0
		if weight != nil {
			w = weight[row]
		}
		if i == 0 || sorted[i] != sorted[i-1] {
			groups = append(groups, scoreGroup{})
		}
		g := &groups[len(groups)-1]
		switch yTrue[row] {
		case 1:
			g.pos += w
			totalPos += w
		case 0:
			g.neg += w
			totalNeg += w
		default:
			return nil, 0, 0, errors.NewValidationError(op, "labels must be 0 or 1", yTrue[row])
		}
	}
	return groups, totalPos, totalNeg, nil
}

// WeightedAUC computes the area under the ROC curve. Tied scores count as
// half a correctly ordered pair. When only one class is present the AUC is
// undefined; 0.5 is returned and an UndefinedMetricWarning is raised.
func WeightedAUC(yTrue, score, weight []float64) (float64, error) {
	groups, totalPos, totalNeg, err := groupByScore("AUC", yTrue, score, weight)
	if err != nil {
		return 0, err
	}
	if totalPos == 0 || totalNeg == 0 {
		errors.Warn(errors.NewUndefinedMetricWarning("AUC", "only one class present in y_true", 0.5))
		return 0.5, nil
	}

	// 自分より低いスコアの負例の重みを累積する
	var area, negBelow float64
	for _, g := range groups {
		area += g.pos * (negBelow + 0.5*g.neg)
		negBelow += g.neg
	}
	return area / (totalPos * totalNeg), nil
}

// AUC is the unweighted WeightedAUC of two vectors.
func AUC(yTrue, yPred *mat.VecDense) (float64, error) {
	if yTrue == nil || yPred == nil {
		return 0, errors.NewValidationError("AUC", "nil vector", nil)
	}
	return WeightedAUC(vecData(yTrue), vecData(yPred), nil)
}

// AUCMatrix computes AUC on the first column of two matrices.
func AUCMatrix(yTrue, yPred mat.Matrix) (float64, error) {
	if yTrue == nil || yPred == nil {
		return 0, errors.NewValidationError("AUCMatrix", "nil matrix", nil)
	}
	r, c := yTrue.Dims()
	if r == 0 || c == 0 {
		return 0, errors.NewValidationError("AUCMatrix", "empty matrix", r)
	}
	if rp, _ := yPred.Dims(); rp != r {
		return 0, errors.NewDimensionError("AUCMatrix", "y_pred", r, rp)
	}
	return WeightedAUC(firstColumn(yTrue), firstColumn(yPred), nil)
}

// KS computes the Kolmogorov-Smirnov statistic: the largest gap between the
// cumulative score distributions of the two classes.
func KS(yTrue, score, weight []float64) (float64, error) {
	groups, totalPos, totalNeg, err := groupByScore("KS", yTrue, score, weight)
	if err != nil {
		return 0, err
	}
	if totalPos == 0 || totalNeg == 0 {
		errors.Warn(errors.NewUndefinedMetricWarning("KS", "only one class present in y_true", 0))
		return 0, nil
	}

	var cumPos, cumNeg, ks float64
	for _, g := range groups {
		cumPos += g.pos
		cumNeg += g.neg
		ks = math.Max(ks, math.Abs(cumPos/totalPos-cumNeg/totalNeg))
	}
	return ks, nil
}

// Evaluate computes AUC, Gini (2*AUC-1) and KS of score against yTrue.
//
//	woe, _ := d.PredictWoE(x)
//	r, err := metrics.Evaluate(y, woe, nil)
func Evaluate(yTrue, score, weight []float64) (Report, error) {
	auc, err := WeightedAUC(yTrue, score, weight)
	if err != nil {
		return Report{}, err
	}
	ks, err := KS(yTrue, score, weight)
	if err != nil {
		return Report{}, err
	}
	return Report{AUC: auc, Gini: 2*auc - 1, KS: ks}, nil
}

func firstColumn(m mat.Matrix) []float64 {
	r, _ := m.Dims()
	out := make([]float64, r)
	for i := range out {
		out[i] = m.At(i, 0)
	}
	return out
}

func vecData(v *mat.VecDense) []float64 {
	out := make([]float64, v.Len())
	for i := range out {
		out[i] = v.AtVec(i)
	}
	return out
}
