// Package preprocessing は教師ありビニングの前処理を提供します。
// 入力を検証し、例外値の行を分離し、学習対象の行を昇順のユニーク値に集約します。
package preprocessing

import (
	"math"
	"strconv"

	"gonum.org/v1/gonum/floats"

	woeerrors "github.com/YuminosukeSato/woebin/pkg/errors"
)

// ExceptionGroup は宣言された例外値1つに一致した行の重み付き集計
type ExceptionGroup struct {
	Value float64
	Count float64 // 重み付き件数
	Pos   float64 // 重み付き陽性件数
	Rows  int
}

// Partitioned は前処理の結果です。
//
// Vals は学習対象行のユニーク値（昇順）で、Totals/Ones はその値ごとの
// 重み付き件数と陽性件数です。CumTotals/CumOnes は累積和で、
// RangeSums による区間集計をO(1)で行うために使います。
type Partitioned struct {
	Vals      []float64
	Totals    []float64
	Ones      []float64
	CumTotals []float64
	CumOnes   []float64

	// TotalPos と TotalNeg は学習対象行の重み付き陽性・陰性件数
	TotalPos float64
	TotalNeg float64

	NTrainable int
	Exceptions []ExceptionGroup // 宣言順、重複は最初の宣言に集約
}

// RangeSums は Vals[start:stop] の重み付き件数と陽性件数を返す
func (p *Partitioned) RangeSums(start, stop int) (count, pos float64) {
	if stop <= start {
		return 0, 0
	}
	count = p.CumTotals[stop-1]
	pos = p.CumOnes[stop-1]
	if start > 0 {
		count -= p.CumTotals[start-1]
		pos -= p.CumOnes[start-1]
	}
	return count, pos
}

// NExceptionRows は例外値に一致した行数を返す
func (p *Partitioned) NExceptionRows() int {
	n := 0
	for _, g := range p.Exceptions {
		n += g.Rows
	}
	return n
}

// DedupeExceptions は宣言順を保ったまま重複を取り除く。NaNは1つにまとめる
func DedupeExceptions(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	seen := make(map[float64]struct{}, len(values))
	seenNaN := false
	for _, v := range values {
		if math.IsNaN(v) {
			if !seenNaN {
				seenNaN = true
				out = append(out, v)
			}
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// ExceptionIndex は例外値から宣言位置を引く。NaNは通常のmapキーにならないため別扱い
type ExceptionIndex struct {
	pos    map[float64]int
	nanPos int
}

// NewExceptionIndex は重複を除いた例外値の並びから索引を作る
func NewExceptionIndex(values []float64) ExceptionIndex {
	idx := ExceptionIndex{pos: make(map[float64]int, len(values)), nanPos: -1}
	for i, v := range values {
		if math.IsNaN(v) {
			if idx.nanPos < 0 {
				idx.nanPos = i
			}
			continue
		}
		if _, ok := idx.pos[v]; !ok {
			idx.pos[v] = i
		}
	}
	return idx
}

// Lookup はvに一致する例外値の位置を返す
func (e ExceptionIndex) Lookup(v float64) (int, bool) {
	if math.IsNaN(v) {
		return e.nanPos, e.nanPos >= 0
	}
	i, ok := e.pos[v]
	return i, ok
}

// Partition は入力を検証し、学習対象行と例外行に分けて集計する。
//
// パラメータ:
//   - x: 予測変数
//   - y: 目的変数（0または1）
//   - sampleWeight: 行の重み（nilなら全件1）
//   - exceptionValues: 順序付きビニングから除外する値（NaNを含めてよい）
//
// xが空の場合は ErrEmptyData をラップした ModelError を返します。
// 長さの不一致は DimensionError、それ以外の入力不正は ValidationError です。
func Partition(x, y, sampleWeight, exceptionValues []float64) (*Partitioned, error) {
	const op = "Partition"

	n := len(x)
	if n == 0 {
		return nil, woeerrors.NewModelError(op, "empty data", woeerrors.ErrEmptyData)
	}
	if len(y) != n {
		return nil, woeerrors.NewDimensionError(op, "y", n, len(y))
	}
	if sampleWeight != nil && len(sampleWeight) != n {
		return nil, woeerrors.NewDimensionError(op, "sample_weight", n, len(sampleWeight))
	}

	for i, v := range y {
		if v != 0 && v != 1 {
			return nil, woeerrors.NewValidationError("y", "target must be 0 or 1 at index "+strconv.Itoa(i), v)
		}
	}
	for i, w := range sampleWeight {
		switch {
		case math.IsNaN(w):
			return nil, woeerrors.NewValidationError("sample_weight", "NaN weight at index "+strconv.Itoa(i), w)
		case w < 0 || math.IsInf(w, 0):
			return nil, woeerrors.NewValidationError("sample_weight", "weight must be finite and non-negative at index "+strconv.Itoa(i), w)
		}
	}

	declared := DedupeExceptions(exceptionValues)
	idx := NewExceptionIndex(declared)

	p := &Partitioned{Exceptions: make([]ExceptionGroup, len(declared))}
	for i, v := range declared {
		p.Exceptions[i].Value = v
	}

	trainX := make([]float64, 0, n)
	trainRows := make([]int, 0, n)
	for i, v := range x {
		if j, ok := idx.Lookup(v); ok {
			g := &p.Exceptions[j]
			w := weightAt(sampleWeight, i)
			g.Count += w
			g.Pos += w * y[i]
			g.Rows++
			continue
		}
		if math.IsNaN(v) {
			return nil, woeerrors.NewValidationError("x", "NaN found at index "+strconv.Itoa(i)+" but NaN is not a declared exception value", v)
		}
		trainX = append(trainX, v)
		trainRows = append(trainRows, i)
	}
	p.NTrainable = len(trainX)
	if p.NTrainable == 0 {
		return p, nil
	}

	order := make([]int, len(trainX))
	floats.Argsort(trainX, order)

	for k, v := range trainX {
		row := trainRows[order[k]]
		w := weightAt(sampleWeight, row)
		last := len(p.Vals) - 1
		if last < 0 || p.Vals[last] != v {
			p.Vals = append(p.Vals, v)
			p.Totals = append(p.Totals, 0)
			p.Ones = append(p.Ones, 0)
			last++
		}
		p.Totals[last] += w
		p.Ones[last] += w * y[row]
	}

	p.CumTotals = floats.CumSum(make([]float64, len(p.Totals)), p.Totals)
	p.CumOnes = floats.CumSum(make([]float64, len(p.Ones)), p.Ones)

	// クラス総数は学習対象の行だけから求める。例外行を足すと分割位置が変わりうる
	total := p.CumTotals[len(p.CumTotals)-1]
	p.TotalPos = p.CumOnes[len(p.CumOnes)-1]
	p.TotalNeg = total - p.TotalPos
	return p, nil
}

func weightAt(w []float64, i int) float64 {
	if w == nil {
		return 1
	}
	return w[i]
}
