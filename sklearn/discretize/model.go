package discretize

import (
	"math"
	"sort"

	"github.com/rs/zerolog"

	"github.com/YuminosukeSato/woebin/preprocessing"
)

// Bin is one interval (Lower, Upper] of the fitted scheme with its weighted
// statistics. The first bin has Lower = -Inf and the last Upper = +Inf.
type Bin struct {
	Lower float64
	Upper float64
	Count float64
	Pos   float64
	Neg   float64
	WoE   float64
	IV    float64
}

// ExceptionEntry holds the statistics of one declared exception value.
type ExceptionEntry struct {
	Value float64
	Count float64
	Pos   float64
	Neg   float64
	WoE   float64
	IV    float64
}

// ExceptionTable is the column view of the exception entries, in declaration
// order.
type ExceptionTable struct {
	Vals     []float64
	TotalsCt []float64
	OnesCt   []float64
	ZeroCt   []float64
	WoE      []float64
	IV       []float64
}

// FittedModel は学習済みのビニング方式です。インストール後は変更されません。
type FittedModel struct {
	// Splits は昇順の境界値で、先頭が-Inf、末尾が+Infです
	Splits     []float64
	Bins       []Bin
	Exceptions []ExceptionEntry

	// Direction は単調性の向き（-1, 0, 1）。未設定の場合は最初の分割で決まった向き
	Direction int
	Params    Params

	// TotalPos と TotalNeg はWoE計算に使った学習対象行の重み付き件数
	TotalPos float64
	TotalNeg float64

	index preprocessing.ExceptionIndex
	inner []float64
}

// prepare builds the lookup structures used by prediction. It must be called
// before the model is shared.
func (m *FittedModel) prepare() {
	vals := make([]float64, len(m.Exceptions))
	for i, e := range m.Exceptions {
		vals[i] = e.Value
	}
	m.index = preprocessing.NewExceptionIndex(vals)
	if len(m.Splits) >= 2 {
		m.inner = m.Splits[1 : len(m.Splits)-1]
	}
}

// exceptionPos returns the declaration position of v, if v is an exception.
func (m *FittedModel) exceptionPos(v float64) (int, bool) {
	return m.index.Lookup(v)
}

// binIndex returns the bin whose interval (Lower, Upper] contains v.
// A NaN that is not an exception value falls into bin 0.
func (m *FittedModel) binIndex(v float64) int {
	if math.IsNaN(v) {
		return 0
	}
	return sort.SearchFloat64s(m.inner, v)
}

// TotalIV returns the information value of the scheme over bins and
// exception values.
func (m *FittedModel) TotalIV() float64 {
	total := 0.0
	for _, b := range m.Bins {
		total += b.IV
	}
	for _, e := range m.Exceptions {
		total += e.IV
	}
	return total
}

// ExceptionTable returns the exception entries as parallel columns.
func (m *FittedModel) ExceptionTable() *ExceptionTable {
	n := len(m.Exceptions)
	t := &ExceptionTable{
		Vals:     make([]float64, n),
		TotalsCt: make([]float64, n),
		OnesCt:   make([]float64, n),
		ZeroCt:   make([]float64, n),
		WoE:      make([]float64, n),
		IV:       make([]float64, n),
	}
	for i, e := range m.Exceptions {
		t.Vals[i] = e.Value
		t.TotalsCt[i] = e.Count
		t.OnesCt[i] = e.Pos
		t.ZeroCt[i] = e.Neg
		t.WoE[i] = e.WoE
		t.IV[i] = e.IV
	}
	return t
}

// Clone returns a deep copy ready for prediction.
func (m *FittedModel) Clone() *FittedModel {
	c := &FittedModel{
		Splits:     append([]float64(nil), m.Splits...),
		Bins:       append([]Bin(nil), m.Bins...),
		Exceptions: append([]ExceptionEntry(nil), m.Exceptions...),
		Direction:  m.Direction,
		Params:     m.Params.clone(),
		TotalPos:   m.TotalPos,
		TotalNeg:   m.TotalNeg,
	}
	c.prepare()
	return c
}

// MarshalZerologObject はzerologのイベントに学習結果の要約を追加します。
func (m *FittedModel) MarshalZerologObject(e *zerolog.Event) {
	e.Int("bins", len(m.Bins)).
		Int("exceptions", len(m.Exceptions)).
		Int("direction", m.Direction).
		Float64("total_iv", m.TotalIV())
}
