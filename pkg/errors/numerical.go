package errors

import (
	"fmt"
	"math"
)

// NumericalInstabilityError は数値計算が不安定になった場合のエラーです。
// 平滑化後のWoE/IVにNaNが現れた場合などに返されます。
type NumericalInstabilityError struct {
	Operation string    // 発生した操作（例: "bin_statistics"）
	Values    []float64 // 問題のある値
	Index     int       // 問題が見つかった位置（ビン番号など）
}

func (e *NumericalInstabilityError) Error() string {
	valStr := ""
	for i, v := range e.Values {
		if i > 0 {
			valStr += ", "
		}
		if i >= 5 {
			valStr += "..."
			break
		}
		valStr += fmt.Sprintf("%.6g", v)
	}
	return fmt.Sprintf("woebin: numerical instability detected in %s at index %d. Values: [%s]",
		e.Operation, e.Index, valStr)
}

// NewNumericalInstabilityError は新しいNumericalInstabilityErrorを作成します。
func NewNumericalInstabilityError(operation string, values []float64, index int) error {
	err := &NumericalInstabilityError{
		Operation: operation,
		Values:    values,
		Index:     index,
	}
	return WithStack(err)
}

// CheckNumericalStability は値にNaNが含まれていないか確認します。
// 無限大は境界の番兵として正当に使われるため、ここでは検出対象外です。
func CheckNumericalStability(operation string, values []float64) error {
	for i, v := range values {
		if math.IsNaN(v) {
			return NewNumericalInstabilityError(operation, values, i)
		}
	}
	return nil
}

// CheckFinite は値がすべて有限であることを確認します。
func CheckFinite(operation string, values []float64) error {
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return NewNumericalInstabilityError(operation, values, i)
		}
	}
	return nil
}
