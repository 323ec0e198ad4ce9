package errors

import (
	"fmt"
	"math"
	"strings"
	"testing"
)

func TestNewModelError(t *testing.T) {
	tests := []struct {
		name     string
		op       string
		kind     string
		err      error
		wantMsg  string
		hasStack bool
	}{
		{
			name:     "with original error",
			op:       "Discretizer.Fit",
			kind:     "empty data",
			err:      ErrEmptyData,
			wantMsg:  "woebin: Discretizer.Fit: empty data: empty data",
			hasStack: true,
		},
		{
			name:     "without original error",
			op:       "Discretizer.Predict",
			kind:     "not fitted",
			err:      nil,
			wantMsg:  "woebin: Discretizer.Predict: not fitted",
			hasStack: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewModelError(tt.op, tt.kind, tt.err)

			// 基本的なエラーメッセージの確認
			if err.Error() != tt.wantMsg {
				t.Errorf("Error() = %v, want %v", err.Error(), tt.wantMsg)
			}

			// スタックトレースの存在確認
			if tt.hasStack {
				formatted := fmt.Sprintf("%+v", err)
				if !strings.Contains(formatted, "errors_test.go") {
					t.Error("Expected stack trace to contain test file name")
				}
			}

			var modelErr *ModelError
			if !As(err, &modelErr) {
				t.Error("Error should be castable to *ModelError")
			}

			if tt.err != nil && !Is(err, tt.err) {
				t.Error("ModelError should unwrap to the original error")
			}
		})
	}
}

func TestNewDimensionError(t *testing.T) {
	err := NewDimensionError("Discretizer.Fit", "y", 10, 9)

	want := "woebin: Discretizer.Fit: length mismatch for y. Expected 10, got 9"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	var dimErr *DimensionError
	if !As(err, &dimErr) {
		t.Error("Error should be castable to *DimensionError")
	}

	// 長さの不一致も検証エラーとして扱う
	if !IsValidation(err) {
		t.Error("DimensionError should be reported as a validation failure")
	}
}

func TestNewNotFittedError(t *testing.T) {
	err := NewNotFittedError("Discretizer", "Predict")

	want := "woebin: Discretizer: this model is not fitted yet. Call Fit() before using Predict()"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	var notFittedErr *NotFittedError
	if !As(err, &notFittedErr) {
		t.Error("Error should be castable to *NotFittedError")
	}
	if !IsNotFitted(err) {
		t.Error("IsNotFitted should be true")
	}
	if IsValidation(err) {
		t.Error("NotFittedError is not a validation failure")
	}
}

func TestNewValidationError(t *testing.T) {
	tests := []struct {
		name    string
		param   string
		reason  string
		value   interface{}
		wantMsg string
	}{
		{
			name:    "negative min_obs",
			param:   "min_obs",
			reason:  "must be >= 0",
			value:   -1.0,
			wantMsg: "woebin: validation failed for parameter 'min_obs': must be >= 0 (got: -1)",
		},
		{
			name:    "nan in predictor",
			param:   "x",
			reason:  "contains NaN but NaN is not an exception value",
			value:   math.NaN(),
			wantMsg: "woebin: validation failed for parameter 'x': contains NaN but NaN is not an exception value (got: NaN)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewValidationError(tt.param, tt.reason, tt.value)
			if err.Error() != tt.wantMsg {
				t.Errorf("Error() = %v, want %v", err.Error(), tt.wantMsg)
			}
			if !IsValidation(err) {
				t.Error("IsValidation should be true")
			}
		})
	}
}

func TestWarnings(t *testing.T) {
	warn := NewDegenerateBinningWarning(12, "min_pos not satisfiable")
	want := "no admissible split found over 12 weighted samples, a single bin was produced: min_pos not satisfiable"
	if warn.Error() != want {
		t.Errorf("Error() = %v, want %v", warn.Error(), want)
	}

	undefined := NewUndefinedMetricWarning("woe", "no observed rows for exception value 1", 0)
	if !strings.Contains(undefined.Error(), "'woe' is ill-defined") {
		t.Errorf("unexpected message: %v", undefined.Error())
	}
}

func TestWarnRouting(t *testing.T) {
	var got []error
	SetWarningHandler(func(w error) { got = append(got, w) })
	defer SetWarningHandler(func(w error) {})

	Warn(NewDegenerateBinningWarning(1, "test"))
	if len(got) != 1 {
		t.Fatalf("expected 1 warning through handler, got %d", len(got))
	}

	// zerolog関数が設定されている場合はそちらが優先される
	var viaZerolog int
	SetZerologWarnFunc(func(w error) { viaZerolog++ })
	Warn(NewDegenerateBinningWarning(1, "test"))
	SetZerologWarnFunc(nil)

	if viaZerolog != 1 || len(got) != 1 {
		t.Errorf("expected warning to be routed to zerolog func only, handler=%d zerolog=%d", len(got), viaZerolog)
	}
}

func TestWrapf(t *testing.T) {
	wrapped := Wrapf(ErrEmptyData, "in %s: expected %d rows, got %d", "Fit", 10, 0)

	if !Is(wrapped, ErrEmptyData) {
		t.Error("Expected Is(wrapped, ErrEmptyData) to be true")
	}

	expectedMsg := "in Fit: expected 10 rows, got 0"
	if !strings.Contains(wrapped.Error(), expectedMsg) {
		t.Errorf("Expected wrapped error to contain %q", expectedMsg)
	}
}

func TestGetStacktrace(t *testing.T) {
	err := WithStack(New("boom"))
	if GetStacktrace(err) == "" {
		t.Error("expected a stack trace for an error created with WithStack")
	}
	if GetStacktrace(fmt.Errorf("plain")) != "" {
		t.Error("expected no stack trace for a plain error")
	}
}
