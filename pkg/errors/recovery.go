package errors

import (
	"fmt"
	"runtime/debug"
)

// PanicError は回復されたpanicから作られたエラーです。
// 元のpanic値と、回復した時点のスタックトレースを保持します。
type PanicError struct {
	PanicValue interface{}
	StackTrace string
	Operation  string
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic in %s: %v", e.Operation, e.PanicValue)
}

// String はスタックトレースを含む詳細を返します。
func (e *PanicError) String() string {
	return fmt.Sprintf("panic in %s: %v\nStack trace:\n%s", e.Operation, e.PanicValue, e.StackTrace)
}

// NewPanicError は新しいPanicErrorを作成します。
func NewPanicError(operation string, panicValue interface{}) *PanicError {
	return &PanicError{
		PanicValue: panicValue,
		StackTrace: string(debug.Stack()),
		Operation:  operation,
	}
}

// Recover はdeferで使い、panicをエラーに変換します。
// Fitのように途中状態を公開してはならない処理の外周に置きます。
//
//	func (d *Discretizer) Fit(...) (err error) {
//	    defer errors.Recover(&err, "Discretizer.Fit")
//	    ...
//	}
//
// 既にエラーが設定されている場合は、そのエラーを保ったままpanic情報を付与します。
func Recover(err *error, operation string) {
	r := recover()
	if r == nil {
		return
	}
	if *err != nil {
		*err = fmt.Errorf("panic in %s: %v (original error: %w)", operation, r, *err)
		return
	}
	*err = NewPanicError(operation, r)
}

// SafeExecute は関数を実行し、panicが起きた場合はエラーとして返します。
func SafeExecute(operation string, fn func() error) (err error) {
	defer Recover(&err, operation)
	return fn()
}
