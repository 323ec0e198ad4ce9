// Package model はビニング推定器が共有するインターフェース、学習状態の管理、
// およびgobによる永続化を提供します。
package model

import (
	"gonum.org/v1/gonum/mat"
)

// Fitter は1変数の教師ありビニングを学習するインターフェース
type Fitter interface {
	// Fit は予測変数x、二値の目的変数y、任意の重みと例外値から
	// ビニングを学習する。nilのsampleWeightは全件重み1を意味する
	Fit(x, y, sampleWeight, exceptionValues []float64) error
}

// Predictor は学習済みのビニングで値を変換するインターフェース
type Predictor interface {
	// PredictWoE は各値をWoEに置き換える
	PredictWoE(x []float64) ([]float64, error)

	// PredictIndex は各値をビン番号に置き換える。例外値は負の番号になる
	PredictIndex(x []float64) ([]int, error)
}

// MatrixTransformer は列ベクトルをまとめて変換するインターフェース
type MatrixTransformer interface {
	// TransformMatrix は1列の行列を同じ形のWoE行列に変換する
	TransformMatrix(X mat.Matrix) (*mat.Dense, error)
}

// Binner は学習と変換を備えたビニング推定器
type Binner interface {
	Fitter
	Predictor
	IsFitted() bool
}

// ParameterGetter is the interface for models that expose their parameters.
type ParameterGetter interface {
	// GetParams returns the model's hyperparameters.
	GetParams() map[string]interface{}
}

// ParameterSetter is the interface for models that allow parameter modification.
type ParameterSetter interface {
	// SetParams sets the model's hyperparameters. It does not affect an
	// already fitted model until the next Fit.
	SetParams(params map[string]interface{}) error
}

// Persistable is the interface for models that can be saved and loaded.
type Persistable interface {
	// Save saves the fitted state to a file.
	Save(path string) error

	// Load loads a fitted state from a file.
	Load(path string) error
}
