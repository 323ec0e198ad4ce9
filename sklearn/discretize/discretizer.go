package discretize

import (
	"math"
	"time"

	"github.com/YuminosukeSato/woebin/core/model"
	woeerrors "github.com/YuminosukeSato/woebin/pkg/errors"
	"github.com/YuminosukeSato/woebin/pkg/log"
	"github.com/YuminosukeSato/woebin/preprocessing"
)

const modelName = "Discretizer"

var (
	_ model.Binner            = (*Discretizer)(nil)
	_ model.MatrixTransformer = (*Discretizer)(nil)
	_ model.ParameterGetter   = (*Discretizer)(nil)
	_ model.ParameterSetter   = (*Discretizer)(nil)
	_ model.Persistable       = (*Discretizer)(nil)
)

// Observer is notified after every Fit and Predict call. internal/metrics
// provides a Prometheus implementation.
type Observer interface {
	ObserveFit(duration time.Duration, bins int, err error)
	ObservePredict(mode PredictionType, rows int, duration time.Duration, err error)
}

// Discretizer は1つの連続変数を二値の目的変数に対して教師ありでビニングします。
//
// 全体で最もIVゲインの大きい分割から順に採用し（best-first）、
// min_obs、min_pos、min_iv、max_bins、単調性の制約を守ります。
// 例外値（NaNを含む）は順序付きのビンから除外され、個別の統計を持ちます。
//
// Fit は新しいモデルを計算してから一度に差し替えます。失敗した場合、
// 以前のモデルはそのまま残ります。同じインスタンスでFitを他のFitやPredictと
// 並行して呼び出さないでください（ロックが保護するのは差し替えのみです）。
//
// 使用例:
//
//	d := discretize.NewDiscretizer(discretize.WithMaxBins(8), discretize.WithMono(1))
//	if err := d.Fit(fare, survived, nil, []float64{math.NaN()}); err != nil {
//	    return err
//	}
//	woe, err := d.PredictWoE(fare)
type Discretizer struct {
	state  *model.StateManager
	params Params
	fitted *FittedModel

	logger            log.Logger
	observer          Observer
	parallelThreshold int
}

// NewDiscretizer creates a Discretizer with the default parameters
// (min_obs 5, max_bins 10, min_iv 0.001, min_pos 5, automatic direction).
func NewDiscretizer(opts ...Option) *Discretizer {
	d := &Discretizer{
		state:             model.NewStateManager(),
		params:            DefaultParams(),
		parallelThreshold: DefaultParallelThreshold,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.logger == nil {
		d.logger = log.GetLoggerWithName("discretize").With(log.ModelNameKey, modelName)
	}
	return d
}

// Params returns a copy of the current hyperparameters.
func (d *Discretizer) Params() Params {
	var p Params
	_ = d.state.WithState(func() error {
		p = d.params.clone()
		return nil
	})
	return p
}

// IsFitted reports whether a model is installed.
func (d *Discretizer) IsFitted() bool {
	return d.state.IsFitted()
}

// Fit learns the binning scheme.
//
// パラメータ:
//   - x: 予測変数
//   - y: 目的変数（0または1）
//   - sampleWeight: 行の重み（nilなら全件1）
//   - exceptionValues: 順序付きビニングから除外する値（nilなら無し、NaNを含めてよい）
//
// パラメータの検証が最初に行われます。許容される分割が1つもない場合は
// エラーではなく単一のビンになり、DegenerateBinningWarning が通知されます。
func (d *Discretizer) Fit(x, y, sampleWeight, exceptionValues []float64) (err error) {
	start := time.Now()
	bins := 0
	if d.observer != nil {
		defer func() { d.observer.ObserveFit(time.Since(start), bins, err) }()
	}
	defer woeerrors.Recover(&err, "Discretizer.Fit")

	params := d.Params()
	if err := params.Validate(); err != nil {
		return err
	}

	logger := d.logger.With(log.OperationKey, log.OperationFit)
	logger.Info("Fit started", log.SamplesKey, len(x))

	data, err := preprocessing.Partition(x, y, sampleWeight, exceptionValues)
	if err != nil {
		logger.Error("Fit failed", err, log.PhaseKey, log.PhasePreprocessing)
		return err
	}
	logger.Debug("Samples partitioned",
		log.TrainableKey, data.NTrainable,
		log.ExceptionRowsKey, data.NExceptionRows(),
		log.UniqueValuesKey, len(data.Vals),
	)

	res := newBuilder(data, params, d.parallelThreshold, logger).build()
	stats := binStats{totalPos: data.TotalPos, totalNeg: data.TotalNeg}

	fitted := &FittedModel{
		Splits:     res.splits,
		Bins:       res.bins,
		Exceptions: exceptionTracker{stats: stats}.entries(data.Exceptions),
		Direction:  res.direction,
		Params:     params,
		TotalPos:   data.TotalPos,
		TotalNeg:   data.TotalNeg,
	}
	if err := checkStatistics(fitted); err != nil {
		return err
	}
	fitted.prepare()

	_ = d.state.WithStateMut(func() error {
		d.fitted = fitted
		d.state.Install(data.NTrainable, data.NExceptionRows())
		return nil
	})
	bins = len(fitted.Bins)

	if len(fitted.Bins) == 1 {
		reason := "no candidate boundary satisfied the constraints"
		if data.NTrainable == 0 {
			reason = "every row matched an exception value"
		}
		woeerrors.Warn(woeerrors.NewDegenerateBinningWarning(data.TotalPos+data.TotalNeg, reason))
	}
	warnUnseen(fitted.Exceptions)

	logger.Info("Fit completed",
		log.BinsKey, len(fitted.Bins),
		log.DirectionKey, fitted.Direction,
		log.TotalIVKey, fitted.TotalIV(),
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return nil
}

// checkStatistics rejects NaN in the computed WoE/IV.
func checkStatistics(m *FittedModel) error {
	values := make([]float64, 0, 2*(len(m.Bins)+len(m.Exceptions)))
	for _, b := range m.Bins {
		values = append(values, b.WoE, b.IV)
	}
	for _, e := range m.Exceptions {
		values = append(values, e.WoE, e.IV)
	}
	return woeerrors.CheckNumericalStability("bin_statistics", values)
}

// current returns the installed model or a NotFittedError naming method.
// A model, once installed, is only ever replaced, never removed.
func (d *Discretizer) current(method string) (*FittedModel, error) {
	if err := d.state.RequireFitted(modelName, method); err != nil {
		return nil, err
	}
	var m *FittedModel
	_ = d.state.WithState(func() error {
		m = d.fitted
		return nil
	})
	return m, nil
}

// Dimensions returns the number of trainable rows and exception rows seen
// by the last successful Fit. Both are zero for a restored model.
func (d *Discretizer) Dimensions() (trainable, exceptions int) {
	return d.state.GetDimensions()
}

// Splits returns the boundaries of the fitted scheme: strictly increasing,
// starting at -Inf and ending at +Inf.
func (d *Discretizer) Splits() ([]float64, error) {
	m, err := d.current("Splits")
	if err != nil {
		return nil, err
	}
	return append([]float64(nil), m.Splits...), nil
}

// ExceptionValues returns the exception table in declaration order.
func (d *Discretizer) ExceptionValues() (*ExceptionTable, error) {
	m, err := d.current("ExceptionValues")
	if err != nil {
		return nil, err
	}
	return m.ExceptionTable(), nil
}

// Bins returns the per-bin statistics in ascending order.
func (d *Discretizer) Bins() ([]Bin, error) {
	m, err := d.current("Bins")
	if err != nil {
		return nil, err
	}
	return append([]Bin(nil), m.Bins...), nil
}

// Direction returns the effective monotonic direction of the fitted scheme.
func (d *Discretizer) Direction() (int, error) {
	m, err := d.current("Direction")
	if err != nil {
		return 0, err
	}
	return m.Direction, nil
}

// Model returns a copy of the fitted model.
func (d *Discretizer) Model() (*FittedModel, error) {
	m, err := d.current("Model")
	if err != nil {
		return nil, err
	}
	return m.Clone(), nil
}

// Restore installs a previously fitted model, for example one read from a
// model store. The parameters of the model become the current parameters.
func (d *Discretizer) Restore(m *FittedModel) error {
	if m == nil {
		return woeerrors.NewValidationError("model", "must not be nil", nil)
	}
	if err := validateModel(m); err != nil {
		return err
	}
	c := m.Clone()
	return d.state.WithStateMut(func() error {
		d.fitted = c
		d.params = c.Params.clone()
		d.state.Install(0, 0)
		return nil
	})
}

// validateModel checks the structural invariants of a model from outside.
func validateModel(m *FittedModel) error {
	n := len(m.Splits)
	if n < 2 || len(m.Bins) != n-1 {
		return woeerrors.NewModelError("Discretizer.Restore", "malformed model",
			woeerrors.Newf("%d splits for %d bins", n, len(m.Bins)))
	}
	if !math.IsInf(m.Splits[0], -1) || !math.IsInf(m.Splits[n-1], 1) {
		return woeerrors.NewModelError("Discretizer.Restore", "malformed model",
			woeerrors.New("splits must start at -Inf and end at +Inf"))
	}
	for i := 1; i < n; i++ {
		if !(m.Splits[i-1] < m.Splits[i]) {
			return woeerrors.NewModelError("Discretizer.Restore", "malformed model",
				woeerrors.Newf("splits not strictly increasing at %d", i))
		}
	}
	return m.Params.Validate()
}

// Save writes the fitted model to path in gob format.
func (d *Discretizer) Save(path string) error {
	m, err := d.current("Save")
	if err != nil {
		return err
	}
	return model.SaveModel(m, path)
}

// Load reads a gob-encoded model from path and installs it.
func (d *Discretizer) Load(path string) error {
	var m FittedModel
	if err := model.LoadModel(&m, path); err != nil {
		return err
	}
	return d.Restore(&m)
}
