package discretize

import (
	"bytes"
	"encoding/gob"
	"math"
	"strconv"

	woeerrors "github.com/YuminosukeSato/woebin/pkg/errors"
	"github.com/YuminosukeSato/woebin/pkg/log"
)

// Default hyperparameters.
const (
	DefaultMinObs            = 5.0
	DefaultMaxBins           = 10
	DefaultMinIV             = 0.001
	DefaultMinPos            = 5.0
	DefaultParallelThreshold = 4096
)

// Params はビニングのハイパーパラメータです。
type Params struct {
	// MinObs は各ビンの最小重み付き件数
	MinObs float64 `yaml:"min_obs" json:"min_obs" validate:"gte=0"`
	// MaxBins は例外値を除いたビン数の上限
	MaxBins int `yaml:"max_bins" json:"max_bins" validate:"gte=1"`
	// MinIV は分割を受け入れるための最小IVゲイン
	MinIV float64 `yaml:"min_iv" json:"min_iv" validate:"gte=0"`
	// MinPos は各ビンの最小重み付き陽性件数
	MinPos float64 `yaml:"min_pos" json:"min_pos" validate:"gte=0"`
	// Mono は単調性の向き。nilなら最初の分割で自動決定、0なら制約なし
	Mono *int `yaml:"mono" json:"mono,omitempty" validate:"omitempty,oneof=-1 0 1"`
}

// DefaultParams returns the default hyperparameters.
func DefaultParams() Params {
	return Params{
		MinObs:  DefaultMinObs,
		MaxBins: DefaultMaxBins,
		MinIV:   DefaultMinIV,
		MinPos:  DefaultMinPos,
	}
}

// Validate checks every parameter and returns a ValidationError naming the
// first invalid one.
func (p Params) Validate() error {
	if math.IsNaN(p.MinObs) || p.MinObs < 0 {
		return woeerrors.NewValidationError("min_obs", "must be a non-negative number", p.MinObs)
	}
	if p.MaxBins < 1 {
		return woeerrors.NewValidationError("max_bins", "must be at least 1", p.MaxBins)
	}
	if math.IsNaN(p.MinIV) || p.MinIV < 0 {
		return woeerrors.NewValidationError("min_iv", "must be a non-negative number", p.MinIV)
	}
	if math.IsNaN(p.MinPos) || p.MinPos < 0 {
		return woeerrors.NewValidationError("min_pos", "must be a non-negative number", p.MinPos)
	}
	if p.Mono != nil && (*p.Mono < -1 || *p.Mono > 1) {
		return woeerrors.NewValidationError("mono", "must be -1, 0, 1 or unset", *p.Mono)
	}
	return nil
}

func (p Params) clone() Params {
	c := p
	if p.Mono != nil {
		m := *p.Mono
		c.Mono = &m
	}
	return c
}

// paramsGob is the gob form of Params. gob drops nil pointers and
// dereferences the rest, so mono=0 would come back as unset without MonoSet.
type paramsGob struct {
	MinObs  float64
	MaxBins int
	MinIV   float64
	MinPos  float64
	MonoSet bool
	Mono    int
}

// GobEncode implements gob.GobEncoder.
func (p Params) GobEncode() ([]byte, error) {
	w := paramsGob{MinObs: p.MinObs, MaxBins: p.MaxBins, MinIV: p.MinIV, MinPos: p.MinPos}
	if p.Mono != nil {
		w.MonoSet = true
		w.Mono = *p.Mono
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(w); err != nil {
		return nil, woeerrors.Wrap(err, "encode params")
	}
	return buf.Bytes(), nil
}

// GobDecode implements gob.GobDecoder.
func (p *Params) GobDecode(data []byte) error {
	var w paramsGob
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&w); err != nil {
		return woeerrors.Wrap(err, "decode params")
	}
	*p = Params{MinObs: w.MinObs, MaxBins: w.MaxBins, MinIV: w.MinIV, MinPos: w.MinPos}
	if w.MonoSet {
		p.Mono = Mono(w.Mono)
	}
	return nil
}

// Mono returns a pointer to dir, for use in Params literals.
func Mono(dir int) *int {
	return &dir
}

// Option configures a Discretizer.
type Option func(*Discretizer)

// WithMinObs sets the minimum weighted count per bin.
func WithMinObs(minObs float64) Option {
	return func(d *Discretizer) {
		d.params.MinObs = minObs
	}
}

// WithMaxBins sets the maximum number of ordinary bins.
func WithMaxBins(maxBins int) Option {
	return func(d *Discretizer) {
		d.params.MaxBins = maxBins
	}
}

// WithMinIV sets the minimum IV gain a split must provide.
func WithMinIV(minIV float64) Option {
	return func(d *Discretizer) {
		d.params.MinIV = minIV
	}
}

// WithMinPos sets the minimum weighted positive count per bin.
func WithMinPos(minPos float64) Option {
	return func(d *Discretizer) {
		d.params.MinPos = minPos
	}
}

// WithMono fixes the monotonic direction: -1, 1, or 0 for unconstrained.
// Without this option the direction is chosen by the first split.
func WithMono(dir int) Option {
	return func(d *Discretizer) {
		d.params.Mono = Mono(dir)
	}
}

// WithParams replaces all hyperparameters at once.
func WithParams(p Params) Option {
	return func(d *Discretizer) {
		d.params = p.clone()
	}
}

// WithLogger sets the logger used during Fit.
func WithLogger(logger log.Logger) Option {
	return func(d *Discretizer) {
		d.logger = logger
	}
}

// WithParallelThreshold sets the number of split candidates above which a
// leaf is scanned in parallel. A negative value disables parallel scans.
func WithParallelThreshold(n int) Option {
	return func(d *Discretizer) {
		d.parallelThreshold = n
	}
}

// WithObserver registers an observer notified of fit and predict calls.
func WithObserver(o Observer) Option {
	return func(d *Discretizer) {
		d.observer = o
	}
}

// GetParams returns the hyperparameters in scikit-learn style. "mono" is nil
// when the direction is chosen automatically.
func (d *Discretizer) GetParams() map[string]interface{} {
	p := d.Params()
	var mono interface{}
	if p.Mono != nil {
		mono = *p.Mono
	}
	return map[string]interface{}{
		"min_obs":  p.MinObs,
		"max_bins": p.MaxBins,
		"min_iv":   p.MinIV,
		"min_pos":  p.MinPos,
		"mono":     mono,
	}
}

// SetParams updates hyperparameters by name. Unknown names and ill-typed or
// invalid values are rejected without changing anything. The fitted model,
// if any, is kept until the next Fit.
func (d *Discretizer) SetParams(params map[string]interface{}) error {
	p := d.Params()
	for key, value := range params {
		switch key {
		case "min_obs":
			f, ok := toFloat(value)
			if !ok {
				return woeerrors.NewValidationError(key, "must be a number", value)
			}
			p.MinObs = f
		case "max_bins":
			n, ok := toInt(value)
			if !ok {
				return woeerrors.NewValidationError(key, "must be an integer", value)
			}
			p.MaxBins = n
		case "min_iv":
			f, ok := toFloat(value)
			if !ok {
				return woeerrors.NewValidationError(key, "must be a number", value)
			}
			p.MinIV = f
		case "min_pos":
			f, ok := toFloat(value)
			if !ok {
				return woeerrors.NewValidationError(key, "must be a number", value)
			}
			p.MinPos = f
		case "mono":
			if value == nil {
				p.Mono = nil
				continue
			}
			n, ok := toInt(value)
			if !ok {
				return woeerrors.NewValidationError(key, "must be -1, 0, 1 or nil", value)
			}
			p.Mono = Mono(n)
		default:
			return woeerrors.NewValidationError(key, "unknown parameter", value)
		}
	}
	if err := p.Validate(); err != nil {
		return err
	}

	return d.state.WithStateMut(func() error {
		d.params = p
		return nil
	})
}

func toFloat(v interface{}) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	default:
		return 0, false
	}
}

func toInt(v interface{}) (int, bool) {
	switch x := v.(type) {
	case int:
		return x, true
	case int64:
		return int(x), true
	case float64:
		if x != math.Trunc(x) {
			return 0, false
		}
		return int(x), true
	default:
		return 0, false
	}
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
