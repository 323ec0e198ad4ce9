package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	woeerrors "github.com/YuminosukeSato/woebin/pkg/errors"
	"github.com/YuminosukeSato/woebin/sklearn/discretize"
)

func TestObserveFit(t *testing.T) {
	m := NewWithRegistry(prometheus.NewRegistry())

	m.ObserveFit(10*time.Millisecond, 4, nil)
	m.ObserveFit(time.Millisecond, 0, woeerrors.NewValidationError("max_bins", "must be at least 1", 0))
	m.ObserveFit(time.Millisecond, 0, woeerrors.New("boom"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.FitsTotal.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FitsTotal.WithLabelValues("invalid")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FitsTotal.WithLabelValues("error")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.BinsPerFit))
}

func TestObservePredict(t *testing.T) {
	m := New()

	m.ObservePredict(discretize.PredictionWoE, 100, time.Millisecond, nil)
	m.ObservePredict(discretize.PredictionWoE, 50, time.Millisecond, nil)
	m.ObservePredict(discretize.PredictionIndex, 7, time.Millisecond, woeerrors.NewNotFittedError("Discretizer", "Predict"))

	assert.Equal(t, 150.0, testutil.ToFloat64(m.PredictedRows.WithLabelValues("woe")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.PredictedRows.WithLabelValues("index")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.PredictionsTotal.WithLabelValues("woe", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PredictionsTotal.WithLabelValues("index", "error")))
}

func TestDiscretizerWiring(t *testing.T) {
	m := New()
	d := discretize.NewDiscretizer(
		discretize.WithMinObs(1),
		discretize.WithMinPos(0),
		discretize.WithObserver(m),
	)

	require.NoError(t, d.Fit([]float64{1, 2, 3, 4}, []float64{0, 0, 1, 1}, nil, nil))
	_, err := d.PredictIndex([]float64{1, 2, 3})
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.FitsTotal.WithLabelValues("ok")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.PredictedRows.WithLabelValues("index")))
}

func TestWriteTextfile(t *testing.T) {
	m := New()
	m.ObserveFit(time.Millisecond, 3, nil)

	path := filepath.Join(t.TempDir(), "woebin.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.True(t, strings.Contains(out, `woebin_fits_total{result="ok"} 1`), out)
	assert.Contains(t, out, "woebin_bins_per_fit_bucket")

	assert.Error(t, m.WriteTextfile(filepath.Join(t.TempDir(), "missing", "dir", "x.prom")))
}
