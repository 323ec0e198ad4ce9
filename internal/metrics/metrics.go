// Package metrics collects Prometheus metrics for fits and predictions.
//
// A Metrics value implements discretize.Observer. The CLI is a short-lived
// process, so instead of serving /metrics it dumps the registry in the text
// exposition format for the node_exporter textfile collector.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	woeerrors "github.com/YuminosukeSato/woebin/pkg/errors"
	"github.com/YuminosukeSato/woebin/sklearn/discretize"
)

const namespace = "woebin"

// Metrics holds the fit and predict collectors.
type Metrics struct {
	FitsTotal        *prometheus.CounterVec // Fits by result: ok, invalid, error
	FitDuration      prometheus.Histogram   // Fit wall time in seconds
	BinsPerFit       prometheus.Histogram   // Ordinary bins produced per successful fit
	PredictionsTotal *prometheus.CounterVec // Predict calls by mode and result
	PredictedRows    *prometheus.CounterVec // Rows transformed by mode
	PredictDuration  *prometheus.HistogramVec

	gatherer prometheus.Gatherer
}

// New creates metrics registered on a fresh registry.
func New() *Metrics {
	return NewWithRegistry(prometheus.NewRegistry())
}

// NewWithRegistry creates metrics registered on registry, which is also the
// source for WriteTextfile.
func NewWithRegistry(registry *prometheus.Registry) *Metrics {
	factory := promauto.With(registry)
	return &Metrics{
		FitsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fits_total",
			Help:      "Total number of Fit calls by result",
		}, []string{"result"}),
		FitDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fit_duration_seconds",
			Help:      "Duration of Fit calls in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 10),
		}),
		BinsPerFit: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "bins_per_fit",
			Help:      "Number of ordinary bins produced by successful fits",
			Buckets:   prometheus.LinearBuckets(1, 1, 20),
		}),
		PredictionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "predictions_total",
			Help:      "Total number of Predict calls by mode and result",
		}, []string{"mode", "result"}),
		PredictedRows: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "predicted_rows_total",
			Help:      "Total number of values transformed by mode",
		}, []string{"mode"}),
		PredictDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "predict_duration_seconds",
			Help:      "Duration of Predict calls in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"mode"}),
		gatherer: registry,
	}
}

// ObserveFit implements discretize.Observer.
func (m *Metrics) ObserveFit(duration time.Duration, bins int, err error) {
	m.FitsTotal.WithLabelValues(result(err)).Inc()
	m.FitDuration.Observe(duration.Seconds())
	if err == nil {
		m.BinsPerFit.Observe(float64(bins))
	}
}

// ObservePredict implements discretize.Observer.
func (m *Metrics) ObservePredict(mode discretize.PredictionType, rows int, duration time.Duration, err error) {
	m.PredictionsTotal.WithLabelValues(mode.String(), result(err)).Inc()
	if err != nil {
		return
	}
	m.PredictedRows.WithLabelValues(mode.String()).Add(float64(rows))
	m.PredictDuration.WithLabelValues(mode.String()).Observe(duration.Seconds())
}

// WriteTextfile writes every collected metric to path in the Prometheus text
// format. The file is replaced atomically.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.gatherer); err != nil {
		return woeerrors.Wrapf(err, "failed to write metrics to %s", path)
	}
	return nil
}

func result(err error) string {
	switch {
	case err == nil:
		return "ok"
	case woeerrors.IsValidation(err):
		return "invalid"
	default:
		return "error"
	}
}

var _ discretize.Observer = (*Metrics)(nil)
