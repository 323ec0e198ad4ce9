// Package plotting renders fitted binning schemes with gonum/plot.
package plotting

import (
	"image/color"
	"io"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	woeerrors "github.com/YuminosukeSato/woebin/pkg/errors"
	"github.com/YuminosukeSato/woebin/sklearn/discretize"
)

var (
	binColor       = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	exceptionColor = color.RGBA{R: 255, G: 127, B: 14, A: 255}
)

const (
	chartWidth  = 8 * vg.Inch
	chartHeight = 4 * vg.Inch
)

var barWidth = vg.Points(18)

// WoEChart builds a bar chart with one bar per bin followed by one bar per
// exception value. Bar heights are the WoE values.
func WoEChart(m *discretize.FittedModel, title string) (*plot.Plot, error) {
	if m == nil || len(m.Bins) == 0 {
		return nil, woeerrors.NewValidationError("model", "has no bins", nil)
	}

	p := plot.New()
	p.Title.Text = title
	p.Y.Label.Text = "WoE"
	p.X.Label.Text = "bin"
	p.Add(plotter.NewGrid())

	binVals := make(plotter.Values, len(m.Bins))
	labels := make([]string, 0, len(m.Bins)+len(m.Exceptions))
	for i, b := range m.Bins {
		binVals[i] = b.WoE
		labels = append(labels, IntervalLabel(b.Lower, b.Upper))
	}
	bins, err := plotter.NewBarChart(binVals, barWidth)
	if err != nil {
		return nil, woeerrors.Wrap(err, "bin bars")
	}
	bins.Color = binColor
	bins.LineStyle.Width = 0
	p.Add(bins)
	p.Legend.Add("bins", bins)

	if len(m.Exceptions) > 0 {
		excVals := make(plotter.Values, len(m.Exceptions))
		for i, e := range m.Exceptions {
			excVals[i] = e.WoE
			labels = append(labels, "="+formatBound(e.Value))
		}
		exc, err := plotter.NewBarChart(excVals, barWidth)
		if err != nil {
			return nil, woeerrors.Wrap(err, "exception bars")
		}
		exc.XMin = float64(len(m.Bins))
		exc.Color = exceptionColor
		exc.LineStyle.Width = 0
		p.Add(exc)
		p.Legend.Add("exceptions", exc)
	}

	p.Legend.Top = true
	p.NominalX(labels...)
	return p, nil
}

// SaveWoEChart renders the chart to path. The image format follows the file
// extension (png, svg, pdf, ...).
func SaveWoEChart(m *discretize.FittedModel, path, title string) error {
	p, err := WoEChart(m, title)
	if err != nil {
		return err
	}
	if err := p.Save(chartWidth, chartHeight, path); err != nil {
		return woeerrors.Wrapf(err, "save chart %s", path)
	}
	return nil
}

// WriteWoEChart renders the chart to w in the given format, e.g. "png".
func WriteWoEChart(m *discretize.FittedModel, w io.Writer, format, title string) error {
	p, err := WoEChart(m, title)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(chartWidth, chartHeight, strings.TrimPrefix(format, "."))
	if err != nil {
		return woeerrors.Wrapf(err, "unsupported chart format %q", format)
	}
	_, err = wt.WriteTo(w)
	return err
}

// FormatFromPath returns the image format implied by the extension of path.
func FormatFromPath(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}

// IntervalLabel formats a right-closed interval, e.g. "(-inf, 6.24]".
func IntervalLabel(lower, upper float64) string {
	closing := "]"
	if math.IsInf(upper, 1) {
		closing = ")"
	}
	return "(" + formatBound(lower) + ", " + formatBound(upper) + closing
}

func formatBound(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	return strconv.FormatFloat(v, 'g', 4, 64)
}
