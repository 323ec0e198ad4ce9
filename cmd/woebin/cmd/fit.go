package cmd

import (
	"fmt"
	"runtime"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/YuminosukeSato/woebin/internal/dataset"
	scoring "github.com/YuminosukeSato/woebin/metrics"
	woeerrors "github.com/YuminosukeSato/woebin/pkg/errors"
	"github.com/YuminosukeSato/woebin/pkg/log"
	"github.com/YuminosukeSato/woebin/sklearn/discretize"
)

type fitOptions struct {
	data       string
	target     string
	columns    []string
	weight     string
	exceptions []string
	prefix     string

	minObs  float64
	maxBins int
	minIV   float64
	minPos  float64
	mono    string
}

func newFitCmd(a *app) *cobra.Command {
	o := &fitOptions{}
	cmd := &cobra.Command{
		Use:   "fit",
		Short: "Fit one model per column and store it",
		Long: `Fits an independent binning for every --column against --target and
stores each model under <name><column>.

Examples:
  woebin fit --data titanic.csv --target Survived --column Fare --exception nan
  woebin fit --data titanic.csv --target Survived --column Fare --column Age --name titanic.
  woebin fit --data titanic.csv --target Survived --column Fare --mono -1 --max-bins 5`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runFit(cmd, o)
		},
	}

	f := cmd.Flags()
	f.StringVar(&o.data, "data", "", "CSV file with a header row")
	f.StringVar(&o.target, "target", "", "binary target column")
	f.StringSliceVar(&o.columns, "column", nil, "predictor column (repeatable)")
	f.StringVar(&o.weight, "weight", "", "optional sample weight column")
	f.StringSliceVar(&o.exceptions, "exception", nil, "exception value, e.g. nan or -1 (repeatable)")
	f.StringVar(&o.prefix, "name", "", "prefix of the stored model names")
	f.Float64Var(&o.minObs, "min-obs", 0, "minimum weighted rows per bin")
	f.IntVar(&o.maxBins, "max-bins", 0, "maximum number of bins")
	f.Float64Var(&o.minIV, "min-iv", 0, "minimum IV gain of a split")
	f.Float64Var(&o.minPos, "min-pos", 0, "minimum weighted positives per bin")
	f.StringVar(&o.mono, "mono", "", "monotonic direction: -1, 0, 1 or auto")
	_ = cmd.MarkFlagRequired("data")
	_ = cmd.MarkFlagRequired("target")
	_ = cmd.MarkFlagRequired("column")
	return cmd
}

// params applies the flags that were set on top of the configured parameters.
func (o *fitOptions) params(cmd *cobra.Command, base discretize.Params) (discretize.Params, error) {
	p := base
	f := cmd.Flags()
	if f.Changed("min-obs") {
		p.MinObs = o.minObs
	}
	if f.Changed("max-bins") {
		p.MaxBins = o.maxBins
	}
	if f.Changed("min-iv") {
		p.MinIV = o.minIV
	}
	if f.Changed("min-pos") {
		p.MinPos = o.minPos
	}
	if f.Changed("mono") {
		mono, err := parseMono(o.mono)
		if err != nil {
			return p, err
		}
		p.Mono = mono
	}
	return p, p.Validate()
}

func parseMono(s string) (*int, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "auto") {
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, woeerrors.NewValidationError("mono", "must be -1, 0, 1 or auto", s)
	}
	return discretize.Mono(n), nil
}

// parseExceptions accepts anything strconv.ParseFloat does, including nan
// and inf in any case.
func parseExceptions(raw []string) ([]float64, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make([]float64, len(raw))
	for i, s := range raw {
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return nil, woeerrors.NewValidationError("exception", "not a number", s)
		}
		out[i] = v
	}
	return out, nil
}

func (a *app) runFit(cmd *cobra.Command, o *fitOptions) error {
	params, err := o.params(cmd, a.cfg.Discretizer)
	if err != nil {
		return err
	}
	exceptions, err := parseExceptions(o.exceptions)
	if err != nil {
		return err
	}

	frame, err := dataset.ReadFile(o.data)
	if err != nil {
		return err
	}
	y, err := frame.Column(o.target)
	if err != nil {
		return err
	}
	var w []float64
	if o.weight != "" {
		if w, err = frame.Column(o.weight); err != nil {
			return err
		}
	}

	models := make([]*discretize.FittedModel, len(o.columns))
	reports := make([]scoring.Report, len(o.columns))
	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, column := range o.columns {
		i, column := i, column
		g.Go(func() error {
			return woeerrors.SafeExecute("fit column "+column, func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				x, err := frame.Column(column)
				if err != nil {
					return err
				}
				d := a.newDiscretizer(params, o.prefix+column)
				if err := d.Fit(x, y, w, exceptions); err != nil {
					return woeerrors.Wrapf(err, "fit column %s", column)
				}
				trainable, excRows := d.Dimensions()
				a.logger.Debug("Column fitted",
					log.ColumnKey, column,
					log.TrainableKey, trainable,
					log.ExceptionRowsKey, excRows,
				)
				woe, err := d.PredictWoE(x)
				if err != nil {
					return err
				}
				if reports[i], err = scoring.Evaluate(y, woe, w); err != nil {
					return woeerrors.Wrapf(err, "score column %s", column)
				}
				models[i], err = d.Model()
				return err
			})
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	store, err := a.openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	out := cmd.OutOrStdout()
	for i, column := range o.columns {
		i, column := i, column
		name := o.prefix + column
		m := models[i]
		if err := store.Save(name, m); err != nil {
			return err
		}
		a.logger.Info("Model stored",
			log.OperationKey, log.OperationSave,
			log.EstimatorIDKey, name,
			log.ColumnKey, column,
			log.BinsKey, len(m.Bins),
		)
		fmt.Fprintf(out, "%s: %d bins, direction %d, total IV %.4f\n", name, len(m.Bins), m.Direction, m.TotalIV())
		fmt.Fprintf(out, "  splits: %s\n", formatFloats(m.Splits))
		fmt.Fprintf(out, "  training AUC %.4f, Gini %.4f, KS %.4f\n", reports[i].AUC, reports[i].Gini, reports[i].KS)
	}
	return nil
}
