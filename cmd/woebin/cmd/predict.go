package cmd

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/woebin/internal/dataset"
	woeerrors "github.com/YuminosukeSato/woebin/pkg/errors"
	"github.com/YuminosukeSato/woebin/sklearn/discretize"
)

type predictOptions struct {
	data   string
	column string
	model  string
	mode   string
	out    string
}

func newPredictCmd(a *app) *cobra.Command {
	o := &predictOptions{}
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Transform a column with a stored model",
		Long: `Writes a CSV with the input column and its WoE or bin index.
Exception values get index -(1+position) in index mode.

Examples:
  woebin predict --data titanic.csv --column Fare --model Fare
  woebin predict --data titanic.csv --column Fare --model Fare --mode index --out idx.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runPredict(cmd, o)
		},
	}

	f := cmd.Flags()
	f.StringVar(&o.data, "data", "", "CSV file with a header row")
	f.StringVar(&o.column, "column", "", "predictor column")
	f.StringVar(&o.model, "model", "", "stored model name (default: the column name)")
	f.StringVar(&o.mode, "mode", "woe", "prediction type: woe or index")
	f.StringVarP(&o.out, "out", "o", "", "output CSV (default: stdout)")
	_ = cmd.MarkFlagRequired("data")
	_ = cmd.MarkFlagRequired("column")
	return cmd
}

func (a *app) runPredict(cmd *cobra.Command, o *predictOptions) error {
	mode, err := discretize.ParsePredictionType(o.mode)
	if err != nil {
		return err
	}
	name := o.model
	if name == "" {
		name = o.column
	}

	frame, err := dataset.ReadFile(o.data)
	if err != nil {
		return err
	}
	x, err := frame.Column(o.column)
	if err != nil {
		return err
	}

	d, _, err := a.loadDiscretizer(name)
	if err != nil {
		return err
	}
	p, err := d.Predict(x, mode)
	if err != nil {
		return err
	}

	values := p.WoE
	if mode == discretize.PredictionIndex {
		values = make([]float64, len(p.Index))
		for i, idx := range p.Index {
			values[i] = float64(idx)
		}
	}

	var w io.Writer = cmd.OutOrStdout()
	if o.out != "" {
		f, err := os.Create(o.out)
		if err != nil {
			return woeerrors.Wrapf(err, "create %s", o.out)
		}
		defer f.Close()
		w = f
	}
	return dataset.Write(w, []string{o.column, mode.String()}, [][]float64{x, values})
}
