package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/woebin/internal/plotting"
	"github.com/YuminosukeSato/woebin/sklearn/discretize"
)

func newShowCmd(a *app) *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the bins and exception values of a stored model",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, m, err := a.loadDiscretizer(name)
			if err != nil {
				return err
			}
			return printModel(cmd.OutOrStdout(), name, m)
		},
	}
	cmd.Flags().StringVar(&name, "model", "", "stored model name")
	_ = cmd.MarkFlagRequired("model")
	return cmd
}

func printModel(out io.Writer, name string, m *discretize.FittedModel) error {
	fmt.Fprintf(out, "model %s: direction %d, total IV %.4f\n", name, m.Direction, m.TotalIV())
	fmt.Fprintf(out, "splits: %s\n\n", formatFloats(m.Splits))

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "BIN\tINTERVAL\tCOUNT\tPOS\tNEG\tWOE\tIV")
	for i, b := range m.Bins {
		fmt.Fprintf(tw, "%d\t%s\t%g\t%g\t%g\t%.4f\t%.4f\n",
			i, plotting.IntervalLabel(b.Lower, b.Upper), b.Count, b.Pos, b.Neg, b.WoE, b.IV)
	}
	for i, e := range m.Exceptions {
		fmt.Fprintf(tw, "%d\t=%s\t%g\t%g\t%g\t%.4f\t%.4f\n",
			-(i + 1), formatFloat(e.Value), e.Count, e.Pos, e.Neg, e.WoE, e.IV)
	}
	return tw.Flush()
}
