package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/woebin/internal/plotting"
)

func newPlotCmd(a *app) *cobra.Command {
	var name, out, title string
	cmd := &cobra.Command{
		Use:   "plot",
		Short: "Draw the WoE of each bin of a stored model",
		Long: `Renders a bar chart of the bin and exception WoE. The image format
follows the extension of --out (png, svg, pdf, jpg).

Example:
  woebin plot --model Fare --out fare.png`,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, m, err := a.loadDiscretizer(name)
			if err != nil {
				return err
			}
			if title == "" {
				title = name
			}
			if err := plotting.SaveWoEChart(m, out, title); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "model", "", "stored model name")
	cmd.Flags().StringVar(&out, "out", "", "image file")
	cmd.Flags().StringVar(&title, "title", "", "chart title (default: the model name)")
	_ = cmd.MarkFlagRequired("model")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}
