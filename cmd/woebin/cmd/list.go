package cmd

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored models",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			infos, err := store.List()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(infos) == 0 {
				fmt.Fprintln(out, "no models stored")
				return nil
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tBINS\tEXCEPTIONS\tDIRECTION\tTOTAL IV\tSAVED")
			for _, info := range infos {
				fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%.4f\t%s\n",
					info.Name, info.Bins, info.Exceptions, info.Direction, info.TotalIV,
					info.SavedAt.Format(time.RFC3339))
			}
			return tw.Flush()
		},
	}
}
