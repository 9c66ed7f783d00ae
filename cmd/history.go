package cmd

import (
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"refsync/feature/history"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List the latest sync runs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmdContext(cmd))
		if err != nil {
			return err
		}
		defer a.close()

		if a.history == nil {
			return errors.New("run history needs a database, check the database section of the configuration")
		}

		runs, err := a.history.List(cmdContext(cmd), historyLimit)
		if err != nil {
			return err
		}
		return printRuns(cmd, runs)
	},
}

func printRuns(cmd *cobra.Command, runs []history.Run) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "STARTED\tSYNC\tPUSHED\tDELETED\tIGNORED\tCONFLICTS\tTOOK\tRESULT")
	for _, r := range runs {
		result := "ok"
		switch {
		case r.Failed():
			result = r.Error
		case r.DryRun:
			result = "dry run"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			humanize.Time(r.StartedAt),
			r.Sync,
			humanize.Comma(int64(r.Pushed)),
			humanize.Comma(int64(r.Deleted)),
			humanize.Comma(int64(r.Ignored)),
			humanize.Comma(int64(r.Conflicts)),
			r.Duration().Round(time.Millisecond),
			result,
		)
	}
	return w.Flush()
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", history.DefaultLimit, "Number of runs to list, 0 for all")
	RootCmd.AddCommand(historyCmd)
}
