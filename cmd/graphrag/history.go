package main

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"financial-graphrag/internal/app"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recently executed queries",
	Long:  `List the most recent entries of the query log. Requires querylog.enabled and a reachable PostgreSQL database.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRuntime(cmd.Context(), func(rt *app.Runtime) error {
			if rt.History == nil {
				return errors.New("query log is not enabled")
			}
			entries, err := rt.History.Recent(cmd.Context(), historyLimit)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "TIME\tINTENT\tRESULTS\tQUERY\tERROR")
			for _, e := range entries {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n",
					e.CreatedAt.Local().Format("2006-01-02 15:04:05"), e.Intent, e.ResultCount, e.Query, e.Error)
			}
			return tw.Flush()
		})
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of entries to show")
}
