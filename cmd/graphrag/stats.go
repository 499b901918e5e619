package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"financial-graphrag/internal/app"
)

var statsJSON bool

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print node and relationship counts for the knowledge graph",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRuntime(cmd.Context(), func(rt *app.Runtime) error {
			stats := rt.Engine.Stats(cmd.Context())
			if statsJSON {
				return printJSON(stats)
			}
			fmt.Printf("Companies:     %d\n", stats.Companies)
			fmt.Printf("Sectors:       %d\n", stats.Sectors)
			fmt.Printf("News:          %d\n", stats.News)
			fmt.Printf("Events:        %d\n", stats.Events)
			fmt.Printf("Relationships: %d\n", stats.Relationships)
			return nil
		})
	},
}

func init() {
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "Print as JSON")
}
