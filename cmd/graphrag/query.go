package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"financial-graphrag/internal/app"
)

var queryCmd = &cobra.Command{
	Use:   "query [question]",
	Short: "Ask a natural language question",
	Long:  `Run a question against the knowledge graph. Prints the raw results, or a grounded answer with --ground.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runQuery,
}

var understandCmd = &cobra.Command{
	Use:   "understand [question]",
	Short: "Show the intent and entities detected in a question",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRuntime(cmd.Context(), func(rt *app.Runtime) error {
			return printJSON(rt.Engine.Understand(cmd.Context(), args[0]))
		})
	},
}

var (
	queryGround bool
	queryJSON   bool
)

func init() {
	queryCmd.Flags().BoolVar(&queryGround, "ground", false, "Generate an answer grounded in the retrieved data")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "Print the full result as JSON")
}

func runQuery(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	question := args[0]

	return withRuntime(ctx, func(rt *app.Runtime) error {
		result := rt.Engine.Execute(ctx, question)

		if queryGround {
			grounded := rt.Engine.Ground(ctx, question, result)
			if queryJSON {
				return printJSON(grounded)
			}
			fmt.Println(grounded.ResponseText)
			return nil
		}

		if queryJSON {
			return printJSON(result)
		}

		fmt.Printf("Intent:  %s\n", result.Intent)
		if result.QuerySpec != nil {
			fmt.Printf("Query:   %s\n", result.QuerySpec.TemplateID)
		}
		fmt.Printf("Results: %d\n", result.ResultCount)
		if result.Error != "" {
			fmt.Printf("Error:   %s\n", result.Error)
			return nil
		}
		for i, row := range result.Results {
			line, err := json.Marshal(row)
			if err != nil {
				return err
			}
			fmt.Printf("%3d. %s\n", i+1, line)
		}
		return nil
	})
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
