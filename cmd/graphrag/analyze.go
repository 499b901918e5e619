package main

import (
	"github.com/spf13/cobra"

	"financial-graphrag/internal/app"
	"financial-graphrag/internal/models"
)

var (
	articleSummary string
	articleContent string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [headline]",
	Short: "Extract entities, sentiment and events from a news article",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRuntime(cmd.Context(), func(rt *app.Runtime) error {
			return printJSON(rt.Analyzer.AnalyzeArticle(cmd.Context(), models.Article{
				Headline: args[0],
				Summary:  articleSummary,
				Content:  articleContent,
			}))
		})
	},
}

func init() {
	analyzeCmd.Flags().StringVar(&articleSummary, "summary", "", "Article summary")
	analyzeCmd.Flags().StringVar(&articleContent, "content", "", "Article body")
}
