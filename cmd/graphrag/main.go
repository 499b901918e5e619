package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"financial-graphrag/internal/app"
	"financial-graphrag/internal/common/config"
	"financial-graphrag/internal/common/logger"
)

var (
	configFile string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:           "graphrag",
	Short:         "Query the financial knowledge graph",
	Long:          `graphrag answers natural-language questions about companies, sectors, news and events from a Neo4j knowledge graph.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Configuration file (defaults to configs/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(queryCmd, understandCmd, statsCmd, historyCmd, analyzeCmd, versionCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	if configFile != "" {
		return config.LoadFromFile(configFile)
	}
	return config.Load()
}

// withRuntime builds the runtime for a single command and closes it afterwards.
func withRuntime(ctx context.Context, fn func(rt *app.Runtime) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log := logger.NewStructured(logLevel, "console")
	rt, err := app.Build(ctx, cfg, app.Options{ConnectAttempts: 1, ConnectDelay: time.Second}, log)
	if err != nil {
		return err
	}
	defer rt.Close(context.Background())

	return fn(rt)
}
