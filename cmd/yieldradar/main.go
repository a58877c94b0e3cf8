package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	root := &cobra.Command{
		Use:          "yieldradar",
		Short:        "DefiLlama yield screener for a single chain",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the yield screener UI and API",
		RunE:  runServe,
	}

	serveCmd.Flags().String("listen", ":8080", "listen address")
	serveCmd.Flags().String("chain", "Base", "target chain name (exact match)")
	serveCmd.Flags().String("api-url", "", "yields API base URL (default public DefiLlama)")
	serveCmd.Flags().Duration("fetch-timeout", 30*time.Second, "timeout for the snapshot fetch")
	serveCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(serveCmd)

	topCmd := &cobra.Command{
		Use:   "top",
		Short: "Fetch, rank, and print the top pools",
		RunE:  runTop,
	}

	topCmd.Flags().String("chain", "Base", "target chain name (exact match)")
	topCmd.Flags().String("api-url", "", "yields API base URL (default public DefiLlama)")
	topCmd.Flags().Duration("fetch-timeout", 30*time.Second, "timeout for the snapshot fetch")
	topCmd.Flags().String("query", "", "substring filter over project and symbol")
	topCmd.Flags().Float64("min-tvl", 50_000, "minimum TVL in USD")
	topCmd.Flags().Bool("stable-only", false, "only stablecoin pools")
	topCmd.Flags().String("sort", "score", "sort key (score, apy, tvl)")
	topCmd.Flags().Int("limit", 30, "result count (10, 20, 30, 50, 100)")
	topCmd.Flags().String("log-level", "warn", "log level (debug, info, warn, error)")

	root.AddCommand(topCmd)

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Fetch a snapshot and write it to JSONL and/or Postgres",
		RunE:  runExport,
	}

	exportCmd.Flags().String("chain", "Base", "target chain name (exact match)")
	exportCmd.Flags().String("api-url", "", "yields API base URL (default public DefiLlama)")
	exportCmd.Flags().Duration("fetch-timeout", 30*time.Second, "timeout for the snapshot fetch")
	exportCmd.Flags().String("out", "", "output JSONL path")
	exportCmd.Flags().String("pg-dsn", "", "Postgres DSN")
	exportCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(exportCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}

func redactDSN(dsn string) string {
	if dsn == "" {
		return dsn
	}
	return "***"
}
