package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"yieldRadar/internal/config"
	"yieldRadar/internal/llama"
	"yieldRadar/internal/model"
	"yieldRadar/internal/storage"
	"yieldRadar/internal/storage/postgres"
)

func runExport(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadExport(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.Out == "" && cfg.PGDSN == "" {
		return fmt.Errorf("at least one of --out or --pg-dsn is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := llama.NewClient(cfg.APIURL, cfg.FetchTimeout, logger)
	pools, err := client.FetchPools(ctx)
	if err != nil {
		return fmt.Errorf("fetch pools: %w", err)
	}

	// Export holds the chain-restricted snapshot only; filtering and
	// ranking stay a read-time concern.
	chained := make([]model.Pool, 0, len(pools))
	for _, p := range pools {
		if p.Chain == cfg.Chain {
			chained = append(chained, p)
		}
	}
	fetchedAt := time.Now()

	logger.Info("export start",
		zap.String("chain", cfg.Chain),
		zap.Int("pools", len(chained)),
		zap.String("out", cfg.Out),
		zap.String("pg_dsn", redactDSN(cfg.PGDSN)),
	)

	if cfg.Out != "" {
		var sink storage.Storage = storage.NewJsonlStorage(cfg.Out)
		if err := sink.PutPoolBatch(chained); err != nil {
			return fmt.Errorf("write jsonl: %w", err)
		}
	}

	if cfg.PGDSN != "" {
		store, err := postgres.NewStore(ctx, cfg.PGDSN)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer store.Close()

		if err := store.UpsertPools(ctx, chained, fetchedAt); err != nil {
			return fmt.Errorf("upsert pools: %w", err)
		}

		count, err := store.CountPools(ctx, cfg.Chain)
		if err != nil {
			return fmt.Errorf("count pools: %w", err)
		}
		logger.Info("postgres snapshot updated", zap.Int64("rows", count))
	}

	logger.Info("export done", zap.Int("pools", len(chained)))
	return nil
}
