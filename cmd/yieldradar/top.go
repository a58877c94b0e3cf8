package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"yieldRadar/internal/config"
	"yieldRadar/internal/llama"
	"yieldRadar/internal/model"
	"yieldRadar/internal/rank"
)

func runTop(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadTop(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := llama.NewClient(cfg.APIURL, cfg.FetchTimeout, logger)
	pools, err := client.FetchPools(ctx)
	if err != nil {
		return fmt.Errorf("fetch pools: %w", err)
	}

	view := cfg.View()
	ranked := rank.Rank(pools, cfg.Chain, view)

	logger.Debug("pipeline done",
		zap.Int("raw", len(pools)),
		zap.Int("ranked", len(ranked)),
	)

	if len(ranked) == 0 {
		fmt.Println("no pools match the current filters")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "#\tPROJECT\tSYMBOL\tTVL\tAPY\tSCORE\tLINK")
	for i, p := range ranked {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%.1f\t%s\n",
			i+1,
			p.Project,
			p.Symbol,
			model.FormatUSD(p.TVLUSD, "-"),
			model.FormatPercent(p.APY, "-"),
			p.Score,
			p.PoolURL(),
		)
	}
	return w.Flush()
}
