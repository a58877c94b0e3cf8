package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"yieldRadar/internal/config"
	"yieldRadar/internal/llama"
	"yieldRadar/internal/observability"
	"yieldRadar/internal/server"
)

func runServe(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadServe(cfgFile, cmd.Flags())
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

	metrics := observability.NewMetrics("yieldradar")
	client := llama.NewClient(cfg.APIURL, cfg.FetchTimeout, logger)
	srv := server.New(cfg.Chain, client, logger, metrics)

	// One fetch per session. A failure is surfaced as the page banner,
	// not a startup error; the manual reload button is the recovery
	// path.
	if err := srv.Refresh(ctx); err != nil {
		logger.Warn("initial snapshot fetch failed, serving empty state", zap.Error(err))
	}

	httpServer := &http.Server{
		Addr:    cfg.Listen,
		Handler: srv.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("screener listening",
			zap.String("addr", cfg.Listen),
			zap.String("chain", cfg.Chain),
		)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
