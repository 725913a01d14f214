package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"lstpool/internal/config"
	"lstpool/internal/metrics"
	"lstpool/internal/pool"
	"lstpool/internal/replay"
	"lstpool/internal/storage"
	"lstpool/internal/storage/postgres"
)

func runReplay(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.In == "" {
		return fmt.Errorf("input path is required")
	}

	var programID solana.PublicKey
	if cfg.ProgramID != "" {
		programID, err = solana.PublicKeyFromBase58(cfg.ProgramID)
		if err != nil {
			return fmt.Errorf("invalid program id: %w", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ops, err := replay.LoadOperations(cfg.In)
	if err != nil {
		return err
	}
	state, err := storage.LoadPoolState(cfg.StateFile)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	m := metrics.NewMetrics(reg)
	if cfg.MetricsAddr != "" {
		srv := serveMetrics(cfg.MetricsAddr, reg, logger)
		defer srv.Close()
	}

	sinks := storage.Multi{storage.NewJsonlStorage(cfg.Out)}
	var snapshots replay.SnapshotStore
	if cfg.PGDSN != "" {
		store, err := postgres.NewStore(ctx, cfg.PGDSN)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer store.Close()
		if err := store.EnsureSchema(ctx); err != nil {
			return err
		}
		sinks = append(sinks, store)
		snapshots = store
	}

	var checkpoint storage.Cursor
	if cfg.CheckpointEnabled {
		checkpoint = storage.Cursor{Store: &storage.FileProgress{Path: cfg.Checkpoint}, Name: "replay"}
	}

	engine := pool.NewEngine(pool.Config{
		ProgramID:          programID,
		RebalanceTolerance: cfg.RebalanceTolerance,
	}, logger)

	runner := replay.NewRunner(replay.RunConfig{
		FromSeq:      cfg.FromSeq,
		ToSeq:        cfg.ToSeq,
		BatchSize:    cfg.BatchSize,
		StatePath:    cfg.StateFile,
		Checkpoint:   checkpoint,
		MaxRetries:   cfg.MaxRetries,
		RetryBackoff: cfg.RetryBackoff,
	}, engine, sinks, snapshots, m, logger)

	logger.Info("replay start",
		zap.String("in", cfg.In),
		zap.Int("operations", len(ops)),
		zap.Uint64("from", cfg.FromSeq),
		zap.Uint64("to", cfg.ToSeq),
		zap.Uint64("batch_size", cfg.BatchSize),
		zap.String("state_file", cfg.StateFile),
		zap.String("out", cfg.Out),
		zap.String("pg_dsn", redactDSN(cfg.PGDSN)),
		zap.Bool("checkpoint_enabled", cfg.CheckpointEnabled),
		zap.String("checkpoint", cfg.Checkpoint),
	)

	final, err := runner.Run(ctx, state, ops)
	if err != nil {
		return err
	}
	logger.Info("replay complete",
		zap.Uint64("total_value", final.Pool.TotalValue),
		zap.Uint64("lp_supply", final.LpSupply),
		zap.Int("assets", len(final.Assets)),
	)
	return nil
}

func serveMetrics(addr string, reg *prometheus.Registry, logger *zap.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("metrics server stopped", zap.Error(err))
		}
	}()
	return srv
}
