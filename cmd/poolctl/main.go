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
		Use:          "poolctl",
		Short:        "Multi-asset LST pool accounting",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	replayCmd := &cobra.Command{
		Use:   "replay",
		Short: "Replay operation records against the pool state",
		RunE:  runReplay,
	}

	replayCmd.Flags().String("in", "", "input operation records JSONL")
	replayCmd.Flags().String("state-file", "./data/pool_state.json", "pool state file")
	replayCmd.Flags().String("out", "./data/deltas.jsonl", "output deltas JSONL")
	replayCmd.Flags().String("pg-dsn", "", "optional Postgres DSN for deltas and asset snapshots")
	replayCmd.Flags().String("program-id", "", "program id used to derive expected accounts")
	replayCmd.Flags().Uint64("from", 0, "first operation seq (inclusive)")
	replayCmd.Flags().Uint64("to", 0, "last operation seq (inclusive), 0 means last in input")
	replayCmd.Flags().Uint64("batch-size", 500, "operations per batch")
	replayCmd.Flags().String("checkpoint", "./data/progress.json", "checkpoint file path")
	replayCmd.Flags().Bool("checkpoint-enabled", true, "enable checkpointing")
	replayCmd.Flags().Int("max-retries", 5, "maximum retry attempts for storage writes")
	replayCmd.Flags().Duration("retry-backoff", 500*time.Millisecond, "initial retry backoff")
	replayCmd.Flags().Uint64("rebalance-tolerance", 0, "common value a rebalance may lose")
	replayCmd.Flags().String("metrics-addr", "", "serve Prometheus metrics on this address (e.g. :9100)")
	replayCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(replayCmd)

	quoteCmd := &cobra.Command{
		Use:   "quote",
		Short: "Quote a swap against the stored pool state without persisting",
		RunE:  runQuote,
	}

	quoteCmd.Flags().String("state-file", "./data/pool_state.json", "pool state file")
	quoteCmd.Flags().String("src", "", "source asset mint or index")
	quoteCmd.Flags().String("dst", "", "destination asset mint or index")
	quoteCmd.Flags().Uint64("amount", 0, "input amount, or output amount with --exact-out")
	quoteCmd.Flags().Bool("exact-out", false, "quote an exact output amount")
	quoteCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(quoteCmd)

	aggregateCmd := &cobra.Command{
		Use:   "aggregate",
		Short: "Aggregate deltas into per-asset window metrics",
		RunE:  runAggregate,
	}

	aggregateCmd.Flags().String("in", "", "input deltas JSONL")
	aggregateCmd.Flags().String("window", "5m", "aggregation window (e.g. 1m, 5m, 1h)")
	aggregateCmd.Flags().String("pg-dsn", "", "Postgres DSN")
	aggregateCmd.Flags().Int("batch-size", 1000, "batch size for DB writes")
	aggregateCmd.Flags().String("progress-file", "", "optional local progress file instead of the pool_progress table")
	aggregateCmd.Flags().String("recompute-from", "", "recompute from timestamp (unix seconds or RFC3339)")
	aggregateCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(aggregateCmd)

	refreshCmd := &cobra.Command{
		Use:   "refresh",
		Short: "Load the current epoch, staking program deploy slots and exchange rates into the state file",
		RunE:  runRefresh,
	}

	refreshCmd.Flags().String("rpc", "", "Solana RPC URL")
	refreshCmd.Flags().String("state-file", "./data/pool_state.json", "pool state file")
	refreshCmd.Flags().String("commitment", "finalized", "RPC commitment level")
	refreshCmd.Flags().Duration("timeout", 30*time.Second, "overall RPC timeout")
	refreshCmd.Flags().String("stake-programs", "", "mint->staking program mappings (comma-separated mint=program)")
	refreshCmd.Flags().String("rate-accounts", "", "mint->exchange rate account mappings (comma-separated mint=account)")
	refreshCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(refreshCmd)

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
