package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"lstpool/internal/chain"
	"lstpool/internal/config"
	"lstpool/internal/storage"
)

func runRefresh(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadRefresh(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.RPCURL == "" {
		return fmt.Errorf("rpc url is required")
	}

	programs, err := parseKeyMap(cfg.StakePrograms, "stake program")
	if err != nil {
		return err
	}
	rates, err := parseKeyMap(cfg.RateAccounts, "rate account")
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	state, err := storage.LoadPoolState(cfg.StateFile)
	if err != nil {
		return err
	}

	client := chain.NewClient(cfg.RPCURL, cfg.Commitment)
	defer client.Close()

	logger.Info("refresh start",
		zap.String("rpc", cfg.RPCURL),
		zap.String("commitment", cfg.Commitment),
		zap.String("state_file", cfg.StateFile),
		zap.Int("stake_programs", len(programs)),
		zap.Int("rate_accounts", len(rates)),
	)

	src := chain.Sources{StakePrograms: programs, RateAccounts: rates}
	if err := client.Refresh(ctx, state, src, logger); err != nil {
		return err
	}
	return storage.SavePoolState(cfg.StateFile, state)
}

func parseKeyMap(in map[string]string, what string) (map[solana.PublicKey]solana.PublicKey, error) {
	out := make(map[solana.PublicKey]solana.PublicKey, len(in))
	for mint, program := range in {
		m, err := solana.PublicKeyFromBase58(mint)
		if err != nil {
			return nil, fmt.Errorf("invalid mint %q: %w", mint, err)
		}
		p, err := solana.PublicKeyFromBase58(program)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", what, program, err)
		}
		out[m] = p
	}
	return out, nil
}
