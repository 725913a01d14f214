package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"lstpool/internal/config"
	"lstpool/internal/instruction"
	"lstpool/internal/pool"
	"lstpool/internal/storage"
)

type quoteResult struct {
	Operation   string `json:"operation"`
	SrcMint     string `json:"src_mint"`
	DstMint     string `json:"dst_mint"`
	AmountIn    uint64 `json:"amount_in"`
	AmountOut   uint64 `json:"amount_out"`
	ProtocolFee uint64 `json:"protocol_fee"`
	TotalValue  uint64 `json:"total_value_after"`
}

func runQuote(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadQuote(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	src, _ := cmd.Flags().GetString("src")
	dst, _ := cmd.Flags().GetString("dst")
	amount, _ := cmd.Flags().GetUint64("amount")
	exactOut, _ := cmd.Flags().GetBool("exact-out")

	state, err := storage.LoadPoolState(cfg.StateFile)
	if err != nil {
		return err
	}
	logger.Debug("quote", zap.String("state_file", cfg.StateFile), zap.Int("assets", len(state.Assets)))

	return quote(cmd.OutOrStdout(), pool.NewEngine(pool.Config{}, logger), state, src, dst, amount, exactOut)
}

// quote simulates one swap on a copy of s and writes the outcome as JSON.
// Slippage limits are left open.
func quote(w io.Writer, engine *pool.Engine, s *pool.State, src, dst string, amount uint64, exactOut bool) error {
	srcIndex, err := resolveAsset(s, src)
	if err != nil {
		return fmt.Errorf("src: %w", err)
	}
	dstIndex, err := resolveAsset(s, dst)
	if err != nil {
		return fmt.Errorf("dst: %w", err)
	}

	var ins instruction.Instruction = instruction.SwapExactIn{Swap: instruction.Swap{
		SrcIndex: srcIndex, DstIndex: dstIndex, Amount: amount,
	}}
	if exactOut {
		ins = instruction.SwapExactOut{Swap: instruction.Swap{
			SrcIndex: srcIndex, DstIndex: dstIndex, Amount: amount, Limit: ^uint64(0),
		}}
	}

	next, delta, err := engine.Apply(s, ins, nil)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(quoteResult{
		Operation:   delta.Operation,
		SrcMint:     delta.SrcMint.String(),
		DstMint:     delta.DstMint.String(),
		AmountIn:    delta.AmountIn,
		AmountOut:   delta.AmountOut,
		ProtocolFee: delta.ProtocolFee,
		TotalValue:  next.Pool.TotalValue,
	})
}

// resolveAsset accepts a registry index or a mint.
func resolveAsset(s *pool.State, input string) (uint32, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return 0, fmt.Errorf("asset is required")
	}
	if idx, err := strconv.ParseUint(input, 10, 32); err == nil {
		if int(idx) >= len(s.Assets) {
			return 0, fmt.Errorf("index %d out of range (%d assets)", idx, len(s.Assets))
		}
		return uint32(idx), nil
	}
	mint, err := solana.PublicKeyFromBase58(input)
	if err != nil {
		return 0, fmt.Errorf("invalid mint %q: %w", input, err)
	}
	idx, ok := s.FindMint(mint)
	if !ok {
		return 0, fmt.Errorf("mint %s not registered", mint)
	}
	return idx, nil
}
