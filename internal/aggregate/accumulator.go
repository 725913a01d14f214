package aggregate

import (
	"fmt"

	"cosmossdk.io/math"

	"lstpool/internal/model"
)

// PoolWideMint keys the row that counts rejected operations. Rejections carry
// no balance effects and so belong to no asset.
const PoolWideMint = "*"

// Accumulator holds aggregate flows for one asset window.
type Accumulator struct {
	Mint           string
	WindowStart    uint64
	WindowEnd      uint64
	SwapInCount    uint64
	SwapOutCount   uint64
	VolumeIn       math.Int
	VolumeOut      math.Int
	ProtocolFees   math.Int
	LiquidityAdded math.Int
	LiquidityTaken math.Int
	LpMinted       math.Int
	LpBurned       math.Int
	RejectedCount  uint64
	LastSeq        uint64
}

func NewAccumulator(mint string, windowStart, windowEnd uint64) *Accumulator {
	return &Accumulator{
		Mint:           mint,
		WindowStart:    windowStart,
		WindowEnd:      windowEnd,
		VolumeIn:       math.ZeroInt(),
		VolumeOut:      math.ZeroInt(),
		ProtocolFees:   math.ZeroInt(),
		LiquidityAdded: math.ZeroInt(),
		LiquidityTaken: math.ZeroInt(),
		LpMinted:       math.ZeroInt(),
		LpBurned:       math.ZeroInt(),
	}
}

// AddDelta folds the side of rec that concerns a.Mint into the window.
func (a *Accumulator) AddDelta(rec model.DeltaRecord) error {
	if rec.Seq > a.LastSeq {
		a.LastSeq = rec.Seq
	}

	switch rec.Status {
	case model.DeltaStatusRejected:
		if a.Mint == PoolWideMint {
			a.RejectedCount++
		}
		return nil
	case model.DeltaStatusApplied:
	default:
		return fmt.Errorf("unknown delta status %q", rec.Status)
	}

	switch rec.Operation {
	case "swap_exact_in", "swap_exact_out":
		if rec.SrcMint == a.Mint {
			a.SwapInCount++
			a.VolumeIn = add(a.VolumeIn, rec.AmountIn)
		}
		if rec.DstMint == a.Mint {
			a.SwapOutCount++
			a.VolumeOut = add(a.VolumeOut, rec.AmountOut)
			a.ProtocolFees = add(a.ProtocolFees, rec.ProtocolFee)
		}
	case "add_liquidity":
		if rec.SrcMint == a.Mint {
			a.LiquidityAdded = add(a.LiquidityAdded, rec.AmountIn)
			a.LpMinted = add(a.LpMinted, rec.LpMinted)
		}
	case "remove_liquidity":
		if rec.DstMint == a.Mint {
			a.LiquidityTaken = add(a.LiquidityTaken, rec.AmountOut)
			a.LpBurned = add(a.LpBurned, rec.LpBurned)
			a.ProtocolFees = add(a.ProtocolFees, rec.ProtocolFee)
		}
	}
	return nil
}

// Metrics renders the window for storage.
func (a *Accumulator) Metrics(windowSeconds uint64) model.AssetWindowMetrics {
	return model.AssetWindowMetrics{
		Mint:           a.Mint,
		WindowSizeSecs: int64(windowSeconds),
		WindowStart:    unixTime(a.WindowStart),
		WindowEnd:      unixTime(a.WindowEnd),
		SwapInCount:    a.SwapInCount,
		SwapOutCount:   a.SwapOutCount,
		VolumeIn:       a.VolumeIn.String(),
		VolumeOut:      a.VolumeOut.String(),
		ProtocolFees:   a.ProtocolFees.String(),
		LiquidityAdded: a.LiquidityAdded.String(),
		LiquidityTaken: a.LiquidityTaken.String(),
		LpMinted:       a.LpMinted.String(),
		LpBurned:       a.LpBurned.String(),
		RejectedCount:  a.RejectedCount,
	}
}

// mintsOf lists the accumulators rec contributes to.
func mintsOf(rec model.DeltaRecord) []string {
	if rec.Status == model.DeltaStatusRejected {
		return []string{PoolWideMint}
	}
	switch rec.Operation {
	case "swap_exact_in", "swap_exact_out":
		if rec.SrcMint == rec.DstMint {
			return nonEmpty(rec.SrcMint)
		}
		return nonEmpty(rec.SrcMint, rec.DstMint)
	case "add_liquidity":
		return nonEmpty(rec.SrcMint)
	case "remove_liquidity":
		return nonEmpty(rec.DstMint)
	}
	return nil
}

func add(total math.Int, v uint64) math.Int {
	if v == 0 {
		return total
	}
	return total.Add(math.NewIntFromUint64(v))
}
