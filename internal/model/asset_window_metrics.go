package model

import "time"

// AssetWindowMetrics stores aggregated flows for an asset over a window.
type AssetWindowMetrics struct {
	Mint           string
	WindowSizeSecs int64
	WindowStart    time.Time
	WindowEnd      time.Time
	SwapInCount    uint64
	SwapOutCount   uint64
	VolumeIn       string
	VolumeOut      string
	ProtocolFees   string
	LiquidityAdded string
	LiquidityTaken string
	LpMinted       string
	LpBurned       string
	RejectedCount  uint64
}
