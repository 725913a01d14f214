package model

const (
	DeltaStatusApplied  = "applied"
	DeltaStatusRejected = "rejected"
)

// DeltaRecord is the normalized outcome of one operation for storage.
type DeltaRecord struct {
	Seq              uint64 `json:"seq"`
	Timestamp        uint64 `json:"timestamp"`
	Operation        string `json:"operation"`
	Status           string `json:"status"`
	Error            string `json:"error,omitempty"`
	SrcMint          string `json:"src_mint,omitempty"`
	DstMint          string `json:"dst_mint,omitempty"`
	AmountIn         uint64 `json:"amount_in"`
	AmountOut        uint64 `json:"amount_out"`
	ProtocolFee      uint64 `json:"protocol_fee"`
	LpMinted         uint64 `json:"lp_minted"`
	LpBurned         uint64 `json:"lp_burned"`
	TotalValueBefore uint64 `json:"total_value_before"`
	TotalValueAfter  uint64 `json:"total_value_after"`
	IngestedAt       string `json:"ingested_at"`
}
