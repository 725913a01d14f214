package pool

import (
	"github.com/gagliardetto/solana-go"
)

// Delta summarizes the balance effects of one applied operation.
type Delta struct {
	Operation        string           `json:"operation"`
	SrcMint          solana.PublicKey `json:"src_mint"`
	DstMint          solana.PublicKey `json:"dst_mint"`
	AmountIn         uint64           `json:"amount_in"`
	AmountOut        uint64           `json:"amount_out"`
	ProtocolFee      uint64           `json:"protocol_fee"`
	LpMinted         uint64           `json:"lp_minted"`
	LpBurned         uint64           `json:"lp_burned"`
	TotalValueBefore uint64           `json:"total_value_before"`
	TotalValueAfter  uint64           `json:"total_value_after"`
}
