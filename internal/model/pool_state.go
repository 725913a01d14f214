package model

import (
	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

const (
	// PoolStateSize is the encoded width of PoolState.
	PoolStateSize = 176
	// RebalanceRecordSize is the encoded width of RebalanceRecord.
	RebalanceRecordSize = 12

	CurrentVersion uint8 = 1

	DefaultTradingProtocolFeeBps uint16 = 1000
	DefaultLpProtocolFeeBps      uint16 = 1000
)

// PoolState holds pool-wide aggregates and authorities.
type PoolState struct {
	TotalValue             uint64           `json:"total_value"`
	TradingProtocolFeeBps  uint16           `json:"trading_protocol_fee_bps"`
	LpProtocolFeeBps       uint16           `json:"lp_protocol_fee_bps"`
	Version                uint8            `json:"version"`
	IsDisabled             U8Bool           `json:"is_disabled"`
	IsRebalancing          U8Bool           `json:"is_rebalancing"`
	Padding                [1]uint8         `json:"-"`
	Admin                  solana.PublicKey `json:"admin"`
	RebalanceAuthority     solana.PublicKey `json:"rebalance_authority"`
	ProtocolFeeBeneficiary solana.PublicKey `json:"protocol_fee_beneficiary"`
	PricingProgram         solana.PublicKey `json:"pricing_program"`
	LpTokenMint            solana.PublicKey `json:"lp_token_mint"`
}

// NewPoolState returns the initial state of a freshly initialized pool.
func NewPoolState(admin, pricingProgram, lpTokenMint solana.PublicKey) PoolState {
	return PoolState{
		TradingProtocolFeeBps:  DefaultTradingProtocolFeeBps,
		LpProtocolFeeBps:       DefaultLpProtocolFeeBps,
		Version:                CurrentVersion,
		Admin:                  admin,
		RebalanceAuthority:     admin,
		ProtocolFeeBeneficiary: admin,
		PricingProgram:         pricingProgram,
		LpTokenMint:            lpTokenMint,
	}
}

// Encode returns the fixed-width little-endian encoding of the state.
func (s PoolState) Encode() ([]byte, error) {
	return bin.MarshalBorsh(s)
}

// DecodePoolState decodes a pool state record.
func DecodePoolState(data []byte) (PoolState, error) {
	if len(data) != PoolStateSize {
		return PoolState{}, ErrInvalidRecordData.Wrapf("pool state is %d bytes, want %d", len(data), PoolStateSize)
	}
	var s PoolState
	if err := bin.UnmarshalBorsh(&s, data); err != nil {
		return PoolState{}, ErrInvalidRecordData.Wrapf("decode pool state: %v", err)
	}
	return s, nil
}

// RebalanceRecord exists only while a rebalance is active. It carries the
// total value snapshot taken when the rebalance started.
type RebalanceRecord struct {
	OldTotalValue uint64 `json:"old_total_value"`
	DstIndex      uint32 `json:"dst_index"`
}

// Encode returns the fixed-width encoding of the record.
func (r RebalanceRecord) Encode() ([]byte, error) {
	return bin.MarshalBorsh(r)
}

// DecodeRebalanceRecord decodes a rebalance record.
func DecodeRebalanceRecord(data []byte) (RebalanceRecord, error) {
	if len(data) != RebalanceRecordSize {
		return RebalanceRecord{}, ErrInvalidRecordData.Wrapf("rebalance record is %d bytes, want %d", len(data), RebalanceRecordSize)
	}
	var r RebalanceRecord
	if err := bin.UnmarshalBorsh(&r, data); err != nil {
		return RebalanceRecord{}, ErrInvalidRecordData.Wrapf("decode rebalance record: %v", err)
	}
	return r, nil
}
