// Package instruction encodes pool operations as a one-byte discriminant
// followed by fixed-order little-endian arguments.
package instruction

import (
	"github.com/gagliardetto/solana-go"
)

// Discriminant identifies an operation.
type Discriminant uint8

const (
	DiscSyncValue Discriminant = iota
	DiscSwapExactIn
	DiscSwapExactOut
	DiscAddLiquidity
	DiscRemoveLiquidity
	DiscDisableInput
	DiscEnableInput
	DiscAddAsset
	DiscRemoveAsset
	DiscSetAdmin
	DiscSetRebalanceAuthority
	DiscSetProtocolFeeBeneficiary
	DiscSetProtocolFee
	DiscSetPricingProgram
	DiscDisablePool
	DiscEnablePool
	DiscStartRebalance
	DiscEndRebalance
	DiscWithdrawProtocolFees
	DiscInitialize
	DiscSetCalculatorManager
	DiscUpdateLastUpgradeSlot
	DiscSetLstFee
	DiscSetLpWithdrawalFee
	DiscSetPricingManager
)

var names = map[Discriminant]string{
	DiscSyncValue:                 "sync_value",
	DiscSwapExactIn:               "swap_exact_in",
	DiscSwapExactOut:              "swap_exact_out",
	DiscAddLiquidity:              "add_liquidity",
	DiscRemoveLiquidity:           "remove_liquidity",
	DiscDisableInput:              "disable_input",
	DiscEnableInput:               "enable_input",
	DiscAddAsset:                  "add_asset",
	DiscRemoveAsset:               "remove_asset",
	DiscSetAdmin:                  "set_admin",
	DiscSetRebalanceAuthority:     "set_rebalance_authority",
	DiscSetProtocolFeeBeneficiary: "set_protocol_fee_beneficiary",
	DiscSetProtocolFee:            "set_protocol_fee",
	DiscSetPricingProgram:         "set_pricing_program",
	DiscDisablePool:               "disable_pool",
	DiscEnablePool:                "enable_pool",
	DiscStartRebalance:            "start_rebalance",
	DiscEndRebalance:              "end_rebalance",
	DiscWithdrawProtocolFees:      "withdraw_protocol_fees",
	DiscInitialize:                "initialize",
	DiscSetCalculatorManager:      "set_calculator_manager",
	DiscUpdateLastUpgradeSlot:     "update_last_upgrade_slot",
	DiscSetLstFee:                 "set_lst_fee",
	DiscSetLpWithdrawalFee:        "set_lp_withdrawal_fee",
	DiscSetPricingManager:         "set_pricing_manager",
}

func (d Discriminant) String() string {
	if n, ok := names[d]; ok {
		return n
	}
	return "unknown"
}

// Instruction is a decoded operation.
type Instruction interface {
	Discriminant() Discriminant
}

type SyncValue struct {
	Index uint32
}

// Swap is shared by both swap directions. Limit is the minimum output for
// exact-in and the maximum input for exact-out.
type Swap struct {
	SrcIndex uint32
	DstIndex uint32
	Amount   uint64
	Limit    uint64
}

type SwapExactIn struct{ Swap }

type SwapExactOut struct{ Swap }

type AddLiquidity struct {
	Index    uint32
	Amount   uint64
	MinLpOut uint64
}

type RemoveLiquidity struct {
	Index    uint32
	LpAmount uint64
	MinOut   uint64
}

type DisableInput struct {
	Index uint32
}

type EnableInput struct {
	Index uint32
}

type AddAsset struct {
	Mint           solana.PublicKey
	CalculatorKind uint8
	Calculator     solana.PublicKey
}

type RemoveAsset struct {
	Index uint32
}

type SetAdmin struct {
	NewAdmin solana.PublicKey
}

type SetRebalanceAuthority struct {
	NewAuthority solana.PublicKey
}

type SetProtocolFeeBeneficiary struct {
	NewBeneficiary solana.PublicKey
}

type SetProtocolFee struct {
	TradingProtocolFeeBps uint16
	LpProtocolFeeBps      uint16
}

type SetPricingProgram struct {
	NewPricingProgram solana.PublicKey
}

type DisablePool struct{}

type EnablePool struct{}

type StartRebalance struct {
	SrcIndex uint32
	DstIndex uint32
	Amount   uint64
}

type EndRebalance struct {
	Amount uint64
}

type WithdrawProtocolFees struct {
	Index  uint32
	Amount uint64
}

type Initialize struct {
	PricingProgram solana.PublicKey
	LpTokenMint    solana.PublicKey
}

type SetCalculatorManager struct {
	Index      uint32
	NewManager solana.PublicKey
}

type UpdateLastUpgradeSlot struct {
	Index uint32
}

type SetLstFee struct {
	Index        uint32
	InputFeeBps  int16
	OutputFeeBps int16
}

type SetLpWithdrawalFee struct {
	Bps uint16
}

type SetPricingManager struct {
	NewManager solana.PublicKey
}

func (SyncValue) Discriminant() Discriminant                 { return DiscSyncValue }
func (SwapExactIn) Discriminant() Discriminant               { return DiscSwapExactIn }
func (SwapExactOut) Discriminant() Discriminant              { return DiscSwapExactOut }
func (AddLiquidity) Discriminant() Discriminant              { return DiscAddLiquidity }
func (RemoveLiquidity) Discriminant() Discriminant           { return DiscRemoveLiquidity }
func (DisableInput) Discriminant() Discriminant              { return DiscDisableInput }
func (EnableInput) Discriminant() Discriminant               { return DiscEnableInput }
func (AddAsset) Discriminant() Discriminant                  { return DiscAddAsset }
func (RemoveAsset) Discriminant() Discriminant               { return DiscRemoveAsset }
func (SetAdmin) Discriminant() Discriminant                  { return DiscSetAdmin }
func (SetRebalanceAuthority) Discriminant() Discriminant     { return DiscSetRebalanceAuthority }
func (SetProtocolFeeBeneficiary) Discriminant() Discriminant { return DiscSetProtocolFeeBeneficiary }
func (SetProtocolFee) Discriminant() Discriminant            { return DiscSetProtocolFee }
func (SetPricingProgram) Discriminant() Discriminant         { return DiscSetPricingProgram }
func (DisablePool) Discriminant() Discriminant               { return DiscDisablePool }
func (EnablePool) Discriminant() Discriminant                { return DiscEnablePool }
func (StartRebalance) Discriminant() Discriminant            { return DiscStartRebalance }
func (EndRebalance) Discriminant() Discriminant              { return DiscEndRebalance }
func (WithdrawProtocolFees) Discriminant() Discriminant      { return DiscWithdrawProtocolFees }
func (Initialize) Discriminant() Discriminant                { return DiscInitialize }
func (SetCalculatorManager) Discriminant() Discriminant      { return DiscSetCalculatorManager }
func (UpdateLastUpgradeSlot) Discriminant() Discriminant     { return DiscUpdateLastUpgradeSlot }
func (SetLstFee) Discriminant() Discriminant                 { return DiscSetLstFee }
func (SetLpWithdrawalFee) Discriminant() Discriminant        { return DiscSetLpWithdrawalFee }
func (SetPricingManager) Discriminant() Discriminant         { return DiscSetPricingManager }
