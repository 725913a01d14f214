package instruction

import (
	bin "github.com/gagliardetto/binary"

	"lstpool/internal/model"
)

type layout struct {
	size int
	new  func() Instruction
}

// layouts lists the argument width of every known discriminant.
var layouts = map[Discriminant]layout{
	DiscSyncValue:                 {4, func() Instruction { return &SyncValue{} }},
	DiscSwapExactIn:               {24, func() Instruction { return &SwapExactIn{} }},
	DiscSwapExactOut:              {24, func() Instruction { return &SwapExactOut{} }},
	DiscAddLiquidity:              {20, func() Instruction { return &AddLiquidity{} }},
	DiscRemoveLiquidity:           {20, func() Instruction { return &RemoveLiquidity{} }},
	DiscDisableInput:              {4, func() Instruction { return &DisableInput{} }},
	DiscEnableInput:               {4, func() Instruction { return &EnableInput{} }},
	DiscAddAsset:                  {65, func() Instruction { return &AddAsset{} }},
	DiscRemoveAsset:               {4, func() Instruction { return &RemoveAsset{} }},
	DiscSetAdmin:                  {32, func() Instruction { return &SetAdmin{} }},
	DiscSetRebalanceAuthority:     {32, func() Instruction { return &SetRebalanceAuthority{} }},
	DiscSetProtocolFeeBeneficiary: {32, func() Instruction { return &SetProtocolFeeBeneficiary{} }},
	DiscSetProtocolFee:            {4, func() Instruction { return &SetProtocolFee{} }},
	DiscSetPricingProgram:         {32, func() Instruction { return &SetPricingProgram{} }},
	DiscDisablePool:               {0, func() Instruction { return &DisablePool{} }},
	DiscEnablePool:                {0, func() Instruction { return &EnablePool{} }},
	DiscStartRebalance:            {16, func() Instruction { return &StartRebalance{} }},
	DiscEndRebalance:              {8, func() Instruction { return &EndRebalance{} }},
	DiscWithdrawProtocolFees:      {12, func() Instruction { return &WithdrawProtocolFees{} }},
	DiscInitialize:                {64, func() Instruction { return &Initialize{} }},
	DiscSetCalculatorManager:      {36, func() Instruction { return &SetCalculatorManager{} }},
	DiscUpdateLastUpgradeSlot:     {4, func() Instruction { return &UpdateLastUpgradeSlot{} }},
	DiscSetLstFee:                 {8, func() Instruction { return &SetLstFee{} }},
	DiscSetLpWithdrawalFee:        {2, func() Instruction { return &SetLpWithdrawalFee{} }},
	DiscSetPricingManager:         {32, func() Instruction { return &SetPricingManager{} }},
}

// Decode parses an encoded operation. Unknown discriminants and argument
// blocks of the wrong width are rejected.
func Decode(data []byte) (Instruction, error) {
	if len(data) == 0 {
		return nil, model.ErrInvalidInstructionData.Wrap("empty instruction")
	}
	d := Discriminant(data[0])
	l, ok := layouts[d]
	if !ok {
		return nil, model.ErrInvalidInstructionData.Wrapf("unknown discriminant %d", data[0])
	}
	args := data[1:]
	if len(args) != l.size {
		return nil, model.ErrInvalidInstructionData.Wrapf("%s: %d argument bytes, want %d", d, len(args), l.size)
	}
	ins := l.new()
	if l.size > 0 {
		if err := bin.NewBorshDecoder(args).Decode(ins); err != nil {
			return nil, model.ErrInvalidInstructionData.Wrapf("%s: %v", d, err)
		}
	}
	return deref(ins), nil
}

// Encode is the inverse of Decode.
func Encode(ins Instruction) ([]byte, error) {
	out := []byte{byte(ins.Discriminant())}
	args, err := bin.MarshalBorsh(ins)
	if err != nil {
		return nil, model.ErrInvalidInstructionData.Wrapf("%s: %v", ins.Discriminant(), err)
	}
	return append(out, args...), nil
}

// deref returns decoded instructions by value so callers can type-switch on
// the plain struct types.
func deref(ins Instruction) Instruction {
	switch v := ins.(type) {
	case *SyncValue:
		return *v
	case *SwapExactIn:
		return *v
	case *SwapExactOut:
		return *v
	case *AddLiquidity:
		return *v
	case *RemoveLiquidity:
		return *v
	case *DisableInput:
		return *v
	case *EnableInput:
		return *v
	case *AddAsset:
		return *v
	case *RemoveAsset:
		return *v
	case *SetAdmin:
		return *v
	case *SetRebalanceAuthority:
		return *v
	case *SetProtocolFeeBeneficiary:
		return *v
	case *SetProtocolFee:
		return *v
	case *SetPricingProgram:
		return *v
	case *DisablePool:
		return *v
	case *EnablePool:
		return *v
	case *StartRebalance:
		return *v
	case *EndRebalance:
		return *v
	case *WithdrawProtocolFees:
		return *v
	case *Initialize:
		return *v
	case *SetCalculatorManager:
		return *v
	case *UpdateLastUpgradeSlot:
		return *v
	case *SetLstFee:
		return *v
	case *SetLpWithdrawalFee:
		return *v
	case *SetPricingManager:
		return *v
	default:
		return ins
	}
}
