package instruction

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"

	"lstpool/internal/model"
)

func TestEncodeLayout(t *testing.T) {
	data, err := Encode(SwapExactIn{Swap{SrcIndex: 1, DstIndex: 2, Amount: 1_000, Limit: 990}})
	require.NoError(t, err)
	require.Len(t, data, 25)
	require.Equal(t, byte(DiscSwapExactIn), data[0])
	require.Equal(t, uint32(1), binary.LittleEndian.Uint32(data[1:5]))
	require.Equal(t, uint32(2), binary.LittleEndian.Uint32(data[5:9]))
	require.Equal(t, uint64(1_000), binary.LittleEndian.Uint64(data[9:17]))
	require.Equal(t, uint64(990), binary.LittleEndian.Uint64(data[17:25]))
}

func TestArgumentWidthsMatchLayouts(t *testing.T) {
	key := solana.NewWallet().PublicKey()
	all := []Instruction{
		SyncValue{Index: 3},
		SwapExactIn{Swap{SrcIndex: 0, DstIndex: 1, Amount: 5, Limit: 4}},
		SwapExactOut{Swap{SrcIndex: 1, DstIndex: 0, Amount: 5, Limit: 6}},
		AddLiquidity{Index: 1, Amount: 100, MinLpOut: 1},
		RemoveLiquidity{Index: 1, LpAmount: 100, MinOut: 1},
		DisableInput{Index: 2},
		EnableInput{Index: 2},
		AddAsset{Mint: key, CalculatorKind: 1, Calculator: key},
		RemoveAsset{Index: 4},
		SetAdmin{NewAdmin: key},
		SetRebalanceAuthority{NewAuthority: key},
		SetProtocolFeeBeneficiary{NewBeneficiary: key},
		SetProtocolFee{TradingProtocolFeeBps: 100, LpProtocolFeeBps: 200},
		SetPricingProgram{NewPricingProgram: key},
		DisablePool{},
		EnablePool{},
		StartRebalance{SrcIndex: 0, DstIndex: 1, Amount: 7},
		EndRebalance{Amount: 7},
		WithdrawProtocolFees{Index: 0, Amount: 9},
		Initialize{PricingProgram: key, LpTokenMint: key},
		SetCalculatorManager{Index: 1, NewManager: key},
		UpdateLastUpgradeSlot{Index: 1},
		SetLstFee{Index: 1, InputFeeBps: -5, OutputFeeBps: 10},
		SetLpWithdrawalFee{Bps: 30},
		SetPricingManager{NewManager: key},
	}
	require.Len(t, all, len(layouts))

	for _, ins := range all {
		data, err := Encode(ins)
		require.NoError(t, err, ins.Discriminant().String())
		require.Equal(t, layouts[ins.Discriminant()].size, len(data)-1, ins.Discriminant().String())

		got, err := Decode(data)
		require.NoError(t, err, ins.Discriminant().String())
		require.Equal(t, ins, got)
	}
}

func TestDecodeRejectsUnknownDiscriminant(t *testing.T) {
	_, err := Decode([]byte{0xff, 0, 0, 0, 0})
	require.True(t, errors.Is(err, model.ErrInvalidInstructionData))

	_, err = Decode(nil)
	require.True(t, errors.Is(err, model.ErrInvalidInstructionData))
}

func TestDecodeRejectsWrongWidth(t *testing.T) {
	data, err := Encode(EndRebalance{Amount: 1})
	require.NoError(t, err)

	_, err = Decode(data[:len(data)-1])
	require.True(t, errors.Is(err, model.ErrInvalidInstructionData))

	_, err = Decode(append(data, 0))
	require.True(t, errors.Is(err, model.ErrInvalidInstructionData))
}

func TestDiscriminantString(t *testing.T) {
	require.Equal(t, "start_rebalance", DiscStartRebalance.String())
	require.Equal(t, "unknown", Discriminant(200).String())
}
