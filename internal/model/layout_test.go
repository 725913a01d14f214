package model

import (
	"encoding/binary"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"
)

func TestAssetRecordLayout(t *testing.T) {
	mint := solana.NewWallet().PublicKey()
	calc := solana.NewWallet().PublicKey()
	rec := AssetRecord{
		IsInputDisabled:            1,
		PoolReservesBump:           254,
		ProtocolFeeAccumulatorBump: 253,
		CalculatorKind:             2,
		InputFeeBps:                -5,
		OutputFeeBps:               30,
		CommonValue:                0x0102030405060708,
		Mint:                       mint,
		Calculator:                 calc,
	}

	b, err := rec.Encode()
	require.NoError(t, err)
	require.Len(t, b, AssetRecordSize)

	require.Equal(t, byte(1), b[0])
	require.Equal(t, byte(254), b[1])
	require.Equal(t, byte(253), b[2])
	require.Equal(t, byte(2), b[3])
	require.Equal(t, int16(-5), int16(binary.LittleEndian.Uint16(b[4:6])))
	require.Equal(t, uint16(30), binary.LittleEndian.Uint16(b[6:8]))
	require.Equal(t, uint64(0x0102030405060708), binary.LittleEndian.Uint64(b[8:16]))
	require.Equal(t, mint.Bytes(), b[16:48])
	require.Equal(t, calc.Bytes(), b[48:80])

	decoded, err := DecodeAssetRecord(b)
	require.NoError(t, err)
	require.Equal(t, rec, decoded)
}

func TestAssetListCodec(t *testing.T) {
	list := AssetList{
		{Mint: solana.NewWallet().PublicKey(), CommonValue: 1},
		{Mint: solana.NewWallet().PublicKey(), CommonValue: 2},
		{Mint: solana.NewWallet().PublicKey(), CommonValue: 3},
	}

	b, err := list.Encode()
	require.NoError(t, err)
	require.Len(t, b, 3*AssetRecordSize)

	decoded, err := DecodeAssetList(b)
	require.NoError(t, err)
	require.Equal(t, list, decoded)

	idx, ok := decoded.FindMint(list[2].Mint)
	require.True(t, ok)
	require.Equal(t, 2, idx)

	_, err = DecodeAssetList(b[:len(b)-1])
	require.ErrorIs(t, err, ErrInvalidRecordData)

	empty, err := DecodeAssetList(nil)
	require.NoError(t, err)
	require.Empty(t, empty)
}

func TestPoolStateLayout(t *testing.T) {
	admin := solana.NewWallet().PublicKey()
	pricing := solana.NewWallet().PublicKey()
	lp := solana.NewWallet().PublicKey()

	state := NewPoolState(admin, pricing, lp)
	state.TotalValue = 42
	state.IsRebalancing.SetTrue()

	b, err := state.Encode()
	require.NoError(t, err)
	require.Len(t, b, PoolStateSize)
	require.Equal(t, uint64(42), binary.LittleEndian.Uint64(b[0:8]))
	require.Equal(t, DefaultTradingProtocolFeeBps, binary.LittleEndian.Uint16(b[8:10]))
	require.Equal(t, DefaultLpProtocolFeeBps, binary.LittleEndian.Uint16(b[10:12]))
	require.Equal(t, CurrentVersion, b[12])
	require.Equal(t, byte(0), b[13])
	require.Equal(t, byte(1), b[14])
	require.Equal(t, admin.Bytes(), b[16:48])
	require.Equal(t, lp.Bytes(), b[144:176])

	decoded, err := DecodePoolState(b)
	require.NoError(t, err)
	require.Equal(t, state, decoded)

	_, err = DecodePoolState(b[:100])
	require.ErrorIs(t, err, ErrInvalidRecordData)
}

func TestRebalanceRecordLayout(t *testing.T) {
	rec := RebalanceRecord{OldTotalValue: 9, DstIndex: 3}
	b, err := rec.Encode()
	require.NoError(t, err)
	require.Len(t, b, RebalanceRecordSize)

	decoded, err := DecodeRebalanceRecord(b)
	require.NoError(t, err)
	require.Equal(t, rec, decoded)
}

func TestU8Bool(t *testing.T) {
	var b U8Bool
	require.False(t, b.Bool())
	b.Set(true)
	require.True(t, b.Bool())
	b.SetFalse()
	require.False(t, b.Bool())
	require.True(t, U8Bool(7).Bool())
}
