package chain

import (
	"context"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"lstpool/internal/calculator"
	"lstpool/internal/instruction"
	"lstpool/internal/model"
	"lstpool/internal/pool"
)

type fakeRPC struct {
	epoch    uint64
	accounts map[solana.PublicKey][]byte
	lookups  int
}

func (f *fakeRPC) GetEpochInfo(context.Context, rpc.CommitmentType) (*rpc.GetEpochInfoResult, error) {
	return &rpc.GetEpochInfoResult{Epoch: f.epoch}, nil
}

func (f *fakeRPC) GetAccountInfoWithOpts(_ context.Context, account solana.PublicKey, _ *rpc.GetAccountInfoOpts) (*rpc.GetAccountInfoResult, error) {
	f.lookups++
	data, ok := f.accounts[account]
	if !ok {
		return nil, errors.New("not found")
	}
	return &rpc.GetAccountInfoResult{Value: &rpc.Account{Data: rpc.DataBytesOrJSONFromBytes(data)}}, nil
}

func programAccount(programData solana.PublicKey) []byte {
	buf := binary.LittleEndian.AppendUint32(nil, loaderTagProgram)
	return append(buf, programData.Bytes()...)
}

func programDataAccount(slot uint64) []byte {
	buf := binary.LittleEndian.AppendUint32(nil, loaderTagProgramData)
	buf = binary.LittleEndian.AppendUint64(buf, slot)
	return append(buf, 0)
}

func TestParseLoaderAccounts(t *testing.T) {
	pd := solana.NewWallet().PublicKey()
	got, err := ParseProgramAccount(programAccount(pd))
	require.NoError(t, err)
	assert.True(t, got.Equals(pd))

	slot, err := ParseProgramDataSlot(programDataAccount(123_456))
	require.NoError(t, err)
	assert.Equal(t, uint64(123_456), slot)

	_, err = ParseProgramAccount(programDataAccount(1))
	assert.Error(t, err)
	_, err = ParseProgramDataSlot(programAccount(pd))
	assert.Error(t, err)
	_, err = ParseProgramDataSlot([]byte{3, 0})
	assert.Error(t, err)
}

func TestRefreshLoadsEpochAndSlots(t *testing.T) {
	program := solana.NewWallet().PublicKey()
	programData := solana.NewWallet().PublicKey()
	api := &fakeRPC{
		epoch: 512,
		accounts: map[solana.PublicKey][]byte{
			program:     programAccount(programData),
			programData: programDataAccount(9_000),
		},
	}
	c := NewClientWithRPC(api, "")

	lido := solana.NewWallet().PublicKey()
	other := solana.NewWallet().PublicKey()
	s := &pool.State{Assets: []pool.Asset{
		{Record: model.AssetRecord{Mint: solana.NewWallet().PublicKey()}, Valuation: calculator.Record{Kind: calculator.KindWsol}},
		{Record: model.AssetRecord{Mint: lido}, Valuation: calculator.Record{Kind: calculator.KindLido, DeployedSlot: 1}},
		{Record: model.AssetRecord{Mint: other}, Valuation: calculator.Record{Kind: calculator.KindMarinade, DeployedSlot: 7}},
	}}

	src := Sources{StakePrograms: map[solana.PublicKey]solana.PublicKey{lido: program}}
	require.NoError(t, c.Refresh(context.Background(), s, src, zaptest.NewLogger(t)))

	assert.Equal(t, uint64(512), s.Env.CurrentEpoch)
	assert.Equal(t, uint64(9_000), s.Assets[1].Valuation.DeployedSlot)
	assert.Equal(t, uint64(7), s.Assets[2].Valuation.DeployedSlot)

	// cached on the second lookup
	before := api.lookups
	slot, err := c.DeployedSlot(context.Background(), program)
	require.NoError(t, err)
	assert.Equal(t, uint64(9_000), slot)
	assert.Equal(t, before, api.lookups)
}

func TestRefreshFailsOnMissingProgram(t *testing.T) {
	lido := solana.NewWallet().PublicKey()
	c := NewClientWithRPC(&fakeRPC{accounts: map[solana.PublicKey][]byte{}}, "confirmed")
	s := &pool.State{Assets: []pool.Asset{
		{Record: model.AssetRecord{Mint: lido}, Valuation: calculator.Record{Kind: calculator.KindLido}},
	}}
	src := Sources{StakePrograms: map[solana.PublicKey]solana.PublicKey{lido: solana.NewWallet().PublicKey()}}
	err := c.Refresh(context.Background(), s, src, nil)
	assert.Error(t, err)

	src = Sources{RateAccounts: map[solana.PublicKey]solana.PublicKey{lido: solana.NewWallet().PublicKey()}}
	err = c.Refresh(context.Background(), s, src, nil)
	assert.Error(t, err)
}

type stakePoolFixture struct {
	totalLamports, poolTokenSupply, lastUpdateEpoch uint64
	feeNum, feeDenom                               uint64
	nextFeeTag                                     uint8
	preferredDeposit                               bool
}

func stakePoolAccount(f stakePoolFixture) []byte {
	buf := []byte{splAccountTypeStakePool}
	buf = append(buf, make([]byte, 3*solana.PublicKeyLength+1+5*solana.PublicKeyLength)...)
	buf = binary.LittleEndian.AppendUint64(buf, f.totalLamports)
	buf = binary.LittleEndian.AppendUint64(buf, f.poolTokenSupply)
	buf = binary.LittleEndian.AppendUint64(buf, f.lastUpdateEpoch)
	buf = append(buf, make([]byte, lockupSize+feeSize)...)
	buf = append(buf, f.nextFeeTag)
	if f.nextFeeTag != 0 {
		buf = append(buf, make([]byte, feeSize)...)
	}
	if f.preferredDeposit {
		buf = append(buf, 1)
		buf = append(buf, solana.NewWallet().PublicKey().Bytes()...)
	} else {
		buf = append(buf, 0)
	}
	buf = append(buf, 0)
	buf = append(buf, make([]byte, feeSize)...)
	buf = binary.LittleEndian.AppendUint64(buf, f.feeDenom)
	buf = binary.LittleEndian.AppendUint64(buf, f.feeNum)
	// trailing fields are not read
	return append(buf, make([]byte, 64)...)
}

func lidoAccount(epoch, stSolSupply, solBalance uint64) []byte {
	buf := []byte{1, 0}
	buf = append(buf, make([]byte, 2*solana.PublicKeyLength)...)
	buf = binary.LittleEndian.AppendUint64(buf, epoch)
	buf = binary.LittleEndian.AppendUint64(buf, stSolSupply)
	buf = binary.LittleEndian.AppendUint64(buf, solBalance)
	return append(buf, make([]byte, 32)...)
}

const marinadePriceOffset = 512

func marinadeAccount(price uint64, paused bool, withPause bool) []byte {
	buf := make([]byte, marinadePriceOffset)
	buf = binary.LittleEndian.AppendUint64(buf, price)
	if !withPause {
		return buf
	}
	buf = append(buf, make([]byte, 7*8+solana.PublicKeyLength)...)
	if paused {
		return append(buf, 1)
	}
	return append(buf, 0)
}

func TestParseStakePool(t *testing.T) {
	want := calculator.StakePool{
		TotalLamports:           2_000,
		PoolTokenSupply:         1_000,
		LastUpdateEpoch:         512,
		StakeWithdrawalFeeNum:   1,
		StakeWithdrawalFeeDenom: 1_000,
	}
	for _, tag := range []uint8{0, 1, 2} {
		got, err := ParseStakePool(stakePoolAccount(stakePoolFixture{
			totalLamports: 2_000, poolTokenSupply: 1_000, lastUpdateEpoch: 512,
			feeNum: 1, feeDenom: 1_000, nextFeeTag: tag, preferredDeposit: tag == 2,
		}))
		require.NoError(t, err, "next fee tag %d", tag)
		assert.Equal(t, want, got)
	}

	bad := stakePoolAccount(stakePoolFixture{nextFeeTag: 0})
	bad[0] = 2
	_, err := ParseStakePool(bad)
	assert.Error(t, err)

	bad = stakePoolAccount(stakePoolFixture{nextFeeTag: 0})
	bad[1+3*solana.PublicKeyLength+1+5*solana.PublicKeyLength+24+lockupSize+feeSize] = 7
	_, err = ParseStakePool(bad)
	assert.Error(t, err)

	_, err = ParseStakePool(stakePoolAccount(stakePoolFixture{})[:300])
	assert.Error(t, err)
}

func TestParseLidoAndMarinade(t *testing.T) {
	rate, err := ParseLidoRate(lidoAccount(512, 2_000, 3_000))
	require.NoError(t, err)
	assert.Equal(t, calculator.LidoRate{ComputedInEpoch: 512, StSolSupply: 2_000, SolBalance: 3_000}, rate)
	_, err = ParseLidoRate(make([]byte, 70))
	assert.Error(t, err)

	st, err := ParseMarinadeState(marinadeAccount(3<<31, true, true))
	require.NoError(t, err)
	assert.Equal(t, uint64(3<<31), st.MsolPrice)
	assert.True(t, st.Paused.Bool())

	st, err = ParseMarinadeState(marinadeAccount(3<<31, false, false))
	require.NoError(t, err)
	assert.False(t, st.Paused.Bool())

	_, err = ParseMarinadeState(make([]byte, marinadePriceOffset+4))
	assert.Error(t, err)
}

func TestRefreshMakesAddedAssetsUsable(t *testing.T) {
	ctx := context.Background()
	engine := pool.NewEngine(pool.Config{}, zaptest.NewLogger(t))
	admin := solana.NewWallet().PublicKey()
	signers := []solana.PublicKey{admin}

	s, _, err := engine.Apply(&pool.State{}, instruction.Initialize{
		PricingProgram: solana.NewWallet().PublicKey(),
		LpTokenMint:    solana.NewWallet().PublicKey(),
	}, signers)
	require.NoError(t, err)

	kinds := []calculator.Kind{calculator.KindSplStakePool, calculator.KindLido, calculator.KindMarinade}
	api := &fakeRPC{epoch: 512, accounts: map[solana.PublicKey][]byte{}}
	src := Sources{
		StakePrograms: map[solana.PublicKey]solana.PublicKey{},
		RateAccounts:  map[solana.PublicKey]solana.PublicKey{},
	}
	rateAccounts := make([]solana.PublicKey, len(kinds))
	for i, kind := range kinds {
		mint := solana.NewWallet().PublicKey()
		s, _, err = engine.Apply(s, instruction.AddAsset{
			Mint:           mint,
			CalculatorKind: uint8(kind),
			Calculator:     solana.NewWallet().PublicKey(),
		}, signers)
		require.NoError(t, err)

		program := solana.NewWallet().PublicKey()
		programData := solana.NewWallet().PublicKey()
		api.accounts[program] = programAccount(programData)
		api.accounts[programData] = programDataAccount(uint64(100 + i))
		src.StakePrograms[mint] = program
		rateAccounts[i] = solana.NewWallet().PublicKey()
		src.RateAccounts[mint] = rateAccounts[i]
	}
	api.accounts[rateAccounts[0]] = stakePoolAccount(stakePoolFixture{
		totalLamports: 2_000, poolTokenSupply: 1_000, lastUpdateEpoch: 512, feeNum: 1, feeDenom: 1_000,
	})
	api.accounts[rateAccounts[1]] = lidoAccount(512, 2_000, 3_000)
	api.accounts[rateAccounts[2]] = marinadeAccount(3<<31, false, true)

	c := NewClientWithRPC(api, "")
	require.NoError(t, c.Refresh(ctx, s, src, zaptest.NewLogger(t)))

	for i := range kinds {
		s, _, err = engine.Apply(s, instruction.UpdateLastUpgradeSlot{Index: uint32(i)}, signers)
		require.NoError(t, err)
		s.Assets[i].Reserves = 1_000
		s, _, err = engine.Apply(s, instruction.SyncValue{Index: uint32(i)}, signers)
		require.NoError(t, err, "sync %s", kinds[i])
	}
	assert.Equal(t, uint64(1_998), s.Assets[0].Record.CommonValue)
	assert.Equal(t, uint64(1_500), s.Assets[1].Record.CommonValue)
	assert.Equal(t, uint64(1_500), s.Assets[2].Record.CommonValue)
	assert.Equal(t, uint64(4_998), s.Pool.TotalValue)

	// a new epoch needs fresh rates
	api.epoch = 513
	api.accounts[rateAccounts[1]] = lidoAccount(512, 2_000, 3_000)
	require.NoError(t, c.Refresh(ctx, s, src, nil))
	_, _, err = engine.Apply(s, instruction.SyncValue{Index: 1}, signers)
	assert.True(t, errors.Is(err, calculator.ErrExchangeRateNotUpdated), "got %v", err)

	api.accounts[rateAccounts[1]] = lidoAccount(513, 2_000, 4_000)
	require.NoError(t, c.Refresh(ctx, s, src, nil))
	s, _, err = engine.Apply(s, instruction.SyncValue{Index: 1}, signers)
	require.NoError(t, err)
	assert.Equal(t, uint64(2_000), s.Assets[1].Record.CommonValue)
}
