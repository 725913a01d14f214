package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lstpool/internal/calculator"
	"lstpool/internal/model"
	"lstpool/internal/pool"
)

func TestJsonlRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "deltas.jsonl")
	s := NewJsonlStorage(path)

	batch := []model.DeltaRecord{
		{Seq: 1, Operation: "swap_exact_in", Status: model.DeltaStatusApplied, AmountIn: 10, AmountOut: 9},
		{Seq: 2, Operation: "end_rebalance", Status: model.DeltaStatusRejected, Error: "state conflict"},
	}
	require.NoError(t, s.PutDeltaBatch(context.Background(), batch[:1]))
	require.NoError(t, s.PutDeltaBatch(context.Background(), batch[1:]))
	require.NoError(t, s.PutDeltaBatch(context.Background(), nil))

	var got []model.DeltaRecord
	require.NoError(t, ReadJSONL(path, func(r model.DeltaRecord) error {
		got = append(got, r)
		return nil
	}))
	assert.Equal(t, batch, got)
}

func TestReadJSONLStopsOnCallbackError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deltas.jsonl")
	s := NewJsonlStorage(path)
	require.NoError(t, s.PutDeltaBatch(context.Background(), []model.DeltaRecord{{Seq: 1}, {Seq: 2}}))

	stop := errors.New("stop")
	calls := 0
	err := ReadJSONL(path, func(model.DeltaRecord) error {
		calls++
		return stop
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, calls)
}

type failing struct{ err error }

func (f failing) PutDeltaBatch(context.Context, []model.DeltaRecord) error { return f.err }

func TestMultiJoinsErrors(t *testing.T) {
	boom := errors.New("boom")
	path := filepath.Join(t.TempDir(), "deltas.jsonl")
	m := Multi{failing{boom}, NewJsonlStorage(path)}

	err := m.PutDeltaBatch(context.Background(), []model.DeltaRecord{{Seq: 1}})
	assert.ErrorIs(t, err, boom)

	n := 0
	require.NoError(t, ReadJSONL(path, func(model.DeltaRecord) error { n++; return nil }))
	assert.Equal(t, 1, n)
}

func TestPoolStateFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "pool.json")

	empty, err := LoadPoolState(path)
	require.NoError(t, err)
	assert.False(t, empty.Initialized())

	admin := solana.NewWallet().PublicKey()
	s := &pool.State{
		Pool:     model.NewPoolState(admin, solana.NewWallet().PublicKey(), solana.NewWallet().PublicKey()),
		LpSupply: 42,
		Assets: []pool.Asset{{
			Record:   model.AssetRecord{Mint: solana.NewWallet().PublicKey(), CalculatorKind: uint8(calculator.KindLido)},
			Reserves: 7,
			Valuation: calculator.Record{
				Kind: calculator.KindLido,
				Lido: &calculator.LidoRate{ComputedInEpoch: 3, StSolSupply: 10, SolBalance: 11},
			},
		}},
		Rebalance: &model.RebalanceRecord{OldTotalValue: 9, DstIndex: 0},
		Env:       calculator.Env{CurrentEpoch: 3},
	}
	require.NoError(t, SavePoolState(path, s))

	got, err := LoadPoolState(path)
	require.NoError(t, err)
	assert.Equal(t, s, got)
}

func TestFileProgressKeepsNamedCursors(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "progress", "progress.json")
	store := &FileProgress{Path: path}

	_, ok, err := store.LoadState(ctx, "replay")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.SaveState(ctx, "replay", 9))
	require.NoError(t, store.SaveState(ctx, "aggregate_300s", 1_700_000_000))
	require.NoError(t, store.SaveState(ctx, "replay", 12))

	reopened := &FileProgress{Path: path}
	pos, ok, err := reopened.LoadState(ctx, "replay")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, uint64(12), pos)

	pos, ok, err = reopened.LoadState(ctx, "aggregate_300s")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, uint64(1_700_000_000), pos)
}

func TestCursorWithoutStore(t *testing.T) {
	var c Cursor
	require.NoError(t, c.Save(context.Background(), 5))
	_, ok, err := c.Load(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}
