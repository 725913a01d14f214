package pool

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"lstpool/internal/calculator"
	"lstpool/internal/instruction"
)

type fixture struct {
	t      *testing.T
	engine *Engine
	state  *State
	admin  solana.PublicKey
	user   solana.PublicKey
}

// newFixture builds an initialized pool with one 1:1 asset per reserve
// balance, each already synced.
func newFixture(t *testing.T, cfg Config, reserves ...uint64) *fixture {
	t.Helper()
	f := &fixture{
		t:      t,
		engine: NewEngine(cfg, zaptest.NewLogger(t)),
		state:  &State{},
		admin:  solana.NewWallet().PublicKey(),
		user:   solana.NewWallet().PublicKey(),
	}
	f.apply(f.admin, instruction.Initialize{
		PricingProgram: solana.NewWallet().PublicKey(),
		LpTokenMint:    solana.NewWallet().PublicKey(),
	})
	for _, r := range reserves {
		f.addAsset(calculator.KindWsol, r)
	}
	return f
}

func (f *fixture) addAsset(kind calculator.Kind, reserves uint64) uint32 {
	f.t.Helper()
	f.apply(f.admin, instruction.AddAsset{
		Mint:           solana.NewWallet().PublicKey(),
		CalculatorKind: uint8(kind),
		Calculator:     solana.NewWallet().PublicKey(),
	})
	index := uint32(len(f.state.Assets) - 1)
	if reserves > 0 {
		f.state.Assets[index].Reserves = reserves
		f.apply(f.user, instruction.SyncValue{Index: index})
	}
	return index
}

func (f *fixture) apply(signer solana.PublicKey, ins instruction.Instruction) Delta {
	f.t.Helper()
	next, delta, err := f.engine.Apply(f.state, ins, []solana.PublicKey{signer})
	require.NoError(f.t, err, ins.Discriminant().String())
	f.state = next
	return delta
}

// try applies ins and keeps the result only on success.
func (f *fixture) try(signer solana.PublicKey, ins instruction.Instruction) error {
	f.t.Helper()
	next, _, err := f.engine.Apply(f.state, ins, []solana.PublicKey{signer})
	if err == nil {
		f.state = next
	}
	return err
}
