package pool

import (
	"errors"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lstpool/internal/instruction"
	"lstpool/internal/model"
)

func TestProcess(t *testing.T) {
	f := newFixture(t, Config{ProgramID: solana.NewWallet().PublicKey()}, 1_000, 1_000)
	ins := instruction.SwapExactIn{Swap: instruction.Swap{SrcIndex: 0, DstIndex: 1, Amount: 10}}
	data, err := instruction.Encode(ins)
	require.NoError(t, err)

	metas, err := f.engine.AccountMetas(f.state, ins, f.user)
	require.NoError(t, err)
	// signer, pool state, asset list, two reserves, fee accumulator
	require.Len(t, metas, 6)

	next, d, err := f.engine.Process(f.state, metas, data)
	require.NoError(t, err)
	assert.Equal(t, uint64(10), d.AmountOut)
	assert.Equal(t, uint64(1_010), next.Assets[0].Reserves)

	t.Run("wrong reserves", func(t *testing.T) {
		bad := append([]*solana.AccountMeta(nil), metas...)
		bad[3] = solana.Meta(solana.NewWallet().PublicKey()).WRITE()
		_, _, err := f.engine.Process(f.state, bad, data)
		assert.True(t, errors.Is(err, model.ErrIncorrectAccountIdentity), "got %v", err)
	})

	t.Run("read-only pool state", func(t *testing.T) {
		bad := append([]*solana.AccountMeta(nil), metas...)
		bad[1] = solana.Meta(metas[1].PublicKey)
		_, _, err := f.engine.Process(f.state, bad, data)
		assert.True(t, errors.Is(err, model.ErrMissingPrivilege), "got %v", err)
	})

	t.Run("unknown discriminant", func(t *testing.T) {
		_, _, err := f.engine.Process(f.state, metas, []byte{0xee})
		assert.True(t, errors.Is(err, model.ErrInvalidInstructionData))
	})
}

func TestProcessUsesSignerFlags(t *testing.T) {
	f := newFixture(t, Config{ProgramID: solana.NewWallet().PublicKey()}, 1_000, 1_000)
	ins := instruction.DisableInput{Index: 0}
	data, err := instruction.Encode(ins)
	require.NoError(t, err)

	metas, err := f.engine.AccountMetas(f.state, ins, f.user)
	require.NoError(t, err)
	_, _, err = f.engine.Process(f.state, metas, data)
	assert.True(t, errors.Is(err, model.ErrUnauthorized))

	metas, err = f.engine.AccountMetas(f.state, ins, f.admin)
	require.NoError(t, err)
	next, _, err := f.engine.Process(f.state, metas, data)
	require.NoError(t, err)
	assert.True(t, next.Assets[0].Record.IsInputDisabled.Bool())
}

func TestProcessSyncNeedsNoSigner(t *testing.T) {
	f := newFixture(t, Config{ProgramID: solana.NewWallet().PublicKey()}, 1_000)
	ins := instruction.SyncValue{Index: 0}
	data, err := instruction.Encode(ins)
	require.NoError(t, err)

	metas, err := f.engine.AccountMetas(f.state, ins, solana.PublicKey{})
	require.NoError(t, err)
	require.Len(t, metas, 3)
	for _, m := range metas {
		assert.False(t, m.IsSigner)
	}
	_, _, err = f.engine.Process(f.state, metas, data)
	require.NoError(t, err)
}
