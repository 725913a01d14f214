package pool

import (
	"github.com/gagliardetto/solana-go"

	"lstpool/internal/accounts"
	"lstpool/internal/instruction"
)

// expectedAccounts lists the accounts ins must declare, in order. Slots that
// refer to an out-of-range index are left out; the operation itself reports
// the bad index.
func (e *Engine) expectedAccounts(s *State, ins instruction.Instruction) ([]accounts.Expected, error) {
	program := e.cfg.ProgramID
	state, err := accounts.PoolState(program)
	if err != nil {
		return nil, err
	}
	list, err := accounts.AssetList(program)
	if err != nil {
		return nil, err
	}

	var out []accounts.Expected
	if _, ok := ins.(instruction.SyncValue); !ok {
		out = append(out, accounts.Expected{Name: "signer", Signer: true})
	}
	out = append(out,
		accounts.Expected{Name: "pool_state", Key: state.Key, Writable: true},
		accounts.Expected{Name: "asset_list", Key: list.Key, Writable: true},
	)

	b := slotBuilder{program: program, state: s}
	switch v := ins.(type) {
	case instruction.SyncValue:
		b.reserves("reserves", v.Index, false)
	case instruction.SwapExactIn:
		b.swap(v.Swap)
	case instruction.SwapExactOut:
		b.swap(v.Swap)
	case instruction.AddLiquidity:
		b.reserves("reserves", v.Index, true)
	case instruction.RemoveLiquidity:
		b.reserves("reserves", v.Index, true)
		b.feeAccumulator(v.Index)
	case instruction.StartRebalance:
		b.rebalanceRecord()
		b.reserves("src_reserves", v.SrcIndex, true)
		b.reserves("dst_reserves", v.DstIndex, false)
	case instruction.EndRebalance:
		b.rebalanceRecord()
		if s.Rebalance != nil {
			b.reserves("dst_reserves", s.Rebalance.DstIndex, true)
		}
	case instruction.WithdrawProtocolFees:
		b.feeAccumulator(v.Index)
	case instruction.AddAsset:
		b.mintAccounts(v.Mint)
	case instruction.RemoveAsset:
		if int(v.Index) < len(s.Assets) {
			b.mintAccounts(s.Assets[v.Index].Record.Mint)
		}
	}
	if b.err != nil {
		return nil, b.err
	}
	return append(out, b.slots...), nil
}

type slotBuilder struct {
	program solana.PublicKey
	state   *State
	slots   []accounts.Expected
	err     error
}

func (b *slotBuilder) add(name string, d accounts.Derived, err error, writable bool) {
	if b.err != nil {
		return
	}
	if err != nil {
		b.err = err
		return
	}
	b.slots = append(b.slots, accounts.Expected{Name: name, Key: d.Key, Writable: writable})
}

func (b *slotBuilder) mint(index uint32) (solana.PublicKey, bool) {
	if int64(index) >= int64(len(b.state.Assets)) {
		return solana.PublicKey{}, false
	}
	return b.state.Assets[index].Record.Mint, true
}

func (b *slotBuilder) reserves(name string, index uint32, writable bool) {
	if mint, ok := b.mint(index); ok {
		d, err := accounts.Reserves(b.program, mint)
		b.add(name, d, err, writable)
	}
}

func (b *slotBuilder) feeAccumulator(index uint32) {
	if mint, ok := b.mint(index); ok {
		d, err := accounts.ProtocolFeeAccumulator(b.program, mint)
		b.add("protocol_fee_accumulator", d, err, true)
	}
}

func (b *slotBuilder) swap(v instruction.Swap) {
	b.reserves("src_reserves", v.SrcIndex, true)
	b.reserves("dst_reserves", v.DstIndex, true)
	b.feeAccumulator(v.DstIndex)
}

func (b *slotBuilder) rebalanceRecord() {
	d, err := accounts.RebalanceRecord(b.program)
	b.add("rebalance_record", d, err, true)
}

func (b *slotBuilder) mintAccounts(mint solana.PublicKey) {
	d, err := accounts.Reserves(b.program, mint)
	b.add("reserves", d, err, true)
	d, err = accounts.ProtocolFeeAccumulator(b.program, mint)
	b.add("protocol_fee_accumulator", d, err, true)
}

// AccountMetas builds the account list ins expects, with signer in the signer
// slot.
func (e *Engine) AccountMetas(s *State, ins instruction.Instruction, signer solana.PublicKey) ([]*solana.AccountMeta, error) {
	expected, err := e.expectedAccounts(s, ins)
	if err != nil {
		return nil, err
	}
	metas := make([]*solana.AccountMeta, len(expected))
	for i, exp := range expected {
		key := exp.Key
		if key.IsZero() {
			key = signer
		}
		metas[i] = &solana.AccountMeta{PublicKey: key, IsSigner: exp.Signer, IsWritable: exp.Writable}
	}
	return metas, nil
}
