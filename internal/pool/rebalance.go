package pool

import (
	"lstpool/internal/auth"
	"lstpool/internal/model"
	"lstpool/internal/ratio"
)

// StartRebalance snapshots the pool value and lends amount of src reserves to
// the rebalance authority. The loan must be repaid in dst by EndRebalance.
func (s *State) StartRebalance(c auth.Capability, srcIndex, dstIndex uint32, amount uint64) (Delta, error) {
	if err := c.Holds(auth.RoleRebalanceAuthority, s.Pool.RebalanceAuthority); err != nil {
		return Delta{}, err
	}
	if err := s.requireIdle("start_rebalance"); err != nil {
		return Delta{}, err
	}
	if err := s.requireEnabled("start_rebalance"); err != nil {
		return Delta{}, err
	}
	if srcIndex == dstIndex {
		return Delta{}, model.ErrUnsupportedAsset.Wrapf("start_rebalance: source and destination are both %d", srcIndex)
	}
	src, err := s.asset(srcIndex)
	if err != nil {
		return Delta{}, err
	}
	dst, err := s.inputAsset(dstIndex)
	if err != nil {
		return Delta{}, err
	}
	if amount == 0 {
		return Delta{}, model.ErrZeroValue.Wrap("start_rebalance: zero amount")
	}
	if err := s.syncPair(srcIndex, dstIndex); err != nil {
		return Delta{}, err
	}
	snapshot := s.Pool.TotalValue
	left, err := ratio.SubU64(src.Reserves, amount)
	if err != nil {
		return Delta{}, model.ErrMath.Wrapf("source reserves %d cannot cover %d", src.Reserves, amount)
	}
	src.Reserves = left
	if err := s.SyncValue(srcIndex); err != nil {
		return Delta{}, err
	}
	s.Rebalance = &model.RebalanceRecord{OldTotalValue: snapshot, DstIndex: dstIndex}
	s.Pool.IsRebalancing.SetTrue()
	return Delta{
		SrcMint:   src.Record.Mint,
		DstMint:   dst.Record.Mint,
		AmountOut: amount,
	}, nil
}

// EndRebalance deposits amount into the destination asset and closes the
// rebalance. It fails if the pool lost more than tolerance in value since
// StartRebalance.
func (s *State) EndRebalance(c auth.Capability, amount, tolerance uint64) (Delta, error) {
	if err := c.Holds(auth.RoleRebalanceAuthority, s.Pool.RebalanceAuthority); err != nil {
		return Delta{}, err
	}
	if !s.Active() {
		return Delta{}, model.ErrStateConflict.Wrap("end_rebalance: no rebalance in progress")
	}
	dstIndex := s.Rebalance.DstIndex
	dst, err := s.asset(dstIndex)
	if err != nil {
		return Delta{}, err
	}
	reserves, err := ratio.AddU64(dst.Reserves, amount)
	if err != nil {
		return Delta{}, err
	}
	dst.Reserves = reserves
	if err := s.SyncValue(dstIndex); err != nil {
		return Delta{}, err
	}
	floor := saturatingSub(s.Rebalance.OldTotalValue, tolerance)
	if s.Pool.TotalValue < floor {
		return Delta{}, model.ErrStateConflict.Wrapf("pool value fell from %d to %d (tolerance %d)", s.Rebalance.OldTotalValue, s.Pool.TotalValue, tolerance)
	}
	s.Rebalance = nil
	s.Pool.IsRebalancing.SetFalse()
	return Delta{
		DstMint:  dst.Record.Mint,
		AmountIn: amount,
	}, nil
}
