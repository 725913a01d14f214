package pool

import (
	"lstpool/internal/model"
	"lstpool/internal/pricing"
	"lstpool/internal/ratio"
)

// AddLiquidity deposits amount of the asset and mints LP tokens pro rata to
// the value contributed, rounding down. An empty pool mints 1:1 with value.
func (s *State) AddLiquidity(index uint32, amount, minLpOut uint64) (Delta, error) {
	if err := s.requireEnabled("add_liquidity"); err != nil {
		return Delta{}, err
	}
	a, err := s.inputAsset(index)
	if err != nil {
		return Delta{}, err
	}
	if err := s.SyncValue(index); err != nil {
		return Delta{}, err
	}
	calc, err := s.calculatorOf(a)
	if err != nil {
		return Delta{}, err
	}
	value, err := calc.ToCommonValue(amount)
	if err != nil {
		return Delta{}, err
	}
	value, err = pricing.PriceLpTokensToMint(value)
	if err != nil {
		return Delta{}, err
	}
	minted := value
	if s.LpSupply != 0 && s.Pool.TotalValue != 0 {
		minted, err = ratio.RatioFloor{Num: s.LpSupply, Denom: s.Pool.TotalValue}.Apply(value)
		if err != nil {
			return Delta{}, err
		}
	}
	if minted == 0 {
		return Delta{}, model.ErrZeroValue.Wrapf("add_liquidity: %d mints no LP tokens", amount)
	}
	if minted < minLpOut {
		return Delta{}, model.ErrSlippageToleranceExceeded.Wrapf("minted %d < min %d", minted, minLpOut)
	}
	reserves, err := ratio.AddU64(a.Reserves, amount)
	if err != nil {
		return Delta{}, err
	}
	supply, err := ratio.AddU64(s.LpSupply, minted)
	if err != nil {
		return Delta{}, err
	}
	a.Reserves = reserves
	s.LpSupply = supply
	if err := s.SyncValue(index); err != nil {
		return Delta{}, err
	}
	return Delta{
		SrcMint:  a.Record.Mint,
		AmountIn: amount,
		LpMinted: minted,
	}, nil
}

// RemoveLiquidity burns lpAmount and pays out the proportional value in the
// asset, less the LP withdrawal fee. The protocol share of that fee goes to
// the asset's fee accumulator.
func (s *State) RemoveLiquidity(index uint32, lpAmount, minOut uint64) (Delta, error) {
	if err := s.requireEnabled("remove_liquidity"); err != nil {
		return Delta{}, err
	}
	a, err := s.asset(index)
	if err != nil {
		return Delta{}, err
	}
	if lpAmount == 0 {
		return Delta{}, model.ErrZeroValue.Wrap("remove_liquidity: zero LP tokens")
	}
	if lpAmount > s.LpSupply {
		return Delta{}, model.ErrMath.Wrapf("burn %d exceeds supply %d", lpAmount, s.LpSupply)
	}
	if err := s.SyncValue(index); err != nil {
		return Delta{}, err
	}
	calc, err := s.calculatorOf(a)
	if err != nil {
		return Delta{}, err
	}
	value, err := ratio.RatioFloor{Num: s.Pool.TotalValue, Denom: s.LpSupply}.Apply(lpAmount)
	if err != nil {
		return Delta{}, err
	}
	afterFee, err := s.Pricing.PriceLpTokensToRedeem(value)
	if err != nil {
		return Delta{}, err
	}
	protocolValue, err := bpsOf(saturatingSub(value, afterFee), s.Pool.LpProtocolFeeBps)
	if err != nil {
		return Delta{}, err
	}
	out, err := calc.ToNativeAmount(afterFee)
	if err != nil {
		return Delta{}, err
	}
	if out == 0 {
		return Delta{}, model.ErrZeroValue.Wrapf("remove_liquidity: %d LP tokens redeem nothing", lpAmount)
	}
	if out < minOut {
		return Delta{}, model.ErrSlippageToleranceExceeded.Wrapf("out %d < min %d", out, minOut)
	}
	protocolFee, err := calc.ToNativeAmount(protocolValue)
	if err != nil {
		return Delta{}, err
	}
	outflow, err := ratio.AddU64(out, protocolFee)
	if err != nil {
		return Delta{}, err
	}
	left, err := ratio.SubU64(a.Reserves, outflow)
	if err != nil {
		return Delta{}, model.ErrMath.Wrapf("reserves %d cannot cover %d", a.Reserves, outflow)
	}
	fees, err := ratio.AddU64(a.ProtocolFees, protocolFee)
	if err != nil {
		return Delta{}, err
	}
	a.Reserves = left
	a.ProtocolFees = fees
	s.LpSupply -= lpAmount
	if err := s.SyncValue(index); err != nil {
		return Delta{}, err
	}
	return Delta{
		DstMint:     a.Record.Mint,
		AmountOut:   out,
		ProtocolFee: protocolFee,
		LpBurned:    lpAmount,
	}, nil
}
