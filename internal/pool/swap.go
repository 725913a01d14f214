package pool

import (
	"lstpool/internal/calculator"
	"lstpool/internal/model"
	"lstpool/internal/pricing"
	"lstpool/internal/ratio"
)

type swapLegs struct {
	src, dst         *Asset
	srcCalc, dstCalc calculator.Calculator
}

func (s *State) prepareSwap(op string, srcIndex, dstIndex uint32, amount uint64) (swapLegs, error) {
	if err := s.requireEnabled(op); err != nil {
		return swapLegs{}, err
	}
	if srcIndex == dstIndex {
		return swapLegs{}, model.ErrUnsupportedAsset.Wrapf("%s: source and destination are both %d", op, srcIndex)
	}
	src, err := s.inputAsset(srcIndex)
	if err != nil {
		return swapLegs{}, err
	}
	dst, err := s.inputAsset(dstIndex)
	if err != nil {
		return swapLegs{}, err
	}
	if amount == 0 {
		return swapLegs{}, model.ErrZeroValue.Wrapf("%s: zero amount", op)
	}
	if err := s.syncPair(srcIndex, dstIndex); err != nil {
		return swapLegs{}, err
	}
	srcCalc, err := s.calculatorOf(src)
	if err != nil {
		return swapLegs{}, err
	}
	dstCalc, err := s.calculatorOf(dst)
	if err != nil {
		return swapLegs{}, err
	}
	return swapLegs{src: src, dst: dst, srcCalc: srcCalc, dstCalc: dstCalc}, nil
}

// settle moves amountIn into src reserves and amountOut plus the protocol
// share of feeValue out of dst reserves, then resyncs both assets.
func (s *State) settle(l swapLegs, srcIndex, dstIndex uint32, amountIn, amountOut, feeValue uint64) (uint64, error) {
	protocolValue, err := bpsOf(feeValue, s.Pool.TradingProtocolFeeBps)
	if err != nil {
		return 0, err
	}
	protocolFee, err := l.dstCalc.ToNativeAmount(protocolValue)
	if err != nil {
		return 0, err
	}
	outflow, err := ratio.AddU64(amountOut, protocolFee)
	if err != nil {
		return 0, err
	}
	left, err := ratio.SubU64(l.dst.Reserves, outflow)
	if err != nil {
		return 0, model.ErrMath.Wrapf("destination reserves %d cannot cover %d", l.dst.Reserves, outflow)
	}
	in, err := ratio.AddU64(l.src.Reserves, amountIn)
	if err != nil {
		return 0, err
	}
	fees, err := ratio.AddU64(l.dst.ProtocolFees, protocolFee)
	if err != nil {
		return 0, err
	}
	l.src.Reserves = in
	l.dst.Reserves = left
	l.dst.ProtocolFees = fees
	if err := s.syncPair(srcIndex, dstIndex); err != nil {
		return 0, err
	}
	return protocolFee, nil
}

// SwapExactIn swaps amount of src for at least minOut of dst.
func (s *State) SwapExactIn(srcIndex, dstIndex uint32, amount, minOut uint64) (Delta, error) {
	l, err := s.prepareSwap("swap_exact_in", srcIndex, dstIndex, amount)
	if err != nil {
		return Delta{}, err
	}
	inValue, err := l.srcCalc.ToCommonValue(amount)
	if err != nil {
		return Delta{}, err
	}
	outValue, err := pricing.PriceExactIn(inValue, feeAccount(l.src), feeAccount(l.dst))
	if err != nil {
		return Delta{}, err
	}
	amountOut, err := l.dstCalc.ToNativeAmount(outValue)
	if err != nil {
		return Delta{}, err
	}
	if amountOut == 0 {
		return Delta{}, model.ErrZeroValue.Wrap("swap_exact_in: nothing out")
	}
	if amountOut < minOut {
		return Delta{}, model.ErrSlippageToleranceExceeded.Wrapf("out %d < min %d", amountOut, minOut)
	}
	feeValue := saturatingSub(inValue, outValue)
	protocolFee, err := s.settle(l, srcIndex, dstIndex, amount, amountOut, feeValue)
	if err != nil {
		return Delta{}, err
	}
	return Delta{
		SrcMint:     l.src.Record.Mint,
		DstMint:     l.dst.Record.Mint,
		AmountIn:    amount,
		AmountOut:   amountOut,
		ProtocolFee: protocolFee,
	}, nil
}

// SwapExactOut swaps at most maxIn of src for exactly amount of dst.
func (s *State) SwapExactOut(srcIndex, dstIndex uint32, amount, maxIn uint64) (Delta, error) {
	l, err := s.prepareSwap("swap_exact_out", srcIndex, dstIndex, amount)
	if err != nil {
		return Delta{}, err
	}
	outValue, err := l.dstCalc.ToCommonValue(amount)
	if err != nil {
		return Delta{}, err
	}
	inValue, err := pricing.PriceExactOut(outValue, feeAccount(l.src), feeAccount(l.dst))
	if err != nil {
		return Delta{}, err
	}
	amountIn, err := nativeCovering(l.srcCalc, inValue)
	if err != nil {
		return Delta{}, err
	}
	if amountIn == 0 {
		return Delta{}, model.ErrZeroValue.Wrap("swap_exact_out: nothing in")
	}
	if amountIn > maxIn {
		return Delta{}, model.ErrSlippageToleranceExceeded.Wrapf("in %d > max %d", amountIn, maxIn)
	}
	feeValue := saturatingSub(inValue, outValue)
	protocolFee, err := s.settle(l, srcIndex, dstIndex, amountIn, amount, feeValue)
	if err != nil {
		return Delta{}, err
	}
	return Delta{
		SrcMint:     l.src.Record.Mint,
		DstMint:     l.dst.Record.Mint,
		AmountIn:    amountIn,
		AmountOut:   amount,
		ProtocolFee: protocolFee,
	}, nil
}

// nativeCovering returns a native amount worth at least value. Floor
// conversion can land one unit short; the extra unit goes to the pool.
func nativeCovering(c calculator.Calculator, value uint64) (uint64, error) {
	amount, err := c.ToNativeAmount(value)
	if err != nil {
		return 0, err
	}
	worth, err := c.ToCommonValue(amount)
	if err != nil {
		return 0, err
	}
	if worth >= value {
		return amount, nil
	}
	return ratio.AddU64(amount, 1)
}

func saturatingSub(a, b uint64) uint64 {
	if b > a {
		return 0
	}
	return a - b
}
