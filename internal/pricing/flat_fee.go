// Package pricing is the flat-fee pricing module. Every quote is expressed in
// common value units; native amounts never reach this package.
package pricing

import (
	"lstpool/internal/ratio"
)

// PriceExactIn returns the output value for inValue of input. The charged fee
// is the input asset's input fee plus the output asset's output fee.
func PriceExactIn(inValue uint64, input, output FeeAccount) (uint64, error) {
	fee := int32(input.InputFeeBps) + int32(output.OutputFeeBps)
	if fee >= 0 {
		if fee > BpsDenominator {
			return 0, ratio.ErrMath.Wrapf("combined fee %d bps exceeds 100%%", fee)
		}
		res, err := ratio.FeeFloor{Num: uint64(fee), Denom: BpsDenominator}.Apply(inValue)
		if err != nil {
			return 0, err
		}
		return res.AmtAfterFee, nil
	}
	return ratio.RatioFloor{Num: uint64(BpsDenominator - fee), Denom: BpsDenominator}.Apply(inValue)
}

// PriceExactOut returns the input value required to receive outValue. With a
// fee this is the largest input PriceExactIn maps to outValue; with a premium
// it is the smallest input PriceExactIn maps to at least outValue.
func PriceExactOut(outValue uint64, input, output FeeAccount) (uint64, error) {
	fee := int32(input.InputFeeBps) + int32(output.OutputFeeBps)
	if fee >= 0 {
		if fee >= BpsDenominator {
			return 0, ratio.ErrMath.Wrapf("combined fee %d bps leaves nothing to receive", fee)
		}
		return ratio.FeeFloor{Num: uint64(fee), Denom: BpsDenominator}.PseudoReverse(outValue)
	}
	return ratio.MulDivCeil(outValue, BpsDenominator, uint64(BpsDenominator-fee))
}

// PriceLpTokensToMint returns the value credited for minting LP tokens. The
// flat-fee module charges nothing on deposits.
func PriceLpTokensToMint(value uint64) (uint64, error) {
	return value, nil
}

// PriceLpTokensToRedeem applies the LP withdrawal fee to value.
func (s ProgramState) PriceLpTokensToRedeem(value uint64) (uint64, error) {
	res, err := ratio.FeeFloor{Num: uint64(s.LpWithdrawalFeeBps), Denom: BpsDenominator}.Apply(value)
	if err != nil {
		return 0, err
	}
	return res.AmtAfterFee, nil
}
