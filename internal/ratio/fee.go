package ratio

// AmtsAfterFee is the result of charging a fee on an amount.
type AmtsAfterFee struct {
	AmtAfterFee uint64 `json:"amt_after_fee"`
	FeesCharged uint64 `json:"fees_charged"`
}

// FeeFloor charges floor(amount * Num / Denom) as a fee. A zero Num or a zero
// Denom means no fee. Num must not exceed Denom.
type FeeFloor struct {
	Num   uint64
	Denom uint64
}

// IsZero reports whether the fee charges nothing.
func (f FeeFloor) IsZero() bool {
	return f.Num == 0 || f.Denom == 0
}

// IsValid reports whether the fee is at most 100%.
func (f FeeFloor) IsValid() bool {
	return f.Num <= f.Denom
}

// Apply charges the fee on amount.
func (f FeeFloor) Apply(amount uint64) (AmtsAfterFee, error) {
	if f.IsZero() {
		return AmtsAfterFee{AmtAfterFee: amount}, nil
	}
	if !f.IsValid() {
		return AmtsAfterFee{}, ErrOutOfBoundFee.Wrapf("fee %d/%d exceeds 100%%", f.Num, f.Denom)
	}
	charged, err := RatioFloor{Num: f.Num, Denom: f.Denom}.Apply(amount)
	if err != nil {
		return AmtsAfterFee{}, err
	}
	after, err := SubU64(amount, charged)
	if err != nil {
		return AmtsAfterFee{}, err
	}
	return AmtsAfterFee{AmtAfterFee: after, FeesCharged: charged}, nil
}

// PseudoReverse returns the largest amount that Apply maps to at most
// amtAfterFee. Applying the fee to the result yields amtAfterFee exactly.
func (f FeeFloor) PseudoReverse(amtAfterFee uint64) (uint64, error) {
	if f.IsZero() {
		return amtAfterFee, nil
	}
	if !f.IsValid() {
		return 0, ErrOutOfBoundFee.Wrapf("fee %d/%d exceeds 100%%", f.Num, f.Denom)
	}
	if f.Num == f.Denom {
		// 100% fee: every amount maps to zero
		return 0, ErrMath.Wrap("cannot reverse a 100% fee")
	}
	return mulDiv(amtAfterFee, f.Denom, f.Denom-f.Num)
}
