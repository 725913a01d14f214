// Package ratio implements floor-rounded u64 ratio and fee arithmetic with
// 128-bit intermediates.
package ratio

import (
	"lukechampine.com/uint128"
)

// RatioFloor applies floor(amount * Num / Denom).
type RatioFloor struct {
	Num   uint64
	Denom uint64
}

// Apply returns floor(amount * Num / Denom). Denom must be nonzero and the
// result must fit in a u64.
func (r RatioFloor) Apply(amount uint64) (uint64, error) {
	if r.Denom == 0 {
		return 0, ErrMath.Wrap("zero denominator")
	}
	return mulDiv(amount, r.Num, r.Denom)
}

// IsOne reports whether the ratio is exactly 1.
func (r RatioFloor) IsOne() bool {
	return r.Denom != 0 && r.Num == r.Denom
}

func mulDiv(a, b, c uint64) (uint64, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	q, _ := uint128.From64(a).Mul64(b).QuoRem64(c)
	if q.Hi != 0 {
		return 0, ErrMath.Wrapf("%d * %d / %d overflows u64", a, b, c)
	}
	return q.Lo, nil
}

// MulDivCeil returns ceil(a * b / c), the smallest x with x * c >= a * b.
func MulDivCeil(a, b, c uint64) (uint64, error) {
	if c == 0 {
		return 0, ErrMath.Wrap("zero denominator")
	}
	if a == 0 || b == 0 {
		return 0, nil
	}
	q, r := uint128.From64(a).Mul64(b).QuoRem64(c)
	if r != 0 {
		q = q.Add64(1)
	}
	if q.Hi != 0 {
		return 0, ErrMath.Wrapf("ceil(%d * %d / %d) overflows u64", a, b, c)
	}
	return q.Lo, nil
}

// AddU64 returns a + b or ErrMath on overflow.
func AddU64(a, b uint64) (uint64, error) {
	sum := a + b
	if sum < a {
		return 0, ErrMath.Wrapf("%d + %d overflows u64", a, b)
	}
	return sum, nil
}

// SubU64 returns a - b or ErrMath on underflow.
func SubU64(a, b uint64) (uint64, error) {
	if b > a {
		return 0, ErrMath.Wrapf("%d - %d underflows", a, b)
	}
	return a - b, nil
}
