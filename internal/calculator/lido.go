package calculator

import (
	"lstpool/internal/ratio"
)

// LidoRate is the snapshot of Lido's exchange-rate record.
type LidoRate struct {
	ComputedInEpoch uint64 `json:"computed_in_epoch"`
	StSolSupply     uint64 `json:"st_sol_supply"`
	SolBalance      uint64 `json:"sol_balance"`
}

// Lido values stSOL with the exchange rate computed in the current epoch.
type Lido struct {
	Rate         LidoRate
	CurrentEpoch uint64
}

func (c Lido) Validate() error {
	if c.Rate.ComputedInEpoch < c.CurrentEpoch {
		return ErrExchangeRateNotUpdated.Wrapf("computed in epoch %d, current %d", c.Rate.ComputedInEpoch, c.CurrentEpoch)
	}
	return nil
}

func (c Lido) ToCommonValue(amount uint64) (uint64, error) {
	if err := c.Validate(); err != nil {
		return 0, err
	}
	if c.Rate.StSolSupply == 0 {
		return amount, nil
	}
	return ratio.RatioFloor{Num: c.Rate.SolBalance, Denom: c.Rate.StSolSupply}.Apply(amount)
}

func (c Lido) ToNativeAmount(value uint64) (uint64, error) {
	if err := c.Validate(); err != nil {
		return 0, err
	}
	if c.Rate.StSolSupply == 0 {
		return value, nil
	}
	return ratio.RatioFloor{Num: c.Rate.StSolSupply, Denom: c.Rate.SolBalance}.Apply(value)
}
