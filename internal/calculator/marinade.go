package calculator

import (
	"lstpool/internal/model"
	"lstpool/internal/ratio"
)

// MsolPriceDenom is the fixed-point scale of Marinade's msol_price.
const MsolPriceDenom uint64 = 1 << 32

// MarinadeState is the snapshot of Marinade's state fields used for pricing.
type MarinadeState struct {
	MsolPrice uint64       `json:"msol_price"`
	Paused    model.U8Bool `json:"paused"`
}

// Marinade values mSOL at msol_price / 2^32.
type Marinade struct {
	State MarinadeState
}

func (c Marinade) Validate() error {
	if c.State.Paused.Bool() {
		return model.ErrStaleness.Wrap("marinade program is paused")
	}
	if c.State.MsolPrice == 0 {
		return model.ErrInvalidRecordData.Wrap("zero msol price")
	}
	return nil
}

func (c Marinade) ToCommonValue(amount uint64) (uint64, error) {
	if err := c.Validate(); err != nil {
		return 0, err
	}
	return ratio.RatioFloor{Num: c.State.MsolPrice, Denom: MsolPriceDenom}.Apply(amount)
}

func (c Marinade) ToNativeAmount(value uint64) (uint64, error) {
	if err := c.Validate(); err != nil {
		return 0, err
	}
	return ratio.RatioFloor{Num: MsolPriceDenom, Denom: c.State.MsolPrice}.Apply(value)
}
