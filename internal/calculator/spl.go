package calculator

import (
	"lstpool/internal/ratio"
)

// StakePool is the snapshot of an SPL stake pool's exchange-rate fields.
type StakePool struct {
	TotalLamports           uint64 `json:"total_lamports"`
	PoolTokenSupply         uint64 `json:"pool_token_supply"`
	LastUpdateEpoch         uint64 `json:"last_update_epoch"`
	StakeWithdrawalFeeNum   uint64 `json:"stake_withdrawal_fee_num"`
	StakeWithdrawalFeeDenom uint64 `json:"stake_withdrawal_fee_denom"`
}

// SplStakePool values pool tokens at what a stake withdrawal would return.
type SplStakePool struct {
	Pool         StakePool
	CurrentEpoch uint64
}

func (c SplStakePool) withdrawalFee() ratio.FeeFloor {
	return ratio.FeeFloor{Num: c.Pool.StakeWithdrawalFeeNum, Denom: c.Pool.StakeWithdrawalFeeDenom}
}

func (c SplStakePool) Validate() error {
	if c.Pool.LastUpdateEpoch < c.CurrentEpoch {
		return ErrExchangeRateNotUpdated.Wrapf("stake pool updated in epoch %d, current %d", c.Pool.LastUpdateEpoch, c.CurrentEpoch)
	}
	if !c.withdrawalFee().IsValid() {
		return ratio.ErrOutOfBoundFee.Wrap("stake withdrawal fee")
	}
	return nil
}

func (c SplStakePool) ToCommonValue(amount uint64) (uint64, error) {
	if err := c.Validate(); err != nil {
		return 0, err
	}
	res, err := c.withdrawalFee().Apply(amount)
	if err != nil {
		return 0, err
	}
	if c.Pool.PoolTokenSupply == 0 {
		return res.AmtAfterFee, nil
	}
	return ratio.RatioFloor{Num: c.Pool.TotalLamports, Denom: c.Pool.PoolTokenSupply}.Apply(res.AmtAfterFee)
}

func (c SplStakePool) ToNativeAmount(value uint64) (uint64, error) {
	if err := c.Validate(); err != nil {
		return 0, err
	}
	tokens := value
	if c.Pool.PoolTokenSupply != 0 {
		var err error
		tokens, err = ratio.RatioFloor{Num: c.Pool.PoolTokenSupply, Denom: c.Pool.TotalLamports}.Apply(value)
		if err != nil {
			return 0, err
		}
	}
	return c.withdrawalFee().PseudoReverse(tokens)
}
