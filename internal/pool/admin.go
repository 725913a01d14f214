package pool

import (
	"github.com/gagliardetto/solana-go"

	"lstpool/internal/auth"
	"lstpool/internal/model"
	"lstpool/internal/pricing"
	"lstpool/internal/ratio"
)

func (s *State) SetAdmin(c auth.Capability, next solana.PublicKey) error {
	if err := c.Holds(auth.RoleAdmin, s.Pool.Admin); err != nil {
		return err
	}
	s.Pool.Admin = next
	return nil
}

// SetRebalanceAuthority may be called by the admin or the current rebalance
// authority.
func (s *State) SetRebalanceAuthority(c auth.Capability, next solana.PublicKey) error {
	adminErr := c.Holds(auth.RoleAdmin, s.Pool.Admin)
	if adminErr != nil {
		if err := c.Holds(auth.RoleRebalanceAuthority, s.Pool.RebalanceAuthority); err != nil {
			return err
		}
	}
	s.Pool.RebalanceAuthority = next
	return nil
}

func (s *State) SetProtocolFeeBeneficiary(c auth.Capability, next solana.PublicKey) error {
	if err := c.Holds(auth.RoleProtocolFeeBeneficiary, s.Pool.ProtocolFeeBeneficiary); err != nil {
		return err
	}
	s.Pool.ProtocolFeeBeneficiary = next
	return nil
}

// SetProtocolFee replaces both protocol fee shares. Each must be at most
// 10000 bps.
func (s *State) SetProtocolFee(c auth.Capability, tradingBps, lpBps uint16) error {
	if err := c.Holds(auth.RoleAdmin, s.Pool.Admin); err != nil {
		return err
	}
	for _, bps := range []uint16{tradingBps, lpBps} {
		if bps > pricing.MaxUnsignedFeeBps {
			return ratio.ErrOutOfBoundFee.Wrapf("protocol fee %d bps", bps)
		}
	}
	s.Pool.TradingProtocolFeeBps = tradingBps
	s.Pool.LpProtocolFeeBps = lpBps
	return nil
}

func (s *State) SetPricingProgram(c auth.Capability, next solana.PublicKey) error {
	if err := c.Holds(auth.RoleAdmin, s.Pool.Admin); err != nil {
		return err
	}
	if err := s.requireIdle("set_pricing_program"); err != nil {
		return err
	}
	s.Pool.PricingProgram = next
	return nil
}

func (s *State) DisablePool(c auth.Capability) error {
	if err := c.Holds(auth.RoleAdmin, s.Pool.Admin); err != nil {
		return err
	}
	if s.Pool.IsDisabled.Bool() {
		return model.ErrStateConflict.Wrap("pool already disabled")
	}
	s.Pool.IsDisabled.SetTrue()
	return nil
}

func (s *State) EnablePool(c auth.Capability) error {
	if err := c.Holds(auth.RoleAdmin, s.Pool.Admin); err != nil {
		return err
	}
	if !s.Pool.IsDisabled.Bool() {
		return model.ErrStateConflict.Wrap("pool already enabled")
	}
	s.Pool.IsDisabled.SetFalse()
	return nil
}

// WithdrawProtocolFees moves amount out of the asset's fee accumulator.
func (s *State) WithdrawProtocolFees(c auth.Capability, index uint32, amount uint64) error {
	if err := c.Holds(auth.RoleProtocolFeeBeneficiary, s.Pool.ProtocolFeeBeneficiary); err != nil {
		return err
	}
	a, err := s.asset(index)
	if err != nil {
		return err
	}
	if amount == 0 {
		return model.ErrZeroValue.Wrap("withdraw zero protocol fees")
	}
	left, err := ratio.SubU64(a.ProtocolFees, amount)
	if err != nil {
		return err
	}
	a.ProtocolFees = left
	return nil
}
