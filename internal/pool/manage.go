package pool

import (
	"github.com/gagliardetto/solana-go"

	"lstpool/internal/auth"
	"lstpool/internal/calculator"
	"lstpool/internal/model"
	"lstpool/internal/pricing"
)

func (s *State) genericCalculator(index uint32) (*Asset, error) {
	a, err := s.asset(index)
	if err != nil {
		return nil, err
	}
	if calculator.Kind(a.Record.CalculatorKind) == calculator.KindWsol {
		return nil, model.ErrUnsupportedAsset.Wrapf("%s has no managed calculator", a.Record.Mint)
	}
	return a, nil
}

// SetCalculatorManager reassigns the manager of the asset's calculator.
func (s *State) SetCalculatorManager(c auth.Capability, index uint32, next solana.PublicKey) error {
	a, err := s.genericCalculator(index)
	if err != nil {
		return err
	}
	if err := c.Holds(auth.RoleCalculatorManager, a.Valuation.Generic.Manager); err != nil {
		return err
	}
	a.Valuation.Generic.Manager = next
	return nil
}

// UpdateLastUpgradeSlot marks the calculator as checked against the currently
// deployed staking program, clearing staleness.
func (s *State) UpdateLastUpgradeSlot(c auth.Capability, index uint32) error {
	a, err := s.genericCalculator(index)
	if err != nil {
		return err
	}
	if err := c.Holds(auth.RoleCalculatorManager, a.Valuation.Generic.Manager); err != nil {
		return err
	}
	a.Valuation.Generic.LastUpgradeSlot = a.Valuation.DeployedSlot
	return nil
}

// SetLstFee sets the flat fees charged when the asset is swapped in or out.
func (s *State) SetLstFee(c auth.Capability, index uint32, fee pricing.FeeAccount) error {
	if err := c.Holds(auth.RolePricingManager, s.Pricing.Manager); err != nil {
		return err
	}
	a, err := s.asset(index)
	if err != nil {
		return err
	}
	if err := fee.Validate(); err != nil {
		return err
	}
	a.Record.InputFeeBps = fee.InputFeeBps
	a.Record.OutputFeeBps = fee.OutputFeeBps
	return nil
}

func (s *State) SetLpWithdrawalFee(c auth.Capability, bps uint16) error {
	if err := c.Holds(auth.RolePricingManager, s.Pricing.Manager); err != nil {
		return err
	}
	if err := pricing.ValidateUnsignedFee(bps); err != nil {
		return err
	}
	s.Pricing.LpWithdrawalFeeBps = bps
	return nil
}

func (s *State) SetPricingManager(c auth.Capability, next solana.PublicKey) error {
	if err := c.Holds(auth.RolePricingManager, s.Pricing.Manager); err != nil {
		return err
	}
	s.Pricing.Manager = next
	return nil
}
