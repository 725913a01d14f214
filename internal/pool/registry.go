package pool

import (
	"github.com/gagliardetto/solana-go"

	"lstpool/internal/auth"
	"lstpool/internal/calculator"
	"lstpool/internal/model"
	"lstpool/internal/ratio"
)

// Initialize creates the pool state with payer as every authority.
func (s *State) Initialize(payer, pricingProgram, lpTokenMint solana.PublicKey) error {
	if s.Initialized() {
		return model.ErrStateConflict.Wrap("pool already initialized")
	}
	if payer.IsZero() {
		return model.ErrUnauthorized.Wrap("initialize: no payer")
	}
	s.Pool = model.NewPoolState(payer, pricingProgram, lpTokenMint)
	s.Rebalance = nil
	s.Assets = nil
	s.LpSupply = 0
	s.Pricing.Manager = payer
	return nil
}

// NewAsset holds the arguments of AddAsset. The bumps come from deriving the
// reserves and protocol fee accumulator identities.
type NewAsset struct {
	Mint                       solana.PublicKey
	Kind                       calculator.Kind
	Calculator                 solana.PublicKey
	PoolReservesBump           uint8
	ProtocolFeeAccumulatorBump uint8
}

// AddAsset appends a record with zero value and input enabled. The calculator
// manager starts out as the pool admin.
func (s *State) AddAsset(c auth.Capability, in NewAsset) error {
	if err := c.Holds(auth.RoleAdmin, s.Pool.Admin); err != nil {
		return err
	}
	if err := s.requireIdle("add_asset"); err != nil {
		return err
	}
	if _, ok := s.FindMint(in.Mint); ok {
		return model.ErrUnsupportedAsset.Wrapf("%s already registered", in.Mint)
	}
	if in.Kind > calculator.KindMarinade {
		return model.ErrUnsupportedAsset.Wrapf("unknown calculator kind %d", in.Kind)
	}
	s.Assets = append(s.Assets, Asset{
		Record: model.AssetRecord{
			PoolReservesBump:           in.PoolReservesBump,
			ProtocolFeeAccumulatorBump: in.ProtocolFeeAccumulatorBump,
			CalculatorKind:             uint8(in.Kind),
			Mint:                       in.Mint,
			Calculator:                 in.Calculator,
		},
		Valuation: calculator.Record{
			Kind:    in.Kind,
			Generic: calculator.GenericState{Manager: s.Pool.Admin},
		},
	})
	return nil
}

// RemoveAsset swaps the last record into index and truncates. Any index held
// before the call may now refer to a different asset.
func (s *State) RemoveAsset(c auth.Capability, index uint32) error {
	if err := c.Holds(auth.RoleAdmin, s.Pool.Admin); err != nil {
		return err
	}
	if err := s.requireIdle("remove_asset"); err != nil {
		return err
	}
	a, err := s.asset(index)
	if err != nil {
		return err
	}
	if a.Reserves != 0 || a.ProtocolFees != 0 {
		return model.ErrStateConflict.Wrapf("%s still holds %d reserves and %d protocol fees", a.Record.Mint, a.Reserves, a.ProtocolFees)
	}
	total, err := ratio.SubU64(s.Pool.TotalValue, a.Record.CommonValue)
	if err != nil {
		return err
	}
	s.Pool.TotalValue = total
	last := len(s.Assets) - 1
	s.Assets[index] = s.Assets[last]
	s.Assets = s.Assets[:last]
	return nil
}

// DisableInput stops the asset from being swapped in or deposited.
func (s *State) DisableInput(c auth.Capability, index uint32) error {
	return s.setInputDisabled(c, index, true)
}

// EnableInput reverses DisableInput.
func (s *State) EnableInput(c auth.Capability, index uint32) error {
	return s.setInputDisabled(c, index, false)
}

func (s *State) setInputDisabled(c auth.Capability, index uint32, disabled bool) error {
	if err := c.Holds(auth.RoleAdmin, s.Pool.Admin); err != nil {
		return err
	}
	if err := s.requireIdle("set input disabled"); err != nil {
		return err
	}
	a, err := s.asset(index)
	if err != nil {
		return err
	}
	a.Record.IsInputDisabled.Set(disabled)
	return nil
}
