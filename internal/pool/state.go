// Package pool holds the in-memory pool state and the operations that
// transition it. Every operation either returns nil and leaves the state
// mutated, or returns an error; Engine.Apply runs operations on a copy so a
// failure never leaks partial changes.
package pool

import (
	"github.com/gagliardetto/solana-go"

	"lstpool/internal/calculator"
	"lstpool/internal/model"
	"lstpool/internal/pricing"
	"lstpool/internal/ratio"
)

// Asset is a registry entry together with the balances and valuation data the
// operations read.
type Asset struct {
	Record       model.AssetRecord `json:"record"`
	Reserves     uint64            `json:"reserves"`
	ProtocolFees uint64            `json:"protocol_fees"`
	Valuation    calculator.Record `json:"valuation"`
}

// State is everything one operation reads and writes.
type State struct {
	Pool      model.PoolState        `json:"pool"`
	Rebalance *model.RebalanceRecord `json:"rebalance,omitempty"`
	Assets    []Asset                `json:"assets"`
	Pricing   pricing.ProgramState   `json:"pricing"`
	LpSupply  uint64                 `json:"lp_supply"`
	Env       calculator.Env         `json:"env"`
}

// Clone returns a deep copy of s.
func (s *State) Clone() *State {
	out := *s
	if s.Rebalance != nil {
		r := *s.Rebalance
		out.Rebalance = &r
	}
	out.Assets = make([]Asset, len(s.Assets))
	for i, a := range s.Assets {
		a.Valuation = a.Valuation.Clone()
		out.Assets[i] = a
	}
	return &out
}

// Initialized reports whether initialize has run.
func (s *State) Initialized() bool {
	return s.Pool.Version != 0
}

// Active reports whether a rebalance is in progress.
func (s *State) Active() bool {
	return s.Rebalance != nil
}

// AssetList returns the registry records in index order.
func (s *State) AssetList() model.AssetList {
	out := make(model.AssetList, len(s.Assets))
	for i := range s.Assets {
		out[i] = s.Assets[i].Record
	}
	return out
}

// FindMint returns the index of mint in the registry.
func (s *State) FindMint(mint solana.PublicKey) (uint32, bool) {
	i, ok := s.AssetList().FindMint(mint)
	return uint32(i), ok
}

func (s *State) asset(index uint32) (*Asset, error) {
	if int64(index) >= int64(len(s.Assets)) {
		return nil, model.ErrUnsupportedAsset.Wrapf("index %d out of range (%d assets)", index, len(s.Assets))
	}
	return &s.Assets[index], nil
}

func (s *State) inputAsset(index uint32) (*Asset, error) {
	a, err := s.asset(index)
	if err != nil {
		return nil, err
	}
	if a.Record.IsInputDisabled.Bool() {
		return nil, model.ErrUnsupportedAsset.Wrapf("input of %s is disabled", a.Record.Mint)
	}
	return a, nil
}

// Calculator builds the value calculator of the asset at index.
func (s *State) Calculator(index uint32) (calculator.Calculator, error) {
	a, err := s.asset(index)
	if err != nil {
		return nil, err
	}
	return s.calculatorOf(a)
}

func (s *State) calculatorOf(a *Asset) (calculator.Calculator, error) {
	rec := a.Valuation
	rec.Kind = calculator.Kind(a.Record.CalculatorKind)
	return calculator.New(rec, s.Env)
}

func (s *State) requireIdle(op string) error {
	if s.Active() {
		return model.ErrStateConflict.Wrapf("%s: rebalance in progress", op)
	}
	return nil
}

func (s *State) requireEnabled(op string) error {
	if !s.Initialized() {
		return model.ErrStateConflict.Wrapf("%s: pool not initialized", op)
	}
	if s.Pool.IsDisabled.Bool() {
		return model.ErrStateConflict.Wrapf("%s: pool is disabled", op)
	}
	return nil
}

// SyncValue recomputes the cached value of the asset at index from its
// reserves and moves the pool total by the difference.
func (s *State) SyncValue(index uint32) error {
	a, err := s.asset(index)
	if err != nil {
		return err
	}
	calc, err := s.calculatorOf(a)
	if err != nil {
		return err
	}
	value, err := calc.ToCommonValue(a.Reserves)
	if err != nil {
		return err
	}
	total, err := ratio.SubU64(s.Pool.TotalValue, a.Record.CommonValue)
	if err != nil {
		return err
	}
	total, err = ratio.AddU64(total, value)
	if err != nil {
		return err
	}
	a.Record.CommonValue = value
	s.Pool.TotalValue = total
	return nil
}

func (s *State) syncPair(src, dst uint32) error {
	if err := s.SyncValue(src); err != nil {
		return err
	}
	return s.SyncValue(dst)
}

// SumValues is the sum of every asset's cached value. It equals
// Pool.TotalValue whenever each asset has been synced through SyncValue.
func (s *State) SumValues() (uint64, error) {
	var sum uint64
	for i := range s.Assets {
		var err error
		if sum, err = ratio.AddU64(sum, s.Assets[i].Record.CommonValue); err != nil {
			return 0, err
		}
	}
	return sum, nil
}

func feeAccount(a *Asset) pricing.FeeAccount {
	return pricing.FeeAccount{InputFeeBps: a.Record.InputFeeBps, OutputFeeBps: a.Record.OutputFeeBps}
}

func bpsOf(value uint64, bps uint16) (uint64, error) {
	return ratio.RatioFloor{Num: uint64(bps), Denom: pricing.BpsDenominator}.Apply(value)
}
