package pool

import (
	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"lstpool/internal/accounts"
	"lstpool/internal/auth"
	"lstpool/internal/calculator"
	"lstpool/internal/instruction"
	"lstpool/internal/model"
	"lstpool/internal/pricing"
)

// Config holds engine settings.
type Config struct {
	ProgramID solana.PublicKey
	// RebalanceTolerance is how much common value a rebalance may lose
	// before EndRebalance rejects it.
	RebalanceTolerance uint64
}

// Engine applies operations to pool state.
type Engine struct {
	cfg    Config
	logger *zap.Logger
}

// NewEngine builds an Engine.
func NewEngine(cfg Config, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{cfg: cfg, logger: logger}
}

// Process decodes data, checks the declared accounts and applies the
// operation.
func (e *Engine) Process(state *State, metas []*solana.AccountMeta, data []byte) (*State, Delta, error) {
	ins, err := instruction.Decode(data)
	if err != nil {
		return nil, Delta{}, err
	}
	expected, err := e.expectedAccounts(state, ins)
	if err != nil {
		return nil, Delta{}, err
	}
	if err := accounts.Verify(metas, expected); err != nil {
		return nil, Delta{}, err
	}
	return e.Apply(state, ins, accounts.Signers(metas))
}

// Apply runs ins against a copy of state and returns the copy on success.
// state itself is never modified.
func (e *Engine) Apply(state *State, ins instruction.Instruction, signers []solana.PublicKey) (*State, Delta, error) {
	next := state.Clone()
	before := next.Pool.TotalValue
	delta, err := e.apply(next, ins, signers)
	if err != nil {
		e.logger.Debug("operation rejected", zap.Stringer("op", ins.Discriminant()), zap.Error(err))
		return nil, Delta{}, err
	}
	delta.Operation = ins.Discriminant().String()
	delta.TotalValueBefore = before
	delta.TotalValueAfter = next.Pool.TotalValue
	e.logger.Debug("operation applied",
		zap.String("op", delta.Operation),
		zap.Uint64("total_value", delta.TotalValueAfter),
		zap.Bool("rebalancing", next.Active()),
	)
	return next, delta, nil
}

func (e *Engine) apply(s *State, ins instruction.Instruction, signers []solana.PublicKey) (Delta, error) {
	grant := func(role auth.Role, holder solana.PublicKey) (auth.Capability, error) {
		return auth.GrantFirst(role, signers, holder)
	}

	switch v := ins.(type) {
	case instruction.Initialize:
		if len(signers) == 0 {
			return Delta{}, model.ErrUnauthorized.Wrap("initialize: no signer")
		}
		return Delta{}, s.Initialize(signers[0], v.PricingProgram, v.LpTokenMint)
	case instruction.SyncValue:
		return Delta{}, s.SyncValue(v.Index)
	case instruction.SwapExactIn:
		return s.SwapExactIn(v.SrcIndex, v.DstIndex, v.Amount, v.Limit)
	case instruction.SwapExactOut:
		return s.SwapExactOut(v.SrcIndex, v.DstIndex, v.Amount, v.Limit)
	case instruction.AddLiquidity:
		return s.AddLiquidity(v.Index, v.Amount, v.MinLpOut)
	case instruction.RemoveLiquidity:
		return s.RemoveLiquidity(v.Index, v.LpAmount, v.MinOut)
	case instruction.StartRebalance:
		c, err := grant(auth.RoleRebalanceAuthority, s.Pool.RebalanceAuthority)
		if err != nil {
			return Delta{}, err
		}
		return s.StartRebalance(c, v.SrcIndex, v.DstIndex, v.Amount)
	case instruction.EndRebalance:
		c, err := grant(auth.RoleRebalanceAuthority, s.Pool.RebalanceAuthority)
		if err != nil {
			return Delta{}, err
		}
		return s.EndRebalance(c, v.Amount, e.cfg.RebalanceTolerance)
	case instruction.WithdrawProtocolFees:
		c, err := grant(auth.RoleProtocolFeeBeneficiary, s.Pool.ProtocolFeeBeneficiary)
		if err != nil {
			return Delta{}, err
		}
		if err := s.WithdrawProtocolFees(c, v.Index, v.Amount); err != nil {
			return Delta{}, err
		}
		return Delta{DstMint: s.Assets[v.Index].Record.Mint, ProtocolFee: v.Amount}, nil
	case instruction.SetProtocolFeeBeneficiary:
		c, err := grant(auth.RoleProtocolFeeBeneficiary, s.Pool.ProtocolFeeBeneficiary)
		if err != nil {
			return Delta{}, err
		}
		return Delta{}, s.SetProtocolFeeBeneficiary(c, v.NewBeneficiary)
	case instruction.SetRebalanceAuthority:
		c, err := grant(auth.RoleAdmin, s.Pool.Admin)
		if err != nil {
			if c, err = grant(auth.RoleRebalanceAuthority, s.Pool.RebalanceAuthority); err != nil {
				return Delta{}, err
			}
		}
		return Delta{}, s.SetRebalanceAuthority(c, v.NewAuthority)
	case instruction.SetCalculatorManager, instruction.UpdateLastUpgradeSlot:
		return Delta{}, e.applyCalculator(s, v, grant)
	case instruction.SetLstFee, instruction.SetLpWithdrawalFee, instruction.SetPricingManager:
		c, err := grant(auth.RolePricingManager, s.Pricing.Manager)
		if err != nil {
			return Delta{}, err
		}
		return Delta{}, e.applyPricing(s, c, v)
	}

	c, err := grant(auth.RoleAdmin, s.Pool.Admin)
	if err != nil {
		return Delta{}, err
	}
	return e.applyAdmin(s, c, ins)
}

func (e *Engine) applyAdmin(s *State, c auth.Capability, ins instruction.Instruction) (Delta, error) {
	switch v := ins.(type) {
	case instruction.AddAsset:
		in := NewAsset{Mint: v.Mint, Kind: calculator.Kind(v.CalculatorKind), Calculator: v.Calculator}
		if !e.cfg.ProgramID.IsZero() {
			reserves, err := accounts.Reserves(e.cfg.ProgramID, v.Mint)
			if err != nil {
				return Delta{}, err
			}
			fees, err := accounts.ProtocolFeeAccumulator(e.cfg.ProgramID, v.Mint)
			if err != nil {
				return Delta{}, err
			}
			in.PoolReservesBump = reserves.Bump
			in.ProtocolFeeAccumulatorBump = fees.Bump
		}
		return Delta{DstMint: v.Mint}, s.AddAsset(c, in)
	case instruction.RemoveAsset:
		return Delta{}, s.RemoveAsset(c, v.Index)
	case instruction.DisableInput:
		return Delta{}, s.DisableInput(c, v.Index)
	case instruction.EnableInput:
		return Delta{}, s.EnableInput(c, v.Index)
	case instruction.SetAdmin:
		return Delta{}, s.SetAdmin(c, v.NewAdmin)
	case instruction.SetProtocolFee:
		return Delta{}, s.SetProtocolFee(c, v.TradingProtocolFeeBps, v.LpProtocolFeeBps)
	case instruction.SetPricingProgram:
		return Delta{}, s.SetPricingProgram(c, v.NewPricingProgram)
	case instruction.DisablePool:
		return Delta{}, s.DisablePool(c)
	case instruction.EnablePool:
		return Delta{}, s.EnablePool(c)
	default:
		return Delta{}, model.ErrInvalidInstructionData.Wrapf("unhandled operation %s", ins.Discriminant())
	}
}

func (e *Engine) applyCalculator(s *State, ins instruction.Instruction, grant func(auth.Role, solana.PublicKey) (auth.Capability, error)) error {
	var index uint32
	switch v := ins.(type) {
	case instruction.SetCalculatorManager:
		index = v.Index
	case instruction.UpdateLastUpgradeSlot:
		index = v.Index
	}
	a, err := s.genericCalculator(index)
	if err != nil {
		return err
	}
	c, err := grant(auth.RoleCalculatorManager, a.Valuation.Generic.Manager)
	if err != nil {
		return err
	}
	if v, ok := ins.(instruction.SetCalculatorManager); ok {
		return s.SetCalculatorManager(c, index, v.NewManager)
	}
	return s.UpdateLastUpgradeSlot(c, index)
}

func (e *Engine) applyPricing(s *State, c auth.Capability, ins instruction.Instruction) error {
	switch v := ins.(type) {
	case instruction.SetLstFee:
		return s.SetLstFee(c, v.Index, pricing.FeeAccount{InputFeeBps: v.InputFeeBps, OutputFeeBps: v.OutputFeeBps})
	case instruction.SetLpWithdrawalFee:
		return s.SetLpWithdrawalFee(c, v.Bps)
	case instruction.SetPricingManager:
		return s.SetPricingManager(c, v.NewManager)
	}
	return nil
}
