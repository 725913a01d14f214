// Package calculator converts between an asset's native amount and the
// common value unit. Each registered asset stores a Kind that selects one of
// the variants below.
package calculator

import (
	errorsmod "cosmossdk.io/errors"

	"lstpool/internal/model"
)

// Codespace is the error codespace of protocol-specific calculators.
const Codespace = "calculator"

var ErrExchangeRateNotUpdated = errorsmod.Register(Codespace, 1, "exchange rate not updated in this epoch")

// Calculator converts native amounts to common value and back.
type Calculator interface {
	ToCommonValue(amount uint64) (uint64, error)
	ToNativeAmount(value uint64) (uint64, error)
	Validate() error
}

// Kind selects a calculator variant.
type Kind uint8

const (
	KindWsol Kind = iota
	KindSplStakePool
	KindLido
	KindMarinade
)

func (k Kind) String() string {
	switch k {
	case KindWsol:
		return "wsol"
	case KindSplStakePool:
		return "spl_stake_pool"
	case KindLido:
		return "lido"
	case KindMarinade:
		return "marinade"
	default:
		return "unknown"
	}
}

// ParseKind maps a name produced by Kind.String back to its Kind.
func ParseKind(name string) (Kind, bool) {
	for k := KindWsol; k <= KindMarinade; k++ {
		if k.String() == name {
			return k, true
		}
	}
	return 0, false
}

// Env is the ledger context calculators validate against.
type Env struct {
	CurrentEpoch uint64 `json:"current_epoch"`
}

// Record is the valuation data loaded for one asset: the generic calculator
// state plus the snapshot of the protocol's exchange-rate record selected by
// Kind.
type Record struct {
	Kind         Kind           `json:"kind"`
	Generic      GenericState   `json:"generic"`
	DeployedSlot uint64         `json:"deployed_slot"`
	StakePool    *StakePool     `json:"stake_pool,omitempty"`
	Lido         *LidoRate      `json:"lido,omitempty"`
	Marinade     *MarinadeState `json:"marinade,omitempty"`
}

// Clone returns a deep copy of r.
func (r Record) Clone() Record {
	out := r
	if r.StakePool != nil {
		sp := *r.StakePool
		out.StakePool = &sp
	}
	if r.Lido != nil {
		l := *r.Lido
		out.Lido = &l
	}
	if r.Marinade != nil {
		m := *r.Marinade
		out.Marinade = &m
	}
	return out
}

// New builds the calculator for rec.
func New(rec Record, env Env) (Calculator, error) {
	switch rec.Kind {
	case KindWsol:
		return Wsol{}, nil
	case KindSplStakePool:
		if rec.StakePool == nil {
			return nil, model.ErrInvalidRecordData.Wrap("missing stake pool record")
		}
		return Generic{State: rec.Generic, DeployedSlot: rec.DeployedSlot, Pool: SplStakePool{Pool: *rec.StakePool, CurrentEpoch: env.CurrentEpoch}}, nil
	case KindLido:
		if rec.Lido == nil {
			return nil, model.ErrInvalidRecordData.Wrap("missing lido exchange rate")
		}
		return Generic{State: rec.Generic, DeployedSlot: rec.DeployedSlot, Pool: Lido{Rate: *rec.Lido, CurrentEpoch: env.CurrentEpoch}}, nil
	case KindMarinade:
		if rec.Marinade == nil {
			return nil, model.ErrInvalidRecordData.Wrap("missing marinade state")
		}
		return Generic{State: rec.Generic, DeployedSlot: rec.DeployedSlot, Pool: Marinade{State: *rec.Marinade}}, nil
	default:
		return nil, model.ErrInvalidRecordData.Wrapf("unknown calculator kind %d", rec.Kind)
	}
}

// Wsol values wrapped native tokens 1:1.
type Wsol struct{}

func (Wsol) ToCommonValue(amount uint64) (uint64, error) { return amount, nil }
func (Wsol) ToNativeAmount(value uint64) (uint64, error) { return value, nil }
func (Wsol) Validate() error                             { return nil }
