package calculator

import (
	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"

	"lstpool/internal/model"
)

// GenericStateSize is the encoded width of GenericState.
const GenericStateSize = 40

// GenericState is the persisted state of a generic pool calculator.
// LastUpgradeSlot records the staking program deployment the conversion
// logic was last checked against.
type GenericState struct {
	Manager         solana.PublicKey `json:"manager"`
	LastUpgradeSlot uint64           `json:"last_upgrade_slot"`
}

// Encode returns the fixed-width encoding of the state.
func (s GenericState) Encode() ([]byte, error) {
	return bin.MarshalBorsh(s)
}

// DecodeGenericState decodes a calculator state record.
func DecodeGenericState(data []byte) (GenericState, error) {
	if len(data) != GenericStateSize {
		return GenericState{}, model.ErrInvalidRecordData.Wrapf("calculator state is %d bytes, want %d", len(data), GenericStateSize)
	}
	var s GenericState
	if err := bin.UnmarshalBorsh(&s, data); err != nil {
		return GenericState{}, model.ErrInvalidRecordData.Wrapf("decode calculator state: %v", err)
	}
	return s, nil
}

// Generic guards a protocol calculator with the upgrade-slot staleness check.
// A redeploy of the staking program makes every conversion fail until the
// manager refreshes LastUpgradeSlot.
type Generic struct {
	State        GenericState
	DeployedSlot uint64
	Pool         Calculator
}

func (g Generic) Validate() error {
	if g.State.LastUpgradeSlot != g.DeployedSlot {
		return model.ErrStaleness.Wrapf("last upgrade slot %d, program deployed at %d", g.State.LastUpgradeSlot, g.DeployedSlot)
	}
	return g.Pool.Validate()
}

func (g Generic) ToCommonValue(amount uint64) (uint64, error) {
	if err := g.Validate(); err != nil {
		return 0, err
	}
	return g.Pool.ToCommonValue(amount)
}

func (g Generic) ToNativeAmount(value uint64) (uint64, error) {
	if err := g.Validate(); err != nil {
		return 0, err
	}
	return g.Pool.ToNativeAmount(value)
}
