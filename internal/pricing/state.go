package pricing

import (
	"github.com/gagliardetto/solana-go"
)

const (
	// BpsDenominator is 100% in basis points.
	BpsDenominator = 10_000

	MinSignedFeeBps   int16  = -BpsDenominator
	MaxSignedFeeBps   int16  = BpsDenominator
	MaxUnsignedFeeBps uint16 = BpsDenominator
)

// FeeAccount is the fee configuration of one asset. Negative values are
// premiums paid by the pool.
type FeeAccount struct {
	InputFeeBps  int16 `json:"input_fee_bps"`
	OutputFeeBps int16 `json:"output_fee_bps"`
}

// Validate checks both fees against the signed bound.
func (f FeeAccount) Validate() error {
	if err := ValidateSignedFee(f.InputFeeBps); err != nil {
		return err
	}
	return ValidateSignedFee(f.OutputFeeBps)
}

// ProgramState is the pricing module's global configuration.
type ProgramState struct {
	Manager            solana.PublicKey `json:"manager"`
	LpWithdrawalFeeBps uint16           `json:"lp_withdrawal_fee_bps"`
}

// ValidateSignedFee rejects fees outside -10000..10000 bps.
func ValidateSignedFee(bps int16) error {
	if bps < MinSignedFeeBps || bps > MaxSignedFeeBps {
		return ErrSignedFeeOutOfBound.Wrapf("%d bps", bps)
	}
	return nil
}

// ValidateUnsignedFee rejects fees above 10000 bps.
func ValidateUnsignedFee(bps uint16) error {
	if bps > MaxUnsignedFeeBps {
		return ErrUnsignedFeeOutOfBound.Wrapf("%d bps", bps)
	}
	return nil
}
