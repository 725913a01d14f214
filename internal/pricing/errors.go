package pricing

import (
	errorsmod "cosmossdk.io/errors"
)

// Codespace is the error codespace of the flat-fee pricing module.
const Codespace = "pricing"

var (
	ErrSignedFeeOutOfBound   = errorsmod.Register(Codespace, 1, "signed fee value is out of bound")
	ErrUnsignedFeeOutOfBound = errorsmod.Register(Codespace, 2, "unsigned fee value is out of bound")
)
