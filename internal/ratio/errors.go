package ratio

import (
	errorsmod "cosmossdk.io/errors"
)

// Codespace is the error codespace for fixed-point arithmetic failures.
const Codespace = "ratio"

var (
	ErrMath          = errorsmod.Register(Codespace, 1, "math error")
	ErrOutOfBoundFee = errorsmod.Register(Codespace, 2, "fee ratio out of bound")
)
