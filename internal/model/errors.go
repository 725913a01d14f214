package model

import (
	errorsmod "cosmossdk.io/errors"

	"lstpool/internal/ratio"
)

// Codespace is the error codespace for pool accounting failures.
const Codespace = "lstpool"

// Pool error kinds. Arithmetic kinds live in package ratio and are
// re-exported here so callers can match every kind from one place.
var (
	ErrInvalidRecordData         = errorsmod.Register(Codespace, 1, "invalid record data")
	ErrIncorrectAccountIdentity  = errorsmod.Register(Codespace, 2, "incorrect account identity")
	ErrMissingPrivilege          = errorsmod.Register(Codespace, 3, "missing account privilege")
	ErrUnsupportedAsset          = errorsmod.Register(Codespace, 4, "unsupported asset")
	ErrStateConflict             = errorsmod.Register(Codespace, 5, "operation conflicts with pool state")
	ErrUnauthorized              = errorsmod.Register(Codespace, 6, "unauthorized signer")
	ErrStaleness                 = errorsmod.Register(Codespace, 7, "value calculator is stale")
	ErrInvalidInstructionData    = errorsmod.Register(Codespace, 8, "invalid instruction data")
	ErrZeroValue                 = errorsmod.Register(Codespace, 9, "zero value")
	ErrSlippageToleranceExceeded = errorsmod.Register(Codespace, 10, "slippage tolerance exceeded")

	ErrMath          = ratio.ErrMath
	ErrOutOfBoundFee = ratio.ErrOutOfBoundFee
)
