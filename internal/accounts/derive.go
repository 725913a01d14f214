package accounts

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
)

var (
	PoolStateSeed       = []byte("state")
	AssetListSeed       = []byte("lst-state-list")
	RebalanceRecordSeed = []byte("rebalance-record")
	ProtocolFeeSeed     = []byte("protocol-fee")
	CalculatorStateSeed = []byte("state")
)

// Derived is a program-derived identity and its bump seed.
type Derived struct {
	Key  solana.PublicKey
	Bump uint8
}

func derive(program solana.PublicKey, seeds ...[]byte) (Derived, error) {
	key, bump, err := solana.FindProgramAddress(seeds, program)
	if err != nil {
		return Derived{}, fmt.Errorf("derive %q: %w", seeds[0], err)
	}
	return Derived{Key: key, Bump: bump}, nil
}

// PoolState is the identity of the single pool-state record.
func PoolState(program solana.PublicKey) (Derived, error) {
	return derive(program, PoolStateSeed)
}

// AssetList is the identity of the registry record.
func AssetList(program solana.PublicKey) (Derived, error) {
	return derive(program, AssetListSeed)
}

// RebalanceRecord is the identity of the record that exists while a
// rebalance is active.
func RebalanceRecord(program solana.PublicKey) (Derived, error) {
	return derive(program, RebalanceRecordSeed)
}

// ProtocolFee is the authority owning every protocol fee accumulator.
func ProtocolFee(program solana.PublicKey) (Derived, error) {
	return derive(program, ProtocolFeeSeed)
}

// Reserves is the token account holding the pool's balance of mint.
func Reserves(program, mint solana.PublicKey) (Derived, error) {
	owner, err := PoolState(program)
	if err != nil {
		return Derived{}, err
	}
	return associated(owner.Key, mint)
}

// ProtocolFeeAccumulator is the token account collecting protocol fees in mint.
func ProtocolFeeAccumulator(program, mint solana.PublicKey) (Derived, error) {
	owner, err := ProtocolFee(program)
	if err != nil {
		return Derived{}, err
	}
	return associated(owner.Key, mint)
}

// CalculatorState is the state record of a generic calculator program.
func CalculatorState(calculatorProgram solana.PublicKey) (Derived, error) {
	return derive(calculatorProgram, CalculatorStateSeed)
}

func associated(owner, mint solana.PublicKey) (Derived, error) {
	key, bump, err := solana.FindAssociatedTokenAddress(owner, mint)
	if err != nil {
		return Derived{}, fmt.Errorf("derive token account of %s for %s: %w", owner, mint, err)
	}
	return Derived{Key: key, Bump: bump}, nil
}
