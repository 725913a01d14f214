// Package auth turns signer identities into role capabilities. Operations take
// a Capability instead of looking at ambient signer context.
package auth

import (
	"github.com/gagliardetto/solana-go"

	"lstpool/internal/model"
)

// Role is an authority an operation may require.
type Role uint8

const (
	RoleAdmin Role = iota + 1
	RoleRebalanceAuthority
	RoleProtocolFeeBeneficiary
	RoleCalculatorManager
	RolePricingManager
)

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "admin"
	case RoleRebalanceAuthority:
		return "rebalance_authority"
	case RoleProtocolFeeBeneficiary:
		return "protocol_fee_beneficiary"
	case RoleCalculatorManager:
		return "calculator_manager"
	case RolePricingManager:
		return "pricing_manager"
	default:
		return "unknown"
	}
}

// Capability proves that Signer held Role when it was granted. The zero value
// grants nothing.
type Capability struct {
	role   Role
	signer solana.PublicKey
}

// Grant returns a capability for role when signer is the current holder.
func Grant(role Role, signer, holder solana.PublicKey) (Capability, error) {
	if signer.IsZero() || !signer.Equals(holder) {
		return Capability{}, model.ErrUnauthorized.Wrapf("%s is not the %s", signer, role)
	}
	return Capability{role: role, signer: signer}, nil
}

// GrantFirst tries each signer against holder and returns the first match.
func GrantFirst(role Role, signers []solana.PublicKey, holder solana.PublicKey) (Capability, error) {
	for _, s := range signers {
		if c, err := Grant(role, s, holder); err == nil {
			return c, nil
		}
	}
	return Capability{}, model.ErrUnauthorized.Wrapf("no signer is the %s %s", role, holder)
}

func (c Capability) Role() Role               { return c.role }
func (c Capability) Signer() solana.PublicKey { return c.signer }

// Require fails unless c was granted for one of roles.
func (c Capability) Require(roles ...Role) error {
	if c.role == 0 {
		return model.ErrUnauthorized.Wrap("no capability")
	}
	for _, r := range roles {
		if c.role == r {
			return nil
		}
	}
	return model.ErrUnauthorized.Wrapf("%s capability does not satisfy %v", c.role, roles)
}

// Holds reports whether c was granted for role to the current holder. A
// capability outlives a reassignment, so operations recheck the holder.
func (c Capability) Holds(role Role, holder solana.PublicKey) error {
	if err := c.Require(role); err != nil {
		return err
	}
	if !c.signer.Equals(holder) {
		return model.ErrUnauthorized.Wrapf("%s is no longer the %s", c.signer, role)
	}
	return nil
}
