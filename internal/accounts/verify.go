// Package accounts checks the accounts an operation declares against the
// identities and privileges it expects.
package accounts

import (
	"github.com/gagliardetto/solana-go"

	"lstpool/internal/model"
)

// Expected describes one account slot. A zero Key leaves the identity
// unconstrained; only the privilege flags are checked.
type Expected struct {
	Name     string
	Key      solana.PublicKey
	Signer   bool
	Writable bool
}

// Verify checks identities first and privileges second so that a wrong
// account is reported as such even when its flags are also wrong. Declared
// accounts beyond the expected ones are ignored.
func Verify(declared []*solana.AccountMeta, expected []Expected) error {
	if len(declared) < len(expected) {
		return model.ErrIncorrectAccountIdentity.Wrapf("expected %d accounts, got %d", len(expected), len(declared))
	}
	for i, exp := range expected {
		got := declared[i]
		if got == nil {
			return model.ErrIncorrectAccountIdentity.Wrapf("%s: missing account", exp.Name)
		}
		if !exp.Key.IsZero() && !got.PublicKey.Equals(exp.Key) {
			return model.ErrIncorrectAccountIdentity.Wrapf("%s: got %s, want %s", exp.Name, got.PublicKey, exp.Key)
		}
	}
	for i, exp := range expected {
		got := declared[i]
		if exp.Signer && !got.IsSigner {
			return model.ErrMissingPrivilege.Wrapf("%s must sign", exp.Name)
		}
		if exp.Writable && !got.IsWritable {
			return model.ErrMissingPrivilege.Wrapf("%s must be writable", exp.Name)
		}
	}
	return nil
}

// Signers returns the keys of declared accounts that signed.
func Signers(declared []*solana.AccountMeta) []solana.PublicKey {
	var out []solana.PublicKey
	for _, m := range declared {
		if m != nil && m.IsSigner {
			out = append(out, m.PublicKey)
		}
	}
	return out
}
