package replay

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/gagliardetto/solana-go"

	"lstpool/internal/instruction"
	"lstpool/internal/model"
)

// ParsePublicKeys converts base58 strings into public keys. Blank entries are
// skipped.
func ParsePublicKeys(inputs []string) ([]solana.PublicKey, error) {
	keys := make([]solana.PublicKey, 0, len(inputs))
	for _, input := range inputs {
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		key, err := solana.PublicKeyFromBase58(input)
		if err != nil {
			return nil, fmt.Errorf("invalid public key %q: %w", input, err)
		}
		keys = append(keys, key)
	}
	return keys, nil
}

func parseAccounts(refs []model.AccountRef) ([]*solana.AccountMeta, error) {
	metas := make([]*solana.AccountMeta, 0, len(refs))
	for _, ref := range refs {
		key, err := solana.PublicKeyFromBase58(ref.Pubkey)
		if err != nil {
			return nil, fmt.Errorf("invalid account %q: %w", ref.Pubkey, err)
		}
		metas = append(metas, &solana.AccountMeta{PublicKey: key, IsSigner: ref.IsSigner, IsWritable: ref.IsWritable})
	}
	return metas, nil
}

// decodeData returns the raw instruction bytes and the decoded instruction.
// The instruction is nil when the bytes do not decode.
func decodeData(data string) ([]byte, instruction.Instruction, error) {
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, nil, model.ErrInvalidInstructionData.Wrapf("base64: %v", err)
	}
	ins, err := instruction.Decode(raw)
	if err != nil {
		return raw, nil, err
	}
	return raw, ins, nil
}

// EncodeData encodes ins for an OperationRecord.
func EncodeData(ins instruction.Instruction) (string, error) {
	raw, err := instruction.Encode(ins)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}
