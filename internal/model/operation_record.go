package model

import (
	"encoding/json"
)

// OperationRecord is one submitted pool operation as read from a replay log.
// Data carries the encoded instruction (base64). When Accounts is present the
// declared accounts are checked before the operation runs; otherwise Signers
// alone decide authorization.
type OperationRecord struct {
	Seq       uint64       `json:"seq"`
	Timestamp uint64       `json:"timestamp"`
	Signers   []string     `json:"signers"`
	Accounts  []AccountRef `json:"accounts,omitempty"`
	Data      string       `json:"data"`
}

// AccountRef is a declared account with its privilege flags.
type AccountRef struct {
	Pubkey     string `json:"pubkey"`
	IsSigner   bool   `json:"is_signer"`
	IsWritable bool   `json:"is_writable"`
}

// MarshalJSON ensures OperationRecord is encoded with stable field names.
func (r OperationRecord) MarshalJSON() ([]byte, error) {
	type Alias OperationRecord
	return json.Marshal(Alias(r))
}

// UnmarshalJSON decodes an OperationRecord from JSON.
func (r *OperationRecord) UnmarshalJSON(data []byte) error {
	type Alias OperationRecord
	var a Alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*r = OperationRecord(a)
	return nil
}
