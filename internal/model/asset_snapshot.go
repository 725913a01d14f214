package model

// AssetSnapshot is a registry entry together with its balances, as stored
// after each replay batch.
type AssetSnapshot struct {
	Index         uint32
	Mint          string
	Calculator    string
	Kind          uint8
	CommonValue   uint64
	InputDisabled bool
	InputFeeBps   int16
	OutputFeeBps  int16
	Reserves      uint64
	ProtocolFees  uint64
	Record        []byte
}
