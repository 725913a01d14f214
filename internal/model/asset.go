package model

import (
	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

// AssetRecordSize is the encoded width of an AssetRecord.
const AssetRecordSize = 80

// AssetRecord is one registered asset. Records are stored back to back in the
// registry record; field order and widths are part of the persisted layout.
type AssetRecord struct {
	IsInputDisabled            U8Bool           `json:"is_input_disabled"`
	PoolReservesBump           uint8            `json:"pool_reserves_bump"`
	ProtocolFeeAccumulatorBump uint8            `json:"protocol_fee_accumulator_bump"`
	CalculatorKind             uint8            `json:"calculator_kind"`
	InputFeeBps                int16            `json:"input_fee_bps"`
	OutputFeeBps               int16            `json:"output_fee_bps"`
	CommonValue                uint64           `json:"common_value"`
	Mint                       solana.PublicKey `json:"mint"`
	Calculator                 solana.PublicKey `json:"calculator"`
}

// Encode returns the fixed-width little-endian encoding of the record.
func (r AssetRecord) Encode() ([]byte, error) {
	return bin.MarshalBorsh(r)
}

// DecodeAssetRecord decodes a single fixed-width record.
func DecodeAssetRecord(data []byte) (AssetRecord, error) {
	if len(data) != AssetRecordSize {
		return AssetRecord{}, ErrInvalidRecordData.Wrapf("asset record is %d bytes, want %d", len(data), AssetRecordSize)
	}
	var r AssetRecord
	if err := bin.UnmarshalBorsh(&r, data); err != nil {
		return AssetRecord{}, ErrInvalidRecordData.Wrapf("decode asset record: %v", err)
	}
	return r, nil
}

// AssetList is the ordered registry of asset records. Indices are only stable
// for the duration of one operation: SwapRemove moves the last record into
// the removed slot.
type AssetList []AssetRecord

// Encode concatenates the encoded records without a length prefix.
func (l AssetList) Encode() ([]byte, error) {
	out := make([]byte, 0, len(l)*AssetRecordSize)
	for i := range l {
		b, err := l[i].Encode()
		if err != nil {
			return nil, err
		}
		out = append(out, b...)
	}
	return out, nil
}

// DecodeAssetList decodes a registry record.
func DecodeAssetList(data []byte) (AssetList, error) {
	if len(data)%AssetRecordSize != 0 {
		return nil, ErrInvalidRecordData.Wrapf("registry length %d is not a multiple of %d", len(data), AssetRecordSize)
	}
	list := make(AssetList, 0, len(data)/AssetRecordSize)
	for off := 0; off < len(data); off += AssetRecordSize {
		r, err := DecodeAssetRecord(data[off : off+AssetRecordSize])
		if err != nil {
			return nil, err
		}
		list = append(list, r)
	}
	return list, nil
}

// FindMint returns the index of the record for mint.
func (l AssetList) FindMint(mint solana.PublicKey) (int, bool) {
	for i := range l {
		if l[i].Mint.Equals(mint) {
			return i, true
		}
	}
	return 0, false
}
