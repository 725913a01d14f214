package replay

import (
	"time"

	"github.com/gagliardetto/solana-go"

	"lstpool/internal/model"
	"lstpool/internal/pool"
)

func buildDeltaRecord(op model.OperationRecord, name string, delta pool.Delta, opErr error, ingestedAt time.Time) model.DeltaRecord {
	rec := model.DeltaRecord{
		Seq:        op.Seq,
		Timestamp:  op.Timestamp,
		Operation:  name,
		IngestedAt: ingestedAt.UTC().Format(time.RFC3339Nano),
	}
	if opErr != nil {
		rec.Status = model.DeltaStatusRejected
		rec.Error = opErr.Error()
		return rec
	}
	rec.Status = model.DeltaStatusApplied
	rec.SrcMint = keyString(delta.SrcMint)
	rec.DstMint = keyString(delta.DstMint)
	rec.AmountIn = delta.AmountIn
	rec.AmountOut = delta.AmountOut
	rec.ProtocolFee = delta.ProtocolFee
	rec.LpMinted = delta.LpMinted
	rec.LpBurned = delta.LpBurned
	rec.TotalValueBefore = delta.TotalValueBefore
	rec.TotalValueAfter = delta.TotalValueAfter
	return rec
}

func keyString(k solana.PublicKey) string {
	if k.IsZero() {
		return ""
	}
	return k.String()
}

// BuildAssetSnapshots flattens the registry of s for storage.
func BuildAssetSnapshots(s *pool.State) ([]model.AssetSnapshot, error) {
	out := make([]model.AssetSnapshot, 0, len(s.Assets))
	for i, a := range s.Assets {
		record, err := a.Record.Encode()
		if err != nil {
			return nil, err
		}
		out = append(out, model.AssetSnapshot{
			Index:         uint32(i),
			Mint:          a.Record.Mint.String(),
			Calculator:    a.Record.Calculator.String(),
			Kind:          a.Record.CalculatorKind,
			CommonValue:   a.Record.CommonValue,
			InputDisabled: a.Record.IsInputDisabled.Bool(),
			InputFeeBps:   a.Record.InputFeeBps,
			OutputFeeBps:  a.Record.OutputFeeBps,
			Reserves:      a.Reserves,
			ProtocolFees:  a.ProtocolFees,
			Record:        record,
		})
	}
	return out, nil
}
