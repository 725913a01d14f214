package model

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestOperationRecordJSONRoundTrip(t *testing.T) {
	original := OperationRecord{
		Seq:       17,
		Timestamp: 1700000000,
		Signers:   []string{"9xQeWvG816bUx9EPjHmaT23yvVM2ZWbrrpZb9PusVFin"},
		Data:      "AQAAAAABAAAA",
	}

	b, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded OperationRecord
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if !reflect.DeepEqual(original, decoded) {
		t.Fatalf("round-trip mismatch: %+v != %+v", original, decoded)
	}
}
