package replay

import (
	"sort"

	"lstpool/internal/model"
)

// selectRange returns the ops with from <= seq <= to. ops must be sorted by
// seq; to == 0 leaves the upper end open.
func selectRange(ops []model.OperationRecord, from, to uint64) []model.OperationRecord {
	lo := sort.Search(len(ops), func(i int) bool { return ops[i].Seq >= from })
	hi := len(ops)
	if to != 0 {
		hi = sort.Search(len(ops), func(i int) bool { return ops[i].Seq > to })
	}
	if lo >= hi {
		return nil
	}
	return ops[lo:hi]
}

// chunk splits ops into batches of at most size operations.
func chunk(ops []model.OperationRecord, size int) [][]model.OperationRecord {
	if size <= 0 || len(ops) == 0 {
		return nil
	}
	out := make([][]model.OperationRecord, 0, (len(ops)+size-1)/size)
	for len(ops) > size {
		out = append(out, ops[:size:size])
		ops = ops[size:]
	}
	return append(out, ops)
}
