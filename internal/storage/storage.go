package storage

import (
	"context"
	"errors"

	"lstpool/internal/model"
)

// Storage defines a sink for operation deltas.
type Storage interface {
	PutDeltaBatch(ctx context.Context, deltas []model.DeltaRecord) error
}

// Multi writes every batch to each sink in order.
type Multi []Storage

func (m Multi) PutDeltaBatch(ctx context.Context, deltas []model.DeltaRecord) error {
	var errs []error
	for _, s := range m {
		if err := s.PutDeltaBatch(ctx, deltas); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
