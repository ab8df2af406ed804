package mock

import (
	"context"

	"github.com/fwojciec/prettyrfc"
)

var _ prettyrfc.ExportStore = (*ExportStore)(nil)

// ExportStore is a mock implementation of prettyrfc.ExportStore.
type ExportStore struct {
	SaveFn   func(ctx context.Context, export *prettyrfc.Export) error
	CommitFn func() error
	AbortFn  func() error
}

func (s *ExportStore) Save(ctx context.Context, export *prettyrfc.Export) error {
	return s.SaveFn(ctx, export)
}

func (s *ExportStore) Commit() error {
	return s.CommitFn()
}

func (s *ExportStore) Abort() error {
	return s.AbortFn()
}
