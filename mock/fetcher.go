package mock

import (
	"context"

	"github.com/fwojciec/prettyrfc"
)

var _ prettyrfc.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of prettyrfc.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, id prettyrfc.DocumentID) (string, error)
}

func (f *Fetcher) Fetch(ctx context.Context, id prettyrfc.DocumentID) (string, error) {
	return f.FetchFn(ctx, id)
}
