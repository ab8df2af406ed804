package mock

import (
	"context"

	"github.com/fwojciec/prettyrfc"
)

var _ prettyrfc.DocumentResolver = (*DocumentResolver)(nil)

// DocumentResolver is a mock implementation of prettyrfc.DocumentResolver.
type DocumentResolver struct {
	ResolveFn    func(ctx context.Context, input string) (*prettyrfc.Document, error)
	ResolveURLFn func(ctx context.Context, fragment string) (*prettyrfc.Document, error)
}

func (r *DocumentResolver) Resolve(ctx context.Context, input string) (*prettyrfc.Document, error) {
	return r.ResolveFn(ctx, input)
}

func (r *DocumentResolver) ResolveURL(ctx context.Context, fragment string) (*prettyrfc.Document, error) {
	return r.ResolveURLFn(ctx, fragment)
}
