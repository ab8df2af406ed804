package mock

import (
	"context"

	"github.com/fwojciec/prettyrfc"
)

var _ prettyrfc.SearchService = (*SearchService)(nil)

// SearchService is a mock implementation of prettyrfc.SearchService.
type SearchService struct {
	SearchFn func(ctx context.Context, query string, page, limit int) (*prettyrfc.SearchResult, error)
}

func (s *SearchService) Search(ctx context.Context, query string, page, limit int) (*prettyrfc.SearchResult, error) {
	return s.SearchFn(ctx, query, page, limit)
}
