package prettyrfc

import "context"

// DefaultSearchLimit is the page size used when a search limit is not set.
const DefaultSearchLimit = 50

// SearchService provides full-text search over persisted documents.
type SearchService interface {
	// Search returns one page of documents matching query, ordered by
	// relevance. The order is deterministic for a fixed corpus and query.
	// Page is 1-based. An empty query returns an empty result; a page past
	// the last result returns no hits.
	Search(ctx context.Context, query string, page, limit int) (*SearchResult, error)
}

// SearchResult is one page of search hits.
type SearchResult struct {
	Query string      `json:"query"`
	Page  int         `json:"page"`
	Limit int         `json:"limit"`
	Total int         `json:"total"`
	Hits  []SearchHit `json:"hits"`
}

// SearchHit represents a search match.
// Document carries metadata only; RawSource and RenderedHTML are not loaded.
type SearchHit struct {
	Document *Document `json:"document"`
	Score    float64   `json:"score"`
	Snippet  string    `json:"snippet"`
}

// PageCount returns the number of pages needed for Total hits.
func (r *SearchResult) PageCount() int {
	if r.Limit <= 0 || r.Total == 0 {
		return 0
	}
	return (r.Total + r.Limit - 1) / r.Limit
}

// HasNext reports whether a page follows the current one.
func (r *SearchResult) HasNext() bool {
	return r.Page < r.PageCount()
}

// HasPrev reports whether a page precedes the current one.
func (r *SearchResult) HasPrev() bool {
	return r.Page > 1
}
