package sqlite

import (
	"context"
	"strings"

	"github.com/fwojciec/prettyrfc"
)

// Compile-time interface verification.
var _ prettyrfc.SearchService = (*SearchService)(nil)

// SearchService implements prettyrfc.SearchService using SQLite FTS5.
type SearchService struct {
	db *DB
}

// NewSearchService creates a new SearchService.
func NewSearchService(db *DB) *SearchService {
	return &SearchService{db: db}
}

// Column weights for bm25, in documents_fts column order:
// id (unindexed), ident, title, abstract, content.
const rankExpr = "bm25(documents_fts, 0.0, 10.0, 5.0, 2.0, 1.0)"

// Search ranks documents by bm25 over identifier, title, abstract and body
// text. Ties are broken by document number so paging is stable.
func (s *SearchService) Search(ctx context.Context, query string, page, limit int) (*prettyrfc.SearchResult, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = prettyrfc.DefaultSearchLimit
	}
	result := &prettyrfc.SearchResult{Query: query, Page: page, Limit: limit}

	match := matchExpression(query)
	if match == "" {
		return result, nil
	}

	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM documents_fts WHERE documents_fts MATCH ?", match,
	).Scan(&result.Total)
	if err != nil {
		return nil, prettyrfc.Errorf(prettyrfc.EINTERNAL, "search count: %v", err)
	}
	// Compare page indexes rather than offsets so huge pages cannot overflow.
	if result.Total == 0 || page-1 > (result.Total-1)/limit {
		return result, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT d.id, d.source_hash, d.title, d.abstract, d.refs, d.last_modified,
			`+rankExpr+` AS score,
			snippet(documents_fts, -1, '', '', '...', 24)
		FROM documents_fts
		JOIN documents d ON d.id = documents_fts.id
		WHERE documents_fts MATCH ?
		ORDER BY score ASC, d.number ASC
		LIMIT ? OFFSET ?
	`, match, limit, (page-1)*limit)
	if err != nil {
		return nil, prettyrfc.Errorf(prettyrfc.EINTERNAL, "search: %v", err)
	}
	defer rows.Close()

	for rows.Next() {
		var doc prettyrfc.Document
		var refs, lastModified, snippet string
		var score float64
		if err := rows.Scan(&doc.ID, &doc.SourceHash, &doc.Title, &doc.Abstract, &refs, &lastModified, &score, &snippet); err != nil {
			return nil, err
		}
		doc.LastModified, err = parseRFC3339(lastModified, "last_modified")
		if err != nil {
			return nil, err
		}
		doc.References = splitReferences(refs)

		// bm25 scores are negative; flip so higher is better.
		result.Hits = append(result.Hits, prettyrfc.SearchHit{
			Document: &doc,
			Score:    -score,
			Snippet:  snippet,
		})
	}

	return result, rows.Err()
}

// matchExpression turns free text into an FTS5 query that requires every
// term. Each term is quoted so operators and punctuation in user input are
// matched literally. Returns "" if query has no terms.
func matchExpression(query string) string {
	var terms []string
	for _, field := range strings.Fields(query) {
		field = strings.ReplaceAll(field, `"`, "")
		if strings.Trim(field, ".,;:!?()[]{}'*-+^") == "" {
			continue
		}
		terms = append(terms, `"`+field+`"`)
	}
	return strings.Join(terms, " ")
}
