package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/fwojciec/prettyrfc"
)

// Compile-time interface verification.
var _ prettyrfc.DocumentService = (*DocumentService)(nil)

// DocumentService implements prettyrfc.DocumentService using SQLite.
type DocumentService struct {
	db  *DB
	now func() time.Time
}

// NewDocumentService creates a new DocumentService.
func NewDocumentService(db *DB) *DocumentService {
	return &DocumentService{db: db, now: time.Now}
}

const documentColumns = "id, raw_source, source_hash, rendered_html, title, abstract, content, refs, last_modified"

// SaveDocument inserts or replaces a document and its search index entry
// in one transaction.
func (s *DocumentService) SaveDocument(ctx context.Context, doc *prettyrfc.Document) error {
	if err := doc.Validate(); err != nil {
		return err
	}
	id, err := prettyrfc.ParseDocumentID(string(doc.ID))
	if err != nil {
		return err
	}
	doc.ID = id

	if doc.SourceHash == "" {
		doc.SourceHash = prettyrfc.HashSource(doc.RawSource)
	}
	if doc.LastModified.IsZero() {
		doc.LastModified = s.now()
	}
	doc.LastModified = doc.LastModified.UTC().Truncate(time.Second)

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO documents (id, number, raw_source, source_hash, rendered_html, title, abstract, content, refs, last_modified)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			raw_source = excluded.raw_source,
			source_hash = excluded.source_hash,
			rendered_html = excluded.rendered_html,
			title = excluded.title,
			abstract = excluded.abstract,
			content = excluded.content,
			refs = excluded.refs,
			last_modified = excluded.last_modified
	`, string(doc.ID), doc.ID.Number(), doc.RawSource, doc.SourceHash, doc.RenderedHTML, doc.Title, doc.Abstract,
		doc.Content, joinReferences(doc.References), doc.LastModified.Format(time.RFC3339))
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM documents_fts WHERE id = ?", string(doc.ID)); err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO documents_fts (id, ident, title, abstract, content)
		VALUES (?, ?, ?, ?, ?)
	`, string(doc.ID), identTerms(doc.ID), doc.Title, doc.Abstract, doc.Content)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// FindDocumentByID retrieves a document by ID.
func (s *DocumentService) FindDocumentByID(ctx context.Context, id prettyrfc.DocumentID) (*prettyrfc.Document, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+documentColumns+" FROM documents WHERE id = ?", string(id))

	doc, err := scanDocument(row)
	if err == sql.ErrNoRows {
		return nil, prettyrfc.Errorf(prettyrfc.ENOTFOUND, "%s not found", id.DisplayName())
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// FindDocuments retrieves documents matching the filter, ordered by number.
func (s *DocumentService) FindDocuments(ctx context.Context, filter prettyrfc.DocumentFilter) ([]*prettyrfc.Document, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + documentColumns + " FROM documents WHERE 1=1")

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, string(*filter.ID))
	}

	query.WriteString(" ORDER BY number ASC")
	if filter.Offset > 0 && filter.Limit <= 0 {
		// SQLite requires LIMIT before OFFSET.
		query.WriteString(" LIMIT -1")
	}
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*prettyrfc.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}

	return docs, rows.Err()
}

// scanner is implemented by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(row scanner) (*prettyrfc.Document, error) {
	var doc prettyrfc.Document
	var refs, lastModified string

	if err := row.Scan(&doc.ID, &doc.RawSource, &doc.SourceHash, &doc.RenderedHTML, &doc.Title,
		&doc.Abstract, &doc.Content, &refs, &lastModified); err != nil {
		return nil, err
	}

	var err error
	doc.LastModified, err = parseRFC3339(lastModified, "last_modified")
	if err != nil {
		return nil, err
	}
	doc.References = splitReferences(refs)
	return &doc, nil
}

// identTerms indexes every way a reader may type an identifier.
func identTerms(id prettyrfc.DocumentID) string {
	return string(id) + " " + id.DisplayName()
}

func joinReferences(refs []prettyrfc.DocumentID) string {
	parts := make([]string, 0, len(refs))
	for _, r := range refs {
		parts = append(parts, string(r))
	}
	return strings.Join(parts, "\n")
}

func splitReferences(s string) []prettyrfc.DocumentID {
	if s == "" {
		return nil
	}
	var refs []prettyrfc.DocumentID
	for _, part := range strings.Split(s, "\n") {
		refs = append(refs, prettyrfc.DocumentID(part))
	}
	return refs
}
