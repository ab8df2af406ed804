package prettyrfc

import (
	"context"
	"encoding/hex"
	"time"

	"github.com/cespare/xxhash/v2"
)

// Document represents a resolved RFC with its source and rendered form.
type Document struct {
	ID           DocumentID   `json:"id"`
	RawSource    string       `json:"rawSource"`
	SourceHash   string       `json:"sourceHash"`
	RenderedHTML string       `json:"renderedHtml"`
	Title        string       `json:"title"`
	Abstract     string       `json:"abstract"`
	Content      string       `json:"content"` // Plain text, used for search
	References   []DocumentID `json:"references"`
	LastModified time.Time    `json:"lastModified"`
}

// Validate returns an error if the document contains invalid fields.
// A document without source or rendered output is never persisted.
func (d *Document) Validate() error {
	if d.ID == "" {
		return Errorf(EINVALID, "document ID required")
	}
	if d.RawSource == "" {
		return Errorf(EINVALID, "document %s raw source required", d.ID)
	}
	if d.RenderedHTML == "" {
		return Errorf(EINVALID, "document %s rendered HTML required", d.ID)
	}
	return nil
}

// HashSource computes the xxHash of raw source as a hex string.
// Rendered HTML is a cache keyed by document ID and this hash.
func HashSource(source string) string {
	h := xxhash.Sum64String(source)
	b := []byte{
		byte(h >> 56), byte(h >> 48), byte(h >> 40), byte(h >> 32),
		byte(h >> 24), byte(h >> 16), byte(h >> 8), byte(h),
	}
	return hex.EncodeToString(b)
}

// DocumentService represents a service for managing persisted documents.
type DocumentService interface {
	// FindDocumentByID retrieves a document by ID.
	// Returns ENOTFOUND if document does not exist.
	FindDocumentByID(ctx context.Context, id DocumentID) (*Document, error)

	// FindDocuments retrieves documents matching the filter, ordered by
	// document number.
	FindDocuments(ctx context.Context, filter DocumentFilter) ([]*Document, error)

	// SaveDocument inserts or replaces a document and its search index entry.
	// Returns EINVALID if the document fails validation.
	SaveDocument(ctx context.Context, doc *Document) error
}

// DocumentFilter represents a filter for FindDocuments.
type DocumentFilter struct {
	ID *DocumentID `json:"id"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
