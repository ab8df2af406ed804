package mock

import (
	"context"

	"github.com/fwojciec/prettyrfc"
)

var _ prettyrfc.DocumentService = (*DocumentService)(nil)

// DocumentService is a mock implementation of prettyrfc.DocumentService.
type DocumentService struct {
	FindDocumentByIDFn func(ctx context.Context, id prettyrfc.DocumentID) (*prettyrfc.Document, error)
	FindDocumentsFn    func(ctx context.Context, filter prettyrfc.DocumentFilter) ([]*prettyrfc.Document, error)
	SaveDocumentFn     func(ctx context.Context, doc *prettyrfc.Document) error
}

func (s *DocumentService) FindDocumentByID(ctx context.Context, id prettyrfc.DocumentID) (*prettyrfc.Document, error) {
	return s.FindDocumentByIDFn(ctx, id)
}

func (s *DocumentService) FindDocuments(ctx context.Context, filter prettyrfc.DocumentFilter) ([]*prettyrfc.Document, error) {
	return s.FindDocumentsFn(ctx, filter)
}

func (s *DocumentService) SaveDocument(ctx context.Context, doc *prettyrfc.Document) error {
	return s.SaveDocumentFn(ctx, doc)
}
