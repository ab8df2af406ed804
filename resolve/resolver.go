package resolve

import (
	"context"

	"github.com/fwojciec/prettyrfc"
)

// Ensure Resolver implements prettyrfc.DocumentResolver at compile time.
var _ prettyrfc.DocumentResolver = (*Resolver)(nil)

// Resolver is the facade the route layer uses to look up documents.
type Resolver struct {
	Repository *Repository

	// Links maps cross-reference tokens in rendered documents to paths.
	Links prettyrfc.CrossReferenceResolver

	// URLs recognizes archive URLs.
	URLs prettyrfc.URLResolver
}

// NewResolver creates a Resolver that links references to canonical paths
// and recognizes RFC archive URLs.
func NewResolver(repo *Repository) *Resolver {
	return &Resolver{
		Repository: repo,
		Links:      prettyrfc.PathResolver,
		URLs:       prettyrfc.ArchiveURLResolver,
	}
}

// Resolve normalizes input and returns the rendered document.
// Input that is not an identifier is reported as ENOTFOUND.
func (r *Resolver) Resolve(ctx context.Context, input string) (*prettyrfc.Document, error) {
	id, err := prettyrfc.ParseDocumentID(input)
	if err != nil {
		return nil, prettyrfc.Errorf(prettyrfc.ENOTFOUND, "%q does not name a document", input)
	}
	return r.Repository.FetchOrCreate(ctx, id, r.Links)
}

// ResolveURL returns the document an archive URL refers to.
func (r *Resolver) ResolveURL(ctx context.Context, fragment string) (*prettyrfc.Document, error) {
	return r.Repository.ResolveURL(ctx, fragment, r.URLs, r.Links)
}
