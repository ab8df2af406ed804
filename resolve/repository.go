// Package resolve turns identifiers and URLs into rendered, persisted
// documents by composing a Fetcher, a Renderer and a DocumentService.
package resolve

import (
	"context"
	"time"

	"github.com/fwojciec/prettyrfc"
)

// Repository returns persisted documents, fetching and rendering those it
// has not seen before.
type Repository struct {
	Fetcher   prettyrfc.Fetcher
	Renderer  prettyrfc.Renderer
	Documents prettyrfc.DocumentService

	// Text extracts search text from rendered HTML. Optional.
	Text prettyrfc.TextExtractor

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// NewRepository creates a Repository.
func NewRepository(
	fetcher prettyrfc.Fetcher,
	renderer prettyrfc.Renderer,
	documents prettyrfc.DocumentService,
	text prettyrfc.TextExtractor,
) *Repository {
	return &Repository{
		Fetcher:   fetcher,
		Renderer:  renderer,
		Documents: documents,
		Text:      text,
		Now:       time.Now,
	}
}

// FetchOrCreate returns the persisted document for id. A stored rendering is
// returned as is. Otherwise the source is fetched (or reused, if stored),
// rendered with xrefs, and saved with LastModified set to now. Fetcher
// errors are returned unchanged.
func (r *Repository) FetchOrCreate(ctx context.Context, id prettyrfc.DocumentID, xrefs prettyrfc.CrossReferenceResolver) (*prettyrfc.Document, error) {
	stored, err := r.Documents.FindDocumentByID(ctx, id)
	switch {
	case err == nil && stored.RenderedHTML != "" && stored.SourceHash == prettyrfc.HashSource(stored.RawSource):
		return stored, nil
	case err != nil && prettyrfc.ErrorCode(err) != prettyrfc.ENOTFOUND:
		return nil, err
	}

	var source string
	if stored != nil && stored.RawSource != "" {
		source = stored.RawSource
	} else {
		source, err = r.Fetcher.Fetch(ctx, id)
		if err != nil {
			return nil, err
		}
	}

	doc, err := r.build(id, source, xrefs)
	if err != nil {
		return nil, err
	}
	if err := r.Documents.SaveDocument(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// ResolveURL maps fragment to a document with urls and returns it through
// FetchOrCreate. Returns ENOTFOUND if urls does not recognize fragment.
func (r *Repository) ResolveURL(ctx context.Context, fragment string, urls prettyrfc.URLResolver, xrefs prettyrfc.CrossReferenceResolver) (*prettyrfc.Document, error) {
	id, ok := urls.ResolveURL(fragment)
	if !ok {
		return nil, prettyrfc.Errorf(prettyrfc.ENOTFOUND, "no document found for %q", fragment)
	}
	return r.FetchOrCreate(ctx, id, xrefs)
}

func (r *Repository) build(id prettyrfc.DocumentID, source string, xrefs prettyrfc.CrossReferenceResolver) (*prettyrfc.Document, error) {
	rendering, err := r.Renderer.Render(source, xrefs)
	if err != nil {
		return nil, err
	}
	if rendering.HTML == "" {
		return nil, prettyrfc.Errorf(prettyrfc.ERENDER, "%s rendered to an empty document", id.DisplayName())
	}

	var content string
	if r.Text != nil {
		content, err = r.Text.ExtractText(rendering.HTML)
		if err != nil {
			return nil, err
		}
	}

	now := time.Now
	if r.Now != nil {
		now = r.Now
	}

	return &prettyrfc.Document{
		ID:           id,
		RawSource:    source,
		SourceHash:   prettyrfc.HashSource(source),
		RenderedHTML: rendering.HTML,
		Title:        rendering.Title,
		Abstract:     rendering.Abstract,
		Content:      content,
		References:   rendering.References,
		LastModified: now(),
	}, nil
}
