package prettyrfc

import (
	"context"
	"regexp"
)

// DocumentResolver turns user input into fully rendered documents.
// It is the boundary consumed by the route layer.
type DocumentResolver interface {
	// Resolve normalizes input and returns the rendered document.
	// Returns ENOTFOUND for invalid identifiers and documents missing from
	// the archive, and a *FetchError for transient archive failures.
	Resolve(ctx context.Context, input string) (*Document, error)

	// ResolveURL resolves a URL fragment, such as an archive URL, to the
	// document it refers to. Returns ENOTFOUND if the fragment names no
	// document.
	ResolveURL(ctx context.Context, fragment string) (*Document, error)
}

// URLResolver maps a URL fragment to a document identifier.
type URLResolver interface {
	ResolveURL(fragment string) (DocumentID, bool)
}

// URLResolverFunc adapts a function to URLResolver.
type URLResolverFunc func(fragment string) (DocumentID, bool)

// ResolveURL calls f(fragment).
func (f URLResolverFunc) ResolveURL(fragment string) (DocumentID, bool) {
	return f(fragment)
}

// archiveURL matches the last path segment of RFC archive URLs, e.g.
// tools.ietf.org/html/rfc2616, www.rfc-editor.org/rfc/rfc2616.txt or
// datatracker.ietf.org/doc/html/rfc2616/.
var archiveURL = regexp.MustCompile(`(?i)(?:^|/)rfc[-_ ]?([0-9]+)(?:\.(?:txt|html?|xml|pdf|json))?/?(?:[?#].*)?$`)

// ArchiveURLResolver recognizes links into the RFC archives.
var ArchiveURLResolver URLResolver = URLResolverFunc(func(fragment string) (DocumentID, bool) {
	m := archiveURL.FindStringSubmatch(fragment)
	if m == nil {
		return "", false
	}
	id, err := ParseDocumentID(m[1])
	if err != nil {
		return "", false
	}
	return id, true
})
