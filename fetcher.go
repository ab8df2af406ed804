package prettyrfc

import "context"

// Fetcher retrieves the raw source of a document from the archive.
type Fetcher interface {
	// Fetch returns the raw source (XML or plain text) for id.
	// Returns ENOTFOUND if the archive has no such document and a
	// *FetchError for network failures, timeouts and unexpected responses.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, id DocumentID) (source string, err error)
}
