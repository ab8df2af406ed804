package prettyrfc

import "context"

// Export is a document converted for offline reading.
type Export struct {
	ID           DocumentID
	Title        string
	Markdown     string
	LastModified string // YYYY-MM-DD
}

// ExportStore persists exports with atomic semantics.
// Save writes to a temporary location; Commit makes changes permanent;
// Abort discards pending changes.
type ExportStore interface {
	Save(ctx context.Context, export *Export) error
	Commit() error
	Abort() error
}
