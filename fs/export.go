package fs

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/prettyrfc"
)

// Ensure ExportStore implements prettyrfc.ExportStore at compile time.
var _ prettyrfc.ExportStore = (*ExportStore)(nil)

// ExportStore implements prettyrfc.ExportStore with atomic update semantics.
// Exports are saved to a temporary directory, then moved atomically on Commit.
type ExportStore struct {
	baseDir string
	name    string
}

// NewExportStore creates a new ExportStore.
// baseDir is the parent directory, name is the output directory name.
// Files are saved to baseDir/name.tmp and moved to baseDir/name on Commit.
func NewExportStore(baseDir, name string) *ExportStore {
	return &ExportStore{
		baseDir: baseDir,
		name:    name,
	}
}

func (s *ExportStore) tempDir() string {
	return filepath.Join(s.baseDir, s.name+".tmp")
}

func (s *ExportStore) finalDir() string {
	return filepath.Join(s.baseDir, s.name)
}

// Save writes export to the temporary directory as <id>.md.
func (s *ExportStore) Save(ctx context.Context, export *prettyrfc.Export) error {
	// Derive the file name from the canonical form so IDs cannot escape the directory.
	id, err := prettyrfc.ParseDocumentID(string(export.ID))
	if err != nil {
		return err
	}

	if err := os.MkdirAll(s.tempDir(), 0755); err != nil {
		return err
	}

	fullPath := filepath.Join(s.tempDir(), strings.ToLower(string(id))+".md")
	return os.WriteFile(fullPath, []byte(FormatExport(export)), 0644)
}

// FormatExport formats an export with YAML frontmatter.
func FormatExport(export *prettyrfc.Export) string {
	var b strings.Builder
	b.WriteString("---\n")
	b.WriteString("id: ")
	b.WriteString(string(export.ID))
	b.WriteString("\ntitle: ")
	b.WriteString(export.Title)
	b.WriteString("\nupdated: ")
	b.WriteString(export.LastModified)
	b.WriteString("\n---\n\n")
	b.WriteString(export.Markdown)
	return b.String()
}

// Commit replaces the output directory with the saved exports.
func (s *ExportStore) Commit() error {
	// Remove existing final directory if present
	if err := os.RemoveAll(s.finalDir()); err != nil {
		return err
	}

	// Atomically rename temp to final
	return os.Rename(s.tempDir(), s.finalDir())
}

// Abort discards the saved exports.
func (s *ExportStore) Abort() error {
	return os.RemoveAll(s.tempDir())
}
