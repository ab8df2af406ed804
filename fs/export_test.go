package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/prettyrfc"
	"github.com/fwojciec/prettyrfc/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Story: Atomic Export
// The export store uses a temp directory for atomic updates

func TestExportStore_SaveWritesToTempDirectory(t *testing.T) {
	t.Parallel()

	// Given a store targeting a directory
	base := t.TempDir()
	store := fs.NewExportStore(base, "output")

	// When I save an export
	err := store.Save(context.Background(), &prettyrfc.Export{
		ID:       "RFC793",
		Title:    "Transmission Control Protocol",
		Markdown: "# Transmission Control Protocol",
	})

	// Then no error occurs
	require.NoError(t, err)

	// And the file exists in the temp directory (not final)
	tempPath := filepath.Join(base, "output.tmp", "rfc793.md")
	_, err = os.Stat(tempPath)
	require.NoError(t, err, "file should exist in temp directory")

	// And final directory does not exist yet
	_, err = os.Stat(filepath.Join(base, "output"))
	assert.True(t, os.IsNotExist(err), "final directory should not exist until commit")
}

func TestExportStore_CommitMovesFromTempToFinal(t *testing.T) {
	t.Parallel()

	// Given a store with a saved export and a stale previous export
	base := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(base, "output"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(base, "output", "stale.md"), []byte("old"), 0644))
	store := fs.NewExportStore(base, "output")
	require.NoError(t, store.Save(context.Background(), &prettyrfc.Export{ID: "RFC1", Markdown: "# Host Software"}))

	// When I commit
	err := store.Commit()

	// Then the final directory holds only the new export
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(base, "output", "rfc1.md"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(base, "output", "stale.md"))
	assert.True(t, os.IsNotExist(err))

	// And temp directory is gone
	_, err = os.Stat(filepath.Join(base, "output.tmp"))
	assert.True(t, os.IsNotExist(err), "temp directory should be removed after commit")
}

func TestExportStore_AbortCleansUpTempDirectory(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	store := fs.NewExportStore(base, "output")
	require.NoError(t, store.Save(context.Background(), &prettyrfc.Export{ID: "RFC1", Markdown: "x"}))

	require.NoError(t, store.Abort())

	_, err := os.Stat(filepath.Join(base, "output.tmp"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(base, "output"))
	assert.True(t, os.IsNotExist(err))
}

func TestExportStore_RejectsInvalidIdentifiers(t *testing.T) {
	t.Parallel()

	store := fs.NewExportStore(t.TempDir(), "output")

	err := store.Save(context.Background(), &prettyrfc.Export{ID: "../../etc/passwd"})

	require.Error(t, err)
	assert.Equal(t, prettyrfc.EINVALID, prettyrfc.ErrorCode(err))
}

func TestFormatExport(t *testing.T) {
	t.Parallel()

	got := fs.FormatExport(&prettyrfc.Export{
		ID:           "RFC2119",
		Title:        "Key words for use in RFCs",
		Markdown:     "# Key words",
		LastModified: "2026-10-18",
	})

	assert.Equal(t, "---\nid: RFC2119\ntitle: Key words for use in RFCs\nupdated: 2026-10-18\n---\n\n# Key words", got)
}
