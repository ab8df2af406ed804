package sqlite_test

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/fwojciec/prettyrfc"
	"github.com/fwojciec/prettyrfc/sqlite"
	"github.com/stretchr/testify/require"
)

// BenchmarkSaveDocument measures upserts with index maintenance, the
// workload of a bulk fetch.
func BenchmarkSaveDocument(b *testing.B) {
	db := sqlite.NewDB(filepath.Join(b.TempDir(), "bench.db"))
	require.NoError(b, db.Open())
	defer db.Close()

	ctx := context.Background()
	svc := sqlite.NewDocumentService(db)

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		id := prettyrfc.DocumentID(fmt.Sprintf("RFC%d", i+1))
		doc := &prettyrfc.Document{
			ID:           id,
			RawSource:    fmt.Sprintf("<rfc number=\"%d\"/>", i+1),
			RenderedHTML: "<article class=\"rfc\"></article>",
			Title:        fmt.Sprintf("Document %d", i+1),
			Content:      fmt.Sprintf("This is the content of %s with some additional text to make it more realistic.", id.DisplayName()),
		}
		if err := svc.SaveDocument(ctx, doc); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkSearch measures a ranked query against a populated index.
func BenchmarkSearch(b *testing.B) {
	const corpus = 500

	db := sqlite.NewDB(filepath.Join(b.TempDir(), "bench.db"))
	require.NoError(b, db.Open())
	defer db.Close()

	ctx := context.Background()
	docs := sqlite.NewDocumentService(db)
	for i := 1; i <= corpus; i++ {
		require.NoError(b, docs.SaveDocument(ctx, &prettyrfc.Document{
			ID:           prettyrfc.DocumentID(fmt.Sprintf("RFC%d", i)),
			RawSource:    "source",
			RenderedHTML: "<article></article>",
			Title:        fmt.Sprintf("Protocol extension %d", i),
			Content:      "Transmission control and congestion avoidance.",
		}))
	}
	svc := sqlite.NewSearchService(db)

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, err := svc.Search(ctx, "congestion protocol", 1, prettyrfc.DefaultSearchLimit); err != nil {
			b.Fatal(err)
		}
	}
}
