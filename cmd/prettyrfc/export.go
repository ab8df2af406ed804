package main

import (
	"fmt"

	"github.com/fwojciec/prettyrfc"
)

// Run executes the export command.
func (c *ExportCmd) Run(deps *Dependencies) error {
	docs, err := deps.Documents.FindDocuments(deps.Ctx, prettyrfc.DocumentFilter{})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", prettyrfc.ErrorMessage(err))
		return err
	}

	if len(docs) == 0 {
		_ = deps.Exports.Abort()
		fmt.Fprintln(deps.Stdout, "No documents to export. Use 'prettyrfc fetch' to add documents.")
		return nil
	}

	for _, doc := range docs {
		md, err := deps.Converter.Convert(doc.RenderedHTML)
		if err == nil {
			err = deps.Exports.Save(deps.Ctx, &prettyrfc.Export{
				ID:           doc.ID,
				Title:        doc.Title,
				Markdown:     md,
				LastModified: doc.LastModified.UTC().Format("2006-01-02"),
			})
		}
		if err != nil {
			_ = deps.Exports.Abort()
			fmt.Fprintf(deps.Stderr, "error exporting %s: %s\n", doc.ID.DisplayName(), prettyrfc.ErrorMessage(err))
			return err
		}
	}

	if err := deps.Exports.Commit(); err != nil {
		fmt.Fprintf(deps.Stderr, "error committing: %v\n", err)
		return err
	}
	fmt.Fprintf(deps.Stdout, "Exported %d documents to %s\n", len(docs), c.Dir)

	return nil
}
