package main

import (
	"fmt"
	"strings"

	"github.com/fwojciec/prettyrfc"
)

// Run executes the search command.
func (c *SearchCmd) Run(deps *Dependencies) error {
	query := strings.Join(c.Query, " ")
	result, err := deps.Search.Search(deps.Ctx, query, c.Page, c.Limit)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", prettyrfc.ErrorMessage(err))
		return err
	}

	if len(result.Hits) == 0 {
		fmt.Fprintf(deps.Stdout, "No results for %q. Use 'prettyrfc fetch' to add documents.\n", query)
		return nil
	}

	for _, hit := range result.Hits {
		fmt.Fprintf(deps.Stdout, "%-9s %s\n", hit.Document.ID.DisplayName(), hit.Document.Title)
		if hit.Snippet != "" {
			fmt.Fprintf(deps.Stdout, "          %s\n", hit.Snippet)
		}
	}
	fmt.Fprintf(deps.Stdout, "\nPage %d of %d (%d results)\n", result.Page, result.PageCount(), result.Total)

	return nil
}
