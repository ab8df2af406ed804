package main

import (
	"fmt"

	"github.com/fwojciec/prettyrfc"
	"github.com/fwojciec/prettyrfc/crawl"
)

// Run executes the fetch command.
func (c *FetchCmd) Run(deps *Dependencies) error {
	seeds := make([]prettyrfc.DocumentID, 0, len(c.IDs))
	for _, s := range c.IDs {
		id, err := prettyrfc.ParseDocumentID(s)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", prettyrfc.ErrorMessage(err))
			return err
		}
		seeds = append(seeds, id)
	}

	if c.Concurrency > 0 {
		deps.Crawler.Concurrency = c.Concurrency
	}
	deps.Crawler.MaxDepth = c.Follow

	progress := func(event crawl.ProgressEvent) {
		switch event.Type {
		case crawl.ProgressCompleted:
			fmt.Fprintf(deps.Stdout, "[%d/%d] %s\n", event.Completed, event.Total, event.ID.DisplayName())
		case crawl.ProgressFailed:
			fmt.Fprintf(deps.Stderr, "  skip %s: %s\n", event.ID.DisplayName(), prettyrfc.ErrorMessage(event.Error))
		}
	}

	result, err := deps.Crawler.Crawl(deps.Ctx, seeds, progress)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error fetching: %v\n", err)
		return err
	}

	fmt.Fprintf(deps.Stdout, "Saved %d documents (%s)\n", result.Saved, crawl.FormatBytes(result.Bytes))
	if result.Failed > 0 {
		return fmt.Errorf("%d documents failed", result.Failed)
	}
	return nil
}
