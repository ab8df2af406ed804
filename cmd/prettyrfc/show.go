package main

import (
	"fmt"

	"github.com/fwojciec/prettyrfc"
)

// Run executes the show command.
func (c *ShowCmd) Run(deps *Dependencies) error {
	doc, err := deps.Resolver.Resolve(deps.Ctx, c.ID)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", prettyrfc.ErrorMessage(err))
		return err
	}

	switch {
	case c.HTML:
		fmt.Fprintln(deps.Stdout, doc.RenderedHTML)
	case c.Markdown:
		md, err := deps.Converter.Convert(doc.RenderedHTML)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", prettyrfc.ErrorMessage(err))
			return err
		}
		fmt.Fprintln(deps.Stdout, md)
	default:
		fmt.Fprintf(deps.Stdout, "%s: %s\n\n%s\n", doc.ID.DisplayName(), doc.Title, doc.Content)
	}

	return nil
}
