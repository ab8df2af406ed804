// Package goquery extracts searchable text from rendered documents using
// github.com/PuerkitoBio/goquery.
package goquery

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/prettyrfc"
)

// Ensure TextExtractor implements prettyrfc.TextExtractor at compile time.
var _ prettyrfc.TextExtractor = (*TextExtractor)(nil)

// blockSelector lists the elements whose text becomes one line of output.
const blockSelector = "h1, h2, h3, h4, h5, h6, p, pre, li, dt, dd, td, th, blockquote"

var whitespace = regexp.MustCompile(`\s+`)

// TextExtractor flattens rendered HTML into plain text, one block per line.
type TextExtractor struct{}

// NewTextExtractor creates a new TextExtractor.
func NewTextExtractor() *TextExtractor {
	return &TextExtractor{}
}

// ExtractText returns the visible text of html. Markup is dropped and
// whitespace within each block is collapsed. Empty input yields "".
func (e *TextExtractor) ExtractText(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", prettyrfc.Errorf(prettyrfc.EINVALID, "failed to parse HTML: %v", err)
	}
	doc.Find("script, style, noscript").Remove()

	var lines []string
	doc.Find(blockSelector).Each(func(_ int, sel *goquery.Selection) {
		// Nested blocks produce their own lines.
		own := sel.Clone()
		own.Find(blockSelector).Remove()
		if text := collapse(own.Text()); text != "" {
			lines = append(lines, text)
		}
	})

	if len(lines) == 0 {
		return collapse(doc.Text()), nil
	}
	return strings.Join(lines, "\n"), nil
}

func collapse(s string) string {
	return strings.TrimSpace(whitespace.ReplaceAllString(s, " "))
}
