package mock

import "github.com/fwojciec/prettyrfc"

var _ prettyrfc.TextExtractor = (*TextExtractor)(nil)

// TextExtractor is a mock implementation of prettyrfc.TextExtractor.
type TextExtractor struct {
	ExtractTextFn func(html string) (string, error)
}

func (e *TextExtractor) ExtractText(html string) (string, error) {
	return e.ExtractTextFn(html)
}
