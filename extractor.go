package prettyrfc

// TextExtractor extracts indexable plain text from rendered HTML.
type TextExtractor interface {
	// ExtractText returns the visible text of html with block boundaries
	// preserved as line breaks.
	ExtractText(html string) (string, error)
}
