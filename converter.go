package prettyrfc

// Converter converts HTML to Markdown.
type Converter interface {
	// Convert transforms rendered document HTML into Markdown.
	Convert(html string) (string, error)
}
