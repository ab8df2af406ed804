package prettyrfc

import (
	"regexp"
	"strings"
)

// BlockKind identifies the type of a Block.
type BlockKind string

// Block kinds produced by document parsers.
const (
	BlockSection      BlockKind = "section"
	BlockParagraph    BlockKind = "paragraph"
	BlockPreformatted BlockKind = "preformatted"
	BlockListItem     BlockKind = "list-item"
	BlockReference    BlockKind = "reference"
)

// InlineKind identifies the type of an Inline run.
type InlineKind string

// Inline kinds produced by document parsers.
const (
	InlineText     InlineKind = "text"
	InlineXRef     InlineKind = "xref" // Target is a reference anchor or document token
	InlineERef     InlineKind = "eref" // Target is an external URL
	InlineEmphasis InlineKind = "emphasis"
	InlineStrong   InlineKind = "strong"
	InlineCode     InlineKind = "code"
)

// Inline is a run of text within a block.
type Inline struct {
	Kind   InlineKind `json:"kind"`
	Text   string     `json:"text"`
	Target string     `json:"target,omitempty"`
}

// Block is a unit of document structure.
// Section blocks carry the heading in Inline; Level is the nesting depth
// starting at 1. Preformatted blocks hold a single text run with whitespace
// preserved.
type Block struct {
	Kind   BlockKind `json:"kind"`
	Level  int       `json:"level,omitempty"`
	Anchor string    `json:"anchor,omitempty"`
	Inline []Inline  `json:"inline"`
}

// Text returns the concatenated text of the block.
func (b Block) Text() string {
	var sb strings.Builder
	for _, in := range b.Inline {
		sb.WriteString(in.Text)
	}
	return sb.String()
}

// Outline is the parsed structure of a document.
type Outline struct {
	Title    string
	Abstract string
	Blocks   []Block
}

// OutlineParser parses document source into an Outline.
type OutlineParser interface {
	// Parse returns an error if the source is not in the parser's format.
	Parse(source string) (*Outline, error)
}

// Rendering is the output of a Renderer.
type Rendering struct {
	HTML       string
	Title      string
	Abstract   string
	Blocks     []Block
	References []DocumentID
}

// Renderer transforms raw document source into HTML.
type Renderer interface {
	// Render is a pure function of source and the resolver's answers.
	// It degrades gracefully on malformed input; empty source yields an
	// empty Rendering.
	Render(source string, xrefs CrossReferenceResolver) (*Rendering, error)
}

// CrossReferenceResolver maps a cross-reference token, such as "RFC793",
// to a link target.
type CrossReferenceResolver interface {
	// ResolveReference returns the link target and true, or false if the
	// token should remain plain text.
	ResolveReference(token string) (target string, ok bool)
}

// CrossReferenceFunc adapts a function to CrossReferenceResolver.
type CrossReferenceFunc func(token string) (string, bool)

// ResolveReference calls f(token).
func (f CrossReferenceFunc) ResolveReference(token string) (string, bool) {
	return f(token)
}

// crossReferenceToken matches "RFC793", "RFC 793" and "RFC-793".
var crossReferenceToken = regexp.MustCompile(`\bRFC[ -]?([0-9]+)\b`)

// FindCrossReferences returns the index pairs of cross-reference tokens in text.
func FindCrossReferences(text string) [][]int {
	return crossReferenceToken.FindAllStringIndex(text, -1)
}

// CompactReference strips the separator from a token such as "RFC 793".
func CompactReference(token string) string {
	m := crossReferenceToken.FindStringSubmatch(token)
	if m == nil {
		return token
	}
	return "RFC" + m[1]
}

// referenceTarget matches tokens accepted by PathResolver.
var referenceTarget = regexp.MustCompile(`^RFC[0-9]+$`)

// PathResolver resolves "RFC<n>" tokens to canonical document paths.
var PathResolver CrossReferenceResolver = CrossReferenceFunc(func(token string) (string, bool) {
	if !referenceTarget.MatchString(token) {
		return "", false
	}
	id, err := ParseDocumentID(token)
	if err != nil {
		return "", false
	}
	return id.Path(), true
})

// classificationMarker matches a bracketed status tag such as
// "[STANDARDS TRACK]" or "[STANDARDS-TRACK]" at the start of an abstract.
var classificationMarker = regexp.MustCompile(`^\s*\[[A-Z][A-Z -]*[A-Z]\]\s*`)

// CleanAbstract removes a leading classification marker from text, together
// with the whitespace before it and the whitespace separating it from the
// prose. The rest of text, including trailing whitespace, is unchanged.
// Text without a leading marker is returned as is.
func CleanAbstract(text string) string {
	return classificationMarker.ReplaceAllString(text, "")
}
