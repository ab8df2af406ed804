package prettyrfc

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

var (
	// pageFooter matches the last line of a paginated page: "Postel   [Page 3]".
	pageFooter = regexp.MustCompile(`\[Page [0-9ivxlc]+\]\s*$`)

	// pageHeader matches the running header: "RFC 793   Transmission Control Protocol   September 1981".
	pageHeader = regexp.MustCompile(`^RFC [0-9]+\s{2,}.*\s{2,}\S+ [0-9]{4}\s*$`)

	// numberedHeading matches "1.  Introduction", "3.2. Terminology" and "Appendix A. Examples".
	numberedHeading = regexp.MustCompile(`^((?:[0-9]+|[A-Z])(?:\.[0-9]+)*)\.?\s+(\S.*)$`)
	appendixHeading = regexp.MustCompile(`^Appendix ([A-Z])\.?\s+(\S.*)$`)

	// Column layout, ASCII art and dot leaders mark preformatted text.
	columnGap  = regexp.MustCompile(`\S {3,}\S`)
	asciiArt   = regexp.MustCompile(`[+|]-{2,}|-{2,}[+|]|^\s*\|.*\|\s*$|\.{4,}|_{4,}|={4,}`)
	lineIndent = regexp.MustCompile(`^ *`)
)

// ParsePlainText segments legacy plain-text RFC source into an Outline.
// It never fails: text it cannot classify becomes paragraphs or
// preformatted blocks. Empty source yields an empty Outline.
func ParsePlainText(source string) *Outline {
	outline := &Outline{}
	chunks := splitChunks(stripPagination(source))
	if len(chunks) == 0 {
		return outline
	}

	anchors := NewAnchorSet()
	var abstract []string
	inAbstract := false
	seenHeading := false

	for i, chunk := range chunks {
		if heading, level, number, ok := parseHeading(chunk); ok {
			seenHeading = true
			inAbstract = strings.EqualFold(heading, "Abstract")
			title, anchor := heading, ""
			if number != "" {
				title = number + ".  " + heading
				anchor = anchors.Reserve("section-" + number)
			} else {
				anchor = anchors.Add(heading)
			}
			outline.Blocks = append(outline.Blocks, Block{
				Kind:   BlockSection,
				Level:  level,
				Anchor: anchor,
				Inline: []Inline{{Kind: InlineText, Text: title}},
			})
			continue
		}

		// The centered title on the first page precedes any heading.
		if !seenHeading && outline.Title == "" && i > 0 && isCentered(chunk) {
			outline.Title = joinLines(chunk)
			continue
		}

		if isPreformatted(chunk) {
			outline.Blocks = append(outline.Blocks, Block{
				Kind:   BlockPreformatted,
				Inline: []Inline{{Kind: InlineText, Text: dedent(chunk)}},
			})
			continue
		}

		text := joinLines(chunk)
		if inAbstract {
			abstract = append(abstract, text)
		}
		outline.Blocks = append(outline.Blocks, Block{
			Kind:   BlockParagraph,
			Inline: []Inline{{Kind: InlineText, Text: text}},
		})
	}

	outline.Abstract = strings.Join(abstract, "\n\n")
	return outline
}

// stripPagination removes form feeds, running headers and page footers.
func stripPagination(source string) string {
	source = strings.ReplaceAll(source, "\r\n", "\n")
	source = strings.ReplaceAll(source, "\r", "\n")

	var out []string
	for _, line := range strings.Split(source, "\n") {
		line = strings.TrimRight(strings.ReplaceAll(line, "\f", ""), " \t")
		if pageFooter.MatchString(line) || pageHeader.MatchString(line) {
			continue
		}
		out = append(out, strings.ReplaceAll(line, "\t", "        "))
	}
	return strings.Join(out, "\n")
}

// splitChunks splits text into runs of non-blank lines.
func splitChunks(text string) [][]string {
	var chunks [][]string
	var current []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			if len(current) > 0 {
				chunks = append(chunks, current)
				current = nil
			}
			continue
		}
		current = append(current, line)
	}
	if len(current) > 0 {
		chunks = append(chunks, current)
	}
	return chunks
}

// parseHeading reports whether chunk is a single unindented heading line.
// Returns the heading text, its nesting level and its section number.
func parseHeading(chunk []string) (heading string, level int, number string, ok bool) {
	if len(chunk) != 1 {
		return "", 0, "", false
	}
	line := chunk[0]
	if line == "" || line[0] == ' ' || len(line) > 72 {
		return "", 0, "", false
	}

	if m := appendixHeading.FindStringSubmatch(line); m != nil {
		return strings.TrimSpace(m[2]), 1, "Appendix " + m[1], true
	}
	if m := numberedHeading.FindStringSubmatch(line); m != nil {
		// A bare letter followed by text is prose, not a heading.
		if len(m[1]) == 1 && unicode.IsLetter(rune(m[1][0])) {
			return "", 0, "", false
		}
		return strings.TrimSpace(m[2]), strings.Count(m[1], ".") + 1, m[1], true
	}

	// Unnumbered headings such as "Abstract" or "Status of This Memo".
	if strings.HasSuffix(line, ".") || strings.HasSuffix(line, ",") || columnGap.MatchString(line) {
		return "", 0, "", false
	}
	if !unicode.IsUpper(rune(line[0])) {
		return "", 0, "", false
	}
	return strings.TrimSpace(line), 1, "", true
}

func indentOf(line string) int {
	return len(lineIndent.FindString(line))
}

// isCentered reports whether every line of chunk is deeply indented.
func isCentered(chunk []string) bool {
	for _, line := range chunk {
		if indentOf(line) < 10 {
			return false
		}
	}
	return true
}

func isPreformatted(chunk []string) bool {
	minIndent := -1
	for _, line := range chunk {
		if columnGap.MatchString(strings.TrimLeft(line, " ")) || asciiArt.MatchString(line) {
			return true
		}
		if n := indentOf(line); minIndent == -1 || n < minIndent {
			minIndent = n
		}
	}
	// Body text is indented three columns; figures and code sit deeper.
	return minIndent >= 8
}

// joinLines joins trimmed lines with single spaces.
func joinLines(chunk []string) string {
	parts := make([]string, 0, len(chunk))
	for _, line := range chunk {
		parts = append(parts, strings.TrimSpace(line))
	}
	return strings.Join(parts, " ")
}

// dedent removes the common leading indentation of chunk.
func dedent(chunk []string) string {
	minIndent := -1
	for _, line := range chunk {
		if n := indentOf(line); minIndent == -1 || n < minIndent {
			minIndent = n
		}
	}
	lines := make([]string, 0, len(chunk))
	for _, line := range chunk {
		lines = append(lines, line[minIndent:])
	}
	return strings.Join(lines, "\n")
}

// AnchorSet generates unique URL-safe anchors.
// Duplicates get numeric suffixes: "intro", "intro-1", "intro-2".
type AnchorSet struct {
	counts map[string]int
}

// NewAnchorSet returns an empty AnchorSet.
func NewAnchorSet() *AnchorSet {
	return &AnchorSet{counts: make(map[string]int)}
}

// Add derives an anchor from title and returns a unique version of it.
func (s *AnchorSet) Add(title string) string {
	return s.Reserve(generateAnchor(title))
}

// Reserve returns anchor, or a suffixed version if it is already taken.
func (s *AnchorSet) Reserve(anchor string) string {
	anchor = generateAnchor(anchor)
	if anchor == "" {
		anchor = "section"
	}
	count, exists := s.counts[anchor]
	s.counts[anchor] = count + 1
	if !exists {
		return anchor
	}
	return anchor + "-" + strconv.Itoa(count)
}

// generateAnchor creates a URL-safe anchor from a title.
// Converts to lowercase, replaces spaces with hyphens, removes special chars.
func generateAnchor(title string) string {
	var sb strings.Builder
	prevHyphen := false

	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '.' || r == '_' {
			sb.WriteRune(r)
			prevHyphen = false
		} else if unicode.IsSpace(r) || r == '-' {
			if !prevHyphen && sb.Len() > 0 {
				sb.WriteRune('-')
				prevHyphen = true
			}
		}
	}

	result := sb.String()
	// Trim trailing hyphen
	return strings.TrimSuffix(result, "-")
}
