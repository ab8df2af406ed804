// Package etree parses RFC XML source (xml2rfc v2 and v3 vocabularies)
// into a prettyrfc.Outline using github.com/beevik/etree.
package etree

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/fwojciec/prettyrfc"
	"golang.org/x/net/html/charset"
)

// Ensure Parser implements prettyrfc.OutlineParser at compile time.
var _ prettyrfc.OutlineParser = (*Parser)(nil)

// Parser converts RFC XML into an Outline.
type Parser struct{}

// NewParser creates a new Parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse reads RFC XML. It returns EINVALID if source is not well-formed
// enough to read or its root element is not <rfc>. Unknown elements are
// rendered as plain paragraphs rather than rejected.
func (p *Parser) Parse(source string) (*prettyrfc.Outline, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.Permissive = true
	doc.ReadSettings.CharsetReader = charset.NewReaderLabel
	if err := doc.ReadFromString(source); err != nil {
		return nil, prettyrfc.Errorf(prettyrfc.EINVALID, "parse RFC XML: %v", err)
	}

	root := doc.Root()
	if root == nil || root.Tag != "rfc" {
		return nil, prettyrfc.Errorf(prettyrfc.EINVALID, "parse RFC XML: root element is not <rfc>")
	}

	w := newWalker(root)
	outline := &prettyrfc.Outline{}

	if front := root.SelectElement("front"); front != nil {
		if title := front.SelectElement("title"); title != nil {
			outline.Title = collapse(textOf(title))
		}
		if abstract := front.SelectElement("abstract"); abstract != nil {
			outline.Abstract = w.abstract(abstract)
		}
	}

	if middle := root.SelectElement("middle"); middle != nil {
		for _, sec := range middle.SelectElements("section") {
			w.nextNumber++
			w.section(sec, 1, strconv.Itoa(w.nextNumber))
		}
	}

	if back := root.SelectElement("back"); back != nil {
		w.back(back)
	}

	outline.Blocks = w.blocks
	return outline, nil
}

// walker accumulates blocks while visiting the document tree.
type walker struct {
	blocks []prettyrfc.Block
	set    *prettyrfc.AnchorSet

	// anchors maps source anchors to unique URL-safe anchors.
	anchors map[string]string

	// refTokens maps reference anchors to document tokens, e.g. "KEYWORDS" -> "RFC2119".
	refTokens map[string]string

	nextNumber int
}

func newWalker(root *etree.Element) *walker {
	w := &walker{
		set:       prettyrfc.NewAnchorSet(),
		anchors:   make(map[string]string),
		refTokens: make(map[string]string),
	}

	// Assign anchors in document order so forward references resolve.
	for _, el := range root.FindElements("//*[@anchor]") {
		anchor := el.SelectAttrValue("anchor", "")
		if _, ok := w.anchors[anchor]; !ok && anchor != "" {
			w.anchors[anchor] = w.set.Reserve(anchor)
		}
	}

	for _, ref := range root.FindElements("//reference") {
		if token := referenceToken(ref); token != "" {
			w.refTokens[ref.SelectAttrValue("anchor", "")] = token
		}
	}
	return w
}

// rfcAnchor matches reference anchors that already name an RFC, e.g. "RFC2119".
var rfcAnchor = regexp.MustCompile(`^RFC0*([0-9]+)$`)

// referenceToken returns the "RFC<n>" token a reference cites, or "".
func referenceToken(ref *etree.Element) string {
	for _, si := range ref.FindElements(".//seriesInfo") {
		if strings.EqualFold(si.SelectAttrValue("name", ""), "RFC") {
			if id, err := prettyrfc.ParseDocumentID(si.SelectAttrValue("value", "")); err == nil {
				return string(id)
			}
		}
	}
	if m := rfcAnchor.FindStringSubmatch(ref.SelectAttrValue("anchor", "")); m != nil {
		return "RFC" + m[1]
	}
	return ""
}

func (w *walker) abstract(el *etree.Element) string {
	w.blocks = append(w.blocks, prettyrfc.Block{
		Kind:   prettyrfc.BlockSection,
		Level:  1,
		Anchor: w.set.Reserve("abstract"),
		Inline: []prettyrfc.Inline{{Kind: prettyrfc.InlineText, Text: "Abstract"}},
	})
	start := len(w.blocks)
	w.children(el, 0)

	var paras []string
	for _, b := range w.blocks[start:] {
		if b.Kind == prettyrfc.BlockParagraph {
			paras = append(paras, b.Text())
		}
	}
	return strings.Join(paras, "\n\n")
}

// section emits a heading block followed by the section's content.
func (w *walker) section(el *etree.Element, level int, number string) {
	if el.SelectAttrValue("numbered", "true") == "false" {
		number = ""
	}

	var heading []prettyrfc.Inline
	if name := el.SelectElement("name"); name != nil {
		heading = w.inlines(name)
	} else {
		heading = []prettyrfc.Inline{{Kind: prettyrfc.InlineText, Text: el.SelectAttrValue("title", "")}}
	}
	heading = normalize(heading)
	if number != "" {
		heading = append([]prettyrfc.Inline{{Kind: prettyrfc.InlineText, Text: number + ".  "}}, heading...)
	}

	anchor := w.anchors[el.SelectAttrValue("anchor", "")]
	if anchor == "" && number != "" {
		anchor = w.set.Reserve("section-" + number)
	}

	w.blocks = append(w.blocks, prettyrfc.Block{
		Kind:   prettyrfc.BlockSection,
		Level:  level,
		Anchor: anchor,
		Inline: heading,
	})

	sub := 0
	for _, child := range el.ChildElements() {
		switch child.Tag {
		case "name":
		case "section":
			sub++
			w.section(child, level+1, subNumber(number, sub))
		default:
			w.block(child, 0)
		}
	}
}

func subNumber(parent string, n int) string {
	if parent == "" {
		return ""
	}
	return parent + "." + strconv.Itoa(n)
}

// back emits appendices and reference lists.
func (w *walker) back(back *etree.Element) {
	appendix := 0
	for _, child := range back.ChildElements() {
		switch child.Tag {
		case "references":
			w.nextNumber++
			w.references(child, 1, strconv.Itoa(w.nextNumber))
		case "section":
			w.section(child, 1, "Appendix "+string(rune('A'+appendix%26)))
			appendix++
		}
	}
}

// references handles both flat (v2) and nested (v3) reference lists.
func (w *walker) references(el *etree.Element, level int, number string) {
	title := el.SelectAttrValue("title", "References")
	if name := el.SelectElement("name"); name != nil {
		title = collapse(textOf(name))
	}

	anchor := w.anchors[el.SelectAttrValue("anchor", "")]
	if anchor == "" {
		anchor = w.set.Reserve("section-" + number)
	}
	w.blocks = append(w.blocks, prettyrfc.Block{
		Kind:   prettyrfc.BlockSection,
		Level:  level,
		Anchor: anchor,
		Inline: []prettyrfc.Inline{{Kind: prettyrfc.InlineText, Text: number + ".  " + title}},
	})

	sub := 0
	for _, child := range el.ChildElements() {
		switch child.Tag {
		case "references":
			sub++
			w.references(child, level+1, subNumber(number, sub))
		case "reference", "referencegroup":
			w.reference(child)
		}
	}
}

func (w *walker) reference(ref *etree.Element) {
	source := ref.SelectAttrValue("anchor", "")
	target := w.refTokens[source]
	if target == "" && w.anchors[source] != "" {
		target = "#" + w.anchors[source]
	}

	inline := []prettyrfc.Inline{{Kind: prettyrfc.InlineXRef, Text: "[" + source + "]", Target: target}}

	var parts []string
	for _, author := range ref.FindElements("front/author") {
		name := author.SelectAttrValue("fullname", "")
		if name == "" {
			name = author.SelectAttrValue("surname", "")
		}
		if name == "" {
			name = collapse(textOf(author.SelectElement("organization")))
		}
		if name != "" {
			parts = append(parts, name)
		}
	}
	if title := ref.FindElement("front/title"); title != nil {
		parts = append(parts, "\""+collapse(textOf(title))+"\"")
	}
	for _, si := range ref.SelectElements("seriesInfo") {
		parts = append(parts, strings.TrimSpace(si.SelectAttrValue("name", "")+" "+si.SelectAttrValue("value", "")))
	}
	if date := ref.FindElement("front/date"); date != nil {
		d := strings.TrimSpace(date.SelectAttrValue("month", "") + " " + date.SelectAttrValue("year", ""))
		if d != "" {
			parts = append(parts, d)
		}
	}
	if len(parts) > 0 {
		inline = append(inline, prettyrfc.Inline{Kind: prettyrfc.InlineText, Text: " " + strings.Join(parts, ", ") + "."})
	}
	if u := ref.SelectAttrValue("target", ""); isWebURL(u) {
		inline = append(inline,
			prettyrfc.Inline{Kind: prettyrfc.InlineText, Text: " "},
			prettyrfc.Inline{Kind: prettyrfc.InlineERef, Text: u, Target: u},
		)
	}

	w.blocks = append(w.blocks, prettyrfc.Block{
		Kind:   prettyrfc.BlockReference,
		Anchor: w.anchors[source],
		Inline: inline,
	})
}

// blockTags are elements that start a new block when found inside text.
var blockTags = map[string]bool{
	"t": true, "list": true, "ul": true, "ol": true, "dl": true,
	"figure": true, "artwork": true, "sourcecode": true, "blockquote": true,
	"aside": true, "note": true, "table": true, "texttable": true,
}

// block emits blocks for a content element. listLevel is the nesting depth
// of the enclosing list, or 0 outside lists.
func (w *walker) block(el *etree.Element, listLevel int) {
	switch el.Tag {
	case "t":
		kind := prettyrfc.BlockParagraph
		if listLevel > 0 {
			kind = prettyrfc.BlockListItem
		}
		w.paragraph(el, kind, listLevel)
	case "list", "ul", "ol":
		w.list(el, listLevel+1)
	case "dl":
		w.definitions(el, listLevel+1)
	case "artwork", "sourcecode":
		w.preformatted(el)
	case "figure":
		for _, child := range el.ChildElements() {
			switch child.Tag {
			case "preamble", "postamble", "name":
				w.paragraph(child, prettyrfc.BlockParagraph, 0)
			default:
				w.block(child, listLevel)
			}
		}
	case "texttable", "table":
		w.table(el)
	case "iref", "cref", "anchor-alias", "name":
	default:
		w.children(el, listLevel)
	}
}

// children emits blocks for el's content, treating loose text as a paragraph.
func (w *walker) children(el *etree.Element, listLevel int) {
	kind := prettyrfc.BlockParagraph
	if listLevel > 0 {
		kind = prettyrfc.BlockListItem
	}
	w.paragraph(el, kind, listLevel)
}

// paragraph collects inline runs into blocks of kind, splitting around any
// block-level children (v2 allows lists and figures inside <t>).
func (w *walker) paragraph(el *etree.Element, kind prettyrfc.BlockKind, level int) {
	var runs []prettyrfc.Inline
	flush := func() {
		runs = normalize(runs)
		if len(runs) > 0 {
			w.blocks = append(w.blocks, prettyrfc.Block{Kind: kind, Level: level, Inline: runs})
		}
		runs = nil
	}

	hang := el.SelectAttrValue("hangText", "")
	if hang != "" {
		runs = append(runs, prettyrfc.Inline{Kind: prettyrfc.InlineStrong, Text: hang}, prettyrfc.Inline{Kind: prettyrfc.InlineText, Text: " "})
	}

	for _, tok := range el.Child {
		switch t := tok.(type) {
		case *etree.CharData:
			runs = append(runs, prettyrfc.Inline{Kind: prettyrfc.InlineText, Text: t.Data})
		case *etree.Element:
			if blockTags[t.Tag] {
				flush()
				w.block(t, level)
				continue
			}
			runs = append(runs, w.inline(t)...)
		}
	}
	flush()
}

func (w *walker) list(el *etree.Element, level int) {
	for _, item := range el.ChildElements() {
		switch item.Tag {
		case "t", "li":
			w.paragraph(item, prettyrfc.BlockListItem, level)
		default:
			w.block(item, level-1)
		}
	}
}

func (w *walker) definitions(el *etree.Element, level int) {
	for _, item := range el.ChildElements() {
		switch item.Tag {
		case "dt":
			runs := normalize([]prettyrfc.Inline{{Kind: prettyrfc.InlineStrong, Text: textOf(item)}})
			if len(runs) > 0 {
				w.blocks = append(w.blocks, prettyrfc.Block{Kind: prettyrfc.BlockListItem, Level: level, Inline: runs})
			}
		case "dd":
			w.paragraph(item, prettyrfc.BlockListItem, level+1)
		}
	}
}

func (w *walker) preformatted(el *etree.Element) {
	var sb strings.Builder
	for _, tok := range el.Child {
		if cd, ok := tok.(*etree.CharData); ok {
			sb.WriteString(cd.Data)
		}
	}
	text := strings.Trim(strings.ReplaceAll(sb.String(), "\r\n", "\n"), "\n")
	if strings.TrimSpace(text) == "" {
		// SVG-only artwork falls back to its alternative text.
		text = el.SelectAttrValue("alt", "")
	}
	if strings.TrimSpace(text) == "" {
		return
	}
	w.blocks = append(w.blocks, prettyrfc.Block{
		Kind:   prettyrfc.BlockPreformatted,
		Anchor: w.anchors[el.SelectAttrValue("anchor", "")],
		Inline: []prettyrfc.Inline{{Kind: prettyrfc.InlineText, Text: text}},
	})
}

// table flattens v2 <texttable> and v3 <table> into preformatted rows.
func (w *walker) table(el *etree.Element) {
	var rows [][]string
	if el.Tag == "texttable" {
		cols := el.SelectElements("ttcol")
		var header []string
		for _, c := range cols {
			header = append(header, collapse(textOf(c)))
		}
		rows = append(rows, header)
		cells := el.SelectElements("c")
		for i := 0; len(cols) > 0 && i < len(cells); i += len(cols) {
			var row []string
			for j := i; j < i+len(cols) && j < len(cells); j++ {
				row = append(row, collapse(textOf(cells[j])))
			}
			rows = append(rows, row)
		}
	} else {
		for _, tr := range el.FindElements(".//tr") {
			var row []string
			for _, cell := range tr.ChildElements() {
				row = append(row, collapse(textOf(cell)))
			}
			rows = append(rows, row)
		}
	}

	var lines []string
	for _, row := range rows {
		if len(row) > 0 {
			lines = append(lines, strings.Join(row, " | "))
		}
	}
	if len(lines) == 0 {
		return
	}
	w.blocks = append(w.blocks, prettyrfc.Block{
		Kind:   prettyrfc.BlockPreformatted,
		Inline: []prettyrfc.Inline{{Kind: prettyrfc.InlineText, Text: strings.Join(lines, "\n")}},
	})
}

// inlines returns the inline runs of el's content.
func (w *walker) inlines(el *etree.Element) []prettyrfc.Inline {
	var runs []prettyrfc.Inline
	for _, tok := range el.Child {
		switch t := tok.(type) {
		case *etree.CharData:
			runs = append(runs, prettyrfc.Inline{Kind: prettyrfc.InlineText, Text: t.Data})
		case *etree.Element:
			runs = append(runs, w.inline(t)...)
		}
	}
	return runs
}

// inline converts one inline element into runs.
func (w *walker) inline(el *etree.Element) []prettyrfc.Inline {
	text := textOf(el)
	switch el.Tag {
	case "xref", "relref":
		source := el.SelectAttrValue("target", "")
		if strings.TrimSpace(text) == "" {
			text = "[" + source + "]"
		}
		return []prettyrfc.Inline{{Kind: prettyrfc.InlineXRef, Text: text, Target: w.xrefTarget(source)}}
	case "eref":
		target := el.SelectAttrValue("target", "")
		if strings.TrimSpace(text) == "" {
			text = target
		}
		if !isWebURL(target) {
			return []prettyrfc.Inline{{Kind: prettyrfc.InlineText, Text: text}}
		}
		return []prettyrfc.Inline{{Kind: prettyrfc.InlineERef, Text: text, Target: target}}
	case "em", "i":
		return []prettyrfc.Inline{{Kind: prettyrfc.InlineEmphasis, Text: text}}
	case "strong", "b", "bcp14":
		return []prettyrfc.Inline{{Kind: prettyrfc.InlineStrong, Text: text}}
	case "tt", "code":
		return []prettyrfc.Inline{{Kind: prettyrfc.InlineCode, Text: text}}
	case "spanx":
		switch el.SelectAttrValue("style", "emph") {
		case "strong":
			return []prettyrfc.Inline{{Kind: prettyrfc.InlineStrong, Text: text}}
		case "verb":
			return []prettyrfc.Inline{{Kind: prettyrfc.InlineCode, Text: text}}
		default:
			return []prettyrfc.Inline{{Kind: prettyrfc.InlineEmphasis, Text: text}}
		}
	case "vspace", "br":
		return []prettyrfc.Inline{{Kind: prettyrfc.InlineText, Text: " "}}
	case "iref", "cref":
		return nil
	default:
		return w.inlines(el)
	}
}

// xrefTarget maps an xref target to an RFC token or an in-document anchor.
func (w *walker) xrefTarget(source string) string {
	if token, ok := w.refTokens[source]; ok {
		return token
	}
	if anchor, ok := w.anchors[source]; ok && anchor != "" {
		return "#" + anchor
	}
	return source
}

// textOf returns all character data beneath el, in document order.
func textOf(el *etree.Element) string {
	if el == nil {
		return ""
	}
	var sb strings.Builder
	var walk func(e *etree.Element)
	walk = func(e *etree.Element) {
		for _, tok := range e.Child {
			switch t := tok.(type) {
			case *etree.CharData:
				sb.WriteString(t.Data)
			case *etree.Element:
				walk(t)
			}
		}
	}
	walk(el)
	return sb.String()
}

var whitespace = regexp.MustCompile(`\s+`)

// collapse folds runs of whitespace into single spaces and trims the ends.
func collapse(s string) string {
	return strings.TrimSpace(whitespace.ReplaceAllString(s, " "))
}

// normalize collapses whitespace across runs, trims the ends of the
// sequence and drops empty runs. Returns nil if no visible text remains.
func normalize(runs []prettyrfc.Inline) []prettyrfc.Inline {
	var out []prettyrfc.Inline
	for _, r := range runs {
		r.Text = whitespace.ReplaceAllString(r.Text, " ")
		if r.Text == "" {
			continue
		}
		// Avoid double spaces where runs meet.
		if len(out) > 0 && strings.HasPrefix(r.Text, " ") && strings.HasSuffix(out[len(out)-1].Text, " ") {
			r.Text = r.Text[1:]
			if r.Text == "" {
				continue
			}
		}
		out = append(out, r)
	}
	if len(out) == 0 {
		return nil
	}

	out[0].Text = strings.TrimLeft(out[0].Text, " ")
	last := len(out) - 1
	out[last].Text = strings.TrimRight(out[last].Text, " ")

	var visible bool
	for _, r := range out {
		if strings.TrimSpace(r.Text) != "" {
			visible = true
			break
		}
	}
	if !visible {
		return nil
	}
	return out
}

func isWebURL(u string) bool {
	return strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://")
}
