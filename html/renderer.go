// Package html renders document outlines to HTML using golang.org/x/net/html.
package html

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/fwojciec/prettyrfc"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Ensure Renderer implements prettyrfc.Renderer at compile time.
var _ prettyrfc.Renderer = (*Renderer)(nil)

// Renderer turns RFC source into HTML. XML source is read with the
// configured OutlineParser; anything else, including XML the parser
// rejects, is read as legacy plain text.
type Renderer struct {
	xml prettyrfc.OutlineParser
}

// NewRenderer creates a Renderer that reads XML with the given parser.
// A nil parser treats all source as plain text.
func NewRenderer(xml prettyrfc.OutlineParser) *Renderer {
	return &Renderer{xml: xml}
}

// Render parses source and renders it to HTML, linking every cross-reference
// token the resolver answers for.
func (r *Renderer) Render(source string, xrefs prettyrfc.CrossReferenceResolver) (*prettyrfc.Rendering, error) {
	trimmed := strings.TrimSpace(strings.TrimPrefix(source, "\ufeff"))
	if trimmed == "" {
		return &prettyrfc.Rendering{}, nil
	}

	outline := r.parse(trimmed, source)

	w := &writer{
		xrefs:   xrefs,
		anchors: make(map[string]bool),
		seen:    make(map[prettyrfc.DocumentID]bool),
	}
	for _, b := range outline.Blocks {
		if b.Anchor != "" {
			w.anchors[b.Anchor] = true
		}
	}

	root := element(atom.Article, "class", "rfc")
	w.blocks(root, outline.Blocks)

	var buf bytes.Buffer
	if err := html.Render(&buf, root); err != nil {
		return nil, prettyrfc.Errorf(prettyrfc.ERENDER, "render HTML: %v", err)
	}

	return &prettyrfc.Rendering{
		HTML:       buf.String(),
		Title:      outline.Title,
		Abstract:   prettyrfc.CleanAbstract(outline.Abstract),
		Blocks:     outline.Blocks,
		References: w.references,
	}, nil
}

func (r *Renderer) parse(trimmed, source string) *prettyrfc.Outline {
	if r.xml != nil && strings.HasPrefix(trimmed, "<") {
		if outline, err := r.xml.Parse(source); err == nil {
			return outline
		}
	}
	return prettyrfc.ParsePlainText(source)
}

// writer builds the HTML node tree for one rendering.
type writer struct {
	xrefs      prettyrfc.CrossReferenceResolver
	anchors    map[string]bool
	seen       map[prettyrfc.DocumentID]bool
	references []prettyrfc.DocumentID
}

// blocks appends nodes for blocks to parent. Consecutive list items are
// grouped into nested <ul> elements by level.
func (w *writer) blocks(parent *html.Node, blocks []prettyrfc.Block) {
	var lists []*html.Node // open <ul> per nesting level
	for _, b := range blocks {
		if b.Kind != prettyrfc.BlockListItem {
			lists = nil
		}
		switch b.Kind {
		case prettyrfc.BlockSection:
			level := b.Level + 1
			if level > 6 {
				level = 6
			}
			h := element(headingAtoms[level-1])
			setAnchor(h, b.Anchor)
			w.inlines(h, b.Inline)
			parent.AppendChild(h)
		case prettyrfc.BlockPreformatted:
			pre := element(atom.Pre)
			setAnchor(pre, b.Anchor)
			w.inlines(pre, b.Inline)
			parent.AppendChild(pre)
		case prettyrfc.BlockReference:
			p := element(atom.P, "class", "reference")
			setAnchor(p, b.Anchor)
			w.inlines(p, b.Inline)
			parent.AppendChild(p)
		case prettyrfc.BlockListItem:
			lists = w.listItem(parent, lists, b)
		default:
			p := element(atom.P)
			setAnchor(p, b.Anchor)
			w.inlines(p, b.Inline)
			parent.AppendChild(p)
		}
	}
}

// listItem appends b to the list stack, opening or closing nested lists
// to match its level, and returns the updated stack.
func (w *writer) listItem(parent *html.Node, lists []*html.Node, b prettyrfc.Block) []*html.Node {
	level := b.Level
	if level < 1 {
		level = 1
	}
	if len(lists) > level {
		lists = lists[:level]
	}
	for len(lists) < level {
		ul := element(atom.Ul)
		if len(lists) == 0 {
			parent.AppendChild(ul)
		} else if last := lists[len(lists)-1].LastChild; last != nil {
			last.AppendChild(ul)
		} else {
			li := element(atom.Li)
			li.AppendChild(ul)
			lists[len(lists)-1].AppendChild(li)
		}
		lists = append(lists, ul)
	}

	li := element(atom.Li)
	setAnchor(li, b.Anchor)
	w.inlines(li, b.Inline)
	lists[len(lists)-1].AppendChild(li)
	return lists
}

var headingAtoms = []atom.Atom{atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6}

func (w *writer) inlines(parent *html.Node, runs []prettyrfc.Inline) {
	for _, in := range runs {
		switch in.Kind {
		case prettyrfc.InlineXRef:
			w.xref(parent, in)
		case prettyrfc.InlineERef:
			a := element(atom.A, "href", in.Target, "class", "external")
			a.AppendChild(text(in.Text))
			parent.AppendChild(a)
		case prettyrfc.InlineEmphasis:
			em := element(atom.Em)
			w.text(em, in.Text)
			parent.AppendChild(em)
		case prettyrfc.InlineStrong:
			strong := element(atom.Strong)
			w.text(strong, in.Text)
			parent.AppendChild(strong)
		case prettyrfc.InlineCode:
			code := element(atom.Code)
			w.text(code, in.Text)
			parent.AppendChild(code)
		default:
			w.text(parent, in.Text)
		}
	}
}

// xref links an explicit cross-reference to another document or to an
// anchor in this one. Unresolvable targets remain plain text.
func (w *writer) xref(parent *html.Node, in prettyrfc.Inline) {
	var href string
	switch {
	case strings.HasPrefix(in.Target, "#"):
		if w.anchors[in.Target[1:]] {
			href = in.Target
		}
	default:
		token := prettyrfc.CompactReference(in.Target)
		w.cite(token)
		if target, ok := w.resolve(token); ok {
			href = target
		}
	}

	if href == "" {
		parent.AppendChild(text(in.Text))
		return
	}
	a := element(atom.A, "href", href)
	a.AppendChild(text(in.Text))
	parent.AppendChild(a)
}

// text appends s to parent, wrapping every cross-reference token the
// resolver answers for in a link. The visible text is left unchanged.
func (w *writer) text(parent *html.Node, s string) {
	last := 0
	for _, loc := range prettyrfc.FindCrossReferences(s) {
		token := s[loc[0]:loc[1]]
		compact := prettyrfc.CompactReference(token)
		w.cite(compact)
		target, ok := w.resolve(compact)
		if !ok {
			continue
		}
		if loc[0] > last {
			parent.AppendChild(text(s[last:loc[0]]))
		}
		a := element(atom.A, "href", target)
		a.AppendChild(text(token))
		parent.AppendChild(a)
		last = loc[1]
	}
	if last < len(s) {
		parent.AppendChild(text(s[last:]))
	}
}

func (w *writer) resolve(token string) (string, bool) {
	if w.xrefs == nil {
		return "", false
	}
	return w.xrefs.ResolveReference(token)
}

// cite records the document a token names, once.
func (w *writer) cite(token string) {
	if !strings.HasPrefix(token, "RFC") {
		return
	}
	if _, err := strconv.Atoi(token[3:]); err != nil {
		return
	}
	id, err := prettyrfc.ParseDocumentID(token)
	if err != nil || w.seen[id] {
		return
	}
	w.seen[id] = true
	w.references = append(w.references, id)
}

func element(a atom.Atom, attrs ...string) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
	for i := 0; i+1 < len(attrs); i += 2 {
		n.Attr = append(n.Attr, html.Attribute{Key: attrs[i], Val: attrs[i+1]})
	}
	return n
}

func setAnchor(n *html.Node, anchor string) {
	if anchor != "" {
		n.Attr = append(n.Attr, html.Attribute{Key: "id", Val: anchor})
	}
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}
