package goquery_test

import (
	"testing"

	"github.com/fwojciec/prettyrfc"
	"github.com/fwojciec/prettyrfc/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ensure TextExtractor implements prettyrfc.TextExtractor at compile time.
var _ prettyrfc.TextExtractor = (*goquery.TextExtractor)(nil)

func TestTextExtractor_ExtractText(t *testing.T) {
	t.Parallel()

	t.Run("returns one line per block", func(t *testing.T) {
		t.Parallel()

		html := `<article class="rfc"><h2 id="section-1">1.  Introduction</h2>` +
			`<p>The Transmission Control Protocol   is intended
			for use as a <a href="/rfc791">RFC 791</a> companion.</p>` +
			`<pre>  +---+
  | A |
  +---+</pre></article>`

		text, err := goquery.NewTextExtractor().ExtractText(html)

		require.NoError(t, err)
		assert.Equal(t,
			"1. Introduction\nThe Transmission Control Protocol is intended for use as a RFC 791 companion.\n+---+ | A | +---+",
			text)
	})

	t.Run("does not repeat nested list text", func(t *testing.T) {
		t.Parallel()

		html := `<ul><li>first<ul><li>nested</li></ul></li><li>second</li></ul>`

		text, err := goquery.NewTextExtractor().ExtractText(html)

		require.NoError(t, err)
		assert.Equal(t, "first\nnested\nsecond", text)
	})

	t.Run("drops scripts and styles", func(t *testing.T) {
		t.Parallel()

		html := `<p>visible</p><script>alert(1)</script><style>p{}</style>`

		text, err := goquery.NewTextExtractor().ExtractText(html)

		require.NoError(t, err)
		assert.Equal(t, "visible", text)
	})

	t.Run("falls back to all text when there are no blocks", func(t *testing.T) {
		t.Parallel()

		text, err := goquery.NewTextExtractor().ExtractText(`<span>loose   text</span>`)

		require.NoError(t, err)
		assert.Equal(t, "loose text", text)
	})

	t.Run("returns empty string for empty input", func(t *testing.T) {
		t.Parallel()

		text, err := goquery.NewTextExtractor().ExtractText("  ")

		require.NoError(t, err)
		assert.Empty(t, text)
	})
}
