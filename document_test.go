package prettyrfc_test

import (
	"testing"

	"github.com/fwojciec/prettyrfc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocument_Validate(t *testing.T) {
	t.Parallel()

	t.Run("accepts a complete document", func(t *testing.T) {
		t.Parallel()

		doc := &prettyrfc.Document{ID: "RFC793", RawSource: "<rfc/>", RenderedHTML: "<p></p>"}

		assert.NoError(t, doc.Validate())
	})

	t.Run("rejects missing fields", func(t *testing.T) {
		t.Parallel()

		docs := []*prettyrfc.Document{
			{RawSource: "x", RenderedHTML: "y"},
			{ID: "RFC1", RenderedHTML: "y"},
			{ID: "RFC1", RawSource: "x"},
		}
		for _, doc := range docs {
			err := doc.Validate()
			require.Error(t, err)
			assert.Equal(t, prettyrfc.EINVALID, prettyrfc.ErrorCode(err))
		}
	})
}

func TestHashSource(t *testing.T) {
	t.Parallel()

	a := prettyrfc.HashSource("<rfc number=\"793\"/>")
	b := prettyrfc.HashSource("<rfc number=\"793\"/>")
	c := prettyrfc.HashSource("<rfc number=\"794\"/>")

	assert.Len(t, a, 16)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}
