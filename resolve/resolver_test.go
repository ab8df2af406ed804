package resolve_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/fwojciec/prettyrfc"
	"github.com/fwojciec/prettyrfc/mock"
	"github.com/fwojciec/prettyrfc/resolve"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolver_Resolve(t *testing.T) {
	t.Parallel()

	t.Run("normalizes loose input", func(t *testing.T) {
		t.Parallel()

		var fetched []prettyrfc.DocumentID
		fetcher := &mock.Fetcher{
			FetchFn: func(ctx context.Context, id prettyrfc.DocumentID) (string, error) {
				fetched = append(fetched, id)
				return "source", nil
			},
		}
		resolver := resolve.NewResolver(resolve.NewRepository(fetcher, staticRenderer(), memoryDocuments(), nil))

		doc, err := resolver.Resolve(context.Background(), "rfc 0793")

		require.NoError(t, err)
		assert.Equal(t, prettyrfc.DocumentID("RFC793"), doc.ID)
		assert.Equal(t, []prettyrfc.DocumentID{"RFC793"}, fetched)
	})

	t.Run("renders with the path resolver", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		var got prettyrfc.CrossReferenceResolver
		renderer := &mock.Renderer{
			RenderFn: func(source string, xrefs prettyrfc.CrossReferenceResolver) (*prettyrfc.Rendering, error) {
				got = xrefs
				return &prettyrfc.Rendering{HTML: "<p></p>"}, nil
			},
		}
		resolver := resolve.NewResolver(resolve.NewRepository(countingFetcher(&calls, "source"), renderer, memoryDocuments(), nil))

		_, err := resolver.Resolve(context.Background(), "793")
		require.NoError(t, err)

		require.NotNil(t, got)
		target, ok := got.ResolveReference("RFC2119")
		assert.True(t, ok)
		assert.Equal(t, "/rfc2119", target)
	})

	t.Run("reports invalid identifiers as not found", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		resolver := resolve.NewResolver(resolve.NewRepository(countingFetcher(&calls, "source"), staticRenderer(), memoryDocuments(), nil))

		_, err := resolver.Resolve(context.Background(), "favicon.ico")

		require.Error(t, err)
		assert.Equal(t, prettyrfc.ENOTFOUND, prettyrfc.ErrorCode(err))
		assert.Equal(t, int32(0), calls.Load())
	})

	t.Run("reports documents missing from the archive as not found", func(t *testing.T) {
		t.Parallel()

		fetcher := &mock.Fetcher{
			FetchFn: func(ctx context.Context, id prettyrfc.DocumentID) (string, error) {
				return "", prettyrfc.Errorf(prettyrfc.ENOTFOUND, "%s not found in archive", id.DisplayName())
			},
		}
		resolver := resolve.NewResolver(resolve.NewRepository(fetcher, staticRenderer(), memoryDocuments(), nil))

		_, err := resolver.Resolve(context.Background(), "RFC99999")

		assert.Equal(t, prettyrfc.ENOTFOUND, prettyrfc.ErrorCode(err))
	})

	t.Run("passes fetch errors through", func(t *testing.T) {
		t.Parallel()

		fetcher := &mock.Fetcher{
			FetchFn: func(ctx context.Context, id prettyrfc.DocumentID) (string, error) {
				return "", &prettyrfc.FetchError{ID: id, Err: errors.New("timeout")}
			},
		}
		resolver := resolve.NewResolver(resolve.NewRepository(fetcher, staticRenderer(), memoryDocuments(), nil))

		_, err := resolver.Resolve(context.Background(), "RFC793")

		var fetchErr *prettyrfc.FetchError
		require.True(t, errors.As(err, &fetchErr))
		assert.Equal(t, prettyrfc.EUNAVAILABLE, prettyrfc.ErrorCode(err))
	})
}

func TestResolver_ResolveURL(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	resolver := resolve.NewResolver(resolve.NewRepository(countingFetcher(&calls, "source"), staticRenderer(), memoryDocuments(), nil))

	doc, err := resolver.ResolveURL(context.Background(), "www.rfc-editor.org/rfc/rfc2616.txt")
	require.NoError(t, err)
	assert.Equal(t, prettyrfc.DocumentID("RFC2616"), doc.ID)

	_, err = resolver.ResolveURL(context.Background(), "example.com/")
	assert.Equal(t, prettyrfc.ENOTFOUND, prettyrfc.ErrorCode(err))
}
