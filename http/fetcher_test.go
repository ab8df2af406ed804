package http_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fwojciec/prettyrfc"
	rfchttp "github.com/fwojciec/prettyrfc/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetcher_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("returns XML source from the archive", func(t *testing.T) {
		t.Parallel()

		var gotPath atomic.Value
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath.Store(r.URL.Path)
			w.Header().Set("Content-Type", "application/xml")
			_, _ = w.Write([]byte(`<rfc number="793"/>`))
		}))
		defer server.Close()

		fetcher := rfchttp.NewFetcher(rfchttp.WithBaseURL(server.URL + "/rfc"))

		source, err := fetcher.Fetch(context.Background(), "RFC793")
		require.NoError(t, err)
		assert.Equal(t, `<rfc number="793"/>`, source)
		assert.Equal(t, "/rfc/rfc793.xml", gotPath.Load())
	})

	t.Run("falls back to plain text when XML is missing", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/rfc791.txt" {
				_, _ = w.Write([]byte("INTERNET PROTOCOL"))
				return
			}
			http.NotFound(w, r)
		}))
		defer server.Close()

		fetcher := rfchttp.NewFetcher(rfchttp.WithBaseURL(server.URL))

		source, err := fetcher.Fetch(context.Background(), "RFC791")
		require.NoError(t, err)
		assert.Equal(t, "INTERNET PROTOCOL", source)
	})

	t.Run("returns ENOTFOUND when every format is missing", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			if r.URL.Path == "/rfc99999.txt" {
				w.WriteHeader(http.StatusGone)
				return
			}
			http.NotFound(w, r)
		}))
		defer server.Close()

		fetcher := rfchttp.NewFetcher(rfchttp.WithBaseURL(server.URL))

		_, err := fetcher.Fetch(context.Background(), "RFC99999")
		require.Error(t, err)
		assert.Equal(t, prettyrfc.ENOTFOUND, prettyrfc.ErrorCode(err))
		assert.Equal(t, int32(2), calls.Load())

		var fetchErr *prettyrfc.FetchError
		assert.False(t, errors.As(err, &fetchErr))
	})

	t.Run("returns FetchError for server errors without trying other formats", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		fetcher := rfchttp.NewFetcher(rfchttp.WithBaseURL(server.URL))

		_, err := fetcher.Fetch(context.Background(), "RFC793")
		require.Error(t, err)
		assert.Equal(t, prettyrfc.EUNAVAILABLE, prettyrfc.ErrorCode(err))
		assert.Contains(t, err.Error(), "500")
		assert.Equal(t, int32(1), calls.Load())

		var fetchErr *prettyrfc.FetchError
		require.True(t, errors.As(err, &fetchErr))
		assert.Equal(t, prettyrfc.DocumentID("RFC793"), fetchErr.ID)
	})

	t.Run("returns FetchError for empty bodies", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		fetcher := rfchttp.NewFetcher(rfchttp.WithBaseURL(server.URL))

		_, err := fetcher.Fetch(context.Background(), "RFC793")
		require.Error(t, err)
		assert.Equal(t, prettyrfc.EUNAVAILABLE, prettyrfc.ErrorCode(err))
	})

	t.Run("returns FetchError for bodies over the size limit", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("0123456789A"))
		}))
		defer server.Close()

		fetcher := rfchttp.NewFetcher(rfchttp.WithBaseURL(server.URL), rfchttp.WithMaxSourceSize(10))

		source, err := fetcher.Fetch(context.Background(), "RFC793")
		require.Error(t, err)
		assert.Empty(t, source)
		assert.Equal(t, prettyrfc.EUNAVAILABLE, prettyrfc.ErrorCode(err))
	})

	t.Run("accepts bodies exactly at the size limit", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("0123456789"))
		}))
		defer server.Close()

		fetcher := rfchttp.NewFetcher(rfchttp.WithBaseURL(server.URL), rfchttp.WithMaxSourceSize(10))

		source, err := fetcher.Fetch(context.Background(), "RFC793")
		require.NoError(t, err)
		assert.Equal(t, "0123456789", source)
	})

	t.Run("respects custom timeout option", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(100 * time.Millisecond)
			_, _ = w.Write([]byte("response"))
		}))
		defer server.Close()

		// Use a very short timeout that will expire before server responds
		fetcher := rfchttp.NewFetcher(
			rfchttp.WithBaseURL(server.URL),
			rfchttp.WithTimeout(10*time.Millisecond),
		)

		_, err := fetcher.Fetch(context.Background(), "RFC793")
		require.Error(t, err)
		assert.Equal(t, prettyrfc.EUNAVAILABLE, prettyrfc.ErrorCode(err))
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(100 * time.Millisecond)
			_, _ = w.Write([]byte("response"))
		}))
		defer server.Close()

		fetcher := rfchttp.NewFetcher(rfchttp.WithBaseURL(server.URL))

		ctx, cancel := context.WithCancel(context.Background())
		cancel() // Cancel immediately

		_, err := fetcher.Fetch(ctx, "RFC793")
		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("returns FetchError for non-existent host", func(t *testing.T) {
		t.Parallel()

		fetcher := rfchttp.NewFetcher(
			rfchttp.WithBaseURL("http://non-existent-host.invalid/"),
			rfchttp.WithTimeout(100*time.Millisecond),
		)

		_, err := fetcher.Fetch(context.Background(), "RFC793")
		require.Error(t, err)
		assert.Equal(t, prettyrfc.EUNAVAILABLE, prettyrfc.ErrorCode(err))
	})

	t.Run("rate limit paces consecutive requests", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("<rfc/>"))
		}))
		defer server.Close()

		fetcher := rfchttp.NewFetcher(
			rfchttp.WithBaseURL(server.URL),
			rfchttp.WithRateLimit(20),
		)

		begin := time.Now()
		for i := 0; i < 3; i++ {
			_, err := fetcher.Fetch(context.Background(), "RFC1")
			require.NoError(t, err)
		}
		assert.GreaterOrEqual(t, time.Since(begin), 90*time.Millisecond)
	})
}

func TestFetcher_URL(t *testing.T) {
	t.Parallel()

	fetcher := rfchttp.NewFetcher(rfchttp.WithBaseURL("https://archive.example/rfc"))

	assert.Equal(t, "https://archive.example/rfc/rfc2119.txt", fetcher.URL("RFC2119", "txt"))
	assert.Equal(t, "https://www.rfc-editor.org/rfc/rfc793.xml", rfchttp.NewFetcher().URL("RFC793", "xml"))
}

// Compile-time verification that Fetcher implements prettyrfc.Fetcher
var _ prettyrfc.Fetcher = (*rfchttp.Fetcher)(nil)
