package slog_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/fwojciec/prettyrfc"
	"github.com/fwojciec/prettyrfc/mock"
	rfcslog "github.com/fwojciec/prettyrfc/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingFetcher_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("logs fetch with bytes and duration", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Fetcher{
			FetchFn: func(ctx context.Context, id prettyrfc.DocumentID) (string, error) {
				return "<rfc number=\"793\"/>", nil
			},
		}

		fetcher := rfcslog.NewLoggingFetcher(inner, logger)
		source, err := fetcher.Fetch(context.Background(), "RFC793")

		require.NoError(t, err)
		assert.Equal(t, "<rfc number=\"793\"/>", source)
		output := buf.String()
		assert.Contains(t, output, "msg=fetch")
		assert.Contains(t, output, "id=RFC793")
		assert.Contains(t, output, "bytes=19")
		assert.Contains(t, output, "duration=")
	})

	t.Run("logs error on failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Fetcher{
			FetchFn: func(ctx context.Context, id prettyrfc.DocumentID) (string, error) {
				return "", errors.New("network error")
			},
		}

		fetcher := rfcslog.NewLoggingFetcher(inner, logger)
		_, err := fetcher.Fetch(context.Background(), "RFC793")

		require.Error(t, err)
		output := buf.String()
		assert.Contains(t, output, "msg=fetch")
		assert.Contains(t, output, "err=\"network error\"")
	})
}
