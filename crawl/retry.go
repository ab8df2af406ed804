package crawl

import (
	"context"
	"time"

	"github.com/fwojciec/prettyrfc"
)

// ResolveFunc is the signature for a document lookup.
type ResolveFunc func(ctx context.Context, id prettyrfc.DocumentID) (*prettyrfc.Document, error)

// LogFunc is the signature for a logging function.
type LogFunc func(format string, args ...any)

// DefaultRetryDelays returns the backoff delays for retries: 1s, 2s, 4s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

// ResolveWithRetry is like ResolveWithRetryDelays with DefaultRetryDelays.
func ResolveWithRetry(ctx context.Context, id prettyrfc.DocumentID, resolve ResolveFunc, logger LogFunc) (*prettyrfc.Document, error) {
	return ResolveWithRetryDelays(ctx, id, resolve, logger, DefaultRetryDelays())
}

// ResolveWithRetryDelays calls resolve, retrying with the given backoff
// delays while it fails with EUNAVAILABLE. Any other error is returned at
// once. The logger function, if provided, is called for each retry attempt.
func ResolveWithRetryDelays(ctx context.Context, id prettyrfc.DocumentID, resolve ResolveFunc, logger LogFunc, delays []time.Duration) (*prettyrfc.Document, error) {
	maxAttempts := len(delays) + 1 // 1 initial + N retries

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		doc, err := resolve(ctx, id)
		if err == nil {
			return doc, nil
		}
		lastErr = err

		if prettyrfc.ErrorCode(err) != prettyrfc.EUNAVAILABLE {
			break
		}

		// Don't retry after the last attempt
		if attempt >= maxAttempts-1 {
			break
		}

		// Check context before sleeping
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if logger != nil {
			logger("  retry %s (attempt %d): %v", id, attempt+2, err)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delays[attempt]):
		}
	}

	return nil, lastErr
}
