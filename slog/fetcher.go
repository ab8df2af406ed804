// Package slog provides logging decorators for prettyrfc services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/prettyrfc"
)

// Ensure LoggingFetcher implements prettyrfc.Fetcher.
var _ prettyrfc.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a Fetcher with logging.
type LoggingFetcher struct {
	next   prettyrfc.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next prettyrfc.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch delegates to the wrapped fetcher and logs the operation.
func (f *LoggingFetcher) Fetch(ctx context.Context, id prettyrfc.DocumentID) (source string, err error) {
	defer func(begin time.Time) {
		f.logger.Info("fetch",
			"id", id,
			"bytes", len(source),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.Fetch(ctx, id)
}
