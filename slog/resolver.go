package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/prettyrfc"
)

// Ensure LoggingResolver implements prettyrfc.DocumentResolver.
var _ prettyrfc.DocumentResolver = (*LoggingResolver)(nil)

// LoggingResolver wraps a DocumentResolver with logging. Missing documents
// are logged at debug level since they are routine user errors.
type LoggingResolver struct {
	next   prettyrfc.DocumentResolver
	logger *slog.Logger
}

// NewLoggingResolver creates a new LoggingResolver.
func NewLoggingResolver(next prettyrfc.DocumentResolver, logger *slog.Logger) *LoggingResolver {
	return &LoggingResolver{next: next, logger: logger}
}

// Resolve delegates to the wrapped resolver and logs the outcome.
func (r *LoggingResolver) Resolve(ctx context.Context, input string) (doc *prettyrfc.Document, err error) {
	defer func(begin time.Time) {
		r.log(ctx, "resolve", input, doc, err, time.Since(begin))
	}(time.Now())
	return r.next.Resolve(ctx, input)
}

// ResolveURL delegates to the wrapped resolver and logs the outcome.
func (r *LoggingResolver) ResolveURL(ctx context.Context, fragment string) (doc *prettyrfc.Document, err error) {
	defer func(begin time.Time) {
		r.log(ctx, "resolve url", fragment, doc, err, time.Since(begin))
	}(time.Now())
	return r.next.ResolveURL(ctx, fragment)
}

func (r *LoggingResolver) log(ctx context.Context, msg, input string, doc *prettyrfc.Document, err error, d time.Duration) {
	level := slog.LevelInfo
	switch prettyrfc.ErrorCode(err) {
	case prettyrfc.ENOTFOUND:
		level = slog.LevelDebug
	case prettyrfc.EUNAVAILABLE, prettyrfc.EINTERNAL, prettyrfc.ERENDER:
		level = slog.LevelError
	}
	attrs := []any{"input", input, "duration", d}
	if doc != nil {
		attrs = append(attrs, "id", doc.ID)
	}
	if err != nil {
		attrs = append(attrs, "err", err)
	}
	r.logger.Log(ctx, level, msg, attrs...)
}
