package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/prettyrfc"
)

// Ensure LoggingSearchService implements prettyrfc.SearchService.
var _ prettyrfc.SearchService = (*LoggingSearchService)(nil)

// LoggingSearchService wraps a SearchService with logging.
type LoggingSearchService struct {
	next   prettyrfc.SearchService
	logger *slog.Logger
}

// NewLoggingSearchService creates a new LoggingSearchService.
func NewLoggingSearchService(next prettyrfc.SearchService, logger *slog.Logger) *LoggingSearchService {
	return &LoggingSearchService{next: next, logger: logger}
}

// Search delegates to the wrapped service and logs the query.
func (s *LoggingSearchService) Search(ctx context.Context, query string, page, limit int) (result *prettyrfc.SearchResult, err error) {
	defer func(begin time.Time) {
		var total int
		if result != nil {
			total = result.Total
		}
		s.logger.Info("search",
			"query", query,
			"page", page,
			"total", total,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Search(ctx, query, page, limit)
}
