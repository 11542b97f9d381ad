package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/lookat"
)

// Ensure LoggingFetcher implements lookat.FeedFetcher.
var _ lookat.FeedFetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a FeedFetcher with logging.
type LoggingFetcher struct {
	next   lookat.FeedFetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next lookat.FeedFetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch delegates to the wrapped fetcher and logs the number of items seen.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string, fn lookat.FeedItemFunc) (err error) {
	var items int
	defer func(begin time.Time) {
		f.logger.Info("fetch",
			"url", url,
			"items", items,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.Fetch(ctx, url, func(item *lookat.FeedItem) error {
		items++
		return fn(item)
	})
}
