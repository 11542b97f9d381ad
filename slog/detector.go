package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/lookat"
)

// Ensure LoggingDetector implements lookat.DuplicateDetector.
var _ lookat.DuplicateDetector = (*LoggingDetector)(nil)

// LoggingDetector wraps a DuplicateDetector with debug logging.
type LoggingDetector struct {
	next   lookat.DuplicateDetector
	logger *slog.Logger
}

// NewLoggingDetector creates a new LoggingDetector.
func NewLoggingDetector(next lookat.DuplicateDetector, logger *slog.Logger) *LoggingDetector {
	return &LoggingDetector{next: next, logger: logger}
}

// IsDuplicate delegates to the wrapped detector and logs the verdict.
func (d *LoggingDetector) IsDuplicate(ctx context.Context, title, description, category string) (dup bool, err error) {
	defer func(begin time.Time) {
		d.logger.Debug("duplicate check",
			"category", category,
			"title", title,
			"duplicate", dup,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return d.next.IsDuplicate(ctx, title, description, category)
}
