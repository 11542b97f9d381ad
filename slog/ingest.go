package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/lookat"
	"github.com/fwojciec/lookat/ingest"
)

// Ensure LoggingIngestionService implements lookat.IngestionService.
var _ lookat.IngestionService = (*LoggingIngestionService)(nil)

// LoggingIngestionService wraps an IngestionService with logging.
type LoggingIngestionService struct {
	next   lookat.IngestionService
	logger *slog.Logger
}

// NewLoggingIngestionService creates a new LoggingIngestionService.
func NewLoggingIngestionService(next lookat.IngestionService, logger *slog.Logger) *LoggingIngestionService {
	return &LoggingIngestionService{next: next, logger: logger}
}

// RunIngestion delegates to the wrapped service and logs run totals.
// Failed sources are logged individually at warn level.
func (s *LoggingIngestionService) RunIngestion(ctx context.Context) (report *lookat.RunReport, err error) {
	defer func(begin time.Time) {
		if err != nil {
			s.logger.Error("ingestion run",
				"duration", time.Since(begin),
				"err", err,
			)
			return
		}
		failed := report.Failed()
		for _, src := range failed {
			s.logger.Warn("source failed",
				"source", src.SourceName,
				"url", src.SourceURL,
				"err", src.Error,
			)
		}
		s.logger.Info("ingestion run",
			"categories", len(report.Categories),
			"added", report.TotalAdded,
			"skipped", report.TotalSkipped,
			"failed", len(failed),
			"duration", time.Since(begin),
		)
	}(time.Now())
	return s.next.RunIngestion(ctx)
}

// NewProgressLogger returns an ingest.ProgressFunc that logs source and
// category events at debug level.
func NewProgressLogger(logger *slog.Logger) ingest.ProgressFunc {
	return func(e ingest.ProgressEvent) {
		switch e.Type {
		case ingest.ProgressSourceStarted:
			logger.Debug("source started", "category", e.Category, "source", e.Source, "url", e.URL)
		case ingest.ProgressSourceCompleted:
			logger.Debug("source completed",
				"category", e.Category,
				"source", e.Source,
				"added", e.Added,
				"skipped", e.Skipped,
				"duration", e.Duration,
			)
		case ingest.ProgressSourceFailed:
			logger.Debug("source failed",
				"category", e.Category,
				"source", e.Source,
				"added", e.Added,
				"skipped", e.Skipped,
				"duration", e.Duration,
				"err", e.Error,
			)
		case ingest.ProgressCategoryFinished:
			logger.Debug("category finished", "category", e.Category, "added", e.Added, "skipped", e.Skipped)
		}
	}
}
