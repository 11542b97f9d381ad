// Package ingest runs the feed ingestion pipeline. It fetches every source
// of every category, cleans entries, rejects exact and near duplicates and
// stores the remaining articles, reporting per-source outcomes.
package ingest

import (
	"time"

	"github.com/fwojciec/lookat"
)

// Defaults for pipeline tuning.
const (
	DefaultFetchTimeout        = 30 * time.Second
	DefaultSourceConcurrency   = 4
	DefaultCategoryConcurrency = 1
	DefaultLockStripes         = 64
)

// ProgressEvent reports progress during an ingestion run.
type ProgressEvent struct {
	Type     ProgressType
	Category string
	Source   string
	URL      string
	Added    int
	Skipped  int
	Error    error
	Duration time.Duration
	Report   *lookat.RunReport
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressSourceStarted ProgressType = iota
	ProgressSourceCompleted
	ProgressSourceFailed
	ProgressCategoryFinished
	ProgressRunFinished
)

// String returns a short name for the event type.
func (t ProgressType) String() string {
	switch t {
	case ProgressSourceStarted:
		return "source_started"
	case ProgressSourceCompleted:
		return "source_completed"
	case ProgressSourceFailed:
		return "source_failed"
	case ProgressCategoryFinished:
		return "category_finished"
	case ProgressRunFinished:
		return "run_finished"
	default:
		return "unknown"
	}
}

// ProgressFunc is a callback for reporting ingestion progress.
// It may be called from several goroutines at once.
type ProgressFunc func(event ProgressEvent)

// MultiProgress fans an event out to every non-nil callback in order.
func MultiProgress(fns ...ProgressFunc) ProgressFunc {
	return func(event ProgressEvent) {
		for _, fn := range fns {
			if fn != nil {
				fn(event)
			}
		}
	}
}

// errorText renders err for a source outcome. Domain errors keep their
// human-readable message; anything else is shown verbatim.
func errorText(err error) string {
	if lookat.ErrorCode(err) != lookat.EINTERNAL {
		return lookat.ErrorMessage(err)
	}
	return err.Error()
}
