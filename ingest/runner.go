package ingest

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/fwojciec/lookat"
	"golang.org/x/sync/errgroup"
)

var _ lookat.IngestionService = (*Runner)(nil)

// Runner executes ingestion runs over all stored categories. At most one
// run is active per Runner; an overlapping call is rejected.
type Runner struct {
	Categories  lookat.CategoryService
	Ingestor    lookat.CategoryIngestor
	Concurrency int
	Progress    ProgressFunc

	running atomic.Bool
}

// NewRunner creates a Runner that processes one category at a time.
func NewRunner(categories lookat.CategoryService, ingestor lookat.CategoryIngestor) *Runner {
	return &Runner{
		Categories:  categories,
		Ingestor:    ingestor,
		Concurrency: DefaultCategoryConcurrency,
	}
}

// RunIngestion loads all categories and ingests them. It returns ECONFLICT
// if a run is already in progress and an error if categories cannot be
// loaded; once categories are loaded a report is always returned.
func (r *Runner) RunIngestion(ctx context.Context) (*lookat.RunReport, error) {
	if !r.running.CompareAndSwap(false, true) {
		return nil, lookat.Errorf(lookat.ECONFLICT, "ingestion run already in progress")
	}
	defer r.running.Store(false)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	begin := time.Now()

	categories, err := r.Categories.FindCategories(ctx, lookat.CategoryFilter{})
	if err != nil {
		return nil, fmt.Errorf("find categories: %w", err)
	}

	concurrency := r.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultCategoryConcurrency
	}

	outcomes := make([]*lookat.CategoryFetchOutcome, len(categories))
	var g errgroup.Group
	g.SetLimit(concurrency)
	for i, category := range categories {
		g.Go(func() error {
			outcomes[i] = r.Ingestor.IngestCategory(ctx, category)
			return nil
		})
	}
	_ = g.Wait()

	report := &lookat.RunReport{Categories: make([]*lookat.CategoryFetchOutcome, 0, len(outcomes))}
	for _, outcome := range outcomes {
		report.Add(outcome)
	}

	if r.Progress != nil {
		r.Progress(ProgressEvent{
			Type:     ProgressRunFinished,
			Added:    report.TotalAdded,
			Skipped:  report.TotalSkipped,
			Duration: time.Since(begin),
			Report:   report,
		})
	}
	return report, nil
}
