package lookat

import "context"

// Placeholder values of the synthetic outcome reported for a category
// without sources.
const (
	NoSourceName   = "N/A"
	NoSourcesError = "No RSS sources configured"
)

// SourceFetchOutcome is the result of ingesting one feed source in a run.
// When Success is false, the counters reflect items processed before the failure.
type SourceFetchOutcome struct {
	SourceName      string `json:"sourceName"`
	SourceURL       string `json:"sourceUrl"`
	ArticlesAdded   int    `json:"articlesAdded"`
	ArticlesSkipped int    `json:"articlesSkipped"`
	Success         bool   `json:"success"`
	Error           string `json:"error,omitempty"`
}

// CategoryFetchOutcome aggregates the source outcomes of one category.
type CategoryFetchOutcome struct {
	CategoryName    string                `json:"categoryName"`
	SourcesCount    int                   `json:"sourcesCount"`
	ArticlesAdded   int                   `json:"articlesAdded"`
	ArticlesSkipped int                   `json:"articlesSkipped"`
	Sources         []*SourceFetchOutcome `json:"sourceOutcomes"`
}

// Add appends a source outcome and accumulates its counters.
func (o *CategoryFetchOutcome) Add(src *SourceFetchOutcome) {
	o.Sources = append(o.Sources, src)
	o.ArticlesAdded += src.ArticlesAdded
	o.ArticlesSkipped += src.ArticlesSkipped
}

// RunReport is the result of one ingestion run across all categories.
// A report is produced even when every source failed; inspect Failed
// to detect degraded runs.
type RunReport struct {
	TotalAdded   int                     `json:"totalAdded"`
	TotalSkipped int                     `json:"totalSkipped"`
	Categories   []*CategoryFetchOutcome `json:"categoryOutcomes"`
}

// Add appends a category outcome and accumulates its counters.
func (r *RunReport) Add(cat *CategoryFetchOutcome) {
	r.Categories = append(r.Categories, cat)
	r.TotalAdded += cat.ArticlesAdded
	r.TotalSkipped += cat.ArticlesSkipped
}

// Failed returns the unsuccessful source outcomes across all categories.
func (r *RunReport) Failed() []*SourceFetchOutcome {
	var out []*SourceFetchOutcome
	for _, cat := range r.Categories {
		for _, src := range cat.Sources {
			if !src.Success {
				out = append(out, src)
			}
		}
	}
	return out
}

// IngestionService runs the ingestion pipeline over all categories.
type IngestionService interface {
	// RunIngestion fetches every source of every category and stores novel
	// articles. An error is returned only if the run could not start;
	// per-source failures are reported in the RunReport.
	RunIngestion(ctx context.Context) (*RunReport, error)
}

// CategoryIngestor ingests the sources of a single category.
type CategoryIngestor interface {
	// IngestCategory never fails; source failures are captured in the outcome.
	IngestCategory(ctx context.Context, category *Category) *CategoryFetchOutcome
}
