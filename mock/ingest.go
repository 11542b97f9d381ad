package mock

import (
	"context"

	"github.com/fwojciec/lookat"
)

var _ lookat.IngestionService = (*IngestionService)(nil)

// IngestionService is a mock implementation of lookat.IngestionService.
type IngestionService struct {
	RunIngestionFn func(ctx context.Context) (*lookat.RunReport, error)
}

func (s *IngestionService) RunIngestion(ctx context.Context) (*lookat.RunReport, error) {
	return s.RunIngestionFn(ctx)
}

var _ lookat.CategoryIngestor = (*CategoryIngestor)(nil)

// CategoryIngestor is a mock implementation of lookat.CategoryIngestor.
type CategoryIngestor struct {
	IngestCategoryFn func(ctx context.Context, category *lookat.Category) *lookat.CategoryFetchOutcome
}

func (i *CategoryIngestor) IngestCategory(ctx context.Context, category *lookat.Category) *lookat.CategoryFetchOutcome {
	return i.IngestCategoryFn(ctx, category)
}
