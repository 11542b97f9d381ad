package mock

import (
	"context"

	"github.com/fwojciec/lookat"
)

var _ lookat.CategoryService = (*CategoryService)(nil)

// CategoryService is a mock implementation of lookat.CategoryService.
type CategoryService struct {
	FindCategoriesFn func(ctx context.Context, filter lookat.CategoryFilter) ([]*lookat.Category, error)
	CreateCategoryFn func(ctx context.Context, category *lookat.Category) error
}

func (s *CategoryService) FindCategories(ctx context.Context, filter lookat.CategoryFilter) ([]*lookat.Category, error) {
	return s.FindCategoriesFn(ctx, filter)
}

func (s *CategoryService) CreateCategory(ctx context.Context, category *lookat.Category) error {
	return s.CreateCategoryFn(ctx, category)
}
