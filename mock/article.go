package mock

import (
	"context"

	"github.com/fwojciec/lookat"
)

var _ lookat.ArticleService = (*ArticleService)(nil)

// ArticleService is a mock implementation of lookat.ArticleService.
type ArticleService struct {
	FindArticleByLinkFn func(ctx context.Context, link string) (*lookat.Article, error)
	FindArticlesFn      func(ctx context.Context, filter lookat.ArticleFilter) ([]*lookat.Article, error)
	CreateArticleFn     func(ctx context.Context, article *lookat.Article) error
}

func (s *ArticleService) FindArticleByLink(ctx context.Context, link string) (*lookat.Article, error) {
	return s.FindArticleByLinkFn(ctx, link)
}

func (s *ArticleService) FindArticles(ctx context.Context, filter lookat.ArticleFilter) ([]*lookat.Article, error) {
	return s.FindArticlesFn(ctx, filter)
}

func (s *ArticleService) CreateArticle(ctx context.Context, article *lookat.Article) error {
	return s.CreateArticleFn(ctx, article)
}
