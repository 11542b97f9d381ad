package bloom

import (
	"context"
	"fmt"

	"github.com/fwojciec/lookat"
)

// Defaults for filter sizing and warm-up paging.
const (
	DefaultExpectedLinks     = 100000
	DefaultFalsePositiveRate = 0.01
	DefaultWarmPageSize      = 1000
)

// Ensure ArticleService implements lookat.ArticleService.
var _ lookat.ArticleService = (*ArticleService)(nil)

// ArticleService wraps an ArticleService with a Bloom filter of stored
// links. A negative filter answer returns ENOTFOUND immediately; a positive
// one falls through to the wrapped store.
//
// Links inserted by other processes are unknown to the filter, so a lookup
// may report ENOTFOUND for a stored link. The store's link uniqueness then
// rejects the insert with ECONFLICT.
type ArticleService struct {
	next   lookat.ArticleService
	filter *Filter
}

// NewArticleService creates an ArticleService with an empty filter.
// Call Warm to load links already in the store.
func NewArticleService(next lookat.ArticleService, filter *Filter) *ArticleService {
	return &ArticleService{next: next, filter: filter}
}

// Warm adds every stored link to the filter, paging through the store.
// It returns the number of links loaded.
func (s *ArticleService) Warm(ctx context.Context, pageSize int) (int, error) {
	if pageSize <= 0 {
		pageSize = DefaultWarmPageSize
	}

	var total int
	for offset := 0; ; offset += pageSize {
		articles, err := s.next.FindArticles(ctx, lookat.ArticleFilter{Offset: offset, Limit: pageSize})
		if err != nil {
			return total, fmt.Errorf("warm link filter: %w", err)
		}
		for _, a := range articles {
			s.filter.Add(a.Link)
		}
		total += len(articles)
		if len(articles) < pageSize {
			return total, nil
		}
	}
}

// FindArticleByLink consults the filter before the wrapped store.
func (s *ArticleService) FindArticleByLink(ctx context.Context, link string) (*lookat.Article, error) {
	if !s.filter.Test(link) {
		return nil, lookat.Errorf(lookat.ENOTFOUND, "article not found")
	}
	article, err := s.next.FindArticleByLink(ctx, link)
	if err != nil {
		return nil, err
	}
	return article, nil
}

// FindArticles delegates to the wrapped store.
func (s *ArticleService) FindArticles(ctx context.Context, filter lookat.ArticleFilter) ([]*lookat.Article, error) {
	return s.next.FindArticles(ctx, filter)
}

// CreateArticle delegates to the wrapped store and records the link.
// A conflicting insert also records the link, since it is stored.
func (s *ArticleService) CreateArticle(ctx context.Context, article *lookat.Article) error {
	err := s.next.CreateArticle(ctx, article)
	if err == nil || lookat.ErrorCode(err) == lookat.ECONFLICT {
		s.filter.Add(article.Link)
	}
	return err
}
