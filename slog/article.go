package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/lookat"
)

// Ensure LoggingArticleService implements lookat.ArticleService.
var _ lookat.ArticleService = (*LoggingArticleService)(nil)

// LoggingArticleService wraps an ArticleService with debug logging.
type LoggingArticleService struct {
	next   lookat.ArticleService
	logger *slog.Logger
}

// NewLoggingArticleService creates a new LoggingArticleService.
func NewLoggingArticleService(next lookat.ArticleService, logger *slog.Logger) *LoggingArticleService {
	return &LoggingArticleService{next: next, logger: logger}
}

// FindArticleByLink delegates to the wrapped service and logs whether the link is known.
func (s *LoggingArticleService) FindArticleByLink(ctx context.Context, link string) (article *lookat.Article, err error) {
	defer func(begin time.Time) {
		attrs := []any{
			"link", link,
			"found", article != nil,
			"duration", time.Since(begin),
		}
		if err != nil && lookat.ErrorCode(err) != lookat.ENOTFOUND {
			attrs = append(attrs, "err", err)
		}
		s.logger.Debug("find article by link", attrs...)
	}(time.Now())
	return s.next.FindArticleByLink(ctx, link)
}

// FindArticles delegates to the wrapped service and logs the result size.
func (s *LoggingArticleService) FindArticles(ctx context.Context, filter lookat.ArticleFilter) (articles []*lookat.Article, err error) {
	defer func(begin time.Time) {
		category := ""
		if filter.Category != nil {
			category = *filter.Category
		}
		s.logger.Debug("find articles",
			"category", category,
			"count", len(articles),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindArticles(ctx, filter)
}

// CreateArticle delegates to the wrapped service and logs the insert.
func (s *LoggingArticleService) CreateArticle(ctx context.Context, article *lookat.Article) (err error) {
	defer func(begin time.Time) {
		s.logger.Debug("create article",
			"category", article.Category,
			"source", article.Source,
			"link", article.Link,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.CreateArticle(ctx, article)
}
