package lookat

import (
	"context"
	"time"
)

// Article is a persisted, deduplicated content item derived from one feed entry.
// Articles are append-only: once stored they are never updated.
type Article struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Thumbnail   string    `json:"thumbnail,omitempty"`
	Link        string    `json:"link"`
	Category    string    `json:"category"`
	Source      string    `json:"source"`
	PubDate     time.Time `json:"pubDate"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Validate returns an error if the article contains invalid fields.
func (a *Article) Validate() error {
	if a.Link == "" {
		return Errorf(EINVALID, "article link required")
	}
	if a.Category == "" {
		return Errorf(EINVALID, "article category required")
	}
	if a.Source == "" {
		return Errorf(EINVALID, "article source required")
	}
	return nil
}

// ArticleService represents a service for managing articles.
type ArticleService interface {
	// FindArticleByLink retrieves the article stored under link.
	// Returns ENOTFOUND if no such article exists.
	FindArticleByLink(ctx context.Context, link string) (*Article, error)

	// FindArticles retrieves articles matching the filter, most recent first.
	FindArticles(ctx context.Context, filter ArticleFilter) ([]*Article, error)

	// CreateArticle inserts a new article, assigning its ID.
	// CreatedAt is set to the current time if zero.
	// Returns ECONFLICT if an article with the same link already exists.
	CreateArticle(ctx context.Context, article *Article) error
}

// ArticleFilter represents a filter for FindArticles.
type ArticleFilter struct {
	Category     *string    `json:"category"`
	CreatedSince *time.Time `json:"createdSince"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
