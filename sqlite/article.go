package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/fwojciec/lookat"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ lookat.ArticleService = (*ArticleService)(nil)

// ArticleService implements lookat.ArticleService using SQLite.
// The UNIQUE constraint on articles.link rejects a second insert of the
// same link even across processes sharing the database file.
type ArticleService struct {
	db *DB
}

// NewArticleService creates a new ArticleService.
func NewArticleService(db *DB) *ArticleService {
	return &ArticleService{db: db}
}

const articleColumns = "id, title, description, thumbnail, link, category, source, pub_date, created_at"

// CreateArticle inserts a new article.
func (s *ArticleService) CreateArticle(ctx context.Context, article *lookat.Article) error {
	if err := article.Validate(); err != nil {
		return err
	}

	if article.CreatedAt.IsZero() {
		article.CreatedAt = time.Now().UTC()
	}
	if article.PubDate.IsZero() {
		article.PubDate = article.CreatedAt
	}
	id := uuid.New().String()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO articles (`+articleColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, id, article.Title, article.Description, article.Thumbnail, article.Link,
		article.Category, article.Source, formatTime(article.PubDate), formatTime(article.CreatedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return lookat.Errorf(lookat.ECONFLICT, "article %q already exists", article.Link)
		}
		return err
	}

	article.ID = id
	return nil
}

// FindArticleByLink retrieves an article by its link.
func (s *ArticleService) FindArticleByLink(ctx context.Context, link string) (*lookat.Article, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+articleColumns+`
		FROM articles
		WHERE link = ?
	`, link)

	article, err := scanArticle(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, lookat.Errorf(lookat.ENOTFOUND, "article not found")
	}
	if err != nil {
		return nil, err
	}
	return article, nil
}

// FindArticles retrieves articles matching the filter, most recent first.
func (s *ArticleService) FindArticles(ctx context.Context, filter lookat.ArticleFilter) ([]*lookat.Article, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + articleColumns + " FROM articles WHERE 1=1")
	if filter.Category != nil {
		query.WriteString(" AND category = ?")
		args = append(args, *filter.Category)
	}
	if filter.CreatedSince != nil {
		query.WriteString(" AND created_at >= ?")
		args = append(args, formatTime(*filter.CreatedSince))
	}
	query.WriteString(" ORDER BY created_at DESC, rowid DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	articles := make([]*lookat.Article, 0)
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, article)
	}
	return articles, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanArticle(row scanner) (*lookat.Article, error) {
	var a lookat.Article
	var pubDate, createdAt string

	if err := row.Scan(&a.ID, &a.Title, &a.Description, &a.Thumbnail, &a.Link,
		&a.Category, &a.Source, &pubDate, &createdAt); err != nil {
		return nil, err
	}

	var err error
	if a.PubDate, err = parseRFC3339(pubDate, "pub_date"); err != nil {
		return nil, err
	}
	if a.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
		return nil, err
	}
	return &a, nil
}
