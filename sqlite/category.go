package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/lookat"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ lookat.CategoryService = (*CategoryService)(nil)

// CategoryService implements lookat.CategoryService using SQLite.
type CategoryService struct {
	db *DB
}

// NewCategoryService creates a new CategoryService.
func NewCategoryService(db *DB) *CategoryService {
	return &CategoryService{db: db}
}

// CreateCategory creates a new category together with its ordered sources.
// Returns ECONFLICT if a category with the same name exists.
func (s *CategoryService) CreateCategory(ctx context.Context, category *lookat.Category) error {
	if err := category.Validate(); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	id := uuid.New().String()
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO categories (id, name, created_at)
		VALUES (?, ?, ?)
	`, id, category.Name, formatTime(time.Now())); err != nil {
		if isUniqueViolation(err) {
			return lookat.Errorf(lookat.ECONFLICT, "category %q already exists", category.Name)
		}
		return err
	}

	for i, src := range category.Sources {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO category_sources (category_id, position, name, url)
			VALUES (?, ?, ?, ?)
		`, id, i, src.Name, src.URL); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	category.ID = id
	return nil
}

// FindCategories retrieves categories matching the filter in creation order.
// Sources are returned in their configured order.
func (s *CategoryService) FindCategories(ctx context.Context, filter lookat.CategoryFilter) ([]*lookat.Category, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, name FROM categories WHERE 1=1")
	if filter.Name != nil {
		query.WriteString(" AND name = ?")
		args = append(args, *filter.Name)
	}
	query.WriteString(" ORDER BY created_at ASC, rowid ASC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := make([]*lookat.Category, 0)
	for rows.Next() {
		var c lookat.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		categories = append(categories, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	for _, c := range categories {
		if err := s.attachSources(ctx, c); err != nil {
			return nil, fmt.Errorf("load sources of %q: %w", c.Name, err)
		}
	}
	return categories, nil
}

func (s *CategoryService) attachSources(ctx context.Context, c *lookat.Category) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, url
		FROM category_sources
		WHERE category_id = ?
		ORDER BY position ASC
	`, c.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	c.Sources = []lookat.FeedSource{}
	for rows.Next() {
		var src lookat.FeedSource
		if err := rows.Scan(&src.Name, &src.URL); err != nil {
			return err
		}
		c.Sources = append(c.Sources, src)
	}
	return rows.Err()
}
