package lookat

import (
	"context"
	"io"
)

// Category is a named group of feed sources representing a content topic.
type Category struct {
	ID      string       `json:"id"`
	Name    string       `json:"name"`
	Sources []FeedSource `json:"sources"`
}

// FeedSource is one RSS or Atom endpoint.
type FeedSource struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Validate returns an error if the category contains invalid fields.
func (c *Category) Validate() error {
	if c.Name == "" {
		return Errorf(EINVALID, "category name required")
	}
	for i, src := range c.Sources {
		if src.Name == "" {
			return Errorf(EINVALID, "category %q: source %d name required", c.Name, i)
		}
		if src.URL == "" {
			return Errorf(EINVALID, "category %q: source %q URL required", c.Name, src.Name)
		}
	}
	return nil
}

// CategoryService represents a service for managing categories.
type CategoryService interface {
	// FindCategories retrieves categories matching the filter.
	// Order is store-defined and carries no meaning.
	FindCategories(ctx context.Context, filter CategoryFilter) ([]*Category, error)

	// CreateCategory creates a new category with its sources.
	CreateCategory(ctx context.Context, category *Category) error
}

// CategoryFilter represents a filter for FindCategories.
type CategoryFilter struct {
	Name *string `json:"name"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// CategoryDecoder reads category definitions from a seed document.
type CategoryDecoder interface {
	DecodeCategories(r io.Reader) ([]*Category, error)
}

// CategoryEncoder writes category definitions as a seed document.
type CategoryEncoder interface {
	EncodeCategories(w io.Writer, categories []*Category) error
}
