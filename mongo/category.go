package mongo

import (
	"context"
	"time"

	"github.com/fwojciec/lookat"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Compile-time interface verification.
var _ lookat.CategoryService = (*CategoryService)(nil)

type sourceDocument struct {
	Name string `bson:"name"`
	URL  string `bson:"url"`
}

type categoryDocument struct {
	ID        string           `bson:"_id"`
	Name      string           `bson:"name"`
	Sources   []sourceDocument `bson:"sources"`
	CreatedAt time.Time        `bson:"createdAt"`
}

// CategoryService implements lookat.CategoryService using MongoDB.
// Sources are embedded in their category document in configured order.
type CategoryService struct {
	db *DB
}

// NewCategoryService creates a new CategoryService.
func NewCategoryService(db *DB) *CategoryService {
	return &CategoryService{db: db}
}

// CreateCategory creates a new category.
// Returns ECONFLICT if a category with the same name exists.
func (s *CategoryService) CreateCategory(ctx context.Context, category *lookat.Category) error {
	if err := category.Validate(); err != nil {
		return err
	}

	doc := categoryDocument{
		ID:        uuid.New().String(),
		Name:      category.Name,
		Sources:   make([]sourceDocument, 0, len(category.Sources)),
		CreatedAt: time.Now().UTC(),
	}
	for _, src := range category.Sources {
		doc.Sources = append(doc.Sources, sourceDocument{Name: src.Name, URL: src.URL})
	}

	if _, err := s.db.categories.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return lookat.Errorf(lookat.ECONFLICT, "category %q already exists", category.Name)
		}
		return err
	}

	category.ID = doc.ID
	return nil
}

// FindCategories retrieves categories matching the filter in creation order.
func (s *CategoryService) FindCategories(ctx context.Context, filter lookat.CategoryFilter) ([]*lookat.Category, error) {
	query := bson.M{}
	if filter.Name != nil {
		query["name"] = *filter.Name
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
	}
	if filter.Offset > 0 {
		opts.SetSkip(int64(filter.Offset))
	}

	cursor, err := s.db.categories.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []categoryDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	categories := make([]*lookat.Category, 0, len(docs))
	for _, doc := range docs {
		c := &lookat.Category{
			ID:      doc.ID,
			Name:    doc.Name,
			Sources: make([]lookat.FeedSource, 0, len(doc.Sources)),
		}
		for _, src := range doc.Sources {
			c.Sources = append(c.Sources, lookat.FeedSource{Name: src.Name, URL: src.URL})
		}
		categories = append(categories, c)
	}
	return categories, nil
}
