package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/fwojciec/lookat"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Compile-time interface verification.
var _ lookat.ArticleService = (*ArticleService)(nil)

type articleDocument struct {
	ID          string    `bson:"_id"`
	Title       string    `bson:"title"`
	Description string    `bson:"description"`
	Thumbnail   string    `bson:"thumbnail"`
	Link        string    `bson:"link"`
	Category    string    `bson:"category"`
	Source      string    `bson:"source"`
	PubDate     time.Time `bson:"pubDate"`
	CreatedAt   time.Time `bson:"createdAt"`
}

func (d *articleDocument) article() *lookat.Article {
	return &lookat.Article{
		ID:          d.ID,
		Title:       d.Title,
		Description: d.Description,
		Thumbnail:   d.Thumbnail,
		Link:        d.Link,
		Category:    d.Category,
		Source:      d.Source,
		PubDate:     d.PubDate.UTC(),
		CreatedAt:   d.CreatedAt.UTC(),
	}
}

// ArticleService implements lookat.ArticleService using MongoDB.
// The unique index on link rejects a second insert of the same link.
type ArticleService struct {
	db *DB
}

// NewArticleService creates a new ArticleService.
func NewArticleService(db *DB) *ArticleService {
	return &ArticleService{db: db}
}

// CreateArticle inserts a new article.
func (s *ArticleService) CreateArticle(ctx context.Context, article *lookat.Article) error {
	if err := article.Validate(); err != nil {
		return err
	}

	// BSON dates carry millisecond precision.
	if article.CreatedAt.IsZero() {
		article.CreatedAt = time.Now().UTC()
	}
	article.CreatedAt = article.CreatedAt.UTC().Truncate(time.Millisecond)
	if article.PubDate.IsZero() {
		article.PubDate = article.CreatedAt
	}
	article.PubDate = article.PubDate.UTC().Truncate(time.Millisecond)

	doc := articleDocument{
		ID:          uuid.New().String(),
		Title:       article.Title,
		Description: article.Description,
		Thumbnail:   article.Thumbnail,
		Link:        article.Link,
		Category:    article.Category,
		Source:      article.Source,
		PubDate:     article.PubDate,
		CreatedAt:   article.CreatedAt,
	}

	if _, err := s.db.articles.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return lookat.Errorf(lookat.ECONFLICT, "article %q already exists", article.Link)
		}
		return err
	}

	article.ID = doc.ID
	return nil
}

// FindArticleByLink retrieves an article by its link.
func (s *ArticleService) FindArticleByLink(ctx context.Context, link string) (*lookat.Article, error) {
	var doc articleDocument
	err := s.db.articles.FindOne(ctx, bson.M{"link": link}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, lookat.Errorf(lookat.ENOTFOUND, "article not found")
	}
	if err != nil {
		return nil, err
	}
	return doc.article(), nil
}

// FindArticles retrieves articles matching the filter, most recent first.
func (s *ArticleService) FindArticles(ctx context.Context, filter lookat.ArticleFilter) ([]*lookat.Article, error) {
	query := bson.M{}
	if filter.Category != nil {
		query["category"] = *filter.Category
	}
	if filter.CreatedSince != nil {
		query["createdAt"] = bson.M{"$gte": filter.CreatedSince.UTC()}
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
	}
	if filter.Offset > 0 {
		opts.SetSkip(int64(filter.Offset))
	}

	cursor, err := s.db.articles.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	articles := make([]*lookat.Article, 0)
	for cursor.Next(ctx) {
		var doc articleDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		articles = append(articles, doc.article())
	}
	return articles, cursor.Err()
}
