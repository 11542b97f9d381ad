// Package mongo provides MongoDB-based storage implementations for lookat services.
package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names.
const (
	CategoriesCollection = "categories"
	ArticlesCollection   = "articles"
)

// DefaultConnectTimeout bounds connecting, pinging and index creation.
const DefaultConnectTimeout = 10 * time.Second

// DB represents a MongoDB database connection.
type DB struct {
	uri  string
	name string

	client     *mongo.Client
	database   *mongo.Database
	categories *mongo.Collection
	articles   *mongo.Collection
}

// NewDB creates a new DB for the given connection URI and database name.
func NewDB(uri, name string) *DB {
	return &DB{uri: uri, name: name}
}

// Open connects, verifies the connection and ensures indexes exist.
func (db *DB) Open(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, DefaultConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(db.uri))
	if err != nil {
		return fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	db.client = client
	db.database = client.Database(db.name)
	db.categories = db.database.Collection(CategoriesCollection)
	db.articles = db.database.Collection(ArticlesCollection)

	if err := db.createIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// Close disconnects from the server.
func (db *DB) Close() error {
	if db.client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), DefaultConnectTimeout)
	defer cancel()
	return db.client.Disconnect(ctx)
}

// Drop removes the database. Used by tests.
func (db *DB) Drop(ctx context.Context) error {
	return db.database.Drop(ctx)
}

// createIndexes creates the unique link index backing cross-process
// deduplication and the index serving the dedup window query.
func (db *DB) createIndexes(ctx context.Context) error {
	if _, err := db.articles.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "link", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "category", Value: 1}, {Key: "createdAt", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "createdAt", Value: -1}},
		},
	}); err != nil {
		return err
	}

	_, err := db.categories.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
