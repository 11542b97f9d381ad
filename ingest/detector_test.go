package ingest_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fwojciec/lookat"
	"github.com/fwojciec/lookat/fuzzy"
	"github.com/fwojciec/lookat/ingest"
	"github.com/fwojciec/lookat/mock"
	"github.com/fwojciec/lookat/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 5, 2, 12, 0, 0, 0, time.UTC)

// stored returns an ArticleService whose FindArticles always yields articles.
func stored(articles ...*lookat.Article) *mock.ArticleService {
	return &mock.ArticleService{
		FindArticlesFn: func(context.Context, lookat.ArticleFilter) ([]*lookat.Article, error) {
			return articles, nil
		},
	}
}

// fixedScorer returns constant similarity scores.
func fixedScorer(title, desc int) *mock.Scorer {
	return &mock.Scorer{
		RatioFn:        func(a, b string) int { return title },
		PartialRatioFn: func(a, b string) int { return desc },
	}
}

func TestDetector_IsDuplicate(t *testing.T) {
	t.Parallel()

	existing := &lookat.Article{Title: "stored", Description: "stored description"}

	tests := []struct {
		name      string
		titleSim  int
		descSim   int
		duplicate bool
	}{
		{"title at threshold", 80, 0, true},
		{"title just below threshold without description match", 79, 69, false},
		{"title at floor with description at threshold", 60, 70, true},
		{"title below floor ignores description", 59, 100, false},
		{"unrelated", 10, 10, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			d := ingest.NewDetector(stored(existing), fixedScorer(tt.titleSim, tt.descSim))

			dup, err := d.IsDuplicate(context.Background(), "candidate", "candidate description", "World")
			require.NoError(t, err)
			assert.Equal(t, tt.duplicate, dup)
		})
	}

	t.Run("queries recent articles of the same category", func(t *testing.T) {
		t.Parallel()

		var got lookat.ArticleFilter
		articles := &mock.ArticleService{
			FindArticlesFn: func(_ context.Context, filter lookat.ArticleFilter) ([]*lookat.Article, error) {
				got = filter
				return nil, nil
			},
		}
		d := ingest.NewDetector(articles, fixedScorer(0, 0))
		d.Now = func() time.Time { return fixedNow }

		dup, err := d.IsDuplicate(context.Background(), "t", "d", "Sports")
		require.NoError(t, err)
		assert.False(t, dup)

		require.NotNil(t, got.Category)
		assert.Equal(t, "Sports", *got.Category)
		require.NotNil(t, got.CreatedSince)
		assert.Equal(t, fixedNow.Add(-24*time.Hour), *got.CreatedSince)
		assert.Equal(t, lookat.DefaultDedupLimit, got.Limit)
	})

	t.Run("skips description scoring when either side is empty", func(t *testing.T) {
		t.Parallel()

		scorer := &mock.Scorer{
			RatioFn: func(a, b string) int { return 65 },
			PartialRatioFn: func(a, b string) int {
				t.Error("PartialRatio should not be called")
				return 100
			},
		}
		d := ingest.NewDetector(stored(&lookat.Article{Title: "stored"}), scorer)

		dup, err := d.IsDuplicate(context.Background(), "candidate", "", "World")
		require.NoError(t, err)
		assert.False(t, dup)
	})

	t.Run("stops at first match", func(t *testing.T) {
		t.Parallel()

		var calls int
		scorer := &mock.Scorer{
			RatioFn: func(a, b string) int {
				calls++
				return 100
			},
			PartialRatioFn: func(a, b string) int { return 0 },
		}
		d := ingest.NewDetector(stored(existing, existing, existing), scorer)

		dup, err := d.IsDuplicate(context.Background(), "candidate", "", "World")
		require.NoError(t, err)
		assert.True(t, dup)
		assert.Equal(t, 1, calls)
	})

	t.Run("honours custom thresholds", func(t *testing.T) {
		t.Parallel()

		d := ingest.NewDetector(stored(existing), fixedScorer(85, 0))
		d.Config.TitleThreshold = 90
		d.Config.TitleFloor = 95

		dup, err := d.IsDuplicate(context.Background(), "candidate", "desc", "World")
		require.NoError(t, err)
		assert.False(t, dup)
	})

	t.Run("returns store error", func(t *testing.T) {
		t.Parallel()

		articles := &mock.ArticleService{
			FindArticlesFn: func(context.Context, lookat.ArticleFilter) ([]*lookat.Article, error) {
				return nil, errors.New("connection lost")
			},
		}
		d := ingest.NewDetector(articles, fixedScorer(0, 0))

		_, err := d.IsDuplicate(context.Background(), "t", "d", "World")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "connection lost")
	})
}

func TestDetector_Window(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		age       time.Duration
		category  string
		duplicate bool
	}{
		{"identical title stored 23h ago is flagged", 23 * time.Hour, "World", true},
		{"identical title stored 25h ago is not flagged", 25 * time.Hour, "World", false},
		{"identical title in another category is not flagged", time.Hour, "Sports", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			db := sqlite.NewDB(":memory:")
			require.NoError(t, db.Open())
			t.Cleanup(func() { db.Close() })
			articles := sqlite.NewArticleService(db)

			require.NoError(t, articles.CreateArticle(context.Background(), &lookat.Article{
				Title:     "Central bank raises interest rates",
				Link:      "https://example.com/rates",
				Category:  tt.category,
				Source:    "Example",
				CreatedAt: fixedNow.Add(-tt.age),
			}))

			d := ingest.NewDetector(articles, fuzzy.NewScorer())
			d.Now = func() time.Time { return fixedNow }

			dup, err := d.IsDuplicate(context.Background(), "Central bank raises interest rates", "", "World")
			require.NoError(t, err)
			assert.Equal(t, tt.duplicate, dup)
		})
	}
}
