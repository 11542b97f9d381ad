package sqlite_test

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/fwojciec/lookat"
	"github.com/fwojciec/lookat/sqlite"
	"github.com/stretchr/testify/require"
)

// BenchmarkDedupWindowQuery measures the recent-articles query the duplicate
// detector issues once per candidate item.
func BenchmarkDedupWindowQuery(b *testing.B) {
	db := sqlite.NewDB(filepath.Join(b.TempDir(), "bench.db"))
	require.NoError(b, db.Open())
	defer db.Close()

	ctx := context.Background()
	svc := sqlite.NewArticleService(db)
	now := time.Now().UTC()
	for i := 0; i < 2000; i++ {
		category := fmt.Sprintf("category-%d", i%10)
		require.NoError(b, svc.CreateArticle(ctx, &lookat.Article{
			Title:       fmt.Sprintf("Story %d", i),
			Description: "Lorem ipsum dolor sit amet, consectetur adipiscing elit.",
			Link:        fmt.Sprintf("https://example.com/story/%d", i),
			Category:    category,
			Source:      "bench",
			CreatedAt:   now.Add(-time.Duration(i) * time.Minute),
		}))
	}

	category := "category-3"
	since := now.Add(-lookat.DefaultDedupWindow)
	filter := lookat.ArticleFilter{Category: &category, CreatedSince: &since, Limit: lookat.DefaultDedupLimit}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := svc.FindArticles(ctx, filter); err != nil {
			b.Fatal(err)
		}
	}
}
