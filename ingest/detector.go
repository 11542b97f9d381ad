package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/fwojciec/lookat"
)

var _ lookat.DuplicateDetector = (*Detector)(nil)

// Detector flags candidates whose title, or title and description, closely
// match an article stored in the same category within the dedup window.
type Detector struct {
	Articles lookat.ArticleService
	Scorer   lookat.Scorer
	Config   lookat.DedupConfig
	Now      func() time.Time
}

// NewDetector creates a Detector with the default dedup tunables.
func NewDetector(articles lookat.ArticleService, scorer lookat.Scorer) *Detector {
	return &Detector{
		Articles: articles,
		Scorer:   scorer,
		Config:   lookat.DefaultDedupConfig(),
		Now:      time.Now,
	}
}

// IsDuplicate compares the candidate against at most Config.Limit recent
// articles of category and stops at the first match.
func (d *Detector) IsDuplicate(ctx context.Context, title, description, category string) (bool, error) {
	cfg := d.Config
	if cfg == (lookat.DedupConfig{}) {
		cfg = lookat.DefaultDedupConfig()
	}
	now := time.Now
	if d.Now != nil {
		now = d.Now
	}

	since := now().Add(-cfg.Window)
	recent, err := d.Articles.FindArticles(ctx, lookat.ArticleFilter{
		Category:     &category,
		CreatedSince: &since,
		Limit:        cfg.Limit,
	})
	if err != nil {
		return false, fmt.Errorf("find recent articles: %w", err)
	}

	for _, a := range recent {
		titleSim := d.Scorer.Ratio(title, a.Title)
		if cfg.Match(titleSim, 0) {
			return true, nil
		}
		// Below the floor the description cannot tip the decision.
		if titleSim < cfg.TitleFloor || description == "" || a.Description == "" {
			continue
		}
		if cfg.Match(titleSim, d.Scorer.PartialRatio(description, a.Description)) {
			return true, nil
		}
	}
	return false, nil
}
