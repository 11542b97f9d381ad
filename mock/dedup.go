package mock

import (
	"context"

	"github.com/fwojciec/lookat"
)

var _ lookat.Scorer = (*Scorer)(nil)

// Scorer is a mock implementation of lookat.Scorer.
type Scorer struct {
	RatioFn        func(a, b string) int
	PartialRatioFn func(a, b string) int
}

func (s *Scorer) Ratio(a, b string) int {
	return s.RatioFn(a, b)
}

func (s *Scorer) PartialRatio(a, b string) int {
	return s.PartialRatioFn(a, b)
}

var _ lookat.DuplicateDetector = (*DuplicateDetector)(nil)

// DuplicateDetector is a mock implementation of lookat.DuplicateDetector.
type DuplicateDetector struct {
	IsDuplicateFn func(ctx context.Context, title, description, category string) (bool, error)
}

func (d *DuplicateDetector) IsDuplicate(ctx context.Context, title, description, category string) (bool, error) {
	return d.IsDuplicateFn(ctx, title, description, category)
}
