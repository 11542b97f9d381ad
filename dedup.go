package lookat

import (
	"context"
	"time"
)

// Scorer computes string similarity on a 0-100 scale.
type Scorer interface {
	// Ratio is symmetric and returns 100 iff a and b are identical.
	Ratio(a, b string) int

	// PartialRatio scores the best alignment of the shorter string
	// against substrings of the longer one.
	PartialRatio(a, b string) int
}

// DuplicateDetector classifies a candidate article as a near duplicate of a
// recently stored article in the same category.
type DuplicateDetector interface {
	IsDuplicate(ctx context.Context, title, description, category string) (bool, error)
}

// Default dedup tunables.
const (
	DefaultTitleThreshold       = 80
	DefaultTitleFloor           = 60
	DefaultDescriptionThreshold = 70
	DefaultDedupWindow          = 24 * time.Hour
	DefaultDedupLimit           = 100
)

// DedupConfig holds the thresholds and sampling bounds of fuzzy duplicate detection.
type DedupConfig struct {
	// TitleThreshold flags a duplicate on title similarity alone.
	TitleThreshold int
	// TitleFloor is the minimum title similarity for the description rule.
	TitleFloor int
	// DescriptionThreshold is the description similarity required above TitleFloor.
	DescriptionThreshold int
	// Window is how far back from now stored articles are compared.
	Window time.Duration
	// Limit caps the number of stored articles compared per candidate.
	Limit int
}

// DefaultDedupConfig returns the default dedup tunables.
func DefaultDedupConfig() DedupConfig {
	return DedupConfig{
		TitleThreshold:       DefaultTitleThreshold,
		TitleFloor:           DefaultTitleFloor,
		DescriptionThreshold: DefaultDescriptionThreshold,
		Window:               DefaultDedupWindow,
		Limit:                DefaultDedupLimit,
	}
}

// Match reports whether the given similarity scores classify as a duplicate.
func (c DedupConfig) Match(titleSim, descSim int) bool {
	return titleSim >= c.TitleThreshold ||
		(titleSim >= c.TitleFloor && descSim >= c.DescriptionThreshold)
}

// Validate returns an error if the tunables are out of range.
func (c DedupConfig) Validate() error {
	for _, v := range []int{c.TitleThreshold, c.TitleFloor, c.DescriptionThreshold} {
		if v < 0 || v > 100 {
			return Errorf(EINVALID, "similarity threshold %d out of range 0-100", v)
		}
	}
	if c.Window <= 0 {
		return Errorf(EINVALID, "dedup window must be positive")
	}
	if c.Limit <= 0 {
		return Errorf(EINVALID, "dedup limit must be positive")
	}
	return nil
}
