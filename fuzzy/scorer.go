// Package fuzzy provides string similarity scoring backed by go-fuzzywuzzy.
package fuzzy

import (
	"github.com/fwojciec/lookat"
	fuzzywuzzy "github.com/paul-mannino/go-fuzzywuzzy"
)

// Ensure Scorer implements lookat.Scorer at compile time.
var _ lookat.Scorer = (*Scorer)(nil)

// Scorer computes 0-100 similarity ratios. No preprocessing is applied
// to the inputs.
type Scorer struct{}

// NewScorer creates a new Scorer.
func NewScorer() *Scorer {
	return &Scorer{}
}

// Ratio returns the similarity of a and b over their combined length.
// Two empty strings are identical and score 100; one empty string scores 0.
func (s *Scorer) Ratio(a, b string) int {
	switch {
	case a == b:
		return 100
	case a == "" || b == "":
		return 0
	}
	return fuzzywuzzy.Ratio(a, b)
}

// PartialRatio aligns the shorter string against substrings of the
// longer one and returns the best ratio. Either string empty scores 0.
func (s *Scorer) PartialRatio(a, b string) int {
	if a == "" || b == "" {
		return 0
	}
	return fuzzywuzzy.PartialRatio(a, b)
}
