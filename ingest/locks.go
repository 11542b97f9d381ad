package ingest

import (
	"sync"

	"github.com/cespare/xxhash/v2"
)

// CategoryLocks serializes the check-then-insert step of items belonging to
// the same category. Categories are hashed onto a fixed set of mutexes, so
// two categories may share a stripe but one category always maps to the
// same one.
type CategoryLocks struct {
	stripes []sync.Mutex
}

// NewCategoryLocks creates a CategoryLocks with n stripes (at least one).
func NewCategoryLocks(n int) *CategoryLocks {
	if n < 1 {
		n = 1
	}
	return &CategoryLocks{stripes: make([]sync.Mutex, n)}
}

// Lock acquires the stripe for category and returns its unlock function.
func (l *CategoryLocks) Lock(category string) (unlock func()) {
	mu := &l.stripes[xxhash.Sum64String(category)%uint64(len(l.stripes))]
	mu.Lock()
	return mu.Unlock
}
