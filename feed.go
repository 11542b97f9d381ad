package lookat

import (
	"context"
	"time"
)

// FeedItem is a raw entry extracted from a feed. Fields are verbatim;
// cleaning is the Normalizer's job.
type FeedItem struct {
	Link        string
	Title       string
	Summary     string
	PublishedAt *time.Time
}

// FeedItemFunc receives feed items one at a time.
// Returning an error stops the fetch.
type FeedItemFunc func(item *FeedItem) error

// FeedFetcher retrieves and parses one feed source.
type FeedFetcher interface {
	// Fetch downloads the feed at url and calls fn for each entry in
	// document order. Items handed to fn before a failure stay processed.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string, fn FeedItemFunc) error
}

// HostLimiter throttles requests per host.
type HostLimiter interface {
	// Wait blocks until a request to host is allowed or ctx is done.
	Wait(ctx context.Context, host string) error
}
