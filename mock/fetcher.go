package mock

import (
	"context"

	"github.com/fwojciec/lookat"
)

var _ lookat.FeedFetcher = (*FeedFetcher)(nil)

// FeedFetcher is a mock implementation of lookat.FeedFetcher.
type FeedFetcher struct {
	FetchFn func(ctx context.Context, url string, fn lookat.FeedItemFunc) error
}

func (f *FeedFetcher) Fetch(ctx context.Context, url string, fn lookat.FeedItemFunc) error {
	return f.FetchFn(ctx, url, fn)
}

var _ lookat.HostLimiter = (*HostLimiter)(nil)

// HostLimiter is a mock implementation of lookat.HostLimiter.
type HostLimiter struct {
	WaitFn func(ctx context.Context, host string) error
}

func (l *HostLimiter) Wait(ctx context.Context, host string) error {
	return l.WaitFn(ctx, host)
}
