// Package gofeed provides an implementation of lookat.FeedFetcher that
// retrieves feeds over HTTP and parses them with gofeed.
package gofeed

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fwojciec/lookat"
	"github.com/mmcdole/gofeed"
)

// DefaultFetchTimeout bounds a single feed download.
const DefaultFetchTimeout = 30 * time.Second

// DefaultMaxBytes caps the size of a feed document.
const DefaultMaxBytes = 10 << 20

// DefaultUserAgent is sent with every request.
const DefaultUserAgent = "lookat/1.0 (+https://github.com/fwojciec/lookat)"

// Ensure Fetcher implements lookat.FeedFetcher at compile time.
var _ lookat.FeedFetcher = (*Fetcher)(nil)

// Fetcher downloads RSS, Atom and JSON feeds and hands their entries to a
// callback one at a time.
type Fetcher struct {
	client    *http.Client
	timeout   time.Duration
	userAgent string
	maxBytes  int64
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for a single feed download.
// Defaults to DefaultFetchTimeout if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithMaxBytes caps the number of bytes read from a feed response.
func WithMaxBytes(n int64) Option {
	return func(f *Fetcher) {
		f.maxBytes = n
	}
}

// NewFetcher creates a new Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:   DefaultFetchTimeout,
		userAgent: DefaultUserAgent,
		maxBytes:  DefaultMaxBytes,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{
		Timeout: f.timeout,
	}

	return f
}

// Fetch downloads and parses the feed at url, calling fn for each entry.
// RSS and Atom entries are delivered as they are parsed, so a syntax error
// late in the document still leaves the earlier entries delivered.
// Missing optional entry fields never fail the fetch.
func (f *Fetcher) Fetch(ctx context.Context, url string, fn lookat.FeedItemFunc) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return lookat.Errorf(lookat.EINVALID, "invalid feed URL %q: %v", url, err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/xml;q=0.9, */*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return lookat.Errorf(lookat.EUNAVAILABLE, "HTTP %d for %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("fetch %s: %w", url, ctx.Err())
		}
		return fmt.Errorf("read %s: %w", url, err)
	}
	if int64(len(body)) > f.maxBytes {
		return lookat.Errorf(lookat.EINVALID, "feed %s exceeds %d bytes", url, f.maxBytes)
	}

	parser := gofeed.NewParser()
	switch gofeed.DetectFeedType(bytes.NewReader(body)) {
	case gofeed.FeedTypeRSS, gofeed.FeedTypeAtom:
		stream := &entryStream{body: body, parser: parser}
		err := stream.each(func(item *gofeed.Item) error {
			return fn(toFeedItem(item))
		})
		var stop *errStop
		switch {
		case err == nil:
			return nil
		case errors.As(err, &stop):
			return stop.err
		case stream.delivered > 0:
			return lookat.Errorf(lookat.EINVALID, "parse feed %s: %v", url, err)
		}
		// Nothing delivered yet: gofeed copes with declared charsets and
		// encodings the entry walk rejects.
	}

	feed, err := parser.Parse(bytes.NewReader(body))
	if err != nil {
		return lookat.Errorf(lookat.EINVALID, "parse feed %s: %v", url, err)
	}
	for _, item := range feed.Items {
		if item == nil {
			continue
		}
		if err := fn(toFeedItem(item)); err != nil {
			return err
		}
	}
	return nil
}

// toFeedItem extracts the raw fields the pipeline needs from a parsed entry.
func toFeedItem(item *gofeed.Item) *lookat.FeedItem {
	out := &lookat.FeedItem{
		Link:    item.Link,
		Title:   item.Title,
		Summary: item.Description,
	}
	if out.Link == "" && len(item.Links) > 0 {
		out.Link = item.Links[0]
	}
	if out.Summary == "" {
		out.Summary = item.Content
	}
	switch {
	case item.PublishedParsed != nil:
		out.PublishedAt = item.PublishedParsed
	case item.UpdatedParsed != nil:
		out.PublishedAt = item.UpdatedParsed
	}
	return out
}
