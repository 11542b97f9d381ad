package ingest

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/fwojciec/lookat"
	"golang.org/x/sync/errgroup"
)

var _ lookat.CategoryIngestor = (*Ingestor)(nil)

// Ingestor ingests the sources of one category. Sources are fetched
// concurrently up to Concurrency; outcomes are reported in source order.
type Ingestor struct {
	Fetcher    lookat.FeedFetcher
	Normalizer lookat.Normalizer
	Articles   lookat.ArticleService
	Detector   lookat.DuplicateDetector

	// Locks guards check-then-insert per category. Shared by every
	// Ingestor writing to the same store in this process.
	Locks *CategoryLocks

	// Limiter, if set, throttles downloads per host.
	Limiter lookat.HostLimiter

	FetchTimeout time.Duration
	Concurrency  int
	Now          func() time.Time
	Progress     ProgressFunc

	once sync.Once
}

// NewIngestor creates an Ingestor with default tuning.
func NewIngestor(fetcher lookat.FeedFetcher, normalizer lookat.Normalizer, articles lookat.ArticleService, detector lookat.DuplicateDetector) *Ingestor {
	return &Ingestor{
		Fetcher:      fetcher,
		Normalizer:   normalizer,
		Articles:     articles,
		Detector:     detector,
		Locks:        NewCategoryLocks(DefaultLockStripes),
		FetchTimeout: DefaultFetchTimeout,
		Concurrency:  DefaultSourceConcurrency,
		Now:          time.Now,
	}
}

// IngestCategory processes every source of category. It never fails:
// fetch, store and detector errors end only the affected source.
func (in *Ingestor) IngestCategory(ctx context.Context, category *lookat.Category) *lookat.CategoryFetchOutcome {
	in.once.Do(in.init)

	out := &lookat.CategoryFetchOutcome{
		CategoryName: category.Name,
		SourcesCount: len(category.Sources),
		Sources:      make([]*lookat.SourceFetchOutcome, 0, len(category.Sources)),
	}

	if len(category.Sources) == 0 {
		out.Add(&lookat.SourceFetchOutcome{
			SourceName: lookat.NoSourceName,
			SourceURL:  lookat.NoSourceName,
			Success:    false,
			Error:      lookat.NoSourcesError,
		})
		in.emit(ProgressEvent{Type: ProgressCategoryFinished, Category: category.Name})
		return out
	}

	results := make([]*lookat.SourceFetchOutcome, len(category.Sources))

	// Workers never return errors so one failing source cannot cancel its siblings.
	var g errgroup.Group
	g.SetLimit(in.Concurrency)
	for i, src := range category.Sources {
		g.Go(func() error {
			results[i] = in.ingestSource(ctx, category.Name, src)
			return nil
		})
	}
	_ = g.Wait()

	for _, result := range results {
		out.Add(result)
	}

	in.emit(ProgressEvent{
		Type:     ProgressCategoryFinished,
		Category: category.Name,
		Added:    out.ArticlesAdded,
		Skipped:  out.ArticlesSkipped,
	})
	return out
}

func (in *Ingestor) init() {
	if in.Locks == nil {
		in.Locks = NewCategoryLocks(DefaultLockStripes)
	}
	if in.FetchTimeout <= 0 {
		in.FetchTimeout = DefaultFetchTimeout
	}
	if in.Concurrency <= 0 {
		in.Concurrency = DefaultSourceConcurrency
	}
	if in.Now == nil {
		in.Now = time.Now
	}
}

// ingestSource runs one source to completion and records its outcome.
func (in *Ingestor) ingestSource(ctx context.Context, category string, src lookat.FeedSource) *lookat.SourceFetchOutcome {
	out := &lookat.SourceFetchOutcome{
		SourceName: src.Name,
		SourceURL:  src.URL,
	}

	begin := time.Now()
	in.emit(ProgressEvent{
		Type:     ProgressSourceStarted,
		Category: category,
		Source:   src.Name,
		URL:      src.URL,
	})

	if err := in.fetchSource(ctx, category, src, out); err != nil {
		out.Error = errorText(err)
		in.emit(ProgressEvent{
			Type:     ProgressSourceFailed,
			Category: category,
			Source:   src.Name,
			URL:      src.URL,
			Added:    out.ArticlesAdded,
			Skipped:  out.ArticlesSkipped,
			Error:    err,
			Duration: time.Since(begin),
		})
		return out
	}

	out.Success = true
	in.emit(ProgressEvent{
		Type:     ProgressSourceCompleted,
		Category: category,
		Source:   src.Name,
		URL:      src.URL,
		Added:    out.ArticlesAdded,
		Skipped:  out.ArticlesSkipped,
		Duration: time.Since(begin),
	})
	return out
}

// fetchSource downloads the feed and ingests its items, updating the
// counters of out as it goes so partial progress survives a failure.
func (in *Ingestor) fetchSource(ctx context.Context, category string, src lookat.FeedSource, out *lookat.SourceFetchOutcome) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if in.Limiter != nil {
		if u, err := url.Parse(src.URL); err == nil && u.Host != "" {
			if err := in.Limiter.Wait(ctx, u.Host); err != nil {
				return err
			}
		}
	}

	fetchCtx, cancel := context.WithTimeout(ctx, in.FetchTimeout)
	defer cancel()

	return in.Fetcher.Fetch(fetchCtx, src.URL, func(item *lookat.FeedItem) error {
		added, err := in.ingestItem(ctx, category, src.Name, item)
		if err != nil {
			return err
		}
		if added {
			out.ArticlesAdded++
		} else {
			out.ArticlesSkipped++
		}
		return nil
	})
}

// ingestItem stores item unless it is linkless, already stored, or a near
// duplicate. It reports whether an article was added.
func (in *Ingestor) ingestItem(ctx context.Context, category, source string, raw *lookat.FeedItem) (bool, error) {
	item := lookat.Normalize(in.Normalizer, raw)
	if item.Link == "" {
		return false, nil
	}

	unlock := in.Locks.Lock(category)
	defer unlock()

	if _, err := in.Articles.FindArticleByLink(ctx, item.Link); err == nil {
		return false, nil
	} else if lookat.ErrorCode(err) != lookat.ENOTFOUND {
		return false, fmt.Errorf("find article by link: %w", err)
	}

	dup, err := in.Detector.IsDuplicate(ctx, item.Title, item.Description, category)
	if err != nil {
		return false, fmt.Errorf("duplicate check: %w", err)
	}
	if dup {
		return false, nil
	}

	now := in.Now().UTC()
	pubDate := now
	if item.PublishedAt != nil {
		pubDate = item.PublishedAt.UTC()
	}

	article := &lookat.Article{
		Title:       item.Title,
		Description: item.Description,
		Thumbnail:   item.Thumbnail,
		Link:        item.Link,
		Category:    category,
		Source:      source,
		PubDate:     pubDate,
		CreatedAt:   now,
	}
	if err := in.Articles.CreateArticle(ctx, article); err != nil {
		// Another writer stored the link between our check and insert.
		if lookat.ErrorCode(err) == lookat.ECONFLICT {
			return false, nil
		}
		return false, fmt.Errorf("create article: %w", err)
	}
	return true, nil
}

func (in *Ingestor) emit(event ProgressEvent) {
	if in.Progress != nil {
		in.Progress(event)
	}
}
