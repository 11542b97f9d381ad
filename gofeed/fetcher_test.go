package gofeed_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fwojciec/lookat"
	"github.com/fwojciec/lookat/gofeed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rssFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Example News</title>
    <link>https://example.com/</link>
    <description>News</description>
    <item>
      <title>First story</title>
      <link>https://example.com/news/1</link>
      <description><![CDATA[<p>Summary one</p><img src="https://example.com/1.jpg"/>]]></description>
      <pubDate>Mon, 02 Jan 2006 15:04:05 -0700</pubDate>
    </item>
    <item>
      <title>Second story</title>
      <link>https://example.com/news/2</link>
    </item>
    <item>
      <description>An entry without title or link</description>
    </item>
  </channel>
</rss>`

const atomFeed = `<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Example Atom</title>
  <id>urn:example</id>
  <updated>2024-05-01T10:00:00Z</updated>
  <entry>
    <title>Atom entry</title>
    <link href="https://example.com/atom/1"/>
    <id>urn:example:1</id>
    <updated>2024-05-01T10:00:00Z</updated>
    <summary>Atom summary</summary>
  </entry>
  <entry>
    <title>Content only</title>
    <link href="https://example.com/atom/2"/>
    <id>urn:example:2</id>
    <published>2024-04-30T08:00:00Z</published>
    <updated>2024-05-01T09:00:00Z</updated>
    <content type="html">&lt;p&gt;Body&lt;/p&gt;</content>
  </entry>
</feed>`

const truncatedFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Broken tail</title>
    <item><title>Kept one</title><link>https://example.com/k/1</link></item>
    <item><title>Kept two</title><link>https://example.com/k/2</link></item>
    <b>unclosed
    <item><title`

const namespacedFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:content="http://purl.org/rss/1.0/modules/content/" xmlns:dc="http://purl.org/dc/elements/1.1/">
  <channel>
    <title>Namespaced</title>
    <item>
      <title>With encoded content</title>
      <link>https://example.com/ns/1</link>
      <dc:creator>Reporter</dc:creator>
      <content:encoded><![CDATA[<p>Encoded body<br>line</p>]]></content:encoded>
    </item>
  </channel>
</rss>`

const jsonFeed = `{"version":"https://jsonfeed.org/version/1.1","title":"J","items":[{"id":"1","url":"https://example.com/j/1","title":"Json item","content_html":"<p>Json body</p>"}]}`

func serve(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func collect(t *testing.T, f *gofeed.Fetcher, url string) ([]*lookat.FeedItem, error) {
	t.Helper()
	var items []*lookat.FeedItem
	err := f.Fetch(context.Background(), url, func(item *lookat.FeedItem) error {
		items = append(items, item)
		return nil
	})
	return items, err
}

func TestFetcher_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("parses RSS 2.0 items in document order", func(t *testing.T) {
		t.Parallel()

		server := serve(t, http.StatusOK, rssFeed)

		items, err := collect(t, gofeed.NewFetcher(), server.URL)
		require.NoError(t, err)
		require.Len(t, items, 3)

		assert.Equal(t, "First story", items[0].Title)
		assert.Equal(t, "https://example.com/news/1", items[0].Link)
		assert.Contains(t, items[0].Summary, `<img src="https://example.com/1.jpg"/>`)
		require.NotNil(t, items[0].PublishedAt)
		assert.Equal(t, time.Date(2006, 1, 2, 22, 4, 5, 0, time.UTC), items[0].PublishedAt.UTC())

		assert.Equal(t, "Second story", items[1].Title)
		assert.Empty(t, items[1].Summary)
		assert.Nil(t, items[1].PublishedAt)
	})

	t.Run("tolerates entries with missing fields", func(t *testing.T) {
		t.Parallel()

		server := serve(t, http.StatusOK, rssFeed)

		items, err := collect(t, gofeed.NewFetcher(), server.URL)
		require.NoError(t, err)
		require.Len(t, items, 3)
		assert.Empty(t, items[2].Link)
		assert.Empty(t, items[2].Title)
		assert.Equal(t, "An entry without title or link", items[2].Summary)
	})

	t.Run("parses Atom entries", func(t *testing.T) {
		t.Parallel()

		server := serve(t, http.StatusOK, atomFeed)

		items, err := collect(t, gofeed.NewFetcher(), server.URL)
		require.NoError(t, err)
		require.Len(t, items, 2)

		assert.Equal(t, "https://example.com/atom/1", items[0].Link)
		assert.Equal(t, "Atom summary", items[0].Summary)
		require.NotNil(t, items[0].PublishedAt, "falls back to updated date")
		assert.Equal(t, time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC), items[0].PublishedAt.UTC())

		assert.Contains(t, items[1].Summary, "Body", "falls back to content")
		require.NotNil(t, items[1].PublishedAt)
		assert.Equal(t, time.Date(2024, 4, 30, 8, 0, 0, 0, time.UTC), items[1].PublishedAt.UTC())
	})

	t.Run("returns EUNAVAILABLE for non-2xx status", func(t *testing.T) {
		t.Parallel()

		server := serve(t, http.StatusNotFound, "not found")

		_, err := collect(t, gofeed.NewFetcher(), server.URL)
		require.Error(t, err)
		assert.Equal(t, lookat.EUNAVAILABLE, lookat.ErrorCode(err))
		assert.Contains(t, lookat.ErrorMessage(err), "404")
	})

	t.Run("returns EINVALID for malformed XML", func(t *testing.T) {
		t.Parallel()

		server := serve(t, http.StatusOK, "<rss><channel><item><title>broken")

		_, err := collect(t, gofeed.NewFetcher(), server.URL)
		require.Error(t, err)
		assert.Equal(t, lookat.EINVALID, lookat.ErrorCode(err))
	})

	t.Run("returns EINVALID for non-feed content", func(t *testing.T) {
		t.Parallel()

		server := serve(t, http.StatusOK, "<html><body>hello</body></html>")

		_, err := collect(t, gofeed.NewFetcher(), server.URL)
		require.Error(t, err)
		assert.Equal(t, lookat.EINVALID, lookat.ErrorCode(err))
	})

	t.Run("delivers entries read before a syntax error", func(t *testing.T) {
		t.Parallel()

		server := serve(t, http.StatusOK, truncatedFeed)

		items, err := collect(t, gofeed.NewFetcher(), server.URL)
		require.Error(t, err)
		assert.Equal(t, lookat.EINVALID, lookat.ErrorCode(err))
		require.Len(t, items, 2)
		assert.Equal(t, "https://example.com/k/1", items[0].Link)
		assert.Equal(t, "Kept two", items[1].Title)
	})

	t.Run("keeps root namespace declarations in scope", func(t *testing.T) {
		t.Parallel()

		server := serve(t, http.StatusOK, namespacedFeed)

		items, err := collect(t, gofeed.NewFetcher(), server.URL)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "With encoded content", items[0].Title)
		assert.Contains(t, items[0].Summary, "Encoded body")
	})

	t.Run("decodes declared non-UTF-8 charsets", func(t *testing.T) {
		t.Parallel()

		latin1 := "<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?>\n" +
			"<rss version=\"2.0\"><channel><title>L</title>" +
			"<item><title>Caf\xe9</title><link>https://example.com/l/1</link></item>" +
			"</channel></rss>"
		server := serve(t, http.StatusOK, latin1)

		items, err := collect(t, gofeed.NewFetcher(), server.URL)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "Café", items[0].Title)
	})

	t.Run("parses JSON feeds", func(t *testing.T) {
		t.Parallel()

		server := serve(t, http.StatusOK, jsonFeed)

		items, err := collect(t, gofeed.NewFetcher(), server.URL)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "https://example.com/j/1", items[0].Link)
		assert.Contains(t, items[0].Summary, "Json body")
	})

	t.Run("rejects feeds larger than the size cap", func(t *testing.T) {
		t.Parallel()

		server := serve(t, http.StatusOK, rssFeed)

		items, err := collect(t, gofeed.NewFetcher(gofeed.WithMaxBytes(64)), server.URL)
		require.Error(t, err)
		assert.Equal(t, lookat.EINVALID, lookat.ErrorCode(err))
		assert.Contains(t, lookat.ErrorMessage(err), "exceeds 64 bytes")
		assert.Empty(t, items)
	})

	t.Run("accepts a feed exactly at the size cap", func(t *testing.T) {
		t.Parallel()

		server := serve(t, http.StatusOK, rssFeed)

		items, err := collect(t, gofeed.NewFetcher(gofeed.WithMaxBytes(int64(len(rssFeed)))), server.URL)
		require.NoError(t, err)
		assert.Len(t, items, 3)
	})

	t.Run("stops at the first callback error", func(t *testing.T) {
		t.Parallel()

		server := serve(t, http.StatusOK, rssFeed)
		stop := errors.New("stop")

		var seen int
		err := gofeed.NewFetcher().Fetch(context.Background(), server.URL, func(*lookat.FeedItem) error {
			seen++
			return stop
		})

		require.ErrorIs(t, err, stop)
		assert.Equal(t, 1, seen)
	})

	t.Run("respects custom timeout option", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(100 * time.Millisecond)
			_, _ = w.Write([]byte(rssFeed))
		}))
		defer server.Close()

		_, err := collect(t, gofeed.NewFetcher(gofeed.WithTimeout(10*time.Millisecond)), server.URL)
		require.Error(t, err)
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		t.Parallel()

		server := serve(t, http.StatusOK, rssFeed)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := gofeed.NewFetcher().Fetch(ctx, server.URL, func(*lookat.FeedItem) error { return nil })
		require.Error(t, err)
	})

	t.Run("sends user agent", func(t *testing.T) {
		t.Parallel()

		var got string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = r.Header.Get("User-Agent")
			_, _ = w.Write([]byte(rssFeed))
		}))
		defer server.Close()

		_, err := collect(t, gofeed.NewFetcher(gofeed.WithUserAgent("test-agent")), server.URL)
		require.NoError(t, err)
		assert.Equal(t, "test-agent", got)
	})

	t.Run("returns error for non-existent host", func(t *testing.T) {
		t.Parallel()

		_, err := collect(t, gofeed.NewFetcher(gofeed.WithTimeout(100*time.Millisecond)), "http://non-existent-host.invalid/feed")
		require.Error(t, err)
	})
}
