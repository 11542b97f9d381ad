package main_test

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fwojciec/lookat"
	main "github.com/fwojciec/lookat/cmd/lookat"
	"github.com/fwojciec/lookat/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Test</title>
    <item>
      <title>Ra mắt điện thoại gập mới</title>
      <link>https://example.com/dien-thoai</link>
      <description><![CDATA[<img src="https://example.com/a.jpg"/><p>Mẫu máy mới có pin lớn.</p>]]></description>
      <pubDate>Mon, 02 Mar 2026 08:00:00 +0700</pubDate>
    </item>
    <item>
      <title>Giá xăng giảm từ chiều nay</title>
      <link>https://example.com/gia-xang</link>
      <description>Liên bộ điều chỉnh giá.</description>
    </item>
  </channel>
</rss>`

func runMain(t *testing.T, m *main.Main, args ...string) (string, string, error) {
	t.Helper()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	err := m.Run(context.Background(), args, stdout, stderr)
	return stdout.String(), stderr.String(), err
}

func TestMain_Run_EndToEnd(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprint(w, testRSS)
	}))
	defer srv.Close()

	seed := writeFile(t, "seed.yaml", fmt.Sprintf(`categories:
  - name: Technology
    sources:
      - name: Local
        url: %s/rss
  - name: Empty
`, srv.URL))

	dbPath := filepath.Join(t.TempDir(), "lookat.db")
	newMain := func() *main.Main {
		m := main.NewMain()
		m.DBPath = dbPath
		return m
	}

	out, _, err := runMain(t, newMain(), "import", seed)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 2 categories")

	out, _, err = runMain(t, newMain(), "categories")
	require.NoError(t, err)
	assert.Contains(t, out, "Technology (1 sources)")

	out, _, err = runMain(t, newMain(), "run")
	require.NoError(t, err)
	assert.Contains(t, out, "Technology: 2 added, 0 skipped (1 sources)")
	assert.Contains(t, out, lookat.NoSourcesError)

	out, _, err = runMain(t, newMain(), "run", "--no-bloom", "--normalizer", "goquery")
	require.NoError(t, err)
	assert.Contains(t, out, "Technology: 0 added, 2 skipped (1 sources)")

	out, _, err = runMain(t, newMain(), "articles", "--category", "Technology")
	require.NoError(t, err)
	assert.Contains(t, out, "Ra mắt điện thoại gập mới")
	assert.Contains(t, out, "https://example.com/gia-xang")
	assert.Equal(t, 2, strings.Count(out, "[Technology]"))
}

func TestMain_Run_InjectedServices(t *testing.T) {
	t.Parallel()

	var ran bool
	m := main.NewMain()
	m.CategoryService = &mock.CategoryService{}
	m.ArticleService = &mock.ArticleService{}
	m.IngestionService = &mock.IngestionService{
		RunIngestionFn: func(context.Context) (*lookat.RunReport, error) {
			ran = true
			return &lookat.RunReport{}, nil
		},
	}

	out, _, err := runMain(t, m, "run")

	require.NoError(t, err)
	assert.True(t, ran)
	assert.Contains(t, out, "Total: 0 added, 0 skipped, 0 failed sources")
}

func TestMain_Run_InvalidDedupConfig(t *testing.T) {
	t.Parallel()

	m := main.NewMain()
	m.DBPath = filepath.Join(t.TempDir(), "lookat.db")

	_, stderr, err := runMain(t, m, "run", "--title-threshold", "150")

	require.Error(t, err)
	assert.Equal(t, lookat.EINVALID, lookat.ErrorCode(err))
	assert.Contains(t, stderr, "error:")
}
