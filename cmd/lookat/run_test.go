package main_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/fwojciec/lookat"
	main "github.com/fwojciec/lookat/cmd/lookat"
	"github.com/fwojciec/lookat/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() *lookat.RunReport {
	report := &lookat.RunReport{}
	tech := &lookat.CategoryFetchOutcome{CategoryName: "Technology", SourcesCount: 2}
	tech.Add(&lookat.SourceFetchOutcome{SourceName: "A", SourceURL: "https://a.example/rss", ArticlesAdded: 3, ArticlesSkipped: 1, Success: true})
	tech.Add(&lookat.SourceFetchOutcome{SourceName: "B", SourceURL: "https://b.example/rss", ArticlesAdded: 1, Success: false, Error: "HTTP 503"})
	report.Add(tech)
	report.Add(&lookat.CategoryFetchOutcome{
		CategoryName: "Empty",
		Sources: []*lookat.SourceFetchOutcome{
			{SourceName: lookat.NoSourceName, SourceURL: lookat.NoSourceName, Error: lookat.NoSourcesError},
		},
	})
	return report
}

func TestRunCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("prints summary with failed sources", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: stderr,
			Ingestion: &mock.IngestionService{
				RunIngestionFn: func(context.Context) (*lookat.RunReport, error) {
					return sampleReport(), nil
				},
			},
		}

		err := (&main.RunCmd{}).Run(deps)

		require.NoError(t, err)
		out := stdout.String()
		assert.Contains(t, out, "Technology: 4 added, 1 skipped (2 sources)")
		assert.Contains(t, out, "fail B (https://b.example/rss): HTTP 503")
		assert.Contains(t, out, "Empty: 0 added, 0 skipped (0 sources)")
		assert.Contains(t, out, lookat.NoSourcesError)
		assert.Contains(t, out, "Total: 4 added, 1 skipped, 2 failed sources")
		assert.Empty(t, stderr.String())
	})

	t.Run("prints report as JSON", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: &bytes.Buffer{},
			Ingestion: &mock.IngestionService{
				RunIngestionFn: func(context.Context) (*lookat.RunReport, error) {
					return sampleReport(), nil
				},
			},
		}

		err := (&main.RunCmd{JSON: true}).Run(deps)

		require.NoError(t, err)
		var got lookat.RunReport
		require.NoError(t, json.Unmarshal(stdout.Bytes(), &got))
		assert.Equal(t, 4, got.TotalAdded)
		require.Len(t, got.Categories, 2)
		assert.Equal(t, "HTTP 503", got.Categories[0].Sources[1].Error)
		assert.Contains(t, stdout.String(), `"categoryOutcomes"`)
	})

	t.Run("returns error when run cannot start", func(t *testing.T) {
		t.Parallel()

		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: &bytes.Buffer{},
			Stderr: stderr,
			Ingestion: &mock.IngestionService{
				RunIngestionFn: func(context.Context) (*lookat.RunReport, error) {
					return nil, lookat.Errorf(lookat.ECONFLICT, "ingestion run already in progress")
				},
			},
		}

		err := (&main.RunCmd{}).Run(deps)

		require.Error(t, err)
		assert.Equal(t, lookat.ECONFLICT, lookat.ErrorCode(err))
		assert.Contains(t, stderr.String(), "error: ingestion run already in progress")
	})
}
