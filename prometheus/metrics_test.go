package prometheus_test

import (
	"errors"
	"testing"
	"time"

	"github.com/fwojciec/lookat"
	"github.com/fwojciec/lookat/ingest"
	lookprom "github.com/fwojciec/lookat/prometheus"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Record(t *testing.T) {
	t.Parallel()

	t.Run("source events update per-category counters", func(t *testing.T) {
		t.Parallel()

		m := lookprom.NewMetrics(prometheus.NewRegistry())
		progress := m.Progress()

		progress(ingest.ProgressEvent{Type: ingest.ProgressSourceStarted, Category: "World"})
		progress(ingest.ProgressEvent{Type: ingest.ProgressSourceCompleted, Category: "World", Added: 3, Skipped: 2, Duration: time.Second})
		progress(ingest.ProgressEvent{Type: ingest.ProgressSourceFailed, Category: "World", Added: 1, Error: errors.New("boom")})
		progress(ingest.ProgressEvent{Type: ingest.ProgressSourceCompleted, Category: "Sports", Skipped: 5})

		assert.Equal(t, 4.0, testutil.ToFloat64(m.ArticlesAdded.WithLabelValues("World")))
		assert.Equal(t, 2.0, testutil.ToFloat64(m.ArticlesSkipped.WithLabelValues("World")))
		assert.Equal(t, 1.0, testutil.ToFloat64(m.SourceFailures.WithLabelValues("World")))
		assert.Equal(t, 5.0, testutil.ToFloat64(m.ArticlesSkipped.WithLabelValues("Sports")))
		assert.Equal(t, 0.0, testutil.ToFloat64(m.SourceFailures.WithLabelValues("Sports")))
	})

	t.Run("run finished updates run collectors", func(t *testing.T) {
		t.Parallel()

		reg := prometheus.NewRegistry()
		m := lookprom.NewMetrics(reg)

		m.Record(ingest.ProgressEvent{
			Type:     ingest.ProgressRunFinished,
			Added:    7,
			Duration: 2 * time.Second,
			Report:   &lookat.RunReport{TotalAdded: 7},
		})

		assert.Equal(t, 1.0, testutil.ToFloat64(m.Runs))
		assert.Equal(t, 7.0, testutil.ToFloat64(m.LastRunAdded))
		count, err := testutil.GatherAndCount(reg, "lookat_run_duration_seconds")
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("registering twice on one registry panics", func(t *testing.T) {
		t.Parallel()

		reg := prometheus.NewRegistry()
		lookprom.NewMetrics(reg)
		assert.Panics(t, func() { lookprom.NewMetrics(reg) })
	})
}
