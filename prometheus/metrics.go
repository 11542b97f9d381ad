// Package prometheus exposes ingestion metrics to Prometheus.
package prometheus

import (
	"github.com/fwojciec/lookat/ingest"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Namespace prefixes every metric name.
const Namespace = "lookat"

// Metrics holds the ingestion collectors registered on one registry.
type Metrics struct {
	ArticlesAdded   *prometheus.CounterVec
	ArticlesSkipped *prometheus.CounterVec
	SourceFailures  *prometheus.CounterVec
	SourceDuration  *prometheus.HistogramVec
	Runs            prometheus.Counter
	RunDuration     prometheus.Histogram
	LastRunAdded    prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ArticlesAdded: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "articles_added_total",
				Help:      "Total number of articles stored",
			},
			[]string{"category"},
		),
		ArticlesSkipped: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "articles_skipped_total",
				Help:      "Total number of feed items skipped as duplicates or linkless",
			},
			[]string{"category"},
		),
		SourceFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "source_failures_total",
				Help:      "Total number of failed source fetches",
			},
			[]string{"category"},
		),
		SourceDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Name:      "source_duration_seconds",
				Help:      "Duration of source ingestion in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"category"},
		),
		Runs: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "runs_total",
				Help:      "Total number of completed ingestion runs",
			},
		),
		RunDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Name:      "run_duration_seconds",
				Help:      "Duration of ingestion runs in seconds",
				Buckets:   []float64{1, 5, 10, 30, 60, 120, 300, 600},
			},
		),
		LastRunAdded: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: Namespace,
				Name:      "last_run_articles_added",
				Help:      "Articles stored by the most recent run",
			},
		),
	}
}

// Record updates the collectors from an ingestion progress event.
// Counts are taken from source events so partially failed sources still
// contribute what they stored.
func (m *Metrics) Record(e ingest.ProgressEvent) {
	switch e.Type {
	case ingest.ProgressSourceCompleted, ingest.ProgressSourceFailed:
		m.ArticlesAdded.WithLabelValues(e.Category).Add(float64(e.Added))
		m.ArticlesSkipped.WithLabelValues(e.Category).Add(float64(e.Skipped))
		m.SourceDuration.WithLabelValues(e.Category).Observe(e.Duration.Seconds())
		if e.Type == ingest.ProgressSourceFailed {
			m.SourceFailures.WithLabelValues(e.Category).Inc()
		}
	case ingest.ProgressRunFinished:
		m.Runs.Inc()
		m.RunDuration.Observe(e.Duration.Seconds())
		m.LastRunAdded.Set(float64(e.Added))
	}
}

// Progress returns Record as an ingest.ProgressFunc.
func (m *Metrics) Progress() ingest.ProgressFunc {
	return m.Record
}
