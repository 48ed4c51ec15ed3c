package pipeline

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for summary runs.
//
//   - moodlog_summary_runs_total{outcome} - runs by outcome: updated, no_data, failed
//   - moodlog_insight_generations_total{source} - insights by source: ai, fallback
//   - moodlog_summary_run_duration_seconds - histogram of run durations
type Metrics struct {
	RunsTotal     *prometheus.CounterVec
	InsightsTotal *prometheus.CounterVec
	RunDuration   prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg.
// Pass prometheus.DefaultRegisterer for the process-wide registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RunsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "moodlog_summary_runs_total",
				Help: "Total number of daily summary runs by outcome",
			},
			[]string{"outcome"},
		),
		InsightsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "moodlog_insight_generations_total",
				Help: "Total number of generated insights by source",
			},
			[]string{"source"},
		),
		RunDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "moodlog_summary_run_duration_seconds",
				Help:    "Duration of daily summary runs in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
	}
}

func (m *Metrics) observeRun(outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.RunsTotal.WithLabelValues(outcome).Inc()
	m.RunDuration.Observe(elapsed.Seconds())
}

func (m *Metrics) observeInsight(source string) {
	if m == nil {
		return
	}
	m.InsightsTotal.WithLabelValues(source).Inc()
}
