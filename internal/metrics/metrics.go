// Package metrics exposes Prometheus instrumentation for the assessment
// pipeline. A nil *Metrics is a valid no-op recorder, so components can be
// wired without metrics in tests.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "topspin"

// Metrics holds the collectors for the analysis pipeline.
type Metrics struct {
	submissions      *prometheus.CounterVec
	analysisDuration prometheus.Histogram
	httpRequests     *prometheus.CounterVec
}

// New registers the application collectors with the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		submissions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "submissions_total",
			Help:      "Video assessment submissions by outcome.",
		}, []string{"outcome"}),
		analysisDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "submission_duration_seconds",
			Help:      "End-to-end duration of assessment submissions.",
			// The model call dominates; buckets stretch into minutes.
			Buckets: []float64{0.1, 1, 5, 15, 30, 60, 120, 300, 600},
		}),
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"route", "status"}),
	}
}

// ObserveSubmission records one finished submission with its outcome label.
func (m *Metrics) ObserveSubmission(outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(outcome).Inc()
	m.analysisDuration.Observe(duration.Seconds())
}

// ObserveRequest records one handled HTTP request.
func (m *Metrics) ObserveRequest(route, status string) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(route, status).Inc()
}
