// Package metrics exposes refinement counters and latencies to Prometheus.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const Namespace = "promptrefiner"

type Recorder struct {
	refinements   *prometheus.CounterVec
	modelFailures *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	rateLimited   *prometheus.CounterVec
}

// NewRecorder registers the collectors on reg. Pass prometheus.DefaultRegisterer to expose them on /metrics.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		refinements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "refinements_total",
			Help:      "Refinements served, by the strategy that produced the result.",
		}, []string{"strategy"}),
		modelFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "model_failures_total",
			Help:      "Failed model calls that fell back to heuristic refinement.",
		}, []string{"category"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "refine_duration_seconds",
			Help:      "End-to-end refinement latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"strategy"}),
		rateLimited: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "rate_limited_total",
			Help:      "Requests rejected by a rate limit rule.",
		}, []string{"rule"}),
	}
	reg.MustRegister(r.refinements, r.modelFailures, r.duration, r.rateLimited)
	return r
}

func (r *Recorder) ObserveRefinement(strategy string, elapsed time.Duration) {
	r.refinements.WithLabelValues(strategy).Inc()
	r.duration.WithLabelValues(strategy).Observe(elapsed.Seconds())
}

func (r *Recorder) ModelFailure(category string) {
	r.modelFailures.WithLabelValues(category).Inc()
}

func (r *Recorder) RateLimited(rule string) {
	r.rateLimited.WithLabelValues(rule).Inc()
}
