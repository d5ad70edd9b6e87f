// Package metrics exports Prometheus metrics for the NLU pipeline.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder owns the pipeline metrics. A nil *Recorder is a valid no-op, so
// the engine can run without observability wired in.
type Recorder struct {
	registry *prometheus.Registry

	requests    *prometheus.CounterVec
	intents     *prometheus.CounterVec
	cacheHits   prometheus.Counter
	cacheMisses prometheus.Counter
	duration    prometheus.Histogram
}

// Config configures the recorder.
type Config struct {
	// Registry to register into (if nil, a new one is created).
	Registry *prometheus.Registry
	// Buckets for the processing-duration histogram, in seconds.
	DurationBuckets []float64
}

// DefaultConfig returns buckets sized for a sub-200ms CPU-bound pipeline.
func DefaultConfig() Config {
	return Config{
		DurationBuckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.2, 0.5, 1},
	}
}

// New creates a Recorder and registers its collectors.
func New(cfg Config) *Recorder {
	if len(cfg.DurationBuckets) == 0 {
		cfg.DurationBuckets = DefaultConfig().DurationBuckets
	}
	registry := cfg.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	r := &Recorder{registry: registry}

	r.requests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "falaconta",
			Subsystem: "nlu",
			Name:      "requests_total",
			Help:      "Total number of utterances processed",
		},
		[]string{"status"},
	)
	r.intents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "falaconta",
			Subsystem: "nlu",
			Name:      "intents_total",
			Help:      "Classification outcomes by intent",
		},
		[]string{"intent"},
	)
	r.cacheHits = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "falaconta",
		Subsystem: "nlu",
		Name:      "cache_hits_total",
		Help:      "Result cache hits",
	})
	r.cacheMisses = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "falaconta",
		Subsystem: "nlu",
		Name:      "cache_misses_total",
		Help:      "Result cache misses",
	})
	r.duration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "falaconta",
		Subsystem: "nlu",
		Name:      "process_duration_seconds",
		Help:      "End-to-end utterance processing latency",
		Buckets:   cfg.DurationBuckets,
	})

	registry.MustRegister(r.requests, r.intents, r.cacheHits, r.cacheMisses, r.duration)
	return r
}

// ObserveRequest records one processed utterance. Cache counters are
// recorded separately via ObserveCache: requests that never consult the
// cache (rejected input, panics) must not count as misses.
func (r *Recorder) ObserveRequest(intent string, status string, d time.Duration) {
	if r == nil {
		return
	}
	r.requests.WithLabelValues(status).Inc()
	if intent != "" {
		r.intents.WithLabelValues(intent).Inc()
	}
	r.duration.Observe(d.Seconds())
}

// ObserveCache records one result-cache lookup.
func (r *Recorder) ObserveCache(hit bool) {
	if r == nil {
		return
	}
	if hit {
		r.cacheHits.Inc()
	} else {
		r.cacheMisses.Inc()
	}
}

// Handler returns the /metrics HTTP handler for this recorder's registry.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
