// Package metrics holds the Prometheus collectors of the screener.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Fetch sources.
const (
	SourceYahoo  = "yahoo"
	SourceFMP    = "fmp"
	SourceNasdaq = "nasdaq"
)

// Metrics is a private registry with the screener collectors.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	Verdicts      *prometheus.CounterVec
	FetchDuration *prometheus.HistogramVec
	FetchErrors   *prometheus.CounterVec
	CacheLookups  *prometheus.CounterVec
}

// New creates and registers every collector, plus the Go runtime and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		Verdicts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "screener_verdicts_total",
				Help: "Screening verdicts by status",
			},
			[]string{"status"},
		),

		FetchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "screener_fetch_duration_seconds",
				Help:    "Duration of upstream fetches in seconds",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0},
			},
			[]string{"source"},
		),

		FetchErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "screener_fetch_errors_total",
				Help: "Failed upstream fetches by source",
			},
			[]string{"source"},
		),

		CacheLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "screener_cache_lookups_total",
				Help: "Record cache lookups by result (hit, miss)",
			},
			[]string{"result"},
		),
	}

	m.registry.MustRegister(
		m.Verdicts,
		m.FetchDuration,
		m.FetchErrors,
		m.CacheLookups,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveVerdict counts one verdict.
func (m *Metrics) ObserveVerdict(status string) {
	if m == nil {
		return
	}
	m.Verdicts.WithLabelValues(status).Inc()
}

// ObserveFetch records the duration of an upstream call and counts it as an
// error when err is non-nil.
func (m *Metrics) ObserveFetch(source string, d time.Duration, err error) {
	if m == nil {
		return
	}
	m.FetchDuration.WithLabelValues(source).Observe(d.Seconds())
	if err != nil {
		m.FetchErrors.WithLabelValues(source).Inc()
	}
}

// ObserveCacheLookup counts a cache hit or miss.
func (m *Metrics) ObserveCacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheLookups.WithLabelValues(result).Inc()
}
