package scraper

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aluiziolira/go-fill-catalogue/filter"
)

// Metrics bundles Prometheus collectors for fetching and filtering.
type Metrics struct {
	Registry           *prometheus.Registry
	RequestsTotal      *prometheus.CounterVec
	RequestDuration    prometheus.Histogram
	ListingsTotal      prometheus.Counter
	RetriesTotal       prometheus.Counter
	ErrorsTotal        *prometheus.CounterVec
	FilterPassesTotal  prometheus.Counter
	ScriptsShown       prometheus.Gauge
	FillsShown         prometheus.Gauge
	RejectionsTotal    *prometheus.CounterVec
	FilterPassDuration prometheus.Histogram
}

// NewMetrics constructs and registers all metrics on a dedicated registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	requests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalogue_requests_total",
			Help: "Total HTTP requests issued for the catalogue source.",
		},
		[]string{"phase"},
	)
	requestDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "catalogue_request_duration_seconds",
			Help:    "HTTP request latency for catalogue requests.",
			Buckets: prometheus.DefBuckets,
		},
	)
	listings := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "catalogue_listings_collected_total",
			Help: "Total number of listings sent to the pipeline.",
		},
	)
	retries := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "catalogue_retries_total",
			Help: "Total number of retry attempts scheduled.",
		},
	)
	errorsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalogue_errors_total",
			Help: "Total number of fetch errors by type.",
		},
		[]string{"error_type"},
	)
	passes := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "catalogue_filter_passes_total",
			Help: "Total number of filter passes run.",
		},
	)
	scriptsShown := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalogue_scripts_shown",
			Help: "Listings visible after the most recent filter pass.",
		},
	)
	fillsShown := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalogue_fills_shown",
			Help: "Fills of the visible listings after the most recent filter pass.",
		},
	)
	rejections := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalogue_filter_rejections_total",
			Help: "Listings hidden by a filter pass, by the first criterion that failed.",
		},
		[]string{"criterion"},
	)
	passDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "catalogue_filter_pass_duration_seconds",
			Help:    "Time spent evaluating a filter pass.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		},
	)

	registry.MustRegister(requests, requestDuration, listings, retries, errorsTotal,
		passes, scriptsShown, fillsShown, rejections, passDuration)

	return &Metrics{
		Registry:           registry,
		RequestsTotal:      requests,
		RequestDuration:    requestDuration,
		ListingsTotal:      listings,
		RetriesTotal:       retries,
		ErrorsTotal:        errorsTotal,
		FilterPassesTotal:  passes,
		ScriptsShown:       scriptsShown,
		FillsShown:         fillsShown,
		RejectionsTotal:    rejections,
		FilterPassDuration: passDuration,
	}
}

// IncRequest increments the requests total counter.
func (m *Metrics) IncRequest(phase string) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(phase).Inc()
}

// ObserveDuration records an HTTP request duration.
func (m *Metrics) ObserveDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.RequestDuration.Observe(d.Seconds())
}

// IncItems increments the collected listings counter.
func (m *Metrics) IncItems() {
	if m == nil {
		return
	}
	m.ListingsTotal.Inc()
}

// IncRetries increments the retries counter.
func (m *Metrics) IncRetries() {
	if m == nil {
		return
	}
	m.RetriesTotal.Inc()
}

// IncError increments the errors counter for a type label.
func (m *Metrics) IncError(errorType string) {
	if m == nil {
		return
	}
	m.ErrorsTotal.WithLabelValues(errorType).Inc()
}

// ObservePass records the outcome of one filter pass.
func (m *Metrics) ObservePass(result filter.Result, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.FilterPassesTotal.Inc()
	m.ScriptsShown.Set(float64(result.ScriptsShown))
	m.FillsShown.Set(float64(result.FillsShown))
	m.FilterPassDuration.Observe(elapsed.Seconds())
	for criterion, n := range result.Rejections {
		m.RejectionsTotal.WithLabelValues(string(criterion)).Add(float64(n))
	}
}
