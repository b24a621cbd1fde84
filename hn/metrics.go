package hn

import (
	"net/http"
	"strconv"
	"time"

	"github.com/agentuity/go-hn/cache"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Default histogram buckets for request duration (in milliseconds)
var defaultBuckets = []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000}

// Metrics holds the prometheus collectors for the client and its caches.
// A nil *Metrics records nothing.
type Metrics struct {
	registry *prometheus.Registry

	cacheEvents     *prometheus.CounterVec
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

var _ cache.Observer = (*Metrics)(nil)

// NewMetrics creates the collectors under namespace in a private registry.
func NewMetrics(namespace string) *Metrics {
	registry := prometheus.NewRegistry()
	m := &Metrics{
		registry: registry,

		cacheEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_events_total",
				Help:      "Cache lookups by cache and outcome (hit, miss, join, error)",
			},
			[]string{"cache", "event"},
		),

		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "requests_total",
				Help:      "Total API requests by endpoint and status",
			},
			[]string{"endpoint", "status"},
		),

		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "request_duration_ms",
				Help:      "API request duration in milliseconds",
				Buckets:   defaultBuckets,
			},
			[]string{"endpoint"},
		),
	}
	registry.MustRegister(m.cacheEvents, m.requestsTotal, m.requestDuration)
	return m
}

// Registry returns the registry holding the collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the collectors in the prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) cacheEvent(name, event string) {
	if m == nil {
		return
	}
	m.cacheEvents.WithLabelValues(name, event).Inc()
}

func (m *Metrics) Hit(name string)   { m.cacheEvent(name, "hit") }
func (m *Metrics) Miss(name string)  { m.cacheEvent(name, "miss") }
func (m *Metrics) Join(name string)  { m.cacheEvent(name, "join") }
func (m *Metrics) Error(name string) { m.cacheEvent(name, "error") }

func (m *Metrics) observeRequest(endpoint string, status int, err error, d time.Duration) {
	if m == nil {
		return
	}
	label := strconv.Itoa(status)
	if status == 0 && err != nil {
		label = "error"
	}
	m.requestsTotal.WithLabelValues(endpoint, label).Inc()
	m.requestDuration.WithLabelValues(endpoint).Observe(float64(d.Milliseconds()))
}
