package service

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricsService owns the Prometheus collectors for the API.
type MetricsService struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	cacheHits    prometheus.Counter
	cacheMisses  prometheus.Counter
}

// NewMetricsService builds and registers all collectors on a fresh registry.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	s := &MetricsService{
		registry: registry,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "courseware_http_requests_total",
			Help: "Total number of HTTP requests handled.",
		}, []string{"method", "path", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "courseware_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "courseware_cache_hits_total",
			Help: "Number of cache lookups that found a value.",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "courseware_cache_misses_total",
			Help: "Number of cache lookups that missed.",
		}),
	}

	registry.MustRegister(s.httpRequests, s.httpDuration, s.cacheHits, s.cacheMisses)
	return s
}

// Registry exposes the backing registry for the metrics handler.
func (s *MetricsService) Registry() *prometheus.Registry {
	return s.registry
}

// RecordRequest counts a completed HTTP request and its latency.
func (s *MetricsService) RecordRequest(method, path, status string, duration time.Duration) {
	if s == nil {
		return
	}
	s.httpRequests.WithLabelValues(method, path, status).Inc()
	s.httpDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordCacheHit counts a cache hit.
func (s *MetricsService) RecordCacheHit() {
	if s == nil {
		return
	}
	s.cacheHits.Inc()
}

// RecordCacheMiss counts a cache miss.
func (s *MetricsService) RecordCacheMiss() {
	if s == nil {
		return
	}
	s.cacheMisses.Inc()
}
