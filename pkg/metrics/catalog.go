package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CatalogMetrics records observations for product source fetches and the
// snapshot cache in front of them.
type CatalogMetrics struct {
	fetchDuration *prometheus.HistogramVec
	fetchSuccess  *prometheus.CounterVec
	fetchFailure  *prometheus.CounterVec
	cacheHits     prometheus.Counter
	cacheMisses   prometheus.Counter
}

// NewCatalogMetrics registers the catalog metrics on the provided registerer.
func NewCatalogMetrics(reg prometheus.Registerer) *CatalogMetrics {
	if reg == nil {
		return &CatalogMetrics{}
	}
	fetchDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "catalog_fetch_duration_seconds",
		Help:    "Duration of product source fetches in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
	fetchSuccess := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_fetch_success",
		Help: "Successful product source fetches.",
	}, []string{"operation"})
	fetchFailure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_fetch_failure",
		Help: "Failed product source fetches.",
	}, []string{"operation"})
	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "catalog_cache_hits",
		Help: "Catalog snapshot cache hits.",
	})
	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "catalog_cache_misses",
		Help: "Catalog snapshot cache misses.",
	})
	reg.MustRegister(fetchDuration, fetchSuccess, fetchFailure, cacheHits, cacheMisses)
	return &CatalogMetrics{
		fetchDuration: fetchDuration,
		fetchSuccess:  fetchSuccess,
		fetchFailure:  fetchFailure,
		cacheHits:     cacheHits,
		cacheMisses:   cacheMisses,
	}
}

// ObserveFetch records the duration for the named source operation.
func (c *CatalogMetrics) ObserveFetch(operation string, duration time.Duration) {
	if c == nil || c.fetchDuration == nil {
		return
	}
	c.fetchDuration.WithLabelValues(normalizeLabel(operation)).Observe(duration.Seconds())
}

// IncFetchSuccess increments the success counter for the named operation.
func (c *CatalogMetrics) IncFetchSuccess(operation string) {
	if c == nil || c.fetchSuccess == nil {
		return
	}
	c.fetchSuccess.WithLabelValues(normalizeLabel(operation)).Inc()
}

// IncFetchFailure increments the failure counter for the named operation.
func (c *CatalogMetrics) IncFetchFailure(operation string) {
	if c == nil || c.fetchFailure == nil {
		return
	}
	c.fetchFailure.WithLabelValues(normalizeLabel(operation)).Inc()
}

// IncCacheHit increments the snapshot cache hit counter.
func (c *CatalogMetrics) IncCacheHit() {
	if c == nil || c.cacheHits == nil {
		return
	}
	c.cacheHits.Inc()
}

// IncCacheMiss increments the snapshot cache miss counter.
func (c *CatalogMetrics) IncCacheMiss() {
	if c == nil || c.cacheMisses == nil {
		return
	}
	c.cacheMisses.Inc()
}

func normalizeLabel(operation string) string {
	if operation == "" {
		return "unknown"
	}
	return operation
}
