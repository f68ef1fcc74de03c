// Package metrics collects and exposes Prometheus counters for the
// aggregation pipeline and the manual-tracking mirror.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is what the service layer depends on.
type Recorder interface {
	RecordCacheHit()
	RecordCacheMiss()
	RecordSourceFailure(source string)
	RecordFallback()
	RecordMergeFault()
	RecordMirrorFailure()
	RecordFetchLatency(d time.Duration)
}

type Collector struct {
	cacheHits    prometheus.Counter
	cacheMisses  prometheus.Counter
	sourceFail   *prometheus.CounterVec
	fallbacks    prometheus.Counter
	mergeFaults  prometheus.Counter
	mirrorFail   prometheus.Counter
	fetchLatency prometheus.Histogram
}

func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "medicureon_aggregation_cache_hits_total",
			Help: "Aggregation requests served from the TTL cache.",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "medicureon_aggregation_cache_misses_total",
			Help: "Aggregation requests that went to the sources.",
		}),
		sourceFail: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "medicureon_source_failures_total",
			Help: "Fetch failures per source, isolated from the merge.",
		}, []string{"source"}),
		fallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "medicureon_synthetic_fallbacks_total",
			Help: "Aggregations that substituted the synthetic baseline.",
		}),
		mergeFaults: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "medicureon_merge_faults_total",
			Help: "Recovered panics during normalize/merge.",
		}),
		mirrorFail: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "medicureon_mirror_failures_total",
			Help: "Best-effort manual-tracking mirror writes that failed.",
		}),
		fetchLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "medicureon_source_fetch_seconds",
			Help:    "Wall time of the concurrent source fetch phase.",
			Buckets: prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(c.cacheHits, c.cacheMisses, c.sourceFail,
		c.fallbacks, c.mergeFaults, c.mirrorFail, c.fetchLatency)
	return c
}

func (c *Collector) RecordCacheHit()                    { c.cacheHits.Inc() }
func (c *Collector) RecordCacheMiss()                   { c.cacheMisses.Inc() }
func (c *Collector) RecordSourceFailure(src string)     { c.sourceFail.WithLabelValues(src).Inc() }
func (c *Collector) RecordFallback()                    { c.fallbacks.Inc() }
func (c *Collector) RecordMergeFault()                  { c.mergeFaults.Inc() }
func (c *Collector) RecordMirrorFailure()               { c.mirrorFail.Inc() }
func (c *Collector) RecordFetchLatency(d time.Duration) { c.fetchLatency.Observe(d.Seconds()) }

// Handler serves the registry for the /metrics route.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

// Nop is a Recorder that discards everything; handy in tests.
type Nop struct{}

func (Nop) RecordCacheHit()                  {}
func (Nop) RecordCacheMiss()                 {}
func (Nop) RecordSourceFailure(string)       {}
func (Nop) RecordFallback()                  {}
func (Nop) RecordMergeFault()                {}
func (Nop) RecordMirrorFailure()             {}
func (Nop) RecordFetchLatency(time.Duration) {}
