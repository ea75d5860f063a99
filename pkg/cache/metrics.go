package cache

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/c360/semvocab/metric"
)

// cacheMetrics exports cache statistics to Prometheus. All record methods
// are safe to call on a nil receiver so call sites do not need to branch on
// whether metrics were enabled.
type cacheMetrics struct {
	hits      prometheus.Counter
	misses    prometheus.Counter
	sets      prometheus.Counter
	deletes   prometheus.Counter
	evictions prometheus.Counter
	size      prometheus.Gauge
}

// newCacheMetrics creates and registers cache metrics under the given
// component prefix, which becomes the "cache" label on every series.
func newCacheMetrics(registry *metric.Registry, prefix string) (*cacheMetrics, error) {
	labels := prometheus.Labels{"cache": prefix}

	m := &cacheMetrics{
		hits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   metric.Namespace,
			Subsystem:   "cache",
			Name:        "hits_total",
			Help:        "Total number of cache hits.",
			ConstLabels: labels,
		}),
		misses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   metric.Namespace,
			Subsystem:   "cache",
			Name:        "misses_total",
			Help:        "Total number of cache misses.",
			ConstLabels: labels,
		}),
		sets: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   metric.Namespace,
			Subsystem:   "cache",
			Name:        "sets_total",
			Help:        "Total number of cache set operations.",
			ConstLabels: labels,
		}),
		deletes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   metric.Namespace,
			Subsystem:   "cache",
			Name:        "deletes_total",
			Help:        "Total number of cache delete operations.",
			ConstLabels: labels,
		}),
		evictions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   metric.Namespace,
			Subsystem:   "cache",
			Name:        "evictions_total",
			Help:        "Total number of entries evicted by the LRU policy.",
			ConstLabels: labels,
		}),
		size: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   metric.Namespace,
			Subsystem:   "cache",
			Name:        "size",
			Help:        "Current number of entries in the cache.",
			ConstLabels: labels,
		}),
	}

	collectors := []prometheus.Collector{
		m.hits, m.misses, m.sets, m.deletes, m.evictions, m.size,
	}
	for _, collector := range collectors {
		if err := registry.Register(collector); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *cacheMetrics) recordHit() {
	if m == nil {
		return
	}
	m.hits.Inc()
}

func (m *cacheMetrics) recordMiss() {
	if m == nil {
		return
	}
	m.misses.Inc()
}

func (m *cacheMetrics) recordSet() {
	if m == nil {
		return
	}
	m.sets.Inc()
}

func (m *cacheMetrics) recordDelete() {
	if m == nil {
		return
	}
	m.deletes.Inc()
}

func (m *cacheMetrics) recordEviction() {
	if m == nil {
		return
	}
	m.evictions.Inc()
}

func (m *cacheMetrics) updateSize(size int) {
	if m == nil {
		return
	}
	m.size.Set(float64(size))
}
