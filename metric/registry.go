package metric

import (
	stderrors "errors"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/c360/semvocab/errors"
)

// Registry manages the registration and lifecycle of metrics. It owns the
// underlying Prometheus registry, pre-registers the core engine metrics,
// and lets other packages attach additional collectors.
type Registry struct {
	prometheusRegistry *prometheus.Registry
	Metrics            *Metrics
	registered         []prometheus.Collector
	mu                 sync.Mutex
}

// NewRegistry creates a new metrics registry with core engine metrics and
// Go runtime collectors.
func NewRegistry() *Registry {
	prometheusRegistry := prometheus.NewRegistry()

	registry := &Registry{
		prometheusRegistry: prometheusRegistry,
		Metrics:            NewMetrics(),
	}
	registry.registerCoreMetrics()

	registry.prometheusRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return registry
}

// PrometheusRegistry returns the underlying Prometheus registry.
func (r *Registry) PrometheusRegistry() *prometheus.Registry {
	return r.prometheusRegistry
}

// CoreMetrics returns the core engine metrics.
func (r *Registry) CoreMetrics() *Metrics {
	return r.Metrics
}

// Register registers an additional collector. A duplicate registration is
// reported as an invalid error; other registration failures are fatal.
func (r *Registry) Register(collector prometheus.Collector) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.prometheusRegistry.Register(collector); err != nil {
		var alreadyRegErr prometheus.AlreadyRegisteredError
		if stderrors.As(err, &alreadyRegErr) {
			return errors.WrapInvalid(err, "Registry", "Register",
				"duplicate collector registration")
		}
		return errors.WrapFatal(err, "Registry", "Register",
			"failed to register collector with prometheus")
	}

	r.registered = append(r.registered, collector)
	return nil
}

// Unregister removes a previously registered collector.
func (r *Registry) Unregister(collector prometheus.Collector) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.prometheusRegistry.Unregister(collector) {
		return false
	}
	for i, c := range r.registered {
		if c == collector {
			r.registered = append(r.registered[:i], r.registered[i+1:]...)
			break
		}
	}
	return true
}

// registerCoreMetrics registers all core engine metrics.
func (r *Registry) registerCoreMetrics() {
	r.prometheusRegistry.MustRegister(
		r.Metrics.TermsLoaded,
		r.Metrics.ParseDuration,
		r.Metrics.LookupsTotal,
		r.Metrics.AmbiguousResolutions,
		r.Metrics.AnnotationsTotal,
		r.Metrics.ValidationWarnings,
	)
}
