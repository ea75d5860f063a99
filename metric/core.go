package metric

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Namespace is the Prometheus namespace shared by every metric the engine
// exports.
const Namespace = "semvocab"

// Metrics contains the engine-level metrics: vocabulary loading, term
// resolution, and annotation building.
type Metrics struct {
	// Loading metrics
	TermsLoaded   *prometheus.GaugeVec
	ParseDuration *prometheus.HistogramVec

	// Resolution metrics
	LookupsTotal         *prometheus.CounterVec
	AmbiguousResolutions prometheus.Counter

	// Annotation metrics
	AnnotationsTotal   *prometheus.CounterVec
	ValidationWarnings *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance with all engine metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		TermsLoaded: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: Namespace,
				Subsystem: "vocabulary",
				Name:      "terms_loaded",
				Help:      "Number of terms held by each loaded vocabulary",
			},
			[]string{"vocabulary"},
		),

		ParseDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Subsystem: "vocabulary",
				Name:      "parse_duration_seconds",
				Help:      "Time spent parsing vocabulary source documents",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"vocabulary"},
		),

		LookupsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Subsystem: "resolver",
				Name:      "lookups_total",
				Help:      "Total number of term lookups by outcome",
			},
			[]string{"vocabulary", "result"},
		),

		AmbiguousResolutions: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Subsystem: "resolver",
				Name:      "ambiguous_total",
				Help:      "Total number of lookups that matched terms in more than one vocabulary",
			},
		),

		AnnotationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Subsystem: "annotation",
				Name:      "built_total",
				Help:      "Total number of annotations built by kind",
			},
			[]string{"kind"},
		),

		ValidationWarnings: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Subsystem: "annotation",
				Name:      "validation_warnings_total",
				Help:      "Total number of unit validation warnings by reason",
			},
			[]string{"reason"},
		),
	}
}

// RecordTermsLoaded sets the term count for a vocabulary after loading.
func (c *Metrics) RecordTermsLoaded(vocabulary string, count int) {
	c.TermsLoaded.WithLabelValues(vocabulary).Set(float64(count))
}

// RecordParseDuration records how long a vocabulary document took to parse.
func (c *Metrics) RecordParseDuration(vocabulary string, duration time.Duration) {
	c.ParseDuration.WithLabelValues(vocabulary).Observe(duration.Seconds())
}

// RecordLookup increments the lookup counter. result is one of "hit",
// "obsolete" or "miss".
func (c *Metrics) RecordLookup(vocabulary, result string) {
	c.LookupsTotal.WithLabelValues(vocabulary, result).Inc()
}

// RecordAmbiguousResolution increments the cross-vocabulary ambiguity counter.
func (c *Metrics) RecordAmbiguousResolution() {
	c.AmbiguousResolutions.Inc()
}

// RecordAnnotation increments the annotation counter. kind is one of "cv",
// "user" or "group_ref".
func (c *Metrics) RecordAnnotation(kind string) {
	c.AnnotationsTotal.WithLabelValues(kind).Inc()
}

// RecordValidationWarning increments the warning counter for a validation
// failure reason.
func (c *Metrics) RecordValidationWarning(reason string) {
	c.ValidationWarnings.WithLabelValues(reason).Inc()
}
