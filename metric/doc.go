// Package metric provides Prometheus instrumentation for the vocabulary
// engine: a shared Registry owning the engine's core metrics (vocabulary
// loading, term resolution, annotation building), an HTTP server exposing
// them, and a Register hook for package-local collectors such as cache
// statistics.
package metric
