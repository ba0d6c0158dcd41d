/*
Package observability provides Prometheus instrumentation for lattice.

Metrics are registered on a caller-provided prometheus.Registerer so that
tests and embedders can use isolated registries. The HTTP adapter serves them
through promhttp.
*/
package observability
