/*
Package observability turns evaluation hooks into Prometheus metrics.

Metrics are registered on a caller-provided registerer, so tests and embedding
applications can keep them off the global default registry.
*/
package observability
