// Package metrics defines the Prometheus metrics exported by the
// booru-bridge service.
//
// Metrics cover the HTTP surface, index database queries, the metadata
// caches, thumbnail generation (per strategy and admission class), and
// the artifact retention sweeper. All metrics are registered via
// promauto at package initialization.
package metrics
