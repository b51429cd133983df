// Package cache provides a bounded, time-expiring in-memory store used
// for the per-file metadata caches (local path, mime type, file kind,
// canvas dimensions, tag usage).
//
// Entries expire lazily on read once they are older than the configured
// maximum age; when the store is full, the least-recently-inserted entry
// is evicted first. Values must be cheap to recompute: eviction and
// expiry only trade memory for recomputation, never correctness.
package cache
