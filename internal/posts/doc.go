// Package posts builds gallery-ready JSON documents for indexed files,
// tags, and pools. It layers short-lived caches over the database so
// that hydrating a page of results does not re-derive per-file metadata
// on every request.
package posts
