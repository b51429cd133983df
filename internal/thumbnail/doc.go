// Package thumbnail produces and serves per-file thumbnail artifacts.
//
// A strategy table maps a file's mime type and kind to a generation
// procedure: direct image resize, video frame extraction, document
// rasterization, or a synthesized text card. Generation is governed by
// a per-file-id job registry (at most one in-flight generation per
// file, shared by all concurrent requesters) and two weighted
// admission classes bounding cheap and expensive work. A scheduled
// sweeper evicts artifacts unused past a retention window.
//
// Artifacts are derived data: every strategy is idempotent and writes
// to a path named purely from the file id, so anything the sweeper
// removes can be regenerated on the next request.
package thumbnail
