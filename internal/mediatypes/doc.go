// Package mediatypes resolves and classifies media types for the
// booru-bridge service.
//
// Mime types are sniffed from file content (never from the extension),
// normalized through a small remapping table for mimes the ecosystem
// names inconsistently, and memoized. The coarse kind
// (image/animation/video/audio/other) drives which thumbnail strategy
// applies, and the extension derivation names artifacts on disk.
package mediatypes
