// Package database provides read-only access to the awtfdb SQLite
// index that backs the booru-bridge service.
//
// It executes compiled tag predicates against the tag_files table and
// exposes direct lookups for file paths, tag names, tag usage counts,
// and pool membership. The index is owned by another program; this
// package never writes to it.
package database
