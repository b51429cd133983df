package mediatypes

import (
	"fmt"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"booru-bridge/internal/cache"
	"booru-bridge/internal/logging"
)

// Resolver sniffs and memoizes mime types and file kinds. Sniffing
// reads file content, so results are cached per path (mime) and per
// file id (kind); recomputation after expiry is idempotent.
type Resolver struct {
	mimeCache *cache.Cache[string, string]
	kindCache *cache.Cache[int64, Kind]
}

// NewResolver creates a Resolver with the standard cache bounds:
// mime types are high-churn (short TTL), kinds are cheap to hold.
func NewResolver() *Resolver {
	return &Resolver{
		mimeCache: cache.New[string, string]("mime_type", 1000, 5*time.Minute),
		kindCache: cache.New[int64, Kind]("file_kind", 10000, 20*time.Minute),
	}
}

// Mime returns the canonical mime type for the file at path, sniffed
// from content once per distinct path and memoized.
func (r *Resolver) Mime(path string) (string, error) {
	if m, ok := r.mimeCache.Get(path); ok {
		return m, nil
	}

	detected, err := mimetype.DetectFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to sniff mime type of %s: %w", path, err)
	}

	m := detected.String()
	// DetectFile appends parameters for text types (charset); the
	// canonical form is the bare type.
	if i := strings.IndexByte(m, ';'); i >= 0 {
		m = strings.TrimSpace(m[:i])
	}
	if canonical, ok := mimeRemap[m]; ok {
		m = canonical
	}

	logging.Debug("sniffed %s as %s", path, m)
	r.mimeCache.Put(path, m)
	return m, nil
}

// Kind returns the coarse kind for a file, memoized per file id.
func (r *Resolver) Kind(fileID int64, path string) (Kind, error) {
	if k, ok := r.kindCache.Get(fileID); ok {
		return k, nil
	}

	m, err := r.Mime(path)
	if err != nil {
		return "", err
	}

	k := KindFor(m)
	r.kindCache.Put(fileID, k)
	return k, nil
}
