package thumbnail

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"booru-bridge/internal/logging"
	"booru-bridge/internal/mediatypes"
	"booru-bridge/internal/metrics"
)

// ErrUnavailable is the uniform outcome every awaiter observes when a
// generation attempt fails. The artifact is simply absent; a later
// request may trigger a fresh attempt.
var ErrUnavailable = errors.New("thumbnail unavailable")

// Class names an admission bound for operations of similar cost.
type Class string

const (
	// ClassCheap admits direct image resizes and text-card synthesis.
	ClassCheap Class = "cheap"
	// ClassExpensive admits document rasterization and video work.
	ClassExpensive Class = "expensive"
)

// Default admission bounds.
const (
	DefaultCheapSlots     = 10
	DefaultExpensiveSlots = 3
)

type strategy struct {
	name  string
	class Class
	fn    func(ctx context.Context, src, dst string) error
}

// encodableExtensions lists the image formats the resize strategy can
// write back out. Decode-only formats (webp, heic) fall back to png.
var encodableExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".tif":  true,
	".tiff": true,
	".bmp":  true,
}

// Generator owns the artifact directory and dispatches generation
// through the governor. Safe for concurrent use.
type Generator struct {
	dir      string
	resolver *mediatypes.Resolver
	gov      *governor
}

// New creates a Generator writing artifacts under dir, creating the
// directory if absent. baseCtx scopes running jobs to the server
// lifetime: a disconnecting requester never cancels a shared job.
func New(baseCtx context.Context, dir string, resolver *mediatypes.Resolver, cheapSlots, expensiveSlots int64) (*Generator, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create thumbnail directory %s: %w", dir, err)
	}
	logging.Info("Thumbnail directory: %s (cheap=%d expensive=%d)", dir, cheapSlots, expensiveSlots)
	return &Generator{
		dir:      dir,
		resolver: resolver,
		gov:      newGovernor(baseCtx, cheapSlots, expensiveSlots),
	}, nil
}

// Dir returns the artifact directory.
func (g *Generator) Dir() string {
	return g.dir
}

// GetOrCreate returns the on-disk artifact path for a file, generating
// it if needed. Concurrent calls for the same file id share a single
// generation; a failed generation is reported as ErrUnavailable to
// every awaiter and is not retried until a later request.
func (g *Generator) GetOrCreate(ctx context.Context, fileID int64, localPath string) (string, error) {
	mimeType, err := g.resolver.Mime(localPath)
	if err != nil {
		return "", err
	}

	// The extension must be derivable for every mime we serve; an
	// unmapped mime is a configuration gap, not a generation failure.
	ext, err := mediatypes.Extension(mimeType)
	if err != nil {
		return "", err
	}

	strat, target := g.plan(fileID, mimeType, ext)
	logging.Debug("thumbnail file=%d mime=%s strategy=%s target=%s", fileID, mimeType, strat.name, target)

	return g.gov.do(ctx, fileID, strat.class, target, func(runCtx context.Context) error {
		start := time.Now()
		err := strat.fn(runCtx, localPath, target)

		status := "success"
		if err != nil {
			status = "error"
		}
		metrics.ThumbnailGenerationsTotal.WithLabelValues(strat.name, status).Inc()
		metrics.ThumbnailGenerationDuration.WithLabelValues(strat.name).Observe(time.Since(start).Seconds())

		if err != nil {
			logging.Warn("thumbnail %s strategy failed for file %d: %v", strat.name, fileID, err)
			return fmt.Errorf("%s strategy for file %d: %w", strat.name, fileID, ErrUnavailable)
		}
		return nil
	})
}

// plan selects the strategy, admission class, and target artifact path
// for a mime type. Non-image strategies always produce png; the image
// strategy keeps the source-derived extension when it can encode it.
func (g *Generator) plan(fileID int64, mimeType, ext string) (strategy, string) {
	kind := mediatypes.KindFor(mimeType)

	var strat strategy
	switch {
	case mimeType == "application/pdf":
		strat = strategy{name: "document", class: ClassExpensive, fn: g.documentThumbnail}
		ext = ".png"
	case kind == mediatypes.KindVideo:
		strat = strategy{name: "video", class: ClassExpensive, fn: g.videoThumbnail}
		ext = ".png"
	case kind == mediatypes.KindImage || kind == mediatypes.KindAnimation:
		strat = strategy{name: "image", class: ClassCheap, fn: g.imageThumbnail}
		if !encodableExtensions[ext] {
			ext = ".png"
		}
	case kind == mediatypes.KindAudio:
		strat = strategy{name: "name_card", class: ClassCheap, fn: nameCardThumbnail}
		ext = ".png"
	default:
		strat = strategy{name: "content_card", class: ClassCheap, fn: contentCardThumbnail}
		ext = ".png"
	}

	return strat, filepath.Join(g.dir, fmt.Sprintf("%d%s", fileID, ext))
}
