package thumbnail

import (
	"context"
	"fmt"
	"image"

	"booru-bridge/internal/logging"

	// Image format decoders
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // WebP format support
)

const (
	// thumbnailBox bounds ordinary thumbnails.
	thumbnailBox = 350
	// documentBox bounds rasterized document thumbnails, which keep
	// more detail since they start from a high-density render.
	documentBox = 600
)

// imageThumbnail decodes, fits into the bounded box preserving aspect
// ratio, and re-encodes. A decode failure is a plain generation
// failure: no artifact is written and the request is told so.
func (g *Generator) imageThumbnail(_ context.Context, src, dst string) error {
	return fitImage(src, dst, thumbnailBox)
}

func fitImage(src, dst string, box int) error {
	img, err := loadImage(src, box)
	if err != nil {
		return fmt.Errorf("failed to decode image %s: %w", src, err)
	}

	thumb := imaging.Fit(img, box, box, imaging.Lanczos)
	if err := imaging.Save(thumb, dst); err != nil {
		return fmt.Errorf("failed to save thumbnail %s: %w", dst, err)
	}
	return nil
}

// loadImage prefers the libvips decode-time-shrinking path when the
// library is available and falls back to a full decode.
func loadImage(src string, box int) (image.Image, error) {
	if IsVipsAvailable() {
		img, err := loadImageWithVips(src, box, box)
		if err == nil {
			return img, nil
		}
		logging.Debug("vips load failed for %s, falling back to full decode: %v", src, err)
	}
	return imaging.Open(src, imaging.AutoOrientation(true))
}
