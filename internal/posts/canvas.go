package posts

import (
	"bytes"
	"context"
	"image"
	"os"
	"os/exec"
	"strconv"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"booru-bridge/internal/logging"
	"booru-bridge/internal/mediatypes"
)

// canvasSize holds a file's pixel dimensions. Nil fields serialize as
// null for files without a canvas (audio, undecodable content).
type canvasSize struct {
	Width  *int
	Height *int
}

// canvasSizeFor returns the pixel dimensions for a file, memoized per
// file id. Dimension extraction is best-effort: a file we cannot probe
// still hydrates, with null dimensions.
func (s *Service) canvasSizeFor(ctx context.Context, fileID int64, path string, kind mediatypes.Kind) canvasSize {
	if size, ok := s.canvas.Get(fileID); ok {
		return size
	}

	var size canvasSize
	switch kind {
	case mediatypes.KindImage, mediatypes.KindAnimation:
		size = imageCanvasSize(path)
	case mediatypes.KindVideo:
		size = videoCanvasSize(ctx, path)
	}

	s.canvas.Put(fileID, size)
	return size
}

func imageCanvasSize(path string) canvasSize {
	f, err := os.Open(path)
	if err != nil {
		logging.Warn("failed to open %s for dimensions: %v", path, err)
		return canvasSize{}
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		logging.Warn("failed to decode dimensions of %s: %v", path, err)
		return canvasSize{}
	}
	w, h := cfg.Width, cfg.Height
	return canvasSize{Width: &w, Height: &h}
}

func videoCanvasSize(ctx context.Context, path string) canvasSize {
	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=width,height",
		"-of", "csv=s=x:p=0",
		path,
	)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		logging.Warn("ffprobe dimensions of %s failed: %v: %s", path, err, strings.TrimSpace(stderr.String()))
		return canvasSize{}
	}

	out := strings.TrimSpace(stdout.String())
	parts := strings.Split(out, "x")
	if len(parts) != 2 {
		logging.Warn("unexpected ffprobe dimension output for %s: %q", path, out)
		return canvasSize{}
	}
	w, errW := strconv.Atoi(parts[0])
	h, errH := strconv.Atoi(parts[1])
	if errW != nil || errH != nil {
		logging.Warn("unparsable ffprobe dimensions for %s: %q", path, out)
		return canvasSize{}
	}
	return canvasSize{Width: &w, Height: &h}
}
