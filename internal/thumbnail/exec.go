package thumbnail

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"booru-bridge/internal/logging"
)

// runTool invokes an external tool with an argument vector (never a
// shell), capturing both output streams for diagnostics. Success is
// defined solely by a zero exit status.
func runTool(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%s failed: %w - %s", name, err, strings.TrimSpace(stderr.String()))
	}
	logging.Debug("%s out: %q err: %q", name, stdout.String(), stderr.String())
	return stdout.String(), nil
}

// videoThumbnail probes the duration, extracts a single early
// representative frame, and resizes it like any image. Any tool
// failure fails the job without writing an artifact.
func (g *Generator) videoThumbnail(ctx context.Context, src, dst string) error {
	duration, err := probeDuration(ctx, src)
	if err != nil {
		return err
	}

	seek := int(duration) / 15
	if _, err := runTool(ctx, "ffmpeg",
		"-n",
		"-ss", strconv.Itoa(seek),
		"-i", src,
		"-frames:v", "1",
		dst,
	); err != nil {
		return fmt.Errorf("frame extraction: %w", err)
	}

	return fitImage(dst, dst, thumbnailBox)
}

// probeDuration returns a video's duration in seconds. A non-numeric
// answer from ffprobe is as fatal as a non-zero exit.
func probeDuration(ctx context.Context, src string) (float64, error) {
	out, err := runTool(ctx, "ffprobe",
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		src,
	)
	if err != nil {
		return 0, fmt.Errorf("duration probe: %w", err)
	}

	text := strings.TrimSpace(out)
	duration, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, fmt.Errorf("duration probe returned non-numeric %q: %w", text, err)
	}
	return duration, nil
}

// documentThumbnail rasterizes the first page at high density, then
// bounds it like an image thumbnail.
func (g *Generator) documentThumbnail(ctx context.Context, src, dst string) error {
	if _, err := runTool(ctx, "convert",
		"-cache", "20",
		src+"[0]",
		"-density", "900",
		dst,
	); err != nil {
		return fmt.Errorf("rasterization: %w", err)
	}

	return fitImage(dst, dst, documentBox)
}
