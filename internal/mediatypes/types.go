package mediatypes

import (
	"fmt"
	"mime"
	"sort"
	"strings"
)

// Kind is the coarse classification of a file, derived from its mime
// type. It selects the thumbnail strategy and the "type" field of post
// entities.
type Kind string

const (
	// KindImage represents a still image.
	KindImage Kind = "image"
	// KindAnimation represents an animated image (animated GIF).
	KindAnimation Kind = "animation"
	// KindVideo represents a video file.
	KindVideo Kind = "video"
	// KindAudio represents an audio file.
	KindAudio Kind = "audio"
	// KindOther represents anything else; thumbnailed as a text card.
	KindOther Kind = "other"
)

// mimeRemap normalizes mime strings that tooling reports inconsistently
// to a single canonical name.
var mimeRemap = map[string]string{
	"video/x-matroska": "video/mkv",
}

// preferredExtensions pins a deterministic extension for mimes where
// the platform mime table offers several (or an unfortunate first)
// alternative. Artifact names must be stable across runs.
var preferredExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
	"image/bmp":  ".bmp",
	"image/tiff": ".tif",
	"video/mp4":  ".mp4",
	"video/webm": ".webm",
	"video/mpeg": ".mpg",
	"audio/mpeg": ".mp3",
	"text/plain": ".txt",
}

// extensionOverrides covers mimes the platform mime table does not
// know at all.
var extensionOverrides = map[string]string{
	"video/mkv":                ".mkv",
	"video/x-matroska":         ".mkv",
	"audio/x-m4a":              ".m4a",
	"video/x-m4v":              ".m4v",
	"video/3gpp":               ".3gpp",
	"application/octet-stream": ".bin",
	"application/vnd.oasis.opendocument.text": ".odt",
	"application/epub+zip":                    ".epub",
}

// UnknownMimeError reports a mime type with no known artifact
// extension. This is a configuration gap and must fail loudly rather
// than produce an extensionless artifact name.
type UnknownMimeError struct {
	Mime string
}

func (e *UnknownMimeError) Error() string {
	return fmt.Sprintf("no artifact extension known for mime type %q", e.Mime)
}

// KindFor classifies a mime type. Image mimes classify as image except
// GIF, which classifies as animation; unrecognized mimes fall through
// to the generic text-card kind.
func KindFor(mimeType string) Kind {
	switch {
	case mimeType == "image/gif":
		return KindAnimation
	case strings.HasPrefix(mimeType, "image/"):
		return KindImage
	case strings.HasPrefix(mimeType, "video/"):
		return KindVideo
	case strings.HasPrefix(mimeType, "audio/"):
		return KindAudio
	default:
		return KindOther
	}
}

// Extension derives the artifact file extension for a mime type:
// pinned choices first, then the platform mime table, then the
// override table for mimes the platform does not know.
func Extension(mimeType string) (string, error) {
	if ext, ok := preferredExtensions[mimeType]; ok {
		return ext, nil
	}
	if exts, err := mime.ExtensionsByType(mimeType); err == nil && len(exts) > 0 {
		sort.Strings(exts)
		return exts[0], nil
	}
	if ext, ok := extensionOverrides[mimeType]; ok {
		return ext, nil
	}
	return "", &UnknownMimeError{Mime: mimeType}
}
