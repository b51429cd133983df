package mediatypes

import (
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func TestKindFor(t *testing.T) {
	tests := []struct {
		name string
		mime string
		want Kind
	}{
		{
			name: "JPEG image",
			mime: "image/jpeg",
			want: KindImage,
		},
		{
			name: "PNG image",
			mime: "image/png",
			want: KindImage,
		},
		{
			name: "GIF is animation",
			mime: "image/gif",
			want: KindAnimation,
		},
		{
			name: "MP4 video",
			mime: "video/mp4",
			want: KindVideo,
		},
		{
			name: "remapped matroska",
			mime: "video/mkv",
			want: KindVideo,
		},
		{
			name: "MP3 audio",
			mime: "audio/mpeg",
			want: KindAudio,
		},
		{
			name: "PDF document",
			mime: "application/pdf",
			want: KindOther,
		},
		{
			name: "plain text",
			mime: "text/plain",
			want: KindOther,
		},
		{
			name: "empty mime",
			mime: "",
			want: KindOther,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindFor(tt.mime); got != tt.want {
				t.Errorf("KindFor(%q) = %v, want %v", tt.mime, got, tt.want)
			}
		})
	}
}

func TestExtension(t *testing.T) {
	tests := []struct {
		name string
		mime string
		want string
	}{
		{
			name: "pinned JPEG",
			mime: "image/jpeg",
			want: ".jpg",
		},
		{
			name: "pinned PNG",
			mime: "image/png",
			want: ".png",
		},
		{
			name: "override matroska",
			mime: "video/mkv",
			want: ".mkv",
		},
		{
			name: "override m4a",
			mime: "audio/x-m4a",
			want: ".m4a",
		},
		{
			name: "override epub",
			mime: "application/epub+zip",
			want: ".epub",
		},
		{
			name: "sniffer fallback octet-stream",
			mime: "application/octet-stream",
			want: ".bin",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Extension(tt.mime)
			if err != nil {
				t.Fatalf("Extension(%q) returned error: %v", tt.mime, err)
			}
			if got != tt.want {
				t.Errorf("Extension(%q) = %q, want %q", tt.mime, got, tt.want)
			}
		})
	}
}

func TestExtensionUnknownMime(t *testing.T) {
	_, err := Extension("application/x-no-such-thing")
	if err == nil {
		t.Fatal("Extension should fail for an unmapped mime type")
	}
	var umErr *UnknownMimeError
	if !errors.As(err, &umErr) {
		t.Fatalf("error = %T, want *UnknownMimeError", err)
	}
}

func writeTestPNG(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "test.bin") // extension deliberately wrong
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, image.NewRGBA(image.Rect(0, 0, 4, 4))); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestResolverSniffsContent(t *testing.T) {
	path := writeTestPNG(t, t.TempDir())
	r := NewResolver()

	m, err := r.Mime(path)
	if err != nil {
		t.Fatalf("Mime returned error: %v", err)
	}
	if m != "image/png" {
		t.Errorf("Mime = %q, want image/png (sniffed despite .bin extension)", m)
	}

	k, err := r.Kind(1, path)
	if err != nil {
		t.Fatalf("Kind returned error: %v", err)
	}
	if k != KindImage {
		t.Errorf("Kind = %v, want %v", k, KindImage)
	}

	// Second lookup should be served from cache even if the file is gone.
	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	m, err = r.Mime(path)
	if err != nil || m != "image/png" {
		t.Errorf("memoized Mime = %q, %v, want image/png, nil", m, err)
	}
}

func TestResolverMissingFile(t *testing.T) {
	r := NewResolver()
	if _, err := r.Mime(filepath.Join(t.TempDir(), "absent")); err == nil {
		t.Error("Mime should fail for a missing file")
	}
}
