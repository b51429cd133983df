package thumbnail

import (
	"bytes"
	"context"
	"image"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestWrap(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width int
		want  []string
	}{
		{
			name:  "empty",
			text:  "",
			width: 10,
			want:  nil,
		},
		{
			name:  "single short word",
			text:  "hello",
			width: 10,
			want:  []string{"hello"},
		},
		{
			name:  "words fill lines",
			text:  "one two three four",
			width: 9,
			want:  []string{"one two", "three", "four"},
		},
		{
			name:  "long word is split",
			text:  "abcdefghij",
			width: 4,
			want:  []string{"abcd", "efgh", "ij"},
		},
		{
			name:  "whitespace collapses",
			text:  "  a   b  ",
			width: 10,
			want:  []string{"a b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := wrap(tt.text, tt.width)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("wrap(%q, %d) = %v, want %v", tt.text, tt.width, got, tt.want)
			}
		})
	}
}

func TestPrintable(t *testing.T) {
	got := printable("ab\x00c\nd\te\xff")
	if strings.ContainsRune(got, 0) || strings.Contains(got, "\n") {
		t.Errorf("printable left control bytes in %q", got)
	}
	if !strings.Contains(got, "\t") {
		t.Errorf("printable should keep tabs, got %q", got)
	}
}

func TestTextCardProducesDecodableImage(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "card.png")
	if err := textCard("some title with words", dst); err != nil {
		t.Fatalf("textCard failed: %v", err)
	}

	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("card is not a decodable image: %v", err)
	}
	if format != "png" {
		t.Errorf("got format %q, want png", format)
	}
	if cfg.Width != cardSize || cfg.Height != cardSize {
		t.Errorf("got %dx%d canvas, want %dx%d", cfg.Width, cfg.Height, cardSize, cardSize)
	}
}

func TestContentCardSamplesBinaryFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "blob.bin")
	payload := append([]byte("magic header "), bytes.Repeat([]byte{0x00, 0xfe}, 300)...)
	if err := os.WriteFile(src, payload, 0644); err != nil {
		t.Fatal(err)
	}

	dst := filepath.Join(dir, "blob.png")
	if err := contentCardThumbnail(context.Background(), src, dst); err != nil {
		t.Fatalf("contentCardThumbnail failed: %v", err)
	}
	if _, err := os.Stat(dst); err != nil {
		t.Fatalf("card not written: %v", err)
	}
}

func TestContentCardShortFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "tiny.txt")
	if err := os.WriteFile(src, []byte("hi"), 0644); err != nil {
		t.Fatal(err)
	}
	dst := filepath.Join(dir, "tiny.png")
	if err := contentCardThumbnail(context.Background(), src, dst); err != nil {
		t.Fatalf("contentCardThumbnail failed on a file shorter than the sample window: %v", err)
	}
}
