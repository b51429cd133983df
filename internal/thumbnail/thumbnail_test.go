package thumbnail

import (
	"context"
	"image/color"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"

	"booru-bridge/internal/mediatypes"
)

func newTestGenerator(t *testing.T) *Generator {
	t.Helper()
	g, err := New(context.Background(), t.TempDir(), mediatypes.NewResolver(), DefaultCheapSlots, DefaultExpensiveSlots)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestPlanStrategySelection(t *testing.T) {
	g := newTestGenerator(t)

	tests := []struct {
		mime     string
		ext      string
		strategy string
		class    Class
		wantExt  string
	}{
		{"image/jpeg", ".jpg", "image", ClassCheap, ".jpg"},
		{"image/gif", ".gif", "image", ClassCheap, ".gif"},
		{"image/webp", ".webp", "image", ClassCheap, ".png"},
		{"video/mp4", ".mp4", "video", ClassExpensive, ".png"},
		{"application/pdf", ".pdf", "document", ClassExpensive, ".png"},
		{"audio/mpeg", ".mp3", "name_card", ClassCheap, ".png"},
		{"application/zip", ".zip", "content_card", ClassCheap, ".png"},
	}

	for _, tt := range tests {
		t.Run(tt.mime, func(t *testing.T) {
			strat, target := g.plan(99, tt.mime, tt.ext)
			if strat.name != tt.strategy {
				t.Errorf("got strategy %q, want %q", strat.name, tt.strategy)
			}
			if strat.class != tt.class {
				t.Errorf("got class %q, want %q", strat.class, tt.class)
			}
			if !strings.HasSuffix(target, "99"+tt.wantExt) {
				t.Errorf("got target %q, want suffix %q", target, "99"+tt.wantExt)
			}
		})
	}
}

func TestGetOrCreateImage(t *testing.T) {
	g := newTestGenerator(t)

	src := filepath.Join(t.TempDir(), "photo.png")
	if err := imaging.Save(imaging.New(800, 600, color.NRGBA{R: 40, G: 80, B: 120, A: 255}), src); err != nil {
		t.Fatal(err)
	}

	path, err := g.GetOrCreate(context.Background(), 1, src)
	if err != nil {
		t.Fatalf("GetOrCreate failed: %v", err)
	}
	if filepath.Dir(path) != g.Dir() {
		t.Errorf("artifact %q written outside %q", path, g.Dir())
	}

	thumb, err := imaging.Open(path)
	if err != nil {
		t.Fatalf("artifact is not a decodable image: %v", err)
	}
	b := thumb.Bounds()
	if b.Dx() > thumbnailBox || b.Dy() > thumbnailBox {
		t.Errorf("artifact is %dx%d, want both sides <= %d", b.Dx(), b.Dy(), thumbnailBox)
	}
	if b.Dx() != thumbnailBox && b.Dy() != thumbnailBox {
		t.Errorf("artifact is %dx%d, want the long side scaled to %d", b.Dx(), b.Dy(), thumbnailBox)
	}

	// Second call must hit the artifact on disk.
	again, err := g.GetOrCreate(context.Background(), 1, src)
	if err != nil {
		t.Fatalf("second GetOrCreate failed: %v", err)
	}
	if again != path {
		t.Errorf("got %q on second call, want %q", again, path)
	}
}

func TestGetOrCreateMissingFile(t *testing.T) {
	g := newTestGenerator(t)
	if _, err := g.GetOrCreate(context.Background(), 2, filepath.Join(t.TempDir(), "gone.png")); err == nil {
		t.Fatal("expected an error for a missing source file")
	}
}
