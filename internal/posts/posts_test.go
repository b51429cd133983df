package posts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"booru-bridge/internal/database"
	"booru-bridge/internal/mediatypes"
)

const testSchema = `
create table files (file_hash integer primary key, local_path text not null);
create table hashes (id integer primary key, hash_data blob);
create table tag_names (core_hash integer not null, tag_text text not null);
create table tag_files (file_hash integer not null, core_hash integer not null);
create table metrics_tag_usage_values (core_hash integer not null, relationship_count integer not null, timestamp integer not null);
create table pools (pool_hash integer primary key, title text not null);
create table pool_entries (pool_hash integer not null, file_hash integer not null, entry_index integer not null);
`

func writeTestPNG(t *testing.T, path string, w, h int) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatal(err)
	}
}

// newTestService seeds a small index backed by real image files:
//
//	file 10 (64x48): tags a, b    file 11: tag a    file 12: tags cat/kitty
//	pool 100 "holiday": files 11, 10 (in that entry order)
//
// Tag a has a precomputed usage metric of 7.
func newTestService(t *testing.T) *Service {
	t.Helper()

	mediaDir := t.TempDir()
	paths := map[int64]string{
		10: filepath.Join(mediaDir, "ten.png"),
		11: filepath.Join(mediaDir, "eleven.png"),
		12: filepath.Join(mediaDir, "twelve.png"),
	}
	writeTestPNG(t, paths[10], 64, 48)
	writeTestPNG(t, paths[11], 32, 32)
	writeTestPNG(t, paths[12], 16, 16)

	dbPath := filepath.Join(t.TempDir(), "awtf.db")
	seed, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := seed.Exec(testSchema); err != nil {
		t.Fatal(err)
	}
	stmts := []string{
		fmt.Sprintf(`insert into files values (10, '%s'), (11, '%s'), (12, '%s')`, paths[10], paths[11], paths[12]),
		`insert into hashes values (1, x'01'), (2, x'02'), (3, x'03')`,
		`insert into tag_names values (1, 'a'), (2, 'b'), (3, 'cat'), (3, 'kitty')`,
		`insert into tag_files values (10, 1), (10, 2), (11, 1), (12, 3)`,
		`insert into metrics_tag_usage_values values (1, 7, 1000)`,
		`insert into pools values (100, 'holiday')`,
		`insert into pool_entries values (100, 11, 0), (100, 10, 1)`,
	}
	for _, stmt := range stmts {
		if _, err := seed.Exec(stmt); err != nil {
			t.Fatalf("seed %q: %v", stmt, err)
		}
	}
	if err := seed.Close(); err != nil {
		t.Fatal(err)
	}

	store, err := database.New(context.Background(), dbPath)
	if err != nil {
		t.Fatalf("database.New: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return New(store, mediatypes.NewResolver())
}

func postID(t *testing.T, p Post) int64 {
	t.Helper()
	id, ok := p["id"].(int64)
	if !ok {
		t.Fatalf("post id has type %T", p["id"])
	}
	return id
}

func TestPostAllFields(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	post, err := s.Post(ctx, 10, nil)
	if err != nil {
		t.Fatalf("Post: %v", err)
	}

	if got := postID(t, post); got != 10 {
		t.Errorf("id = %d, want 10", got)
	}
	if got := post["mimeType"]; got != "image/png" {
		t.Errorf("mimeType = %v, want image/png", got)
	}
	if got := post["type"]; got != "image" {
		t.Errorf("type = %v, want image", got)
	}
	if got := post["contentUrl"]; got != "api/_awtfdb_content/10" {
		t.Errorf("contentUrl = %v", got)
	}
	if got := post["thumbnailUrl"]; got != "api/_awtfdb_thumbnails/10" {
		t.Errorf("thumbnailUrl = %v", got)
	}

	w, ok := post["canvasWidth"].(*int)
	if !ok || w == nil || *w != 64 {
		t.Errorf("canvasWidth = %v, want 64", post["canvasWidth"])
	}
	h, ok := post["canvasHeight"].(*int)
	if !ok || h == nil || *h != 48 {
		t.Errorf("canvasHeight = %v, want 48", post["canvasHeight"])
	}

	// Real tags sorted by name, with the pool pseudo-tag appended.
	tags := post["tags"].([]map[string]any)
	var names []string
	for _, tag := range tags {
		names = append(names, tag["names"].([]string)[0])
	}
	want := []string{"a", "b", "pool:100"}
	if len(names) != len(want) {
		t.Fatalf("tag names = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("tag[%d] = %q, want %q", i, names[i], want[i])
		}
	}
	if got := tags[0]["usages"]; got != int64(7) {
		t.Errorf("tag a usages = %v, want 7", got)
	}

	// The pool pseudo-tag does not count toward tagCount.
	if got := post["tagCount"]; got != 2 {
		t.Errorf("tagCount = %v, want 2", got)
	}

	pools := post["pools"].([]map[string]any)
	if len(pools) != 1 {
		t.Fatalf("pools = %v, want one entry", pools)
	}
	if got := pools[0]["postCount"]; got != int64(2) {
		t.Errorf("pool postCount = %v, want 2", got)
	}
}

func TestPostMicroFields(t *testing.T) {
	s := newTestService(t)

	post, err := s.Post(context.Background(), 11, microFields)
	if err != nil {
		t.Fatalf("Post: %v", err)
	}
	if got := postID(t, post); got != 11 {
		t.Errorf("id = %d, want 11", got)
	}
	if _, ok := post["tags"]; ok {
		t.Error("micro post should not carry tags")
	}
	if _, ok := post["canvasWidth"]; ok {
		t.Error("micro post should not carry canvas dimensions")
	}
}

func TestPostUnknownFile(t *testing.T) {
	s := newTestService(t)
	if _, err := s.Post(context.Background(), 999, nil); !errors.Is(err, database.ErrNotFound) {
		t.Fatalf("got error %v, want ErrNotFound", err)
	}
}

func TestTagAliases(t *testing.T) {
	s := newTestService(t)

	entries, err := s.Tag(context.Background(), 3)
	if err != nil {
		t.Fatalf("Tag: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2 aliases", len(entries))
	}
	for _, e := range entries {
		// One file carries the tag; no metric row exists, so the
		// count comes from the live fallback.
		if e.Usages != 1 {
			t.Errorf("alias %q usages = %d, want 1", e.Name, e.Usages)
		}
	}
}

func TestSearchTagsSortedByUsages(t *testing.T) {
	s := newTestService(t)

	results, err := s.SearchTags(context.Background(), "a")
	if err != nil {
		t.Fatalf("SearchTags: %v", err)
	}
	if len(results) < 2 {
		t.Fatalf("got %d results, want at least 2", len(results))
	}
	if got := results[0]["names"].([]string)[0]; got != "a" {
		t.Errorf("first result = %q, want the most-used tag a", got)
	}
	if got := results[0]["usages"]; got != int64(7) {
		t.Errorf("first result usages = %v, want 7", got)
	}
	if got := results[0]["description"]; got != "awooga" {
		t.Errorf("description = %v", got)
	}
}

func TestPoolFull(t *testing.T) {
	s := newTestService(t)

	pool, err := s.Pool(context.Background(), 100, false)
	if err != nil {
		t.Fatalf("Pool: %v", err)
	}
	if got := pool["names"].([]string)[0]; got != "holiday" {
		t.Errorf("pool name = %q, want holiday", got)
	}
	if got := pool["postCount"]; got != int64(2) {
		t.Errorf("postCount = %v, want 2", got)
	}

	members := pool["posts"].([]Post)
	if len(members) != 2 {
		t.Fatalf("got %d members, want 2", len(members))
	}
	if postID(t, members[0]) != 11 || postID(t, members[1]) != 10 {
		t.Errorf("member order = [%d %d], want [11 10]", postID(t, members[0]), postID(t, members[1]))
	}
}

func TestPoolUnknown(t *testing.T) {
	s := newTestService(t)
	if _, err := s.Pool(context.Background(), 999, true); !errors.Is(err, database.ErrNotFound) {
		t.Fatalf("got error %v, want ErrNotFound", err)
	}
}

func TestPostsPreserveOrder(t *testing.T) {
	s := newTestService(t)

	results, err := s.Posts(context.Background(), []int64{12, 10, 11}, microFields)
	if err != nil {
		t.Fatalf("Posts: %v", err)
	}
	want := []int64{12, 10, 11}
	for i, p := range results {
		if got := postID(t, p); got != want[i] {
			t.Errorf("results[%d] = %d, want %d", i, got, want[i])
		}
	}
}

func TestAround(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	prev, next, err := s.Around(ctx, 11, microFields)
	if err != nil {
		t.Fatalf("Around: %v", err)
	}
	if prev == nil || postID(t, prev) != 10 {
		t.Errorf("prev = %v, want post 10", prev)
	}
	if next == nil || postID(t, next) != 12 {
		t.Errorf("next = %v, want post 12", next)
	}

	prev, next, err = s.Around(ctx, 10, microFields)
	if err != nil {
		t.Fatalf("Around: %v", err)
	}
	if prev != nil {
		t.Errorf("prev of the first file = %v, want nil", prev)
	}
	if next == nil || postID(t, next) != 11 {
		t.Errorf("next = %v, want post 11", next)
	}
}
