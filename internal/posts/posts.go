package posts

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"booru-bridge/internal/cache"
	"booru-bridge/internal/database"
	"booru-bridge/internal/logging"
	"booru-bridge/internal/mediatypes"
	"booru-bridge/internal/workers"
)

// Post is one hydrated document, keyed the way gallery clients expect.
type Post map[string]any

// staticTime fills timestamp fields the index does not track.
const staticTime = "1900-01-01T00:00:00Z"

// microFields is the reduced field set used when a post appears inside
// another document, such as a pool listing.
var microFields = []string{"id", "thumbnailUrl"}

var allFields = []string{
	"id",
	"thumbnailUrl",
	"tags",
	"pools",
	"tagCount",
	"type",
	"canvasHeight",
	"canvasWidth",
}

// Service hydrates posts from the index. All methods are safe for
// concurrent use.
type Service struct {
	store    *database.Store
	resolver *mediatypes.Resolver

	paths  *cache.Cache[int64, string]
	canvas *cache.Cache[int64, canvasSize]
	tags   *cache.Cache[int64, []TagEntry]

	hydrators int
}

// New creates a Service over store. Cache bounds follow a
// hot-metadata profile: paths and tag usages churn slowly, canvas
// sizes are immutable but numerous.
func New(store *database.Store, resolver *mediatypes.Resolver) *Service {
	s := &Service{
		store:     store,
		resolver:  resolver,
		paths:     cache.New[int64, string]("local_path", 1000, time.Hour),
		canvas:    cache.New[int64, canvasSize]("canvas_size", 10000, 20*time.Minute),
		tags:      cache.New[int64, []TagEntry]("tag_usage", 4000, 30*time.Minute),
		hydrators: workers.ForIO(16),
	}
	logging.Info("Post hydration concurrency: %d", s.hydrators)
	return s
}

// LocalPath returns the on-disk path for a file id.
// Returns database.ErrNotFound (wrapped) for an unknown id.
func (s *Service) LocalPath(ctx context.Context, fileID int64) (string, error) {
	if path, ok := s.paths.Get(fileID); ok {
		return path, nil
	}
	path, err := s.store.FilePath(ctx, fileID)
	if err != nil {
		return "", err
	}
	s.paths.Put(fileID, path)
	return path, nil
}

// Post hydrates one file. An empty fields slice selects every field;
// otherwise only the named fields incur database and probe work. The
// identity fields are always present.
func (s *Service) Post(ctx context.Context, fileID int64, fields []string) (Post, error) {
	if len(fields) == 0 {
		fields = allFields
	}
	want := make(map[string]bool, len(fields))
	for _, f := range fields {
		want[f] = true
	}

	post := basePost(fileID)

	localPath, err := s.LocalPath(ctx, fileID)
	if err != nil {
		return nil, err
	}
	mimeType, err := s.resolver.Mime(localPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve mime for file %d: %w", fileID, err)
	}
	post["mimeType"] = mimeType

	if want["tags"] || want["pools"] || want["tagCount"] {
		if err := s.attachTags(ctx, fileID, post); err != nil {
			return nil, err
		}
	}

	kind, err := s.resolver.Kind(fileID, localPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve kind for file %d: %w", fileID, err)
	}
	if want["type"] {
		post["type"] = typeName(kind)
	}

	if want["canvasHeight"] || want["canvasWidth"] {
		size := s.canvasSizeFor(ctx, fileID, localPath, kind)
		post["canvasWidth"] = size.Width
		post["canvasHeight"] = size.Height
	}

	return post, nil
}

// attachTags fills the tags, pools, and tagCount fields. Real tags are
// sorted by name; pool membership surfaces both as a pool object and
// as a pool:<id> pseudo-tag so clients can search by it. The pseudo
// tags do not count toward tagCount.
func (s *Service) attachTags(ctx context.Context, fileID int64, post Post) error {
	hashes, err := s.store.FileTags(ctx, fileID)
	if err != nil {
		return err
	}

	var entries []TagEntry
	for _, coreHash := range hashes {
		tagEntries, err := s.Tag(ctx, coreHash)
		if err != nil {
			return err
		}
		entries = append(entries, tagEntries...)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })

	tags := make([]map[string]any, 0, len(entries))
	for _, e := range entries {
		tags = append(tags, e.json())
	}

	poolIDs, err := s.store.FilePools(ctx, fileID)
	if err != nil {
		return err
	}
	pools := make([]map[string]any, 0, len(poolIDs))
	for _, poolID := range poolIDs {
		pool, err := s.Pool(ctx, poolID, true)
		if err != nil {
			return err
		}
		pools = append(pools, pool)
		tags = append(tags, map[string]any{
			"category": "default",
			"names":    []string{fmt.Sprintf("pool:%d", poolID)},
			"usages":   pool["postCount"],
		})
	}

	post["tags"] = tags
	post["pools"] = pools
	post["tagCount"] = len(entries)
	return nil
}

// Posts hydrates a batch concurrently, preserving input order.
func (s *Service) Posts(ctx context.Context, fileIDs []int64, fields []string) ([]Post, error) {
	results := make([]Post, len(fileIDs))

	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.hydrators)
	for i, fileID := range fileIDs {
		i, fileID := i, fileID
		g.Go(func() error {
			post, err := s.Post(gctx, fileID, fields)
			if err != nil {
				return fmt.Errorf("failed to hydrate post %d: %w", fileID, err)
			}
			results[i] = post
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	logging.Debug("hydrated %d posts in %v", len(fileIDs), time.Since(start))
	return results, nil
}

// Around hydrates the posts adjacent to fileID in id order. A missing
// neighbor comes back nil rather than as an error.
func (s *Service) Around(ctx context.Context, fileID int64, fields []string) (prev, next Post, err error) {
	prevID, nextID, hasPrev, hasNext, err := s.store.AdjacentFiles(ctx, fileID)
	if err != nil {
		return nil, nil, err
	}
	if hasPrev {
		if prev, err = s.Post(ctx, prevID, fields); err != nil {
			return nil, nil, err
		}
	}
	if hasNext {
		if next, err = s.Post(ctx, nextID, fields); err != nil {
			return nil, nil, err
		}
	}
	return prev, next, nil
}

// typeName maps a media kind onto the client's post type vocabulary.
// Files without pixel content still render as image cards.
func typeName(kind mediatypes.Kind) string {
	switch kind {
	case mediatypes.KindImage:
		return "image"
	case mediatypes.KindAnimation:
		return "animation"
	case mediatypes.KindVideo:
		return "video"
	case mediatypes.KindAudio:
		return "audio"
	default:
		return "image"
	}
}

func basePost(fileID int64) Post {
	return Post{
		"version":            1,
		"id":                 fileID,
		"creationTime":       staticTime,
		"lastEditTime":       staticTime,
		"safety":             "safe",
		"source":             nil,
		"checksum":           "test",
		"checksumMD5":        "test",
		"contentUrl":         fmt.Sprintf("api/_awtfdb_content/%d", fileID),
		"thumbnailUrl":       fmt.Sprintf("api/_awtfdb_thumbnails/%d", fileID),
		"flags":              []string{"loop"},
		"relations":          []any{},
		"notes":              []any{},
		"user":               map[string]any{"name": "root", "avatarUrl": nil},
		"score":              0,
		"ownScore":           0,
		"ownFavorite":        false,
		"favoriteCount":      0,
		"commentCount":       0,
		"noteCount":          0,
		"featureCount":       0,
		"relationCount":      0,
		"lastFeatureTime":    staticTime,
		"favoritedBy":        []any{},
		"hasCustomThumbnail": true,
		"comments":           []any{},
	}
}
