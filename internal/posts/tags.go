package posts

import (
	"context"
	"sort"
)

// TagEntry is one display name of a tag together with its usage count.
// A core hash with aliases yields one entry per alias, all sharing the
// same count.
type TagEntry struct {
	Name   string
	Usages int64
}

func (e TagEntry) json() map[string]any {
	return map[string]any{
		"names":    []string{e.Name},
		"category": "default",
		"usages":   e.Usages,
	}
}

// Tag returns the display entries for a tag's core hash, memoized for
// the usage-cache window.
func (s *Service) Tag(ctx context.Context, coreHash int64) ([]TagEntry, error) {
	if entries, ok := s.tags.Get(coreHash); ok {
		return entries, nil
	}

	names, err := s.store.TagNames(ctx, coreHash)
	if err != nil {
		return nil, err
	}
	usages, err := s.store.TagUsage(ctx, coreHash)
	if err != nil {
		return nil, err
	}

	entries := make([]TagEntry, 0, len(names))
	for _, name := range names {
		entries = append(entries, TagEntry{Name: name, Usages: usages})
	}
	s.tags.Put(coreHash, entries)
	return entries, nil
}

// SearchTags returns full tag documents whose name contains the
// substring, ordered by usage count descending.
func (s *Service) SearchTags(ctx context.Context, substring string) ([]map[string]any, error) {
	hashes, err := s.store.SearchTags(ctx, substring)
	if err != nil {
		return nil, err
	}

	results := make([]map[string]any, 0, len(hashes))
	for _, coreHash := range hashes {
		entries, err := s.Tag(ctx, coreHash)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			results = append(results, map[string]any{
				"version":      1,
				"names":        []string{e.Name},
				"category":     "default",
				"implications": []any{},
				"suggestions":  []any{},
				"creationTime": staticTime,
				"lastEditTime": staticTime,
				"usages":       e.Usages,
				"description":  "awooga",
			})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i]["usages"].(int64) > results[j]["usages"].(int64)
	})
	return results, nil
}
