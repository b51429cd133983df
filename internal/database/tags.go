package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"booru-bridge/internal/logging"
)

// TagNames returns every display name recorded for a tag's core hash.
// A tag may have aliases; all of them share the usage count.
func (s *Store) TagNames(ctx context.Context, coreHash int64) (names []string, err error) {
	start := time.Now()
	defer func() { observe("tag_names", start, err) }()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx,
		"select tag_text from tag_names where core_hash = ?",
		coreHash,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list names for tag %d: %w", coreHash, err)
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan name for tag %d: %w", coreHash, err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list names for tag %d: %w", coreHash, err)
	}
	return names, nil
}

// TagUsage returns how many files carry a tag. The precomputed count
// from the metrics table is preferred; when a tag has none recorded,
// the count falls back to a live scan of tag_files.
func (s *Store) TagUsage(ctx context.Context, coreHash int64) (usages int64, err error) {
	start := time.Now()
	defer func() { observe("tag_usage", start, err) }()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	err = s.db.QueryRowContext(ctx, `
		select relationship_count
		from metrics_tag_usage_values
		where core_hash = ?
		order by timestamp desc
		limit 1`,
		coreHash,
	).Scan(&usages)
	if err == nil {
		return usages, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("failed to read usage metrics for tag %d: %w", coreHash, err)
	}

	logging.Info("tag %d has no usage metrics, counting manually", coreHash)
	err = s.db.QueryRowContext(ctx,
		"select count(rowid) from tag_files where core_hash = ?",
		coreHash,
	).Scan(&usages)
	if err != nil {
		return 0, fmt.Errorf("failed to count usages for tag %d: %w", coreHash, err)
	}
	return usages, nil
}

// SearchTags returns the core hashes of tags whose text contains the
// given substring, case-insensitively.
func (s *Store) SearchTags(ctx context.Context, substring string) (hashes []int64, err error) {
	start := time.Now()
	defer func() { observe("search_tags", start, err) }()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `
		select distinct core_hash
		from tag_names
		join hashes on hashes.id = tag_names.core_hash
		where lower(tag_text) like '%' || lower(?) || '%'`,
		substring,
	)
	if err != nil {
		return nil, fmt.Errorf("tag search failed: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var hash int64
		if err := rows.Scan(&hash); err != nil {
			return nil, fmt.Errorf("failed to scan tag search result: %w", err)
		}
		hashes = append(hashes, hash)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("tag search failed: %w", err)
	}
	return hashes, nil
}
