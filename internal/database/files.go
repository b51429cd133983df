package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// FilePath returns the local filesystem path recorded for a file id.
// Returns ErrNotFound if the id is not in the index.
func (s *Store) FilePath(ctx context.Context, fileID int64) (path string, err error) {
	start := time.Now()
	defer func() { observe("file_path", start, err) }()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	err = s.db.QueryRowContext(ctx,
		"select local_path from files where file_hash = ?",
		fileID,
	).Scan(&path)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("file %d: %w", fileID, ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("failed to look up path for file %d: %w", fileID, err)
	}
	return path, nil
}

// FileTags returns the core hashes of every tag on a file.
func (s *Store) FileTags(ctx context.Context, fileID int64) (tags []int64, err error) {
	start := time.Now()
	defer func() { observe("file_tags", start, err) }()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx,
		"select core_hash from tag_files where file_hash = ?",
		fileID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags for file %d: %w", fileID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var hash int64
		if err := rows.Scan(&hash); err != nil {
			return nil, fmt.Errorf("failed to scan tag for file %d: %w", fileID, err)
		}
		tags = append(tags, hash)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list tags for file %d: %w", fileID, err)
	}
	return tags, nil
}

// FileCount returns the total number of indexed files.
func (s *Store) FileCount(ctx context.Context) (count int64, err error) {
	start := time.Now()
	defer func() { observe("file_count", start, err) }()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if err = s.db.QueryRowContext(ctx, "select count(*) from files").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count files: %w", err)
	}
	return count, nil
}

// AdjacentFiles returns the file ids immediately before and after the
// given id in file-hash order. Either may be zero with ok=false at the
// ends of the index.
func (s *Store) AdjacentFiles(ctx context.Context, fileID int64) (prev, next int64, hasPrev, hasNext bool, err error) {
	start := time.Now()
	defer func() { observe("adjacent_files", start, err) }()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	err = s.db.QueryRowContext(ctx,
		"select file_hash from files where file_hash < ? order by file_hash desc limit 1",
		fileID,
	).Scan(&prev)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		err = nil
	case err != nil:
		return 0, 0, false, false, fmt.Errorf("failed to find previous file for %d: %w", fileID, err)
	default:
		hasPrev = true
	}

	err = s.db.QueryRowContext(ctx,
		"select file_hash from files where file_hash > ? order by file_hash asc limit 1",
		fileID,
	).Scan(&next)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		err = nil
	case err != nil:
		return 0, 0, false, false, fmt.Errorf("failed to find next file for %d: %w", fileID, err)
	default:
		hasNext = true
	}

	return prev, next, hasPrev, hasNext, nil
}
