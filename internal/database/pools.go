package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// PoolTitle returns the title of a pool, and its entry count.
// Returns ErrNotFound for an unknown pool hash.
func (s *Store) PoolTitle(ctx context.Context, poolHash int64) (title string, postCount int64, err error) {
	start := time.Now()
	defer func() { observe("pool_title", start, err) }()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	err = s.db.QueryRowContext(ctx,
		"select title from pools where pool_hash = ?",
		poolHash,
	).Scan(&title)
	if errors.Is(err, sql.ErrNoRows) {
		return "", 0, fmt.Errorf("pool %d: %w", poolHash, ErrNotFound)
	}
	if err != nil {
		return "", 0, fmt.Errorf("failed to look up pool %d: %w", poolHash, err)
	}

	err = s.db.QueryRowContext(ctx,
		"select count(*) from pool_entries where pool_hash = ?",
		poolHash,
	).Scan(&postCount)
	if err != nil {
		return "", 0, fmt.Errorf("failed to count entries of pool %d: %w", poolHash, err)
	}
	return title, postCount, nil
}

// PoolEntries returns the file ids of a pool in entry order.
func (s *Store) PoolEntries(ctx context.Context, poolHash int64) (files []int64, err error) {
	start := time.Now()
	defer func() { observe("pool_entries", start, err) }()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx,
		"select file_hash from pool_entries where pool_hash = ? order by entry_index asc",
		poolHash,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries of pool %d: %w", poolHash, err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan entry of pool %d: %w", poolHash, err)
		}
		files = append(files, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list entries of pool %d: %w", poolHash, err)
	}
	return files, nil
}

// FilePools returns the pool hashes a file belongs to.
func (s *Store) FilePools(ctx context.Context, fileID int64) (pools []int64, err error) {
	start := time.Now()
	defer func() { observe("file_pools", start, err) }()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx,
		"select pool_hash from pool_entries where file_hash = ?",
		fileID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list pools of file %d: %w", fileID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var hash int64
		if err := rows.Scan(&hash); err != nil {
			return nil, fmt.Errorf("failed to scan pool of file %d: %w", fileID, err)
		}
		pools = append(pools, hash)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list pools of file %d: %w", fileID, err)
	}
	return pools, nil
}

// SearchPools returns one page of pool hashes whose title contains the
// given substring, along with the total match count.
func (s *Store) SearchPools(ctx context.Context, substring string, limit, offset int) (pools []int64, total int64, err error) {
	start := time.Now()
	defer func() { observe("search_pools", start, err) }()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	err = s.db.QueryRowContext(ctx,
		"select count(pool_hash) from pools where pools.title like '%' || ? || '%'",
		substring,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("pool search count failed: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		fmt.Sprintf("select pool_hash from pools where pools.title like '%%' || ? || '%%' limit %d offset %d", limit, offset),
		substring,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("pool search failed: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var hash int64
		if err := rows.Scan(&hash); err != nil {
			return nil, 0, fmt.Errorf("failed to scan pool search result: %w", err)
		}
		pools = append(pools, hash)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("pool search failed: %w", err)
	}
	return pools, total, nil
}
