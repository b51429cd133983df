package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"booru-bridge/internal/logging"
	"booru-bridge/internal/query"
)

// renderSearch turns a compiled predicate into the SQL template
// executed against the tag_files table. Each OpMatchTag consumes one
// positional parameter; the caller binds resolved tag ids in the same
// order as Compiled.Tags.
func renderSearch(c *query.Compiled) string {
	if c.MatchesAll() {
		return "select distinct file_hash from tag_files"
	}

	var b strings.Builder
	b.WriteString("select file_hash from tag_files where")
	for _, op := range c.Ops {
		switch op {
		case query.OpUniversal:
			b.WriteString(" true")
		case query.OpOr:
			b.WriteString(" or")
		case query.OpNot:
			b.WriteString(" except select file_hash from tag_files where")
		case query.OpAnd:
			b.WriteString(" intersect select file_hash from tag_files where")
		case query.OpMatchTag:
			b.WriteString(" core_hash = ?")
		}
	}
	return b.String()
}

// ResolveTags maps tag literals to their core hash ids, preserving
// order. A literal with no matching tag aborts with
// UnresolvedTagError.
func (s *Store) ResolveTags(ctx context.Context, names []string) ([]int64, error) {
	ids := make([]int64, 0, len(names))
	for _, name := range names {
		id, err := s.resolveTag(ctx, name)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *Store) resolveTag(ctx context.Context, name string) (id int64, err error) {
	start := time.Now()
	defer func() { observe("resolve_tag", start, err) }()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `
		select hashes.id
		from tag_names
		join hashes on hashes.id = tag_names.core_hash
		where tag_text = ?`,
		name,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to resolve tag %q: %w", name, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return 0, fmt.Errorf("failed to resolve tag %q: %w", name, err)
		}
		return 0, &UnresolvedTagError{Name: name}
	}
	if err := rows.Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to resolve tag %q: %w", name, err)
	}
	return id, nil
}

// SearchFiles executes a compiled predicate with its resolved tag ids
// and returns one page of matching file ids.
func (s *Store) SearchFiles(ctx context.Context, c *query.Compiled, tagIDs []int64, limit, offset int) (files []int64, err error) {
	start := time.Now()
	defer func() { observe("search_files", start, err) }()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	sqlQuery := fmt.Sprintf("%s limit %d offset %d", renderSearch(c), limit, offset)
	logging.Debug("search query: %s (%d params)", sqlQuery, len(tagIDs))

	rows, err := s.db.QueryContext(ctx, sqlQuery, bindIDs(tagIDs)...)
	if err != nil {
		return nil, fmt.Errorf("search query failed: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan search result: %w", err)
		}
		files = append(files, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("search query failed: %w", err)
	}
	return files, nil
}

// CountSearch returns the total number of files matching a compiled
// predicate, ignoring pagination.
func (s *Store) CountSearch(ctx context.Context, c *query.Compiled, tagIDs []int64) (total int64, err error) {
	start := time.Now()
	defer func() { observe("count_search", start, err) }()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	sqlQuery := fmt.Sprintf("select count(*) from (%s)", renderSearch(c))
	if err := s.db.QueryRowContext(ctx, sqlQuery, bindIDs(tagIDs)...).Scan(&total); err != nil {
		return 0, fmt.Errorf("search count failed: %w", err)
	}
	return total, nil
}

func bindIDs(ids []int64) []interface{} {
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}
