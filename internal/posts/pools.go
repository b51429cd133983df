package posts

import "context"

// Pool hydrates one pool document. A micro pool omits its member
// posts, which avoids recursion when a pool appears inside a post.
// Returns database.ErrNotFound (wrapped) for an unknown pool.
func (s *Service) Pool(ctx context.Context, poolID int64, micro bool) (map[string]any, error) {
	title, postCount, err := s.store.PoolTitle(ctx, poolID)
	if err != nil {
		return nil, err
	}

	memberPosts := []Post{}
	if !micro {
		fileIDs, err := s.store.PoolEntries(ctx, poolID)
		if err != nil {
			return nil, err
		}
		memberPosts, err = s.Posts(ctx, fileIDs, microFields)
		if err != nil {
			return nil, err
		}
	}

	return map[string]any{
		"version":      1,
		"id":           poolID,
		"names":        []string{title},
		"category":     "default",
		"posts":        memberPosts,
		"creationTime": staticTime,
		"lastEditTime": staticTime,
		"postCount":    postCount,
		"description":  "",
	}, nil
}

// SearchPools returns one page of full pool documents whose title
// contains the substring, and the unpaged total.
func (s *Service) SearchPools(ctx context.Context, substring string, limit, offset int) ([]map[string]any, int64, error) {
	poolIDs, total, err := s.store.SearchPools(ctx, substring, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	pools := make([]map[string]any, 0, len(poolIDs))
	for _, poolID := range poolIDs {
		pool, err := s.Pool(ctx, poolID, false)
		if err != nil {
			return nil, 0, err
		}
		pools = append(pools, pool)
	}
	return pools, total, nil
}
