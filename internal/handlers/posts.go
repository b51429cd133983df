package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"booru-bridge/internal/database"
	"booru-bridge/internal/logging"
	"booru-bridge/internal/posts"
	"booru-bridge/internal/query"
)

// SearchPosts runs a tag search and returns one hydrated page.
// A pool:N query bypasses the compiler entirely and pages the pool's
// curated ordering instead.
func (h *Handlers) SearchPosts(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	searchQuery := cleanQuery(r)
	offset := intQueryParam(r, "offset", 0)
	limit := intQueryParam(r, "limit", 15)
	fields := requestFields(r)

	if strings.Contains(searchQuery, "pool:") {
		h.poolPosts(w, r, searchQuery, offset, limit)
		return
	}

	compiled, err := h.compiler.Compile(searchQuery)
	if err != nil {
		var parseErr *query.ParseError
		if errors.As(err, &parseErr) {
			writeJSONError(w, parseErr.Error(), http.StatusBadRequest)
			return
		}
		writeJSONError(w, "failed to compile query", http.StatusInternalServerError)
		return
	}

	ctx := r.Context()
	tagIDs, err := h.store.ResolveTags(ctx, compiled.Tags)
	if err != nil {
		var unresolved *database.UnresolvedTagError
		if errors.As(err, &unresolved) {
			writeJSONError(w, unresolved.Error(), http.StatusBadRequest)
			return
		}
		logging.Error("posts: failed to resolve tags: %v", err)
		writeJSONError(w, "failed to resolve tags", http.StatusInternalServerError)
		return
	}

	fileIDs, err := h.store.SearchFiles(ctx, compiled, tagIDs, limit, offset)
	if err != nil {
		logging.Error("posts: search failed: %v", err)
		writeJSONError(w, "search failed", http.StatusInternalServerError)
		return
	}
	total, err := h.store.CountSearch(ctx, compiled, tagIDs)
	if err != nil {
		logging.Error("posts: count failed: %v", err)
		writeJSONError(w, "search failed", http.StatusInternalServerError)
		return
	}

	results, err := h.posts.Posts(ctx, fileIDs, fields)
	if err != nil {
		logging.Error("posts: hydration failed: %v", err)
		writeJSONError(w, "failed to hydrate posts", http.StatusInternalServerError)
		return
	}
	logging.Debug("posts: %q page of %d hydrated in %v", searchQuery, len(results), time.Since(start))

	writeJSON(w, map[string]any{
		"query":   searchQuery,
		"offset":  offset,
		"limit":   limit,
		"total":   total,
		"results": results,
	})
}

// poolPosts pages a pool's member posts in curated order.
func (h *Handlers) poolPosts(w http.ResponseWriter, r *http.Request, searchQuery string, offset, limit int) {
	_, idText, ok := strings.Cut(searchQuery, ":")
	if !ok {
		writeJSONError(w, "malformed pool query", http.StatusBadRequest)
		return
	}
	poolID, err := strconv.ParseInt(strings.TrimSpace(idText), 10, 64)
	if err != nil {
		writeJSONError(w, "malformed pool id", http.StatusBadRequest)
		return
	}

	pool, err := h.posts.Pool(r.Context(), poolID, false)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			writeJSONError(w, "pool not found", http.StatusNotFound)
			return
		}
		logging.Error("posts: pool %d hydration failed: %v", poolID, err)
		writeJSONError(w, "failed to hydrate pool", http.StatusInternalServerError)
		return
	}

	members := pool["posts"].([]posts.Post)
	if offset > len(members) {
		offset = len(members)
	}
	page := members[offset:]

	writeJSON(w, map[string]any{
		"query":   searchQuery,
		"offset":  offset,
		"limit":   limit,
		"total":   len(page),
		"results": page,
	})
}

// GetPost returns one fully hydrated post.
func (h *Handlers) GetPost(w http.ResponseWriter, r *http.Request) {
	fileID, err := pathID(r)
	if err != nil {
		writeJSONError(w, "invalid post id", http.StatusBadRequest)
		return
	}

	post, err := h.posts.Post(r.Context(), fileID, nil)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			writeJSONError(w, "post not found", http.StatusNotFound)
			return
		}
		logging.Error("post %d: hydration failed: %v", fileID, err)
		writeJSONError(w, "failed to hydrate post", http.StatusInternalServerError)
		return
	}
	writeJSON(w, post)
}

// GetPostAround returns the posts adjacent to one id, for client-side
// prev/next navigation. Missing neighbors are null.
func (h *Handlers) GetPostAround(w http.ResponseWriter, r *http.Request) {
	fileID, err := pathID(r)
	if err != nil {
		writeJSONError(w, "invalid post id", http.StatusBadRequest)
		return
	}

	prev, next, err := h.posts.Around(r.Context(), fileID, requestFields(r))
	if err != nil {
		logging.Error("post %d: around lookup failed: %v", fileID, err)
		writeJSONError(w, "failed to hydrate adjacent posts", http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]any{"prev": prev, "next": next})
}
