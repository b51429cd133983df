package handlers

import (
	"errors"
	"net/http"

	"booru-bridge/internal/database"
	"booru-bridge/internal/logging"
)

// SearchPools returns one page of pools whose title contains the query
// substring.
func (h *Handlers) SearchPools(w http.ResponseWriter, r *http.Request) {
	searchQuery := cleanQuery(r)
	offset := intQueryParam(r, "offset", 0)
	limit := intQueryParam(r, "limit", 15)

	results, total, err := h.posts.SearchPools(r.Context(), searchQuery, limit, offset)
	if err != nil {
		logging.Error("pools: search %q failed: %v", searchQuery, err)
		writeJSONError(w, "pool search failed", http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]any{
		"query":   searchQuery,
		"offset":  offset,
		"limit":   limit,
		"total":   total,
		"results": results,
	})
}

// GetPool returns one pool with its member posts in curated order.
func (h *Handlers) GetPool(w http.ResponseWriter, r *http.Request) {
	poolID, err := pathID(r)
	if err != nil {
		writeJSONError(w, "invalid pool id", http.StatusBadRequest)
		return
	}

	pool, err := h.posts.Pool(r.Context(), poolID, false)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			writeJSONError(w, "pool not found", http.StatusNotFound)
			return
		}
		logging.Error("pool %d: hydration failed: %v", poolID, err)
		writeJSONError(w, "failed to hydrate pool", http.StatusInternalServerError)
		return
	}
	writeJSON(w, pool)
}

// GetPoolCategories returns the single static category.
func (h *Handlers) GetPoolCategories(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string]any{
		"results": []map[string]any{
			{
				"name":    "default",
				"version": 1,
				"color":   "default",
				"usages":  0,
				"default": true,
			},
		},
	})
}
