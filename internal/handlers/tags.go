package handlers

import (
	"net/http"
	"strings"

	"booru-bridge/internal/logging"
)

// tagSearchLimit is advertised in the response envelope; tag search is
// not paged.
const tagSearchLimit = 10000

// SearchTags returns tag documents whose name contains the query
// substring, most used first. Sub-two-character queries return nothing
// rather than walking most of the tag table.
func (h *Handlers) SearchTags(w http.ResponseWriter, r *http.Request) {
	searchQuery := cleanQuery(r)
	offset := intQueryParam(r, "offset", 0)

	// Clients decorate autocomplete lookups; the decorations carry no
	// information for a substring match.
	searchQuery = strings.ReplaceAll(searchQuery, "*", "")
	searchQuery = strings.ReplaceAll(searchQuery, " sort:usages", "")

	if len(searchQuery) < 2 {
		writeJSON(w, map[string]any{
			"query":   searchQuery,
			"offset":  offset,
			"limit":   tagSearchLimit,
			"total":   0,
			"results": []any{},
		})
		return
	}

	results, err := h.posts.SearchTags(r.Context(), searchQuery)
	if err != nil {
		logging.Error("tags: search %q failed: %v", searchQuery, err)
		writeJSONError(w, "tag search failed", http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]any{
		"query":   searchQuery,
		"offset":  offset,
		"limit":   tagSearchLimit,
		"total":   len(results),
		"results": results,
	})
}

// GetTagCategories returns the single static category; the index does
// not categorize tags.
func (h *Handlers) GetTagCategories(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string]any{
		"results": []map[string]any{
			{
				"name":    "default",
				"version": 1,
				"color":   "default",
				"usages":  0,
				"default": true,
				"order":   1,
			},
		},
	})
}
