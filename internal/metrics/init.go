package metrics

// InitializeMetrics pre-populates the expected label combinations so that
// every metric is exported from the first Prometheus scrape.
// Call this once at startup.
func InitializeMetrics() {
	for _, c := range []string{"local_path", "mime_type", "file_kind", "canvas_size", "tag_usage"} {
		CacheHits.WithLabelValues(c)
		CacheMisses.WithLabelValues(c)
		CacheEvictions.WithLabelValues(c)
	}

	for _, s := range []string{"image", "document", "video", "name_card", "content_card"} {
		ThumbnailGenerationsTotal.WithLabelValues(s, "success")
		ThumbnailGenerationsTotal.WithLabelValues(s, "error")
		ThumbnailGenerationDuration.WithLabelValues(s)
	}

	for _, c := range []string{"cheap", "expensive"} {
		ThumbnailJobsInFlight.WithLabelValues(c)
	}

	for _, op := range []string{"search_files", "count_search", "resolve_tag", "file_path",
		"file_tags", "tag_names", "tag_usage", "search_tags", "file_count",
		"pool_title", "pool_entries", "file_pools", "search_pools", "adjacent_files"} {
		DBQueryTotal.WithLabelValues(op, "success")
		DBQueryTotal.WithLabelValues(op, "error")
		DBQueryDuration.WithLabelValues(op)
	}
}
