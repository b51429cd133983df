package handlers

import (
	"net/http"
	"runtime"
	"time"

	"booru-bridge/internal/logging"
	"booru-bridge/internal/startup"
)

// HealthResponse contains the health check response
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`

	// Index summary
	PostCount int64 `json:"postCount"`

	// System info
	GoVersion    string `json:"goVersion"`
	NumCPU       int    `json:"numCpu"`
	NumGoroutine int    `json:"numGoroutine"`
}

// HealthCheck reports service liveness and whether the index is
// reachable.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:       "healthy",
		Version:      startup.Version,
		Uptime:       time.Since(h.startTime).Round(time.Second).String(),
		GoVersion:    runtime.Version(),
		NumCPU:       runtime.NumCPU(),
		NumGoroutine: runtime.NumGoroutine(),
	}

	count, err := h.store.FileCount(r.Context())
	if err != nil {
		logging.Warn("health: index unreachable: %v", err)
		response.Status = "degraded"
		w.WriteHeader(http.StatusServiceUnavailable)
	} else {
		response.PostCount = count
	}

	writeJSON(w, response)
}
