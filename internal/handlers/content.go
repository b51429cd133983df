package handlers

import (
	"errors"
	"net/http"

	"booru-bridge/internal/database"
	"booru-bridge/internal/logging"
	"booru-bridge/internal/thumbnail"
)

// setFileHeaders marks responses as inline, sandboxed documents.
// Indexed content is untrusted; it must never script against the
// gallery origin.
func setFileHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Disposition", "inline")
	w.Header().Set("Content-Security-Policy", "sandbox; frame-src 'None'")
}

// GetContent serves a file's original bytes. Range requests are
// honored so video playback can seek.
func (h *Handlers) GetContent(w http.ResponseWriter, r *http.Request) {
	fileID, err := pathID(r)
	if err != nil {
		writeJSONError(w, "invalid post id", http.StatusBadRequest)
		return
	}

	localPath, err := h.posts.LocalPath(r.Context(), fileID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			writeJSONError(w, "post not found", http.StatusNotFound)
			return
		}
		logging.Error("content %d: path lookup failed: %v", fileID, err)
		writeJSONError(w, "failed to locate content", http.StatusInternalServerError)
		return
	}

	if mimeType, err := h.resolver.Mime(localPath); err == nil {
		w.Header().Set("Content-Type", mimeType)
	}
	setFileHeaders(w)
	http.ServeFile(w, r, localPath)
}

// GetThumbnail serves a file's derived thumbnail, generating it on
// first access. A generation failure means the post renders without a
// preview; the client shows its placeholder.
func (h *Handlers) GetThumbnail(w http.ResponseWriter, r *http.Request) {
	fileID, err := pathID(r)
	if err != nil {
		writeJSONError(w, "invalid post id", http.StatusBadRequest)
		return
	}

	localPath, err := h.posts.LocalPath(r.Context(), fileID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			writeJSONError(w, "post not found", http.StatusNotFound)
			return
		}
		logging.Error("thumbnail %d: path lookup failed: %v", fileID, err)
		writeJSONError(w, "failed to locate content", http.StatusInternalServerError)
		return
	}

	artifact, err := h.thumbs.GetOrCreate(r.Context(), fileID, localPath)
	if err != nil {
		if errors.Is(err, thumbnail.ErrUnavailable) {
			logging.Warn("thumbnail %d: unavailable: %v", fileID, err)
			writeJSONError(w, "thumbnail unavailable", http.StatusInternalServerError)
			return
		}
		logging.Error("thumbnail %d: %v", fileID, err)
		writeJSONError(w, "thumbnail generation failed", http.StatusInternalServerError)
		return
	}

	setFileHeaders(w)
	http.ServeFile(w, r, artifact)
}
