// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"
)

// PlaybackDependencies defines the interface for playback decisions.
type PlaybackDependencies interface {
	DecidePlayback(ctx context.Context, userID string, targetAge int) (Decision, error)
}

// PlaybackHandler handles playback decision requests.
type PlaybackHandler struct {
	deps PlaybackDependencies
}

// NewPlaybackHandler creates a new playback handler.
func NewPlaybackHandler(deps PlaybackDependencies) *PlaybackHandler {
	return &PlaybackHandler{deps: deps}
}

// HandleGetPlayback handles GET /playback?user_id=X&target_age=N requests.
func (h *PlaybackHandler) HandleGetPlayback(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_playback"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	userID := strings.TrimSpace(r.URL.Query().Get("user_id"))
	if userID == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	targetAge, err := strconv.Atoi(r.URL.Query().Get("target_age"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	decision, err := h.deps.DecidePlayback(r.Context(), userID, targetAge)
	if err != nil {
		if isNotFound(err) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, decision)
}
