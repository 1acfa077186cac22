// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/voxevo/voxevo/internal/domain/model"
)

// VersionDependencies defines the interface for version history lookups.
type VersionDependencies interface {
	Versions(ctx context.Context, userID string) ([]model.VoiceVersion, error)
}

// VersionsHandler handles version history requests.
type VersionsHandler struct {
	deps VersionDependencies
}

// NewVersionsHandler creates a new versions handler.
func NewVersionsHandler(deps VersionDependencies) *VersionsHandler {
	return &VersionsHandler{deps: deps}
}

// versionsResponse mirrors the OpenAPI schema for GET /versions/{user_id}.
type versionsResponse struct {
	UserID   string               `json:"user_id"`
	Versions []model.VoiceVersion `json:"versions"`
}

// HandleGetVersions handles GET /versions/{user_id} requests.
func (h *VersionsHandler) HandleGetVersions(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_versions"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	// Extract path parameter after /versions/
	path := strings.TrimPrefix(r.URL.Path, "/versions/")
	if path == "" || strings.Contains(path, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	versions, err := h.deps.Versions(r.Context(), path)
	if err != nil {
		if isNotFound(err) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	if versions == nil {
		versions = []model.VoiceVersion{}
	}
	writeJSON(w, http.StatusOK, versionsResponse{UserID: path, Versions: versions})
}
