// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/voxevo/voxevo/internal/domain/confidence"
)

// ConfidenceDependencies defines the interface for confidence previews.
type ConfidenceDependencies interface {
	ScoreConfidence(in confidence.Inputs) float64
}

// ConfidenceHandler handles confidence preview requests.
type ConfidenceHandler struct {
	deps ConfidenceDependencies
}

// NewConfidenceHandler creates a new confidence handler.
func NewConfidenceHandler(deps ConfidenceDependencies) *ConfidenceHandler {
	return &ConfidenceHandler{deps: deps}
}

// confidenceRequest mirrors the OpenAPI schema for POST /confidence.
type confidenceRequest struct {
	DurationS         float64  `json:"duration_s"`
	SNRDB             *float64 `json:"snr_db,omitempty"`
	SpeakerSimilarity *float64 `json:"speaker_similarity,omitempty"`
	DeviceMatch       *float64 `json:"device_match,omitempty"`
	HistoryCount      int      `json:"history_count"`
}

type confidenceResponse struct {
	Confidence float64 `json:"confidence"`
}

// HandlePostConfidence handles POST /confidence requests.
// It scores the supplied metrics without persisting anything.
func (h *ConfidenceHandler) HandlePostConfidence(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_confidence"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req confidenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	score := h.deps.ScoreConfidence(confidence.Inputs{
		DurationS:         req.DurationS,
		SNRDB:             req.SNRDB,
		SpeakerSimilarity: req.SpeakerSimilarity,
		DeviceMatch:       req.DeviceMatch,
		HistoryCount:      req.HistoryCount,
	})
	writeJSON(w, http.StatusOK, confidenceResponse{Confidence: score})
}
