// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/voxevo/voxevo/internal/domain/confidence"
	"github.com/voxevo/voxevo/internal/domain/dedupe"
	"github.com/voxevo/voxevo/internal/domain/model"
	"github.com/voxevo/voxevo/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	dedupe.Deduper

	// Enqueue pushes a sample for async ingestion. Returns false on backpressure.
	Enqueue(ctx context.Context, s model.Sample) bool

	// DecidePlayback resolves the playback mode for a user at a target age.
	DecidePlayback(ctx context.Context, userID string, targetAge int) (types.Decision, error)

	// ScoreConfidence previews the acceptance confidence for sample metrics.
	ScoreConfidence(in confidence.Inputs) float64

	// Versions lists a user's accepted voice versions.
	Versions(ctx context.Context, userID string) ([]model.VoiceVersion, error)
}

// Decision mirrors the read shape returned by playback queries.
type Decision = types.Decision

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler     *HealthHandler
	statsHandler      *StatsHandler
	samplesHandler    *SamplesHandler
	playbackHandler   *PlaybackHandler
	confidenceHandler *ConfidenceHandler
	versionsHandler   *VersionsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:     NewHealthHandler(),
		statsHandler:      NewStatsHandler(statsProvider),
		samplesHandler:    NewSamplesHandler(deps),
		playbackHandler:   NewPlaybackHandler(deps),
		confidenceHandler: NewConfidenceHandler(deps),
		versionsHandler:   NewVersionsHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/samples", MetricsMiddleware(s.samplesHandler.HandlePostSample, "samples"))
	mux.HandleFunc("/playback", MetricsMiddleware(s.playbackHandler.HandleGetPlayback, "playback"))
	mux.HandleFunc("/confidence", MetricsMiddleware(s.confidenceHandler.HandlePostConfidence, "confidence"))
	mux.HandleFunc("/versions/", MetricsMiddleware(s.versionsHandler.HandleGetVersions, "versions"))
}

// sampleRequest mirrors the OpenAPI schema for POST /samples.
type sampleRequest struct {
	SampleID          string    `json:"sample_id"`
	UserID            string    `json:"user_id"`
	RecordedUTC       string    `json:"recorded_utc,omitempty"`
	DurationS         float64   `json:"duration_s"`
	SNRDB             *float64  `json:"snr_db,omitempty"`
	SpeakerSimilarity *float64  `json:"speaker_similarity,omitempty"`
	DeviceMatch       *float64  `json:"device_match,omitempty"`
	AgeAtRecording    *int      `json:"age_at_recording,omitempty"`
	Embedding         []float32 `json:"embedding"`
}

func (s sampleRequest) validate() error {
	switch {
	case strings.TrimSpace(s.SampleID) == "":
		return errors.New("missing sample_id")
	case strings.TrimSpace(s.UserID) == "":
		return errors.New("missing user_id")
	case s.DurationS <= 0:
		return errors.New("duration_s must be positive")
	case len(s.Embedding) == 0:
		return errors.New("missing embedding")
	}
	return nil
}

func (s sampleRequest) toSample() model.Sample {
	return model.Sample{
		SampleID:          s.SampleID,
		UserID:            s.UserID,
		RecordedUTC:       s.RecordedUTC,
		DurationS:         s.DurationS,
		SNRDB:             s.SNRDB,
		SpeakerSimilarity: s.SpeakerSimilarity,
		DeviceMatch:       s.DeviceMatch,
		AgeAtRecording:    s.AgeAtRecording,
		Embedding:         s.Embedding,
	}
}

type ackResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// isNotFound allows the API to translate upstream not-found errors to 404.
// This stays generic to avoid tight coupling with specific packages.
func isNotFound(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(strings.ToLower(err.Error()), "not found")
}
