// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/voxevo/voxevo/internal/domain/dedupe"
	"github.com/voxevo/voxevo/internal/domain/model"
	"github.com/voxevo/voxevo/pkg/metrics"
)

// SampleDependencies defines the interface for sample ingestion dependencies
type SampleDependencies interface {
	dedupe.Deduper
	Enqueue(ctx context.Context, s model.Sample) bool
}

// SamplesHandler handles sample ingestion requests
type SamplesHandler struct {
	deps SampleDependencies
}

// NewSamplesHandler creates a new samples handler
func NewSamplesHandler(deps SampleDependencies) *SamplesHandler {
	return &SamplesHandler{deps: deps}
}

// HandlePostSample handles POST /samples requests
func (h *SamplesHandler) HandlePostSample(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_sample"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req sampleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	metrics.RecordSampleIngested()

	// Idempotency check - mark as seen first
	if h.deps.SeenAndRecord(r.Context(), req.SampleID) {
		metrics.RecordSampleDuplicate()
		writeJSON(w, http.StatusOK, ackResponse{Status: "duplicate", Duplicate: true})
		return
	}

	// Try to enqueue for async processing
	if ok := h.deps.Enqueue(r.Context(), req.toSample()); !ok {
		// Rollback the "seen" status since enqueue failed
		h.deps.Unrecord(r.Context(), req.SampleID)
		writeError(w, http.StatusTooManyRequests, "backpressure", NewKind(op, ErrBackpressure))
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted", Duplicate: false})
}
