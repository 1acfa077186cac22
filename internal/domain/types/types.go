// Package types contains common types used across the application
package types

import "github.com/voxevo/voxevo/internal/domain/model"

// Mode is the playback decision outcome tag.
type Mode string

// Playback modes.
const (
	ModeNone     Mode = "NONE"
	ModeRecorded Mode = "RECORDED"
	ModeAged     Mode = "AGED"
)

// Machine-readable decision reason codes.
const (
	ReasonNoVoiceVersions       = "no_voice_versions"
	ReasonNoEmbeddingAvailable  = "no_embedding_available"
	ReasonRealVoiceClose        = "real_voice_close_to_target"
	ReasonMissingBaseAge        = "missing_base_age_fallback_recorded"
	ReasonSameAgeRequested      = "same_age_requested"
	ReasonMissingBaseEmbedding  = "missing_base_embedding_fallback_recorded"
	ReasonMissingAgeDeltas      = "missing_age_deltas_fallback_recorded"
	ReasonMissingDeltaPrefix    = "missing_delta:"
	ReasonDeltaDimMismatch      = "delta_dim_mismatch_fallback_recorded"
	ReasonAgeDeltaApplied       = "age_delta_applied"
)

// Decision is the playback instruction returned to the caller. Exactly one
// mode is set; the remaining fields are populated as the mode requires.
type Decision struct {
	Mode   Mode   `json:"mode"`
	Reason string `json:"reason"`

	// RECORDED fields
	Version *model.VoiceVersion `json:"version,omitempty"`
	AgeGap  *int                `json:"age_gap,omitempty"`

	// AGED fields
	Embedding   []float32           `json:"embedding,omitempty"`
	BaseVersion *model.VoiceVersion `json:"base_version,omitempty"`
	TargetAge   int                 `json:"target_age,omitempty"`
	Alpha       float64             `json:"alpha,omitempty"`
	Relation    string              `json:"relation,omitempty"`

	// Observability fields on degraded paths
	ExpectedPath string `json:"expected_path,omitempty"`
	DeltaDim     int    `json:"delta_dim,omitempty"`
	EmbeddingDim int    `json:"emb_dim,omitempty"`
}
