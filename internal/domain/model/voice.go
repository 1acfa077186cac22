// Package model contains domain models passed between layers.
package model

// Delta keys expected in an age-delta set.
const (
	DeltaChildrenToAdult = "children_to_adult"
	DeltaAdultToChildren = "adult_to_children"
)

// VoiceVersion is one accepted recording in a user's voice history.
// Versions are immutable once appended; list order is chronological.
type VoiceVersion struct {
	VersionID         string   `json:"version_id"`                   // unique id within the user's history
	RecordedUTC       string   `json:"recorded_utc"`                 // ISO-8601, may carry a Z suffix
	AgeAtRecording    *int     `json:"age_at_recording,omitempty"`   // years; derivable from dob when absent
	EmbeddingPath     string   `json:"embedding_path"`               // relative path to the stored embedding
	Confidence        float64  `json:"confidence"`                   // acceptance confidence at ingestion
	DurationS         float64  `json:"duration_s,omitempty"`         // sample duration in seconds
	SNRDB             *float64 `json:"snr_db,omitempty"`             // signal-to-noise ratio
	SpeakerSimilarity *float64 `json:"speaker_similarity,omitempty"` // verification similarity
	DeviceMatch       *float64 `json:"device_match,omitempty"`       // device consistency score
}

// User mirrors the registry record stored at users/<id>.json.
type User struct {
	UserID        string         `json:"user_id"`
	DateOfBirth   string         `json:"date_of_birth,omitempty"` // YYYY-MM-DD
	CreatedUTC    string         `json:"created_utc"`
	VoiceVersions []VoiceVersion `json:"voice_versions"`
}

// Sample is an ingestion payload: one voice sample with the quality and
// identity metrics produced by the verification pipeline.
type Sample struct {
	SampleID          string    // unique id for idempotency
	UserID            string    // owner of the sample
	RecordedUTC       string    // recording timestamp
	DurationS         float64   // duration in seconds
	SNRDB             *float64  // optional; nil when unmeasurable
	SpeakerSimilarity *float64  // optional; nil when verification produced no score
	DeviceMatch       *float64  // optional
	AgeAtRecording    *int      // optional; derivable from dob later
	Embedding         []float32 // extracted speaker embedding
}

// AgeDeltaSet maps delta keys to fixed-dimension embedding shift vectors.
type AgeDeltaSet map[string][]float32
