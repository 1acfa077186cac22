// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Keep fields unexported where possible and use functional options.
// - Provide New() initializer to build a Config with defaults.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"runtime"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9070".
	Addr string `koanf:"addr"`

	// UsersDir locates the JSON user registry (one file per user).
	UsersDir string `koanf:"users_dir"`

	// EmbeddingsDir is the root directory for stored embedding files.
	// VoiceVersion embedding paths are resolved relative to it.
	EmbeddingsDir string `koanf:"embeddings_dir"`

	// AgeDeltasPath points at the age-delta store file.
	AgeDeltasPath string `koanf:"age_deltas_path"`

	// AcceptThreshold is the minimum confidence for accepting a sample.
	AcceptThreshold float64 `koanf:"accept_threshold"`

	// MaxAgeGapYears bounds how far a recorded version may be from the
	// target age and still be played back directly.
	MaxAgeGapYears int `koanf:"max_age_gap_years"`

	// SampleQueueSize bounds the in-memory ingestion queue.
	SampleQueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of ingestion workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets the size of the sample deduplication cache.
	DedupeSize int `koanf:"dedupe_size"`

	// ConfidenceWeights overrides the sub-score weights by name:
	// duration, snr, similarity, device, history. Empty means defaults.
	ConfidenceWeights map[string]float64 `koanf:"confidence_weights"`
}

// New creates a Config populated with defaults.
func New() *Config {
	c := &Config{
		LogLevel:        "info",
		Addr:            ":9070",
		UsersDir:        "data/users",
		EmbeddingsDir:   "data",
		AgeDeltasPath:   "data/embeddings/age_deltas.mp",
		AcceptThreshold: 0.55,
		MaxAgeGapYears:  5,
		SampleQueueSize: 10_000,
		WorkerCount:     runtime.NumCPU() * 2,
		DedupeSize:      100_000,
	}
	return c
}
