// Package selection picks the best recorded version for a target age.
//
// A real recording always beats synthesis when one is adequately close: the
// selector reports RECORDED when the smallest age gap across the history is
// within the configured bound, and NONE otherwise so the caller can fall
// through to aging.
package selection

import (
	"github.com/voxevo/voxevo/internal/domain/model"
)

// Default selection configuration constants.
const (
	defaultMaxAgeGapYears = 5
)

// Mode reported by the selector.
type Mode string

// Selector outcomes.
const (
	ModeRecorded Mode = "RECORDED"
	ModeNone     Mode = "NONE"
)

// Result carries the selector's choice. Version and AgeGap are only
// meaningful when Mode is RECORDED.
type Result struct {
	Mode    Mode
	Version *model.VoiceVersion
	AgeGap  int
}

// Selector implements the closeness policy over a version history.
type Selector struct {
	maxAgeGapYears int
}

// New creates a Selector with configuration options.
func New(opts ...Option) *Selector {
	s := &Selector{
		maxAgeGapYears: defaultMaxAgeGapYears,
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// SelectBest scans the history for the version whose recorded age is closest
// to the target. Versions without a stored age are skipped; ties go to the
// more recent version. Returns NONE when nothing falls within the gap bound.
func (s *Selector) SelectBest(versions []model.VoiceVersion, targetAge int) Result {
	bestGap := -1
	bestIdx := -1

	for i := range versions {
		age := versions[i].AgeAtRecording
		if age == nil {
			continue
		}
		gap := targetAge - *age
		if gap < 0 {
			gap = -gap
		}
		if bestIdx < 0 || gap <= bestGap {
			bestGap = gap
			bestIdx = i
		}
	}

	if bestIdx < 0 || bestGap > s.maxAgeGapYears {
		return Result{Mode: ModeNone}
	}
	return Result{
		Mode:    ModeRecorded,
		Version: &versions[bestIdx],
		AgeGap:  bestGap,
	}
}
