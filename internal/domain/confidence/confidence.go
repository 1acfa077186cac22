// Package confidence computes the acceptance-confidence score for a voice
// sample from its signal-quality and identity metrics.
//
// The score is a weighted sum of five sub-scores, each clamped to [0,1].
// Similarity and history dominate because they measure identity; duration and
// SNR are soft quality gates that never zero out an otherwise-valid sample.
package confidence

import (
	"math"
)

// Duration ramp and SNR band constants.
const (
	durationFloorS = 8.0  // below this the duration score is 0
	durationRampS  = 20.0 // linear ramp; 1.0 at floor+ramp (28s)

	snrUnknownScore = 0.4 // neutral-low default when SNR is unmeasured
	snrFloorScore   = 0.3 // at or below 0 dB
	snrCeilScore    = 0.7 // at or above 10 dB; never rewards "too clean"
	snrCeilDB       = 10.0
)

// Weights for the five sub-scores. They sum to 1.0 by default.
type Weights struct {
	Duration   float64
	SNR        float64
	Similarity float64
	Device     float64
	History    float64
}

// defaultWeights returns the production weighting: similarity dominates,
// duration and history anchor, SNR and device are soft signals.
func defaultWeights() Weights {
	return Weights{
		Duration:   0.20,
		SNR:        0.15,
		Similarity: 0.30,
		Device:     0.15,
		History:    0.20,
	}
}

// Inputs are the raw, untrusted metrics for one sample. SNRDB,
// SpeakerSimilarity and DeviceMatch accept any JSON-decoded value; they are
// coerced before scoring and never cause a failure.
type Inputs struct {
	DurationS         float64
	SNRDB             any
	SpeakerSimilarity any
	DeviceMatch       any
	HistoryCount      int
}

// Engine scores samples. It is stateless and safe for concurrent use.
type Engine struct {
	weights Weights
}

// New creates an Engine with configuration options.
func New(opts ...Option) *Engine {
	e := &Engine{
		weights: defaultWeights(),
	}

	// Apply all options
	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Score computes the acceptance confidence for a sample.
// Deterministic, total, and always in [0,1] rounded to 3 decimal places.
func (e *Engine) Score(in Inputs) float64 {
	n := normalizeInputs(in)

	durationScore := clamp((n.durationS - durationFloorS) / durationRampS)
	snrScore := scoreSNR(n.snr, n.snrKnown)
	similarityScore := clamp(n.similarity)
	deviceScore := clamp(n.device)
	historyScore := scoreHistory(n.historyCount)

	c := e.weights.Similarity*similarityScore +
		e.weights.Duration*durationScore +
		e.weights.SNR*snrScore +
		e.weights.Device*deviceScore +
		e.weights.History*historyScore

	return round3(clamp(c))
}

// scoreSNR maps SNR in dB to [0.3, 0.7]. Speech SNR is usually 0-10 dB, so
// the band is intentionally lenient. Unknown sits between worst and best:
// genuine uncertainty, not a failure.
func scoreSNR(snrDB float64, known bool) float64 {
	switch {
	case !known:
		return snrUnknownScore
	case snrDB <= 0:
		return snrFloorScore
	case snrDB < snrCeilDB:
		return snrFloorScore + (snrDB/snrCeilDB)*(snrCeilScore-snrFloorScore)
	default:
		return snrCeilScore
	}
}

// scoreHistory rewards users with an established voice history.
func scoreHistory(count int) float64 {
	switch {
	case count >= 3:
		return 1.0
	case count == 2:
		return 0.7
	case count == 1:
		return 0.4
	default:
		return 0.2
	}
}

// round3 rounds to 3 decimal places.
func round3(x float64) float64 {
	return math.Round(x*1000) / 1000
}
