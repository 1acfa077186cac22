package confidence

import (
	"math"
	"strconv"
)

// clamp bounds x to [0,1].
func clamp(x float64) float64 {
	return math.Max(0.0, math.Min(x, 1.0))
}

// coerceFloat converts an untrusted value to a float64. Missing or
// unconvertible values yield def; the caller picks the default that matches
// the signal's trust semantics.
func coerceFloat(v any, def float64) (float64, bool) {
	switch t := v.(type) {
	case nil:
		return def, false
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case *float64:
		if t == nil {
			return def, false
		}
		return *t, true
	case string:
		f, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return def, false
		}
		return f, true
	default:
		return def, false
	}
}

// normalized holds coerced inputs ready for the weighting math.
type normalized struct {
	durationS    float64
	snr          float64
	snrKnown     bool
	similarity   float64
	device       float64
	historyCount int
}

// normalizeInputs coerces every raw input to a safe value. Similarity and
// device match default to 0.0: an unverifiable sample must not be credited.
// SNR keeps a known/unknown flag so its neutral default applies downstream.
func normalizeInputs(in Inputs) normalized {
	n := normalized{durationS: in.DurationS, historyCount: in.HistoryCount}
	if n.durationS < 0 || math.IsNaN(n.durationS) || math.IsInf(n.durationS, 0) {
		n.durationS = 0
	}
	if n.historyCount < 0 {
		n.historyCount = 0
	}
	n.snr, n.snrKnown = coerceFloat(in.SNRDB, 0)
	n.similarity, _ = coerceFloat(in.SpeakerSimilarity, 0)
	n.device, _ = coerceFloat(in.DeviceMatch, 0)
	return n
}
