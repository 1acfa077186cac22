package confidence

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithWeights replaces the sub-score weights wholesale.
func WithWeights(w Weights) Option {
	return func(e *Engine) {
		if w.Duration >= 0 && w.SNR >= 0 && w.Similarity >= 0 && w.Device >= 0 && w.History >= 0 {
			e.weights = w
		}
	}
}

// WithWeightsFromConfig overrides individual weights from a configuration
// map keyed by duration, snr, similarity, device, history. Unknown keys and
// non-positive values are ignored.
func WithWeightsFromConfig(weights map[string]float64) Option {
	return func(e *Engine) {
		for name, w := range weights {
			if w <= 0 {
				continue
			}
			switch name {
			case "duration":
				e.weights.Duration = w
			case "snr":
				e.weights.SNR = w
			case "similarity":
				e.weights.Similarity = w
			case "device":
				e.weights.Device = w
			case "history":
				e.weights.History = w
			}
		}
	}
}
