package selection

// Option applies a configuration option to the Selector.
type Option func(*Selector)

// WithMaxAgeGap sets the maximum years between a recorded age and the target
// for direct playback.
func WithMaxAgeGap(years int) Option {
	return func(s *Selector) {
		if years >= 0 {
			s.maxAgeGapYears = years
		}
	}
}
