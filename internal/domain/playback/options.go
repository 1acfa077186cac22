package playback

// Option applies a configuration option to the Decider.
type Option func(*Decider)

// WithSelector replaces the version-selection collaborator.
func WithSelector(s Selector) Option {
	return func(d *Decider) {
		if s != nil {
			d.selector = s
		}
	}
}

// WithClassifier replaces the age-classification collaborator.
func WithClassifier(c Classifier) Option {
	return func(d *Decider) {
		if c != nil {
			d.classify = c
		}
	}
}
