// Package embedding persists speaker embeddings and the age-delta set.
package embedding

// Option applies a configuration option to the Store.
type Option func(*Store)

// WithRoot overrides the embedding root directory.
func WithRoot(root string) Option {
	return func(s *Store) {
		if root != "" {
			s.root = root
		}
	}
}

// WithDeltasPath overrides the age-delta set location.
func WithDeltasPath(path string) Option {
	return func(s *Store) {
		if path != "" {
			s.deltasPath = path
		}
	}
}
