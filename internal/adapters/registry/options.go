// Package registry defines the user registry read contract and errors.
package registry

// Option applies a configuration option to the JSONStore.
type Option func(*JSONStore)

// WithDir overrides the directory holding user records.
func WithDir(dir string) Option {
	return func(s *JSONStore) {
		if dir != "" {
			s.dir = dir
		}
	}
}
