// Package embedding persists speaker embeddings and the age-delta set as
// msgpack-encoded float32 vectors on the local filesystem.
package embedding

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/voxevo/voxevo/internal/domain/model"
)

// File permission constants.
const (
	dirPermission  = 0o755
	filePermission = 0o600
)

// Store addresses embedding files by path relative to its root. The delta
// set lives at one fixed path, loaded per decision and treated as read-only.
type Store struct {
	root       string
	deltasPath string
}

// NewStore creates a Store rooted at root with the delta set at deltasPath.
func NewStore(root, deltasPath string, opts ...Option) *Store {
	s := &Store{
		root:       root,
		deltasPath: deltasPath,
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Path resolves a relative embedding path to its on-disk location.
func (s *Store) Path(relPath string) string {
	return filepath.Join(s.root, relPath)
}

// DeltasPath returns the on-disk location of the age-delta set.
func (s *Store) DeltasPath() string {
	return s.deltasPath
}

// Load reads one embedding vector. Returns ErrNotFound when the file does
// not exist and ErrCorrupt when it cannot be decoded.
func (s *Store) Load(ctx context.Context, relPath string) ([]float32, error) {
	data, err := os.ReadFile(s.Path(relPath))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, relPath)
		}
		return nil, fmt.Errorf("read embedding %s: %w", relPath, err)
	}
	var vec []float32
	if err := msgpack.Unmarshal(data, &vec); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, relPath, err)
	}
	return vec, nil
}

// Save writes one embedding vector, creating parent directories as needed.
func (s *Store) Save(ctx context.Context, relPath string, vec []float32) error {
	full := s.Path(relPath)
	if err := os.MkdirAll(filepath.Dir(full), dirPermission); err != nil {
		return fmt.Errorf("create embedding dir: %w", err)
	}
	data, err := msgpack.Marshal(vec)
	if err != nil {
		return fmt.Errorf("encode embedding %s: %w", relPath, err)
	}
	if err := os.WriteFile(full, data, filePermission); err != nil {
		return fmt.Errorf("write embedding %s: %w", relPath, err)
	}
	return nil
}

// LoadDeltas reads the age-delta set. Returns ErrNotFound when the file is
// absent and ErrCorrupt when it cannot be decoded into key -> vector form.
func (s *Store) LoadDeltas(ctx context.Context) (model.AgeDeltaSet, error) {
	data, err := os.ReadFile(s.deltasPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, s.deltasPath)
		}
		return nil, fmt.Errorf("read age deltas: %w", err)
	}
	var set model.AgeDeltaSet
	if err := msgpack.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, s.deltasPath, err)
	}
	return set, nil
}

// SaveDeltas writes the age-delta set, creating parent directories as needed.
func (s *Store) SaveDeltas(ctx context.Context, set model.AgeDeltaSet) error {
	if err := os.MkdirAll(filepath.Dir(s.deltasPath), dirPermission); err != nil {
		return fmt.Errorf("create deltas dir: %w", err)
	}
	data, err := msgpack.Marshal(set)
	if err != nil {
		return fmt.Errorf("encode age deltas: %w", err)
	}
	if err := os.WriteFile(s.deltasPath, data, filePermission); err != nil {
		return fmt.Errorf("write age deltas: %w", err)
	}
	return nil
}
