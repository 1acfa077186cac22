package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/voxevo/voxevo/internal/domain/model"
	"github.com/voxevo/voxevo/pkg/metrics"
)

// File permission constants.
const (
	dirPermission  = 0o755
	filePermission = 0o600
)

// JSONStore implements Store over one JSON file per user (<dir>/<id>.json).
// Writes go through a temp file plus rename so readers never observe a
// partial record.
type JSONStore struct {
	mu  sync.RWMutex
	dir string
}

// NewJSONStore creates a store rooted at dir, creating it if needed.
func NewJSONStore(dir string, opts ...Option) (*JSONStore, error) {
	s := &JSONStore{
		dir: dir,
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	if err := os.MkdirAll(s.dir, dirPermission); err != nil {
		return nil, fmt.Errorf("create users dir: %w", err)
	}
	return s, nil
}

// User returns the full record for a user.
func (s *JSONStore) User(ctx context.Context, userID string) (model.User, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRegistryReadLatency(float64(time.Since(start).Milliseconds()))
	}()

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.readUser(userID)
}

// Versions returns the user's voice versions in chronological order.
func (s *JSONStore) Versions(ctx context.Context, userID string) ([]model.VoiceVersion, error) {
	u, err := s.User(ctx, userID)
	if err != nil {
		return nil, err
	}
	return u.VoiceVersions, nil
}

// LatestVersion returns the most recently recorded version, or nil when the
// history is empty.
func (s *JSONStore) LatestVersion(ctx context.Context, userID string) (*model.VoiceVersion, error) {
	u, err := s.User(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(u.VoiceVersions) == 0 {
		return nil, nil
	}
	// Append-only list: last entry is the newest.
	v := u.VoiceVersions[len(u.VoiceVersions)-1]
	return &v, nil
}

// CreateUser persists a new user record.
func (s *JSONStore) CreateUser(ctx context.Context, u model.User) error {
	start := time.Now()
	defer func() {
		metrics.RecordRegistryWriteLatency(float64(time.Since(start).Milliseconds()))
	}()

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := os.Stat(s.userPath(u.UserID)); err == nil {
		return fmt.Errorf("%w: %s", ErrUserExists, u.UserID)
	}
	if u.VoiceVersions == nil {
		u.VoiceVersions = []model.VoiceVersion{}
	}
	return s.writeUser(u)
}

// AppendVersion appends one immutable version to the user's history.
func (s *JSONStore) AppendVersion(ctx context.Context, userID string, v model.VoiceVersion) error {
	start := time.Now()
	defer func() {
		metrics.RecordRegistryWriteLatency(float64(time.Since(start).Milliseconds()))
	}()

	s.mu.Lock()
	defer s.mu.Unlock()

	u, err := s.readUser(userID)
	if err != nil {
		metrics.RecordRegistryError()
		return err
	}
	u.VoiceVersions = append(u.VoiceVersions, v)
	return s.writeUser(u)
}

// ListUsers returns all known user ids.
func (s *JSONStore) ListUsers(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		metrics.RecordRegistryError()
		return nil, fmt.Errorf("read users dir: %w", err)
	}
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, ".json"))
	}
	return ids, nil
}

// Counts returns the number of users and total versions tracked.
func (s *JSONStore) Counts(ctx context.Context) (users, versions int) {
	ids, err := s.ListUsers(ctx)
	if err != nil {
		return 0, 0
	}
	for _, id := range ids {
		vs, err := s.Versions(ctx, id)
		if err != nil {
			continue
		}
		users++
		versions += len(vs)
	}
	return users, versions
}

// userPath maps a user id to its record file.
func (s *JSONStore) userPath(userID string) string {
	return filepath.Join(s.dir, userID+".json")
}

// readUser loads and decodes one record. Caller holds the lock.
func (s *JSONStore) readUser(userID string) (model.User, error) {
	data, err := os.ReadFile(s.userPath(userID))
	if err != nil {
		if os.IsNotExist(err) {
			return model.User{}, fmt.Errorf("%w: %s", ErrUserNotFound, userID)
		}
		metrics.RecordRegistryError()
		return model.User{}, fmt.Errorf("read user %s: %w", userID, err)
	}
	var u model.User
	if err := json.Unmarshal(data, &u); err != nil {
		metrics.RecordRegistryError()
		return model.User{}, fmt.Errorf("%w: %s: %v", ErrCorruptRecord, userID, err)
	}
	return u, nil
}

// writeUser encodes and atomically replaces one record. Caller holds the lock.
func (s *JSONStore) writeUser(u model.User) error {
	data, err := json.MarshalIndent(u, "", "  ")
	if err != nil {
		metrics.RecordRegistryError()
		return fmt.Errorf("encode user %s: %w", u.UserID, err)
	}

	final := s.userPath(u.UserID)
	tmp := final + ".tmp"
	if err := os.WriteFile(tmp, data, filePermission); err != nil {
		metrics.RecordRegistryError()
		return fmt.Errorf("write user %s: %w", u.UserID, err)
	}
	if err := os.Rename(tmp, final); err != nil {
		metrics.RecordRegistryError()
		return fmt.Errorf("commit user %s: %w", u.UserID, err)
	}
	return nil
}
