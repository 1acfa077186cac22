// Package registry defines the user registry read contract and errors.
//
// The registry owns user records and their append-only voice version lists.
// The playback decider only reads; the ingestion workers append.
package registry

import (
	"context"

	"github.com/voxevo/voxevo/internal/domain/model"
)

// Store provides access to user records and version histories.
type Store interface {
	// User returns the full record for a user.
	// Returns ErrUserNotFound if the user is unknown.
	User(ctx context.Context, userID string) (model.User, error)

	// Versions returns the user's voice versions in chronological order.
	// Returns ErrUserNotFound if the user is unknown.
	Versions(ctx context.Context, userID string) ([]model.VoiceVersion, error)

	// LatestVersion returns the most recently recorded version, or nil when
	// the history is empty.
	LatestVersion(ctx context.Context, userID string) (*model.VoiceVersion, error)

	// CreateUser persists a new user record.
	// Returns ErrUserExists if the id is already taken.
	CreateUser(ctx context.Context, u model.User) error

	// AppendVersion appends one immutable version to the user's history.
	AppendVersion(ctx context.Context, userID string, v model.VoiceVersion) error

	// ListUsers returns all known user ids.
	ListUsers(ctx context.Context) ([]string, error)

	// Counts returns the number of users and total versions tracked.
	Counts(ctx context.Context) (users, versions int)
}
