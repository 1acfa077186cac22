package registry

import "errors"

// Sentinel kinds for registry errors.
var (
	ErrUserNotFound  = errors.New("user not found")
	ErrUserExists    = errors.New("user already exists")
	ErrCorruptRecord = errors.New("corrupt user record")
)
