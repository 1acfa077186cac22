package embedding

import "errors"

// Sentinel kinds for embedding storage errors.
var (
	ErrNotFound = errors.New("embedding file not found")
	ErrCorrupt  = errors.New("embedding file corrupt")
)
