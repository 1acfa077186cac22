// Package seedkit generates fixture data for local development and load
// testing: user records, voice version histories with stored embeddings,
// and an age delta file.
package seedkit

// Config holds the fixture generation parameters.
type Config struct {
	NumUsers      int
	MaxVersions   int
	Dim           int
	UsersDir      string
	EmbeddingsDir string
	DeltasPath    string
	LogFile       string
	Verbose       bool
}

// Stats tracks what was generated.
type Stats struct {
	UsersCreated    int
	VersionsCreated int
	DeltasWritten   int
}
