package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/voxevo/voxevo/internal/seedkit"
)

// Default configuration constants.
const (
	defaultNumUsers    = 100
	defaultMaxVersions = 5
	defaultDim         = 256
	defaultSeedTimeout = 10 * time.Minute
)

func main() {
	var (
		numUsers      = flag.Int("users", defaultNumUsers, "Number of users to generate")
		maxVersions   = flag.Int("versions", defaultMaxVersions, "Maximum versions per user")
		dim           = flag.Int("dim", defaultDim, "Embedding dimensionality")
		usersDir      = flag.String("users-dir", "data/users", "Directory for user records")
		embeddingsDir = flag.String("embeddings-dir", "data", "Root directory for embedding files")
		deltasPath    = flag.String("deltas", "data/embeddings/age_deltas.mp", "Path for the age delta file")
		logFile       = flag.String("log", "", "Log file for seed output (default: seed_log_TIMESTAMP.log)")
		verbose       = flag.Bool("verbose", false, "Enable verbose logging")
		help          = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		seedkit.ShowHelp()
		return
	}

	// Setup logging
	if err := seedkit.SetupLogging(*logFile); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return
	}

	// Create context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), defaultSeedTimeout)
	defer cancel()

	// Create seed configuration
	config := &seedkit.Config{
		NumUsers:      *numUsers,
		MaxVersions:   *maxVersions,
		Dim:           *dim,
		UsersDir:      *usersDir,
		EmbeddingsDir: *embeddingsDir,
		DeltasPath:    *deltasPath,
		LogFile:       *logFile,
		Verbose:       *verbose,
	}

	// Run the seeder
	if err := seedkit.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Seed failed: " + err.Error() + "\n")
		return
	}
}
