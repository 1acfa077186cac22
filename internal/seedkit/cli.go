package seedkit

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/voxevo/voxevo/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging configures logging to both console and file.
// If logFile is empty, a timestamped filename is generated.
func SetupLogging(logFile string) error {
	// Initialize the logger first
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if logFile == "" {
		timestamp := time.Now().Format("20060102_150405")
		logFile = "seed_log_" + timestamp + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	multiWriter := io.MultiWriter(os.Stdout, file)
	log.SetOutput(multiWriter)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return nil
}

// ShowHelp prints usage information for the seed tool.
func ShowHelp() {
	os.Stdout.WriteString(`Voxevo Seed Tool
================

Generates fixture data for the Voxevo playback service: user records with
voice version histories, stored embeddings, and an age delta file.

Usage:
  go run cmd/seedkit/main.go [options]

Options:
  -users int
        Number of users to generate (default 100)
  -versions int
        Maximum versions per user (default 5)
  -dim int
        Embedding dimensionality (default 256)
  -users-dir string
        Directory for user records (default "data/users")
  -embeddings-dir string
        Root directory for embedding files (default "data")
  -deltas string
        Path for the age delta file (default "data/embeddings/age_deltas.mp")
  -log string
        Log file for seed output (default: seed_log_TIMESTAMP.log)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Seed with default settings
  go run cmd/seedkit/main.go

  # Seed a larger fixture set
  go run cmd/seedkit/main.go -users 1000 -versions 8

  # Seed into a scratch directory
  go run cmd/seedkit/main.go -users-dir /tmp/vox/users -embeddings-dir /tmp/vox
`)
}
