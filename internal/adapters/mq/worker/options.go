// Package worker defines worker contracts for asynchronous sample ingestion.
package worker

import (
	"github.com/voxevo/voxevo/pkg/logger"
)

// Option applies a configuration option to the IngestionWorker.
type Option func(*IngestionWorker)

// WithName sets the worker name for identification and logging.
func WithName(name string) Option {
	return func(w *IngestionWorker) {
		if name != "" {
			w.name = name
		}
	}
}

// WithLogger sets a custom logger for the worker.
func WithLogger(l logger.Logger) Option {
	return func(w *IngestionWorker) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithAcceptThreshold sets the minimum confidence for accepting a sample.
func WithAcceptThreshold(threshold float64) Option {
	return func(w *IngestionWorker) {
		if threshold >= 0 && threshold <= 1 {
			w.acceptThreshold = threshold
		}
	}
}
