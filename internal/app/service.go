// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/voxevo/voxevo/internal/adapters/embedding"
	samplequeue "github.com/voxevo/voxevo/internal/adapters/mq/queue"
	workerpool "github.com/voxevo/voxevo/internal/adapters/mq/worker"
	"github.com/voxevo/voxevo/internal/adapters/registry"
	"github.com/voxevo/voxevo/internal/domain/confidence"
	"github.com/voxevo/voxevo/internal/domain/dedupe"
	"github.com/voxevo/voxevo/internal/domain/model"
	"github.com/voxevo/voxevo/internal/domain/playback"
	"github.com/voxevo/voxevo/internal/domain/selection"
	"github.com/voxevo/voxevo/internal/domain/types"
	"github.com/voxevo/voxevo/pkg/logger"
	"github.com/voxevo/voxevo/pkg/metrics"
)

// Default service configuration constants.
const (
	defaultQueueSize       = 10000
	defaultDedupeSize      = 100000
	defaultAcceptThreshold = 0.55
	defaultMaxAgeGapYears  = 5
	defaultUsersDir        = "data/users"
	defaultEmbeddingsDir   = "data"
	defaultAgeDeltasPath   = "data/embeddings/age_deltas.mp"

	shutdownGrace = 5 * time.Second
)

// Service implements the API dependencies for the playback system.
type Service struct {
	mu sync.RWMutex

	// Core components
	registry    registry.Store
	embeddings  *embedding.Store
	deduper     dedupe.Deduper
	sampleQueue samplequeue.Queue
	scorer      *confidence.Engine
	decider     *playback.Decider
	workerPool  *workerpool.Pool

	// Configuration
	workerCount       int
	queueSize         int
	dedupeSize        int
	acceptThreshold   float64
	maxAgeGapYears    int
	usersDir          string
	embeddingsDir     string
	ageDeltasPath     string
	confidenceWeights map[string]float64

	// State
	started bool
	stopCh  chan struct{}

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of worker goroutines.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the sample queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the size of the deduplication cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithAcceptThreshold sets the minimum confidence for accepting a sample.
func WithAcceptThreshold(threshold float64) Option {
	return func(s *Service) {
		if threshold >= 0 && threshold <= 1 {
			s.acceptThreshold = threshold
		}
	}
}

// WithMaxAgeGap sets the recorded-match window in whole years.
func WithMaxAgeGap(years int) Option {
	return func(s *Service) {
		if years >= 0 {
			s.maxAgeGapYears = years
		}
	}
}

// WithPaths sets the storage locations for user records, embeddings and
// the age delta file.
func WithPaths(usersDir, embeddingsDir, ageDeltasPath string) Option {
	return func(s *Service) {
		if usersDir != "" {
			s.usersDir = usersDir
		}
		if embeddingsDir != "" {
			s.embeddingsDir = embeddingsDir
		}
		if ageDeltasPath != "" {
			s.ageDeltasPath = ageDeltasPath
		}
	}
}

// WithConfidenceWeights sets the component weights for confidence scoring.
func WithConfidenceWeights(weights map[string]float64) Option {
	return func(s *Service) {
		s.confidenceWeights = weights
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:     runtime.NumCPU() * 2, // Default to 2x CPU cores
		queueSize:       defaultQueueSize,
		dedupeSize:      defaultDedupeSize,
		acceptThreshold: defaultAcceptThreshold,
		maxAgeGapYears:  defaultMaxAgeGapYears,
		usersDir:        defaultUsersDir,
		embeddingsDir:   defaultEmbeddingsDir,
		ageDeltasPath:   defaultAgeDeltasPath,
		stopCh:          make(chan struct{}),
		logger:          nil, // Will be replaced when service starts
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	// Initialize logger if not already set
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting playback service...")

	// Initialize components
	store, err := registry.NewJSONStore(s.usersDir)
	if err != nil {
		return fmt.Errorf("open user registry: %w", err)
	}
	s.registry = store
	s.embeddings = embedding.NewStore(s.embeddingsDir, s.ageDeltasPath)
	s.deduper = dedupe.NewInMemoryDeduper(
		dedupe.WithMaxSize(s.dedupeSize),
	)
	s.sampleQueue = samplequeue.NewInMemoryQueue(
		samplequeue.WithCapacity(s.queueSize),
		samplequeue.WithBufferSize(s.queueSize),
	)
	s.scorer = confidence.New(
		confidence.WithWeightsFromConfig(s.confidenceWeights),
	)
	s.decider = playback.New(s.registry, s.embeddings,
		playback.WithSelector(selection.New(
			selection.WithMaxAgeGap(s.maxAgeGapYears),
		)),
	)

	// Create and start the ingestion worker pool
	s.workerPool = workerpool.NewPool(s.workerCount, s.sampleQueue, s.scorer, s.registry, s.embeddings,
		workerpool.WithAcceptThreshold(s.acceptThreshold),
	)
	s.workerPool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "playback service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
		logger.Float64("acceptThreshold", s.acceptThreshold),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping playback service...")

	// Stop worker pool
	if s.workerPool != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		s.workerPool.Stop(ctx)
		cancel()
	}

	// Close queue
	if q, ok := s.sampleQueue.(*samplequeue.InMemoryQueue); ok {
		_ = q.Close()
	}

	// Signal cleanup loop to stop
	select {
	case <-s.stopCh:
		// Channel already closed
	default:
		close(s.stopCh)
	}

	s.started = false
	s.logger.Info(context.Background(), "playback service stopped")
}

// SeenAndRecord atomically checks if a sample id was seen and records it if not.
// Returns true if the sample was already seen, false if it was newly recorded.
// This is the ONLY method for deduplication - thread-safe and atomic.
func (s *Service) SeenAndRecord(ctx context.Context, id string) bool {
	return s.deduper.SeenAndRecord(ctx, id)
}

// Unrecord removes a sample ID from the seen list, allowing it to be retried.
func (s *Service) Unrecord(ctx context.Context, id string) {
	s.deduper.Unrecord(ctx, id)
}

// Enqueue submits a sample for asynchronous ingestion.
func (s *Service) Enqueue(ctx context.Context, sample model.Sample) bool {
	s.logger.Debug(ctx, "enqueueing sample",
		logger.String("sampleID", sample.SampleID),
		logger.String("userID", sample.UserID),
	)

	ok := s.sampleQueue.Enqueue(ctx, sample)
	if ok {
		metrics.UpdateQueueSize(s.sampleQueue.Len(ctx))
	}
	return ok
}

// DecidePlayback resolves the playback mode for a user at a target age.
func (s *Service) DecidePlayback(ctx context.Context, userID string, targetAge int) (types.Decision, error) {
	return s.decider.Decide(ctx, userID, targetAge), nil
}

// ScoreConfidence previews the acceptance confidence for sample metrics.
func (s *Service) ScoreConfidence(in confidence.Inputs) float64 {
	return s.scorer.Score(in)
}

// Versions lists a user's accepted voice versions.
func (s *Service) Versions(ctx context.Context, userID string) ([]model.VoiceVersion, error) {
	versions, err := s.registry.Versions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list versions for %s: %w", userID, err)
	}
	return versions, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"dedupeSize":  s.dedupeSize,
	}

	if s.started {
		queueLen := s.sampleQueue.Len(ctx)
		users, versions := s.registry.Counts(ctx)

		stats["queueLength"] = queueLen
		stats["totalUsers"] = users
		stats["totalVersions"] = versions

		// Update metrics
		metrics.UpdateQueueSize(queueLen)
		metrics.UpdateTotalUsers(users)
		metrics.UpdateTotalVersions(versions)
		metrics.UpdateWorkerCount(s.workerCount)
	}

	return stats
}

// Size returns the current number of entries in the deduper.
func (s *Service) Size() int64 {
	if s.deduper == nil {
		return 0
	}
	return s.deduper.Size()
}
