// Package worker defines worker contracts for asynchronous sample ingestion.
//
// Workers dequeue voice samples, score acceptance confidence, and either
// append an accepted version to the user's history or reject the sample.
package worker

import (
	"context"
	"fmt"
	"path"
	"runtime"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/voxevo/voxevo/internal/adapters/mq/queue"
	"github.com/voxevo/voxevo/internal/domain/confidence"
	"github.com/voxevo/voxevo/internal/domain/model"
	"github.com/voxevo/voxevo/internal/domain/vecmath"
	"github.com/voxevo/voxevo/pkg/logger"
	"github.com/voxevo/voxevo/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultWorkerMultiplier = 2 // multiplier for runtime.NumCPU()
	defaultAcceptThreshold  = 0.55
	embeddingDirPrefix      = "versions/embeddings"
)

// Sample abstracts what workers read off the queue.
// Using the model.Sample type for consistency.
type Sample = model.Sample

// Scorer computes the acceptance confidence for a sample's metrics.
type Scorer interface {
	Score(in confidence.Inputs) float64
}

// Registry is the write side used by ingestion.
type Registry interface {
	Versions(ctx context.Context, userID string) ([]model.VoiceVersion, error)
	CreateUser(ctx context.Context, u model.User) error
	AppendVersion(ctx context.Context, userID string, v model.VoiceVersion) error
}

// EmbeddingSaver persists extracted embeddings.
type EmbeddingSaver interface {
	Save(ctx context.Context, relPath string, vec []float32) error
}

// SampleQueue defines how workers receive samples.
type SampleQueue interface {
	Dequeue(ctx context.Context) <-chan Sample
}

// Worker processes samples using the provided interfaces.
type Worker interface {
	// Run starts the worker loop until ctx is canceled.
	Run(ctx context.Context)

	// Shutdown gracefully stops the worker.
	// It will process any remaining samples before stopping.
	Shutdown(ctx context.Context) error
}

// IngestionWorker implements Worker for processing voice samples.
type IngestionWorker struct {
	queue    SampleQueue
	scorer   Scorer
	registry Registry
	saver    EmbeddingSaver
	name     string

	// Acceptance policy
	acceptThreshold float64

	// Shutdown control
	shutdown chan struct{}
	done     chan struct{}

	// Logging
	logger logger.Logger
}

// NewIngestionWorker creates a new worker with configuration options.
func NewIngestionWorker(q SampleQueue, scorer Scorer, reg Registry, saver EmbeddingSaver, opts ...Option) *IngestionWorker {
	w := &IngestionWorker{
		queue:           q,
		scorer:          scorer,
		registry:        reg,
		saver:           saver,
		name:            "worker", // default name
		acceptThreshold: defaultAcceptThreshold,
		shutdown:        make(chan struct{}),
		done:            make(chan struct{}),
		logger:          logger.Get().Named("worker"), // will be updated by options
	}

	// Apply all options
	for _, opt := range opts {
		opt(w)
	}

	// Set up logger with worker name if not already set
	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}

	return w
}

// Run starts the worker loop.
func (w *IngestionWorker) Run(ctx context.Context) {
	defer func() {
		close(w.done)
	}()

	sampleChan := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case sample, ok := <-sampleChan:
			if !ok {
				// Channel closed, worker should stop
				return
			}

			if err := w.processSample(ctx, sample); err != nil {
				w.logger.Error(ctx, "error processing sample", logger.Error(err))
			}
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *IngestionWorker) Shutdown(ctx context.Context) error {
	// Signal shutdown
	close(w.shutdown)

	// Wait for worker to finish or context to timeout
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// processSample scores one sample and appends it to the owner's history
// when it clears the acceptance threshold.
func (w *IngestionWorker) processSample(ctx context.Context, sample queue.Sample) error {
	start := time.Now()
	defer func() {
		latency := time.Since(start).Milliseconds()
		metrics.RecordWorkerProcessingLatency(float64(latency))
	}()

	// History count feeds the consistency sub-score. An unknown user gets a
	// minimal record on first sample.
	versions, err := w.registry.Versions(ctx, sample.UserID)
	if err != nil {
		if createErr := w.registry.CreateUser(ctx, model.User{
			UserID:     sample.UserID,
			CreatedUTC: time.Now().UTC().Format(time.RFC3339Nano),
		}); createErr != nil {
			metrics.RecordWorkerError()
			metrics.RecordErrorByComponent("worker", "registry_error")
			return fmt.Errorf("load user %s: %w", sample.UserID, err)
		}
		versions = nil
	}

	score := w.scorer.Score(confidence.Inputs{
		DurationS:         sample.DurationS,
		SNRDB:             sample.SNRDB,
		SpeakerSimilarity: sample.SpeakerSimilarity,
		DeviceMatch:       sample.DeviceMatch,
		HistoryCount:      len(versions),
	})
	metrics.RecordConfidenceScore(score)

	if score < w.acceptThreshold {
		metrics.RecordSampleRejected()
		w.logger.Info(ctx, "sample rejected below confidence threshold",
			logger.String("sampleID", sample.SampleID),
			logger.String("userID", sample.UserID),
			logger.Float64("confidence", score),
		)
		return nil
	}

	versionID := uuid.New().String()
	embPath := path.Join(embeddingDirPrefix, sample.UserID+"_"+versionID+".emb")

	// Persisted embeddings are always unit-normalized.
	if err := w.saver.Save(ctx, embPath, vecmath.Normalize(sample.Embedding)); err != nil {
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "embedding_store_error")
		return fmt.Errorf("persist embedding for sample %s: %w", sample.SampleID, err)
	}

	recordedUTC := sample.RecordedUTC
	if recordedUTC == "" {
		recordedUTC = time.Now().UTC().Format(time.RFC3339Nano)
	}
	v := model.VoiceVersion{
		VersionID:         versionID,
		RecordedUTC:       recordedUTC,
		AgeAtRecording:    sample.AgeAtRecording,
		EmbeddingPath:     embPath,
		Confidence:        score,
		DurationS:         sample.DurationS,
		SNRDB:             sample.SNRDB,
		SpeakerSimilarity: sample.SpeakerSimilarity,
		DeviceMatch:       sample.DeviceMatch,
	}
	if err := w.registry.AppendVersion(ctx, sample.UserID, v); err != nil {
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "registry_error")
		return fmt.Errorf("append version for sample %s: %w", sample.SampleID, err)
	}

	metrics.RecordSampleAccepted()
	w.logger.Debug(ctx, "sample accepted",
		logger.String("sampleID", sample.SampleID),
		logger.String("userID", sample.UserID),
		logger.String("versionID", versionID),
		logger.Float64("confidence", score),
	)
	return nil
}

// Pool manages multiple workers.
type Pool struct {
	workers []*IngestionWorker

	// Logging
	logger logger.Logger
}

// NewPool creates a new worker pool.
func NewPool(workerCount int, q SampleQueue, scorer Scorer, reg Registry, saver EmbeddingSaver, opts ...Option) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU() * defaultWorkerMultiplier
	}

	pool := &Pool{
		workers: make([]*IngestionWorker, workerCount),
		logger:  logger.Get().Named("worker-pool"),
	}

	for i := 0; i < workerCount; i++ {
		workerOpts := append([]Option{WithName("worker-" + strconv.Itoa(i))}, opts...)
		pool.workers[i] = NewIngestionWorker(q, scorer, reg, saver, workerOpts...)
	}

	// Initialize worker metrics
	metrics.UpdateWorkerActiveCount(workerCount)
	metrics.UpdateWorkerIdleCount(0)

	return pool
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
	p.logger.Info(ctx, "worker pool started", logger.Int("workers", len(p.workers)))
}

// Stop gracefully shuts down all workers.
func (p *Pool) Stop(ctx context.Context) {
	for _, w := range p.workers {
		if err := w.Shutdown(ctx); err != nil {
			p.logger.Warn(ctx, "worker shutdown failed", logger.Error(err))
		}
	}
	metrics.UpdateWorkerActiveCount(0)
	p.logger.Info(ctx, "worker pool stopped")
}
