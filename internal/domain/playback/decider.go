// Package playback decides how a user's voice is played back at a target
// age: a real recorded version, an aged synthesis from a shifted embedding,
// or nothing at all.
//
// The decision runs as an ordered pipeline of fallible steps; the first step
// that produces a decision short-circuits the rest. Every failure past the
// recorded-match step degrades to a RECORDED result anchored on the latest
// real version: never synthesize without complete, dimensionally-consistent
// inputs, and always prefer a real voice over a broken synthesis.
package playback

import (
	"context"
	"time"

	"github.com/voxevo/voxevo/internal/domain/agerel"
	"github.com/voxevo/voxevo/internal/domain/model"
	"github.com/voxevo/voxevo/internal/domain/selection"
	"github.com/voxevo/voxevo/internal/domain/types"
	"github.com/voxevo/voxevo/pkg/metrics"
)

// alphaCapYears caps the interpolation strength: beyond this age distance
// the full delta is applied rather than extrapolating further.
const alphaCapYears = 40.0

// Registry is the read side of the user registry collaborator.
type Registry interface {
	User(ctx context.Context, userID string) (model.User, error)
	Versions(ctx context.Context, userID string) ([]model.VoiceVersion, error)
	LatestVersion(ctx context.Context, userID string) (*model.VoiceVersion, error)
}

// EmbeddingSource loads stored embedding vectors and the age-delta set.
// Path accessors expose the expected on-disk locations for observability on
// degraded decisions.
type EmbeddingSource interface {
	Load(ctx context.Context, relPath string) ([]float32, error)
	Path(relPath string) string
	LoadDeltas(ctx context.Context) (model.AgeDeltaSet, error)
	DeltasPath() string
}

// Selector is the version-selection collaborator.
type Selector interface {
	SelectBest(versions []model.VoiceVersion, targetAge int) selection.Result
}

// Classifier is the age-classification collaborator.
type Classifier func(baseAge, targetAge int) agerel.Relation

// Decider turns a user's version history plus a target age into a playback
// instruction. It holds no mutable state and is safe for concurrent use.
type Decider struct {
	registry Registry
	source   EmbeddingSource
	selector Selector
	classify Classifier
}

// New constructs a Decider over the given collaborators.
func New(reg Registry, source EmbeddingSource, opts ...Option) *Decider {
	d := &Decider{
		registry: reg,
		source:   source,
		selector: selection.New(),
		classify: agerel.Classify,
	}

	// Apply all options
	for _, opt := range opts {
		opt(d)
	}

	return d
}

// step inspects the resolution state and either returns a terminal decision
// or nil to continue with the next step.
type step func(ctx context.Context, st *resolution) *types.Decision

// Decide runs the decision pipeline for one user and target age.
// It never fails: every path terminates in a well-formed decision value.
func (d *Decider) Decide(ctx context.Context, userID string, targetAge int) types.Decision {
	start := time.Now()
	defer func() {
		metrics.RecordDecisionLatency(float64(time.Since(start).Milliseconds()))
	}()

	st := &resolution{userID: userID, targetAge: targetAge}
	steps := []step{
		d.loadHistory,
		d.tryRecordedMatch,
		d.resolveBase,
		d.resolveBaseAge,
		d.classifyRelation,
		d.loadBaseEmbedding,
		d.loadDeltas,
		d.selectDelta,
		d.checkDimensions,
	}

	for _, s := range steps {
		if dec := s(ctx, st); dec != nil {
			metrics.RecordDecision(string(dec.Mode))
			return *dec
		}
	}

	dec := d.synthesize(st)
	metrics.RecordDecision(string(dec.Mode))
	return dec
}
