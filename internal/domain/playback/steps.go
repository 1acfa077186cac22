package playback

import (
	"context"
	"math"

	"github.com/voxevo/voxevo/internal/domain/agerel"
	"github.com/voxevo/voxevo/internal/domain/model"
	"github.com/voxevo/voxevo/internal/domain/selection"
	"github.com/voxevo/voxevo/internal/domain/types"
	"github.com/voxevo/voxevo/internal/domain/vecmath"
	"github.com/voxevo/voxevo/pkg/metrics"
)

// resolution accumulates state across pipeline steps.
type resolution struct {
	userID    string
	targetAge int

	user     model.User
	versions []model.VoiceVersion
	base     *model.VoiceVersion
	baseAge  int
	relation agerel.Relation
	baseEmb  []float32
	deltas   model.AgeDeltaSet
	delta    []float32
}

// loadHistory fetches the version history. An unknown user and an empty
// history are the same terminal state: nothing to play.
func (d *Decider) loadHistory(ctx context.Context, st *resolution) *types.Decision {
	u, err := d.registry.User(ctx, st.userID)
	if err != nil || len(u.VoiceVersions) == 0 {
		return &types.Decision{Mode: types.ModeNone, Reason: types.ReasonNoVoiceVersions}
	}
	st.user = u
	st.versions = u.VoiceVersions
	return nil
}

// tryRecordedMatch asks the selection collaborator for a close-enough real
// recording. A real voice always beats synthesis when one qualifies.
func (d *Decider) tryRecordedMatch(ctx context.Context, st *resolution) *types.Decision {
	sel := d.selector.SelectBest(st.versions, st.targetAge)
	if sel.Mode != selection.ModeRecorded {
		return nil
	}
	gap := sel.AgeGap
	return &types.Decision{
		Mode:    types.ModeRecorded,
		Reason:  types.ReasonRealVoiceClose,
		Version: sel.Version,
		AgeGap:  &gap,
	}
}

// resolveBase anchors aging on the most recently recorded version.
func (d *Decider) resolveBase(ctx context.Context, st *resolution) *types.Decision {
	base := st.versions[len(st.versions)-1]
	if base.EmbeddingPath == "" {
		return &types.Decision{Mode: types.ModeNone, Reason: types.ReasonNoEmbeddingAvailable}
	}
	st.base = &base
	return nil
}

// resolveBaseAge prefers the stored recording age and falls back to deriving
// it from the date of birth. Aging is never attempted without a trustworthy
// base age.
func (d *Decider) resolveBaseAge(ctx context.Context, st *resolution) *types.Decision {
	if st.base.AgeAtRecording != nil {
		st.baseAge = *st.base.AgeAtRecording
		return nil
	}
	if age, ok := agerel.ResolveRecordedAge(st.user.DateOfBirth, st.base.RecordedUTC); ok {
		st.baseAge = age
		return nil
	}
	metrics.RecordFallback(types.ReasonMissingBaseAge)
	return &types.Decision{
		Mode:    types.ModeRecorded,
		Reason:  types.ReasonMissingBaseAge,
		Version: st.base,
	}
}

// classifyRelation settles the aging direction; equal ages need no synthesis.
func (d *Decider) classifyRelation(ctx context.Context, st *resolution) *types.Decision {
	st.relation = d.classify(st.baseAge, st.targetAge)
	if st.relation != agerel.RelationSame {
		return nil
	}
	return &types.Decision{
		Mode:    types.ModeRecorded,
		Reason:  types.ReasonSameAgeRequested,
		Version: st.base,
	}
}

// loadBaseEmbedding reads and unit-normalizes the aging anchor's embedding.
func (d *Decider) loadBaseEmbedding(ctx context.Context, st *resolution) *types.Decision {
	vec, err := d.source.Load(ctx, st.base.EmbeddingPath)
	if err != nil {
		metrics.RecordFallback(types.ReasonMissingBaseEmbedding)
		return &types.Decision{
			Mode:         types.ModeRecorded,
			Reason:       types.ReasonMissingBaseEmbedding,
			Version:      st.base,
			ExpectedPath: d.source.Path(st.base.EmbeddingPath),
		}
	}
	st.baseEmb = vecmath.Normalize(vec)
	return nil
}

// loadDeltas reads the age-delta set.
func (d *Decider) loadDeltas(ctx context.Context, st *resolution) *types.Decision {
	set, err := d.source.LoadDeltas(ctx)
	if err != nil || len(set) == 0 {
		metrics.RecordFallback(types.ReasonMissingAgeDeltas)
		return &types.Decision{
			Mode:         types.ModeRecorded,
			Reason:       types.ReasonMissingAgeDeltas,
			Version:      st.base,
			ExpectedPath: d.source.DeltasPath(),
		}
	}
	st.deltas = set
	return nil
}

// selectDelta picks the shift vector for the aging direction.
func (d *Decider) selectDelta(ctx context.Context, st *resolution) *types.Decision {
	key := model.DeltaAdultToChildren
	if st.relation == agerel.RelationFuture {
		key = model.DeltaChildrenToAdult
	}
	delta, ok := st.deltas[key]
	if !ok {
		reason := types.ReasonMissingDeltaPrefix + key
		metrics.RecordFallback(reason)
		return &types.Decision{
			Mode:    types.ModeRecorded,
			Reason:  reason,
			Version: st.base,
		}
	}
	st.delta = delta
	return nil
}

// checkDimensions refuses to mix vectors of different dimensions.
func (d *Decider) checkDimensions(ctx context.Context, st *resolution) *types.Decision {
	if len(st.delta) == len(st.baseEmb) {
		return nil
	}
	metrics.RecordFallback(types.ReasonDeltaDimMismatch)
	return &types.Decision{
		Mode:         types.ModeRecorded,
		Reason:       types.ReasonDeltaDimMismatch,
		Version:      st.base,
		DeltaDim:     len(st.delta),
		EmbeddingDim: len(st.baseEmb),
	}
}

// synthesize applies the alpha-scaled delta and renormalizes. Alpha grows
// linearly with age distance and caps at alphaCapYears.
func (d *Decider) synthesize(st *resolution) types.Decision {
	years := st.baseAge - st.targetAge
	if years < 0 {
		years = -years
	}
	alpha := math.Min(float64(years)/alphaCapYears, 1.0)

	aged := vecmath.ApplyDelta(st.baseEmb, st.delta, alpha)

	return types.Decision{
		Mode:        types.ModeAged,
		Reason:      types.ReasonAgeDeltaApplied,
		Embedding:   aged,
		BaseVersion: st.base,
		TargetAge:   st.targetAge,
		Alpha:       math.Round(alpha*100) / 100,
		Relation:    string(st.relation),
	}
}
