// Package recommend orchestrates the recommendation pipeline: discovery,
// pre-filter, enrichment, scoring, and the final diversity selection.
package recommend

import (
	"context"
	"sort"
	"time"

	"movierec/internal/discovery"
	"movierec/internal/enrich"
	"movierec/internal/logger"
	"movierec/internal/model"
	"movierec/internal/scoring"
	"movierec/internal/selector"
)

// Request is one recommendation run. The profile is immutable for the
// duration of the run.
type Request struct {
	MediaType  model.MediaType
	Profile    *model.UserProfile
	ExcludeIDs map[int]struct{}
	Limit      int
}

// Pipeline wires the stages together. Stage failures degrade to partial or
// empty results; the only error surfaced from a run is catalog
// unavailability, which callers receive through the gateway's sentinel on
// every stage having nothing to contribute.
type Pipeline struct {
	discovery *discovery.Engine
	enricher  *enrich.Stage
	scorer    *scoring.Engine
}

// NewPipeline creates a pipeline from its stages.
func NewPipeline(d *discovery.Engine, e *enrich.Stage, s *scoring.Engine) *Pipeline {
	return &Pipeline{discovery: d, enricher: e, scorer: s}
}

// Recommend runs the full pipeline. An empty candidate yield returns an
// empty result, never an error; the only error is total catalog
// unavailability.
func (p *Pipeline) Recommend(ctx context.Context, req Request) (*model.RecommendationResult, error) {
	start := time.Now()

	candidates, err := p.discover(ctx, req)
	if err != nil {
		return nil, err
	}
	logger.Debug("discovery yielded %d candidates", len(candidates))

	filtered := enrich.Prefilter(candidates, req.Profile)
	logger.Debug("pre-filter kept %d candidates", len(filtered))

	enriched := p.enricher.Enrich(ctx, filtered)

	scored := make([]model.ScoredCandidate, 0, len(enriched))
	for i := range enriched {
		scored = append(scored, p.scorer.Score(ctx, &enriched[i], req.Profile))
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	items := selector.Select(scored, req.Limit)

	result := &model.RecommendationResult{
		Items:            items,
		ProcessingTimeMs: time.Since(start).Milliseconds(),
	}
	logger.Info("pipeline produced %d items in %dms", len(items), result.ProcessingTimeMs)
	return result, nil
}

// discover runs discovery once per requested media type. For "both", movie
// and TV discovery run back to back and the merged set keeps movie-first
// order; the per-type engine already deduplicates within its own run. The
// run errors only when every type came back unavailable and nothing at all
// was discovered.
func (p *Pipeline) discover(ctx context.Context, req Request) ([]model.Candidate, error) {
	types := []model.MediaType{req.MediaType}
	if req.MediaType == model.MediaBoth || req.MediaType == "" {
		types = []model.MediaType{model.MediaMovie, model.MediaTV}
	}

	var all []model.Candidate
	var lastErr error
	for _, mt := range types {
		found, err := p.discovery.Discover(ctx, mt, req.Profile, req.ExcludeIDs)
		if err != nil {
			lastErr = err
			continue
		}
		all = append(all, found...)
	}
	if len(all) == 0 && lastErr != nil {
		return nil, lastErr
	}
	return all, nil
}
