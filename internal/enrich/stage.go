// Package enrich attaches full detail metadata (genres, cast, crew,
// keywords, runtime) to discovered candidates in bounded batches.
package enrich

import (
	"context"
	"sync"

	"movierec/internal/catalog"
	"movierec/internal/logger"
	"movierec/internal/model"
)

const (
	// batchSize bounds concurrent detail fetches per batch.
	batchSize = 10
	// maxEnriched bounds the enrichment workload regardless of discovery
	// yield.
	maxEnriched = 30
	// minVoteAverage drops clearly weak candidates before the detail
	// fetches are paid for.
	minVoteAverage = 4.0
	// personLimit caps cast and crew lists on an enriched candidate.
	personLimit = 10
)

// Stage enriches candidates via the catalog detail endpoint.
type Stage struct {
	catalog *catalog.Client
}

// NewStage creates an enrichment stage.
func NewStage(c *catalog.Client) *Stage {
	return &Stage{catalog: c}
}

// Prefilter drops candidates that would waste enrichment calls: adult items
// when the profile vetoes sexual content, non-English items for
// English-preferred profiles, and low-rated items. The survivors are
// truncated to the enrichment ceiling in discovery order.
func Prefilter(candidates []model.Candidate, profile *model.UserProfile) []model.Candidate {
	dropAdult := profile.HasDealBreaker(model.DealBreakerSexualContent)
	englishOnly := profile.InternationalPreference == model.InternationalEnglishPreferred

	kept := make([]model.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if dropAdult && c.Adult {
			continue
		}
		if englishOnly && c.OriginalLanguage != "" && c.OriginalLanguage != "en" {
			continue
		}
		if c.VoteAverage < minVoteAverage {
			continue
		}
		kept = append(kept, c)
	}
	if len(kept) > maxEnriched {
		kept = kept[:maxEnriched]
	}
	return kept
}

// Enrich fetches details for every candidate in sequential batches with
// concurrent fetches inside each batch. A failed detail fetch degrades to
// the un-enriched candidate, so the output always has exactly one entry per
// input.
func (s *Stage) Enrich(ctx context.Context, candidates []model.Candidate) []model.EnrichedCandidate {
	enriched := make([]model.EnrichedCandidate, len(candidates))

	for start := 0; start < len(candidates); start += batchSize {
		end := start + batchSize
		if end > len(candidates) {
			end = len(candidates)
		}

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(idx int) {
				defer wg.Done()
				enriched[idx] = s.enrichOne(ctx, candidates[idx])
			}(i)
		}
		wg.Wait()
	}

	return enriched
}

func (s *Stage) enrichOne(ctx context.Context, c model.Candidate) model.EnrichedCandidate {
	detail, err := s.catalog.Details(ctx, c.MediaType, c.ID)
	if err != nil {
		logger.Debug("enrichment failed for %s %d, keeping base candidate: %v", c.MediaType, c.ID, err)
		return model.EnrichedCandidate{Candidate: c}
	}

	cast := make([]model.Person, 0, personLimit)
	for _, p := range detail.Credits.Cast {
		if len(cast) >= personLimit {
			break
		}
		cast = append(cast, model.Person{Name: p.Name})
	}
	crew := make([]model.Person, 0, personLimit)
	for _, p := range detail.Credits.Crew {
		if len(crew) >= personLimit {
			break
		}
		crew = append(crew, model.Person{Name: p.Name, Job: p.Job})
	}

	return model.EnrichedCandidate{
		Candidate: c,
		Genres:    detail.Genres,
		Runtime:   detail.RuntimeMinutes(),
		Tagline:   detail.Tagline,
		Cast:      cast,
		Crew:      crew,
		Keywords:  detail.KeywordNames(),
	}
}
