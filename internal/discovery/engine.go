// Package discovery runs the candidate discovery strategies concurrently and
// merges their results into one deduplicated candidate set.
package discovery

import (
	"context"
	"errors"
	"sync"

	"movierec/internal/catalog"
	"movierec/internal/gateway"
	"movierec/internal/logger"
	"movierec/internal/model"
	"movierec/internal/similarity"
)

const (
	// maxCandidates caps the merged discovery output.
	maxCandidates = 80
	// favoriteSeedLimit bounds how many free-text favorites seed the
	// similar-to-favorite strategy.
	favoriteSeedLimit = 2
	// neighborLimit bounds the similar/recommendations listings per seed.
	neighborLimit = 10
	// topGenreCount is how many of the user's best-rated genres get their
	// own discovery page.
	topGenreCount = 3
)

// Engine discovers candidates for one media type using the catalog client.
type Engine struct {
	catalog *catalog.Client
}

// NewEngine creates a discovery engine.
func NewEngine(c *catalog.Client) *Engine {
	return &Engine{catalog: c}
}

// strategy is one independent discovery source. Failures degrade to an empty
// contribution; they never abort the discovery run.
type strategy struct {
	name string
	run  func(ctx context.Context) ([]model.Candidate, error)
}

// Discover runs every applicable strategy concurrently and merges the
// results: first-seen-wins per (mediaType, id) in fixed strategy order,
// excluded ids dropped, capped at maxCandidates. Individual strategy
// failures degrade to empty contributions; the run itself errors only when
// every strategy failed because the catalog is unavailable.
func (e *Engine) Discover(ctx context.Context, mediaType model.MediaType, profile *model.UserProfile, excludeIDs map[int]struct{}) ([]model.Candidate, error) {
	strategies := e.buildStrategies(mediaType, profile)

	// Settle-all fan-out: every strategy runs to completion and the join
	// collects whatever succeeded. Results are kept per-slot so the merge
	// order stays deterministic regardless of completion order.
	results := make([][]model.Candidate, len(strategies))
	errs := make([]error, len(strategies))
	var wg sync.WaitGroup
	for i, s := range strategies {
		wg.Add(1)
		go func(slot int, s strategy) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					logger.Error("discovery strategy %s panic: %v", s.name, r)
				}
			}()

			items, err := s.run(ctx)
			if err != nil {
				logger.Error("discovery strategy %s failed: %v", s.name, err)
				errs[slot] = err
				return
			}
			logger.Debug("discovery strategy %s returned %d items", s.name, len(items))
			results[slot] = items
		}(i, s)
	}
	wg.Wait()

	seen := make(map[model.Key]struct{})
	var merged []model.Candidate
	for _, items := range results {
		for _, c := range items {
			if len(merged) >= maxCandidates {
				return merged, nil
			}
			if _, excluded := excludeIDs[c.ID]; excluded {
				continue
			}
			key := c.Key()
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			merged = append(merged, c)
		}
	}

	if len(merged) == 0 {
		for _, err := range errs {
			if errors.Is(err, gateway.ErrUnavailable) {
				return nil, err
			}
		}
	}
	return merged, nil
}

func (e *Engine) buildStrategies(mediaType model.MediaType, profile *model.UserProfile) []strategy {
	var strategies []strategy

	strategies = append(strategies, strategy{
		name: "popular",
		run: func(ctx context.Context) ([]model.Candidate, error) {
			var all []model.Candidate
			for page := 1; page <= 2; page++ {
				records, err := e.catalog.Popular(ctx, mediaType, page)
				if err != nil {
					if page == 1 {
						return nil, err
					}
					break
				}
				all = append(all, toCandidates(records, mediaType)...)
			}
			return all, nil
		},
	})

	if profile.HasDiscoveryPreference(model.DiscoveryTrending) {
		strategies = append(strategies, strategy{
			name: "trending",
			run: func(ctx context.Context) ([]model.Candidate, error) {
				records, err := e.catalog.Trending(ctx, mediaType)
				if err != nil {
					return nil, err
				}
				return toCandidates(records, mediaType), nil
			},
		})
	}

	if profile.HasDiscoveryPreference(model.DiscoveryHiddenGems) {
		strategies = append(strategies, strategy{
			name: "hidden_gems",
			run: func(ctx context.Context) ([]model.Candidate, error) {
				records, err := e.catalog.DiscoverHiddenGems(ctx, mediaType)
				if err != nil {
					return nil, err
				}
				return toCandidates(records, mediaType), nil
			},
		})
	}

	if profile.HasDiscoveryPreference(model.DiscoveryAwardWinning) {
		strategies = append(strategies, strategy{
			name: "award_winning",
			run: func(ctx context.Context) ([]model.Candidate, error) {
				records, err := e.catalog.DiscoverAwardWinning(ctx, mediaType)
				if err != nil {
					return nil, err
				}
				return toCandidates(records, mediaType), nil
			},
		})
	}

	for _, genreID := range similarity.TopRatedGenres(profile, topGenreCount) {
		id := genreID
		strategies = append(strategies, strategy{
			name: "genre",
			run: func(ctx context.Context) ([]model.Candidate, error) {
				records, err := e.catalog.DiscoverByGenre(ctx, mediaType, id)
				if err != nil {
					return nil, err
				}
				return toCandidates(records, mediaType), nil
			},
		})
	}

	seeds := profile.FavoriteContent
	if len(seeds) > favoriteSeedLimit {
		seeds = seeds[:favoriteSeedLimit]
	}
	for _, title := range seeds {
		title := title
		if title == "" {
			continue
		}
		strategies = append(strategies, strategy{
			name: "similar_to_favorite",
			run: func(ctx context.Context) ([]model.Candidate, error) {
				return e.similarToFavorite(ctx, mediaType, title)
			},
		})
	}

	// Safety net: one plain popular page, always contributed.
	strategies = append(strategies, strategy{
		name: "fallback_popular",
		run: func(ctx context.Context) ([]model.Candidate, error) {
			records, err := e.catalog.Popular(ctx, mediaType, 1)
			if err != nil {
				return nil, err
			}
			return toCandidates(records, mediaType), nil
		},
	})

	return strategies
}

// similarToFavorite searches the catalog for a favorite title, takes the top
// hit, and contributes its similar and recommendation listings.
func (e *Engine) similarToFavorite(ctx context.Context, mediaType model.MediaType, title string) ([]model.Candidate, error) {
	hits, err := e.catalog.Search(ctx, mediaType, title)
	if err != nil {
		return nil, err
	}
	if len(hits) == 0 {
		return nil, nil
	}
	seed := hits[0]

	var all []model.Candidate
	if similar, err := e.catalog.Similar(ctx, mediaType, seed.ID); err != nil {
		logger.Debug("similar listing for %q failed: %v", title, err)
	} else {
		all = append(all, toCandidates(capRecords(similar, neighborLimit), mediaType)...)
	}
	if recs, err := e.catalog.Recommendations(ctx, mediaType, seed.ID); err != nil {
		logger.Debug("recommendations listing for %q failed: %v", title, err)
	} else {
		all = append(all, toCandidates(capRecords(recs, neighborLimit), mediaType)...)
	}
	return all, nil
}

func toCandidates(records []catalog.Record, fallback model.MediaType) []model.Candidate {
	out := make([]model.Candidate, 0, len(records))
	for i := range records {
		out = append(out, records[i].ToCandidate(fallback))
	}
	return out
}

func capRecords(records []catalog.Record, n int) []catalog.Record {
	if len(records) > n {
		return records[:n]
	}
	return records
}
