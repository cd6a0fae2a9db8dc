// Package selector produces the final ranked list, limiting repeated genres
// and release decades until a fill threshold is reached.
package selector

import "movierec/internal/model"

const (
	// MaxLimit bounds the final list length.
	MaxLimit = 9
	// weakScoreFloor removes vetoed and very weak candidates before
	// selection.
	weakScoreFloor = -500.0
	// diversityFillRatio is the share of slots filled greedily before
	// genre/decade repeats are allowed.
	diversityFillRatio = 0.7
)

// Select picks up to limit candidates from the score-descending input.
// First pass: accept while under the diversity fill threshold, or when the
// candidate brings an unseen primary genre or release decade. Second pass:
// fill remaining slots in score order, deduplicated by (mediaType, id).
// Output length is always min(limit, number of inputs above the score floor).
func Select(scored []model.ScoredCandidate, limit int) []model.ScoredCandidate {
	if limit <= 0 || limit > MaxLimit {
		limit = MaxLimit
	}

	eligible := make([]model.ScoredCandidate, 0, len(scored))
	for _, c := range scored {
		if c.Score > weakScoreFloor {
			eligible = append(eligible, c)
		}
	}

	selected := make([]model.ScoredCandidate, 0, limit)
	picked := make(map[model.Key]struct{})
	seenGenres := make(map[model.GenreID]struct{})
	seenDecades := make(map[int]struct{})

	threshold := diversityFillRatio * float64(limit)
	for _, c := range eligible {
		if len(selected) >= limit {
			break
		}

		genre := c.PrimaryGenre()
		decade := c.ReleaseDecade()
		_, genreSeen := seenGenres[genre]
		_, decadeSeen := seenDecades[decade]

		if float64(len(selected)) < threshold || !genreSeen || !decadeSeen {
			selected = append(selected, c)
			picked[c.Key()] = struct{}{}
			seenGenres[genre] = struct{}{}
			seenDecades[decade] = struct{}{}
		}
	}

	// Fill pass: remaining slots go to the best unselected candidates,
	// repeats of genre and decade allowed.
	for _, c := range eligible {
		if len(selected) >= limit {
			break
		}
		if _, dup := picked[c.Key()]; dup {
			continue
		}
		selected = append(selected, c)
		picked[c.Key()] = struct{}{}
	}

	return selected
}
