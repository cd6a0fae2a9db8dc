// Package scoring computes the weighted multi-factor score for each enriched
// candidate, including the hard deal-breaker veto.
package scoring

import (
	"context"
	"strings"

	"movierec/internal/model"
	"movierec/internal/similarity"
)

// Factor weights. They sum to 1.0; the veto term is additive and sits
// outside the weighted sum.
const (
	WeightGenre     = 0.35
	WeightSemantic  = 0.20
	WeightPeople    = 0.20
	WeightContext   = 0.10
	WeightDiscovery = 0.10
	WeightQuality   = 0.05
)

// Factor names used in the score breakdown.
const (
	FactorGenre     = "genreMatch"
	FactorSemantic  = "semanticSimilarity"
	FactorPeople    = "favoritePersonSimilarity"
	FactorContext   = "contextMatch"
	FactorDiscovery = "discoveryPreferenceMatch"
	FactorQuality   = "quality"
	FactorVeto      = "dealBreakerVeto"
)

// minSemanticTextLen is the minimum blob length for semantic scoring; below
// it the factor takes its neutral value.
const minSemanticTextLen = 10

// violentGenres and slowGenres back the excessive-violence and slow-pace
// deal-breaker rules.
var violentGenres = map[model.GenreID]struct{}{
	model.GenreAction: {},
	model.GenreHorror: {},
	model.GenreWar:    {},
	model.GenreCrime:  {},
}

var slowGenres = map[model.GenreID]struct{}{
	model.GenreDrama:       {},
	model.GenreHistory:     {},
	model.GenreDocumentary: {},
}

// Engine scores candidates against a user profile.
type Engine struct {
	scorer similarity.Scorer
}

// NewEngine creates a scoring engine using the given similarity backend.
func NewEngine(scorer similarity.Scorer) *Engine {
	return &Engine{scorer: scorer}
}

// Score computes the candidate's final score, factor breakdown, and reason.
// A matched deal-breaker short-circuits to the veto sentinel; no other
// factor is computed.
func (e *Engine) Score(ctx context.Context, c *model.EnrichedCandidate, profile *model.UserProfile) model.ScoredCandidate {
	breakdown := make(map[string]float64)

	if vetoed, rule := matchDealBreaker(c, profile); vetoed {
		breakdown[FactorVeto] = model.VetoScore
		return model.ScoredCandidate{
			EnrichedCandidate: *c,
			Score:             model.VetoScore,
			ScoreBreakdown:    breakdown,
			Reason:            "Excluded by your " + rule + " preference",
		}
	}

	breakdown[FactorGenre] = genreFactor(c, profile)
	breakdown[FactorSemantic] = e.semanticFactor(ctx, c, profile)
	breakdown[FactorPeople] = peopleFactor(c, profile)
	breakdown[FactorContext] = contextFactor(c, profile)
	breakdown[FactorDiscovery] = discoveryFactor(c, profile)
	breakdown[FactorQuality] = qualityFactor(c)

	score := WeightGenre*breakdown[FactorGenre] +
		WeightSemantic*breakdown[FactorSemantic] +
		WeightPeople*breakdown[FactorPeople] +
		WeightContext*breakdown[FactorContext] +
		WeightDiscovery*breakdown[FactorDiscovery] +
		WeightQuality*breakdown[FactorQuality]

	return model.ScoredCandidate{
		EnrichedCandidate: *c,
		Score:             score,
		ScoreBreakdown:    breakdown,
		Reason:            buildReason(breakdown),
	}
}

// matchDealBreaker reports whether any enabled deal-breaker condition
// matches, and which one.
func matchDealBreaker(c *model.EnrichedCandidate, profile *model.UserProfile) (bool, string) {
	for _, db := range profile.DealBreakers {
		switch db {
		case model.DealBreakerExcessiveViolence:
			if hasAnyGenre(c, violentGenres) && c.VoteAverage > 7 {
				return true, string(db)
			}
		case model.DealBreakerSexualContent:
			if c.Adult {
				return true, string(db)
			}
		case model.DealBreakerStrongLanguage:
			// The catalog has no language-intensity flag; the adult flag
			// is the closest proxy.
			if c.Adult {
				return true, string(db)
			}
		case model.DealBreakerSlowPace:
			if hasAnyGenre(c, slowGenres) && c.Runtime > 150 {
				return true, string(db)
			}
		case model.DealBreakerSubtitles:
			if c.OriginalLanguage != "" && c.OriginalLanguage != "en" {
				return true, string(db)
			}
		}
	}
	return false, ""
}

func hasAnyGenre(c *model.EnrichedCandidate, set map[model.GenreID]struct{}) bool {
	for _, g := range c.Genres {
		if _, ok := set[g.ID]; ok {
			return true
		}
	}
	for _, id := range c.GenreIDs {
		if _, ok := set[id]; ok {
			return true
		}
	}
	return false
}

// genreFactor is the mean of the user's 1-10 ratings (scaled x10) over the
// candidate's genres that the user has rated; neutral 50 when none are.
func genreFactor(c *model.EnrichedCandidate, profile *model.UserProfile) float64 {
	ids := c.GenreIDs
	if len(c.Genres) > 0 {
		ids = make([]model.GenreID, 0, len(c.Genres))
		for _, g := range c.Genres {
			ids = append(ids, g.ID)
		}
	}

	var sum float64
	rated := 0
	for _, id := range ids {
		if rating, ok := profile.GenreRatings[id]; ok {
			sum += float64(rating) * 10
			rated++
		}
	}
	if rated == 0 {
		return 50
	}
	return sum / float64(rated)
}

func (e *Engine) semanticFactor(ctx context.Context, c *model.EnrichedCandidate, profile *model.UserProfile) float64 {
	userText := similarity.ExtractProfileText(profile)
	movieText := similarity.ExtractMovieText(c)
	if len(userText) < minSemanticTextLen || len(movieText) < minSemanticTextLen {
		return 50
	}
	return e.scorer.Similarity(ctx, userText, movieText) * 100
}

// peopleFactor starts neutral and rewards favorite actors in the top-billed
// cast and favorite directors in the crew.
func peopleFactor(c *model.EnrichedCandidate, profile *model.UserProfile) float64 {
	score := 50.0

	if anyNameMatch(c.Cast, profile.FavoritePeople.Actors, "") {
		score += 30
	}
	if anyNameMatch(c.Crew, profile.FavoritePeople.Directors, "Director") {
		score += 40
	}
	return capAt100(score)
}

func anyNameMatch(people []model.Person, favorites []string, job string) bool {
	for _, p := range people {
		if job != "" && p.Job != job {
			continue
		}
		for _, fav := range favorites {
			if fav != "" && strings.EqualFold(p.Name, fav) {
				return true
			}
		}
	}
	return false
}

// contextFactor rewards runtime-bucket and language-preference fit.
func contextFactor(c *model.EnrichedCandidate, profile *model.UserProfile) float64 {
	score := 50.0

	if c.Runtime > 0 && runtimeBucket(c.Runtime) == profile.RuntimePreference {
		score += 20
	}
	if languageMatch(c, profile) {
		score += 15
	}
	return capAt100(score)
}

func runtimeBucket(runtime int) model.RuntimePreference {
	switch {
	case runtime <= 95:
		return model.RuntimeShort
	case runtime <= 135:
		return model.RuntimeMedium
	default:
		return model.RuntimeLong
	}
}

func languageMatch(c *model.EnrichedCandidate, profile *model.UserProfile) bool {
	switch profile.InternationalPreference {
	case model.InternationalEnglishPreferred:
		return c.OriginalLanguage == "en"
	case model.InternationalVeryOpen:
		return c.OriginalLanguage != ""
	default:
		return false
	}
}

// discoveryFactor rewards candidates that fit how the user likes to find
// content.
func discoveryFactor(c *model.EnrichedCandidate, profile *model.UserProfile) float64 {
	score := 50.0

	if profile.HasDiscoveryPreference(model.DiscoveryTrending) && c.Popularity > 50 {
		score += 20
	}
	if profile.HasDiscoveryPreference(model.DiscoveryHiddenGems) && c.VoteCount < 500 && c.VoteAverage > 7 {
		score += 25
	}
	if profile.HasDiscoveryPreference(model.DiscoveryAwardWinning) && c.VoteAverage > 8 && c.VoteCount > 1000 {
		score += 30
	}
	return capAt100(score)
}

// qualityFactor is an IMDB-style Bayesian weighted rating scaled to 0-100.
// The prior pulls low-vote items toward a 6.0 baseline.
func qualityFactor(c *model.EnrichedCandidate) float64 {
	const (
		minVotes = 25.0
		prior    = 6.0
	)
	votes := float64(c.VoteCount)
	weighted := (votes/(votes+minVotes))*c.VoteAverage + (minVotes/(votes+minVotes))*prior
	return capAt100(weighted * 10)
}

func capAt100(v float64) float64 {
	if v > 100 {
		return 100
	}
	return v
}

// Reason thresholds: a factor contributes a clause only when it clears its
// threshold.
func buildReason(breakdown map[string]float64) string {
	var clauses []string

	if breakdown[FactorGenre] > 70 {
		clauses = append(clauses, "Matches your favorite genres")
	}
	if breakdown[FactorSemantic] > 70 {
		clauses = append(clauses, "Strongly aligned with your taste")
	} else if breakdown[FactorSemantic] > 60 {
		clauses = append(clauses, "Similar to what you usually enjoy")
	}
	if breakdown[FactorPeople] > 70 {
		clauses = append(clauses, "Features people you love")
	}
	if breakdown[FactorQuality] > 80 {
		clauses = append(clauses, "Widely acclaimed")
	}
	if breakdown[FactorDiscovery] > 70 {
		clauses = append(clauses, "Fits how you like to discover content")
	}

	if len(clauses) == 0 {
		return "Personalized for you based on your taste profile"
	}
	return strings.Join(clauses, "; ")
}
