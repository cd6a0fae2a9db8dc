package scoring

import (
	"context"
	"math"
	"strings"
	"testing"

	"movierec/internal/model"
	"movierec/internal/similarity"
)

func newTestEngine() *Engine {
	return NewEngine(similarity.NewKeywordScorer())
}

func TestFactorWeightsSumToOne(t *testing.T) {
	sum := WeightGenre + WeightSemantic + WeightPeople + WeightContext + WeightDiscovery + WeightQuality
	if math.Abs(sum-1.0) > 1e-9 {
		t.Errorf("factor weights must sum to 1.0, got %f", sum)
	}
}

func TestGenreFactorScenario(t *testing.T) {
	// Action rated 9, candidate is pure Action: genre factor must be 90.
	profile := &model.UserProfile{GenreRatings: map[model.GenreID]int{28: 9}}
	c := &model.EnrichedCandidate{
		Candidate: model.Candidate{
			ID:          1,
			MediaType:   model.MediaMovie,
			Title:       "Test Action Movie",
			GenreIDs:    []model.GenreID{28},
			VoteAverage: 7.5,
			VoteCount:   200,
		},
	}

	sc := newTestEngine().Score(context.Background(), c, profile)

	if got := sc.ScoreBreakdown[FactorGenre]; got != 90 {
		t.Errorf("expected genre factor 90, got %f", got)
	}

	wantQuality := ((200.0/225.0)*7.5 + (25.0/225.0)*6.0) * 10
	if got := sc.ScoreBreakdown[FactorQuality]; math.Abs(got-wantQuality) > 1e-9 {
		t.Errorf("expected quality factor %f, got %f", wantQuality, got)
	}

	if sc.Score <= 0 || sc.Score > 100 {
		t.Errorf("expected score in genre-dominated bounds, got %f", sc.Score)
	}
	if !strings.Contains(sc.Reason, "genres") {
		t.Errorf("expected a genre-based reason clause, got %q", sc.Reason)
	}
}

func TestGenreFactorNeutralWhenUnrated(t *testing.T) {
	profile := &model.UserProfile{}
	c := &model.EnrichedCandidate{
		Candidate: model.Candidate{GenreIDs: []model.GenreID{35}},
	}
	sc := newTestEngine().Score(context.Background(), c, profile)
	if got := sc.ScoreBreakdown[FactorGenre]; got != 50 {
		t.Errorf("expected neutral genre factor 50, got %f", got)
	}
}

func TestDealBreakerVeto(t *testing.T) {
	profile := &model.UserProfile{
		GenreRatings: map[model.GenreID]int{28: 10},
		DealBreakers: []model.DealBreaker{model.DealBreakerSexualContent},
	}
	c := &model.EnrichedCandidate{
		Candidate: model.Candidate{
			ID:          2,
			Adult:       true,
			GenreIDs:    []model.GenreID{28},
			VoteAverage: 9.9,
			VoteCount:   100000,
		},
	}

	sc := newTestEngine().Score(context.Background(), c, profile)
	if sc.Score != model.VetoScore {
		t.Errorf("expected veto sentinel %f, got %f", model.VetoScore, sc.Score)
	}
	// The veto short-circuits: no weighted factor may be computed.
	if _, ok := sc.ScoreBreakdown[FactorGenre]; ok {
		t.Error("expected no genre factor on vetoed candidate")
	}
	if _, ok := sc.ScoreBreakdown[FactorVeto]; !ok {
		t.Error("expected veto entry in breakdown")
	}
}

func TestVetoRules(t *testing.T) {
	tests := []struct {
		name    string
		breaker model.DealBreaker
		c       model.EnrichedCandidate
		vetoed  bool
	}{
		{
			name:    "violent genre with high rating",
			breaker: model.DealBreakerExcessiveViolence,
			c: model.EnrichedCandidate{
				Candidate: model.Candidate{GenreIDs: []model.GenreID{model.GenreWar}, VoteAverage: 8.1},
			},
			vetoed: true,
		},
		{
			name:    "violent genre with modest rating",
			breaker: model.DealBreakerExcessiveViolence,
			c: model.EnrichedCandidate{
				Candidate: model.Candidate{GenreIDs: []model.GenreID{model.GenreWar}, VoteAverage: 6.5},
			},
			vetoed: false,
		},
		{
			name:    "slow genre over runtime bound",
			breaker: model.DealBreakerSlowPace,
			c: model.EnrichedCandidate{
				Candidate: model.Candidate{GenreIDs: []model.GenreID{model.GenreDrama}},
				Runtime:   170,
			},
			vetoed: true,
		},
		{
			name:    "slow genre within runtime bound",
			breaker: model.DealBreakerSlowPace,
			c: model.EnrichedCandidate{
				Candidate: model.Candidate{GenreIDs: []model.GenreID{model.GenreDrama}},
				Runtime:   120,
			},
			vetoed: false,
		},
		{
			name:    "non-English with subtitles breaker",
			breaker: model.DealBreakerSubtitles,
			c: model.EnrichedCandidate{
				Candidate: model.Candidate{OriginalLanguage: "ko"},
			},
			vetoed: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile := &model.UserProfile{DealBreakers: []model.DealBreaker{tt.breaker}}
			sc := newTestEngine().Score(context.Background(), &tt.c, profile)
			if got := sc.Score == model.VetoScore; got != tt.vetoed {
				t.Errorf("vetoed=%v, expected %v (score %f)", got, tt.vetoed, sc.Score)
			}
		})
	}
}

func TestPeopleFactor(t *testing.T) {
	profile := &model.UserProfile{
		FavoritePeople: model.FavoritePeople{
			Actors:    []string{"Tom Hardy"},
			Directors: []string{"Jane Doe"},
		},
	}
	c := &model.EnrichedCandidate{
		Cast: []model.Person{{Name: "tom hardy"}},
		Crew: []model.Person{{Name: "Jane Doe", Job: "Director"}},
	}

	sc := newTestEngine().Score(context.Background(), c, profile)
	// 50 + 30 + 40 capped at 100.
	if got := sc.ScoreBreakdown[FactorPeople]; got != 100 {
		t.Errorf("expected people factor capped at 100, got %f", got)
	}
}

func TestDiscoveryFactor(t *testing.T) {
	profile := &model.UserProfile{
		DiscoveryPreferences: []model.DiscoveryPreference{model.DiscoveryHiddenGems},
	}
	c := &model.EnrichedCandidate{
		Candidate: model.Candidate{VoteCount: 300, VoteAverage: 7.8},
	}

	sc := newTestEngine().Score(context.Background(), c, profile)
	if got := sc.ScoreBreakdown[FactorDiscovery]; got != 75 {
		t.Errorf("expected discovery factor 75, got %f", got)
	}
}

func TestScoreDeterminism(t *testing.T) {
	profile := &model.UserProfile{
		GenreRatings:    map[model.GenreID]int{28: 8, 35: 5},
		FavoriteContent: []string{"Heat", "Collateral"},
	}
	c := &model.EnrichedCandidate{
		Candidate: model.Candidate{
			ID:          7,
			Title:       "Test",
			Overview:    "A determined detective chases a master thief across the city.",
			GenreIDs:    []model.GenreID{28},
			VoteAverage: 7.9,
			VoteCount:   1500,
			Popularity:  80,
		},
	}

	e := newTestEngine()
	first := e.Score(context.Background(), c, profile)
	for i := 0; i < 5; i++ {
		again := e.Score(context.Background(), c, profile)
		if again.Score != first.Score {
			t.Fatalf("score not deterministic: %f vs %f", again.Score, first.Score)
		}
	}
}

func TestDefaultReason(t *testing.T) {
	profile := &model.UserProfile{}
	c := &model.EnrichedCandidate{
		Candidate: model.Candidate{VoteAverage: 5.0, VoteCount: 10},
	}
	sc := newTestEngine().Score(context.Background(), c, profile)
	if !strings.Contains(sc.Reason, "Personalized for you") {
		t.Errorf("expected default reason, got %q", sc.Reason)
	}
}
