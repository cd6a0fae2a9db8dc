package similarity

import (
	"strings"
	"testing"

	"movierec/internal/model"
)

func TestExtractMovieTextEmptyOnlyWhenAllAbsent(t *testing.T) {
	empty := &model.EnrichedCandidate{}
	if got := ExtractMovieText(empty); got != "" {
		t.Errorf("expected empty text for empty candidate, got %q", got)
	}

	c := &model.EnrichedCandidate{
		Candidate: model.Candidate{Overview: "A heist goes wrong."},
	}
	if got := ExtractMovieText(c); got == "" {
		t.Error("expected non-empty text when overview is present")
	}
}

func TestExtractMovieTextFields(t *testing.T) {
	c := &model.EnrichedCandidate{
		Candidate: model.Candidate{
			Overview: "A crew pulls one last job.",
			GenreIDs: []model.GenreID{model.GenreAction},
		},
		Tagline: "One last job.",
		Cast: []model.Person{
			{Name: "Actor One"}, {Name: "Actor Two"}, {Name: "Actor Three"},
			{Name: "Actor Four"}, {Name: "Actor Five"}, {Name: "Actor Six"},
		},
		Crew:     []model.Person{{Name: "Jane Doe", Job: "Director"}, {Name: "Grip", Job: "Grip"}},
		Keywords: []string{"heist"},
	}

	text := ExtractMovieText(c)
	for _, want := range []string{"last job", "Action", "Actor Five", "Jane Doe", "heist"} {
		if !strings.Contains(text, want) {
			t.Errorf("expected text to contain %q, got %q", want, text)
		}
	}
	// Cast is capped at the top five.
	if strings.Contains(text, "Actor Six") {
		t.Error("expected only top-5 cast in text")
	}
	if strings.Contains(text, "Grip") {
		t.Error("expected only directors from crew in text")
	}
}

func TestExtractProfileTextEmptyOnlyWhenAllAbsent(t *testing.T) {
	empty := &model.UserProfile{}
	if got := ExtractProfileText(empty); got != "" {
		t.Errorf("expected empty text for empty profile, got %q", got)
	}

	p := &model.UserProfile{FavoriteContent: []string{"Inception"}}
	text := ExtractProfileText(p)
	if !strings.Contains(text, "Inception") {
		t.Errorf("expected favorite content in text, got %q", text)
	}
}

func TestTopRatedGenres(t *testing.T) {
	p := &model.UserProfile{GenreRatings: map[model.GenreID]int{
		28:  9,
		878: 8,
		35:  8,
		18:  2,
	}}

	got := TopRatedGenres(p, 3)
	if len(got) != 3 {
		t.Fatalf("expected 3 genres, got %d", len(got))
	}
	if got[0] != 28 {
		t.Errorf("expected highest-rated genre first, got %d", got[0])
	}
	// Tie at rating 8 breaks on ascending genre id.
	if got[1] != 35 || got[2] != 878 {
		t.Errorf("expected tie broken by genre id, got %v", got)
	}
}
