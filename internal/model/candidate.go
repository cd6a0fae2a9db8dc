package model

import "time"

// MediaType distinguishes films from series in the catalog.
type MediaType string

const (
	MediaMovie MediaType = "movie"
	MediaTV    MediaType = "tv"
	MediaBoth  MediaType = "both"
)

// Genre is a resolved catalog genre (id plus display name).
type Genre struct {
	ID   GenreID `json:"id"`
	Name string  `json:"name"`
}

// Person is a cast or crew member attached during enrichment.
type Person struct {
	Name string `json:"name"`
	Job  string `json:"job,omitempty"`
}

// Candidate is a minimally-described catalog item under consideration.
// Candidates are keyed by (mediaType, id) for deduplication.
type Candidate struct {
	ID               int       `json:"id"`
	MediaType        MediaType `json:"mediaType"`
	Title            string    `json:"title"`
	Overview         string    `json:"overview"`
	GenreIDs         []GenreID `json:"genreIds"`
	Popularity       float64   `json:"popularity"`
	VoteAverage      float64   `json:"voteAverage"`
	VoteCount        int       `json:"voteCount"`
	ReleaseDate      string    `json:"releaseDate"`
	OriginalLanguage string    `json:"originalLanguage"`
	Adult            bool      `json:"adult"`
	PosterPath       string    `json:"posterPath"`
	BackdropPath     string    `json:"backdropPath"`
}

// Key identifies a candidate across discovery strategies.
type Key struct {
	MediaType MediaType
	ID        int
}

// Key returns the dedup key for the candidate.
func (c *Candidate) Key() Key {
	return Key{MediaType: c.MediaType, ID: c.ID}
}

// ReleaseYear parses the year out of the release date, 0 if unknown.
func (c *Candidate) ReleaseYear() int {
	if len(c.ReleaseDate) < 4 {
		return 0
	}
	t, err := time.Parse("2006-01-02", c.ReleaseDate)
	if err != nil {
		// Some records carry a bare year.
		t, err = time.Parse("2006", c.ReleaseDate[:4])
		if err != nil {
			return 0
		}
	}
	return t.Year()
}

// ReleaseDecade returns the decade of release (e.g. 1990), 0 if unknown.
func (c *Candidate) ReleaseDecade() int {
	y := c.ReleaseYear()
	return y - y%10
}

// EnrichedCandidate is a Candidate plus the detail metadata fetched by the
// enrichment stage. A candidate whose enrichment fetch failed keeps zero
// values here and is still scored on its base fields.
type EnrichedCandidate struct {
	Candidate
	Genres   []Genre  `json:"genres,omitempty"`
	Runtime  int      `json:"runtime,omitempty"`
	Tagline  string   `json:"tagline,omitempty"`
	Cast     []Person `json:"cast,omitempty"`
	Crew     []Person `json:"crew,omitempty"`
	Keywords []string `json:"keywords,omitempty"`
}

// PrimaryGenre returns the candidate's first genre id, or 0 if it has none.
func (c *EnrichedCandidate) PrimaryGenre() GenreID {
	if len(c.Genres) > 0 {
		return c.Genres[0].ID
	}
	if len(c.GenreIDs) > 0 {
		return c.GenreIDs[0]
	}
	return 0
}

// VetoScore is the sentinel assigned to candidates that match an enabled
// deal-breaker. It dominates every weighted factor combination.
const VetoScore = -1000.0

// ScoredCandidate is an EnrichedCandidate with its final score, the
// per-factor breakdown, and a human-readable reason.
type ScoredCandidate struct {
	EnrichedCandidate
	Score          float64            `json:"score"`
	ScoreBreakdown map[string]float64 `json:"scoreBreakdown"`
	Reason         string             `json:"reason"`
}

// RecommendationResult is the terminal output of one pipeline run.
type RecommendationResult struct {
	Items            []ScoredCandidate `json:"items"`
	ProcessingTimeMs int64             `json:"processingTimeMs"`
}
