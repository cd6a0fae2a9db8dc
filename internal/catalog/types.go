package catalog

import "movierec/internal/model"

// Record is one item as the catalog API lists it. Movie and TV listings use
// different field names for title and release date; both sets are kept and
// resolved when converting to a Candidate.
type Record struct {
	ID               int     `json:"id"`
	MediaType        string  `json:"media_type"`
	Title            string  `json:"title"`
	Name             string  `json:"name"`
	Overview         string  `json:"overview"`
	GenreIDs         []int   `json:"genre_ids"`
	Popularity       float64 `json:"popularity"`
	VoteAverage      float64 `json:"vote_average"`
	VoteCount        int     `json:"vote_count"`
	ReleaseDate      string  `json:"release_date"`
	FirstAirDate     string  `json:"first_air_date"`
	OriginalLanguage string  `json:"original_language"`
	Adult            bool    `json:"adult"`
	PosterPath       string  `json:"poster_path"`
	BackdropPath     string  `json:"backdrop_path"`
}

// listResponse is the common paged envelope for search/discover/trending.
type listResponse struct {
	Page         int      `json:"page"`
	Results      []Record `json:"results"`
	TotalPages   int      `json:"total_pages"`
	TotalResults int      `json:"total_results"`
}

// creditPerson is one cast or crew entry on a detail response.
type creditPerson struct {
	Name string `json:"name"`
	Job  string `json:"job"`
}

// DetailResponse is an item-detail response with credits and keywords
// appended.
type DetailResponse struct {
	ID          int     `json:"id"`
	Runtime     int     `json:"runtime"`
	Tagline     string  `json:"tagline"`
	VoteAverage float64 `json:"vote_average"`
	VoteCount   int     `json:"vote_count"`
	EpisodeRunTime []int `json:"episode_run_time"`
	Genres      []model.Genre `json:"genres"`
	Credits     struct {
		Cast []creditPerson `json:"cast"`
		Crew []creditPerson `json:"crew"`
	} `json:"credits"`
	Keywords struct {
		Keywords []struct {
			Name string `json:"name"`
		} `json:"keywords"`
		Results []struct {
			Name string `json:"name"`
		} `json:"results"`
	} `json:"keywords"`
}

// ToCandidate converts an API record into a Candidate. When the record does
// not state its own media type it is inferred from which title field is
// populated: movie listings carry "title", TV listings carry "name".
func (r *Record) ToCandidate(fallback model.MediaType) model.Candidate {
	mediaType := model.MediaType(r.MediaType)
	if mediaType != model.MediaMovie && mediaType != model.MediaTV {
		switch {
		case r.Title != "":
			mediaType = model.MediaMovie
		case r.Name != "":
			mediaType = model.MediaTV
		default:
			mediaType = fallback
		}
	}

	title := r.Title
	if title == "" {
		title = r.Name
	}
	release := r.ReleaseDate
	if release == "" {
		release = r.FirstAirDate
	}

	genres := make([]model.GenreID, len(r.GenreIDs))
	copy(genres, r.GenreIDs)

	return model.Candidate{
		ID:               r.ID,
		MediaType:        mediaType,
		Title:            title,
		Overview:         r.Overview,
		GenreIDs:         genres,
		Popularity:       r.Popularity,
		VoteAverage:      r.VoteAverage,
		VoteCount:        r.VoteCount,
		ReleaseDate:      release,
		OriginalLanguage: r.OriginalLanguage,
		Adult:            r.Adult,
		PosterPath:       r.PosterPath,
		BackdropPath:     r.BackdropPath,
	}
}
