package similarity

import (
	"sort"
	"strings"

	"movierec/internal/model"
)

// ExtractMovieText concatenates the salient text fields of an enriched
// candidate into one blob for similarity scoring. Absent fields are skipped;
// the result is empty only when every input is absent.
func ExtractMovieText(c *model.EnrichedCandidate) string {
	var parts []string

	if c.Overview != "" {
		parts = append(parts, c.Overview)
	}
	if c.Tagline != "" {
		parts = append(parts, c.Tagline)
	}
	for _, g := range c.Genres {
		if g.Name != "" {
			parts = append(parts, g.Name)
		}
	}
	if len(c.Genres) == 0 {
		for _, id := range c.GenreIDs {
			if name, ok := model.GenreNames[id]; ok {
				parts = append(parts, name)
			}
		}
	}
	for i, p := range c.Cast {
		if i >= 5 {
			break
		}
		if p.Name != "" {
			parts = append(parts, p.Name)
		}
	}
	for _, p := range c.Crew {
		if p.Job == "Director" && p.Name != "" {
			parts = append(parts, p.Name)
		}
	}
	for _, k := range c.Keywords {
		if k != "" {
			parts = append(parts, k)
		}
	}

	return strings.Join(parts, " ")
}

// ExtractProfileText concatenates the taste signals of a user profile into
// one blob: favorite content, top-rated genre names, favorite people, and
// discovery preferences. Empty only when the profile carries no signals.
func ExtractProfileText(p *model.UserProfile) string {
	var parts []string

	for _, fav := range p.FavoriteContent {
		if fav != "" {
			parts = append(parts, fav)
		}
	}

	for _, id := range TopRatedGenres(p, 3) {
		if name, ok := model.GenreNames[id]; ok {
			parts = append(parts, name)
		}
	}

	for _, a := range p.FavoritePeople.Actors {
		if a != "" {
			parts = append(parts, a)
		}
	}
	for _, d := range p.FavoritePeople.Directors {
		if d != "" {
			parts = append(parts, d)
		}
	}
	for _, dp := range p.DiscoveryPreferences {
		parts = append(parts, string(dp))
	}

	return strings.Join(parts, " ")
}

// TopRatedGenres returns up to n genre ids sorted by the user's rating
// descending. Rating ties break on ascending genre id so the order is stable.
func TopRatedGenres(p *model.UserProfile, n int) []model.GenreID {
	ids := make([]model.GenreID, 0, len(p.GenreRatings))
	for id := range p.GenreRatings {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		ri, rj := p.GenreRatings[ids[i]], p.GenreRatings[ids[j]]
		if ri != rj {
			return ri > rj
		}
		return ids[i] < ids[j]
	})
	if len(ids) > n {
		ids = ids[:n]
	}
	return ids
}
