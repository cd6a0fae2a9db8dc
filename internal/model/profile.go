package model

// GenreID is a TMDB-style numeric genre identifier.
type GenreID = int

// Well-known catalog genre ids, used by deal-breaker rules and text extraction.
const (
	GenreAction      GenreID = 28
	GenreCrime       GenreID = 80
	GenreDocumentary GenreID = 99
	GenreDrama       GenreID = 18
	GenreHistory     GenreID = 36
	GenreHorror      GenreID = 27
	GenreWar         GenreID = 10752
)

// GenreNames maps catalog genre ids to display names.
var GenreNames = map[GenreID]string{
	28:    "Action",
	12:    "Adventure",
	16:    "Animation",
	35:    "Comedy",
	80:    "Crime",
	99:    "Documentary",
	18:    "Drama",
	10751: "Family",
	14:    "Fantasy",
	36:    "History",
	27:    "Horror",
	10402: "Music",
	9648:  "Mystery",
	10749: "Romance",
	878:   "Science Fiction",
	10770: "TV Movie",
	53:    "Thriller",
	10752: "War",
	37:    "Western",
}

// DealBreaker is a user-declared hard exclusion with veto power over scoring.
type DealBreaker string

const (
	DealBreakerExcessiveViolence DealBreaker = "excessiveViolence"
	DealBreakerSexualContent     DealBreaker = "sexualContent"
	DealBreakerStrongLanguage    DealBreaker = "strongLanguage"
	DealBreakerSlowPace          DealBreaker = "slowPace"
	DealBreakerSubtitles         DealBreaker = "subtitles"
)

// RuntimePreference buckets how long the user likes their content.
type RuntimePreference string

const (
	RuntimeShort  RuntimePreference = "short"
	RuntimeMedium RuntimePreference = "medium"
	RuntimeLong   RuntimePreference = "long"
)

// InternationalPreference describes openness to non-English content.
type InternationalPreference string

const (
	InternationalEnglishPreferred InternationalPreference = "englishPreferred"
	InternationalVeryOpen         InternationalPreference = "veryOpen"
	InternationalSomewhatOpen     InternationalPreference = "somewhatOpen"
)

// DiscoveryPreference describes how the user likes to find new content.
type DiscoveryPreference string

const (
	DiscoveryTrending     DiscoveryPreference = "trending"
	DiscoveryHiddenGems   DiscoveryPreference = "hiddenGems"
	DiscoveryAwardWinning DiscoveryPreference = "awardWinning"
)

// FavoritePeople groups the user's favorite actors and directors.
type FavoritePeople struct {
	Actors    []string `json:"actors" yaml:"actors"`
	Directors []string `json:"directors" yaml:"directors"`
}

// UserProfile is the taste profile a recommendation request is ranked against.
// Immutable for the duration of one request; sourced from the profile store
// or supplied inline with the request.
type UserProfile struct {
	GenreRatings            map[GenreID]int         `json:"genreRatings" yaml:"genre_ratings"`
	DealBreakers            []DealBreaker           `json:"dealBreakers" yaml:"deal_breakers"`
	FavoriteContent         []string                `json:"favoriteContent" yaml:"favorite_content"`
	FavoritePeople          FavoritePeople          `json:"favoritePeople" yaml:"favorite_people"`
	RuntimePreference       RuntimePreference       `json:"runtimePreference" yaml:"runtime_preference"`
	InternationalPreference InternationalPreference `json:"internationalContentPreference" yaml:"international_preference"`
	DiscoveryPreferences    []DiscoveryPreference   `json:"contentDiscoveryPreference" yaml:"discovery_preferences"`
}

// HasDealBreaker reports whether the profile declares the given deal-breaker.
func (p *UserProfile) HasDealBreaker(db DealBreaker) bool {
	for _, d := range p.DealBreakers {
		if d == db {
			return true
		}
	}
	return false
}

// HasDiscoveryPreference reports whether the profile opted into the given
// discovery mode.
func (p *UserProfile) HasDiscoveryPreference(dp DiscoveryPreference) bool {
	for _, d := range p.DiscoveryPreferences {
		if d == dp {
			return true
		}
	}
	return false
}

// User identifies an account known to the profile store. The token is used by
// the auth middleware and never serialized into responses.
type User struct {
	ID      string      `json:"id" yaml:"id"`
	Name    string      `json:"name" yaml:"name"`
	Token   string      `json:"-" yaml:"token"`
	Profile UserProfile `json:"profile" yaml:"profile"`
}
