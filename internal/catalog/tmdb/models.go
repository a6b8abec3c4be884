package tmdb

// DiscoverResponse is the paged response from TMDB discover, search, and
// trending endpoints. Movie and TV payloads share this shape; movie entries
// populate Title/ReleaseDate while TV entries populate Name/FirstAirDate.
type DiscoverResponse struct {
	Page         int             `json:"page"`
	Results      []ContentResult `json:"results"`
	TotalPages   int             `json:"total_pages"`
	TotalResults int             `json:"total_results"`
}

// ContentResult is a movie or TV series entry from TMDB list endpoints.
type ContentResult struct {
	ID               int      `json:"id"`
	Title            string   `json:"title,omitempty"`
	Name             string   `json:"name,omitempty"`
	OriginalTitle    string   `json:"original_title,omitempty"`
	OriginalName     string   `json:"original_name,omitempty"`
	Overview         string   `json:"overview"`
	ReleaseDate      string   `json:"release_date,omitempty"`
	FirstAirDate     string   `json:"first_air_date,omitempty"`
	PosterPath       string   `json:"poster_path"`
	BackdropPath     string   `json:"backdrop_path"`
	VoteAverage      float64  `json:"vote_average"`
	VoteCount        int      `json:"vote_count"`
	Popularity       float64  `json:"popularity"`
	Adult            bool     `json:"adult"`
	GenreIDs         []int    `json:"genre_ids"`
	MediaType        string   `json:"media_type,omitempty"`
	OriginCountry    []string `json:"origin_country,omitempty"`
	OriginalLanguage string   `json:"original_language"`
}

// MovieDetails is the detailed movie info from TMDB.
type MovieDetails struct {
	ID               int              `json:"id"`
	Title            string           `json:"title"`
	OriginalTitle    string           `json:"original_title"`
	Overview         string           `json:"overview"`
	ReleaseDate      string           `json:"release_date"`
	PosterPath       string           `json:"poster_path"`
	BackdropPath     string           `json:"backdrop_path"`
	VoteAverage      float64          `json:"vote_average"`
	VoteCount        int              `json:"vote_count"`
	Popularity       float64          `json:"popularity"`
	Runtime          int              `json:"runtime"`
	Status           string           `json:"status"`
	Tagline          string           `json:"tagline"`
	ImdbID           string           `json:"imdb_id"`
	OriginalLanguage string           `json:"original_language"`
	Genres           []Genre          `json:"genres"`
	Credits          *CreditsResponse `json:"credits,omitempty"`
}

// TVDetails is the detailed TV series info from TMDB.
type TVDetails struct {
	ID               int              `json:"id"`
	Name             string           `json:"name"`
	OriginalName     string           `json:"original_name"`
	Overview         string           `json:"overview"`
	FirstAirDate     string           `json:"first_air_date"`
	LastAirDate      string           `json:"last_air_date"`
	PosterPath       string           `json:"poster_path"`
	BackdropPath     string           `json:"backdrop_path"`
	VoteAverage      float64          `json:"vote_average"`
	VoteCount        int              `json:"vote_count"`
	Popularity       float64          `json:"popularity"`
	Status           string           `json:"status"`
	Tagline          string           `json:"tagline"`
	OriginalLanguage string           `json:"original_language"`
	Genres           []Genre          `json:"genres"`
	NumberOfSeasons  int              `json:"number_of_seasons"`
	NumberOfEpisodes int              `json:"number_of_episodes"`
	EpisodeRunTime   []int            `json:"episode_run_time"`
	Credits          *CreditsResponse `json:"credits,omitempty"`
	CreatedBy        []PersonRef      `json:"created_by,omitempty"`
}

// Genre represents a genre from TMDB.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// GenreListResponse is the response from TMDB /genre/{movie|tv}/list.
type GenreListResponse struct {
	Genres []Genre `json:"genres"`
}

// CreditsResponse is the response from TMDB credits endpoints.
type CreditsResponse struct {
	ID   int          `json:"id"`
	Cast []CastMember `json:"cast"`
	Crew []CrewMember `json:"crew"`
}

// CastMember represents a cast member from TMDB credits.
type CastMember struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Character   string  `json:"character"`
	Order       int     `json:"order"`
	ProfilePath string  `json:"profile_path"`
}

// CrewMember represents a crew member from TMDB credits.
type CrewMember struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Job         string  `json:"job"`
	Department  string  `json:"department"`
	ProfilePath string  `json:"profile_path"`
}

// PersonRef is a minimal person reference (series creators).
type PersonRef struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	ProfilePath string  `json:"profile_path"`
}

// PersonSearchResponse is the response from TMDB /search/person.
type PersonSearchResponse struct {
	Page    int            `json:"page"`
	Results []PersonResult `json:"results"`
}

// PersonResult is a person entry from TMDB person search.
type PersonResult struct {
	ID                 int             `json:"id"`
	Name               string          `json:"name"`
	Popularity         float64         `json:"popularity"`
	ProfilePath        string          `json:"profile_path"`
	KnownForDepartment string          `json:"known_for_department"`
	KnownFor           []ContentResult `json:"known_for,omitempty"`
}

// PersonDetails is the detailed person info from TMDB /person/{id}.
type PersonDetails struct {
	ID                 int     `json:"id"`
	Name               string  `json:"name"`
	Biography          string  `json:"biography"`
	Birthday           string  `json:"birthday"`
	Deathday           string  `json:"deathday"`
	PlaceOfBirth       string  `json:"place_of_birth"`
	Popularity         float64 `json:"popularity"`
	ProfilePath        string  `json:"profile_path"`
	KnownForDepartment string  `json:"known_for_department"`
}

// CombinedCreditsResponse is the response from TMDB /person/{id}/combined_credits.
type CombinedCreditsResponse struct {
	ID   int           `json:"id"`
	Cast []CreditEntry `json:"cast"`
	Crew []CreditEntry `json:"crew"`
}

// CreditEntry is a single movie/TV credit of a person.
type CreditEntry struct {
	ContentResult
	Character string `json:"character,omitempty"`
	Job       string `json:"job,omitempty"`
}

// KeywordSearchResponse is the response from TMDB /search/keyword.
type KeywordSearchResponse struct {
	Page    int       `json:"page"`
	Results []Keyword `json:"results"`
}

// Keyword is a catalog keyword with its numeric ID.
type Keyword struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// WatchProvidersResponse is the response from TMDB /{movie|tv}/{id}/watch/providers.
type WatchProvidersResponse struct {
	ID      int                        `json:"id"`
	Results map[string]RegionProviders `json:"results"`
}

// RegionProviders lists the providers carrying a title in one region.
type RegionProviders struct {
	Link     string     `json:"link"`
	Flatrate []Provider `json:"flatrate,omitempty"`
	Rent     []Provider `json:"rent,omitempty"`
	Buy      []Provider `json:"buy,omitempty"`
}

// Provider is a streaming platform entry.
type Provider struct {
	ProviderID      int    `json:"provider_id"`
	ProviderName    string `json:"provider_name"`
	LogoPath        string `json:"logo_path"`
	DisplayPriority int    `json:"display_priority"`
}

// ErrorResponse is an error from the TMDB API.
type ErrorResponse struct {
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
	Success       bool   `json:"success"`
}
