package discovery

import (
	"github.com/streamsage/streamsage/internal/llm"
)

// ContentType selects which side of the catalog a request targets.
type ContentType string

const (
	ContentTypeMovie ContentType = "movie"
	ContentTypeTV    ContentType = "tv"
	ContentTypeBoth  ContentType = "both"
)

// SortOrder is the requested result ordering.
type SortOrder string

const (
	SortPopularity  SortOrder = "popularity_desc"
	SortRating      SortOrder = "rating_desc"
	SortReleaseDate SortOrder = "release_date_desc"
)

// Mood is a detected emotional state.
type Mood string

const (
	MoodSad       Mood = "sad"
	MoodHappy     Mood = "happy"
	MoodBored     Mood = "bored"
	MoodExcited   Mood = "excited"
	MoodTired     Mood = "tired"
	MoodRelaxed   Mood = "relaxed"
	MoodStressed  Mood = "stressed"
	MoodRomantic  Mood = "romantic"
	MoodNostalgic Mood = "nostalgic"
	MoodAngry     Mood = "angry"
)

// PersonRole narrows person searches to a crew position.
type PersonRole string

const (
	RoleAny      PersonRole = "any"
	RoleActor    PersonRole = "actor"
	RoleDirector PersonRole = "director"
)

// QueryIntent is the fully resolved interpretation of one user request.
// Genre and provider entries are catalog IDs; free-text keywords are
// resolved to keyword IDs by the planner just before use.
type QueryIntent struct {
	ContentType ContentType `json:"contentType"`

	Genres    []int `json:"genres"`
	Providers []int `json:"providers"`

	MinRating float64 `json:"minRating"`
	MaxRating float64 `json:"maxRating"`
	YearStart int     `json:"yearStart"`
	YearEnd   int     `json:"yearEnd"`

	SortOrder SortOrder `json:"sortOrder"`

	Keywords         []string `json:"keywords"`
	LocationKeywords []string `json:"locationKeywords"`

	ProductionCountries []string `json:"productionCountries"`
	SpokenLanguages     []string `json:"spokenLanguages"`

	PersonName   string     `json:"personName"`
	PersonRole   PersonRole `json:"personRole"`
	DirectorName string     `json:"directorName"`
	ActorNames   []string   `json:"actorNames"`

	SpecificTitle string `json:"specificTitle"`

	MinSeasons int `json:"minSeasons"`
	MaxSeasons int `json:"maxSeasons"`
	MinRuntime int `json:"minRuntime"`
	MaxRuntime int `json:"maxRuntime"`

	Certification string `json:"certification"`

	DetectedMood   Mood `json:"detectedMood"`
	MoodConfidence int  `json:"moodConfidence"`

	IsVagueQuery       bool `json:"isVagueQuery"`
	IsPersonInfoQuery  bool `json:"isPersonInfoQuery"`
	IsContentInfoQuery bool `json:"isContentInfoQuery"`
	IsOffTopic         bool `json:"isOffTopic"`
	UseTrendingAPI     bool `json:"useTrendingAPI"`
	TopicChanged       bool `json:"topicChanged"`

	// Language is the ISO 639-1 code of the query, driving reply locale.
	Language string `json:"language"`

	// CountryCode is the viewer's region for provider availability.
	CountryCode string `json:"countryCode"`

	// genreNames keeps the canonical genre names so the planner can
	// re-resolve IDs per content type when both types are searched.
	genreNames []string
}

// Clone returns a deep copy, so relaxation strategies can mutate freely.
func (q *QueryIntent) Clone() *QueryIntent {
	c := *q
	c.Genres = append([]int(nil), q.Genres...)
	c.Providers = append([]int(nil), q.Providers...)
	c.Keywords = append([]string(nil), q.Keywords...)
	c.LocationKeywords = append([]string(nil), q.LocationKeywords...)
	c.ProductionCountries = append([]string(nil), q.ProductionCountries...)
	c.SpokenLanguages = append([]string(nil), q.SpokenLanguages...)
	c.ActorNames = append([]string(nil), q.ActorNames...)
	c.genreNames = append([]string(nil), q.genreNames...)
	return &c
}

// SearchResult is one normalized content item returned to the caller.
type SearchResult struct {
	ID           int         `json:"id"`
	Title        string      `json:"title"`
	ContentType  ContentType `json:"contentType"`
	Overview     string      `json:"overview"`
	PosterPath   string      `json:"posterPath"`
	BackdropPath string      `json:"backdropPath"`
	VoteAverage  float64     `json:"voteAverage"`
	ReleaseDate  string      `json:"releaseDate,omitempty"`
	FirstAirDate string      `json:"firstAirDate,omitempty"`
	Popularity   float64     `json:"popularity"`
}

// Year returns the release year portion of the relevant date field.
func (r *SearchResult) Year() string {
	date := r.ReleaseDate
	if r.ContentType == ContentTypeTV {
		date = r.FirstAirDate
	}
	if len(date) >= 4 {
		return date[:4]
	}
	return ""
}

// PersonInfo enriches the reply for biographical queries. Never used to
// filter results.
type PersonInfo struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Biography    string `json:"biography,omitempty"`
	Birthday     string `json:"birthday,omitempty"`
	Deathday     string `json:"deathday,omitempty"`
	PlaceOfBirth string `json:"placeOfBirth,omitempty"`
	Department   string `json:"department,omitempty"`
	ProfilePath  string `json:"profilePath,omitempty"`
}

// ContentInfo enriches the reply for title-fact queries.
type ContentInfo struct {
	ID          int         `json:"id"`
	Title       string      `json:"title"`
	ContentType ContentType `json:"contentType"`
	Overview    string      `json:"overview,omitempty"`
	Rating      float64     `json:"rating"`
	ReleaseDate string      `json:"releaseDate,omitempty"`
	Runtime     int         `json:"runtime,omitempty"`
	Seasons     int         `json:"seasons,omitempty"`
	Director    string      `json:"director,omitempty"`
	Cast        []string    `json:"cast,omitempty"`
	Genres      []string    `json:"genres,omitempty"`
}

// Request is the inbound discovery payload.
type Request struct {
	Query               string     `json:"query"`
	ConversationHistory []llm.Turn `json:"conversationHistory,omitempty"`
	CountryCode         string     `json:"countryCode,omitempty"`
}

// Response is the outbound discovery payload.
type Response struct {
	Success        bool           `json:"success"`
	Results        []SearchResult `json:"results"`
	ResponseText   string         `json:"responseText"`
	IsOffTopic     bool           `json:"isOffTopic"`
	TopicChanged   bool           `json:"topicChanged"`
	Params         *QueryIntent   `json:"params,omitempty"`
	PersonInfo     *PersonInfo    `json:"personInfo"`
	ContentInfo    *ContentInfo   `json:"contentInfo"`
	DetectedMood   Mood           `json:"detectedMood,omitempty"`
	MoodConfidence int            `json:"moodConfidence,omitempty"`
	IsVagueQuery   bool           `json:"isVagueQuery"`
}
