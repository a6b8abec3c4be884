package llm

// Turn is one message of the conversation history.
type Turn struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// Intent is the raw structured interpretation returned by the
// completion service. Genre and provider entries are canonical English
// names; the discovery layer resolves them to catalog IDs and applies
// its deterministic rules on top.
type Intent struct {
	ContentType string `json:"contentType"` // movie, tv, both

	Genres    []string `json:"genres"`
	Providers []string `json:"providers"`

	MinRating float64 `json:"minRating"`
	MaxRating float64 `json:"maxRating"`
	YearStart int     `json:"yearStart"`
	YearEnd   int     `json:"yearEnd"`
	SortOrder string  `json:"sortOrder"` // popularity_desc, rating_desc, release_date_desc

	Keywords         []string `json:"keywords"`
	LocationKeywords []string `json:"locationKeywords"`

	ProductionCountries []string `json:"productionCountries"` // ISO 3166-1
	SpokenLanguages     []string `json:"spokenLanguages"`     // ISO 639-1

	PersonName   string   `json:"personName"`
	PersonRole   string   `json:"personRole"` // director, actor, any
	DirectorName string   `json:"directorName"`
	ActorNames   []string `json:"actorNames"`

	SpecificTitle string `json:"specificTitle"`

	MinSeasons int `json:"minSeasons"`
	MaxSeasons int `json:"maxSeasons"`
	MinRuntime int `json:"minRuntime"`
	MaxRuntime int `json:"maxRuntime"`

	Certification string `json:"certification"`

	DetectedMood   string `json:"detectedMood"`
	MoodConfidence int    `json:"moodConfidence"`

	IsVagueQuery       bool `json:"isVagueQuery"`
	IsPersonInfoQuery  bool `json:"isPersonInfoQuery"`
	IsContentInfoQuery bool `json:"isContentInfoQuery"`
	IsOffTopic         bool `json:"isOffTopic"`
	UseTrendingAPI     bool `json:"useTrendingAPI"`
	TopicChanged       bool `json:"topicChanged"`

	Language string `json:"language"` // ISO 639-1 of the query
}

// ResultSummary is the only result data the composer model is allowed
// to see: title, year and rating of a returned item.
type ResultSummary struct {
	Title  string  `json:"title"`
	Year   string  `json:"year"`
	Rating float64 `json:"rating"`
}

// ComposeInput carries everything the reply-composition prompt may
// reference.
type ComposeInput struct {
	Query          string
	Language       string
	Mood           string
	MoodConfidence int
	ResultCount    int
	TopResults     []ResultSummary
	PersonSummary  string // preformatted biography line, empty when absent
	ContentSummary string // preformatted title-facts line, empty when absent
}

// KnowledgeAnswer is the self-certifying answer of the knowledge
// fallback path.
type KnowledgeAnswer struct {
	Answer  string `json:"answer"`
	Certain bool   `json:"certain"`
}
