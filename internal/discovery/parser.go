package discovery

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/streamsage/streamsage/internal/llm"
)

// Parser converts free text plus conversation history into a QueryIntent.
// The completion service proposes an interpretation; a deterministic rule
// layer then enforces the parsing contract on top of it, so the
// guarantees below hold regardless of model behavior.
type Parser struct {
	provider llm.Provider
	filters  *FilterTables
	moods    *MoodTables
	langs    *LanguageTables
	logger   zerolog.Logger
}

// NewParser creates a parser with the given lookup tables.
func NewParser(provider llm.Provider, filters *FilterTables, moods *MoodTables, langs *LanguageTables, logger zerolog.Logger) *Parser {
	return &Parser{
		provider: provider,
		filters:  filters,
		moods:    moods,
		langs:    langs,
		logger:   logger.With().Str("component", "parser").Logger(),
	}
}

// Parse produces the resolved intent for a query. Identical inputs plus
// an identical completion-service response yield an identical intent.
func (p *Parser) Parse(ctx context.Context, query string, history []llm.Turn, countryCode string) (*QueryIntent, error) {
	raw, err := p.provider.ParseQueryIntent(ctx, query, history)
	if err != nil {
		return nil, fmt.Errorf("intent extraction failed: %w", err)
	}

	intent := p.fromRaw(raw, countryCode)
	intent.Language = p.detectLanguage(query, raw.Language)

	// Rule 1: off-topic short-circuits everything else.
	if raw.IsOffTopic {
		intent.IsOffTopic = true
		return intent, nil
	}

	p.applyMoodRule(intent, query)
	p.applyPersonRules(intent, query)
	p.applyTrendingRule(intent, query)
	p.applyContentTypeRule(intent, query)
	p.applyFilterRules(intent, query)
	p.applyVagueRule(intent)

	p.logger.Debug().
		Str("query", query).
		Str("contentType", string(intent.ContentType)).
		Str("mood", string(intent.DetectedMood)).
		Int("moodConfidence", intent.MoodConfidence).
		Bool("trending", intent.UseTrendingAPI).
		Bool("vague", intent.IsVagueQuery).
		Msg("Parsed query")

	return intent, nil
}

// fromRaw converts the model's proposal into the resolved intent shape.
func (p *Parser) fromRaw(raw *llm.Intent, countryCode string) *QueryIntent {
	intent := &QueryIntent{
		ContentType:         ContentType(raw.ContentType),
		MinRating:           raw.MinRating,
		MaxRating:           raw.MaxRating,
		YearStart:           raw.YearStart,
		YearEnd:             raw.YearEnd,
		Keywords:            raw.Keywords,
		LocationKeywords:    raw.LocationKeywords,
		ProductionCountries: normalizeUpper(raw.ProductionCountries),
		SpokenLanguages:     normalizeLower(raw.SpokenLanguages),
		PersonName:          strings.TrimSpace(raw.PersonName),
		DirectorName:        strings.TrimSpace(raw.DirectorName),
		ActorNames:          raw.ActorNames,
		SpecificTitle:       strings.TrimSpace(raw.SpecificTitle),
		MinSeasons:          raw.MinSeasons,
		MaxSeasons:          raw.MaxSeasons,
		MinRuntime:          raw.MinRuntime,
		MaxRuntime:          raw.MaxRuntime,
		Certification:       raw.Certification,
		DetectedMood:        Mood(raw.DetectedMood),
		MoodConfidence:      raw.MoodConfidence,
		IsPersonInfoQuery:   raw.IsPersonInfoQuery,
		IsContentInfoQuery:  raw.IsContentInfoQuery,
		UseTrendingAPI:      raw.UseTrendingAPI,
		TopicChanged:        raw.TopicChanged,
		CountryCode:         countryCode,
		genreNames:          raw.Genres,
	}

	switch intent.ContentType {
	case ContentTypeMovie, ContentTypeTV, ContentTypeBoth:
	default:
		intent.ContentType = ContentTypeBoth
	}

	switch SortOrder(raw.SortOrder) {
	case SortRating:
		intent.SortOrder = SortRating
	case SortReleaseDate:
		intent.SortOrder = SortReleaseDate
	default:
		intent.SortOrder = SortPopularity
	}

	switch PersonRole(raw.PersonRole) {
	case RoleActor, RoleDirector:
		intent.PersonRole = PersonRole(raw.PersonRole)
	default:
		if intent.PersonName != "" {
			intent.PersonRole = RoleAny
		}
	}

	intent.Providers = p.filters.ResolveProviders(raw.Providers)

	return intent
}

// detectLanguage prefers the vocabulary heuristic, then the model's
// guess, then English.
func (p *Parser) detectLanguage(query, modelLanguage string) string {
	if lang := p.langs.DetectLanguage(query); lang != "en" {
		return lang
	}
	if modelLanguage != "" {
		return strings.ToLower(modelLanguage)
	}
	return "en"
}

// applyMoodRule runs rule 2. The vocabulary scan runs on every query and
// its verdict wins over the model's; a detected mood also suppresses
// trending and seeds the genre/rating bias.
func (p *Parser) applyMoodRule(intent *QueryIntent, query string) {
	if mood, confidence := p.moods.Detect(query); confidence > intent.MoodConfidence {
		intent.DetectedMood = mood
		intent.MoodConfidence = confidence
	}

	if intent.DetectedMood == "" || intent.MoodConfidence == 0 {
		intent.DetectedMood = ""
		intent.MoodConfidence = 0
		return
	}

	// Mood beats trending.
	intent.UseTrendingAPI = false
	intent.IsVagueQuery = false

	profile, ok := p.moods.Profile(intent.DetectedMood)
	if !ok {
		return
	}
	if len(intent.genreNames) == 0 {
		intent.genreNames = profile.Genres
	}
	if intent.MinRating == 0 {
		intent.MinRating = profile.MinRating
	}
	if intent.MaxRuntime == 0 && profile.MaxRuntime > 0 {
		intent.MaxRuntime = profile.MaxRuntime
	}
	if profile.SortOrder != "" && intent.SortOrder == SortPopularity {
		intent.SortOrder = profile.SortOrder
	}
}

// applyPersonRules runs rule 3: biographical questions never trigger a
// content search; credit requests always do.
func (p *Parser) applyPersonRules(intent *QueryIntent, query string) {
	lower := strings.ToLower(query)

	bioMarkers := []string{"who is", "how old is", "kimdir", "kaç yaşında", "quién es", "wer ist", "qui est"}
	for _, marker := range bioMarkers {
		if strings.Contains(lower, marker) && intent.PersonName != "" {
			intent.IsPersonInfoQuery = true
			break
		}
	}

	if intent.IsPersonInfoQuery && intent.PersonName == "" {
		intent.IsPersonInfoQuery = false
	}
}

// applyTrendingRule runs rule 5: explicit trending vocabulary turns the
// trending branch on, except when a mood already claimed the query.
func (p *Parser) applyTrendingRule(intent *QueryIntent, query string) {
	if intent.DetectedMood != "" {
		intent.UseTrendingAPI = false
		return
	}

	lower := strings.ToLower(query)
	for _, words := range p.langs.TrendingWords {
		for _, word := range words {
			if strings.Contains(lower, word) {
				intent.UseTrendingAPI = true
				return
			}
		}
	}
}

// applyContentTypeRule runs rule 7. Idioms fire first; the word tables
// are compositional only when no idiom matches.
func (p *Parser) applyContentTypeRule(intent *QueryIntent, query string) {
	lower := strings.ToLower(query)

	for idiom, contentType := range p.langs.Idioms {
		if strings.Contains(lower, idiom) {
			intent.ContentType = contentType
			return
		}
	}

	hasTV := containsAnyWord(lower, p.langs.TVWords)
	hasMovie := containsAnyWord(lower, p.langs.MovieWords)

	switch {
	case hasTV && hasMovie:
		intent.ContentType = ContentTypeBoth
	case hasTV:
		intent.ContentType = ContentTypeTV
	case hasMovie:
		intent.ContentType = ContentTypeMovie
	}
}

// applyFilterRules runs rule 8: table-driven filter resolution plus the
// rating-default and country/language exclusivity contracts.
func (p *Parser) applyFilterRules(intent *QueryIntent, query string) {
	lower := strings.ToLower(query)

	// Nationality keywords in the query add production countries the
	// model may have missed.
	for keyword, iso := range p.filters.Countries {
		if containsWord(lower, keyword) && !containsString(intent.ProductionCountries, iso) {
			intent.ProductionCountries = append(intent.ProductionCountries, iso)
		}
	}

	// Country implies language; keeping both over-filters.
	if len(intent.ProductionCountries) > 0 {
		intent.SpokenLanguages = nil
	}

	// Rating stays unfiltered without explicit quality language. A mood
	// bias is the one exception.
	hasQuality := containsAnyWord(lower, p.langs.QualityWords)
	if intent.DetectedMood == "" {
		if !hasQuality {
			intent.MinRating = 0
		} else if intent.MinRating == 0 {
			intent.MinRating = 7.0
			if intent.SortOrder == SortPopularity {
				intent.SortOrder = SortRating
			}
		}
	}

	resolveFor := intent.ContentType
	if resolveFor == ContentTypeBoth {
		resolveFor = ContentTypeMovie
	}
	intent.Genres = p.filters.ResolveGenres(intent.genreNames, resolveFor)
}

// applyVagueRule runs rule 9: nothing concrete extracted means trending
// as a conversation starter.
func (p *Parser) applyVagueRule(intent *QueryIntent) {
	if intent.DetectedMood != "" || intent.PersonName != "" || intent.SpecificTitle != "" ||
		intent.UseTrendingAPI || intent.IsContentInfoQuery {
		return
	}
	if len(intent.Genres) > 0 || len(intent.Providers) > 0 || len(intent.Keywords) > 0 ||
		len(intent.LocationKeywords) > 0 || len(intent.ProductionCountries) > 0 ||
		len(intent.SpokenLanguages) > 0 || intent.MinRating > 0 ||
		intent.YearStart > 0 || intent.YearEnd > 0 {
		return
	}

	intent.IsVagueQuery = true
	intent.UseTrendingAPI = true
}

// containsAnyWord checks the query against every language's word list.
func containsAnyWord(lower string, tables map[string][]string) bool {
	for _, words := range tables {
		for _, word := range words {
			if containsWord(lower, word) {
				return true
			}
		}
	}
	return false
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

func normalizeUpper(list []string) []string {
	out := make([]string, 0, len(list))
	for _, s := range list {
		if s = strings.ToUpper(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func normalizeLower(list []string) []string {
	out := make([]string, 0, len(list))
	for _, s := range list {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}
