package discovery

import "strings"

// TMDB genre identifiers. The movie and TV lists overlap but are not
// identical; action maps to "Action & Adventure" on the TV side.
const (
	genreAction      = 28
	genreAdventure   = 12
	genreAnimation   = 16
	genreComedy      = 35
	genreCrime       = 80
	genreDocumentary = 99
	genreDrama       = 18
	genreFamily      = 10751
	genreFantasy     = 14
	genreHistory     = 36
	genreHorror      = 27
	genreMusic       = 10402
	genreMystery     = 9648
	genreRomance     = 10749
	genreSciFi       = 878
	genreThriller    = 53
	genreWar         = 10752
	genreWestern     = 37

	genreTVActionAdventure = 10759
	genreTVSciFiFantasy    = 10765
	genreTVWarPolitics     = 10768
	genreTVKids            = 10762
	genreTVReality         = 10764
)

// FilterTables are the immutable lookup structures resolving canonical
// filter names to catalog identifiers.
type FilterTables struct {
	// MovieGenres and TVGenres map lowercase English genre aliases to IDs.
	MovieGenres map[string]int
	TVGenres    map[string]int

	// GenrePriority orders genres from most to least defining; the
	// relaxation ladder keeps the highest-priority one when it reduces a
	// genre set to a single entry.
	GenrePriority []int

	// Providers maps lowercase streaming-platform aliases to IDs.
	Providers map[string]int

	// Countries maps nationality/country keywords to ISO 3166-1 codes.
	Countries map[string]string

	// CountryLanguages maps an ISO country to its primary ISO 639-1
	// language, so nationality queries can filter by original language
	// instead of the narrower origin-country dimension.
	CountryLanguages map[string]string
}

// DefaultFilterTables returns the built-in lookup tables.
func DefaultFilterTables() *FilterTables {
	movieGenres := map[string]int{
		"action":          genreAction,
		"adventure":       genreAdventure,
		"animation":       genreAnimation,
		"animated":        genreAnimation,
		"anime":           genreAnimation,
		"comedy":          genreComedy,
		"crime":           genreCrime,
		"documentary":     genreDocumentary,
		"drama":           genreDrama,
		"family":          genreFamily,
		"fantasy":         genreFantasy,
		"history":         genreHistory,
		"historical":      genreHistory,
		"horror":          genreHorror,
		"music":           genreMusic,
		"musical":         genreMusic,
		"mystery":         genreMystery,
		"romance":         genreRomance,
		"romantic":        genreRomance,
		"science fiction": genreSciFi,
		"sci-fi":          genreSciFi,
		"scifi":           genreSciFi,
		"thriller":        genreThriller,
		"war":             genreWar,
		"western":         genreWestern,
	}

	tvGenres := map[string]int{
		"action":          genreTVActionAdventure,
		"adventure":       genreTVActionAdventure,
		"animation":       genreAnimation,
		"animated":        genreAnimation,
		"anime":           genreAnimation,
		"comedy":          genreComedy,
		"crime":           genreCrime,
		"documentary":     genreDocumentary,
		"drama":           genreDrama,
		"family":          genreFamily,
		"fantasy":         genreTVSciFiFantasy,
		"kids":            genreTVKids,
		"mystery":         genreMystery,
		"reality":         genreTVReality,
		"romance":         genreRomance,
		"romantic":        genreRomance,
		"science fiction": genreTVSciFiFantasy,
		"sci-fi":          genreTVSciFiFantasy,
		"scifi":           genreTVSciFiFantasy,
		"thriller":        genreCrime,
		"war":             genreTVWarPolitics,
		"western":         genreWestern,
	}

	return &FilterTables{
		MovieGenres: movieGenres,
		TVGenres:    tvGenres,
		GenrePriority: []int{
			genreHorror,
			genreAnimation,
			genreDocumentary,
			genreSciFi,
			genreTVSciFiFantasy,
			genreWestern,
			genreWar,
			genreTVWarPolitics,
			genreMusic,
			genreHistory,
			genreFantasy,
			genreMystery,
			genreRomance,
			genreCrime,
			genreThriller,
			genreTVActionAdventure,
			genreAction,
			genreAdventure,
			genreComedy,
			genreFamily,
			genreTVKids,
			genreTVReality,
			genreDrama,
		},
		Providers: map[string]int{
			"netflix":            8,
			"amazon prime":       119,
			"amazon prime video": 119,
			"prime video":        119,
			"prime":              119,
			"disney plus":        337,
			"disney+":            337,
			"hulu":               15,
			"apple tv":           350,
			"apple tv plus":      350,
			"apple tv+":          350,
			"max":                1899,
			"hbo max":            1899,
			"paramount plus":     531,
			"paramount+":         531,
			"peacock":            386,
			"crunchyroll":        283,
			"mubi":               11,
		},
		Countries: map[string]string{
			"turkish":  "TR",
			"türk":     "TR",
			"turkey":   "TR",
			"türkiye":  "TR",
			"korean":   "KR",
			"korea":    "KR",
			"kore":     "KR",
			"japanese": "JP",
			"japan":    "JP",
			"japon":    "JP",
			"french":   "FR",
			"france":   "FR",
			"fransız":  "FR",
			"german":   "DE",
			"germany":  "DE",
			"alman":    "DE",
			"spanish":  "ES",
			"spain":    "ES",
			"ispanyol": "ES",
			"italian":  "IT",
			"italy":    "IT",
			"indian":   "IN",
			"india":    "IN",
			"american": "US",
			"british":  "GB",
			"english":  "GB",
		},
		CountryLanguages: map[string]string{
			"TR": "tr",
			"KR": "ko",
			"JP": "ja",
			"FR": "fr",
			"DE": "de",
			"ES": "es",
			"IT": "it",
			"IN": "hi",
			"US": "en",
			"GB": "en",
		},
	}
}

// ResolveGenres maps canonical genre names to IDs for a content type.
// Unknown names are dropped.
func (t *FilterTables) ResolveGenres(names []string, contentType ContentType) []int {
	table := t.MovieGenres
	if contentType == ContentTypeTV {
		table = t.TVGenres
	}

	var ids []int
	seen := make(map[int]bool)
	for _, name := range names {
		if id, ok := table[strings.ToLower(strings.TrimSpace(name))]; ok && !seen[id] {
			ids = append(ids, id)
			seen[id] = true
		}
	}
	return ids
}

// ResolveProviders maps platform names to IDs, dropping unknowns.
func (t *FilterTables) ResolveProviders(names []string) []int {
	var ids []int
	seen := make(map[int]bool)
	for _, name := range names {
		if id, ok := t.Providers[strings.ToLower(strings.TrimSpace(name))]; ok && !seen[id] {
			ids = append(ids, id)
			seen[id] = true
		}
	}
	return ids
}

// PrimaryGenre returns the highest-priority genre present in the set,
// or 0 for an empty set.
func (t *FilterTables) PrimaryGenre(genres []int) int {
	if len(genres) == 0 {
		return 0
	}
	present := make(map[int]bool, len(genres))
	for _, g := range genres {
		present[g] = true
	}
	for _, g := range t.GenrePriority {
		if present[g] {
			return g
		}
	}
	return genres[0]
}

// PrimaryLanguage returns the primary spoken language of a country code.
func (t *FilterTables) PrimaryLanguage(country string) string {
	return t.CountryLanguages[strings.ToUpper(country)]
}
