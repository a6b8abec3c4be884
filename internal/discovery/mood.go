package discovery

import (
	"sort"
	"strings"
	"unicode"
)

// MoodProfile is the genre/rating bias a detected mood applies to an
// otherwise unconstrained query.
type MoodProfile struct {
	Genres     []string // canonical genre names, resolved per content type
	MinRating  float64
	MaxRuntime int // minutes, 0 = unbounded
	SortOrder  SortOrder
}

// MoodTables hold the mood vocabulary and the mood-to-bias mapping.
type MoodTables struct {
	// Vocabulary maps language code → mood → lowercase phrases.
	Vocabulary map[string]map[Mood][]string

	// Emoji maps an emoji rune directly to a mood.
	Emoji map[rune]Mood

	// Profiles maps each mood to its recommendation bias.
	Profiles map[Mood]MoodProfile
}

// DefaultMoodTables returns the built-in mood vocabulary for the
// supported languages and the default mood biases.
func DefaultMoodTables() *MoodTables {
	return &MoodTables{
		Vocabulary: map[string]map[Mood][]string{
			"en": {
				MoodSad:       {"sad", "depressed", "down", "unhappy", "heartbroken", "feeling low", "miserable"},
				MoodHappy:     {"happy", "great mood", "cheerful", "joyful", "feeling good"},
				MoodBored:     {"bored", "boring", "nothing to do", "so dull"},
				MoodExcited:   {"excited", "pumped", "hyped", "thrilled"},
				MoodTired:     {"tired", "exhausted", "sleepy", "worn out", "long day"},
				MoodRelaxed:   {"relax", "relaxed", "chill", "unwind", "calm down", "cozy"},
				MoodStressed:  {"stressed", "anxious", "overwhelmed", "under pressure"},
				MoodRomantic:  {"romantic", "in love", "date night", "lovey"},
				MoodNostalgic: {"nostalgic", "nostalgia", "miss the old days", "childhood"},
				MoodAngry:     {"angry", "furious", "mad", "pissed", "frustrated"},
			},
			"tr": {
				MoodSad:       {"üzgünüm", "üzgün", "moralim bozuk", "mutsuzum", "kalbim kırık", "kötü hissediyorum"},
				MoodHappy:     {"mutluyum", "keyfim yerinde", "neşeliyim", "harika hissediyorum"},
				MoodBored:     {"sıkıldım", "sıkılıyorum", "canım sıkılıyor", "can sıkıntısı"},
				MoodExcited:   {"heyecanlıyım", "heyecanlı", "coştum"},
				MoodTired:     {"yorgunum", "çok yoruldum", "bitkinim", "uykum var"},
				MoodRelaxed:   {"rahatlamak", "sakinleşmek", "kafa dağıtmak", "dinlenmek"},
				MoodStressed:  {"stresliyim", "stres", "gerginim", "bunaldım"},
				MoodRomantic:  {"romantik", "aşık oldum", "sevgilimle"},
				MoodNostalgic: {"nostaljik", "nostalji", "eski günler", "çocukluğum"},
				MoodAngry:     {"sinirliyim", "öfkeliyim", "çok kızgınım"},
			},
			"es": {
				MoodSad:       {"triste", "deprimido", "deprimida", "desanimado"},
				MoodHappy:     {"feliz", "contento", "contenta", "alegre"},
				MoodBored:     {"aburrido", "aburrida", "me aburro"},
				MoodExcited:   {"emocionado", "emocionada", "entusiasmado"},
				MoodTired:     {"cansado", "cansada", "agotado", "con sueño"},
				MoodRelaxed:   {"relajarme", "relajado", "tranquilo", "desconectar"},
				MoodStressed:  {"estresado", "estresada", "agobiado"},
				MoodRomantic:  {"romántico", "romántica", "enamorado"},
				MoodNostalgic: {"nostálgico", "nostalgia", "viejos tiempos"},
				MoodAngry:     {"enojado", "enfadado", "furioso"},
			},
			"de": {
				MoodSad:       {"traurig", "deprimiert", "niedergeschlagen"},
				MoodHappy:     {"glücklich", "gut gelaunt", "fröhlich"},
				MoodBored:     {"langweilig", "gelangweilt", "mir ist langweilig"},
				MoodExcited:   {"aufgeregt", "begeistert"},
				MoodTired:     {"müde", "erschöpft", "kaputt"},
				MoodRelaxed:   {"entspannen", "entspannt", "abschalten"},
				MoodStressed:  {"gestresst", "überfordert"},
				MoodRomantic:  {"romantisch", "verliebt"},
				MoodNostalgic: {"nostalgisch", "nostalgie", "alte zeiten"},
				MoodAngry:     {"wütend", "sauer", "verärgert"},
			},
			"fr": {
				MoodSad:       {"triste", "déprimé", "déprimée", "cafard"},
				MoodHappy:     {"heureux", "heureuse", "de bonne humeur"},
				MoodBored:     {"je m'ennuie", "ennuyé", "ennuyée"},
				MoodExcited:   {"excité", "excitée", "enthousiaste"},
				MoodTired:     {"fatigué", "fatiguée", "épuisé", "crevé"},
				MoodRelaxed:   {"me détendre", "détendu", "tranquille"},
				MoodStressed:  {"stressé", "stressée", "angoissé"},
				MoodRomantic:  {"romantique", "amoureux", "amoureuse"},
				MoodNostalgic: {"nostalgique", "nostalgie", "bon vieux temps"},
				MoodAngry:     {"énervé", "énervée", "furieux", "en colère"},
			},
		},
		Emoji: map[rune]Mood{
			'😢': MoodSad,
			'😭': MoodSad,
			'😞': MoodSad,
			'😊': MoodHappy,
			'😁': MoodHappy,
			'🥱': MoodBored,
			'😴': MoodTired,
			'🤩': MoodExcited,
			'😍': MoodRomantic,
			'❤': MoodRomantic,
			'😡': MoodAngry,
			'😤': MoodAngry,
			'😰': MoodStressed,
		},
		Profiles: map[Mood]MoodProfile{
			MoodSad:       {Genres: []string{"comedy", "drama"}, MinRating: 7.0},
			MoodHappy:     {Genres: []string{"comedy", "adventure"}, MinRating: 6.5},
			MoodBored:     {Genres: []string{"action", "thriller"}, MinRating: 6.5},
			MoodExcited:   {Genres: []string{"action", "sci-fi"}, MinRating: 6.5},
			MoodTired:     {Genres: []string{"comedy", "animation"}, MinRating: 6.0, MaxRuntime: 110},
			MoodRelaxed:   {Genres: []string{"comedy", "family"}, MinRating: 6.0},
			MoodStressed:  {Genres: []string{"comedy", "animation"}, MinRating: 6.5},
			MoodRomantic:  {Genres: []string{"romance", "comedy"}, MinRating: 6.5},
			MoodNostalgic: {Genres: []string{"drama", "family"}, MinRating: 7.0, SortOrder: SortRating},
			MoodAngry:     {Genres: []string{"comedy", "action"}, MinRating: 6.5},
		},
	}
}

// Detect scans a query for mood signals across all supported languages
// and returns the detected mood with a 0-100 confidence. Confidence 0
// means no mood.
//
// Explicit vocabulary hits start at 70; implicit signals (emoji,
// exclamation intensity, very short message) adjust from there.
func (m *MoodTables) Detect(query string) (Mood, int) {
	lower := strings.ToLower(query)

	langs := make([]string, 0, len(m.Vocabulary))
	for lang := range m.Vocabulary {
		langs = append(langs, lang)
	}
	sort.Strings(langs)

	var mood Mood
	confidence := 0
	bestPos := -1

	// Languages and moods are walked in sorted order and equal-strength
	// hits resolve by earliest position in the query, so the verdict for
	// a given query never varies between calls.
	for _, lang := range langs {
		byMood := m.Vocabulary[lang]

		moods := make([]Mood, 0, len(byMood))
		for candidate := range byMood {
			moods = append(moods, candidate)
		}
		sort.Slice(moods, func(i, j int) bool { return moods[i] < moods[j] })

		for _, candidate := range moods {
			for _, phrase := range byMood[candidate] {
				pos := strings.Index(lower, phrase)
				if pos < 0 {
					continue
				}
				// Longer phrase matches are stronger evidence.
				c := 70
				if strings.Contains(phrase, " ") {
					c = 80
				}
				if c > confidence || (c == confidence && candidate != mood && pos < bestPos) {
					mood, confidence, bestPos = candidate, c, pos
				}
			}
		}
	}

	for _, r := range query {
		if emojiMood, ok := m.Emoji[r]; ok {
			if confidence == 0 {
				mood, confidence = emojiMood, 60
			} else if emojiMood == mood {
				confidence += 10
			}
		}
	}

	if confidence == 0 {
		return "", 0
	}

	if strings.Count(query, "!") >= 2 {
		confidence += 5
	}
	if isMostlyUppercase(query) {
		confidence += 5
	}
	if len(strings.Fields(query)) <= 3 {
		confidence += 5
	}
	if confidence > 100 {
		confidence = 100
	}

	return mood, confidence
}

// Profile returns the bias for a mood, with ok == false for unknown moods.
func (m *MoodTables) Profile(mood Mood) (MoodProfile, bool) {
	p, ok := m.Profiles[mood]
	return p, ok
}

// isMostlyUppercase reports whether more than half the letters are capitals.
func isMostlyUppercase(s string) bool {
	letters, uppers := 0, 0
	for _, r := range s {
		if unicode.IsLetter(r) {
			letters++
			if unicode.IsUpper(r) {
				uppers++
			}
		}
	}
	return letters >= 4 && uppers*2 > letters
}
