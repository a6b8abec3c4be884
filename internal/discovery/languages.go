package discovery

import (
	"sort"
	"strings"
)

// LanguageTables hold the per-language vocabulary used by the
// deterministic parsing rules and the fixed localized messages.
type LanguageTables struct {
	// Markers score a query toward a language; any marker hit counts.
	Markers map[string][]string

	// TVWords and MovieWords are per-language content-type keywords.
	TVWords    map[string][]string
	MovieWords map[string][]string

	// Idioms are literal phrases with a fixed, non-compositional content
	// type. Checked before the word tables.
	Idioms map[string]ContentType

	// QualityWords trigger a rating floor; vague positives do not appear
	// here on purpose.
	QualityWords map[string][]string

	// TrendingWords request the trending list.
	TrendingWords map[string][]string

	// NoResults is the fixed "nothing found, try rephrasing" message per
	// language.
	NoResults map[string]string

	// OffTopic is the fixed redirection message for unrelated queries.
	OffTopic map[string]string

	// FoundResults is the fixed fallback reply template (one %d verb for
	// the count) used when the completion service cannot write the reply.
	FoundResults map[string]string

	// MoodAcks are the per-language empathetic acknowledgement prefixes.
	MoodAcks map[string]map[Mood]string
}

// DefaultLanguageTables returns the built-in vocabulary for en, tr, es,
// de and fr. English is the fallback everywhere.
func DefaultLanguageTables() *LanguageTables {
	return &LanguageTables{
		Markers: map[string][]string{
			"tr": {"bir", "ve", "için", "izle", "öner", "önerir", "misin", "istiyorum", "güzel", "dizi", "ş", "ğ", "ı"},
			"es": {"una", "que", "quiero", "ver", "película", "serie", "recomienda", "¿", "ñ", "buena"},
			"de": {"ein", "eine", "und", "ich", "möchte", "empfehlen", "schauen", "serie", "ß"},
			"fr": {"un", "une", "je", "veux", "regarder", "recommande", "série", "ç", "qu'est"},
		},
		TVWords: map[string][]string{
			"en": {"series", "show", "shows", "tv series", "tv show"},
			"tr": {"dizi", "diziler"},
			"es": {"serie", "series"},
			"de": {"serie", "serien"},
			"fr": {"série", "séries"},
		},
		MovieWords: map[string][]string{
			"en": {"movie", "movies", "film", "films"},
			"tr": {"film", "filmler", "filmi"},
			"es": {"película", "películas", "peli"},
			"de": {"film", "filme"},
			"fr": {"film", "films"},
		},
		Idioms: map[string]ContentType{
			// Turkish colloquialism: "dizi film" means a television
			// series, never both content types.
			"dizi film":    ContentTypeTV,
			"dizi filmi":   ContentTypeTV,
			"dizi filmler": ContentTypeTV,
		},
		QualityWords: map[string][]string{
			"en": {"best", "top rated", "top-rated", "highly rated", "excellent", "greatest", "masterpiece", "critically acclaimed"},
			"tr": {"en iyi", "en güzel", "kaliteli", "başyapıt", "efsane"},
			"es": {"mejores", "mejor", "obra maestra", "aclamada"},
			"de": {"beste", "besten", "meisterwerk", "hochgelobt"},
			"fr": {"meilleur", "meilleurs", "meilleures", "chef-d'œuvre"},
		},
		TrendingWords: map[string][]string{
			"en": {"trending", "popular", "what's hot", "whats hot", "most watched"},
			"tr": {"trend", "popüler", "gündemdeki", "en çok izlenen"},
			"es": {"tendencia", "populares", "lo más visto"},
			"de": {"im trend", "beliebt", "meistgesehen"},
			"fr": {"tendance", "populaires", "les plus regardés"},
		},
		NoResults: map[string]string{
			"en": "I couldn't find anything matching that. Could you try rephrasing your request?",
			"tr": "Buna uygun bir şey bulamadım. İsteğini farklı bir şekilde ifade edebilir misin?",
			"es": "No encontré nada que coincida con eso. ¿Podrías reformular tu búsqueda?",
			"de": "Dazu konnte ich leider nichts finden. Kannst du deine Anfrage anders formulieren?",
			"fr": "Je n'ai rien trouvé qui corresponde. Peux-tu reformuler ta demande ?",
		},
		OffTopic: map[string]string{
			"en": "I can only help with movies and TV shows. What would you like to watch?",
			"tr": "Ben sadece film ve dizi konusunda yardımcı olabilirim. Ne izlemek istersin?",
			"es": "Solo puedo ayudarte con películas y series. ¿Qué te gustaría ver?",
			"de": "Ich kann nur bei Filmen und Serien helfen. Was möchtest du schauen?",
			"fr": "Je ne peux t'aider que pour les films et les séries. Que veux-tu regarder ?",
		},
		FoundResults: map[string]string{
			"en": "I found %d suggestions for you.",
			"tr": "Senin için %d öneri buldum.",
			"es": "Encontré %d sugerencias para ti.",
			"de": "Ich habe %d Vorschläge für dich gefunden.",
			"fr": "J'ai trouvé %d suggestions pour toi.",
		},
		MoodAcks: map[string]map[Mood]string{
			"en": {
				MoodSad:       "Sorry you're feeling down — something uplifting might help.",
				MoodHappy:     "Love the good mood! Let's keep it going.",
				MoodBored:     "Let's fix that boredom.",
				MoodExcited:   "Great energy! Here's something to match it.",
				MoodTired:     "Sounds like a long day — something easy to watch, then.",
				MoodRelaxed:   "Nice and easy it is.",
				MoodStressed:  "Time to switch off for a bit.",
				MoodRomantic:  "Something for the heart, coming up.",
				MoodNostalgic: "A little trip down memory lane, then.",
				MoodAngry:     "Let's blow off some steam.",
			},
			"tr": {
				MoodSad:       "Üzgün olmana üzüldüm, moral verecek bir şeyler iyi gelebilir.",
				MoodHappy:     "Keyfin yerinde, öyle de kalsın!",
				MoodBored:     "Can sıkıntısına hemen çare bulalım.",
				MoodExcited:   "Bu enerjiye uygun bir şeyler buldum.",
				MoodTired:     "Yorgun görünüyorsun, hafif bir şeyler iyi gider.",
				MoodRelaxed:   "Rahatlatacak bir şeyler seçtim.",
				MoodStressed:  "Biraz kafa dağıtma vakti.",
				MoodRomantic:  "Romantik bir şeyler geliyor.",
				MoodNostalgic: "O zaman eski günlere dönelim.",
				MoodAngry:     "Biraz stres atalım.",
			},
		},
	}
}

// DetectLanguage guesses the query's language by vocabulary scoring,
// falling back to English. Deliberately heuristic; short or
// mixed-language queries can misdetect. Languages are scanned in sorted
// order so score ties always resolve the same way.
func (t *LanguageTables) DetectLanguage(query string) string {
	lower := strings.ToLower(query)

	langs := make([]string, 0, len(t.Markers))
	for lang := range t.Markers {
		langs = append(langs, lang)
	}
	sort.Strings(langs)

	best := "en"
	bestScore := 0
	for _, lang := range langs {
		score := 0
		for _, marker := range t.Markers[lang] {
			if len(marker) <= 2 {
				// Short markers (letters, particles) must match as a
				// character sequence anywhere; longer ones as words.
				if strings.Contains(lower, marker) {
					score++
				}
				continue
			}
			if containsWord(lower, marker) {
				score += 2
			}
		}
		if score > bestScore {
			best, bestScore = lang, score
		}
	}

	if bestScore < 2 {
		return "en"
	}
	return best
}

// NoResultsMessage returns the fixed localized no-results message.
func (t *LanguageTables) NoResultsMessage(lang string) string {
	if msg, ok := t.NoResults[lang]; ok {
		return msg
	}
	return t.NoResults["en"]
}

// OffTopicMessage returns the fixed localized redirection message.
func (t *LanguageTables) OffTopicMessage(lang string) string {
	if msg, ok := t.OffTopic[lang]; ok {
		return msg
	}
	return t.OffTopic["en"]
}

// FoundResultsMessage returns the fixed localized found-count template.
func (t *LanguageTables) FoundResultsMessage(lang string) string {
	if msg, ok := t.FoundResults[lang]; ok {
		return msg
	}
	return t.FoundResults["en"]
}

// MoodAck returns the empathetic prefix for a language and mood, falling
// back to English, then to empty.
func (t *LanguageTables) MoodAck(lang string, mood Mood) string {
	if byMood, ok := t.MoodAcks[lang]; ok {
		if ack, ok := byMood[mood]; ok {
			return ack
		}
	}
	return t.MoodAcks["en"][mood]
}

// containsWord reports whether the phrase appears on word boundaries.
func containsWord(haystack, phrase string) bool {
	idx := strings.Index(haystack, phrase)
	for idx >= 0 {
		beforeOK := idx == 0 || haystack[idx-1] == ' '
		after := idx + len(phrase)
		afterOK := after == len(haystack) || haystack[after] == ' ' || haystack[after] == ',' ||
			haystack[after] == '.' || haystack[after] == '?' || haystack[after] == '!'
		if beforeOK && afterOK {
			return true
		}
		next := strings.Index(haystack[idx+1:], phrase)
		if next < 0 {
			return false
		}
		idx += 1 + next
	}
	return false
}
