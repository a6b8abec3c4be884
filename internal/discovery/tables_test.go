package discovery

import "testing"

func TestResolveGenres_PerContentType(t *testing.T) {
	filters := DefaultFilterTables()

	movie := filters.ResolveGenres([]string{"action", "sci-fi"}, ContentTypeMovie)
	if len(movie) != 2 || movie[0] != genreAction {
		t.Errorf("unexpected movie genres: %v", movie)
	}

	tv := filters.ResolveGenres([]string{"action", "sci-fi"}, ContentTypeTV)
	if len(tv) != 2 || tv[0] != genreTVActionAdventure || tv[1] != genreTVSciFiFantasy {
		t.Errorf("tv genres must use the tv id space: %v", tv)
	}
}

func TestResolveGenres_DedupesAndIgnoresUnknown(t *testing.T) {
	filters := DefaultFilterTables()

	// "scifi" and "sci-fi" alias to the same id; "zebra" is not a genre.
	got := filters.ResolveGenres([]string{"sci-fi", "scifi", "zebra"}, ContentTypeMovie)
	if len(got) != 1 {
		t.Errorf("expected one deduplicated genre, got %v", got)
	}
}

func TestResolveProviders(t *testing.T) {
	filters := DefaultFilterTables()

	got := filters.ResolveProviders([]string{"Netflix", "disney+", "unknown service"})
	if len(got) != 2 || got[0] != 8 || got[1] != 337 {
		t.Errorf("unexpected provider ids: %v", got)
	}
}

func TestPrimaryGenre_PriorityOrder(t *testing.T) {
	filters := DefaultFilterTables()

	if got := filters.PrimaryGenre([]int{genreDrama, genreHorror}); got != genreHorror {
		t.Errorf("horror outranks drama, got %d", got)
	}
	if got := filters.PrimaryGenre([]int{genreDrama}); got != genreDrama {
		t.Errorf("single genre is its own primary, got %d", got)
	}
}

func TestMoodDetect(t *testing.T) {
	moods := DefaultMoodTables()

	tests := []struct {
		query   string
		want    Mood
		minConf int
	}{
		{"I'm so bored tonight", MoodBored, 70},
		{"sıkılıyorum, film öner", MoodBored, 70},
		{"canım sıkılıyor", MoodBored, 80},
		{"estoy triste", MoodSad, 70},
		{"mir ist langweilig", MoodBored, 80},
		{"je m'ennuie ce soir", MoodBored, 80},
		{"😴", MoodTired, 60},
		{"recommend a good documentary", "", 0},
	}
	for _, tt := range tests {
		mood, conf := moods.Detect(tt.query)
		if mood != tt.want {
			t.Errorf("Detect(%q) mood = %q, want %q", tt.query, mood, tt.want)
		}
		if conf < tt.minConf {
			t.Errorf("Detect(%q) confidence = %d, want >= %d", tt.query, conf, tt.minConf)
		}
	}
}

func TestMoodDetect_TieBreaksByPosition(t *testing.T) {
	moods := DefaultMoodTables()

	// Two equal-strength mood words in one query: the earlier mention
	// wins, and the verdict never varies between calls.
	query := "I was sad but now I am happy"
	first, firstConf := moods.Detect(query)
	if first != MoodSad {
		t.Errorf("expected the earlier mood word to win, got %q", first)
	}
	for i := 0; i < 100; i++ {
		mood, conf := moods.Detect(query)
		if mood != first || conf != firstConf {
			t.Fatalf("run %d: Detect flipped from (%q, %d) to (%q, %d)", i, first, firstConf, mood, conf)
		}
	}
}

func TestMoodDetect_IntensityBoosts(t *testing.T) {
	moods := DefaultMoodTables()

	_, base := moods.Detect("i am bored and have nothing planned for tonight")
	_, boosted := moods.Detect("SO BORED!!")
	if boosted <= base {
		t.Errorf("shouting with exclamation marks must raise confidence: %d <= %d", boosted, base)
	}
	if boosted > 100 {
		t.Errorf("confidence must cap at 100, got %d", boosted)
	}
}

func TestMoodProfiles_CoverEveryMood(t *testing.T) {
	moods := DefaultMoodTables()

	for _, mood := range []Mood{
		MoodSad, MoodHappy, MoodBored, MoodExcited, MoodTired,
		MoodRelaxed, MoodStressed, MoodRomantic, MoodNostalgic, MoodAngry,
	} {
		profile, ok := moods.Profile(mood)
		if !ok {
			t.Errorf("mood %q has no profile", mood)
			continue
		}
		if len(profile.Genres) == 0 {
			t.Errorf("mood %q profile has no genre bias", mood)
		}
	}
}

func TestDetectLanguage(t *testing.T) {
	langs := DefaultLanguageTables()

	tests := []struct {
		query string
		want  string
	}{
		{"bana güzel bir film öner", "tr"},
		{"recomiéndame una película divertida", "es"},
		{"ich möchte einen spannenden film schauen", "de"},
		{"je cherche un bon film d'action", "fr"},
		{"show me something fun", "en"},
		{"ok", "en"},
	}
	for _, tt := range tests {
		if got := langs.DetectLanguage(tt.query); got != tt.want {
			t.Errorf("DetectLanguage(%q) = %q, want %q", tt.query, got, tt.want)
		}
	}
}

func TestLocalizedMessagesFallBackToEnglish(t *testing.T) {
	langs := DefaultLanguageTables()

	if langs.NoResultsMessage("tr") == langs.NoResultsMessage("en") {
		t.Error("turkish no-results message must be localized")
	}
	if langs.NoResultsMessage("pt") != langs.NoResultsMessage("en") {
		t.Error("unsupported languages must fall back to english")
	}
	if langs.OffTopicMessage("zz") != langs.OffTopicMessage("en") {
		t.Error("unsupported languages must fall back to english")
	}
	if langs.MoodAck("es", MoodBored) == "" {
		t.Error("mood acknowledgements must fall back to english for languages without a table")
	}
}

func TestContainsWord(t *testing.T) {
	tests := []struct {
		text string
		word string
		want bool
	}{
		{"show me movies", "movies", true},
		{"türk filmleri", "filmler", false},
		{"a good movie, please", "movie", true},
		{"moviegoer habits", "movie", false},
	}
	for _, tt := range tests {
		if got := containsWord(tt.text, tt.word); got != tt.want {
			t.Errorf("containsWord(%q, %q) = %v, want %v", tt.text, tt.word, got, tt.want)
		}
	}
}
