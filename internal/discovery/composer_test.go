package discovery

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/streamsage/streamsage/internal/llm"
)

func newTestComposer(provider llm.Provider) *Composer {
	return NewComposer(provider, DefaultLanguageTables(), zerolog.Nop())
}

func sampleResults(n int) []SearchResult {
	results := make([]SearchResult, 0, n)
	for i := 0; i < n; i++ {
		results = append(results, SearchResult{
			ID:          i + 1,
			Title:       "Movie " + string(rune('A'+i)),
			ContentType: ContentTypeMovie,
			VoteAverage: 7.0,
			ReleaseDate: "2020-05-01",
		})
	}
	return results
}

func TestCompose_OffTopicUsesLocalizedFixedMessage(t *testing.T) {
	provider := &fakeProvider{reply: "should not be used"}
	c := newTestComposer(provider)

	got := c.Compose(context.Background(), "can you fix my code?", &QueryIntent{IsOffTopic: true, Language: "tr"}, &PlanResult{})

	langs := DefaultLanguageTables()
	if got != langs.OffTopicMessage("tr") {
		t.Errorf("unexpected off-topic reply: %q", got)
	}
	if len(provider.composeCalls) != 0 {
		t.Error("off-topic replies must not call the completion service")
	}
}

func TestCompose_PromptSeesOnlyTrueCountAndTopFive(t *testing.T) {
	provider := &fakeProvider{reply: "Here are some great picks!"}
	c := newTestComposer(provider)

	results := sampleResults(12)
	got := c.Compose(context.Background(), "action movies", &QueryIntent{Language: "en"}, &PlanResult{Results: results})

	if got != "Here are some great picks!" {
		t.Errorf("unexpected reply: %q", got)
	}
	if len(provider.composeCalls) != 1 {
		t.Fatalf("expected one compose call, got %d", len(provider.composeCalls))
	}

	in := provider.composeCalls[0]
	if in.ResultCount != 12 {
		t.Errorf("prompt must carry the true count, got %d", in.ResultCount)
	}
	if len(in.TopResults) != 5 {
		t.Fatalf("prompt must see at most 5 results, got %d", len(in.TopResults))
	}
	for i, summary := range in.TopResults {
		if summary.Title != results[i].Title {
			t.Errorf("summary %d is not drawn from the real results: %q", i, summary.Title)
		}
		if summary.Year != "2020" {
			t.Errorf("summary %d has wrong year: %q", i, summary.Year)
		}
	}
}

func TestCompose_MoodOnlyAboveThreshold(t *testing.T) {
	provider := &fakeProvider{reply: "ok"}
	c := newTestComposer(provider)

	c.Compose(context.Background(), "bored", &QueryIntent{DetectedMood: MoodBored, MoodConfidence: 55}, &PlanResult{Results: sampleResults(3)})
	c.Compose(context.Background(), "so bored!!", &QueryIntent{DetectedMood: MoodBored, MoodConfidence: 75}, &PlanResult{Results: sampleResults(3)})

	if provider.composeCalls[0].Mood != "" {
		t.Error("mood at 55 confidence must not reach the prompt")
	}
	if provider.composeCalls[1].Mood != string(MoodBored) {
		t.Errorf("mood at 75 confidence must reach the prompt, got %q", provider.composeCalls[1].Mood)
	}
}

func TestCompose_FallsBackToFixedReplyOnError(t *testing.T) {
	provider := &fakeProvider{replyErr: errors.New("model unavailable")}
	c := newTestComposer(provider)

	got := c.Compose(context.Background(), "sıkıldım", &QueryIntent{
		Language:       "tr",
		DetectedMood:   MoodBored,
		MoodConfidence: 70,
	}, &PlanResult{Results: sampleResults(4)})

	langs := DefaultLanguageTables()
	ack := langs.MoodAck("tr", MoodBored)
	if ack == "" || !strings.HasPrefix(got, ack) {
		t.Errorf("fixed reply must open with the mood acknowledgement, got %q", got)
	}
	if !strings.Contains(got, "4") {
		t.Errorf("fixed reply must state the true count, got %q", got)
	}
}

func TestCompose_BlankReplyFallsBack(t *testing.T) {
	provider := &fakeProvider{reply: "   "}
	c := newTestComposer(provider)

	got := c.Compose(context.Background(), "comedies", &QueryIntent{Language: "en"}, &PlanResult{Results: sampleResults(2)})

	if !strings.Contains(got, "2") {
		t.Errorf("blank model reply must fall back to the fixed message, got %q", got)
	}
}

func TestCompose_KnowledgeFallbackWhenCertain(t *testing.T) {
	provider := &fakeProvider{knowledge: &llm.KnowledgeAnswer{Answer: "That's from The Matrix (1999).", Certain: true}}
	c := newTestComposer(provider)

	got := c.Compose(context.Background(), "what movie is the red pill scene from", &QueryIntent{Language: "en"}, &PlanResult{})

	if got != "That's from The Matrix (1999)." {
		t.Errorf("certain knowledge answer must be returned, got %q", got)
	}
	if provider.knowledgeCalls != 1 {
		t.Errorf("expected one knowledge call, got %d", provider.knowledgeCalls)
	}
}

func TestCompose_KnowledgeFallbackUncertain(t *testing.T) {
	provider := &fakeProvider{knowledge: &llm.KnowledgeAnswer{Answer: "Maybe Inception?", Certain: false}}
	c := newTestComposer(provider)

	got := c.Compose(context.Background(), "scene where the city folds", &QueryIntent{Language: "en"}, &PlanResult{})

	langs := DefaultLanguageTables()
	if got != langs.NoResultsMessage("en") {
		t.Errorf("uncertain answers must not be surfaced, got %q", got)
	}
}

func TestCompose_NoKnowledgeCallForPlainZeroResults(t *testing.T) {
	provider := &fakeProvider{}
	c := newTestComposer(provider)

	got := c.Compose(context.Background(), "turkish space westerns from the 50s", &QueryIntent{Language: "en"}, &PlanResult{})

	langs := DefaultLanguageTables()
	if got != langs.NoResultsMessage("en") {
		t.Errorf("unexpected zero-result reply: %q", got)
	}
	if provider.knowledgeCalls != 0 {
		t.Error("plain zero-result filters must not trigger the knowledge fallback")
	}
}

func TestClassifyKnowledgeQuery(t *testing.T) {
	tests := []struct {
		query string
		want  string
	}{
		{"what movie is this quote from", "scene"},
		{"bu replik hangi filmden", "scene"},
		{"who played the joker in 2008", "factual"},
		{"heath ledger ne zaman öldü", "factual"},
		{"sad romantic comedies", ""},
	}
	for _, tt := range tests {
		if got := classifyKnowledgeQuery(tt.query); got != tt.want {
			t.Errorf("classifyKnowledgeQuery(%q) = %q, want %q", tt.query, got, tt.want)
		}
	}
}

func TestPersonSummaryAndContentSummary(t *testing.T) {
	person := personSummary(&PersonInfo{
		Name:         "Tom Hanks",
		Birthday:     "1956-07-09",
		PlaceOfBirth: "Concord, California, USA",
		Department:   "Acting",
	})
	if !strings.Contains(person, "Tom Hanks") || !strings.Contains(person, "born 1956-07-09") {
		t.Errorf("unexpected person summary: %q", person)
	}

	content := contentSummary(&ContentInfo{
		Title:       "Fight Club",
		ReleaseDate: "1999-10-15",
		Rating:      8.4,
		Runtime:     139,
		Director:    "David Fincher",
		Genres:      []string{"Drama"},
	})
	if !strings.Contains(content, "Fight Club (1999-10-15)") || !strings.Contains(content, "directed by David Fincher") {
		t.Errorf("unexpected content summary: %q", content)
	}

	if personSummary(nil) != "" || contentSummary(nil) != "" {
		t.Error("nil infos must summarize to empty strings")
	}
}
