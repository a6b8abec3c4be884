package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"

	"github.com/streamsage/streamsage/internal/config"
)

const defaultRequestTimeout = 30 * time.Second

// Gemini implements Provider using Google's Gemini models.
type Gemini struct {
	client  *genai.Client
	config  config.LLMConfig
	timeout time.Duration
	logger  zerolog.Logger

	// Separate model handles: parsing wants near-deterministic JSON,
	// composition wants some warmth.
	parseModel   *genai.GenerativeModel
	composeModel *genai.GenerativeModel
	answerModel  *genai.GenerativeModel
}

// NewGemini initializes a Gemini-backed provider. Returns a provider
// that reports IsConfigured() == false when the API key is empty, so
// callers can degrade instead of failing at startup.
func NewGemini(ctx context.Context, cfg config.LLMConfig, logger zerolog.Logger) (*Gemini, error) {
	g := &Gemini{
		config:  cfg,
		timeout: defaultRequestTimeout,
		logger:  logger.With().Str("component", "llm").Logger(),
	}
	if cfg.Timeout > 0 {
		g.timeout = time.Duration(cfg.Timeout) * time.Second
	}

	if cfg.APIKey == "" {
		return g, nil
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	g.client = client

	parseModel := client.GenerativeModel(cfg.Model)
	parseModel.ResponseMIMEType = "application/json"
	parseModel.SetTemperature(0.1)
	g.parseModel = parseModel

	composeModel := client.GenerativeModel(cfg.Model)
	composeModel.SetTemperature(cfg.Temperature)
	g.composeModel = composeModel

	answerModel := client.GenerativeModel(cfg.Model)
	answerModel.ResponseMIMEType = "application/json"
	answerModel.SetTemperature(0.2)
	g.answerModel = answerModel

	return g, nil
}

// Name returns the provider name.
func (g *Gemini) Name() string {
	return "gemini"
}

// IsConfigured returns true if the API key is set.
func (g *Gemini) IsConfigured() bool {
	return g.client != nil
}

// Close releases the underlying client.
func (g *Gemini) Close() error {
	if g.client == nil {
		return nil
	}
	return g.client.Close()
}

// ParseQueryIntent interprets a free-text query into a structured Intent.
func (g *Gemini) ParseQueryIntent(ctx context.Context, query string, history []Turn) (*Intent, error) {
	if !g.IsConfigured() {
		return nil, ErrNotConfigured
	}

	prompt := buildIntentPrompt(query, history)

	text, err := g.generate(ctx, g.parseModel, prompt)
	if err != nil {
		return nil, err
	}

	var intent Intent
	if err := json.Unmarshal([]byte(cleanJSONString(text)), &intent); err != nil {
		return nil, fmt.Errorf("failed to parse intent JSON: %w", err)
	}

	g.logger.Debug().
		Str("contentType", intent.ContentType).
		Str("mood", intent.DetectedMood).
		Bool("offTopic", intent.IsOffTopic).
		Msg("Parsed query intent")

	return &intent, nil
}

// ComposeReply writes the user-facing reply.
func (g *Gemini) ComposeReply(ctx context.Context, in ComposeInput) (string, error) {
	if !g.IsConfigured() {
		return "", ErrNotConfigured
	}

	prompt := buildComposePrompt(in)

	text, err := g.generate(ctx, g.composeModel, prompt)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(text), nil
}

// AnswerFromKnowledge answers a question from model knowledge with a
// self-reported certainty flag.
func (g *Gemini) AnswerFromKnowledge(ctx context.Context, query, language string) (*KnowledgeAnswer, error) {
	if !g.IsConfigured() {
		return nil, ErrNotConfigured
	}

	prompt := buildKnowledgePrompt(query, language)

	text, err := g.generate(ctx, g.answerModel, prompt)
	if err != nil {
		return nil, err
	}

	var answer KnowledgeAnswer
	if err := json.Unmarshal([]byte(cleanJSONString(text)), &answer); err != nil {
		return nil, fmt.Errorf("failed to parse knowledge answer: %w", err)
	}

	return &answer, nil
}

// generate runs one completion under the configured per-call deadline
// and concatenates the text parts.
func (g *Gemini) generate(ctx context.Context, model *genai.GenerativeModel, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("completion request failed: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrNoCandidates
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}

	return sb.String(), nil
}

// buildIntentPrompt constructs the intent-extraction instructions.
func buildIntentPrompt(query string, history []Turn) string {
	var sb strings.Builder

	sb.WriteString(`Role: You are the query-interpretation core of a movie and TV discovery assistant.
Interpret the user's latest message into a structured search intent.

RULES (apply in this order):

1. OFF-TOPIC: If the message has nothing to do with movies, TV, actors,
   directors, streaming, or what to watch, set "isOffTopic": true and leave
   everything else at defaults.

2. MOOD: Detect an emotional state if one is expressed, in any language.
   Allowed moods: sad, happy, bored, excited, tired, relaxed, stressed,
   romantic, nostalgic, angry. Set "moodConfidence" 0-100. A detected mood is
   never discarded because other filters are also present.

3. PERSON QUESTIONS: Biographical questions ("who is X", "how old is X") set
   "isPersonInfoQuery": true and "personName". Requests for a person's
   movies/shows set "personName" with "isPersonInfoQuery": false. Set
   "personRole" to director, actor, or any.

4. TITLE QUESTIONS: Factual questions about one specific title ("when did X
   release", "what is X about") set "isContentInfoQuery": true and
   "specificTitle".

5. TRENDING: Explicit trending/popular requests set "useTrendingAPI": true —
   but never when a mood was detected; mood wins.

6. AVAILABILITY: "is X available", "where can I watch X" sets "specificTitle"
   and any named "providers".

7. CONTENT TYPE: movie, tv, or both. Respect language-specific idioms for
   series vs film words.

8. FILTERS: Extract genres (canonical English names), streaming providers,
   production countries and spoken languages (ISO codes), year ranges, runtime
   or season bounds, free-text keywords and location phrases. Set "minRating"
   ONLY for explicit quality language ("best", "top rated", "highly rated");
   vague positives ("good", "nice") leave it 0.

9. VAGUE: If no mood, person, title, or concrete filter was found, set
   "isVagueQuery": true and "useTrendingAPI": true.

CONVERSATION HISTORY is context for disambiguation only; it never overrides
what the latest message says. Set "topicChanged": true when the latest message
abandons the previous subject.

Set "language" to the ISO 639-1 code of the message's language.

Output JSON schema:
{
  "contentType": "movie" | "tv" | "both",
  "genres": ["string"],
  "providers": ["string"],
  "minRating": number, "maxRating": number,
  "yearStart": integer, "yearEnd": integer,
  "sortOrder": "popularity_desc" | "rating_desc" | "release_date_desc",
  "keywords": ["string"], "locationKeywords": ["string"],
  "productionCountries": ["ISO 3166-1"], "spokenLanguages": ["ISO 639-1"],
  "personName": "string", "personRole": "director" | "actor" | "any",
  "directorName": "string", "actorNames": ["string"],
  "specificTitle": "string",
  "minSeasons": integer, "maxSeasons": integer,
  "minRuntime": integer, "maxRuntime": integer,
  "certification": "string",
  "detectedMood": "string", "moodConfidence": integer,
  "isVagueQuery": boolean, "isPersonInfoQuery": boolean,
  "isContentInfoQuery": boolean, "isOffTopic": boolean,
  "useTrendingAPI": boolean, "topicChanged": boolean,
  "language": "ISO 639-1"
}
Use "" / 0 / [] / false for anything not expressed.
`)

	if len(history) > 0 {
		sb.WriteString("\nConversation history:\n")
		for _, turn := range history {
			fmt.Fprintf(&sb, "%s: %s\n", turn.Role, turn.Content)
		}
	}

	fmt.Fprintf(&sb, "\nUser message: %s", query)

	return sb.String()
}

// buildComposePrompt constructs the reply-writing instructions. The
// prompt carries only the true count and the top result summaries so the
// model has nothing else to cite.
func buildComposePrompt(in ComposeInput) string {
	var sb strings.Builder

	sb.WriteString(`Role: You write the short reply of a movie and TV discovery assistant.

HARD CONSTRAINTS — violating any of these is a failure:
- Reply in one or two sentences, in the language of language code "`)
	sb.WriteString(in.Language)
	sb.WriteString(`".
- You may mention ONLY the result count and titles/years/ratings listed below.
- NEVER invent a number, a title, cast, crew, or plot details.
- NEVER mention results beyond the listed ones, even to say more exist.
- No markdown formatting.
`)

	fmt.Fprintf(&sb, "\nResult count: %d\n", in.ResultCount)

	if len(in.TopResults) > 0 {
		sb.WriteString("Top results:\n")
		for _, r := range in.TopResults {
			fmt.Fprintf(&sb, "- %s (%s, rated %.1f)\n", r.Title, r.Year, r.Rating)
		}
	}

	if in.PersonSummary != "" {
		fmt.Fprintf(&sb, "Person facts (may be referenced verbatim): %s\n", in.PersonSummary)
	}
	if in.ContentSummary != "" {
		fmt.Fprintf(&sb, "Title facts (may be referenced verbatim): %s\n", in.ContentSummary)
	}

	if in.Mood != "" && in.MoodConfidence > 0 {
		fmt.Fprintf(&sb, "The user seems to feel %s; acknowledge that briefly and warmly before the count.\n", in.Mood)
	}

	fmt.Fprintf(&sb, "\nUser query: %s", in.Query)

	return sb.String()
}

// buildKnowledgePrompt constructs the knowledge-fallback instructions.
func buildKnowledgePrompt(query, language string) string {
	return fmt.Sprintf(`Role: You answer movie and TV trivia for a discovery assistant.

The catalog search found nothing for the question below. Answer ONLY from
knowledge you are fully certain of.

- If you are completely certain, set "certain": true and give a one-to-two
  sentence answer in the language of language code %q.
- If you have any doubt at all, set "certain": false and leave "answer" empty.
  Guessing is worse than declining.

Output JSON schema: {"answer": "string", "certain": boolean}

Question: %s`, language, query)
}

// cleanJSONString strips markdown code fences if present.
func cleanJSONString(input string) string {
	input = strings.TrimSpace(input)
	input = strings.TrimPrefix(input, "```json")
	input = strings.TrimPrefix(input, "```")
	input = strings.TrimSuffix(input, "```")
	return strings.TrimSpace(input)
}
