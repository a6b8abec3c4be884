package discovery

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/streamsage/streamsage/internal/llm"
)

// moodAckThreshold is the mood confidence above which the reply opens
// with an empathetic acknowledgement.
const moodAckThreshold = 60

// composerTopResults caps how many results the completion prompt sees.
const composerTopResults = 5

// Composer writes the short user-facing reply. The completion service
// only ever sees the true count and the top result summaries; every
// degradation path falls back to fixed localized messages.
type Composer struct {
	provider llm.Provider
	langs    *LanguageTables
	logger   zerolog.Logger
}

// NewComposer creates a composer.
func NewComposer(provider llm.Provider, langs *LanguageTables, logger zerolog.Logger) *Composer {
	return &Composer{
		provider: provider,
		langs:    langs,
		logger:   logger.With().Str("component", "composer").Logger(),
	}
}

// Compose produces the reply text for a completed plan.
func (c *Composer) Compose(ctx context.Context, query string, intent *QueryIntent, plan *PlanResult) string {
	lang := intent.Language
	if lang == "" {
		lang = "en"
	}

	if intent.IsOffTopic {
		return c.langs.OffTopicMessage(lang)
	}

	if len(plan.Results) == 0 && plan.PersonInfo == nil && plan.ContentInfo == nil {
		return c.composeEmpty(ctx, query, lang)
	}

	in := llm.ComposeInput{
		Query:          query,
		Language:       lang,
		ResultCount:    len(plan.Results),
		TopResults:     summarize(plan.Results),
		PersonSummary:  personSummary(plan.PersonInfo),
		ContentSummary: contentSummary(plan.ContentInfo),
	}
	if intent.MoodConfidence > moodAckThreshold {
		in.Mood = string(intent.DetectedMood)
		in.MoodConfidence = intent.MoodConfidence
	}

	reply, err := c.provider.ComposeReply(ctx, in)
	if err != nil || strings.TrimSpace(reply) == "" {
		if err != nil {
			c.logger.Warn().Err(err).Str("query", query).Msg("Reply composition failed, using fixed message")
		}
		return c.fixedReply(intent, lang, len(plan.Results))
	}

	return reply
}

// composeEmpty handles the zero-result, zero-info case: knowledge
// fallback for scene/quote and factual questions, otherwise the fixed
// no-results message. The fixed message never involves a model call.
func (c *Composer) composeEmpty(ctx context.Context, query, lang string) string {
	if kind := classifyKnowledgeQuery(query); kind != "" {
		answer, err := c.provider.AnswerFromKnowledge(ctx, query, lang)
		if err != nil {
			c.logger.Warn().Err(err).Str("query", query).Str("kind", kind).Msg("Knowledge fallback failed")
		} else if answer.Certain && strings.TrimSpace(answer.Answer) != "" {
			return answer.Answer
		}
	}
	return c.langs.NoResultsMessage(lang)
}

// fixedReply is the deterministic reply used when the completion
// service cannot write one. It references only the true count.
func (c *Composer) fixedReply(intent *QueryIntent, lang string, count int) string {
	if count == 0 {
		return c.langs.NoResultsMessage(lang)
	}

	reply := fmt.Sprintf(c.langs.FoundResultsMessage(lang), count)
	if intent.MoodConfidence > moodAckThreshold {
		if ack := c.langs.MoodAck(lang, intent.DetectedMood); ack != "" {
			reply = ack + " " + reply
		}
	}
	return reply
}

// classifyKnowledgeQuery decides whether an unanswered query looks like
// a scene/quote identification or a factual question. Empty means
// neither; no knowledge fallback is attempted then.
func classifyKnowledgeQuery(query string) string {
	lower := strings.ToLower(query)

	sceneMarkers := []string{
		"what movie is", "which movie", "which film", "scene where", "that scene",
		"quote", "line from", "the movie where",
		"hangi film", "hangi dizi", "sahne", "replik",
		"qué película", "en qué película",
		"welcher film", "in welchem film",
		"quel film", "dans quel film",
	}
	for _, marker := range sceneMarkers {
		if strings.Contains(lower, marker) {
			return "scene"
		}
	}

	factualMarkers := []string{
		"when did", "when was", "who played", "who directed", "who wrote",
		"what year", "how many", "how long",
		"ne zaman", "kim oynadı", "kim yönetti", "kaç",
		"cuándo", "quién", "wann", "wer hat", "quand", "qui a",
	}
	for _, marker := range factualMarkers {
		if strings.Contains(lower, marker) {
			return "factual"
		}
	}

	return ""
}

// summarize reduces results to the top-5 title/year/rating lines the
// prompt may cite.
func summarize(results []SearchResult) []llm.ResultSummary {
	limit := len(results)
	if limit > composerTopResults {
		limit = composerTopResults
	}

	summaries := make([]llm.ResultSummary, 0, limit)
	for i := 0; i < limit; i++ {
		r := results[i]
		summaries = append(summaries, llm.ResultSummary{
			Title:  r.Title,
			Year:   r.Year(),
			Rating: r.VoteAverage,
		})
	}
	return summaries
}

// personSummary flattens person facts into one line for the prompt.
func personSummary(info *PersonInfo) string {
	if info == nil {
		return ""
	}

	var parts []string
	parts = append(parts, info.Name)
	if info.Birthday != "" {
		parts = append(parts, "born "+info.Birthday)
	}
	if info.PlaceOfBirth != "" {
		parts = append(parts, "in "+info.PlaceOfBirth)
	}
	if info.Deathday != "" {
		parts = append(parts, "died "+info.Deathday)
	}
	if info.Department != "" {
		parts = append(parts, "known for "+info.Department)
	}
	return strings.Join(parts, ", ")
}

// contentSummary flattens title facts into one line for the prompt.
func contentSummary(info *ContentInfo) string {
	if info == nil {
		return ""
	}

	var parts []string
	title := info.Title
	if info.ReleaseDate != "" {
		title += " (" + info.ReleaseDate + ")"
	}
	parts = append(parts, title)
	if info.Rating > 0 {
		parts = append(parts, fmt.Sprintf("rated %.1f", info.Rating))
	}
	if info.Runtime > 0 {
		parts = append(parts, fmt.Sprintf("%d minutes", info.Runtime))
	}
	if info.Seasons > 0 {
		parts = append(parts, fmt.Sprintf("%d seasons", info.Seasons))
	}
	if info.Director != "" {
		parts = append(parts, "directed by "+info.Director)
	}
	if len(info.Cast) > 0 {
		parts = append(parts, "starring "+strings.Join(info.Cast, ", "))
	}
	if len(info.Genres) > 0 {
		parts = append(parts, strings.Join(info.Genres, "/"))
	}
	return strings.Join(parts, ", ")
}
