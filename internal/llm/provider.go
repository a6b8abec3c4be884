package llm

import (
	"context"
	"errors"
)

var (
	ErrNotConfigured = errors.New("completion service is not configured")
	ErrNoCandidates  = errors.New("no response candidates from completion service")
)

// Provider is a text-completion service used for intent parsing and
// reply composition.
type Provider interface {
	Name() string
	IsConfigured() bool

	// ParseQueryIntent interprets a free-text query plus conversation
	// history into a structured Intent.
	ParseQueryIntent(ctx context.Context, query string, history []Turn) (*Intent, error)

	// ComposeReply writes a one-to-two-sentence reply referencing only
	// the data in the input.
	ComposeReply(ctx context.Context, in ComposeInput) (string, error)

	// AnswerFromKnowledge answers a factual or scene-identification
	// question from model knowledge, self-reporting certainty.
	AnswerFromKnowledge(ctx context.Context, query, language string) (*KnowledgeAnswer, error)

	Close() error
}
