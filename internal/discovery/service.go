package discovery

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/streamsage/streamsage/internal/catalog"
	"github.com/streamsage/streamsage/internal/config"
	"github.com/streamsage/streamsage/internal/llm"
)

var (
	// ErrEmptyQuery rejects requests without a usable query before any
	// external call is made.
	ErrEmptyQuery = errors.New("query is required")

	// ErrNotConfigured signals missing catalog or completion credentials.
	ErrNotConfigured = errors.New("discovery service is not configured")
)

// Service runs the full pipeline: parse, plan, compose. Stateless across
// requests; all context arrives in the request payload.
type Service struct {
	parser   *Parser
	planner  *Planner
	composer *Composer
	provider llm.Provider
	catalog  *catalog.Service
	logger   zerolog.Logger
}

// NewService wires the pipeline with the default lookup tables.
func NewService(provider llm.Provider, catalogSvc *catalog.Service, cfg config.DiscoveryConfig, logger zerolog.Logger) *Service {
	filters := DefaultFilterTables()
	langs := DefaultLanguageTables()

	return &Service{
		parser:   NewParser(provider, filters, DefaultMoodTables(), langs, logger),
		planner:  NewPlanner(catalogSvc, filters, cfg, logger),
		composer: NewComposer(provider, langs, logger),
		provider: provider,
		catalog:  catalogSvc,
		logger:   logger.With().Str("component", "discovery").Logger(),
	}
}

// IsConfigured reports whether both outbound collaborators have
// credentials.
func (s *Service) IsConfigured() bool {
	return s.provider.IsConfigured() && s.catalog.IsConfigured()
}

// Discover handles one request end to end.
func (s *Service) Discover(ctx context.Context, req Request) (*Response, error) {
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if !s.IsConfigured() {
		return nil, ErrNotConfigured
	}

	country := strings.ToUpper(strings.TrimSpace(req.CountryCode))
	if country == "" {
		country = "US"
	}

	intent, err := s.parser.Parse(ctx, query, req.ConversationHistory, country)
	if err != nil {
		s.logger.Error().Err(err).Str("query", query).Str("stage", "parse").Msg("Discovery request failed")
		return nil, err
	}

	plan := &PlanResult{}
	if !intent.IsOffTopic {
		plan, err = s.planner.Plan(ctx, intent)
		if err != nil {
			s.logger.Error().Err(err).Str("query", query).Str("stage", "plan").Msg("Discovery request failed")
			return nil, err
		}
	}

	text := s.composer.Compose(ctx, query, intent, plan)

	results := plan.Results
	if results == nil {
		results = []SearchResult{}
	}

	return &Response{
		Success:        true,
		Results:        results,
		ResponseText:   text,
		IsOffTopic:     intent.IsOffTopic,
		TopicChanged:   intent.TopicChanged,
		Params:         intent,
		PersonInfo:     plan.PersonInfo,
		ContentInfo:    plan.ContentInfo,
		DetectedMood:   intent.DetectedMood,
		MoodConfidence: intent.MoodConfidence,
		IsVagueQuery:   intent.IsVagueQuery,
	}, nil
}
