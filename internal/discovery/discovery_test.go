package discovery

import (
	"context"
	"net/http"
	"net/http/httptest"

	"github.com/rs/zerolog"

	"github.com/streamsage/streamsage/internal/catalog"
	"github.com/streamsage/streamsage/internal/catalog/tmdb"
	"github.com/streamsage/streamsage/internal/config"
	"github.com/streamsage/streamsage/internal/llm"
)

// fakeProvider is a canned llm.Provider for pipeline tests.
type fakeProvider struct {
	intent       *llm.Intent
	parseErr     error
	reply        string
	replyErr     error
	knowledge    *llm.KnowledgeAnswer
	knowledgeErr error

	composeCalls   []llm.ComposeInput
	knowledgeCalls int
	unconfigured   bool
}

func (f *fakeProvider) Name() string       { return "fake" }
func (f *fakeProvider) IsConfigured() bool { return !f.unconfigured }
func (f *fakeProvider) Close() error       { return nil }

func (f *fakeProvider) ParseQueryIntent(ctx context.Context, query string, history []llm.Turn) (*llm.Intent, error) {
	if f.parseErr != nil {
		return nil, f.parseErr
	}
	if f.intent == nil {
		return &llm.Intent{}, nil
	}
	cp := *f.intent
	return &cp, nil
}

func (f *fakeProvider) ComposeReply(ctx context.Context, in llm.ComposeInput) (string, error) {
	f.composeCalls = append(f.composeCalls, in)
	if f.replyErr != nil {
		return "", f.replyErr
	}
	return f.reply, nil
}

func (f *fakeProvider) AnswerFromKnowledge(ctx context.Context, query, language string) (*llm.KnowledgeAnswer, error) {
	f.knowledgeCalls++
	if f.knowledgeErr != nil {
		return nil, f.knowledgeErr
	}
	if f.knowledge == nil {
		return &llm.KnowledgeAnswer{}, nil
	}
	return f.knowledge, nil
}

// newTestCatalog builds a catalog service against a fake TMDB server.
func newTestCatalog(serverURL string) *catalog.Service {
	client := tmdb.NewClient(config.TMDBConfig{
		APIKey:  "test-key",
		BaseURL: serverURL,
		Timeout: 5,
	}, zerolog.Nop())
	return catalog.NewService(client, catalog.NewMemoryStore(500), 0, zerolog.Nop())
}

// testDiscoveryConfig mirrors the production defaults with the
// inter-page delay removed.
func testDiscoveryConfig() config.DiscoveryConfig {
	return config.DiscoveryConfig{
		MinResults:       5,
		MaxPages:         5,
		PageDelayMs:      0,
		ResultCap:        100,
		MaxActiveFilters: 3,
		GenreCap:         2,
		VoteFloorHigh:    300,
		VoteFloorMid:     200,
		VoteFloorLow:     100,
		VoteFloorDefault: 50,
	}
}

func newTestParser(provider llm.Provider) *Parser {
	return NewParser(provider, DefaultFilterTables(), DefaultMoodTables(), DefaultLanguageTables(), zerolog.Nop())
}

func newTestPlanner(serverURL string) *Planner {
	return NewPlanner(newTestCatalog(serverURL), DefaultFilterTables(), testDiscoveryConfig(), zerolog.Nop())
}

// emptyCatalogServer answers every endpoint with an empty result page.
func emptyCatalogServer() *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"page": 1, "total_pages": 1, "total_results": 0, "results": []}`))
	}))
}
