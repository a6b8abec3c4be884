package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/streamsage/streamsage/internal/catalog/tmdb"
)

// ErrPersonNotFound is returned when a person name resolves to nothing.
var ErrPersonNotFound = errors.New("person not found")

// Cache lifetimes for the slow-moving data classes. Genre tables and
// person identities change rarely; discover pages and trending churn
// daily and take their lifetime from configuration.
const (
	defaultTTLMinutes = 15

	ttlDetails = 6 * time.Hour
	ttlPerson  = 24 * time.Hour
	ttlGenres  = 24 * time.Hour
	ttlKeyword = 24 * time.Hour
)

// Service fronts the TMDB client with a read-through cache.
type Service struct {
	client *tmdb.Client
	store  Store
	logger zerolog.Logger

	ttlDiscover time.Duration
	ttlTrending time.Duration
}

// NewService creates a catalog service. ttlMinutes sets the lifetime
// of discover and search pages; trending lists keep four times that.
func NewService(client *tmdb.Client, store Store, ttlMinutes int, logger zerolog.Logger) *Service {
	if ttlMinutes <= 0 {
		ttlMinutes = defaultTTLMinutes
	}
	base := time.Duration(ttlMinutes) * time.Minute
	return &Service{
		client:      client,
		store:       store,
		logger:      logger.With().Str("component", "catalog").Logger(),
		ttlDiscover: base,
		ttlTrending: 4 * base,
	}
}

// IsConfigured reports whether the underlying catalog client has
// credentials.
func (s *Service) IsConfigured() bool {
	return s.client.IsConfigured()
}

// Test verifies connectivity to the catalog provider.
func (s *Service) Test(ctx context.Context) error {
	return s.client.Test(ctx)
}

// Discover runs a discover query, serving repeated queries from cache.
func (s *Service) Discover(ctx context.Context, contentType tmdb.ContentType, q tmdb.DiscoverQuery) (*tmdb.DiscoverResponse, error) {
	key := fmt.Sprintf("discover:%s:%s", contentType, hashQuery(q))

	var cached tmdb.DiscoverResponse
	if getJSON(ctx, s.store, key, &cached) {
		return &cached, nil
	}

	resp, err := s.client.Discover(ctx, contentType, q)
	if err != nil {
		return nil, err
	}

	setJSON(ctx, s.store, key, resp, s.ttlDiscover)
	return resp, nil
}

// SearchContent searches by title.
func (s *Service) SearchContent(ctx context.Context, contentType tmdb.ContentType, query string, year int) (*tmdb.DiscoverResponse, error) {
	key := fmt.Sprintf("search:%s:%s:%d", contentType, normalizeKey(query), year)

	var cached tmdb.DiscoverResponse
	if getJSON(ctx, s.store, key, &cached) {
		return &cached, nil
	}

	resp, err := s.client.SearchContent(ctx, contentType, query, year)
	if err != nil {
		return nil, err
	}

	setJSON(ctx, s.store, key, resp, s.ttlDiscover)
	return resp, nil
}

// Trending fetches the daily trending list.
func (s *Service) Trending(ctx context.Context, contentType tmdb.ContentType, page int) (*tmdb.DiscoverResponse, error) {
	key := fmt.Sprintf("trending:%s:%d", contentType, page)

	var cached tmdb.DiscoverResponse
	if getJSON(ctx, s.store, key, &cached) {
		return &cached, nil
	}

	resp, err := s.client.Trending(ctx, contentType, page)
	if err != nil {
		return nil, err
	}

	setJSON(ctx, s.store, key, resp, s.ttlTrending)
	return resp, nil
}

// ResolvePerson resolves a free-text name to the most popular matching
// person in the catalog.
func (s *Service) ResolvePerson(ctx context.Context, name string) (*tmdb.PersonResult, error) {
	key := "person:resolve:" + normalizeKey(name)

	var cached tmdb.PersonResult
	if getJSON(ctx, s.store, key, &cached) {
		return &cached, nil
	}

	results, err := s.client.SearchPerson(ctx, name)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrPersonNotFound, name)
	}

	best := results[0]
	for _, r := range results[1:] {
		if r.Popularity > best.Popularity {
			best = r
		}
	}

	setJSON(ctx, s.store, key, &best, ttlPerson)
	return &best, nil
}

// PersonDetails fetches detailed person info.
func (s *Service) PersonDetails(ctx context.Context, id int) (*tmdb.PersonDetails, error) {
	key := fmt.Sprintf("person:details:%d", id)

	var cached tmdb.PersonDetails
	if getJSON(ctx, s.store, key, &cached) {
		return &cached, nil
	}

	details, err := s.client.GetPerson(ctx, id)
	if err != nil {
		return nil, err
	}

	setJSON(ctx, s.store, key, details, ttlPerson)
	return details, nil
}

// PersonCredits fetches a person's combined credits.
func (s *Service) PersonCredits(ctx context.Context, id int) (*tmdb.CombinedCreditsResponse, error) {
	key := fmt.Sprintf("person:credits:%d", id)

	var cached tmdb.CombinedCreditsResponse
	if getJSON(ctx, s.store, key, &cached) {
		return &cached, nil
	}

	credits, err := s.client.GetPersonCredits(ctx, id)
	if err != nil {
		return nil, err
	}

	setJSON(ctx, s.store, key, credits, ttlPerson)
	return credits, nil
}

// MovieDetails fetches detailed movie info with credits.
func (s *Service) MovieDetails(ctx context.Context, id int) (*tmdb.MovieDetails, error) {
	key := fmt.Sprintf("movie:%d", id)

	var cached tmdb.MovieDetails
	if getJSON(ctx, s.store, key, &cached) {
		return &cached, nil
	}

	details, err := s.client.GetMovie(ctx, id)
	if err != nil {
		return nil, err
	}

	setJSON(ctx, s.store, key, details, ttlDetails)
	return details, nil
}

// SeriesDetails fetches detailed series info with credits.
func (s *Service) SeriesDetails(ctx context.Context, id int) (*tmdb.TVDetails, error) {
	key := fmt.Sprintf("tv:%d", id)

	var cached tmdb.TVDetails
	if getJSON(ctx, s.store, key, &cached) {
		return &cached, nil
	}

	details, err := s.client.GetSeries(ctx, id)
	if err != nil {
		return nil, err
	}

	setJSON(ctx, s.store, key, details, ttlDetails)
	return details, nil
}

// Similar fetches titles similar to the given one.
func (s *Service) Similar(ctx context.Context, contentType tmdb.ContentType, id int) (*tmdb.DiscoverResponse, error) {
	key := fmt.Sprintf("similar:%s:%d", contentType, id)

	var cached tmdb.DiscoverResponse
	if getJSON(ctx, s.store, key, &cached) {
		return &cached, nil
	}

	resp, err := s.client.GetSimilar(ctx, contentType, id)
	if err != nil {
		return nil, err
	}

	setJSON(ctx, s.store, key, resp, ttlDetails)
	return resp, nil
}

// WatchProviders fetches regional streaming availability for a title.
func (s *Service) WatchProviders(ctx context.Context, contentType tmdb.ContentType, id int) (*tmdb.WatchProvidersResponse, error) {
	key := fmt.Sprintf("providers:%s:%d", contentType, id)

	var cached tmdb.WatchProvidersResponse
	if getJSON(ctx, s.store, key, &cached) {
		return &cached, nil
	}

	resp, err := s.client.GetWatchProviders(ctx, contentType, id)
	if err != nil {
		return nil, err
	}

	setJSON(ctx, s.store, key, resp, ttlDetails)
	return resp, nil
}

// Genres fetches the localized genre table for a content type.
func (s *Service) Genres(ctx context.Context, contentType tmdb.ContentType, language string) ([]tmdb.Genre, error) {
	key := fmt.Sprintf("genres:%s:%s", contentType, language)

	var cached []tmdb.Genre
	if getJSON(ctx, s.store, key, &cached) {
		return cached, nil
	}

	genres, err := s.client.GetGenres(ctx, contentType, language)
	if err != nil {
		return nil, err
	}

	setJSON(ctx, s.store, key, genres, ttlGenres)
	return genres, nil
}

// ResolveKeyword resolves a free-text term to a catalog keyword ID.
// Prefers an exact name match, otherwise the first result. Returns 0
// when the term matches nothing.
func (s *Service) ResolveKeyword(ctx context.Context, term string) (int, error) {
	key := "keyword:" + normalizeKey(term)

	var cached int
	if getJSON(ctx, s.store, key, &cached) {
		return cached, nil
	}

	keywords, err := s.client.SearchKeyword(ctx, term)
	if err != nil {
		return 0, err
	}

	id := 0
	if len(keywords) > 0 {
		id = keywords[0].ID
		for _, kw := range keywords {
			if strings.EqualFold(kw.Name, term) {
				id = kw.ID
				break
			}
		}
	}

	setJSON(ctx, s.store, key, id, ttlKeyword)
	return id, nil
}

// ImageURL builds a full poster/profile URL for a catalog image path.
func (s *Service) ImageURL(path, size string) string {
	return s.client.GetImageURL(path, size)
}

// hashQuery derives a stable cache key fragment from a discover query.
func hashQuery(q tmdb.DiscoverQuery) string {
	data, _ := json.Marshal(q)
	h := fnv.New64a()
	h.Write(data)
	return fmt.Sprintf("%x", h.Sum64())
}

// normalizeKey lowercases and collapses whitespace for cache keys.
func normalizeKey(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
