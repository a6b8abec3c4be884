package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/streamsage/streamsage/internal/config"
)

var (
	ErrAPIKeyMissing = errors.New("TMDB API key is not configured")
	ErrNotFound      = errors.New("not found")
	ErrAPIError      = errors.New("TMDB API error")
	ErrRateLimited   = errors.New("TMDB API rate limited")
)

// ContentType selects the movie or TV side of the catalog.
type ContentType string

const (
	ContentTypeMovie ContentType = "movie"
	ContentTypeTV    ContentType = "tv"
)

// DiscoverQuery encodes one call to the TMDB discover endpoint.
// Zero values mean "dimension not constrained".
type DiscoverQuery struct {
	Page                 int
	SortBy               string // popularity.desc, vote_average.desc, primary_release_date.desc
	Genres               []int
	Providers            []int
	WatchRegion          string
	VoteAverageGTE       float64
	VoteAverageLTE       float64
	VoteCountGTE         int
	DateFrom             string // YYYY-MM-DD, release date (movie) or first air date (tv)
	DateTo               string
	Keywords             []int // keyword IDs, OR-combined
	People               []int
	Cast                 []int
	Crew                 []int
	OriginCountry        string // ISO 3166-1
	OriginalLanguage     string // ISO 639-1
	RuntimeGTE           int    // minutes, movies only
	RuntimeLTE           int
	Certification        string
	CertificationCountry string
	IncludeAdult         bool
	Language             string // response locale, e.g. "en-US"
}

// Client is a TMDB API client.
type Client struct {
	httpClient *http.Client
	config     config.TMDBConfig
	logger     zerolog.Logger
}

// NewClient creates a new TMDB client.
func NewClient(cfg config.TMDBConfig, logger zerolog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
		config: cfg,
		logger: logger.With().Str("component", "tmdb").Logger(),
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return "tmdb"
}

// IsConfigured returns true if the API key is set.
func (c *Client) IsConfigured() bool {
	return c.config.APIKey != ""
}

// Test verifies connectivity to the TMDB API by making a configuration request.
func (c *Client) Test(ctx context.Context) error {
	if !c.IsConfigured() {
		return ErrAPIKeyMissing
	}

	endpoint := fmt.Sprintf("%s/configuration", c.config.BaseURL)

	var result struct {
		Images struct {
			BaseURL string `json:"base_url"`
		} `json:"images"`
	}

	return c.doRequest(ctx, endpoint, url.Values{}, &result)
}

// Discover runs one discover call for the given content type and query.
func (c *Client) Discover(ctx context.Context, contentType ContentType, q DiscoverQuery) (*DiscoverResponse, error) {
	if !c.IsConfigured() {
		return nil, ErrAPIKeyMissing
	}

	endpoint := fmt.Sprintf("%s/discover/%s", c.config.BaseURL, contentType)
	params := q.encode(contentType)

	var response DiscoverResponse
	if err := c.doRequest(ctx, endpoint, params, &response); err != nil {
		return nil, err
	}

	c.logger.Debug().
		Str("contentType", string(contentType)).
		Int("page", q.Page).
		Int("results", len(response.Results)).
		Int("totalPages", response.TotalPages).
		Msg("Discover completed")

	return &response, nil
}

// encode translates the query into TMDB discover parameters.
func (q DiscoverQuery) encode(contentType ContentType) url.Values {
	params := url.Values{}

	if q.Page > 0 {
		params.Set("page", strconv.Itoa(q.Page))
	}
	if q.SortBy != "" {
		params.Set("sort_by", q.SortBy)
	}
	if len(q.Genres) > 0 {
		params.Set("with_genres", joinInts(q.Genres, ","))
	}
	if len(q.Providers) > 0 {
		params.Set("with_watch_providers", joinInts(q.Providers, "|"))
		region := q.WatchRegion
		if region == "" {
			region = "US"
		}
		params.Set("watch_region", region)
	}
	if q.VoteAverageGTE > 0 {
		params.Set("vote_average.gte", strconv.FormatFloat(q.VoteAverageGTE, 'f', 1, 64))
	}
	if q.VoteAverageLTE > 0 {
		params.Set("vote_average.lte", strconv.FormatFloat(q.VoteAverageLTE, 'f', 1, 64))
	}
	if q.VoteCountGTE > 0 {
		params.Set("vote_count.gte", strconv.Itoa(q.VoteCountGTE))
	}

	dateField := "primary_release_date"
	if contentType == ContentTypeTV {
		dateField = "first_air_date"
	}
	if q.DateFrom != "" {
		params.Set(dateField+".gte", q.DateFrom)
	}
	if q.DateTo != "" {
		params.Set(dateField+".lte", q.DateTo)
	}

	if len(q.Keywords) > 0 {
		params.Set("with_keywords", joinInts(q.Keywords, "|"))
	}
	if len(q.People) > 0 {
		params.Set("with_people", joinInts(q.People, ","))
	}
	if len(q.Cast) > 0 && contentType == ContentTypeMovie {
		params.Set("with_cast", joinInts(q.Cast, ","))
	}
	if len(q.Crew) > 0 && contentType == ContentTypeMovie {
		params.Set("with_crew", joinInts(q.Crew, ","))
	}
	if q.OriginCountry != "" {
		params.Set("with_origin_country", q.OriginCountry)
	}
	if q.OriginalLanguage != "" {
		params.Set("with_original_language", q.OriginalLanguage)
	}
	if q.RuntimeGTE > 0 && contentType == ContentTypeMovie {
		params.Set("with_runtime.gte", strconv.Itoa(q.RuntimeGTE))
	}
	if q.RuntimeLTE > 0 && contentType == ContentTypeMovie {
		params.Set("with_runtime.lte", strconv.Itoa(q.RuntimeLTE))
	}
	if q.Certification != "" && contentType == ContentTypeMovie {
		params.Set("certification", q.Certification)
		country := q.CertificationCountry
		if country == "" {
			country = "US"
		}
		params.Set("certification_country", country)
	}
	if q.Language != "" {
		params.Set("language", q.Language)
	}
	params.Set("include_adult", strconv.FormatBool(q.IncludeAdult))

	return params
}

// SearchContent searches movies or series by title.
func (c *Client) SearchContent(ctx context.Context, contentType ContentType, query string, year int) (*DiscoverResponse, error) {
	if !c.IsConfigured() {
		return nil, ErrAPIKeyMissing
	}

	endpoint := fmt.Sprintf("%s/search/%s", c.config.BaseURL, contentType)
	params := url.Values{}
	params.Set("query", query)
	params.Set("include_adult", "false")
	if year > 0 {
		yearField := "year"
		if contentType == ContentTypeTV {
			yearField = "first_air_date_year"
		}
		params.Set(yearField, strconv.Itoa(year))
	}

	var response DiscoverResponse
	if err := c.doRequest(ctx, endpoint, params, &response); err != nil {
		return nil, err
	}

	c.logger.Debug().
		Str("contentType", string(contentType)).
		Str("query", query).
		Int("results", len(response.Results)).
		Msg("Title search completed")

	return &response, nil
}

// Trending fetches the daily trending list for a content type.
func (c *Client) Trending(ctx context.Context, contentType ContentType, page int) (*DiscoverResponse, error) {
	if !c.IsConfigured() {
		return nil, ErrAPIKeyMissing
	}

	endpoint := fmt.Sprintf("%s/trending/%s/day", c.config.BaseURL, contentType)
	params := url.Values{}
	if page > 0 {
		params.Set("page", strconv.Itoa(page))
	}

	var response DiscoverResponse
	if err := c.doRequest(ctx, endpoint, params, &response); err != nil {
		return nil, err
	}

	c.logger.Debug().
		Str("contentType", string(contentType)).
		Int("results", len(response.Results)).
		Msg("Trending fetch completed")

	return &response, nil
}

// SearchPerson searches for a person by name.
func (c *Client) SearchPerson(ctx context.Context, name string) ([]PersonResult, error) {
	if !c.IsConfigured() {
		return nil, ErrAPIKeyMissing
	}

	endpoint := fmt.Sprintf("%s/search/person", c.config.BaseURL)
	params := url.Values{}
	params.Set("query", name)
	params.Set("include_adult", "false")

	var response PersonSearchResponse
	if err := c.doRequest(ctx, endpoint, params, &response); err != nil {
		return nil, err
	}

	c.logger.Debug().
		Str("name", name).
		Int("results", len(response.Results)).
		Msg("Person search completed")

	return response.Results, nil
}

// GetPerson gets detailed person info by TMDB ID.
func (c *Client) GetPerson(ctx context.Context, id int) (*PersonDetails, error) {
	if !c.IsConfigured() {
		return nil, ErrAPIKeyMissing
	}

	endpoint := fmt.Sprintf("%s/person/%d", c.config.BaseURL, id)

	var details PersonDetails
	if err := c.doRequest(ctx, endpoint, url.Values{}, &details); err != nil {
		return nil, err
	}

	return &details, nil
}

// GetPersonCredits gets a person's combined movie and TV credits.
func (c *Client) GetPersonCredits(ctx context.Context, id int) (*CombinedCreditsResponse, error) {
	if !c.IsConfigured() {
		return nil, ErrAPIKeyMissing
	}

	endpoint := fmt.Sprintf("%s/person/%d/combined_credits", c.config.BaseURL, id)

	var response CombinedCreditsResponse
	if err := c.doRequest(ctx, endpoint, url.Values{}, &response); err != nil {
		return nil, err
	}

	c.logger.Debug().
		Int("personId", id).
		Int("cast", len(response.Cast)).
		Int("crew", len(response.Crew)).
		Msg("Got person credits")

	return &response, nil
}

// GetMovie gets detailed movie info with credits appended.
func (c *Client) GetMovie(ctx context.Context, id int) (*MovieDetails, error) {
	if !c.IsConfigured() {
		return nil, ErrAPIKeyMissing
	}

	endpoint := fmt.Sprintf("%s/movie/%d", c.config.BaseURL, id)
	params := url.Values{}
	params.Set("append_to_response", "credits")

	var details MovieDetails
	if err := c.doRequest(ctx, endpoint, params, &details); err != nil {
		return nil, err
	}

	return &details, nil
}

// GetSeries gets detailed TV series info with credits appended.
func (c *Client) GetSeries(ctx context.Context, id int) (*TVDetails, error) {
	if !c.IsConfigured() {
		return nil, ErrAPIKeyMissing
	}

	endpoint := fmt.Sprintf("%s/tv/%d", c.config.BaseURL, id)
	params := url.Values{}
	params.Set("append_to_response", "credits")

	var details TVDetails
	if err := c.doRequest(ctx, endpoint, params, &details); err != nil {
		return nil, err
	}

	return &details, nil
}

// GetSimilar fetches titles similar to the given one.
func (c *Client) GetSimilar(ctx context.Context, contentType ContentType, id int) (*DiscoverResponse, error) {
	if !c.IsConfigured() {
		return nil, ErrAPIKeyMissing
	}

	endpoint := fmt.Sprintf("%s/%s/%d/similar", c.config.BaseURL, contentType, id)

	var response DiscoverResponse
	if err := c.doRequest(ctx, endpoint, url.Values{}, &response); err != nil {
		return nil, err
	}

	return &response, nil
}

// GetWatchProviders fetches providers carrying a title, keyed by region.
func (c *Client) GetWatchProviders(ctx context.Context, contentType ContentType, id int) (*WatchProvidersResponse, error) {
	if !c.IsConfigured() {
		return nil, ErrAPIKeyMissing
	}

	endpoint := fmt.Sprintf("%s/%s/%d/watch/providers", c.config.BaseURL, contentType, id)

	var response WatchProvidersResponse
	if err := c.doRequest(ctx, endpoint, url.Values{}, &response); err != nil {
		return nil, err
	}

	return &response, nil
}

// SearchKeyword resolves a free-text term to catalog keyword entries.
func (c *Client) SearchKeyword(ctx context.Context, term string) ([]Keyword, error) {
	if !c.IsConfigured() {
		return nil, ErrAPIKeyMissing
	}

	endpoint := fmt.Sprintf("%s/search/keyword", c.config.BaseURL)
	params := url.Values{}
	params.Set("query", term)

	var response KeywordSearchResponse
	if err := c.doRequest(ctx, endpoint, params, &response); err != nil {
		return nil, err
	}

	return response.Results, nil
}

// GetGenres fetches the genre ID/name table for a content type and locale.
func (c *Client) GetGenres(ctx context.Context, contentType ContentType, language string) ([]Genre, error) {
	if !c.IsConfigured() {
		return nil, ErrAPIKeyMissing
	}

	endpoint := fmt.Sprintf("%s/genre/%s/list", c.config.BaseURL, contentType)
	params := url.Values{}
	if language != "" {
		params.Set("language", language)
	}

	var response GenreListResponse
	if err := c.doRequest(ctx, endpoint, params, &response); err != nil {
		return nil, err
	}

	return response.Genres, nil
}

// GetImageURL returns a full image URL for a given path and size.
// Size options: "w92", "w154", "w185", "w342", "w500", "w780", "original"
func (c *Client) GetImageURL(path string, size string) string {
	if path == "" {
		return ""
	}
	return fmt.Sprintf("%s/%s%s", c.config.ImageBaseURL, size, path)
}

// doRequest performs an HTTP GET request and decodes the JSON response.
func (c *Client) doRequest(ctx context.Context, endpoint string, params url.Values, result interface{}) error {
	params.Set("api_key", c.config.APIKey)
	reqURL := fmt.Sprintf("%s?%s", endpoint, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("url", endpoint).Msg("HTTP request failed")
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errResp ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil {
			c.logger.Error().
				Int("status", resp.StatusCode).
				Str("message", errResp.StatusMessage).
				Msg("TMDB API error")
		}

		switch resp.StatusCode {
		case http.StatusNotFound:
			return ErrNotFound
		case http.StatusUnauthorized:
			return fmt.Errorf("%w: invalid API key", ErrAPIError)
		case http.StatusTooManyRequests:
			return ErrRateLimited
		default:
			return fmt.Errorf("%w: status %d", ErrAPIError, resp.StatusCode)
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// joinInts joins integer IDs with the given separator.
func joinInts(ids []int, sep string) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, sep)
}
