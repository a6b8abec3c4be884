package tmdb

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/rs/zerolog"

	"github.com/streamsage/streamsage/internal/config"
)

func testClient(serverURL string) *Client {
	return NewClient(config.TMDBConfig{
		APIKey:       "test-key",
		BaseURL:      serverURL,
		ImageBaseURL: "https://image.tmdb.org/t/p",
		Timeout:      5,
	}, zerolog.Nop())
}

func TestIsConfigured(t *testing.T) {
	c := NewClient(config.TMDBConfig{}, zerolog.Nop())
	if c.IsConfigured() {
		t.Error("expected IsConfigured to be false without an API key")
	}

	c = NewClient(config.TMDBConfig{APIKey: "key"}, zerolog.Nop())
	if !c.IsConfigured() {
		t.Error("expected IsConfigured to be true with an API key")
	}
}

func TestDiscover_NotConfigured(t *testing.T) {
	c := NewClient(config.TMDBConfig{}, zerolog.Nop())
	_, err := c.Discover(context.Background(), ContentTypeMovie, DiscoverQuery{})
	if !errors.Is(err, ErrAPIKeyMissing) {
		t.Errorf("expected ErrAPIKeyMissing, got %v", err)
	}
}

func TestDiscover(t *testing.T) {
	var gotQuery url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/discover/movie" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"page": 1,
			"total_pages": 3,
			"total_results": 55,
			"results": [
				{"id": 550, "title": "Fight Club", "vote_average": 8.4, "vote_count": 26000, "release_date": "1999-10-15", "genre_ids": [18]},
				{"id": 680, "title": "Pulp Fiction", "vote_average": 8.5, "vote_count": 25000, "release_date": "1994-09-10", "genre_ids": [80, 53]}
			]
		}`))
	}))
	defer server.Close()

	c := testClient(server.URL)
	resp, err := c.Discover(context.Background(), ContentTypeMovie, DiscoverQuery{
		Page:           2,
		SortBy:         "popularity.desc",
		Genres:         []int{18, 80},
		Providers:      []int{8, 337},
		VoteAverageGTE: 7.5,
		VoteCountGTE:   300,
		DateFrom:       "1990-01-01",
		Cast:           []int{31},
	})
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}
	if len(resp.Results) != 2 {
		t.Errorf("expected 2 results, got %d", len(resp.Results))
	}
	if resp.TotalPages != 3 {
		t.Errorf("expected 3 total pages, got %d", resp.TotalPages)
	}
	if resp.Results[0].Title != "Fight Club" {
		t.Errorf("unexpected first title: %s", resp.Results[0].Title)
	}

	if gotQuery.Get("api_key") != "test-key" {
		t.Error("API key not sent")
	}
	if gotQuery.Get("page") != "2" {
		t.Errorf("unexpected page: %s", gotQuery.Get("page"))
	}
	if gotQuery.Get("with_genres") != "18,80" {
		t.Errorf("unexpected with_genres: %s", gotQuery.Get("with_genres"))
	}
	if gotQuery.Get("with_watch_providers") != "8|337" {
		t.Errorf("unexpected with_watch_providers: %s", gotQuery.Get("with_watch_providers"))
	}
	if gotQuery.Get("watch_region") != "US" {
		t.Errorf("expected default watch_region US, got %s", gotQuery.Get("watch_region"))
	}
	if gotQuery.Get("vote_average.gte") != "7.5" {
		t.Errorf("unexpected vote_average.gte: %s", gotQuery.Get("vote_average.gte"))
	}
	if gotQuery.Get("vote_count.gte") != "300" {
		t.Errorf("unexpected vote_count.gte: %s", gotQuery.Get("vote_count.gte"))
	}
	if gotQuery.Get("primary_release_date.gte") != "1990-01-01" {
		t.Errorf("unexpected primary_release_date.gte: %s", gotQuery.Get("primary_release_date.gte"))
	}
	if gotQuery.Get("with_cast") != "31" {
		t.Errorf("unexpected with_cast: %s", gotQuery.Get("with_cast"))
	}
	if gotQuery.Get("include_adult") != "false" {
		t.Errorf("expected include_adult=false, got %s", gotQuery.Get("include_adult"))
	}
}

func TestDiscover_TVDateField(t *testing.T) {
	var gotQuery url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/discover/tv" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"page": 1, "total_pages": 1, "total_results": 0, "results": []}`))
	}))
	defer server.Close()

	c := testClient(server.URL)
	_, err := c.Discover(context.Background(), ContentTypeTV, DiscoverQuery{
		DateFrom:   "2020-01-01",
		DateTo:     "2024-12-31",
		Cast:       []int{500},
		RuntimeGTE: 90,
	})
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}

	if gotQuery.Get("first_air_date.gte") != "2020-01-01" {
		t.Errorf("unexpected first_air_date.gte: %s", gotQuery.Get("first_air_date.gte"))
	}
	if gotQuery.Get("first_air_date.lte") != "2024-12-31" {
		t.Errorf("unexpected first_air_date.lte: %s", gotQuery.Get("first_air_date.lte"))
	}
	if gotQuery.Get("primary_release_date.gte") != "" {
		t.Error("movie date field should not be set for tv")
	}
	// with_cast and runtime filters only apply to the movie endpoint
	if gotQuery.Get("with_cast") != "" {
		t.Error("with_cast should not be set for tv")
	}
	if gotQuery.Get("with_runtime.gte") != "" {
		t.Error("with_runtime.gte should not be set for tv")
	}
}

func TestSearchContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search/movie" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.URL.Query().Get("query") != "inception" {
			t.Errorf("unexpected query: %s", r.URL.Query().Get("query"))
		}
		if r.URL.Query().Get("year") != "2010" {
			t.Errorf("unexpected year: %s", r.URL.Query().Get("year"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"page": 1,
			"total_pages": 1,
			"total_results": 1,
			"results": [{"id": 27205, "title": "Inception", "vote_average": 8.4, "release_date": "2010-07-15"}]
		}`))
	}))
	defer server.Close()

	c := testClient(server.URL)
	resp, err := c.SearchContent(context.Background(), ContentTypeMovie, "inception", 2010)
	if err != nil {
		t.Fatalf("SearchContent failed: %v", err)
	}
	if len(resp.Results) != 1 || resp.Results[0].ID != 27205 {
		t.Errorf("unexpected results: %+v", resp.Results)
	}
}

func TestSearchPerson(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search/person" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"page": 1,
			"total_results": 1,
			"results": [{"id": 31, "name": "Tom Hanks", "known_for_department": "Acting", "popularity": 84.5}]
		}`))
	}))
	defer server.Close()

	c := testClient(server.URL)
	people, err := c.SearchPerson(context.Background(), "Tom Hanks")
	if err != nil {
		t.Fatalf("SearchPerson failed: %v", err)
	}
	if len(people) != 1 {
		t.Fatalf("expected 1 person, got %d", len(people))
	}
	if people[0].ID != 31 || people[0].Name != "Tom Hanks" {
		t.Errorf("unexpected person: %+v", people[0])
	}
}

func TestGetPersonCredits(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/person/31/combined_credits" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": 31,
			"cast": [
				{"id": 13, "title": "Forrest Gump", "media_type": "movie", "character": "Forrest Gump", "vote_average": 8.5, "vote_count": 27000},
				{"id": 862, "title": "Toy Story", "media_type": "movie", "character": "Woody (voice)", "vote_average": 8.0, "vote_count": 18000}
			],
			"crew": []
		}`))
	}))
	defer server.Close()

	c := testClient(server.URL)
	credits, err := c.GetPersonCredits(context.Background(), 31)
	if err != nil {
		t.Fatalf("GetPersonCredits failed: %v", err)
	}
	if len(credits.Cast) != 2 {
		t.Fatalf("expected 2 cast credits, got %d", len(credits.Cast))
	}
	if credits.Cast[0].Title != "Forrest Gump" {
		t.Errorf("unexpected first credit: %s", credits.Cast[0].Title)
	}
	if credits.Cast[0].MediaType != "movie" {
		t.Errorf("unexpected media type: %s", credits.Cast[0].MediaType)
	}
}

func TestGetMovie_AppendsCredits(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/movie/550" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.URL.Query().Get("append_to_response") != "credits" {
			t.Error("expected append_to_response=credits")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": 550,
			"title": "Fight Club",
			"runtime": 139,
			"genres": [{"id": 18, "name": "Drama"}],
			"credits": {"cast": [{"id": 287, "name": "Brad Pitt", "character": "Tyler Durden"}], "crew": []}
		}`))
	}))
	defer server.Close()

	c := testClient(server.URL)
	movie, err := c.GetMovie(context.Background(), 550)
	if err != nil {
		t.Fatalf("GetMovie failed: %v", err)
	}
	if movie.Runtime != 139 {
		t.Errorf("unexpected runtime: %d", movie.Runtime)
	}
	if len(movie.Credits.Cast) != 1 || movie.Credits.Cast[0].Name != "Brad Pitt" {
		t.Errorf("unexpected credits: %+v", movie.Credits)
	}
}

func TestGetGenres(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/genre/movie/list" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.URL.Query().Get("language") != "tr-TR" {
			t.Errorf("unexpected language: %s", r.URL.Query().Get("language"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"genres": [{"id": 28, "name": "Aksiyon"}, {"id": 35, "name": "Komedi"}]}`))
	}))
	defer server.Close()

	c := testClient(server.URL)
	genres, err := c.GetGenres(context.Background(), ContentTypeMovie, "tr-TR")
	if err != nil {
		t.Fatalf("GetGenres failed: %v", err)
	}
	if len(genres) != 2 || genres[0].Name != "Aksiyon" {
		t.Errorf("unexpected genres: %+v", genres)
	}
}

func TestSearchKeyword(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"page": 1, "total_results": 1, "results": [{"id": 9715, "name": "superhero"}]}`))
	}))
	defer server.Close()

	c := testClient(server.URL)
	keywords, err := c.SearchKeyword(context.Background(), "superhero")
	if err != nil {
		t.Fatalf("SearchKeyword failed: %v", err)
	}
	if len(keywords) != 1 || keywords[0].ID != 9715 {
		t.Errorf("unexpected keywords: %+v", keywords)
	}
}

func TestDoRequest_ErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr error
	}{
		{"not found", http.StatusNotFound, ErrNotFound},
		{"rate limited", http.StatusTooManyRequests, ErrRateLimited},
		{"unauthorized", http.StatusUnauthorized, ErrAPIError},
		{"server error", http.StatusInternalServerError, ErrAPIError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(`{"status_code": 1, "status_message": "error"}`))
			}))
			defer server.Close()

			c := testClient(server.URL)
			_, err := c.Discover(context.Background(), ContentTypeMovie, DiscoverQuery{})
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestGetImageURL(t *testing.T) {
	c := testClient("http://example.com")
	got := c.GetImageURL("/abc.jpg", "w500")
	want := "https://image.tmdb.org/t/p/w500/abc.jpg"
	if got != want {
		t.Errorf("expected %s, got %s", want, got)
	}

	if c.GetImageURL("", "w500") != "" {
		t.Error("expected empty URL for empty path")
	}
}
