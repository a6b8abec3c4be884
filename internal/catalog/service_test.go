package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/streamsage/streamsage/internal/catalog/tmdb"
	"github.com/streamsage/streamsage/internal/config"
)

func TestMemoryStore_SetGet(t *testing.T) {
	s := NewMemoryStore(10)
	ctx := context.Background()

	if _, err := s.Get(ctx, "missing"); err != ErrCacheMiss {
		t.Errorf("expected ErrCacheMiss, got %v", err)
	}

	if err := s.Set(ctx, "key", []byte("value"), time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, err := s.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got) != "value" {
		t.Errorf("expected value, got %s", got)
	}
}

func TestMemoryStore_Expiry(t *testing.T) {
	s := NewMemoryStore(10)
	ctx := context.Background()

	s.Set(ctx, "key", []byte("value"), time.Millisecond)
	time.Sleep(5 * time.Millisecond)

	if _, err := s.Get(ctx, "key"); err != ErrCacheMiss {
		t.Errorf("expected ErrCacheMiss after expiry, got %v", err)
	}
}

func TestMemoryStore_Eviction(t *testing.T) {
	s := NewMemoryStore(10)
	ctx := context.Background()

	for i := 0; i < 15; i++ {
		s.Set(ctx, string(rune('a'+i)), []byte("v"), time.Minute)
	}

	if s.Len() > 10 {
		t.Errorf("expected at most 10 items after eviction, got %d", s.Len())
	}
}

func newTestService(serverURL string) *Service {
	client := tmdb.NewClient(config.TMDBConfig{
		APIKey:  "test-key",
		BaseURL: serverURL,
		Timeout: 5,
	}, zerolog.Nop())
	return NewService(client, NewMemoryStore(100), 0, zerolog.Nop())
}

func TestService_DiscoverCaching(t *testing.T) {
	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"page": 1, "total_pages": 1, "total_results": 1, "results": [{"id": 1, "title": "Cached"}]}`))
	}))
	defer server.Close()

	svc := newTestService(server.URL)
	ctx := context.Background()
	q := tmdb.DiscoverQuery{Genres: []int{28}}

	for i := 0; i < 3; i++ {
		resp, err := svc.Discover(ctx, tmdb.ContentTypeMovie, q)
		if err != nil {
			t.Fatalf("Discover failed: %v", err)
		}
		if len(resp.Results) != 1 || resp.Results[0].Title != "Cached" {
			t.Errorf("unexpected results: %+v", resp.Results)
		}
	}

	if calls.Load() != 1 {
		t.Errorf("expected 1 upstream call, got %d", calls.Load())
	}

	// A different query must not hit the cached entry.
	if _, err := svc.Discover(ctx, tmdb.ContentTypeMovie, tmdb.DiscoverQuery{Genres: []int{35}}); err != nil {
		t.Fatalf("Discover failed: %v", err)
	}
	if calls.Load() != 2 {
		t.Errorf("expected 2 upstream calls, got %d", calls.Load())
	}
}

func TestService_ResolvePerson(t *testing.T) {
	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"page": 1,
			"total_results": 2,
			"results": [
				{"id": 100, "name": "Tom Hanks Jr", "popularity": 2.1},
				{"id": 31, "name": "Tom Hanks", "popularity": 84.5}
			]
		}`))
	}))
	defer server.Close()

	svc := newTestService(server.URL)
	ctx := context.Background()

	person, err := svc.ResolvePerson(ctx, "tom hanks")
	if err != nil {
		t.Fatalf("ResolvePerson failed: %v", err)
	}
	if person.ID != 31 {
		t.Errorf("expected most popular match (31), got %d", person.ID)
	}

	// Whitespace and case variations share the cache entry.
	if _, err := svc.ResolvePerson(ctx, "  Tom  HANKS "); err != nil {
		t.Fatalf("ResolvePerson failed: %v", err)
	}
	if calls.Load() != 1 {
		t.Errorf("expected 1 upstream call, got %d", calls.Load())
	}
}

func TestService_ResolvePerson_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"page": 1, "total_results": 0, "results": []}`))
	}))
	defer server.Close()

	svc := newTestService(server.URL)
	_, err := svc.ResolvePerson(context.Background(), "nobody at all")
	if err == nil {
		t.Fatal("expected error for unknown person")
	}
}

func TestService_ResolveKeyword_ExactMatchPreferred(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"page": 1,
			"total_results": 2,
			"results": [{"id": 1, "name": "time travel paradox"}, {"id": 4565, "name": "time travel"}]
		}`))
	}))
	defer server.Close()

	svc := newTestService(server.URL)
	id, err := svc.ResolveKeyword(context.Background(), "time travel")
	if err != nil {
		t.Fatalf("ResolveKeyword failed: %v", err)
	}
	if id != 4565 {
		t.Errorf("expected exact match 4565, got %d", id)
	}
}

func TestNewService_CacheLifetimes(t *testing.T) {
	client := tmdb.NewClient(config.TMDBConfig{APIKey: "test-key"}, zerolog.Nop())

	svc := NewService(client, NewMemoryStore(10), 30, zerolog.Nop())
	if svc.ttlDiscover != 30*time.Minute {
		t.Errorf("discover lifetime must follow the configured minutes, got %s", svc.ttlDiscover)
	}
	if svc.ttlTrending != 2*time.Hour {
		t.Errorf("trending lifetime must be four times the base, got %s", svc.ttlTrending)
	}

	svc = NewService(client, NewMemoryStore(10), 0, zerolog.Nop())
	if svc.ttlDiscover != defaultTTLMinutes*time.Minute {
		t.Errorf("zero minutes must fall back to the default, got %s", svc.ttlDiscover)
	}
}
