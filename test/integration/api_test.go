// Package integration contains tests that verify the interaction between the
// HTTP router, handler, and engine store with real handler wiring. External
// dependencies (Redis, Kafka, PostgreSQL) are omitted rather than mocked:
// the handler and router both treat a nil cache/collector as "feature
// disabled" so these tests exercise the same code path a deployment without
// those optional dependencies would.
//
// Run with:
//
//	go test -v -tags=integration ./test/integration/...
package integration

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Adithya-Monish-Kumar-K/linguasearch/internal/api/handler"
	"github.com/Adithya-Monish-Kumar-K/linguasearch/internal/api/router"
	"github.com/Adithya-Monish-Kumar-K/linguasearch/internal/enginestore"
	"github.com/Adithya-Monish-Kumar-K/linguasearch/internal/search/corpus"
	"github.com/Adithya-Monish-Kumar-K/linguasearch/internal/search/engine"
	"github.com/Adithya-Monish-Kumar-K/linguasearch/pkg/health"
)

func newTestServer(t *testing.T, rateLimitPerMin int) *httptest.Server {
	t.Helper()

	docs := []corpus.Document{
		{URL: "http://a", Title: "Cats and Dogs", Text: "cats and dogs play in the garden"},
		{URL: "http://b", Title: "Search Engines", Text: "search engine indexing and ranking"},
	}
	e := engine.Build(docs, nil)
	store := enginestore.New(e, nil)

	checker := health.NewChecker()
	checker.Register("engine", func(ctx context.Context) health.ComponentHealth {
		return health.ComponentHealth{Status: health.StatusUp}
	})

	h := handler.New(store, nil, nil, nil, 10, 100, "")
	chain := router.New(h, checker, nil, router.Config{
		RequestTimeout:  5 * time.Second,
		RateLimitPerMin: rateLimitPerMin,
	})

	srv := httptest.NewServer(chain)
	t.Cleanup(srv.Close)
	return srv
}

// TestHealthEndpoints verifies liveness and readiness are reachable without
// any request-level middleware rejecting them.
func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(t, 0)

	for _, path := range []string{"/healthz", "/readyz"} {
		resp, err := http.Get(srv.URL + path)
		if err != nil {
			t.Fatalf("%s: request failed: %v", path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("%s: expected 200, got %d", path, resp.StatusCode)
		}
	}
}

// TestSearchEndpointReturnsRankedResults exercises the full router chain
// (request ID, CORS, rate limit, timeout) down to the handler and engine.
func TestSearchEndpointReturnsRankedResults(t *testing.T) {
	srv := newTestServer(t, 0)

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/search?q=dogs", nil)
	req.Header.Set("Origin", "http://example.com")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("search request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID to be set by request ID middleware")
	}
	if resp.Header.Get("Access-Control-Allow-Origin") != "http://example.com" {
		t.Error("expected CORS middleware to echo the request Origin")
	}

	var body struct {
		Total   int `json:"total"`
		Results []struct {
			URL string `json:"url"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if body.Total != 1 {
		t.Errorf("expected 1 hit for %q across the corpus, got %d", "dogs", body.Total)
	}
}

// TestStatsAndZipfEndpoints verifies the engine-wide reporting endpoints.
func TestStatsAndZipfEndpoints(t *testing.T) {
	srv := newTestServer(t, 0)

	resp, err := http.Get(srv.URL + "/api/stats")
	if err != nil {
		t.Fatalf("stats request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	zipfResp, err := http.Get(srv.URL + "/api/zipf?n=5")
	if err != nil {
		t.Fatalf("zipf request failed: %v", err)
	}
	defer zipfResp.Body.Close()
	if zipfResp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", zipfResp.StatusCode)
	}
}

// TestRateLimitEnforced verifies the rate-limit middleware rejects requests
// once a low per-minute budget is exhausted.
func TestRateLimitEnforced(t *testing.T) {
	srv := newTestServer(t, 2)

	for i := 0; i < 2; i++ {
		resp, err := http.Get(srv.URL + "/api/search?q=dogs")
		if err != nil {
			t.Fatalf("request %d failed: %v", i, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("request %d: expected 200, got %d", i, resp.StatusCode)
		}
	}

	resp, err := http.Get(srv.URL + "/api/search?q=dogs")
	if err != nil {
		t.Fatalf("rate-limited request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Errorf("expected 429, got %d", resp.StatusCode)
	}
}

// TestHealthEndpointsExemptFromRateLimit verifies /healthz stays reachable
// even after the rate limit budget for ordinary routes is exhausted.
func TestHealthEndpointsExemptFromRateLimit(t *testing.T) {
	srv := newTestServer(t, 1)

	http.Get(srv.URL + "/api/search?q=dogs")

	for i := 0; i < 5; i++ {
		resp, err := http.Get(srv.URL + "/healthz")
		if err != nil {
			t.Fatalf("healthz request failed: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("healthz call %d: expected 200, got %d", i, resp.StatusCode)
		}
	}
}
