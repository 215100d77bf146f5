package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"mindmentor/study-craft/internal/cache"
	"mindmentor/study-craft/internal/config"
	"mindmentor/study-craft/internal/logger"
)

type fakeTavily struct {
	searches   atomic.Int32
	extracts   atomic.Int32
	lastSearch searchRequest
	status     int
	results    int
	score      float64
	failURL    string
}

func (f *fakeTavily) handler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization header = %q", got)
		}
		switch r.URL.Path {
		case "/search":
			f.searches.Add(1)
			if f.status != 0 {
				w.WriteHeader(f.status)
				return
			}
			_ = json.NewDecoder(r.Body).Decode(&f.lastSearch)
			results := make([]map[string]any, 0, f.results)
			for i := 0; i < f.results; i++ {
				results = append(results, map[string]any{
					"title":   fmt.Sprintf("Result %d", i),
					"url":     fmt.Sprintf("https://example.com/%d", i),
					"content": "snippet",
					"score":   f.score,
				})
			}
			_ = json.NewEncoder(w).Encode(map[string]any{"answer": " An answer ", "results": results})
		case "/extract":
			f.extracts.Add(1)
			var req extractRequest
			_ = json.NewDecoder(r.Body).Decode(&req)
			if len(req.URLs) == 1 && req.URLs[0] == f.failURL {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]any{
				"results": []map[string]any{{"url": req.URLs[0], "raw_content": "full page text"}},
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
}

func newTestClient(baseURL string, extractTop int, c cache.Cache) *TavilyClient {
	return NewTavilyClient(config.TavilyConfig{
		APIKey:     "test-key",
		BaseURL:    baseURL,
		MaxResults: 10,
		ExtractTop: extractTop,
		Timeout:    2 * time.Second,
	}, c, time.Hour, logger.Nop())
}

func TestSearchTruncatesAndClamps(t *testing.T) {
	fake := &fakeTavily{results: 14, score: 1.7}
	srv := httptest.NewServer(fake.handler(t))
	defer srv.Close()

	resp := newTestClient(srv.URL, 0, nil).Search(context.Background(), KindPlan, "Linear Algebra")

	if len(resp.Hits) != MaxHits {
		t.Fatalf("got %d hits, want %d", len(resp.Hits), MaxHits)
	}
	for _, h := range resp.Hits {
		if h.Score != 1 {
			t.Fatalf("score not clamped: %v", h.Score)
		}
	}
	if resp.Answer != "An answer" {
		t.Fatalf("answer = %q", resp.Answer)
	}
	if !strings.Contains(fake.lastSearch.Query, "Linear Algebra curriculum syllabus") {
		t.Fatalf("unexpected plan query %q", fake.lastSearch.Query)
	}
	if fake.lastSearch.SearchDepth != "advanced" || !fake.lastSearch.IncludeAnswer {
		t.Fatalf("unexpected request options %+v", fake.lastSearch)
	}
}

func TestSearchResourcesRestrictsDomains(t *testing.T) {
	fake := &fakeTavily{results: 1, score: 0.5}
	srv := httptest.NewServer(fake.handler(t))
	defer srv.Close()

	newTestClient(srv.URL, 0, nil).Search(context.Background(), KindResources, "python")

	if len(fake.lastSearch.IncludeDomains) == 0 {
		t.Fatal("resource search should restrict domains")
	}
	if !strings.HasPrefix(fake.lastSearch.Query, "best free learning resources") {
		t.Fatalf("unexpected resources query %q", fake.lastSearch.Query)
	}
}

func TestSearchUpstreamErrorYieldsEmpty(t *testing.T) {
	fake := &fakeTavily{status: http.StatusInternalServerError}
	srv := httptest.NewServer(fake.handler(t))
	defer srv.Close()

	mem := cache.NewMemory()
	resp := newTestClient(srv.URL, 0, mem).Search(context.Background(), KindPlan, "chemistry")

	if len(resp.Hits) != 0 || resp.Answer != "" {
		t.Fatalf("expected empty response, got %+v", resp)
	}
	if mem.Len() != 0 {
		t.Fatal("failed searches must not be cached")
	}
}

func TestSearchMissingKeyYieldsEmpty(t *testing.T) {
	client := NewTavilyClient(config.TavilyConfig{BaseURL: "http://127.0.0.1:1"}, nil, time.Hour, logger.Nop())
	resp := client.Search(context.Background(), KindPlan, "chemistry")
	if resp.Hits == nil || len(resp.Hits) != 0 {
		t.Fatalf("expected empty non-nil hits, got %+v", resp)
	}
}

func TestSearchUsesCache(t *testing.T) {
	fake := &fakeTavily{results: 2, score: 0.5}
	srv := httptest.NewServer(fake.handler(t))
	defer srv.Close()

	client := newTestClient(srv.URL, 0, cache.NewMemory())
	first := client.Search(context.Background(), KindPlan, "Organic Chemistry")
	second := client.Search(context.Background(), KindPlan, "  organic   CHEMISTRY ")

	if fake.searches.Load() != 1 {
		t.Fatalf("expected 1 upstream search, got %d", fake.searches.Load())
	}
	if len(first.Hits) != len(second.Hits) || first.Answer != second.Answer {
		t.Fatalf("cached response differs: %+v vs %+v", first, second)
	}

	client.Search(context.Background(), KindResources, "organic chemistry")
	if fake.searches.Load() != 2 {
		t.Fatal("kinds must not share cache entries")
	}
}

func TestSearchExtractEnrichment(t *testing.T) {
	fake := &fakeTavily{results: 4, score: 0.9, failURL: "https://example.com/1"}
	srv := httptest.NewServer(fake.handler(t))
	defer srv.Close()

	resp := newTestClient(srv.URL, 2, nil).Search(context.Background(), KindPlan, "physics")

	if fake.extracts.Load() != 2 {
		t.Fatalf("expected 2 extract calls, got %d", fake.extracts.Load())
	}
	if resp.Hits[0].Content != "full page text" {
		t.Fatalf("hit 0 not enriched: %q", resp.Hits[0].Content)
	}
	if resp.Hits[1].Content != "snippet" {
		t.Fatalf("failed extract must keep snippet, got %q", resp.Hits[1].Content)
	}
	if resp.Hits[2].Content != "snippet" {
		t.Fatalf("hit beyond extract_top changed: %q", resp.Hits[2].Content)
	}
}

func TestSearchExtractSkipsLowScores(t *testing.T) {
	fake := &fakeTavily{results: 3, score: 0.4}
	srv := httptest.NewServer(fake.handler(t))
	defer srv.Close()

	newTestClient(srv.URL, 3, nil).Search(context.Background(), KindPlan, "physics")
	if fake.extracts.Load() != 0 {
		t.Fatalf("low-score hits should not be extracted, got %d calls", fake.extracts.Load())
	}
}
