package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"mindmentor/study-craft/internal/cache"
	"mindmentor/study-craft/internal/config"
	"mindmentor/study-craft/internal/domain"
	"mindmentor/study-craft/internal/logger"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

const (
	// extractMinScore is the relevance floor for extract enrichment.
	extractMinScore = 0.7
	maxContentLen   = 4000
	maxErrorBody    = 512
)

// TavilyClient implements Searcher against the Tavily REST API.
type TavilyClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	maxResults int
	extractTop int
	cache      cache.Cache
	ttl        time.Duration
	log        *logger.Logger
	tracer     trace.Tracer
}

// NewTavilyClient builds a client. A nil cache disables caching.
func NewTavilyClient(cfg config.TavilyConfig, c cache.Cache, ttl time.Duration, log *logger.Logger) *TavilyClient {
	if c == nil {
		c = cache.Noop{}
	}
	maxResults := cfg.MaxResults
	if maxResults <= 0 || maxResults > MaxHits {
		maxResults = MaxHits
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &TavilyClient{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     strings.TrimSpace(cfg.APIKey),
		maxResults: maxResults,
		extractTop: cfg.ExtractTop,
		cache:      c,
		ttl:        ttl,
		log:        log.With("service", "TavilyClient"),
		tracer:     otel.Tracer("study-craft/search"),
	}
}

type searchRequest struct {
	Query          string   `json:"query"`
	SearchDepth    string   `json:"search_depth"`
	IncludeAnswer  bool     `json:"include_answer"`
	MaxResults     int      `json:"max_results"`
	IncludeDomains []string `json:"include_domains,omitempty"`
}

type searchResponse struct {
	Answer  string `json:"answer"`
	Results []struct {
		Title   string  `json:"title"`
		URL     string  `json:"url"`
		Content string  `json:"content"`
		Score   float64 `json:"score"`
	} `json:"results"`
}

type extractRequest struct {
	URLs []string `json:"urls"`
}

type extractResponse struct {
	Results []struct {
		URL        string `json:"url"`
		RawContent string `json:"raw_content"`
	} `json:"results"`
}

func cacheKey(kind Kind, subject string) string {
	return "search:" + string(kind) + ":" + domain.NormalizeSubject(subject)
}

// Search returns at most MaxHits hits for subject. Failures are logged and
// yield an empty Response; only successful upstream answers are cached.
func (c *TavilyClient) Search(ctx context.Context, kind Kind, subject string) Response {
	ctx, span := c.tracer.Start(ctx, "search.Search", trace.WithAttributes(
		attribute.String("search.kind", string(kind)),
	))
	defer span.End()

	key := cacheKey(kind, subject)
	if raw, ok, err := c.cache.Get(ctx, key); err != nil {
		c.log.Warn("search cache read failed", "key", key, "error", err)
	} else if ok {
		var cached Response
		if err := json.Unmarshal(raw, &cached); err == nil {
			span.SetAttributes(attribute.Bool("search.cache_hit", true), attribute.Int("search.hits", len(cached.Hits)))
			return cached
		}
		_ = c.cache.Delete(ctx, key)
	}

	if c.apiKey == "" {
		c.log.Warn("tavily api key not configured, continuing without search context")
		return Response{Hits: []Hit{}}
	}

	resp, err := c.search(ctx, kind, subject)
	if err != nil {
		c.log.Warn("tavily search failed", "kind", kind, "error", err)
		span.RecordError(err)
		return Response{Hits: []Hit{}}
	}

	c.enrich(ctx, resp.Hits)
	span.SetAttributes(attribute.Bool("search.cache_hit", false), attribute.Int("search.hits", len(resp.Hits)))

	if raw, err := json.Marshal(resp); err == nil {
		if err := c.cache.Set(ctx, key, raw, c.ttl); err != nil {
			c.log.Warn("search cache write failed", "key", key, "error", err)
		}
	}
	return resp
}

func (c *TavilyClient) search(ctx context.Context, kind Kind, subject string) (Response, error) {
	query, domains := buildQuery(kind, subject)
	var body searchResponse
	err := c.post(ctx, "/search", searchRequest{
		Query:          query,
		SearchDepth:    "advanced",
		IncludeAnswer:  true,
		MaxResults:     c.maxResults,
		IncludeDomains: domains,
	}, &body)
	if err != nil {
		return Response{}, err
	}

	hits := make([]Hit, 0, len(body.Results))
	for _, r := range body.Results {
		if len(hits) == c.maxResults {
			break
		}
		hits = append(hits, Hit{
			Title:   r.Title,
			URL:     r.URL,
			Content: r.Content,
			Score:   clampScore(r.Score),
		})
	}
	return Response{Answer: strings.TrimSpace(body.Answer), Hits: hits}, nil
}

// enrich replaces the snippets of the top relevant hits with extracted page
// text. A failed extract leaves that hit untouched.
func (c *TavilyClient) enrich(ctx context.Context, hits []Hit) {
	if c.extractTop <= 0 {
		return
	}
	targets := make([]int, 0, c.extractTop)
	for i, h := range hits {
		if len(targets) == c.extractTop {
			break
		}
		if h.Score >= extractMinScore && h.URL != "" {
			targets = append(targets, i)
		}
	}
	if len(targets) == 0 {
		return
	}

	contents := make([]string, len(targets))
	g, gctx := errgroup.WithContext(ctx)
	for slot, idx := range targets {
		url := hits[idx].URL
		g.Go(func() error {
			text, err := c.extract(gctx, url)
			if err != nil {
				c.log.Debug("tavily extract failed", "url", url, "error", err)
				return nil
			}
			contents[slot] = text
			return nil
		})
	}
	_ = g.Wait()

	for slot, idx := range targets {
		if text := strings.TrimSpace(contents[slot]); text != "" {
			hits[idx].Content = truncate(text, maxContentLen)
		}
	}
}

func (c *TavilyClient) extract(ctx context.Context, url string) (string, error) {
	var body extractResponse
	if err := c.post(ctx, "/extract", extractRequest{URLs: []string{url}}, &body); err != nil {
		return "", err
	}
	for _, r := range body.Results {
		if r.URL == url || len(body.Results) == 1 {
			return r.RawContent, nil
		}
	}
	return "", fmt.Errorf("no extract result for %s", url)
}

func (c *TavilyClient) post(ctx context.Context, path string, in, out any) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(in); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("tavily %s: http %d: %s", path, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("tavily %s: decode: %w", path, err)
	}
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
