package discovery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/araddon/dateparse"
)

// WebSearchClient talks to a generic web-search-plus-scrape API: a search
// call returns bare URLs, and each surviving URL costs a second network call
// to fetch and parse the page. Scrape calls respect a fixed minimum spacing
// imposed by the provider.
type WebSearchClient struct {
	baseURL    string
	apiKey     string
	userAgent  string
	httpClient *http.Client
	throttle   *throttle
}

var _ URLSource = (*WebSearchClient)(nil)
var _ Scraper = (*WebSearchClient)(nil)

func NewWebSearchClient(baseURL, apiKey, userAgent string, scrapeSpacing time.Duration, httpClient *http.Client) *WebSearchClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	return &WebSearchClient{
		baseURL:    baseURL,
		apiKey:     apiKey,
		userAgent:  userAgent,
		httpClient: httpClient,
		throttle:   newThrottle(scrapeSpacing),
	}
}

func (c *WebSearchClient) Name() string {
	return "websearch"
}

func (c *WebSearchClient) Configured() bool {
	return c.baseURL != "" && c.apiKey != ""
}

type webSearchResponse struct {
	Results []struct {
		URL         string `json:"url"`
		Title       string `json:"title"`
		Description string `json:"description"`
	} `json:"results"`
}

func (c *WebSearchClient) SearchWeb(ctx context.Context, query string, opts SearchOptions) ([]URLResult, error) {
	if !c.Configured() {
		return nil, fmt.Errorf("web search provider is not configured")
	}

	payload := map[string]any{
		"query": query,
	}
	if opts.Limit > 0 {
		payload["limit"] = strconv.Itoa(opts.Limit)
	}

	var parsed webSearchResponse
	if err := c.post(ctx, "/search", payload, &parsed); err != nil {
		return nil, err
	}

	results := make([]URLResult, 0, len(parsed.Results))
	for _, result := range parsed.Results {
		if result.URL == "" {
			continue
		}
		results = append(results, URLResult{
			URL:     result.URL,
			Title:   result.Title,
			Snippet: result.Description,
		})
	}

	slog.Debug("Web search completed", "query", query, "results", len(results))

	return results, nil
}

type scrapeResponse struct {
	HTML     string `json:"html"`
	Markdown string `json:"markdown"`
	Metadata struct {
		Title       string `json:"title"`
		Author      string `json:"author"`
		PublishedAt string `json:"published_at"`
	} `json:"metadata"`
}

// Scrape fetches one page through the provider. Callers must have passed the
// dedup and outlet checks already; every call here is paid for.
func (c *WebSearchClient) Scrape(ctx context.Context, pageURL string) (*ScrapeResult, error) {
	if !c.Configured() {
		return nil, fmt.Errorf("web search provider is not configured")
	}

	if err := c.throttle.wait(ctx); err != nil {
		return nil, fmt.Errorf("scrape throttle interrupted: %w", err)
	}

	payload := map[string]any{
		"url":     pageURL,
		"formats": []string{"html", "markdown"},
	}

	var parsed scrapeResponse
	if err := c.post(ctx, "/scrape", payload, &parsed); err != nil {
		return nil, err
	}

	result := &ScrapeResult{
		HTML:     parsed.HTML,
		Markdown: parsed.Markdown,
		Title:    parsed.Metadata.Title,
		Author:   parsed.Metadata.Author,
	}

	if parsed.Metadata.PublishedAt != "" {
		if published, err := dateparse.ParseAny(parsed.Metadata.PublishedAt); err == nil {
			result.PublishedAt = &published
		}
	}

	return result, nil
}

func (c *WebSearchClient) post(ctx context.Context, path string, payload any, v any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("HTTP error: %d %s: %s", resp.StatusCode, resp.Status, string(errBody))
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
