package discovery

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/araddon/dateparse"
)

// StructuredClient talks to an article search API that returns already-parsed
// articles: title, body, continuous sentiment score, author list, and an
// event identifier for story grouping. One call, no follow-up scraping.
type StructuredClient struct {
	baseURL    string
	apiKey     string
	userAgent  string
	httpClient *http.Client
}

var _ StructuredSearcher = (*StructuredClient)(nil)

func NewStructuredClient(baseURL, apiKey, userAgent string, httpClient *http.Client) *StructuredClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &StructuredClient{
		baseURL:    baseURL,
		apiKey:     apiKey,
		userAgent:  userAgent,
		httpClient: httpClient,
	}
}

func (c *StructuredClient) Name() string {
	return "structured"
}

// Configured reports whether the provider can be called at all. An
// unconfigured provider is skipped by the sweep, not treated as an error.
func (c *StructuredClient) Configured() bool {
	return c.baseURL != "" && c.apiKey != ""
}

type structuredArticle struct {
	URL         string  `json:"url"`
	Title       string  `json:"title"`
	Summary     string  `json:"summary"`
	Content     string  `json:"content"`
	ClusterID   string  `json:"cluster_id"`
	DuplicateOf string  `json:"duplicate_of"`
	PublishedAt string  `json:"published_at"`
	Sentiment   *struct {
		Score float64 `json:"score"`
	} `json:"sentiment"`
	Authors []struct {
		Name string `json:"name"`
	} `json:"authors"`
}

type structuredResponse struct {
	Articles []structuredArticle `json:"articles"`
}

func (c *StructuredClient) SearchStructured(ctx context.Context, query string, opts SearchOptions) ([]Candidate, error) {
	if !c.Configured() {
		return nil, fmt.Errorf("structured search provider is not configured")
	}

	endpoint, err := url.Parse(c.baseURL + "/articles")
	if err != nil {
		return nil, fmt.Errorf("invalid structured search URL: %w", err)
	}

	params := endpoint.Query()
	params.Set("q", query)
	if opts.Limit > 0 {
		params.Set("size", strconv.Itoa(opts.Limit))
	}
	if !opts.Since.IsZero() {
		params.Set("from", opts.Since.UTC().Format(time.RFC3339))
	}
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("structured search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("structured search HTTP error: %d %s: %s", resp.StatusCode, resp.Status, string(body))
	}

	var parsed structuredResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode structured search response: %w", err)
	}

	candidates := make([]Candidate, 0, len(parsed.Articles))
	for _, article := range parsed.Articles {
		if article.URL == "" {
			continue
		}
		candidates = append(candidates, c.toCandidate(article))
	}

	slog.Debug("Structured search completed", "query", query, "results", len(candidates))

	return candidates, nil
}

func (c *StructuredClient) toCandidate(article structuredArticle) Candidate {
	candidate := Candidate{
		URL:     article.URL,
		Title:   article.Title,
		Excerpt: article.Summary,
		Content: article.Content,
		Hint: ClusterHint{
			EventID:     article.ClusterID,
			IsDuplicate: article.DuplicateOf != "",
		},
		Source: c.Name(),
	}

	if article.Sentiment != nil {
		score := article.Sentiment.Score
		candidate.SentimentScore = &score
	}

	for _, author := range article.Authors {
		if author.Name != "" {
			candidate.Authors = append(candidate.Authors, author.Name)
		}
	}

	if article.PublishedAt != "" {
		if parsed, err := dateparse.ParseAny(article.PublishedAt); err == nil {
			candidate.PublishedAt = &parsed
		}
	}

	return candidate
}
