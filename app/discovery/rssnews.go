package discovery

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/mmcdole/gofeed"
)

// RSSNewsClient queries a Google-News-style keyword feed. It is the cheapest
// and least structured source: results are bare URLs whose pages still go
// through the scrape path, and there are no event identifiers or sentiment
// scores to inherit.
type RSSNewsClient struct {
	feedURL    string
	userAgent  string
	httpClient *http.Client
	parser     *gofeed.Parser
}

var _ URLSource = (*RSSNewsClient)(nil)

const defaultNewsFeedURL = "https://news.google.com/rss/search"

func NewRSSNewsClient(userAgent string, httpClient *http.Client) *RSSNewsClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &RSSNewsClient{
		feedURL:    defaultNewsFeedURL,
		userAgent:  userAgent,
		httpClient: httpClient,
		parser:     gofeed.NewParser(),
	}
}

func (c *RSSNewsClient) Name() string {
	return "rssnews"
}

func (c *RSSNewsClient) SearchWeb(ctx context.Context, query string, opts SearchOptions) ([]URLResult, error) {
	feedURL := fmt.Sprintf("%s?q=%s&hl=en-US", c.feedURL, url.QueryEscape(query))

	data, err := c.fetchFeed(ctx, feedURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch news feed: %w", err)
	}

	feed, err := c.parser.ParseString(string(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse news feed: %w", err)
	}

	limit := opts.Limit
	if limit <= 0 || limit > len(feed.Items) {
		limit = len(feed.Items)
	}

	results := make([]URLResult, 0, limit)
	for _, item := range feed.Items[:limit] {
		if item.Link == "" {
			continue
		}
		if !opts.Since.IsZero() && item.PublishedParsed != nil && item.PublishedParsed.Before(opts.Since) {
			continue
		}
		results = append(results, URLResult{
			URL:     item.Link,
			Title:   item.Title,
			Snippet: item.Description,
		})
	}

	slog.Debug("News feed search completed", "query", query, "results", len(results))

	return results, nil
}

func (c *RSSNewsClient) fetchFeed(ctx context.Context, feedURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}
