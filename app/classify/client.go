package classify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Client talks to an OpenAI-compatible chat completion API for relevance and
// sentiment classification. Both operations are best effort: relevance fails
// open on transport errors, sentiment degrades to the keyword fallback.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

var _ RelevanceClassifier = (*Client)(nil)
var _ SentimentClassifier = (*Client)(nil)

func NewClient(baseURL, apiKey, model string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		model:      model,
		httpClient: httpClient,
	}
}

func (c *Client) Configured() bool {
	return c.baseURL != "" && c.apiKey != "" && c.model != ""
}

const relevanceSystemPrompt = "You decide whether a news article is about a given policy topic. Answer with exactly one word: yes or no."

// IsRelevant asks the classifier whether the article pertains to the topic.
// Any answer other than an affirmative counts as not relevant, but a service
// failure counts as relevant: dropping content silently when the classifier
// is down is worse than letting a false positive through.
func (c *Client) IsRelevant(ctx context.Context, topicDescription, title, excerpt string) bool {
	if !c.Configured() {
		return true
	}

	prompt := fmt.Sprintf("Topic: %s\n\nArticle title: %s\n\nArticle excerpt: %s\n\nIs this article about the topic? Answer yes or no.",
		topicDescription, title, excerpt)

	answer, err := c.complete(ctx, relevanceSystemPrompt, prompt)
	if err != nil {
		slog.Warn("Relevance classification failed, treating as relevant", "error", err)
		return true
	}

	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(answer)), "yes")
}

const sentimentSystemPrompt = "You classify the tone of news coverage toward a policy topic. Answer with exactly one word: positive, negative, or neutral. You may add a short rationale after the word."

// Classify scores the tone of the article toward the topic. Malformed or
// out-of-enum answers map to neutral; any service failure falls back to
// deterministic keyword scoring.
func (c *Client) Classify(ctx context.Context, topicName, title, text string) Sentiment {
	if !c.Configured() {
		return KeywordSentiment(title + " " + text)
	}

	prompt := fmt.Sprintf("Topic: %s\n\nArticle title: %s\n\nArticle text: %s\n\nWhat is the tone of this coverage toward the topic?",
		topicName, title, text)

	answer, err := c.complete(ctx, sentimentSystemPrompt, prompt)
	if err != nil {
		slog.Warn("Sentiment classification failed, using keyword fallback", "topic", topicName, "error", err)
		return KeywordSentiment(title + " " + text)
	}

	return parseAnswer(answer)
}

func parseAnswer(answer string) Sentiment {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(answer)))
	if len(fields) == 0 {
		return SentimentNeutral
	}

	switch strings.Trim(fields[0], ".,:;!") {
	case "positive":
		return SentimentPositive
	case "negative":
		return SentimentNegative
	case "neutral":
		return SentimentNeutral
	default:
		return SentimentNeutral
	}
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *Client) complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	body, err := json.Marshal(map[string]any{
		"model": c.model,
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": userPrompt},
		},
		"temperature": 0,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("HTTP error: %d %s: %s", resp.StatusCode, resp.Status, strings.TrimSpace(string(errBody)))
	}

	var parsed completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("empty completion response")
	}

	return parsed.Choices[0].Message.Content, nil
}
