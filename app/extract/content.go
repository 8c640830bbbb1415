package extract

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"unicode/utf8"

	readability "github.com/go-shiori/go-readability"
)

// Content is the readable portion of a fetched page.
type Content struct {
	Title  string
	Text   string
	Byline string // readability's own author guess, used as one more hint
}

// FromHTML runs readability extraction over raw page HTML.
func FromHTML(html, pageURL string) (*Content, error) {
	if strings.TrimSpace(html) == "" {
		return nil, fmt.Errorf("HTML data is empty")
	}

	parsedURL, _ := url.Parse(pageURL)

	article, err := readability.FromReader(strings.NewReader(html), parsedURL)
	if err != nil {
		return nil, fmt.Errorf("failed to extract content: %w", err)
	}

	text := strings.TrimSpace(article.TextContent)
	if text == "" {
		return nil, fmt.Errorf("no content extracted from HTML data")
	}

	slog.Debug("Content extracted successfully",
		"title", article.Title,
		"text_length", len(text))

	return &Content{
		Title:  article.Title,
		Text:   text,
		Byline: article.Byline,
	}, nil
}

// Excerpt truncates text to at most maxLen runes on a word boundary.
func Excerpt(text string, maxLen int) string {
	text = strings.Join(strings.Fields(text), " ")
	if utf8.RuneCountInString(text) <= maxLen {
		return text
	}

	runes := []rune(text)
	cut := string(runes[:maxLen])
	if i := strings.LastIndex(cut, " "); i > 0 {
		cut = cut[:i]
	}
	return cut + "…"
}
