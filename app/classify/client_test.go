package classify

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func completionServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"choices": [{"message": {"content": %q}}]}`, content)
	}))
}

func TestIsRelevantAffirmative(t *testing.T) {
	server := completionServer(t, "Yes, this article covers the topic.")
	defer server.Close()

	client := NewClient(server.URL, "key", "model", server.Client())

	if !client.IsRelevant(context.Background(), "solar checkoff program", "Solar bill passes", "excerpt") {
		t.Error("Affirmative answer should be relevant")
	}
}

func TestIsRelevantFailsClosedOnAmbiguousAnswer(t *testing.T) {
	for _, answer := range []string{"No", "maybe", "it depends", ""} {
		server := completionServer(t, answer)

		client := NewClient(server.URL, "key", "model", server.Client())
		if client.IsRelevant(context.Background(), "topic", "title", "excerpt") {
			t.Errorf("Answer %q should be treated as not relevant", answer)
		}

		server.Close()
	}
}

func TestIsRelevantFailsOpenOnServiceError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(server.URL, "key", "model", server.Client())

	if !client.IsRelevant(context.Background(), "topic", "title", "excerpt") {
		t.Error("Service failure should default to relevant")
	}
}

func TestIsRelevantUnconfigured(t *testing.T) {
	client := NewClient("", "", "", nil)

	if !client.IsRelevant(context.Background(), "topic", "title", "excerpt") {
		t.Error("Unconfigured classifier should default to relevant")
	}
}

func TestClassifyParsesEnum(t *testing.T) {
	tests := []struct {
		answer   string
		expected Sentiment
	}{
		{"positive", SentimentPositive},
		{"Positive. The coverage celebrates the bill.", SentimentPositive},
		{"negative: heavy criticism throughout", SentimentNegative},
		{"neutral", SentimentNeutral},
		{"mixed feelings about this one", SentimentNeutral},
		{"", SentimentNeutral},
	}

	for _, tt := range tests {
		server := completionServer(t, tt.answer)

		client := NewClient(server.URL, "key", "model", server.Client())
		if got := client.Classify(context.Background(), "topic", "title", "text"); got != tt.expected {
			t.Errorf("Classify with answer %q = %s, expected %s", tt.answer, got, tt.expected)
		}

		server.Close()
	}
}

func TestClassifyFallsBackOnServiceError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(server.URL, "key", "model", server.Client())

	got := client.Classify(context.Background(), "topic", "Bill passed", "Lawmakers approved the measure")
	if got != SentimentPositive {
		t.Errorf("Expected keyword fallback to return positive, got %s", got)
	}
}

func TestClassifyUnconfiguredUsesFallback(t *testing.T) {
	client := NewClient("", "", "", nil)

	got := client.Classify(context.Background(), "topic", "Governor vetoed bill", "The veto drew backlash")
	if got != SentimentNegative {
		t.Errorf("Expected keyword fallback to return negative, got %s", got)
	}
}
