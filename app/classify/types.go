package classify

import "context"

// Sentiment is the three-way tone classification of a mention.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
	SentimentUnscored Sentiment = "unscored"
)

// scoreDeadBand keeps weakly-toned provider scores from being over-classified:
// anything this close to zero is neutral.
const scoreDeadBand = 0.1

// SentimentFromScore maps a continuous provider sentiment score to the
// three-way enum.
func SentimentFromScore(score float64) Sentiment {
	switch {
	case score > scoreDeadBand:
		return SentimentPositive
	case score < -scoreDeadBand:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

// ParseSentiment maps a stored string back to the enum, defaulting to
// unscored for anything unrecognized.
func ParseSentiment(value string) Sentiment {
	switch Sentiment(value) {
	case SentimentPositive, SentimentNegative, SentimentNeutral:
		return Sentiment(value)
	default:
		return SentimentUnscored
	}
}

// RelevanceClassifier decides whether a scraped article actually pertains to
// its topic. Implementations fail closed on ambiguous answers and fail open
// on transport errors.
type RelevanceClassifier interface {
	IsRelevant(ctx context.Context, topicDescription, title, excerpt string) bool
}

// SentimentClassifier scores the tone of an article. Best effort: on any
// failure implementations degrade to the keyword fallback, never error.
type SentimentClassifier interface {
	Classify(ctx context.Context, topicName, title, text string) Sentiment
}
