package database

import (
	"time"
)

type TopicRepository interface {
	GetTopic(topicName string) (*Topic, error)
	GetTopicCount() (int, error)

	UpsertTopic(name, displayName, state string, keywords, billIDs []string, enabled bool) error
	UpdateSweepStatus(topicName string, report string, nextSweep time.Time) error
}

type MentionRepository interface {
	// KnownURLs returns every URL already persisted for the topic; the sweep
	// consults it before paying for a scrape.
	KnownURLs(topicID string) (map[string]struct{}, error)

	// Insert persists a new mention. A (topic_id, url) conflict is a
	// successful no-op and returns false.
	Insert(mention *Mention) (bool, error)

	// RecentMentions returns mentions discovered since the cutoff, ordered
	// oldest first so clustering always evaluates the earliest candidate.
	RecentMentions(topicID string, since time.Time) ([]Mention, error)

	GetByEventID(topicID, eventID string) (*Mention, error)

	UpdateClustering(mentionID, clusterID string, firstSeen bool) error
	UpdateSentiment(mentionID, sentiment string) error
	UpdateJournalist(mentionID, journalistID string) error

	GetVisibleMentions(topicID string, limit int) ([]Mention, error)
	GetMentionCount(topicID string) (int, error)
	GetMentionStats(topicID string) (total, clustered, scored int, err error)
}

// JournalistUpdate carries one new attributed article into the journalist
// record. Contact fields only fill gaps, never overwrite.
type JournalistUpdate struct {
	Name           string
	Outlet         string
	Email          string
	Phone          string
	Twitter        string
	LinkedIn       string
	SentimentValue *float64 // nil when the article is unscored
	Beats          []string
	ArticleAt      time.Time
}

type JournalistRepository interface {
	Upsert(update JournalistUpdate) (string, error)
	GetByID(journalistID string) (*Journalist, error)
	List(limit int) ([]Journalist, error)
}
