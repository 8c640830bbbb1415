package database

import (
	"time"
)

type Topic struct {
	ID          string // Database UUID
	Name        string // Configuration topic identifier derived from filename
	DisplayName string
	State       string
	Keywords    []string
	BillIDs     []string
	Enabled     bool
	LastSweptAt *time.Time
	NextSweepAt *time.Time
	LastReport  string // JSON-encoded report of the most recent sweep
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Mention struct {
	ID                string
	TopicID           string
	URL               string
	Title             string
	Outlet            string
	Excerpt           string
	Content           string
	Sentiment         string // positive, negative, neutral, unscored
	EventID           string // provider event identifier, empty when unknown
	StoryClusterID    *string
	FirstSeenForStory bool
	JournalistID      *string
	DiscoveredAt      time.Time
	PublishedAt       time.Time
	CreatedAt         time.Time
}

type Journalist struct {
	ID            string
	Name          string
	Outlet        string
	Email         string
	Phone         string
	Twitter       string
	LinkedIn      string
	ArticleCount  int
	AvgSentiment  float64 // incremental mean over scored articles only
	ScoredCount   int
	Beats         []string
	LastArticleAt *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
