package discovery

import "time"

// ClusterHint carries provider-supplied story grouping signals so the
// clustering engine has a single code path regardless of which adapter
// produced the candidate.
type ClusterHint struct {
	EventID     string // provider event/cluster identifier, empty when unknown
	IsDuplicate bool   // provider flagged the article as a reprint of known coverage
}

// Candidate is a discovered article before persistence. Transient: it is
// either promoted to a mention or discarded within the sweep.
type Candidate struct {
	URL            string
	Title          string
	Excerpt        string
	Content        string
	RawHTML        string
	Authors        []string
	SentimentScore *float64 // continuous provider score, nil when unscored
	Hint           ClusterHint
	PublishedAt    *time.Time
	Source         string // adapter name
}

// URLResult is a bare search hit from a URL-returning source. The page
// content still has to be scraped.
type URLResult struct {
	URL     string
	Title   string
	Snippet string
}

// ScrapeResult is the fetched and parsed page for a URL candidate.
type ScrapeResult struct {
	HTML        string
	Markdown    string
	Title       string
	Author      string // structured metadata author, when the scraper surfaces one
	PublishedAt *time.Time
}

// SearchOptions bound a discovery call.
type SearchOptions struct {
	Limit int
	Since time.Time
}
