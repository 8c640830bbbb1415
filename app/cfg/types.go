package cfg

type Cfg struct {
	// Storage configuration
	DBPath string

	// Application configuration
	TopicsDir         string
	Port              string
	WorkerCount       int
	SchedulerInterval int
	APIAccessKey      string

	// Structured article search provider
	ArticleSearchURL string
	ArticleSearchKey string

	// Web search / scrape provider
	WebSearchURL  string
	WebSearchKey  string
	ScrapeSpacing int // milliseconds between successive scrape calls

	// Text classification provider (relevance + sentiment)
	ClassifierURL   string
	ClassifierKey   string
	ClassifierModel string

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
