package cfg

import (
	"cmp"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Storage configuration
	DBPath string `long:"db-path" env:"DB_PATH" default:"./pressradar.db" description:"Path to the SQLite database file"`

	// Application configuration
	TopicsDir         string `long:"topics-dir" env:"TOPICS_DIR" default:"./topics" description:"Directory containing topic configuration files"`
	Port              string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	WorkerCount       int    `long:"worker-count" env:"WORKER_COUNT" default:"5" description:"Number of background workers for topic sweeps"`
	SchedulerInterval int    `long:"scheduler-interval" env:"SCHEDULER_INTERVAL" default:"60" description:"Scheduler interval in seconds"`
	APIAccessKey      string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for authentication (optional)"`

	// Structured article search provider
	ArticleSearchURL string `long:"article-search-url" env:"ARTICLE_SEARCH_URL" description:"Base URL of the structured article search API"`
	ArticleSearchKey string `long:"article-search-key" env:"ARTICLE_SEARCH_KEY" description:"API key for the structured article search API"`

	// Web search / scrape provider
	WebSearchURL  string `long:"web-search-url" env:"WEB_SEARCH_URL" description:"Base URL of the web search and scrape API"`
	WebSearchKey  string `long:"web-search-key" env:"WEB_SEARCH_KEY" description:"API key for the web search and scrape API"`
	ScrapeSpacing int    `long:"scrape-spacing" env:"SCRAPE_SPACING" default:"1500" description:"Minimum spacing between scrape calls in milliseconds"`

	// Text classification provider
	ClassifierURL   string `long:"classifier-url" env:"CLASSIFIER_URL" description:"Base URL of the OpenAI-compatible text classification API"`
	ClassifierKey   string `long:"classifier-key" env:"CLASSIFIER_KEY" description:"API key for the text classification API"`
	ClassifierModel string `long:"classifier-model" env:"CLASSIFIER_MODEL" default:"gpt-4o-mini" description:"Model used for relevance and sentiment classification"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"PressRadar/1.0" description:"User agent string for HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, America/New_York)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		DBPath:            raw.DBPath,
		TopicsDir:         raw.TopicsDir,
		Port:              raw.Port,
		WorkerCount:       raw.WorkerCount,
		SchedulerInterval: raw.SchedulerInterval,
		APIAccessKey:      raw.APIAccessKey,
		ArticleSearchURL:  raw.ArticleSearchURL,
		ArticleSearchKey:  raw.ArticleSearchKey,
		WebSearchURL:      raw.WebSearchURL,
		WebSearchKey:      raw.WebSearchKey,
		ScrapeSpacing:     raw.ScrapeSpacing,
		ClassifierURL:     raw.ClassifierURL,
		ClassifierKey:     raw.ClassifierKey,
		ClassifierModel:   raw.ClassifierModel,
		UserAgent:         raw.UserAgent,
		Timezone:          raw.Timezone,
		Debug:             raw.Debug,
		Version:           GetVersion(),
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

// SetForTesting replaces the singleton so packages reading cfg.Get() can be
// exercised without command-line parsing.
func SetForTesting(c *Cfg) {
	globalCfg = c
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
			fmt.Printf("Timezone configured: %s\n", timezone)
		}
	}
	return nil
}
