package discovery

import "context"

// StructuredSearcher returns fully parsed articles in one call; no scraping
// is needed for its candidates and they are trusted as topically relevant.
type StructuredSearcher interface {
	Name() string
	SearchStructured(ctx context.Context, query string, opts SearchOptions) ([]Candidate, error)
}

// URLSource returns bare URLs that must pass the cheap filters before the
// expensive scrape is paid for.
type URLSource interface {
	Name() string
	SearchWeb(ctx context.Context, query string, opts SearchOptions) ([]URLResult, error)
}

// Scraper fetches and parses a single page. Implementations enforce their
// provider's minimum inter-call spacing internally.
type Scraper interface {
	Scrape(ctx context.Context, url string) (*ScrapeResult, error)
}
