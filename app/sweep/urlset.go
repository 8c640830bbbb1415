package sweep

import "sync"

// urlSet tracks every URL a sweep has already committed to, seeded from the
// persisted mentions so a re-discovered article never pays for a scrape.
type urlSet struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

func newURLSet(seed map[string]struct{}) *urlSet {
	seen := make(map[string]struct{}, len(seed))
	for url := range seed {
		seen[url] = struct{}{}
	}
	return &urlSet{seen: seen}
}

// claim marks the URL as taken and reports whether this call was the first
// to do so. Check and insert happen under one lock so two providers cannot
// both claim the same article.
func (s *urlSet) claim(url string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.seen[url]; ok {
		return false
	}
	s.seen[url] = struct{}{}
	return true
}
