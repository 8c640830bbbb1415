package cluster

import (
	"fmt"
	"strings"
	"time"

	"github.com/pressradar/pressradar/app/database"
	"github.com/pressradar/pressradar/app/discovery"
)

const (
	// Mentions older than this never join a new story.
	defaultWindow = 48 * time.Hour
	// Minimum share of significant title words two mentions must have in
	// common, measured against the smaller word set.
	defaultOverlapThreshold = 0.4
	// Words at or below this length carry no signal for title matching.
	minSignificantWordLen = 4
)

// MentionStore is the slice of the mention repository the engine needs.
type MentionStore interface {
	GetByEventID(topicID, eventID string) (*database.Mention, error)
	RecentMentions(topicID string, since time.Time) ([]database.Mention, error)
	UpdateClustering(mentionID, clusterID string, firstSeen bool) error
}

// Engine assigns each new mention to a story cluster: by provider event id
// when one is available, otherwise by title similarity against mentions
// discovered inside the window. The first mention of a story becomes the
// cluster id for everything that follows.
type Engine struct {
	store     MentionStore
	window    time.Duration
	threshold float64
	now       func() time.Time
}

func NewEngine(store MentionStore) *Engine {
	return &Engine{
		store:     store,
		window:    defaultWindow,
		threshold: defaultOverlapThreshold,
		now:       time.Now,
	}
}

// Assign places the mention into a story cluster and persists the assignment.
// It returns the cluster id and whether this mention is the story's first.
func (e *Engine) Assign(mention *database.Mention, hint discovery.ClusterHint) (string, bool, error) {
	if hint.EventID != "" {
		prior, err := e.store.GetByEventID(mention.TopicID, hint.EventID)
		if err != nil {
			return "", false, fmt.Errorf("failed to look up event: %w", err)
		}
		if prior != nil && prior.ID != mention.ID {
			return e.join(mention, prior)
		}
		// First mention carrying this event id starts the story.
		return e.selfCluster(mention)
	}

	if hint.IsDuplicate {
		// The provider flagged a duplicate but gave no event to join,
		// so the mention can only anchor its own story.
		return e.selfCluster(mention)
	}

	return e.byTitle(mention)
}

func (e *Engine) byTitle(mention *database.Mention) (string, bool, error) {
	since := e.now().Add(-e.window)
	recent, err := e.store.RecentMentions(mention.TopicID, since)
	if err != nil {
		return "", false, fmt.Errorf("failed to load recent mentions: %w", err)
	}

	words := significantWords(mention.Title)

	for i := range recent {
		candidate := &recent[i]
		if candidate.ID == mention.ID {
			continue
		}
		if titleOverlap(words, significantWords(candidate.Title)) >= e.threshold {
			return e.join(mention, candidate)
		}
	}

	return e.selfCluster(mention)
}

// join attaches the mention to the story anchored by prior. A prior mention
// that predates clustering gets stamped as its own story's first member.
func (e *Engine) join(mention *database.Mention, prior *database.Mention) (string, bool, error) {
	clusterID := prior.ID
	if prior.StoryClusterID != nil && *prior.StoryClusterID != "" {
		clusterID = *prior.StoryClusterID
	} else {
		if err := e.store.UpdateClustering(prior.ID, clusterID, true); err != nil {
			return "", false, fmt.Errorf("failed to anchor story cluster: %w", err)
		}
	}

	if err := e.store.UpdateClustering(mention.ID, clusterID, false); err != nil {
		return "", false, fmt.Errorf("failed to assign story cluster: %w", err)
	}

	mention.StoryClusterID = &clusterID
	mention.FirstSeenForStory = false
	return clusterID, false, nil
}

func (e *Engine) selfCluster(mention *database.Mention) (string, bool, error) {
	clusterID := mention.ID
	if err := e.store.UpdateClustering(mention.ID, clusterID, true); err != nil {
		return "", false, fmt.Errorf("failed to assign story cluster: %w", err)
	}

	mention.StoryClusterID = &clusterID
	mention.FirstSeenForStory = true
	return clusterID, true, nil
}

func significantWords(title string) map[string]struct{} {
	words := make(map[string]struct{})
	for _, word := range strings.Fields(strings.ToLower(title)) {
		word = strings.Trim(word, ".,:;!?\"'()[]")
		if len(word) >= minSignificantWordLen {
			words[word] = struct{}{}
		}
	}
	return words
}

// titleOverlap measures shared significant words against the smaller set,
// so a short headline can still match a longer variant of itself.
func titleOverlap(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	smaller, larger := a, b
	if len(b) < len(a) {
		smaller, larger = b, a
	}

	shared := 0
	for word := range smaller {
		if _, ok := larger[word]; ok {
			shared++
		}
	}

	return float64(shared) / float64(len(smaller))
}
