package cluster

import (
	"testing"
	"time"

	"github.com/pressradar/pressradar/app/database"
	"github.com/pressradar/pressradar/app/discovery"
)

type fakeStore struct {
	mentions []database.Mention
}

func (f *fakeStore) GetByEventID(topicID, eventID string) (*database.Mention, error) {
	for i := range f.mentions {
		m := &f.mentions[i]
		if m.TopicID == topicID && m.EventID == eventID {
			return m, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) RecentMentions(topicID string, since time.Time) ([]database.Mention, error) {
	var out []database.Mention
	for _, m := range f.mentions {
		if m.TopicID == topicID && !m.DiscoveredAt.Before(since) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeStore) UpdateClustering(mentionID, clusterID string, firstSeen bool) error {
	for i := range f.mentions {
		if f.mentions[i].ID == mentionID {
			id := clusterID
			f.mentions[i].StoryClusterID = &id
			f.mentions[i].FirstSeenForStory = firstSeen
		}
	}
	return nil
}

func (f *fakeStore) add(m database.Mention) *database.Mention {
	f.mentions = append(f.mentions, m)
	return &f.mentions[len(f.mentions)-1]
}

func newTestEngine(store *fakeStore, now time.Time) *Engine {
	engine := NewEngine(store)
	engine.now = func() time.Time { return now }
	return engine
}

func TestAssignFirstMentionStartsOwnStory(t *testing.T) {
	store := &fakeStore{}
	now := time.Now()
	engine := newTestEngine(store, now)

	mention := store.add(database.Mention{
		ID:           "m1",
		TopicID:      "t1",
		Title:        "Solar checkoff bill clears committee",
		DiscoveredAt: now,
	})

	clusterID, firstSeen, err := engine.Assign(mention, discovery.ClusterHint{})
	if err != nil {
		t.Fatalf("Assign() error = %v", err)
	}
	if clusterID != "m1" {
		t.Errorf("clusterID = %s, want m1", clusterID)
	}
	if !firstSeen {
		t.Error("expected the first mention to be first seen for its story")
	}
}

func TestAssignByEventID(t *testing.T) {
	store := &fakeStore{}
	now := time.Now()
	engine := newTestEngine(store, now)

	first := store.add(database.Mention{
		ID: "m1", TopicID: "t1", EventID: "evt-1",
		Title:        "Solar checkoff bill clears committee",
		DiscoveredAt: now.Add(-time.Hour),
	})
	if _, _, err := engine.Assign(first, discovery.ClusterHint{EventID: "evt-1"}); err != nil {
		t.Fatalf("Assign() first error = %v", err)
	}

	second := store.add(database.Mention{
		ID: "m2", TopicID: "t1", EventID: "evt-1",
		Title:        "Committee passes solar measure",
		DiscoveredAt: now,
	})
	clusterID, firstSeen, err := engine.Assign(second, discovery.ClusterHint{EventID: "evt-1", IsDuplicate: true})
	if err != nil {
		t.Fatalf("Assign() second error = %v", err)
	}
	if clusterID != "m1" {
		t.Errorf("clusterID = %s, want m1", clusterID)
	}
	if firstSeen {
		t.Error("a later mention of the same event must not be first seen")
	}
}

func TestAssignDuplicateWithoutEventSelfClusters(t *testing.T) {
	store := &fakeStore{}
	now := time.Now()
	engine := newTestEngine(store, now)

	store.add(database.Mention{
		ID: "m1", TopicID: "t1",
		Title:        "Solar checkoff bill clears committee",
		DiscoveredAt: now.Add(-time.Hour),
	})
	dup := store.add(database.Mention{
		ID: "m2", TopicID: "t1",
		Title:        "Solar checkoff bill clears committee",
		DiscoveredAt: now,
	})

	clusterID, firstSeen, err := engine.Assign(dup, discovery.ClusterHint{IsDuplicate: true})
	if err != nil {
		t.Fatalf("Assign() error = %v", err)
	}
	if clusterID != "m2" {
		t.Errorf("clusterID = %s, want m2: a duplicate without an event anchors itself", clusterID)
	}
	if !firstSeen {
		t.Error("a self-anchored duplicate is first seen for its own story")
	}
}

func TestAssignByTitleOverlap(t *testing.T) {
	store := &fakeStore{}
	now := time.Now()
	engine := newTestEngine(store, now)

	anchor := store.add(database.Mention{
		ID: "m1", TopicID: "t1",
		Title:        "Solar checkoff program passes state senate",
		DiscoveredAt: now.Add(-2 * time.Hour),
	})
	if _, _, err := engine.Assign(anchor, discovery.ClusterHint{}); err != nil {
		t.Fatalf("Assign() anchor error = %v", err)
	}

	similar := store.add(database.Mention{
		ID: "m2", TopicID: "t1",
		Title:        "State senate passes solar checkoff program",
		DiscoveredAt: now,
	})
	clusterID, firstSeen, err := engine.Assign(similar, discovery.ClusterHint{})
	if err != nil {
		t.Fatalf("Assign() similar error = %v", err)
	}
	if clusterID != "m1" || firstSeen {
		t.Errorf("Assign() = (%s, %v), want (m1, false)", clusterID, firstSeen)
	}

	unrelated := store.add(database.Mention{
		ID: "m3", TopicID: "t1",
		Title:        "Governor vetoes transportation budget",
		DiscoveredAt: now,
	})
	clusterID, firstSeen, err = engine.Assign(unrelated, discovery.ClusterHint{})
	if err != nil {
		t.Fatalf("Assign() unrelated error = %v", err)
	}
	if clusterID != "m3" || !firstSeen {
		t.Errorf("Assign() = (%s, %v), want (m3, true)", clusterID, firstSeen)
	}
}

// A chain of partially overlapping headlines collapses into a single story
// anchored by the oldest member.
func TestAssignChainJoinsOldestAnchor(t *testing.T) {
	store := &fakeStore{}
	now := time.Now()
	engine := newTestEngine(store, now)

	a := store.add(database.Mention{
		ID: "a", TopicID: "t1",
		Title:        "Solar checkoff bill advances after committee vote",
		DiscoveredAt: now.Add(-3 * time.Hour),
	})
	if _, _, err := engine.Assign(a, discovery.ClusterHint{}); err != nil {
		t.Fatalf("Assign(a) error = %v", err)
	}

	b := store.add(database.Mention{
		ID: "b", TopicID: "t1",
		Title:        "Committee vote sends solar checkoff bill forward",
		DiscoveredAt: now.Add(-2 * time.Hour),
	})
	if _, _, err := engine.Assign(b, discovery.ClusterHint{}); err != nil {
		t.Fatalf("Assign(b) error = %v", err)
	}

	c := store.add(database.Mention{
		ID: "c", TopicID: "t1",
		Title:        "Solar checkoff bill forward motion continues",
		DiscoveredAt: now.Add(-time.Hour),
	})
	clusterID, _, err := engine.Assign(c, discovery.ClusterHint{})
	if err != nil {
		t.Fatalf("Assign(c) error = %v", err)
	}
	if clusterID != "a" {
		t.Errorf("c joined cluster %s, want a", clusterID)
	}
}

func TestAssignIgnoresMentionsOutsideWindow(t *testing.T) {
	store := &fakeStore{}
	now := time.Now()
	engine := newTestEngine(store, now)

	store.add(database.Mention{
		ID: "old", TopicID: "t1",
		Title:        "Solar checkoff program passes state senate",
		DiscoveredAt: now.Add(-72 * time.Hour),
	})
	fresh := store.add(database.Mention{
		ID: "fresh", TopicID: "t1",
		Title:        "Solar checkoff program passes state senate",
		DiscoveredAt: now,
	})

	clusterID, firstSeen, err := engine.Assign(fresh, discovery.ClusterHint{})
	if err != nil {
		t.Fatalf("Assign() error = %v", err)
	}
	if clusterID != "fresh" || !firstSeen {
		t.Errorf("Assign() = (%s, %v), want a new story outside the window", clusterID, firstSeen)
	}
}

func TestTitleOverlap(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"identical", "solar checkoff bill passes", "solar checkoff bill passes", 1},
		{"no significant words", "a by of", "it to in", 0},
		{"disjoint", "solar checkoff bill passes", "governor vetoes transportation budget", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := titleOverlap(significantWords(tt.a), significantWords(tt.b))
			if got != tt.want {
				t.Errorf("titleOverlap(%q, %q) = %f, want %f", tt.a, tt.b, got, tt.want)
			}
		})
	}
}
