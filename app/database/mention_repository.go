package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// MentionRepo handles database operations for mentions
type MentionRepo struct {
	db *DB
}

var _ MentionRepository = (*MentionRepo)(nil)

func NewMentionRepository(db *DB) *MentionRepo {
	return &MentionRepo{db: db}
}

func (r *MentionRepo) KnownURLs(topicID string) (map[string]struct{}, error) {
	rows, err := r.db.Query("SELECT url FROM mentions WHERE topic_id = ?", topicID)
	if err != nil {
		return nil, fmt.Errorf("failed to get known urls: %w", err)
	}
	defer rows.Close()

	known := make(map[string]struct{})
	for rows.Next() {
		var url string
		if err := rows.Scan(&url); err != nil {
			return nil, fmt.Errorf("failed to scan url row: %w", err)
		}
		known[url] = struct{}{}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating url rows: %w", err)
	}

	return known, nil
}

// Insert persists a mention. Re-discovery of a (topic_id, url) pair is a
// successful no-op: the row count tells the caller whether anything was new.
func (r *MentionRepo) Insert(mention *Mention) (bool, error) {
	if mention.ID == "" {
		mention.ID = uuid.NewString()
	}
	if mention.DiscoveredAt.IsZero() {
		mention.DiscoveredAt = time.Now().UTC()
	}
	if mention.PublishedAt.IsZero() {
		mention.PublishedAt = mention.DiscoveredAt
	}

	result, err := r.db.Exec(`
		INSERT INTO mentions (
			id, topic_id, url, title, outlet, excerpt, content,
			sentiment, event_id, story_cluster_id, first_seen_for_story,
			journalist_id, discovered_at, published_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (topic_id, url) DO NOTHING
	`, mention.ID, mention.TopicID, mention.URL, mention.Title, mention.Outlet,
		mention.Excerpt, mention.Content, mention.Sentiment, mention.EventID,
		mention.StoryClusterID, mention.FirstSeenForStory, mention.JournalistID,
		mention.DiscoveredAt.UTC(), mention.PublishedAt.UTC())

	if err != nil {
		return false, fmt.Errorf("failed to insert mention: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read insert result: %w", err)
	}

	return affected > 0, nil
}

func (r *MentionRepo) RecentMentions(topicID string, since time.Time) ([]Mention, error) {
	rows, err := r.db.Query(`
		SELECT id, topic_id, url, title, outlet, excerpt, content,
		       sentiment, event_id, story_cluster_id, first_seen_for_story,
		       journalist_id, discovered_at, published_at, created_at
		FROM mentions
		WHERE topic_id = ? AND discovered_at >= ?
		ORDER BY discovered_at ASC
	`, topicID, since.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to get recent mentions: %w", err)
	}
	defer rows.Close()

	return scanMentions(rows)
}

func (r *MentionRepo) GetByEventID(topicID, eventID string) (*Mention, error) {
	if eventID == "" {
		return nil, nil
	}

	row := r.db.QueryRow(`
		SELECT id, topic_id, url, title, outlet, excerpt, content,
		       sentiment, event_id, story_cluster_id, first_seen_for_story,
		       journalist_id, discovered_at, published_at, created_at
		FROM mentions
		WHERE topic_id = ? AND event_id = ?
		ORDER BY discovered_at ASC
		LIMIT 1
	`, topicID, eventID)

	mention, err := scanMention(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get mention by event id: %w", err)
	}

	return mention, nil
}

func (r *MentionRepo) UpdateClustering(mentionID, clusterID string, firstSeen bool) error {
	_, err := r.db.Exec(`
		UPDATE mentions
		SET story_cluster_id = ?, first_seen_for_story = ?
		WHERE id = ?
	`, clusterID, firstSeen, mentionID)

	if err != nil {
		return fmt.Errorf("failed to update clustering: %w", err)
	}

	return nil
}

func (r *MentionRepo) UpdateSentiment(mentionID, sentiment string) error {
	_, err := r.db.Exec("UPDATE mentions SET sentiment = ? WHERE id = ?", sentiment, mentionID)
	if err != nil {
		return fmt.Errorf("failed to update sentiment: %w", err)
	}
	return nil
}

func (r *MentionRepo) UpdateJournalist(mentionID, journalistID string) error {
	_, err := r.db.Exec("UPDATE mentions SET journalist_id = ? WHERE id = ?", journalistID, mentionID)
	if err != nil {
		return fmt.Errorf("failed to update journalist: %w", err)
	}
	return nil
}

func (r *MentionRepo) GetVisibleMentions(topicID string, limit int) ([]Mention, error) {
	rows, err := r.db.Query(`
		SELECT id, topic_id, url, title, outlet, excerpt, content,
		       sentiment, event_id, story_cluster_id, first_seen_for_story,
		       journalist_id, discovered_at, published_at, created_at
		FROM mentions
		WHERE topic_id = ?
		ORDER BY published_at DESC
		LIMIT ?
	`, topicID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get mentions: %w", err)
	}
	defer rows.Close()

	return scanMentions(rows)
}

func (r *MentionRepo) GetMentionCount(topicID string) (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM mentions WHERE topic_id = ?", topicID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get mention count: %w", err)
	}
	return count, nil
}

func (r *MentionRepo) GetMentionStats(topicID string) (total, clustered, scored int, err error) {
	err = r.db.QueryRow(`
		SELECT
			COUNT(*) as total,
			SUM(CASE WHEN story_cluster_id IS NOT NULL THEN 1 ELSE 0 END) as clustered,
			SUM(CASE WHEN sentiment != 'unscored' THEN 1 ELSE 0 END) as scored
		FROM mentions
		WHERE topic_id = ?
	`, topicID).Scan(&total, &clustered, &scored)

	if err != nil {
		return 0, 0, 0, fmt.Errorf("failed to get mention stats: %w", err)
	}

	return total, clustered, scored, nil
}

func scanMention(row rowScanner) (*Mention, error) {
	var mention Mention
	err := row.Scan(
		&mention.ID, &mention.TopicID, &mention.URL, &mention.Title,
		&mention.Outlet, &mention.Excerpt, &mention.Content,
		&mention.Sentiment, &mention.EventID, &mention.StoryClusterID,
		&mention.FirstSeenForStory, &mention.JournalistID,
		&mention.DiscoveredAt, &mention.PublishedAt, &mention.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &mention, nil
}

func scanMentions(rows *sql.Rows) ([]Mention, error) {
	var mentions []Mention
	for rows.Next() {
		mention, err := scanMention(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan mention row: %w", err)
		}
		mentions = append(mentions, *mention)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating mention rows: %w", err)
	}

	return mentions, nil
}
