package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TopicRepo handles database operations for topics
type TopicRepo struct {
	db *DB
}

var _ TopicRepository = (*TopicRepo)(nil)

func NewTopicRepository(db *DB) *TopicRepo {
	return &TopicRepo{db: db}
}

// UpsertTopic registers a configured topic, updating the searchable terms
// when the configuration changed.
func (r *TopicRepo) UpsertTopic(name, displayName, state string, keywords, billIDs []string, enabled bool) error {
	keywordsJSON, err := json.Marshal(keywords)
	if err != nil {
		return fmt.Errorf("failed to encode keywords: %w", err)
	}
	billIDsJSON, err := json.Marshal(billIDs)
	if err != nil {
		return fmt.Errorf("failed to encode bill ids: %w", err)
	}

	_, err = r.db.Exec(`
		INSERT INTO topics (id, name, display_name, state, keywords, bill_ids, enabled)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (name) DO UPDATE SET
			display_name = excluded.display_name,
			state = excluded.state,
			keywords = excluded.keywords,
			bill_ids = excluded.bill_ids,
			enabled = excluded.enabled,
			updated_at = CURRENT_TIMESTAMP
	`, uuid.NewString(), name, displayName, state, string(keywordsJSON), string(billIDsJSON), enabled)

	if err != nil {
		return fmt.Errorf("failed to upsert topic: %w", err)
	}

	return nil
}

func (r *TopicRepo) GetTopic(topicName string) (*Topic, error) {
	row := r.db.QueryRow(`
		SELECT id, name, display_name, state, keywords, bill_ids, enabled,
		       last_swept_at, next_sweep_at, last_report, created_at, updated_at
		FROM topics
		WHERE name = ?
	`, topicName)

	topic, err := scanTopic(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get topic: %w", err)
	}

	return topic, nil
}

func (r *TopicRepo) GetTopicCount() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM topics").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get topic count: %w", err)
	}
	return count, nil
}

// UpdateSweepStatus records the outcome of a sweep and schedules the next one.
func (r *TopicRepo) UpdateSweepStatus(topicName string, report string, nextSweep time.Time) error {
	_, err := r.db.Exec(`
		UPDATE topics
		SET last_swept_at = CURRENT_TIMESTAMP,
		    next_sweep_at = ?,
		    last_report = ?,
		    updated_at = CURRENT_TIMESTAMP
		WHERE name = ?
	`, nextSweep.UTC(), report, topicName)

	if err != nil {
		return fmt.Errorf("failed to update sweep status: %w", err)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTopic(row rowScanner) (*Topic, error) {
	var topic Topic
	var keywordsJSON, billIDsJSON string

	err := row.Scan(
		&topic.ID, &topic.Name, &topic.DisplayName, &topic.State,
		&keywordsJSON, &billIDsJSON, &topic.Enabled,
		&topic.LastSweptAt, &topic.NextSweepAt, &topic.LastReport,
		&topic.CreatedAt, &topic.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(keywordsJSON), &topic.Keywords); err != nil {
		return nil, fmt.Errorf("failed to decode keywords: %w", err)
	}
	if err := json.Unmarshal([]byte(billIDsJSON), &topic.BillIDs); err != nil {
		return nil, fmt.Errorf("failed to decode bill ids: %w", err)
	}

	return &topic, nil
}
