package database

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// JournalistRepo handles database operations for journalist records
type JournalistRepo struct {
	db *DB
}

var _ JournalistRepository = (*JournalistRepo)(nil)

func NewJournalistRepository(db *DB) *JournalistRepo {
	return &JournalistRepo{db: db}
}

// Upsert records one attributed article for the (name, outlet) pair and
// returns the journalist's id. A new record starts at article_count 1;
// an existing one increments its count, folds a scored sentiment into the
// running mean, fills empty contact fields and unions beats.
func (r *JournalistRepo) Upsert(update JournalistUpdate) (string, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRow(`
		SELECT id, email, phone, twitter, linkedin,
		       article_count, avg_sentiment, scored_count, beats
		FROM journalists
		WHERE name = ? AND outlet = ?
	`, update.Name, update.Outlet)

	var (
		id, email, phone, twitter, linkedin, beatsJSON string
		articleCount, scoredCount                      int
		avgSentiment                                   float64
	)
	err = row.Scan(&id, &email, &phone, &twitter, &linkedin,
		&articleCount, &avgSentiment, &scoredCount, &beatsJSON)

	if err == sql.ErrNoRows {
		id, err = r.insert(tx, update)
		if err != nil {
			return "", err
		}
		if err := tx.Commit(); err != nil {
			return "", fmt.Errorf("failed to commit journalist insert: %w", err)
		}
		return id, nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get journalist: %w", err)
	}

	articleCount++
	if update.SentimentValue != nil {
		avgSentiment = (avgSentiment*float64(scoredCount) + *update.SentimentValue) / float64(scoredCount+1)
		scoredCount++
	}

	// Contact fields only fill gaps. An earlier discovered address stays
	// even when the new article carries a different one.
	email = fillEmpty(email, update.Email)
	phone = fillEmpty(phone, update.Phone)
	twitter = fillEmpty(twitter, update.Twitter)
	linkedin = fillEmpty(linkedin, update.LinkedIn)

	var beats []string
	if err := json.Unmarshal([]byte(beatsJSON), &beats); err != nil {
		return "", fmt.Errorf("failed to decode beats: %w", err)
	}
	beats = unionBeats(beats, update.Beats)
	mergedBeats, err := json.Marshal(beats)
	if err != nil {
		return "", fmt.Errorf("failed to encode beats: %w", err)
	}

	_, err = tx.Exec(`
		UPDATE journalists
		SET email = ?, phone = ?, twitter = ?, linkedin = ?,
		    article_count = ?, avg_sentiment = ?, scored_count = ?,
		    beats = ?, last_article_at = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, email, phone, twitter, linkedin,
		articleCount, avgSentiment, scoredCount,
		string(mergedBeats), update.ArticleAt.UTC(), id)

	if err != nil {
		return "", fmt.Errorf("failed to update journalist: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit journalist update: %w", err)
	}

	return id, nil
}

func (r *JournalistRepo) insert(tx *sql.Tx, update JournalistUpdate) (string, error) {
	id := uuid.NewString()

	avgSentiment := 0.0
	scoredCount := 0
	if update.SentimentValue != nil {
		avgSentiment = *update.SentimentValue
		scoredCount = 1
	}

	beats := update.Beats
	if beats == nil {
		beats = []string{}
	}
	beatsJSON, err := json.Marshal(beats)
	if err != nil {
		return "", fmt.Errorf("failed to encode beats: %w", err)
	}

	_, err = tx.Exec(`
		INSERT INTO journalists (
			id, name, outlet, email, phone, twitter, linkedin,
			article_count, avg_sentiment, scored_count, beats, last_article_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, 1, ?, ?, ?, ?)
	`, id, update.Name, update.Outlet, update.Email, update.Phone,
		update.Twitter, update.LinkedIn, avgSentiment, scoredCount,
		string(beatsJSON), update.ArticleAt.UTC())

	if err != nil {
		return "", fmt.Errorf("failed to insert journalist: %w", err)
	}

	return id, nil
}

func (r *JournalistRepo) GetByID(journalistID string) (*Journalist, error) {
	row := r.db.QueryRow(`
		SELECT id, name, outlet, email, phone, twitter, linkedin,
		       article_count, avg_sentiment, scored_count, beats,
		       last_article_at, created_at, updated_at
		FROM journalists
		WHERE id = ?
	`, journalistID)

	journalist, err := scanJournalist(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get journalist: %w", err)
	}

	return journalist, nil
}

func (r *JournalistRepo) List(limit int) ([]Journalist, error) {
	rows, err := r.db.Query(`
		SELECT id, name, outlet, email, phone, twitter, linkedin,
		       article_count, avg_sentiment, scored_count, beats,
		       last_article_at, created_at, updated_at
		FROM journalists
		ORDER BY article_count DESC, name ASC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list journalists: %w", err)
	}
	defer rows.Close()

	var journalists []Journalist
	for rows.Next() {
		journalist, err := scanJournalist(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan journalist row: %w", err)
		}
		journalists = append(journalists, *journalist)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating journalist rows: %w", err)
	}

	return journalists, nil
}

func scanJournalist(row rowScanner) (*Journalist, error) {
	var journalist Journalist
	var beatsJSON string

	err := row.Scan(
		&journalist.ID, &journalist.Name, &journalist.Outlet,
		&journalist.Email, &journalist.Phone, &journalist.Twitter,
		&journalist.LinkedIn, &journalist.ArticleCount,
		&journalist.AvgSentiment, &journalist.ScoredCount, &beatsJSON,
		&journalist.LastArticleAt, &journalist.CreatedAt, &journalist.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(beatsJSON), &journalist.Beats); err != nil {
		return nil, fmt.Errorf("failed to decode beats: %w", err)
	}

	return &journalist, nil
}

func fillEmpty(current, candidate string) string {
	if current == "" {
		return candidate
	}
	return current
}

func unionBeats(existing, incoming []string) []string {
	seen := make(map[string]struct{}, len(existing))
	for _, beat := range existing {
		seen[beat] = struct{}{}
	}
	for _, beat := range incoming {
		if _, ok := seen[beat]; !ok {
			existing = append(existing, beat)
			seen[beat] = struct{}{}
		}
	}
	return existing
}
