package store

import (
	"context"
	"fmt"
	"time"

	"github.com/verte-zerg/typetest/internal/model"
)

// InsertScore appends a score record.
func (s *Store) InsertScore(ctx context.Context, rec model.ScoreRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO scores (id, user_id, wpm, accuracy, recorded_at) VALUES (?, ?, ?, ?, ?)`,
		rec.ID,
		rec.UserID,
		rec.WPM,
		rec.Accuracy,
		rec.RecordedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to insert score: %w", err)
	}
	return nil
}

// ListScores returns score records in insertion order. An empty userID lists every user.
func (s *Store) ListScores(ctx context.Context, userID string) ([]model.ScoreRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, wpm, accuracy, recorded_at
		 FROM scores
		 WHERE (? = '' OR user_id = ?)
		 ORDER BY seq ASC`, userID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list scores: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var records []model.ScoreRecord
	for rows.Next() {
		var rec model.ScoreRecord
		var recordedAt string
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.WPM, &rec.Accuracy, &recordedAt); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, recordedAt)
		if err != nil {
			return nil, err
		}
		rec.RecordedAt = parsed
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}
