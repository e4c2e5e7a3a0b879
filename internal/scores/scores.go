// Package scores keeps the append-only log of session results.
package scores

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/typetest/internal/model"
)

// DefaultLimit is the leaderboard size used when none is given.
const DefaultLimit = 10

// Log is the persistence the score store needs.
type Log interface {
	InsertScore(ctx context.Context, rec model.ScoreRecord) error
	ListScores(ctx context.Context, userID string) ([]model.ScoreRecord, error)
}

// Names resolves user ids to display names.
type Names interface {
	Username(ctx context.Context, id string) (string, error)
}

// Store records results and serves best-score and leaderboard views.
type Store struct {
	log    Log
	names  Names
	now    func() time.Time
	logger *slog.Logger
}

// New constructs a Store.
func New(log Log, names Names) *Store {
	return &Store{log: log, names: names, now: time.Now, logger: slog.Default()}
}

// WithLogger sets the logger.
func (s *Store) WithLogger(l *slog.Logger) *Store {
	s.logger = l
	return s
}

// Record appends a result for userID.
func (s *Store) Record(ctx context.Context, userID string, wpm, accuracy int) (model.ScoreRecord, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return model.ScoreRecord{}, fmt.Errorf("failed to generate score id: %w", err)
	}
	rec := model.ScoreRecord{
		ID:         id.String(),
		UserID:     userID,
		WPM:        max(wpm, 0),
		Accuracy:   min(max(accuracy, 0), 100),
		RecordedAt: s.now().UTC(),
	}
	if err := s.log.InsertScore(ctx, rec); err != nil {
		return model.ScoreRecord{}, err
	}
	s.logger.Info("score recorded", "user_id", userID, "wpm", rec.WPM, "accuracy", rec.Accuracy)
	return rec, nil
}

// BestFor returns the highest-WPM record of userID; the first such record wins ties.
// Users without records get the zero Best.
func (s *Store) BestFor(ctx context.Context, userID string) (model.Best, error) {
	records, err := s.log.ListScores(ctx, userID)
	if err != nil {
		return model.Best{}, err
	}
	return bestOf(records), nil
}

// History returns userID's records in insertion order, limited to the last n when n > 0.
func (s *Store) History(ctx context.Context, userID string, n int) ([]model.ScoreRecord, error) {
	records, err := s.log.ListScores(ctx, userID)
	if err != nil {
		return nil, err
	}
	if n > 0 && len(records) > n {
		records = records[len(records)-n:]
	}
	return records, nil
}

// Leaderboard ranks users by their best WPM. Users whose best is 0 are left out.
func (s *Store) Leaderboard(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	records, err := s.log.ListScores(ctx, "")
	if err != nil {
		return nil, err
	}

	type best struct {
		userID string
		rec    model.ScoreRecord
		order  int
	}
	byUser := map[string]*best{}
	var users []*best
	for i, rec := range records {
		b, ok := byUser[rec.UserID]
		if !ok {
			b = &best{userID: rec.UserID, rec: rec, order: i}
			byUser[rec.UserID] = b
			users = append(users, b)
			continue
		}
		if rec.WPM > b.rec.WPM {
			b.rec = rec
			b.order = i
		}
	}

	ranked := make([]*best, 0, len(users))
	for _, b := range users {
		if b.rec.WPM > 0 {
			ranked = append(ranked, b)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].rec.WPM == ranked[j].rec.WPM {
			return ranked[i].order < ranked[j].order
		}
		return ranked[i].rec.WPM > ranked[j].rec.WPM
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	entries := make([]model.LeaderboardEntry, 0, len(ranked))
	for i, b := range ranked {
		name, err := s.names.Username(ctx, b.userID)
		if err != nil {
			return nil, err
		}
		entries = append(entries, model.LeaderboardEntry{
			Rank:     i + 1,
			UserID:   b.userID,
			Username: name,
			WPM:      b.rec.WPM,
			Accuracy: b.rec.Accuracy,
		})
	}
	return entries, nil
}

func bestOf(records []model.ScoreRecord) model.Best {
	var out model.Best
	for _, rec := range records {
		if rec.WPM > out.WPM {
			out = model.Best{WPM: rec.WPM, Accuracy: rec.Accuracy}
		}
	}
	return out
}
