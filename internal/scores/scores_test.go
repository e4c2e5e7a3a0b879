package scores

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/verte-zerg/typetest/internal/model"
	"github.com/verte-zerg/typetest/internal/store"
)

type staticNames map[string]string

func (n staticNames) Username(_ context.Context, id string) (string, error) {
	if name, ok := n[id]; ok {
		return name, nil
	}
	return id, nil
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "typetest.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return New(st, staticNames{"u1": "alice", "u2": "bob", model.GuestID: model.GuestName})
}

func record(t *testing.T, s *Store, userID string, wpm, acc int) model.ScoreRecord {
	t.Helper()
	rec, err := s.Record(context.Background(), userID, wpm, acc)
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	return rec
}

func TestRecordAssignsOrderedIDs(t *testing.T) {
	s := newTestStore(t)
	first := record(t, s, "u1", 40, 90)
	second := record(t, s, "u1", 50, 95)
	if first.ID == "" || first.ID == second.ID {
		t.Fatalf("expected unique ids, got %q and %q", first.ID, second.ID)
	}
	if first.ID >= second.ID {
		t.Fatalf("expected time-ordered ids, got %q then %q", first.ID, second.ID)
	}
	if first.RecordedAt.IsZero() {
		t.Fatalf("expected timestamp")
	}
}

func TestRecordClampsValues(t *testing.T) {
	s := newTestStore(t)
	rec := record(t, s, "u1", -3, 130)
	if rec.WPM != 0 || rec.Accuracy != 100 {
		t.Fatalf("expected clamped values, got %+v", rec)
	}
}

func TestBestFor(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	best, err := s.BestFor(ctx, "u1")
	if err != nil {
		t.Fatalf("best for empty: %v", err)
	}
	if best != (model.Best{}) {
		t.Fatalf("expected zero sentinel, got %+v", best)
	}

	record(t, s, "u1", 40, 99)
	record(t, s, "u1", 75, 81)
	record(t, s, "u1", 60, 100)
	record(t, s, "u2", 120, 100)

	best, err = s.BestFor(ctx, "u1")
	if err != nil {
		t.Fatalf("best for: %v", err)
	}
	if best.WPM != 75 || best.Accuracy != 81 {
		t.Fatalf("expected {75 81}, got %+v", best)
	}
}

func TestBestForTieKeepsFirst(t *testing.T) {
	s := newTestStore(t)
	record(t, s, "u1", 70, 90)
	record(t, s, "u1", 70, 99)
	best, err := s.BestFor(context.Background(), "u1")
	if err != nil {
		t.Fatalf("best for: %v", err)
	}
	if best.Accuracy != 90 {
		t.Fatalf("expected first record to win tie, got %+v", best)
	}
}

func TestLeaderboard(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	record(t, s, "u1", 40, 90)
	record(t, s, "u2", 0, 100)
	record(t, s, model.GuestID, 55, 97)
	record(t, s, "u1", 80, 95)
	record(t, s, "u3", 55, 92)

	board, err := s.Leaderboard(ctx, 10)
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if len(board) != 3 {
		t.Fatalf("expected 3 entries, got %+v", board)
	}
	want := []struct {
		name string
		wpm  int
	}{{"alice", 80}, {model.GuestName, 55}, {"u3", 55}}
	for i, w := range want {
		if board[i].Username != w.name || board[i].WPM != w.wpm || board[i].Rank != i+1 {
			t.Fatalf("entry %d: expected %s/%d, got %+v", i, w.name, w.wpm, board[i])
		}
	}
	for _, e := range board {
		if e.UserID == "u2" {
			t.Fatalf("user with zero best must be excluded")
		}
	}
	for i := 1; i < len(board); i++ {
		if board[i].WPM > board[i-1].WPM {
			t.Fatalf("leaderboard not descending: %+v", board)
		}
	}

	top, err := s.Leaderboard(ctx, 1)
	if err != nil {
		t.Fatalf("leaderboard limit: %v", err)
	}
	if len(top) != 1 || top[0].UserID != "u1" {
		t.Fatalf("unexpected limited board: %+v", top)
	}
}

func TestLeaderboardDefaultLimit(t *testing.T) {
	s := newTestStore(t)
	for i := 0; i < DefaultLimit+3; i++ {
		record(t, s, string(rune('a'+i)), 10+i, 90)
	}
	board, err := s.Leaderboard(context.Background(), 0)
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if len(board) != DefaultLimit {
		t.Fatalf("expected %d entries, got %d", DefaultLimit, len(board))
	}
	if board[0].WPM != 10+DefaultLimit+2 {
		t.Fatalf("unexpected leader: %+v", board[0])
	}
}

func TestHistory(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	for _, wpm := range []int{10, 20, 30, 40} {
		record(t, s, "u1", wpm, 90)
	}
	record(t, s, "u2", 99, 90)

	all, err := s.History(ctx, "u1", 0)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(all) != 4 || all[0].WPM != 10 {
		t.Fatalf("unexpected history: %+v", all)
	}
	last, err := s.History(ctx, "u1", 2)
	if err != nil {
		t.Fatalf("history last: %v", err)
	}
	if len(last) != 2 || last[0].WPM != 30 || last[1].WPM != 40 {
		t.Fatalf("unexpected last history: %+v", last)
	}
}
