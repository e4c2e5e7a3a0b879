package stats

import (
	"bytes"
	"strings"
	"testing"

	"github.com/verte-zerg/typetest/internal/model"
)

func TestWPM(t *testing.T) {
	cases := []struct {
		correct, elapsed, want int
	}{
		{25, 15, 20},
		{0, 30, 0},
		{50, 0, 0},
		{300, 60, 60},
		{3, 1, 36},
		{7, 60, 1},
	}
	for _, c := range cases {
		if got := WPM(c.correct, c.elapsed); got != c.want {
			t.Fatalf("WPM(%d, %d): expected %d, got %d", c.correct, c.elapsed, c.want, got)
		}
	}
}

func TestAccuracy(t *testing.T) {
	cases := []struct {
		correct, total, want int
	}{
		{0, 0, 100},
		{3, 3, 100},
		{2, 3, 67},
		{0, 5, 0},
		{1, 8, 13},
	}
	for _, c := range cases {
		got := Accuracy(c.correct, c.total)
		if got != c.want {
			t.Fatalf("Accuracy(%d, %d): expected %d, got %d", c.correct, c.total, c.want, got)
		}
		if got < 0 || got > 100 {
			t.Fatalf("accuracy out of range: %d", got)
		}
	}
}

func TestSummarize(t *testing.T) {
	records := []model.ScoreRecord{
		{WPM: 40, Accuracy: 90},
		{WPM: 75, Accuracy: 80},
		{WPM: 60, Accuracy: 100},
	}
	sum := Summarize(records)
	if sum.Sessions != 3 {
		t.Fatalf("expected 3 sessions, got %d", sum.Sessions)
	}
	if sum.Best.WPM != 75 || sum.Best.Accuracy != 80 {
		t.Fatalf("unexpected best: %+v", sum.Best)
	}
	if sum.Last.WPM != 60 {
		t.Fatalf("unexpected last: %+v", sum.Last)
	}
	if sum.AvgAccuracy != 90 {
		t.Fatalf("unexpected avg accuracy: %f", sum.AvgAccuracy)
	}
	if empty := Summarize(nil); empty.Sessions != 0 || empty.Best.WPM != 0 {
		t.Fatalf("expected zero summary, got %+v", empty)
	}
}

func TestMovingAverage(t *testing.T) {
	got := MovingAverage([]float64{2, 4, 6, 8}, 2)
	want := []float64{2, 3, 5, 7}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("index %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline([]float64{0, 9}); got != " @" {
		t.Fatalf("unexpected sparkline %q", got)
	}
	if got := Sparkline([]float64{5, 5, 5}); len(got) != 3 {
		t.Fatalf("expected flat sparkline of width 3, got %q", got)
	}
	if got := Sparkline(nil); got != "" {
		t.Fatalf("expected empty sparkline, got %q", got)
	}
}

func TestRenderLeaderboard(t *testing.T) {
	var buf bytes.Buffer
	err := RenderLeaderboard(&buf, []model.LeaderboardEntry{
		{Rank: 1, Username: "alice", WPM: 80, Accuracy: 97},
		{Rank: 2, Username: "Guest", WPM: 64, Accuracy: 91},
	})
	if err != nil {
		t.Fatalf("render leaderboard: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"User", "alice", "80", "97%", "Guest"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}

	buf.Reset()
	if err := RenderLeaderboard(&buf, nil); err != nil {
		t.Fatalf("render empty leaderboard: %v", err)
	}
	if !strings.Contains(buf.String(), "No scores yet.") {
		t.Fatalf("expected empty message, got %q", buf.String())
	}
}

func TestRenderSummary(t *testing.T) {
	var buf bytes.Buffer
	records := []model.ScoreRecord{{WPM: 40, Accuracy: 90}, {WPM: 75, Accuracy: 96}}
	if err := RenderSummary(&buf, records, 5); err != nil {
		t.Fatalf("render summary: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Sessions: 2", "Best: 75 WPM", "Last: 75 WPM", "Avg WPM: 57.5"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}
