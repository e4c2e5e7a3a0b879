package stats

import (
	"fmt"
	"io"
	"strconv"

	"github.com/verte-zerg/typetest/internal/model"
)

// RenderLeaderboard prints ranked entries as an aligned table.
func RenderLeaderboard(w io.Writer, entries []model.LeaderboardEntry) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "No scores yet.")
		return err
	}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			strconv.Itoa(e.Rank),
			e.Username,
			strconv.Itoa(e.WPM),
			fmt.Sprintf("%d%%", e.Accuracy),
		})
	}
	headers := []string{"#", "User", "WPM", "Accuracy"}
	for _, line := range formatTable(headers, rows, map[int]bool{0: true, 2: true, 3: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderSummary prints a summary of a user's history.
func RenderSummary(w io.Writer, records []model.ScoreRecord, window int) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	sum := Summarize(records)
	lines := []string{
		fmt.Sprintf("Sessions: %d", sum.Sessions),
		fmt.Sprintf("Best: %d WPM · %d%%", sum.Best.WPM, sum.Best.Accuracy),
		fmt.Sprintf("Last: %d WPM · %d%%", sum.Last.WPM, sum.Last.Accuracy),
		fmt.Sprintf("Avg WPM: %.1f", sum.AvgWPM),
		fmt.Sprintf("Avg Accuracy: %.1f%%", sum.AvgAccuracy),
		fmt.Sprintf("WPM      %s", Sparkline(MovingAverage(WPMSeries(records), window))),
		fmt.Sprintf("Accuracy %s", Sparkline(MovingAverage(AccuracySeries(records), window))),
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
