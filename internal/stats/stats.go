// Package stats contains score calculations and reporting.
package stats

import (
	"math"
	"strings"

	"github.com/verte-zerg/typetest/internal/model"
)

const sparkChars = " .:-=+*#%@"

// CharsPerWord is the standard word length used for WPM.
const CharsPerWord = 5

// WPM converts correct characters over elapsed seconds into words per minute.
// Zero elapsed time yields 0.
func WPM(correct, elapsedSeconds int) int {
	if elapsedSeconds <= 0 || correct <= 0 {
		return 0
	}
	minutes := float64(elapsedSeconds) / 60.0
	return int(math.Round((float64(correct) / CharsPerWord) / minutes))
}

// Accuracy is the rounded percentage of correct characters. No attempts yields 100.
func Accuracy(correct, total int) int {
	if total <= 0 {
		return 100
	}
	if correct < 0 {
		correct = 0
	}
	if correct > total {
		correct = total
	}
	return int(math.Round(100 * float64(correct) / float64(total)))
}

// Summary aggregates a user's score history.
type Summary struct {
	Sessions    int
	AvgWPM      float64
	AvgAccuracy float64
	Best        model.Best
	Last        model.Best
}

// Summarize computes averages, best and last scores over records in insertion order.
func Summarize(records []model.ScoreRecord) Summary {
	if len(records) == 0 {
		return Summary{}
	}
	var sum Summary
	var totalWPM, totalAcc float64
	for _, r := range records {
		totalWPM += float64(r.WPM)
		totalAcc += float64(r.Accuracy)
		if r.WPM > sum.Best.WPM {
			sum.Best = model.Best{WPM: r.WPM, Accuracy: r.Accuracy}
		}
	}
	last := records[len(records)-1]
	sum.Sessions = len(records)
	sum.AvgWPM = totalWPM / float64(len(records))
	sum.AvgAccuracy = totalAcc / float64(len(records))
	sum.Last = model.Best{WPM: last.WPM, Accuracy: last.Accuracy}
	return sum
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 {
		copy(out, values)
		return out
	}
	var sum float64
	for i, v := range values {
		sum += v
		n := i + 1
		if i >= window {
			sum -= values[i-window]
			n = window
		}
		out[i] = sum / float64(n)
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal, maxVal := values[0], values[0]
	for _, v := range values[1:] {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	last := len(sparkChars) - 1
	for _, v := range values {
		idx := int(math.Round((v - minVal) / (maxVal - minVal) * float64(last)))
		idx = max(0, min(idx, last))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// WPMSeries extracts WPM values from records.
func WPMSeries(records []model.ScoreRecord) []float64 {
	out := make([]float64, len(records))
	for i, r := range records {
		out[i] = float64(r.WPM)
	}
	return out
}

// AccuracySeries extracts accuracy values from records.
func AccuracySeries(records []model.ScoreRecord) []float64 {
	out := make([]float64, len(records))
	for i, r := range records {
		out[i] = float64(r.Accuracy)
	}
	return out
}
