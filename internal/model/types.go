// Package model defines shared data structures.
package model

import "time"

// Guest identity used when no account is logged in.
const (
	GuestID   = "guest"
	GuestName = "Guest"
)

// StartPolicy controls when the countdown of a session is armed.
type StartPolicy string

const (
	// StartExplicit arms the countdown as soon as a session is started.
	StartExplicit StartPolicy = "explicit"
	// StartFirstKeystroke arms the countdown on the first non-empty input.
	StartFirstKeystroke StartPolicy = "first-keystroke"
)

// Settings defines practice settings.
type Settings struct {
	Duration         int
	StartPolicy      StartPolicy
	GuestScores      bool
	TextsFile        string
	LeaderboardLimit int
}

// Account is a registered user.
type Account struct {
	ID         string
	Username   string
	Email      string
	Credential string
	JoinedAt   time.Time
}

// ScoreRecord captures the result of one completed session.
type ScoreRecord struct {
	ID         string
	UserID     string
	WPM        int
	Accuracy   int
	RecordedAt time.Time
}

// Best is the highest-WPM record of a user.
type Best struct {
	WPM      int
	Accuracy int
}

// LeaderboardEntry is one ranked user with their best score.
type LeaderboardEntry struct {
	Rank     int
	UserID   string
	Username string
	WPM      int
	Accuracy int
}
