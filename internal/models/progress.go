package models

import "time"

// UserLevel tracks a user's progress on a single level. At most one row
// exists per (user, level) pair
type UserLevel struct {
	ID          int64
	UserID      int64
	LevelID     int64
	Completed   bool
	CompletedAt *time.Time
	CreatedAt   time.Time
}

// ExerciseAttempt is one recorded answer submission. Rows are append-only:
// a user may attempt the same exercise many times and every attempt is kept
type ExerciseAttempt struct {
	ID         int64
	UserID     int64
	ExerciseID int64
	Correct    bool
	CreatedAt  time.Time
}

// AttemptScore pairs a correct attempt with the XP of the parent level,
// used for the weekly leaderboard
type AttemptScore struct {
	UserID  int64
	LevelXP int
}

// LeaderboardEntry is one ranked row of a leaderboard
type LeaderboardEntry struct {
	UserID   int64  `json:"id"`
	Username string `json:"username"`
	XP       int    `json:"xp"`
	Rank     int    `json:"rank"`
}

// LevelProgressView is a level enriched with the user's progress flags,
// used by the trail projection
type LevelProgressView struct {
	Level
	Completed bool
	Current   bool
}

// TrailView is a trail with its levels and the derived per-user status
type TrailView struct {
	Trail
	Levels []LevelProgressView
	Status TrailStatus
}
