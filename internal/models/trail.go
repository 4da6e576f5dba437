package models

import "time"

// Trail represents a top-level ordered learning path composed of levels
type Trail struct {
	ID        int64
	Name      string
	Theme     string
	Position  int // 1-based order among trails
	IsActive  bool
	CreatedAt time.Time
}

// TrailStatus is the per-user display status of a trail, derived at read
// time rather than stored
type TrailStatus string

const (
	// TrailLocked means the prerequisite trail has not been finished yet
	TrailLocked TrailStatus = "locked"
	// TrailActive means the trail can be started but has no progress
	TrailActive TrailStatus = "active"
	// TrailInProgress means at least one level has been started or completed
	TrailInProgress TrailStatus = "in_progress"
)
