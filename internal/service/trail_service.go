package service

import (
	"sort"
	"time"

	"linguatrail/internal/models"
)

// TrailService builds read-only projections of the catalog combined
// with a user's progress
type TrailService struct {
	content  ContentStore
	progress ProgressStore
	users    UserStore
}

// NewTrailService creates a new trail service
func NewTrailService(content ContentStore, progress ProgressStore, users UserStore) *TrailService {
	return &TrailService{content: content, progress: progress, users: users}
}

// GetUserTrails returns every trail with its levels annotated with the
// user's completed/current flags and the trail's derived status
func (s *TrailService) GetUserTrails(userID int64) ([]models.TrailView, error) {
	user, err := s.users.GetUserByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}

	trails, err := s.content.GetTrails()
	if err != nil {
		return nil, err
	}

	userLevels, err := s.progress.GetUserLevels(userID)
	if err != nil {
		return nil, err
	}
	progressByLevel := make(map[int64]models.UserLevel, len(userLevels))
	for _, ul := range userLevels {
		progressByLevel[ul.LevelID] = ul
	}

	views := make([]models.TrailView, 0, len(trails))
	for i, trail := range trails {
		levels, err := s.content.GetLevelsByTrail(trail.ID)
		if err != nil {
			return nil, err
		}

		view := models.TrailView{Trail: trail}
		for _, level := range levels {
			lv := models.LevelProgressView{Level: level}
			if ul, ok := progressByLevel[level.ID]; ok {
				lv.Completed = ul.Completed
			}
			if user.CurrentLevelID != nil && *user.CurrentLevelID == level.ID {
				lv.Current = true
			}
			view.Levels = append(view.Levels, lv)
		}

		var prev *models.TrailView
		if i > 0 {
			prev = &views[i-1]
		}
		view.Status = deriveTrailStatus(&view, prev, i == 0)
		views = append(views, view)
	}

	return views, nil
}

// deriveTrailStatus picks the user-facing status of one trail given the
// previous trail's annotated view. Any started or completed level makes
// the trail in_progress; the first trail is otherwise always open;
// later trails open once the previous trail's DOURADO level (or, when a
// trail has no DOURADO level, all of its levels) is completed
func deriveTrailStatus(trail, prev *models.TrailView, first bool) models.TrailStatus {
	for _, lv := range trail.Levels {
		if lv.Completed || lv.Current {
			return models.TrailInProgress
		}
	}

	if first {
		return models.TrailActive
	}
	if prev == nil {
		return models.TrailLocked
	}

	goldDone := false
	hasGold := false
	allDone := len(prev.Levels) > 0
	for _, lv := range prev.Levels {
		if lv.Color == models.ColorDourado {
			hasGold = true
			if lv.Completed {
				goldDone = true
			}
		}
		if !lv.Completed {
			allDone = false
		}
	}
	if (hasGold && goldDone) || (!hasGold && allDone) {
		return models.TrailActive
	}
	return models.TrailLocked
}

// CompletedLevelActivity is one recent level completion shown on the
// profile page
type CompletedLevelActivity struct {
	LevelID     int64     `json:"levelId"`
	LevelName   string    `json:"levelName"`
	CompletedAt time.Time `json:"completedAt"`
}

// UserStats aggregates a user's learning history
type UserStats struct {
	CompletedLevels  int                      `json:"completedLevels"`
	CompletedTrails  int                      `json:"completedTrails"`
	CorrectExercises int                      `json:"correctExercises"`
	RecentActivity   []CompletedLevelActivity `json:"recentActivity"`
}

const recentActivityLimit = 5

// GetUserStats computes profile statistics from the user's progress and
// attempt history
func (s *TrailService) GetUserStats(userID int64) (*UserStats, error) {
	userLevels, err := s.progress.GetUserLevels(userID)
	if err != nil {
		return nil, err
	}

	stats := &UserStats{}
	completedByLevel := make(map[int64]models.UserLevel)
	for _, ul := range userLevels {
		if ul.Completed {
			stats.CompletedLevels++
			completedByLevel[ul.LevelID] = ul
		}
	}

	stats.CorrectExercises, err = s.progress.CountCorrectAttempts(userID)
	if err != nil {
		return nil, err
	}

	trails, err := s.content.GetTrails()
	if err != nil {
		return nil, err
	}

	var completions []CompletedLevelActivity
	for _, trail := range trails {
		levels, err := s.content.GetLevelsByTrail(trail.ID)
		if err != nil {
			return nil, err
		}

		trailDone := len(levels) > 0
		for _, level := range levels {
			ul, ok := completedByLevel[level.ID]
			if !ok {
				trailDone = false
				continue
			}
			if ul.CompletedAt != nil {
				completions = append(completions, CompletedLevelActivity{
					LevelID:     level.ID,
					LevelName:   level.Name,
					CompletedAt: *ul.CompletedAt,
				})
			}
		}
		if trailDone {
			stats.CompletedTrails++
		}
	}

	sort.Slice(completions, func(i, j int) bool {
		return completions[i].CompletedAt.After(completions[j].CompletedAt)
	})
	if len(completions) > recentActivityLimit {
		completions = completions[:recentActivityLimit]
	}
	stats.RecentActivity = completions

	return stats, nil
}
