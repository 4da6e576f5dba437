package service

import (
	"context"
	"sort"
	"time"

	"linguatrail/internal/models"
)

// LeaderboardPeriod selects which standings to compute
type LeaderboardPeriod string

const (
	LeaderboardAllTime LeaderboardPeriod = "allTime"
	LeaderboardWeekly  LeaderboardPeriod = "weekly"
)

const weeklyWindow = 7 * 24 * time.Hour

// RankingCache caches computed leaderboard pages. A nil check is not
// needed by callers: pass cache.NewLeaderboardCache, which degrades to
// a no-op when Redis is not configured
type RankingCache interface {
	Get(ctx context.Context, key string) []models.LeaderboardEntry
	Set(ctx context.Context, key string, entries []models.LeaderboardEntry)
	Invalidate(ctx context.Context, keys ...string)
}

// LeaderboardService derives ranked standings from cumulative XP
// (all-time) or from the recent attempt history (weekly)
type LeaderboardService struct {
	users    UserStore
	progress ProgressStore
	cache    RankingCache
	now      func() time.Time
}

// NewLeaderboardService creates a new leaderboard service
func NewLeaderboardService(users UserStore, progress ProgressStore, cache RankingCache) *LeaderboardService {
	return &LeaderboardService{users: users, progress: progress, cache: cache, now: time.Now}
}

// GetLeaderboard computes the standings for a period. Unknown periods
// fall back to all-time
func (s *LeaderboardService) GetLeaderboard(ctx context.Context, period LeaderboardPeriod) ([]models.LeaderboardEntry, error) {
	key := "leaderboard:" + string(period)
	if s.cache != nil {
		if cached := s.cache.Get(ctx, key); cached != nil {
			return cached, nil
		}
	}

	var entries []models.LeaderboardEntry
	var err error
	if period == LeaderboardWeekly {
		entries, err = s.weekly()
	} else {
		entries, err = s.allTime()
	}
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Set(ctx, key, entries)
	}
	return entries, nil
}

// InvalidateStandings drops all cached standings. Called after a
// submission that changed XP
func (s *LeaderboardService) InvalidateStandings(ctx context.Context) {
	if s.cache == nil {
		return
	}
	s.cache.Invalidate(ctx,
		"leaderboard:"+string(LeaderboardAllTime),
		"leaderboard:"+string(LeaderboardWeekly))
}

// allTime ranks users by cumulative XP. Users who never earned XP are
// not listed
func (s *LeaderboardService) allTime() ([]models.LeaderboardEntry, error) {
	users, err := s.users.ListUsers()
	if err != nil {
		return nil, err
	}

	entries := make([]models.LeaderboardEntry, 0, len(users))
	for _, u := range users {
		if u.XP <= 0 {
			continue
		}
		entries = append(entries, models.LeaderboardEntry{
			UserID:   u.ID,
			Username: u.Username,
			XP:       u.XP,
		})
	}

	rank(entries)
	return entries, nil
}

// weekly sums, per user, the XP of the parent level of every correct
// attempt in the trailing seven days. Scoring is attempt-driven:
// replaying exercises of a level accrues that level's XP again
func (s *LeaderboardService) weekly() ([]models.LeaderboardEntry, error) {
	since := s.now().Add(-weeklyWindow)
	scores, err := s.progress.CorrectAttemptScoresSince(since)
	if err != nil {
		return nil, err
	}

	totals := make(map[int64]int)
	for _, sc := range scores {
		totals[sc.UserID] += sc.LevelXP
	}

	users, err := s.users.ListUsers()
	if err != nil {
		return nil, err
	}

	entries := make([]models.LeaderboardEntry, 0, len(totals))
	for _, u := range users {
		if xp := totals[u.ID]; xp > 0 {
			entries = append(entries, models.LeaderboardEntry{
				UserID:   u.ID,
				Username: u.Username,
				XP:       xp,
			})
		}
	}

	rank(entries)
	return entries, nil
}

// rank sorts by XP descending, ties broken by user ID ascending, and
// assigns 1-based positional ranks
func rank(entries []models.LeaderboardEntry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].XP != entries[j].XP {
			return entries[i].XP > entries[j].XP
		}
		return entries[i].UserID < entries[j].UserID
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
}
