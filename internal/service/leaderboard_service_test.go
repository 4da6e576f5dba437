package service

import (
	"context"
	"testing"
	"time"

	"linguatrail/internal/models"
)

type memCache struct {
	data map[string][]models.LeaderboardEntry
	hits int
}

func (c *memCache) Get(ctx context.Context, key string) []models.LeaderboardEntry {
	if e, ok := c.data[key]; ok {
		c.hits++
		return e
	}
	return nil
}

func (c *memCache) Set(ctx context.Context, key string, entries []models.LeaderboardEntry) {
	if c.data == nil {
		c.data = make(map[string][]models.LeaderboardEntry)
	}
	c.data[key] = entries
}

func (c *memCache) Invalidate(ctx context.Context, keys ...string) {
	for _, key := range keys {
		delete(c.data, key)
	}
}

func TestAllTimeLeaderboard(t *testing.T) {
	content := twoTrailFixture()
	users := newMemUsers(
		&models.User{ID: 1, Username: "ade", XP: 50},
		&models.User{ID: 2, Username: "bola", XP: 120},
		&models.User{ID: 3, Username: "chi", XP: 0},
		&models.User{ID: 4, Username: "dayo", XP: 50},
	)
	svc := NewLeaderboardService(users, newMemProgress(content), nil)

	entries, err := svc.GetLeaderboard(context.Background(), LeaderboardAllTime)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(entries) != 3 {
		t.Fatalf("Expected 3 entries (zero-XP users hidden), got %d", len(entries))
	}
	if entries[0].Username != "bola" || entries[0].Rank != 1 {
		t.Errorf("Expected bola ranked first, got %+v", entries[0])
	}
	// Equal XP ties break by user ID ascending
	if entries[1].UserID != 1 || entries[2].UserID != 4 {
		t.Errorf("Expected tie order ade then dayo, got %+v then %+v", entries[1], entries[2])
	}
	if entries[2].Rank != 3 {
		t.Errorf("Expected positional rank 3, got %d", entries[2].Rank)
	}
}

func TestWeeklyLeaderboard(t *testing.T) {
	content := twoTrailFixture()
	progress := newMemProgress(content)
	users := newMemUsers(
		&models.User{ID: 1, Username: "ade"},
		&models.User{ID: 2, Username: "bola"},
	)
	svc := NewLeaderboardService(users, progress, nil)

	now := time.Now()

	// Level 10 is worth 10 XP, level 11 is worth 30
	progress.clock = func() time.Time { return now.Add(-time.Hour) }
	progress.AppendAttempt(1, 100, true)
	progress.AppendAttempt(1, 100, true) // replays accrue again
	progress.AppendAttempt(1, 101, false)
	progress.AppendAttempt(2, 102, true)

	// Older than the window, must not count
	progress.clock = func() time.Time { return now.Add(-8 * 24 * time.Hour) }
	progress.AppendAttempt(1, 102, true)

	entries, err := svc.GetLeaderboard(context.Background(), LeaderboardWeekly)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}
	if entries[0].Username != "bola" || entries[0].XP != 30 {
		t.Errorf("Expected bola leading with 30, got %+v", entries[0])
	}
	if entries[1].Username != "ade" || entries[1].XP != 20 {
		t.Errorf("Expected ade with 20 (two correct attempts at 10), got %+v", entries[1])
	}
}

func TestLeaderboardUsesCache(t *testing.T) {
	content := twoTrailFixture()
	users := newMemUsers(&models.User{ID: 1, Username: "ade", XP: 10})
	c := &memCache{}
	svc := NewLeaderboardService(users, newMemProgress(content), c)

	ctx := context.Background()
	first, err := svc.GetLeaderboard(ctx, LeaderboardAllTime)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	second, err := svc.GetLeaderboard(ctx, LeaderboardAllTime)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if c.hits != 1 {
		t.Errorf("Expected second read served from cache, got %d hits", c.hits)
	}
	if len(first) != len(second) {
		t.Errorf("Expected identical results, got %d vs %d entries", len(first), len(second))
	}

	svc.InvalidateStandings(ctx)
	if _, err := svc.GetLeaderboard(ctx, LeaderboardAllTime); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if c.hits != 1 {
		t.Errorf("Expected recompute after invalidation, got %d hits", c.hits)
	}
}
