package service

import (
	"testing"
	"time"

	"linguatrail/internal/models"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestLifePolicyRefresh(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("full lives clears stale timer", func(t *testing.T) {
		policy := &LifePolicy{now: fixedClock(base)}
		stale := base.Add(-time.Hour)
		user := &models.User{Lives: MaxLives, NextLifeAt: &stale}

		if !policy.Refresh(user) {
			t.Error("Expected refresh to report a change")
		}
		if user.NextLifeAt != nil {
			t.Error("Expected regen timer to be cleared at full lives")
		}
	})

	t.Run("full lives no timer is a no-op", func(t *testing.T) {
		policy := &LifePolicy{now: fixedClock(base)}
		user := &models.User{Lives: MaxLives}

		if policy.Refresh(user) {
			t.Error("Expected no change for full user")
		}
	})

	t.Run("missing timer gets started", func(t *testing.T) {
		policy := &LifePolicy{now: fixedClock(base)}
		user := &models.User{Lives: 3}

		if !policy.Refresh(user) {
			t.Error("Expected refresh to report a change")
		}
		if user.Lives != 3 {
			t.Errorf("Expected lives unchanged at 3, got %d", user.Lives)
		}
		if user.NextLifeAt == nil || !user.NextLifeAt.Equal(base.Add(LifeRegenInterval)) {
			t.Errorf("Expected regen timer %v, got %v", base.Add(LifeRegenInterval), user.NextLifeAt)
		}
	})

	t.Run("deadline not reached", func(t *testing.T) {
		policy := &LifePolicy{now: fixedClock(base)}
		next := base.Add(10 * time.Minute)
		user := &models.User{Lives: 2, NextLifeAt: &next}

		if policy.Refresh(user) {
			t.Error("Expected no change before the deadline")
		}
		if user.Lives != 2 {
			t.Errorf("Expected lives unchanged at 2, got %d", user.Lives)
		}
	})

	t.Run("deadline passed grants one life", func(t *testing.T) {
		policy := &LifePolicy{now: fixedClock(base)}
		// Two full intervals overdue, still only one life back
		next := base.Add(-2 * LifeRegenInterval)
		user := &models.User{Lives: 2, NextLifeAt: &next}

		if !policy.Refresh(user) {
			t.Error("Expected refresh to report a change")
		}
		if user.Lives != 3 {
			t.Errorf("Expected 3 lives, got %d", user.Lives)
		}
		if user.NextLifeAt == nil || !user.NextLifeAt.Equal(base.Add(LifeRegenInterval)) {
			t.Errorf("Expected timer to restart from access time, got %v", user.NextLifeAt)
		}
	})

	t.Run("regenerating to full clears timer", func(t *testing.T) {
		policy := &LifePolicy{now: fixedClock(base)}
		next := base.Add(-time.Minute)
		user := &models.User{Lives: MaxLives - 1, NextLifeAt: &next}

		if !policy.Refresh(user) {
			t.Error("Expected refresh to report a change")
		}
		if user.Lives != MaxLives {
			t.Errorf("Expected %d lives, got %d", MaxLives, user.Lives)
		}
		if user.NextLifeAt != nil {
			t.Error("Expected regen timer cleared at full lives")
		}
	})
}

func TestLifePolicySpendLife(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("deduct starts timer", func(t *testing.T) {
		policy := &LifePolicy{now: fixedClock(base)}
		user := &models.User{Lives: MaxLives}

		policy.SpendLife(user)

		if user.Lives != MaxLives-1 {
			t.Errorf("Expected %d lives, got %d", MaxLives-1, user.Lives)
		}
		if user.NextLifeAt == nil || !user.NextLifeAt.Equal(base.Add(LifeRegenInterval)) {
			t.Errorf("Expected regen timer %v, got %v", base.Add(LifeRegenInterval), user.NextLifeAt)
		}
	})

	t.Run("running timer is not reset", func(t *testing.T) {
		policy := &LifePolicy{now: fixedClock(base)}
		next := base.Add(5 * time.Minute)
		user := &models.User{Lives: 3, NextLifeAt: &next}

		policy.SpendLife(user)

		if user.Lives != 2 {
			t.Errorf("Expected 2 lives, got %d", user.Lives)
		}
		if user.NextLifeAt == nil || !user.NextLifeAt.Equal(next) {
			t.Errorf("Expected timer unchanged at %v, got %v", next, user.NextLifeAt)
		}
	})

	t.Run("floors at zero", func(t *testing.T) {
		policy := &LifePolicy{now: fixedClock(base)}
		next := base.Add(5 * time.Minute)
		user := &models.User{Lives: 0, NextLifeAt: &next}

		policy.SpendLife(user)

		if user.Lives != 0 {
			t.Errorf("Expected lives to stay at 0, got %d", user.Lives)
		}
	})
}

func TestLifePolicyRefill(t *testing.T) {
	policy := NewLifePolicy()
	next := time.Now()
	user := &models.User{Lives: 1, NextLifeAt: &next}

	policy.Refill(user)

	if user.Lives != MaxLives {
		t.Errorf("Expected %d lives, got %d", MaxLives, user.Lives)
	}
	if user.NextLifeAt != nil {
		t.Error("Expected regen timer cleared")
	}
}
