package service

import (
	"time"

	"linguatrail/internal/models"
)

const (
	// MaxLives is the cap on a user's life count
	MaxLives = 5
	// LifeRegenInterval is how long one lost life takes to come back
	LifeRegenInterval = 30 * time.Minute
)

// LifePolicy applies lazy life regeneration. Lives are never regenerated
// by a background job; every read-through calls Refresh first, which
// steps the counter forward based on how much time has passed
type LifePolicy struct {
	now func() time.Time
}

// NewLifePolicy creates a policy using wall-clock time
func NewLifePolicy() *LifePolicy {
	return &LifePolicy{now: time.Now}
}

// Refresh advances a user's lives in-place according to elapsed time.
// Returns true if the user changed and needs persisting.
//
// Regeneration is one step per call: if the regen deadline has passed,
// one life is granted and the deadline advances by a full interval from
// the moment of access, regardless of how much extra time elapsed
func (p *LifePolicy) Refresh(user *models.User) bool {
	if user.Lives >= MaxLives {
		if user.NextLifeAt != nil {
			user.NextLifeAt = nil
			return true
		}
		return false
	}

	if user.NextLifeAt == nil {
		next := p.now().Add(LifeRegenInterval)
		user.NextLifeAt = &next
		return true
	}

	now := p.now()
	if now.Before(*user.NextLifeAt) {
		return false
	}

	user.Lives++
	if user.Lives >= MaxLives {
		user.Lives = MaxLives
		user.NextLifeAt = nil
	} else {
		next := now.Add(LifeRegenInterval)
		user.NextLifeAt = &next
	}
	return true
}

// SpendLife deducts one life, flooring at zero, and starts the regen
// timer if it is not already running
func (p *LifePolicy) SpendLife(user *models.User) {
	if user.Lives > 0 {
		user.Lives--
	}
	if user.Lives < MaxLives && user.NextLifeAt == nil {
		next := p.now().Add(LifeRegenInterval)
		user.NextLifeAt = &next
	}
}

// Refill restores the user to full lives and clears the regen timer
func (p *LifePolicy) Refill(user *models.User) {
	user.Lives = MaxLives
	user.NextLifeAt = nil
}
