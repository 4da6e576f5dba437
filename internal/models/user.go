package models

import "time"

// Role determines what a user is allowed to do
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User represents a learner account with its resource balances
type User struct {
	ID            int64
	Username      string
	Email         string
	PasswordHash  string
	OAuthProvider string
	OAuthSubject  string
	Role          Role
	XP            int
	Diamonds      int
	Lives         int
	NextLifeAt    *time.Time
	// CurrentLevelID is the single level the user is working on, nil before
	// the first level is started
	CurrentLevelID *int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsAdmin reports whether the user has the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Session represents an authenticated session
type Session struct {
	ID        string
	UserID    int64
	ExpiresAt time.Time
	CreatedAt time.Time
}

// IsExpired checks if the session has expired
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// PasswordResetToken represents a token for password reset
type PasswordResetToken struct {
	Token     string
	UserID    int64
	ExpiresAt time.Time
	CreatedAt time.Time
	Used      bool
}

// IsExpired checks if the reset token has expired
func (t *PasswordResetToken) IsExpired() bool {
	return time.Now().After(t.ExpiresAt)
}
