package repository

import (
	"database/sql"
	"fmt"
	"time"

	"linguatrail/internal/database"
	"linguatrail/internal/models"
)

// UserRepository handles database operations for users, sessions and
// password reset tokens
type UserRepository struct {
	db *database.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, username, COALESCE(email, ''), password_hash,
	COALESCE(oauth_provider, ''), COALESCE(oauth_subject, ''), role,
	xp, diamonds, lives, next_life_at, current_level_id, created_at, updated_at`

func scanUser(row interface{ Scan(...interface{}) error }) (*models.User, error) {
	user := &models.User{}
	var nextLifeAt sql.NullTime
	var currentLevelID sql.NullInt64

	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.OAuthProvider,
		&user.OAuthSubject,
		&user.Role,
		&user.XP,
		&user.Diamonds,
		&user.Lives,
		&nextLifeAt,
		&currentLevelID,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if nextLifeAt.Valid {
		t := nextLifeAt.Time
		user.NextLifeAt = &t
	}
	if currentLevelID.Valid {
		id := currentLevelID.Int64
		user.CurrentLevelID = &id
	}

	return user, nil
}

// CreateUser inserts a new user with full lives and zero balances
func (r *UserRepository) CreateUser(username, email, passwordHash string, role models.Role) (*models.User, error) {
	query := `
		INSERT INTO users (username, email, password_hash, role)
		VALUES (?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(query, username, email, passwordHash, string(role))
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return r.GetUserByID(id)
}

// GetUserByID retrieves a user by ID
func (r *UserRepository) GetUserByID(id int64) (*models.User, error) {
	query := "SELECT " + userColumns + " FROM users WHERE id = ?"

	user, err := scanUser(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// GetUserByUsername retrieves a user by username
func (r *UserRepository) GetUserByUsername(username string) (*models.User, error) {
	query := "SELECT " + userColumns + " FROM users WHERE username = ?"

	user, err := scanUser(r.db.QueryRow(query, username))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// GetUserByEmail retrieves a user by email
func (r *UserRepository) GetUserByEmail(email string) (*models.User, error) {
	query := "SELECT " + userColumns + " FROM users WHERE email = ?"

	user, err := scanUser(r.db.QueryRow(query, email))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// GetUserByOAuth retrieves a user by linked OAuth provider and subject
func (r *UserRepository) GetUserByOAuth(provider, subject string) (*models.User, error) {
	query := "SELECT " + userColumns + " FROM users WHERE oauth_provider = ? AND oauth_subject = ?"

	user, err := scanUser(r.db.QueryRow(query, provider, subject))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// LinkOAuthProvider attaches an OAuth identity to an existing user
func (r *UserRepository) LinkOAuthProvider(userID int64, provider, subject string) error {
	query := "UPDATE users SET oauth_provider = ?, oauth_subject = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?"
	_, err := r.db.Exec(query, provider, subject, userID)
	if err != nil {
		return fmt.Errorf("failed to link oauth provider: %w", err)
	}
	return nil
}

// ListUsers retrieves all users ordered by ID
func (r *UserRepository) ListUsers() ([]models.User, error) {
	query := "SELECT " + userColumns + " FROM users ORDER BY id ASC"

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}

	return users, rows.Err()
}

// UpdateProfile changes a user's username and email
func (r *UserRepository) UpdateProfile(userID int64, username, email string) error {
	query := "UPDATE users SET username = ?, email = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?"
	_, err := r.db.Exec(query, username, email, userID)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	return nil
}

// UpdatePassword changes a user's password hash
func (r *UserRepository) UpdatePassword(userID int64, passwordHash string) error {
	query := "UPDATE users SET password_hash = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?"
	_, err := r.db.Exec(query, passwordHash, userID)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

// SetRole changes a user's role
func (r *UserRepository) SetRole(userID int64, role models.Role) error {
	query := "UPDATE users SET role = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?"
	_, err := r.db.Exec(query, string(role), userID)
	if err != nil {
		return fmt.Errorf("failed to set role: %w", err)
	}
	return nil
}

// DeleteUser removes a user; progress, attempts, sessions and transactions
// cascade at the schema level
func (r *UserRepository) DeleteUser(userID int64) error {
	_, err := r.db.Exec("DELETE FROM users WHERE id = ?", userID)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

// UpdateLives persists the lives counter and regeneration deadline together
// so the pair never drifts apart
func (r *UserRepository) UpdateLives(userID int64, lives int, nextLifeAt *time.Time) error {
	query := "UPDATE users SET lives = ?, next_life_at = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?"

	var deadline interface{}
	if nextLifeAt != nil {
		deadline = *nextLifeAt
	}

	_, err := r.db.Exec(query, lives, deadline, userID)
	if err != nil {
		return fmt.Errorf("failed to update lives: %w", err)
	}
	return nil
}

// AddXP increments a user's XP total
func (r *UserRepository) AddXP(userID int64, delta int) error {
	query := "UPDATE users SET xp = xp + ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?"
	_, err := r.db.Exec(query, delta, userID)
	if err != nil {
		return fmt.Errorf("failed to add xp: %w", err)
	}
	return nil
}

// AddDiamonds adjusts a user's diamond balance by delta (negative to spend)
func (r *UserRepository) AddDiamonds(userID int64, delta int) error {
	query := "UPDATE users SET diamonds = diamonds + ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?"
	_, err := r.db.Exec(query, delta, userID)
	if err != nil {
		return fmt.Errorf("failed to adjust diamonds: %w", err)
	}
	return nil
}

// SetCurrentLevel updates the user's single current-level pointer
func (r *UserRepository) SetCurrentLevel(userID int64, levelID *int64) error {
	query := "UPDATE users SET current_level_id = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?"

	var value interface{}
	if levelID != nil {
		value = *levelID
	}

	_, err := r.db.Exec(query, value, userID)
	if err != nil {
		return fmt.Errorf("failed to set current level: %w", err)
	}
	return nil
}

// CreateSession creates a new session for a user
func (r *UserRepository) CreateSession(sessionID string, userID int64, expiresAt time.Time) (*models.Session, error) {
	query := "INSERT INTO sessions (id, user_id, expires_at) VALUES (?, ?, ?)"
	_, err := r.db.Exec(query, sessionID, userID, expiresAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return &models.Session{
		ID:        sessionID,
		UserID:    userID,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}, nil
}

// GetSession retrieves a session by ID
func (r *UserRepository) GetSession(sessionID string) (*models.Session, error) {
	query := "SELECT id, user_id, expires_at, created_at FROM sessions WHERE id = ?"

	session := &models.Session{}
	err := r.db.QueryRow(query, sessionID).Scan(
		&session.ID,
		&session.UserID,
		&session.ExpiresAt,
		&session.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return session, nil
}

// DeleteSession removes a session
func (r *UserRepository) DeleteSession(sessionID string) error {
	_, err := r.db.Exec("DELETE FROM sessions WHERE id = ?", sessionID)
	return err
}

// DeleteExpiredSessions removes sessions past their expiry
func (r *UserRepository) DeleteExpiredSessions() error {
	_, err := r.db.Exec("DELETE FROM sessions WHERE expires_at < ?", time.Now())
	return err
}

// CreatePasswordResetToken stores a reset token for a user
func (r *UserRepository) CreatePasswordResetToken(token string, userID int64, expiresAt time.Time) error {
	query := "INSERT INTO password_reset_tokens (token, user_id, expires_at) VALUES (?, ?, ?)"
	_, err := r.db.Exec(query, token, userID, expiresAt)
	if err != nil {
		return fmt.Errorf("failed to create reset token: %w", err)
	}
	return nil
}

// GetPasswordResetToken retrieves a reset token
func (r *UserRepository) GetPasswordResetToken(token string) (*models.PasswordResetToken, error) {
	query := "SELECT token, user_id, expires_at, used, created_at FROM password_reset_tokens WHERE token = ?"

	resetToken := &models.PasswordResetToken{}
	err := r.db.QueryRow(query, token).Scan(
		&resetToken.Token,
		&resetToken.UserID,
		&resetToken.ExpiresAt,
		&resetToken.Used,
		&resetToken.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get reset token: %w", err)
	}
	return resetToken, nil
}

// MarkPasswordResetTokenAsUsed invalidates a reset token after use
func (r *UserRepository) MarkPasswordResetTokenAsUsed(token string) error {
	_, err := r.db.Exec("UPDATE password_reset_tokens SET used = ? WHERE token = ?", true, token)
	return err
}

// DeleteUserPasswordResetTokens removes all reset tokens for a user
func (r *UserRepository) DeleteUserPasswordResetTokens(userID int64) error {
	_, err := r.db.Exec("DELETE FROM password_reset_tokens WHERE user_id = ?", userID)
	return err
}

// DeleteExpiredPasswordResetTokens removes reset tokens past their expiry
func (r *UserRepository) DeleteExpiredPasswordResetTokens() error {
	_, err := r.db.Exec("DELETE FROM password_reset_tokens WHERE expires_at < ?", time.Now())
	return err
}
