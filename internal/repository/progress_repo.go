package repository

import (
	"database/sql"
	"fmt"
	"time"

	"linguatrail/internal/database"
	"linguatrail/internal/models"
)

// ProgressRepository handles database operations for per-user level
// progress and the append-only exercise attempt log
type ProgressRepository struct {
	db *database.DB
}

// NewProgressRepository creates a new progress repository
func NewProgressRepository(db *database.DB) *ProgressRepository {
	return &ProgressRepository{db: db}
}

// GetUserLevel retrieves the progress row for a (user, level) pair
func (r *ProgressRepository) GetUserLevel(userID, levelID int64) (*models.UserLevel, error) {
	query := `
		SELECT id, user_id, level_id, completed, completed_at, created_at
		FROM user_levels
		WHERE user_id = ? AND level_id = ?
	`

	userLevel := &models.UserLevel{}
	var completedAt sql.NullTime

	err := r.db.QueryRow(query, userID, levelID).Scan(
		&userLevel.ID,
		&userLevel.UserID,
		&userLevel.LevelID,
		&userLevel.Completed,
		&completedAt,
		&userLevel.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user level: %w", err)
	}

	if completedAt.Valid {
		t := completedAt.Time
		userLevel.CompletedAt = &t
	}

	return userLevel, nil
}

// GetUserLevels retrieves all progress rows for a user
func (r *ProgressRepository) GetUserLevels(userID int64) ([]models.UserLevel, error) {
	query := `
		SELECT id, user_id, level_id, completed, completed_at, created_at
		FROM user_levels
		WHERE user_id = ?
	`

	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list user levels: %w", err)
	}
	defer rows.Close()

	var userLevels []models.UserLevel
	for rows.Next() {
		var userLevel models.UserLevel
		var completedAt sql.NullTime

		err := rows.Scan(
			&userLevel.ID,
			&userLevel.UserID,
			&userLevel.LevelID,
			&userLevel.Completed,
			&completedAt,
			&userLevel.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		if completedAt.Valid {
			t := completedAt.Time
			userLevel.CompletedAt = &t
		}

		userLevels = append(userLevels, userLevel)
	}

	return userLevels, rows.Err()
}

// CreateUserLevel inserts a fresh progress row for a (user, level) pair
func (r *ProgressRepository) CreateUserLevel(userID, levelID int64) (*models.UserLevel, error) {
	query := "INSERT INTO user_levels (user_id, level_id) VALUES (?, ?)"
	_, err := r.db.Exec(query, userID, levelID)
	if err != nil {
		return nil, fmt.Errorf("failed to create user level: %w", err)
	}
	return r.GetUserLevel(userID, levelID)
}

// MarkLevelCompleted flips the completed flag and stamps the completion
// time. The flag never flips back
func (r *ProgressRepository) MarkLevelCompleted(userID, levelID int64, completedAt time.Time) error {
	query := `
		UPDATE user_levels
		SET completed = ?, completed_at = ?
		WHERE user_id = ? AND level_id = ?
	`
	_, err := r.db.Exec(query, true, completedAt, userID, levelID)
	if err != nil {
		return fmt.Errorf("failed to mark level completed: %w", err)
	}
	return nil
}

// AppendAttempt records one answer submission. Rows are never updated or
// deleted; repeat attempts for the same exercise pile up as history
func (r *ProgressRepository) AppendAttempt(userID, exerciseID int64, correct bool) error {
	query := "INSERT INTO user_exercises (user_id, exercise_id, correct) VALUES (?, ?, ?)"
	_, err := r.db.Exec(query, userID, exerciseID, correct)
	if err != nil {
		return fmt.Errorf("failed to append attempt: %w", err)
	}
	return nil
}

// GetLevelAttempts retrieves a user's attempts restricted to exercises of
// one level
func (r *ProgressRepository) GetLevelAttempts(userID, levelID int64) ([]models.ExerciseAttempt, error) {
	query := `
		SELECT ue.id, ue.user_id, ue.exercise_id, ue.correct, ue.created_at
		FROM user_exercises ue
		JOIN exercises e ON e.id = ue.exercise_id
		WHERE ue.user_id = ? AND e.level_id = ?
		ORDER BY ue.id ASC
	`
	return r.queryAttempts(query, userID, levelID)
}

// GetUserAttempts retrieves all attempts for a user
func (r *ProgressRepository) GetUserAttempts(userID int64) ([]models.ExerciseAttempt, error) {
	query := `
		SELECT id, user_id, exercise_id, correct, created_at
		FROM user_exercises
		WHERE user_id = ?
		ORDER BY id ASC
	`
	return r.queryAttempts(query, userID)
}

func (r *ProgressRepository) queryAttempts(query string, args ...interface{}) ([]models.ExerciseAttempt, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list attempts: %w", err)
	}
	defer rows.Close()

	var attempts []models.ExerciseAttempt
	for rows.Next() {
		var attempt models.ExerciseAttempt
		if err := rows.Scan(&attempt.ID, &attempt.UserID, &attempt.ExerciseID, &attempt.Correct, &attempt.CreatedAt); err != nil {
			return nil, err
		}
		attempts = append(attempts, attempt)
	}

	return attempts, rows.Err()
}

// CorrectAttemptScoresSince returns, for every correct attempt at or after
// the cutoff, the attempting user and the XP of the exercise's parent
// level. Feeds the weekly leaderboard
func (r *ProgressRepository) CorrectAttemptScoresSince(since time.Time) ([]models.AttemptScore, error) {
	query := `
		SELECT ue.user_id, l.xp
		FROM user_exercises ue
		JOIN exercises e ON e.id = ue.exercise_id
		JOIN levels l ON l.id = e.level_id
		WHERE ue.correct = ? AND ue.created_at >= ?
	`

	rows, err := r.db.Query(query, true, since)
	if err != nil {
		return nil, fmt.Errorf("failed to list attempt scores: %w", err)
	}
	defer rows.Close()

	var scores []models.AttemptScore
	for rows.Next() {
		var score models.AttemptScore
		if err := rows.Scan(&score.UserID, &score.LevelXP); err != nil {
			return nil, err
		}
		scores = append(scores, score)
	}

	return scores, rows.Err()
}

// CountCorrectAttempts counts a user's correct attempts across all levels
func (r *ProgressRepository) CountCorrectAttempts(userID int64) (int, error) {
	query := "SELECT COUNT(*) FROM user_exercises WHERE user_id = ? AND correct = ?"

	var count int
	err := r.db.QueryRow(query, userID, true).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count correct attempts: %w", err)
	}
	return count, nil
}
