package repository

import (
	"database/sql"
	"fmt"

	"linguatrail/internal/database"
	"linguatrail/internal/models"
)

// ContentRepository handles database operations for the trail, level and
// exercise hierarchy
type ContentRepository struct {
	db *database.DB
}

// NewContentRepository creates a new content repository
func NewContentRepository(db *database.DB) *ContentRepository {
	return &ContentRepository{db: db}
}

// GetTrails retrieves all trails ordered by position
func (r *ContentRepository) GetTrails() ([]models.Trail, error) {
	query := `
		SELECT id, name, theme, position, is_active, created_at
		FROM trails
		ORDER BY position ASC
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list trails: %w", err)
	}
	defer rows.Close()

	var trails []models.Trail
	for rows.Next() {
		var trail models.Trail
		if err := rows.Scan(&trail.ID, &trail.Name, &trail.Theme, &trail.Position, &trail.IsActive, &trail.CreatedAt); err != nil {
			return nil, err
		}
		trails = append(trails, trail)
	}

	return trails, rows.Err()
}

// GetTrail retrieves a trail by ID
func (r *ContentRepository) GetTrail(id int64) (*models.Trail, error) {
	query := "SELECT id, name, theme, position, is_active, created_at FROM trails WHERE id = ?"

	trail := &models.Trail{}
	err := r.db.QueryRow(query, id).Scan(&trail.ID, &trail.Name, &trail.Theme, &trail.Position, &trail.IsActive, &trail.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get trail: %w", err)
	}
	return trail, nil
}

// CreateTrail inserts a new trail
func (r *ContentRepository) CreateTrail(name, theme string, position int, isActive bool) (*models.Trail, error) {
	query := "INSERT INTO trails (name, theme, position, is_active) VALUES (?, ?, ?, ?)"
	id, err := r.db.ExecReturningID(query, name, theme, position, isActive)
	if err != nil {
		return nil, fmt.Errorf("failed to create trail: %w", err)
	}
	return r.GetTrail(id)
}

// UpdateTrail updates a trail's attributes
func (r *ContentRepository) UpdateTrail(id int64, name, theme string, position int, isActive bool) error {
	query := "UPDATE trails SET name = ?, theme = ?, position = ?, is_active = ? WHERE id = ?"
	_, err := r.db.Exec(query, name, theme, position, isActive, id)
	if err != nil {
		return fmt.Errorf("failed to update trail: %w", err)
	}
	return nil
}

// DeleteTrail removes a trail; its levels and exercises cascade
func (r *ContentRepository) DeleteTrail(id int64) error {
	_, err := r.db.Exec("DELETE FROM trails WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete trail: %w", err)
	}
	return nil
}

// GetLevels retrieves all levels ordered by trail then position
func (r *ContentRepository) GetLevels() ([]models.Level, error) {
	query := `
		SELECT id, trail_id, name, color, xp, position, created_at
		FROM levels
		ORDER BY trail_id ASC, position ASC
	`
	return r.queryLevels(query)
}

// GetLevelsByTrail retrieves a trail's levels ordered by position
func (r *ContentRepository) GetLevelsByTrail(trailID int64) ([]models.Level, error) {
	query := `
		SELECT id, trail_id, name, color, xp, position, created_at
		FROM levels
		WHERE trail_id = ?
		ORDER BY position ASC
	`
	return r.queryLevels(query, trailID)
}

func (r *ContentRepository) queryLevels(query string, args ...interface{}) ([]models.Level, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list levels: %w", err)
	}
	defer rows.Close()

	var levels []models.Level
	for rows.Next() {
		var level models.Level
		if err := rows.Scan(&level.ID, &level.TrailID, &level.Name, &level.Color, &level.XP, &level.Position, &level.CreatedAt); err != nil {
			return nil, err
		}
		levels = append(levels, level)
	}

	return levels, rows.Err()
}

// GetLevel retrieves a level by ID
func (r *ContentRepository) GetLevel(id int64) (*models.Level, error) {
	query := "SELECT id, trail_id, name, color, xp, position, created_at FROM levels WHERE id = ?"

	level := &models.Level{}
	err := r.db.QueryRow(query, id).Scan(&level.ID, &level.TrailID, &level.Name, &level.Color, &level.XP, &level.Position, &level.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get level: %w", err)
	}
	return level, nil
}

// CreateLevel inserts a new level
func (r *ContentRepository) CreateLevel(trailID int64, name string, color models.LevelColor, xp, position int) (*models.Level, error) {
	query := "INSERT INTO levels (trail_id, name, color, xp, position) VALUES (?, ?, ?, ?, ?)"
	id, err := r.db.ExecReturningID(query, trailID, name, string(color), xp, position)
	if err != nil {
		return nil, fmt.Errorf("failed to create level: %w", err)
	}
	return r.GetLevel(id)
}

// UpdateLevel updates a level's attributes
func (r *ContentRepository) UpdateLevel(id, trailID int64, name string, color models.LevelColor, xp, position int) error {
	query := "UPDATE levels SET trail_id = ?, name = ?, color = ?, xp = ?, position = ? WHERE id = ?"
	_, err := r.db.Exec(query, trailID, name, string(color), xp, position, id)
	if err != nil {
		return fmt.Errorf("failed to update level: %w", err)
	}
	return nil
}

// DeleteLevel removes a level; its exercises cascade
func (r *ContentRepository) DeleteLevel(id int64) error {
	_, err := r.db.Exec("DELETE FROM levels WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete level: %w", err)
	}
	return nil
}

const exerciseColumns = "id, level_id, question, type, options, COALESCE(correct_answer, ''), COALESCE(audio_url, ''), created_at"

func scanExercise(row interface{ Scan(...interface{}) error }) (*models.Exercise, error) {
	exercise := &models.Exercise{}
	var optionsJSON, correctAnswer, audioURL string

	err := row.Scan(
		&exercise.ID,
		&exercise.LevelID,
		&exercise.Question,
		&exercise.Type,
		&optionsJSON,
		&correctAnswer,
		&audioURL,
		&exercise.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	content, err := models.DecodeExerciseContent(exercise.Type, optionsJSON, correctAnswer, audioURL)
	if err != nil {
		return nil, fmt.Errorf("exercise %d: %w", exercise.ID, err)
	}
	exercise.Content = content

	return exercise, nil
}

// GetExercises retrieves all exercises ordered by ID
func (r *ContentRepository) GetExercises() ([]models.Exercise, error) {
	query := "SELECT " + exerciseColumns + " FROM exercises ORDER BY id ASC"
	return r.queryExercises(query)
}

// GetExercisesByLevel retrieves a level's exercises in insertion order,
// which is the delivery order the engine relies on
func (r *ContentRepository) GetExercisesByLevel(levelID int64) ([]models.Exercise, error) {
	query := "SELECT " + exerciseColumns + " FROM exercises WHERE level_id = ? ORDER BY id ASC"
	return r.queryExercises(query, levelID)
}

func (r *ContentRepository) queryExercises(query string, args ...interface{}) ([]models.Exercise, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list exercises: %w", err)
	}
	defer rows.Close()

	var exercises []models.Exercise
	for rows.Next() {
		exercise, err := scanExercise(rows)
		if err != nil {
			return nil, err
		}
		exercises = append(exercises, *exercise)
	}

	return exercises, rows.Err()
}

// GetExercise retrieves an exercise by ID
func (r *ContentRepository) GetExercise(id int64) (*models.Exercise, error) {
	query := "SELECT " + exerciseColumns + " FROM exercises WHERE id = ?"

	exercise, err := scanExercise(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get exercise: %w", err)
	}
	return exercise, nil
}

// CreateExercise inserts a new exercise, encoding the typed content into
// the storage columns
func (r *ContentRepository) CreateExercise(levelID int64, question string, exerciseType models.ExerciseType, content models.ExerciseContent) (*models.Exercise, error) {
	optionsJSON, correctAnswer, audioURL, err := models.EncodeExerciseContent(content)
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO exercises (level_id, question, type, options, correct_answer, audio_url)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(query, levelID, question, string(exerciseType), optionsJSON, nullable(correctAnswer), nullable(audioURL))
	if err != nil {
		return nil, fmt.Errorf("failed to create exercise: %w", err)
	}
	return r.GetExercise(id)
}

// UpdateExercise updates an exercise's question and content
func (r *ContentRepository) UpdateExercise(id, levelID int64, question string, exerciseType models.ExerciseType, content models.ExerciseContent) error {
	optionsJSON, correctAnswer, audioURL, err := models.EncodeExerciseContent(content)
	if err != nil {
		return err
	}

	query := `
		UPDATE exercises
		SET level_id = ?, question = ?, type = ?, options = ?, correct_answer = ?, audio_url = ?
		WHERE id = ?
	`
	_, err = r.db.Exec(query, levelID, question, string(exerciseType), optionsJSON, nullable(correctAnswer), nullable(audioURL), id)
	if err != nil {
		return fmt.Errorf("failed to update exercise: %w", err)
	}
	return nil
}

// DeleteExercise removes an exercise
func (r *ContentRepository) DeleteExercise(id int64) error {
	_, err := r.db.Exec("DELETE FROM exercises WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete exercise: %w", err)
	}
	return nil
}

// CountContent returns trail, level and exercise counts for admin stats
func (r *ContentRepository) CountContent() (trails, levels, exercises int, err error) {
	if err = r.db.QueryRow("SELECT COUNT(*) FROM trails").Scan(&trails); err != nil {
		return 0, 0, 0, err
	}
	if err = r.db.QueryRow("SELECT COUNT(*) FROM levels").Scan(&levels); err != nil {
		return 0, 0, 0, err
	}
	if err = r.db.QueryRow("SELECT COUNT(*) FROM exercises").Scan(&exercises); err != nil {
		return 0, 0, 0, err
	}
	return trails, levels, exercises, nil
}

// nullable converts an empty string to NULL for optional text columns
func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
