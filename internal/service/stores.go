package service

import (
	"time"

	"linguatrail/internal/models"
)

// ContentStore provides read access to the trail/level/exercise catalog.
// Implemented by repository.ContentRepository
type ContentStore interface {
	GetTrails() ([]models.Trail, error)
	GetLevelsByTrail(trailID int64) ([]models.Level, error)
	GetLevel(id int64) (*models.Level, error)
	GetExercisesByLevel(levelID int64) ([]models.Exercise, error)
	GetExercise(id int64) (*models.Exercise, error)
}

// ProgressStore provides access to per-user level progress and the
// attempt log. Implemented by repository.ProgressRepository
type ProgressStore interface {
	GetUserLevel(userID, levelID int64) (*models.UserLevel, error)
	GetUserLevels(userID int64) ([]models.UserLevel, error)
	CreateUserLevel(userID, levelID int64) (*models.UserLevel, error)
	MarkLevelCompleted(userID, levelID int64, completedAt time.Time) error
	AppendAttempt(userID, exerciseID int64, correct bool) error
	GetLevelAttempts(userID, levelID int64) ([]models.ExerciseAttempt, error)
	GetUserAttempts(userID int64) ([]models.ExerciseAttempt, error)
	CorrectAttemptScoresSince(since time.Time) ([]models.AttemptScore, error)
	CountCorrectAttempts(userID int64) (int, error)
}

// UserStore provides access to user accounts and their resource
// balances. Implemented by repository.UserRepository
type UserStore interface {
	GetUserByID(id int64) (*models.User, error)
	ListUsers() ([]models.User, error)
	UpdateLives(userID int64, lives int, nextLifeAt *time.Time) error
	AddXP(userID int64, delta int) error
	AddDiamonds(userID int64, delta int) error
	SetCurrentLevel(userID int64, levelID *int64) error
}

// TransactionStore records purchases. Implemented by
// repository.TransactionRepository
type TransactionStore interface {
	Create(tx *models.Transaction) (*models.Transaction, error)
	UpdateStatus(id int64, status models.TransactionStatus, completedAt *time.Time) error
	GetByID(id int64) (*models.Transaction, error)
	ListByUser(userID int64) ([]models.Transaction, error)
}
