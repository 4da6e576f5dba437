package service

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"linguatrail/internal/database"
)

// BackupData represents the complete database backup structure
type BackupData struct {
	Version      string              `json:"version"`
	ExportedAt   time.Time           `json:"exported_at"`
	Trails       []TrailBackup       `json:"trails"`
	Levels       []LevelBackup       `json:"levels"`
	Exercises    []ExerciseBackup    `json:"exercises"`
	Users        []UserBackup        `json:"users"`
	UserLevels   []UserLevelBackup   `json:"user_levels"`
	Attempts     []AttemptBackup     `json:"attempts"`
	Transactions []TransactionBackup `json:"transactions"`
}

// TrailBackup represents a trail record for backup
type TrailBackup struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Theme     string    `json:"theme"`
	Position  int       `json:"position"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// LevelBackup represents a level record for backup
type LevelBackup struct {
	ID        int64     `json:"id"`
	TrailID   int64     `json:"trail_id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	XP        int       `json:"xp"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`
}

// ExerciseBackup represents an exercise record for backup
type ExerciseBackup struct {
	ID            int64     `json:"id"`
	LevelID       int64     `json:"level_id"`
	Question      string    `json:"question"`
	Type          string    `json:"type"`
	Options       string    `json:"options"`
	CorrectAnswer string    `json:"correct_answer"`
	AudioURL      string    `json:"audio_url"`
	CreatedAt     time.Time `json:"created_at"`
}

// UserBackup represents a user record for backup
type UserBackup struct {
	ID             int64      `json:"id"`
	Username       string     `json:"username"`
	Email          string     `json:"email"`
	PasswordHash   string     `json:"password_hash"`
	OAuthProvider  string     `json:"oauth_provider"`
	OAuthSubject   string     `json:"oauth_subject"`
	Role           string     `json:"role"`
	XP             int        `json:"xp"`
	Diamonds       int        `json:"diamonds"`
	Lives          int        `json:"lives"`
	NextLifeAt     *time.Time `json:"next_life_at"`
	CurrentLevelID *int64     `json:"current_level_id"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// UserLevelBackup represents a per-user level progress record
type UserLevelBackup struct {
	ID          int64      `json:"id"`
	UserID      int64      `json:"user_id"`
	LevelID     int64      `json:"level_id"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at"`
	CreatedAt   time.Time  `json:"created_at"`
}

// AttemptBackup represents an exercise attempt record
type AttemptBackup struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	ExerciseID int64     `json:"exercise_id"`
	Correct    bool      `json:"correct"`
	CreatedAt  time.Time `json:"created_at"`
}

// TransactionBackup represents a purchase record
type TransactionBackup struct {
	ID            int64      `json:"id"`
	UserID        int64      `json:"user_id"`
	Amount        float64    `json:"amount"`
	Description   string     `json:"description"`
	PaymentMethod string     `json:"payment_method"`
	Status        string     `json:"status"`
	PaymentToken  string     `json:"payment_token"`
	CreatedAt     time.Time  `json:"created_at"`
	CompletedAt   *time.Time `json:"completed_at"`
}

// BackupService handles database backup and restore operations
type BackupService struct {
	db *database.DB
}

// NewBackupService creates a new backup service
func NewBackupService(db *database.DB) *BackupService {
	return &BackupService{db: db}
}

// Export creates a complete backup of the database to a file
func (s *BackupService) Export(outputPath string) error {
	log.Println("Starting database export...")

	backup := &BackupData{
		Version:    "1.0",
		ExportedAt: time.Now(),
	}

	if err := s.exportTrails(backup); err != nil {
		return fmt.Errorf("failed to export trails: %w", err)
	}
	if err := s.exportLevels(backup); err != nil {
		return fmt.Errorf("failed to export levels: %w", err)
	}
	if err := s.exportExercises(backup); err != nil {
		return fmt.Errorf("failed to export exercises: %w", err)
	}
	if err := s.exportUsers(backup); err != nil {
		return fmt.Errorf("failed to export users: %w", err)
	}
	if err := s.exportUserLevels(backup); err != nil {
		return fmt.Errorf("failed to export user levels: %w", err)
	}
	if err := s.exportAttempts(backup); err != nil {
		return fmt.Errorf("failed to export attempts: %w", err)
	}
	if err := s.exportTransactions(backup); err != nil {
		return fmt.Errorf("failed to export transactions: %w", err)
	}

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(backup); err != nil {
		return fmt.Errorf("failed to encode backup: %w", err)
	}

	log.Printf("Database exported successfully to %s", outputPath)
	log.Printf("Exported: %d trails, %d levels, %d exercises, %d users, %d progress rows, %d attempts, %d transactions",
		len(backup.Trails), len(backup.Levels), len(backup.Exercises),
		len(backup.Users), len(backup.UserLevels), len(backup.Attempts), len(backup.Transactions))

	return nil
}

// Import restores a database from a backup file
func (s *BackupService) Import(inputPath string) error {
	log.Printf("Starting database import from %s...", inputPath)

	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	return s.ImportFromReader(file)
}

// ImportFromReader restores a database from a backup reader
func (s *BackupService) ImportFromReader(reader io.Reader) error {
	var backup BackupData
	decoder := json.NewDecoder(reader)
	if err := decoder.Decode(&backup); err != nil {
		return fmt.Errorf("failed to decode backup: %w", err)
	}

	log.Printf("Backup version: %s, exported at: %s", backup.Version, backup.ExportedAt)

	// Import in order of dependencies
	if err := s.importTrails(backup.Trails); err != nil {
		return fmt.Errorf("failed to import trails: %w", err)
	}
	if err := s.importLevels(backup.Levels); err != nil {
		return fmt.Errorf("failed to import levels: %w", err)
	}
	if err := s.importExercises(backup.Exercises); err != nil {
		return fmt.Errorf("failed to import exercises: %w", err)
	}
	if err := s.importUsers(backup.Users); err != nil {
		return fmt.Errorf("failed to import users: %w", err)
	}
	if err := s.importUserLevels(backup.UserLevels); err != nil {
		return fmt.Errorf("failed to import user levels: %w", err)
	}
	if err := s.importAttempts(backup.Attempts); err != nil {
		return fmt.Errorf("failed to import attempts: %w", err)
	}
	if err := s.importTransactions(backup.Transactions); err != nil {
		return fmt.Errorf("failed to import transactions: %w", err)
	}

	log.Println("Database import completed successfully")
	return nil
}

func (s *BackupService) exportTrails(backup *BackupData) error {
	rows, err := s.db.Query("SELECT id, name, theme, position, is_active, created_at FROM trails ORDER BY id")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var t TrailBackup
		if err := rows.Scan(&t.ID, &t.Name, &t.Theme, &t.Position, &t.IsActive, &t.CreatedAt); err != nil {
			return err
		}
		backup.Trails = append(backup.Trails, t)
	}
	return rows.Err()
}

func (s *BackupService) exportLevels(backup *BackupData) error {
	rows, err := s.db.Query("SELECT id, trail_id, name, color, xp, position, created_at FROM levels ORDER BY id")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var l LevelBackup
		if err := rows.Scan(&l.ID, &l.TrailID, &l.Name, &l.Color, &l.XP, &l.Position, &l.CreatedAt); err != nil {
			return err
		}
		backup.Levels = append(backup.Levels, l)
	}
	return rows.Err()
}

func (s *BackupService) exportExercises(backup *BackupData) error {
	rows, err := s.db.Query("SELECT id, level_id, question, type, options, COALESCE(correct_answer, ''), COALESCE(audio_url, ''), created_at FROM exercises ORDER BY id")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var e ExerciseBackup
		if err := rows.Scan(&e.ID, &e.LevelID, &e.Question, &e.Type, &e.Options, &e.CorrectAnswer, &e.AudioURL, &e.CreatedAt); err != nil {
			return err
		}
		backup.Exercises = append(backup.Exercises, e)
	}
	return rows.Err()
}

func (s *BackupService) exportUsers(backup *BackupData) error {
	query := "SELECT id, username, COALESCE(email, ''), password_hash, COALESCE(oauth_provider, ''), COALESCE(oauth_subject, ''), role, xp, diamonds, lives, next_life_at, current_level_id, created_at, updated_at FROM users ORDER BY id"
	rows, err := s.db.Query(query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var u UserBackup
		var nextLifeAt sql.NullTime
		var currentLevelID sql.NullInt64
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.OAuthProvider, &u.OAuthSubject, &u.Role, &u.XP, &u.Diamonds, &u.Lives, &nextLifeAt, &currentLevelID, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return err
		}
		if nextLifeAt.Valid {
			u.NextLifeAt = &nextLifeAt.Time
		}
		if currentLevelID.Valid {
			u.CurrentLevelID = &currentLevelID.Int64
		}
		backup.Users = append(backup.Users, u)
	}
	return rows.Err()
}

func (s *BackupService) exportUserLevels(backup *BackupData) error {
	rows, err := s.db.Query("SELECT id, user_id, level_id, completed, completed_at, created_at FROM user_levels ORDER BY id")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var ul UserLevelBackup
		var completedAt sql.NullTime
		if err := rows.Scan(&ul.ID, &ul.UserID, &ul.LevelID, &ul.Completed, &completedAt, &ul.CreatedAt); err != nil {
			return err
		}
		if completedAt.Valid {
			ul.CompletedAt = &completedAt.Time
		}
		backup.UserLevels = append(backup.UserLevels, ul)
	}
	return rows.Err()
}

func (s *BackupService) exportAttempts(backup *BackupData) error {
	rows, err := s.db.Query("SELECT id, user_id, exercise_id, correct, created_at FROM user_exercises ORDER BY id")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var a AttemptBackup
		if err := rows.Scan(&a.ID, &a.UserID, &a.ExerciseID, &a.Correct, &a.CreatedAt); err != nil {
			return err
		}
		backup.Attempts = append(backup.Attempts, a)
	}
	return rows.Err()
}

func (s *BackupService) exportTransactions(backup *BackupData) error {
	query := "SELECT id, user_id, amount, description, payment_method, status, COALESCE(payment_token, ''), created_at, completed_at FROM transactions ORDER BY id"
	rows, err := s.db.Query(query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var t TransactionBackup
		var completedAt sql.NullTime
		if err := rows.Scan(&t.ID, &t.UserID, &t.Amount, &t.Description, &t.PaymentMethod, &t.Status, &t.PaymentToken, &t.CreatedAt, &completedAt); err != nil {
			return err
		}
		if completedAt.Valid {
			t.CompletedAt = &completedAt.Time
		}
		backup.Transactions = append(backup.Transactions, t)
	}
	return rows.Err()
}

func (s *BackupService) importTrails(trails []TrailBackup) error {
	log.Printf("Importing %d trails...", len(trails))
	for _, t := range trails {
		query := "INSERT INTO trails (id, name, theme, position, is_active, created_at) VALUES (?, ?, ?, ?, ?, ?)"
		if _, err := s.db.Exec(query, t.ID, t.Name, t.Theme, t.Position, t.IsActive, t.CreatedAt); err != nil {
			return fmt.Errorf("failed to import trail %d: %w", t.ID, err)
		}
	}
	return nil
}

func (s *BackupService) importLevels(levels []LevelBackup) error {
	log.Printf("Importing %d levels...", len(levels))
	for _, l := range levels {
		query := "INSERT INTO levels (id, trail_id, name, color, xp, position, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)"
		if _, err := s.db.Exec(query, l.ID, l.TrailID, l.Name, l.Color, l.XP, l.Position, l.CreatedAt); err != nil {
			return fmt.Errorf("failed to import level %d: %w", l.ID, err)
		}
	}
	return nil
}

func (s *BackupService) importExercises(exercises []ExerciseBackup) error {
	log.Printf("Importing %d exercises...", len(exercises))
	for _, e := range exercises {
		query := "INSERT INTO exercises (id, level_id, question, type, options, correct_answer, audio_url, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)"
		if _, err := s.db.Exec(query, e.ID, e.LevelID, e.Question, e.Type, e.Options, nullIfEmpty(e.CorrectAnswer), nullIfEmpty(e.AudioURL), e.CreatedAt); err != nil {
			return fmt.Errorf("failed to import exercise %d: %w", e.ID, err)
		}
	}
	return nil
}

func (s *BackupService) importUsers(users []UserBackup) error {
	log.Printf("Importing %d users...", len(users))
	for _, u := range users {
		query := "INSERT INTO users (id, username, email, password_hash, oauth_provider, oauth_subject, role, xp, diamonds, lives, next_life_at, current_level_id, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"
		_, err := s.db.Exec(query, u.ID, u.Username, nullIfEmpty(u.Email), u.PasswordHash, nullIfEmpty(u.OAuthProvider), nullIfEmpty(u.OAuthSubject), u.Role, u.XP, u.Diamonds, u.Lives, u.NextLifeAt, u.CurrentLevelID, u.CreatedAt, u.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to import user %d: %w", u.ID, err)
		}
	}
	return nil
}

func (s *BackupService) importUserLevels(userLevels []UserLevelBackup) error {
	log.Printf("Importing %d progress rows...", len(userLevels))
	for _, ul := range userLevels {
		query := "INSERT INTO user_levels (id, user_id, level_id, completed, completed_at, created_at) VALUES (?, ?, ?, ?, ?, ?)"
		if _, err := s.db.Exec(query, ul.ID, ul.UserID, ul.LevelID, ul.Completed, ul.CompletedAt, ul.CreatedAt); err != nil {
			return fmt.Errorf("failed to import progress row %d: %w", ul.ID, err)
		}
	}
	return nil
}

func (s *BackupService) importAttempts(attempts []AttemptBackup) error {
	log.Printf("Importing %d attempts...", len(attempts))
	for _, a := range attempts {
		query := "INSERT INTO user_exercises (id, user_id, exercise_id, correct, created_at) VALUES (?, ?, ?, ?, ?)"
		if _, err := s.db.Exec(query, a.ID, a.UserID, a.ExerciseID, a.Correct, a.CreatedAt); err != nil {
			return fmt.Errorf("failed to import attempt %d: %w", a.ID, err)
		}
	}
	return nil
}

func (s *BackupService) importTransactions(transactions []TransactionBackup) error {
	log.Printf("Importing %d transactions...", len(transactions))
	for _, t := range transactions {
		query := "INSERT INTO transactions (id, user_id, amount, description, payment_method, status, payment_token, created_at, completed_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)"
		if _, err := s.db.Exec(query, t.ID, t.UserID, t.Amount, t.Description, t.PaymentMethod, t.Status, nullIfEmpty(t.PaymentToken), t.CreatedAt, t.CompletedAt); err != nil {
			return fmt.Errorf("failed to import transaction %d: %w", t.ID, err)
		}
	}
	return nil
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
