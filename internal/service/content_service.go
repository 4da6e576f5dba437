package service

import (
	"fmt"
	"log"

	"linguatrail/internal/models"
	"linguatrail/internal/repository"
	"linguatrail/internal/security"
)

// ContentService handles catalog administration: trail/level/exercise
// CRUD with content validation, plus the initial seed
type ContentService struct {
	contentRepo *repository.ContentRepository
	userRepo    *repository.UserRepository
}

// NewContentService creates a new content service
func NewContentService(contentRepo *repository.ContentRepository, userRepo *repository.UserRepository) *ContentService {
	return &ContentService{contentRepo: contentRepo, userRepo: userRepo}
}

// CreateTrail adds a trail to the catalog
func (s *ContentService) CreateTrail(name, theme string, position int, isActive bool) (*models.Trail, error) {
	if name == "" {
		return nil, fmt.Errorf("trail name is required")
	}
	if position < 1 {
		return nil, fmt.Errorf("trail position must be 1 or greater")
	}
	return s.contentRepo.CreateTrail(name, theme, position, isActive)
}

// UpdateTrail updates a trail
func (s *ContentService) UpdateTrail(id int64, name, theme string, position int, isActive bool) (*models.Trail, error) {
	trail, err := s.contentRepo.GetTrail(id)
	if err != nil {
		return nil, err
	}
	if trail == nil {
		return nil, ErrNotFound
	}
	if err := s.contentRepo.UpdateTrail(id, name, theme, position, isActive); err != nil {
		return nil, err
	}
	return s.contentRepo.GetTrail(id)
}

// DeleteTrail removes a trail and, via cascade, its levels and exercises
func (s *ContentService) DeleteTrail(id int64) error {
	trail, err := s.contentRepo.GetTrail(id)
	if err != nil {
		return err
	}
	if trail == nil {
		return ErrNotFound
	}
	return s.contentRepo.DeleteTrail(id)
}

// CreateLevel adds a level to a trail
func (s *ContentService) CreateLevel(trailID int64, name string, color models.LevelColor, xp, position int) (*models.Level, error) {
	if !color.Valid() {
		return nil, fmt.Errorf("unknown level color %q", color)
	}
	if xp < 0 {
		return nil, fmt.Errorf("level xp must not be negative")
	}
	trail, err := s.contentRepo.GetTrail(trailID)
	if err != nil {
		return nil, err
	}
	if trail == nil {
		return nil, ErrNotFound
	}
	return s.contentRepo.CreateLevel(trailID, name, color, xp, position)
}

// UpdateLevel updates a level
func (s *ContentService) UpdateLevel(id, trailID int64, name string, color models.LevelColor, xp, position int) (*models.Level, error) {
	if !color.Valid() {
		return nil, fmt.Errorf("unknown level color %q", color)
	}
	level, err := s.contentRepo.GetLevel(id)
	if err != nil {
		return nil, err
	}
	if level == nil {
		return nil, ErrNotFound
	}
	if err := s.contentRepo.UpdateLevel(id, trailID, name, color, xp, position); err != nil {
		return nil, err
	}
	return s.contentRepo.GetLevel(id)
}

// DeleteLevel removes a level
func (s *ContentService) DeleteLevel(id int64) error {
	level, err := s.contentRepo.GetLevel(id)
	if err != nil {
		return err
	}
	if level == nil {
		return ErrNotFound
	}
	return s.contentRepo.DeleteLevel(id)
}

// CreateExercise adds an exercise to a level after validating its content
func (s *ContentService) CreateExercise(levelID int64, question string, exerciseType models.ExerciseType, content models.ExerciseContent) (*models.Exercise, error) {
	if question == "" {
		return nil, fmt.Errorf("exercise question is required")
	}
	if !exerciseType.Valid() {
		return nil, fmt.Errorf("unknown exercise type %q", exerciseType)
	}
	level, err := s.contentRepo.GetLevel(levelID)
	if err != nil {
		return nil, err
	}
	if level == nil {
		return nil, ErrNotFound
	}

	exercise := &models.Exercise{LevelID: levelID, Question: question, Type: exerciseType, Content: content}
	if err := exercise.Validate(); err != nil {
		return nil, err
	}

	return s.contentRepo.CreateExercise(levelID, question, exerciseType, content)
}

// UpdateExercise updates an exercise after validating its content
func (s *ContentService) UpdateExercise(id, levelID int64, question string, exerciseType models.ExerciseType, content models.ExerciseContent) (*models.Exercise, error) {
	existing, err := s.contentRepo.GetExercise(id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrNotFound
	}

	exercise := &models.Exercise{LevelID: levelID, Question: question, Type: exerciseType, Content: content}
	if err := exercise.Validate(); err != nil {
		return nil, err
	}

	if err := s.contentRepo.UpdateExercise(id, levelID, question, exerciseType, content); err != nil {
		return nil, err
	}
	return s.contentRepo.GetExercise(id)
}

// DeleteExercise removes an exercise
func (s *ContentService) DeleteExercise(id int64) error {
	exercise, err := s.contentRepo.GetExercise(id)
	if err != nil {
		return err
	}
	if exercise == nil {
		return ErrNotFound
	}
	return s.contentRepo.DeleteExercise(id)
}

// AdminStats summarizes catalog and account counts for the admin panel
type AdminStats struct {
	Users     int `json:"users"`
	Trails    int `json:"trails"`
	Levels    int `json:"levels"`
	Exercises int `json:"exercises"`
}

// GetAdminStats counts users and catalog content
func (s *ContentService) GetAdminStats() (*AdminStats, error) {
	trails, levels, exercises, err := s.contentRepo.CountContent()
	if err != nil {
		return nil, err
	}
	users, err := s.userRepo.ListUsers()
	if err != nil {
		return nil, err
	}
	return &AdminStats{
		Users:     len(users),
		Trails:    trails,
		Levels:    levels,
		Exercises: exercises,
	}, nil
}

// SetUserRole changes an account's role
func (s *ContentService) SetUserRole(userID int64, role models.Role) error {
	if role != models.RoleUser && role != models.RoleAdmin {
		return fmt.Errorf("unknown role %q", role)
	}
	user, err := s.userRepo.GetUserByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrNotFound
	}
	return s.userRepo.SetRole(userID, role)
}

// DeleteUser removes an account and cascades its progress
func (s *ContentService) DeleteUser(userID int64) error {
	user, err := s.userRepo.GetUserByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrNotFound
	}
	return s.userRepo.DeleteUser(userID)
}

func mc(options ...models.ChoiceOption) models.ExerciseContent {
	return models.MultipleChoice{Options: options}
}

func opt(text string, correct bool) models.ChoiceOption {
	return models.ChoiceOption{Text: text, IsCorrect: correct}
}

// SeedInitialContent populates an empty database with the admin account
// and the starter Yoruba catalog. Runs are idempotent: if any user
// exists the seed is skipped
func (s *ContentService) SeedInitialContent(adminPassword string) error {
	users, err := s.userRepo.ListUsers()
	if err != nil {
		return fmt.Errorf("failed to check existing data: %w", err)
	}
	if len(users) > 0 {
		log.Println("Seed skipped: database already initialized")
		return nil
	}

	passwordHash, err := security.HashPassword(adminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}
	if _, err := s.userRepo.CreateUser("admin", "admin@linguatrail.app", passwordHash, models.RoleAdmin); err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	type levelSeed struct {
		name  string
		color models.LevelColor
		xp    int
	}
	tiers := []levelSeed{
		{"Básico", models.ColorAmarelo, 10},
		{"Intermediário", models.ColorAzul, 15},
		{"Avançado", models.ColorVerde, 20},
		{"Mestre", models.ColorDourado, 30},
	}

	trailThemes := []string{"Saudações", "Números", "Cores"}
	levelIDs := make(map[string]int64)

	for ti, theme := range trailThemes {
		trail, err := s.contentRepo.CreateTrail(fmt.Sprintf("Trilha %d", ti+1), theme, ti+1, true)
		if err != nil {
			return fmt.Errorf("failed to seed trail %q: %w", theme, err)
		}
		for li, tier := range tiers {
			level, err := s.contentRepo.CreateLevel(trail.ID, tier.name, tier.color, tier.xp, li+1)
			if err != nil {
				return fmt.Errorf("failed to seed level %q: %w", tier.name, err)
			}
			levelIDs[fmt.Sprintf("%d:%d", ti+1, li+1)] = level.ID
		}
	}

	type exerciseSeed struct {
		level    string
		question string
		typ      models.ExerciseType
		content  models.ExerciseContent
	}
	exercises := []exerciseSeed{
		{"1:1", "Bom dia", models.ExerciseMultipleChoice,
			mc(opt("E kú àárọ̀", true), opt("E kú alẹ́", false), opt("E kú ilẹ̀", false), opt("O dabọ", false))},
		{"1:1", "Boa tarde", models.ExerciseMultipleChoice,
			mc(opt("E kú àárọ̀", false), opt("E kú ọsan", true), opt("E kú ilẹ̀", false), opt("O dabọ", false))},
		{"1:1", "Boa noite", models.ExerciseMultipleChoice,
			mc(opt("E kú àárọ̀", false), opt("E kú ọsan", false), opt("E kú alẹ́", true), opt("O dabọ", false))},
		{"1:1", "Como você está?", models.ExerciseMultipleChoice,
			mc(opt("Báwo ni?", false), opt("Báwo ni o?", false), opt("Báwo ni ọ?", false), opt("Báwo ni o wa?", true))},
		{"1:1", "Eu estou bem", models.ExerciseMultipleChoice,
			mc(opt("Mo wa dada", true), opt("Mo ni dada", false), opt("Mo fe dada", false), opt("Dada ni mo wa", false))},
		{"1:2", "Até logo", models.ExerciseMultipleChoice,
			mc(opt("E kú àárọ̀", false), opt("O dabọ", true), opt("E kú alẹ́", false), opt("Adíọs", false))},
		{"1:2", "Meu nome é ...", models.ExerciseFillBlank,
			models.FillBlank{CorrectAnswer: "Orúkọ mi ni ..."}},
		{"1:2", "Qual é o seu nome?", models.ExerciseMultipleChoice,
			mc(opt("Kí ni orúkọ rẹ?", true), opt("Báwo ni o wa?", false), opt("Níbo ni o wà?", false), opt("Ṣé o ti jẹ?", false))},
		{"2:1", "Um", models.ExerciseMultipleChoice,
			mc(opt("Ọkan", true), opt("Èjì", false), opt("Ẹta", false), opt("Ẹrin", false))},
		{"2:1", "Dois", models.ExerciseMultipleChoice,
			mc(opt("Ọkan", false), opt("Èjì", true), opt("Ẹta", false), opt("Ẹrin", false))},
		{"2:1", "Três", models.ExerciseMultipleChoice,
			mc(opt("Ọkan", false), opt("Èjì", false), opt("Ẹta", true), opt("Ẹrin", false))},
		{"2:1", "Quatro", models.ExerciseMultipleChoice,
			mc(opt("Ọkan", false), opt("Èjì", false), opt("Ẹta", false), opt("Ẹrin", true))},
		{"2:1", "Cinco", models.ExerciseMultipleChoice,
			mc(opt("Àrún", true), opt("Ẹfà", false), opt("Èje", false), opt("Ẹjọ", false))},
		{"3:1", "Vermelho", models.ExerciseMultipleChoice,
			mc(opt("Pupa", true), opt("Dudu", false), opt("Funfun", false), opt("Awọ ewe", false))},
		{"3:1", "Azul", models.ExerciseMultipleChoice,
			mc(opt("Pupa", false), opt("Bluù", true), opt("Funfun", false), opt("Awọ ewe", false))},
		{"3:1", "Verde", models.ExerciseMultipleChoice,
			mc(opt("Pupa", false), opt("Dudu", false), opt("Funfun", false), opt("Awọ ewe", true))},
		{"3:1", "Branco", models.ExerciseMultipleChoice,
			mc(opt("Pupa", false), opt("Dudu", false), opt("Funfun", true), opt("Awọ ewe", false))},
		{"3:1", "Preto", models.ExerciseMultipleChoice,
			mc(opt("Pupa", false), opt("Dudu", true), opt("Funfun", false), opt("Awọ ewe", false))},
	}

	for _, ex := range exercises {
		levelID, ok := levelIDs[ex.level]
		if !ok {
			return fmt.Errorf("seed exercise %q references unknown level %s", ex.question, ex.level)
		}
		if _, err := s.CreateExercise(levelID, ex.question, ex.typ, ex.content); err != nil {
			return fmt.Errorf("failed to seed exercise %q: %w", ex.question, err)
		}
	}

	log.Printf("Seed complete: %d trails, %d levels, %d exercises", len(trailThemes), len(trailThemes)*len(tiers), len(exercises))
	return nil
}
