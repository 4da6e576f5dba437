package service

import (
	"sort"
	"time"

	"linguatrail/internal/models"
)

// In-memory store fakes so engine behavior can be tested without a
// database. They mirror the ordering guarantees of the SQL repositories

type memContent struct {
	trails    []models.Trail
	levels    []models.Level
	exercises []models.Exercise
}

func (m *memContent) GetTrails() ([]models.Trail, error) {
	out := append([]models.Trail(nil), m.trails...)
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (m *memContent) GetLevelsByTrail(trailID int64) ([]models.Level, error) {
	var out []models.Level
	for _, l := range m.levels {
		if l.TrailID == trailID {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (m *memContent) GetLevel(id int64) (*models.Level, error) {
	for i := range m.levels {
		if m.levels[i].ID == id {
			l := m.levels[i]
			return &l, nil
		}
	}
	return nil, nil
}

func (m *memContent) GetExercisesByLevel(levelID int64) ([]models.Exercise, error) {
	var out []models.Exercise
	for _, e := range m.exercises {
		if e.LevelID == levelID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memContent) GetExercise(id int64) (*models.Exercise, error) {
	for i := range m.exercises {
		if m.exercises[i].ID == id {
			e := m.exercises[i]
			return &e, nil
		}
	}
	return nil, nil
}

func (m *memContent) levelOfExercise(exerciseID int64) int64 {
	for _, e := range m.exercises {
		if e.ID == exerciseID {
			return e.LevelID
		}
	}
	return 0
}

func (m *memContent) levelByID(id int64) *models.Level {
	for i := range m.levels {
		if m.levels[i].ID == id {
			return &m.levels[i]
		}
	}
	return nil
}

// memProgress joins attempts against memContent the way the SQL layer
// joins user_exercises against exercises and levels
type memProgress struct {
	content    *memContent
	userLevels []models.UserLevel
	attempts   []models.ExerciseAttempt
	nextID     int64
	clock      func() time.Time
}

func newMemProgress(content *memContent) *memProgress {
	return &memProgress{content: content, clock: time.Now}
}

func (m *memProgress) GetUserLevel(userID, levelID int64) (*models.UserLevel, error) {
	for i := range m.userLevels {
		if m.userLevels[i].UserID == userID && m.userLevels[i].LevelID == levelID {
			ul := m.userLevels[i]
			return &ul, nil
		}
	}
	return nil, nil
}

func (m *memProgress) GetUserLevels(userID int64) ([]models.UserLevel, error) {
	var out []models.UserLevel
	for _, ul := range m.userLevels {
		if ul.UserID == userID {
			out = append(out, ul)
		}
	}
	return out, nil
}

func (m *memProgress) CreateUserLevel(userID, levelID int64) (*models.UserLevel, error) {
	m.nextID++
	ul := models.UserLevel{ID: m.nextID, UserID: userID, LevelID: levelID, CreatedAt: m.clock()}
	m.userLevels = append(m.userLevels, ul)
	return &ul, nil
}

func (m *memProgress) MarkLevelCompleted(userID, levelID int64, completedAt time.Time) error {
	for i := range m.userLevels {
		if m.userLevels[i].UserID == userID && m.userLevels[i].LevelID == levelID {
			m.userLevels[i].Completed = true
			t := completedAt
			m.userLevels[i].CompletedAt = &t
		}
	}
	return nil
}

func (m *memProgress) AppendAttempt(userID, exerciseID int64, correct bool) error {
	m.nextID++
	m.attempts = append(m.attempts, models.ExerciseAttempt{
		ID:         m.nextID,
		UserID:     userID,
		ExerciseID: exerciseID,
		Correct:    correct,
		CreatedAt:  m.clock(),
	})
	return nil
}

func (m *memProgress) GetLevelAttempts(userID, levelID int64) ([]models.ExerciseAttempt, error) {
	var out []models.ExerciseAttempt
	for _, a := range m.attempts {
		if a.UserID == userID && m.content.levelOfExercise(a.ExerciseID) == levelID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memProgress) GetUserAttempts(userID int64) ([]models.ExerciseAttempt, error) {
	var out []models.ExerciseAttempt
	for _, a := range m.attempts {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memProgress) CorrectAttemptScoresSince(since time.Time) ([]models.AttemptScore, error) {
	var out []models.AttemptScore
	for _, a := range m.attempts {
		if !a.Correct || a.CreatedAt.Before(since) {
			continue
		}
		level := m.content.levelByID(m.content.levelOfExercise(a.ExerciseID))
		if level == nil {
			continue
		}
		out = append(out, models.AttemptScore{UserID: a.UserID, LevelXP: level.XP})
	}
	return out, nil
}

func (m *memProgress) CountCorrectAttempts(userID int64) (int, error) {
	count := 0
	for _, a := range m.attempts {
		if a.UserID == userID && a.Correct {
			count++
		}
	}
	return count, nil
}

type memUsers struct {
	users map[int64]*models.User
}

func newMemUsers(users ...*models.User) *memUsers {
	m := &memUsers{users: make(map[int64]*models.User)}
	for _, u := range users {
		m.users[u.ID] = u
	}
	return m
}

func (m *memUsers) GetUserByID(id int64) (*models.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	copied := *u
	return &copied, nil
}

func (m *memUsers) ListUsers() ([]models.User, error) {
	ids := make([]int64, 0, len(m.users))
	for id := range m.users {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]models.User, 0, len(ids))
	for _, id := range ids {
		out = append(out, *m.users[id])
	}
	return out, nil
}

func (m *memUsers) UpdateLives(userID int64, lives int, nextLifeAt *time.Time) error {
	if u, ok := m.users[userID]; ok {
		u.Lives = lives
		u.NextLifeAt = nextLifeAt
	}
	return nil
}

func (m *memUsers) AddXP(userID int64, delta int) error {
	if u, ok := m.users[userID]; ok {
		u.XP += delta
	}
	return nil
}

func (m *memUsers) AddDiamonds(userID int64, delta int) error {
	if u, ok := m.users[userID]; ok {
		u.Diamonds += delta
	}
	return nil
}

func (m *memUsers) SetCurrentLevel(userID int64, levelID *int64) error {
	if u, ok := m.users[userID]; ok {
		u.CurrentLevelID = levelID
	}
	return nil
}

type memTransactions struct {
	transactions []models.Transaction
	nextID       int64
	clock        func() time.Time
}

func newMemTransactions() *memTransactions {
	return &memTransactions{clock: time.Now}
}

func (m *memTransactions) Create(tx *models.Transaction) (*models.Transaction, error) {
	m.nextID++
	created := *tx
	created.ID = m.nextID
	created.CreatedAt = m.clock()
	m.transactions = append(m.transactions, created)
	return &created, nil
}

func (m *memTransactions) UpdateStatus(id int64, status models.TransactionStatus, completedAt *time.Time) error {
	for i := range m.transactions {
		if m.transactions[i].ID == id {
			m.transactions[i].Status = status
			m.transactions[i].CompletedAt = completedAt
		}
	}
	return nil
}

func (m *memTransactions) GetByID(id int64) (*models.Transaction, error) {
	for i := range m.transactions {
		if m.transactions[i].ID == id {
			tx := m.transactions[i]
			return &tx, nil
		}
	}
	return nil, nil
}

func (m *memTransactions) ListByUser(userID int64) ([]models.Transaction, error) {
	var out []models.Transaction
	for i := len(m.transactions) - 1; i >= 0; i-- {
		if m.transactions[i].UserID == userID {
			out = append(out, m.transactions[i])
		}
	}
	return out, nil
}

// twoTrailFixture builds two trails of two levels each, every level
// holding two fill-blank exercises whose correct answer is "yes"
func twoTrailFixture() *memContent {
	content := &memContent{
		trails: []models.Trail{
			{ID: 1, Name: "Greetings", Position: 1, IsActive: true},
			{ID: 2, Name: "Family", Position: 2, IsActive: true},
		},
		levels: []models.Level{
			{ID: 10, TrailID: 1, Name: "Basics I", Color: models.ColorAmarelo, XP: 10, Position: 1},
			{ID: 11, TrailID: 1, Name: "Basics II", Color: models.ColorDourado, XP: 30, Position: 2},
			{ID: 20, TrailID: 2, Name: "Family I", Color: models.ColorAmarelo, XP: 10, Position: 1},
			{ID: 21, TrailID: 2, Name: "Family II", Color: models.ColorAzul, XP: 15, Position: 2},
		},
	}

	var exID int64 = 100
	for _, level := range content.levels {
		for i := 0; i < 2; i++ {
			content.exercises = append(content.exercises, models.Exercise{
				ID:       exID,
				LevelID:  level.ID,
				Question: "Translate",
				Type:     models.ExerciseFillBlank,
				Content:  models.FillBlank{CorrectAnswer: "yes"},
			})
			exID++
		}
	}
	return content
}
