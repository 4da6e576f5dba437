package handlers

import (
	"net/http"

	"linguatrail/internal/models"
	"linguatrail/internal/repository"
	"linguatrail/internal/service"
)

// AdminHandler handles catalog and account administration
type AdminHandler struct {
	contentService  *service.ContentService
	contentRepo     *repository.ContentRepository
	userRepo        *repository.UserRepository
	transactionRepo *repository.TransactionRepository
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(contentService *service.ContentService, contentRepo *repository.ContentRepository, userRepo *repository.UserRepository, transactionRepo *repository.TransactionRepository) *AdminHandler {
	return &AdminHandler{
		contentService:  contentService,
		contentRepo:     contentRepo,
		userRepo:        userRepo,
		transactionRepo: transactionRepo,
	}
}

// Stats returns catalog and account counts
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.contentService.GetAdminStats()
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

type trailRequest struct {
	Name     string `json:"name"`
	Theme    string `json:"theme"`
	Position int    `json:"position"`
	IsActive bool   `json:"isActive"`
}

// ListTrails returns the full catalog of trails
func (h *AdminHandler) ListTrails(w http.ResponseWriter, r *http.Request) {
	trails, err := h.contentRepo.GetTrails()
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, trails)
}

// CreateTrail adds a trail
func (h *AdminHandler) CreateTrail(w http.ResponseWriter, r *http.Request) {
	var req trailRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	trail, err := h.contentService.CreateTrail(req.Name, req.Theme, req.Position, req.IsActive)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, trail)
}

// UpdateTrail updates a trail
func (h *AdminHandler) UpdateTrail(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid trail id")
		return
	}
	var req trailRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	trail, err := h.contentService.UpdateTrail(id, req.Name, req.Theme, req.Position, req.IsActive)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, trail)
}

// DeleteTrail removes a trail and its levels
func (h *AdminHandler) DeleteTrail(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid trail id")
		return
	}
	if err := h.contentService.DeleteTrail(id); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Trail deleted"})
}

type levelRequest struct {
	TrailID  int64  `json:"trailId"`
	Name     string `json:"name"`
	Color    string `json:"color"`
	XP       int    `json:"xp"`
	Position int    `json:"position"`
}

// ListLevels returns every level in the catalog
func (h *AdminHandler) ListLevels(w http.ResponseWriter, r *http.Request) {
	levels, err := h.contentRepo.GetLevels()
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, levels)
}

// CreateLevel adds a level
func (h *AdminHandler) CreateLevel(w http.ResponseWriter, r *http.Request) {
	var req levelRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	level, err := h.contentService.CreateLevel(req.TrailID, req.Name, models.LevelColor(req.Color), req.XP, req.Position)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, level)
}

// UpdateLevel updates a level
func (h *AdminHandler) UpdateLevel(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid level id")
		return
	}
	var req levelRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	level, err := h.contentService.UpdateLevel(id, req.TrailID, req.Name, models.LevelColor(req.Color), req.XP, req.Position)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, level)
}

// DeleteLevel removes a level
func (h *AdminHandler) DeleteLevel(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid level id")
		return
	}
	if err := h.contentService.DeleteLevel(id); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Level deleted"})
}

type exerciseRequest struct {
	LevelID       int64                 `json:"levelId"`
	Question      string                `json:"question"`
	Type          string                `json:"type"`
	Options       []models.ChoiceOption `json:"options"`
	CorrectAnswer string                `json:"correctAnswer"`
	AudioURL      string                `json:"audioUrl"`
}

func (req *exerciseRequest) content() models.ExerciseContent {
	switch models.ExerciseType(req.Type) {
	case models.ExerciseMultipleChoice:
		return models.MultipleChoice{Options: req.Options}
	case models.ExerciseFillBlank:
		return models.FillBlank{CorrectAnswer: req.CorrectAnswer}
	case models.ExerciseAudio:
		return models.AudioPrompt{AudioURL: req.AudioURL, CorrectAnswer: req.CorrectAnswer}
	}
	return nil
}

// ListExercises returns every exercise with its answer material
func (h *AdminHandler) ListExercises(w http.ResponseWriter, r *http.Request) {
	exercises, err := h.contentRepo.GetExercises()
	if err != nil {
		respondServiceError(w, err)
		return
	}
	views := make([]adminExerciseView, 0, len(exercises))
	for i := range exercises {
		views = append(views, toAdminExerciseView(&exercises[i]))
	}
	respondJSON(w, http.StatusOK, views)
}

// CreateExercise adds an exercise
func (h *AdminHandler) CreateExercise(w http.ResponseWriter, r *http.Request) {
	var req exerciseRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	exercise, err := h.contentService.CreateExercise(req.LevelID, req.Question, models.ExerciseType(req.Type), req.content())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toAdminExerciseView(exercise))
}

// UpdateExercise updates an exercise
func (h *AdminHandler) UpdateExercise(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid exercise id")
		return
	}
	var req exerciseRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	exercise, err := h.contentService.UpdateExercise(id, req.LevelID, req.Question, models.ExerciseType(req.Type), req.content())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toAdminExerciseView(exercise))
}

// DeleteExercise removes an exercise
func (h *AdminHandler) DeleteExercise(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid exercise id")
		return
	}
	if err := h.contentService.DeleteExercise(id); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Exercise deleted"})
}

// ListUsers returns every account
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userRepo.ListUsers()
	if err != nil {
		respondServiceError(w, err)
		return
	}
	views := make([]userView, 0, len(users))
	for i := range users {
		views = append(views, toUserView(&users[i]))
	}
	respondJSON(w, http.StatusOK, views)
}

// SetUserRole changes an account's role
func (h *AdminHandler) SetUserRole(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid user id")
		return
	}
	var req struct {
		Role string `json:"role"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.contentService.SetUserRole(id, models.Role(req.Role)); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Role updated"})
}

// DeleteUser removes an account
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid user id")
		return
	}
	admin := GetUserFromContext(r.Context())
	if admin.ID == id {
		respondError(w, http.StatusBadRequest, "Cannot delete your own account")
		return
	}
	if err := h.contentService.DeleteUser(id); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "User deleted"})
}

// ListTransactions returns every purchase record
func (h *AdminHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := h.transactionRepo.ListAll()
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toTransactionViews(txs))
}
