package handlers

import (
	"net/http"

	"linguatrail/internal/service"
)

// UserHandler handles profile HTTP requests
type UserHandler struct {
	userService  *service.UserService
	trailService *service.TrailService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *service.UserService, trailService *service.TrailService) *UserHandler {
	return &UserHandler{
		userService:  userService,
		trailService: trailService,
	}
}

// Me returns the authenticated user with lives regenerated up to now
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	fresh, err := h.userService.GetUser(user.ID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toUserView(fresh))
}

// Stats returns the authenticated user's learning statistics
func (h *UserHandler) Stats(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	stats, err := h.trailService.GetUserStats(user.ID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

// UpdateProfile changes username and email
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	updated, err := h.userService.UpdateProfile(user.ID, req.Username, req.Email)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toUserView(updated))
}

// ChangePassword sets a new password after verifying the current one
func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	var req struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.userService.ChangePassword(user.ID, req.CurrentPassword, req.NewPassword); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Password updated"})
}
