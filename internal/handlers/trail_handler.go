package handlers

import (
	"net/http"

	"linguatrail/internal/service"
)

// TrailHandler serves the per-user trail map
type TrailHandler struct {
	trailService *service.TrailService
}

// NewTrailHandler creates a new trail handler
func NewTrailHandler(trailService *service.TrailService) *TrailHandler {
	return &TrailHandler{trailService: trailService}
}

// GetTrails returns every trail with the user's progress and status
func (h *TrailHandler) GetTrails(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	views, err := h.trailService.GetUserTrails(user.ID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toTrailViews(views))
}
