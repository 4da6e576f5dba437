package handlers

import (
	"net/http"

	"linguatrail/internal/service"
)

// LeaderboardHandler serves ranked standings
type LeaderboardHandler struct {
	leaderboard *service.LeaderboardService
}

// NewLeaderboardHandler creates a new leaderboard handler
func NewLeaderboardHandler(leaderboard *service.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{leaderboard: leaderboard}
}

// GetLeaderboard returns the weekly or all-time standings. The period
// defaults to weekly, matching the client's landing tab
func (h *LeaderboardHandler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	period := service.LeaderboardWeekly
	if r.URL.Query().Get("timeRange") == string(service.LeaderboardAllTime) {
		period = service.LeaderboardAllTime
	}

	entries, err := h.leaderboard.GetLeaderboard(r.Context(), period)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, entries)
}
