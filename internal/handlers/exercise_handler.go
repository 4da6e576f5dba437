package handlers

import (
	"net/http"
	"strconv"

	"linguatrail/internal/service"
)

// ExerciseHandler handles level access and answer submission
type ExerciseHandler struct {
	progression *service.ProgressionService
	leaderboard *service.LeaderboardService
}

// NewExerciseHandler creates a new exercise handler
func NewExerciseHandler(progression *service.ProgressionService, leaderboard *service.LeaderboardService) *ExerciseHandler {
	return &ExerciseHandler{progression: progression, leaderboard: leaderboard}
}

func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	return id, err == nil && id > 0
}

// StartLevel opens a level and returns the next unseen exercise with
// progress counters
func (h *ExerciseHandler) StartLevel(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	levelID, ok := pathID(r, "levelId")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid level id")
		return
	}

	session, err := h.progression.StartOrResumeLevel(user.ID, levelID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	if session.Completed {
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"levelCompleted": true,
			"xpEarned":       session.XPEarned,
			"diamondsEarned": session.DiamondsEarned,
		})
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"level": map[string]interface{}{
			"id":    session.Level.ID,
			"name":  session.Level.Name,
			"color": string(session.Level.Color),
			"xp":    session.Level.XP,
		},
		"exercise":       toExerciseView(session.Exercise),
		"attemptedCount": session.AttemptedCount,
		"totalCount":     session.TotalCount,
	})
}

// SubmitAnswer grades one answer and reports either the next exercise
// or the level completion with its rewards
func (h *ExerciseHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	levelID, ok := pathID(r, "levelId")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid level id")
		return
	}
	exerciseID, ok := pathID(r, "exerciseId")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid exercise id")
		return
	}

	var req struct {
		Answer string `json:"answer"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.progression.SubmitAnswer(user.ID, levelID, exerciseID, req.Answer)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	if result.Correct || result.LevelCompleted {
		h.leaderboard.InvalidateStandings(r.Context())
	}

	payload := map[string]interface{}{
		"correct":        result.Correct,
		"livesRemaining": result.LivesRemaining,
		"outOfLives":     result.OutOfLives,
		"attemptedCount": result.AttemptedCount,
		"totalCount":     result.TotalCount,
	}
	if result.LevelCompleted {
		payload["levelCompleted"] = true
		payload["xpEarned"] = result.XPEarned
		payload["diamondsEarned"] = result.DiamondsEarned
	} else {
		payload["nextExercise"] = toExerciseView(result.NextExercise)
	}

	respondJSON(w, http.StatusOK, payload)
}
