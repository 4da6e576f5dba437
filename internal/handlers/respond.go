package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"linguatrail/internal/service"
	"linguatrail/internal/validation"
)

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"message": message})
}

// respondServiceError maps service sentinel errors to HTTP statuses.
// Anything unrecognized is logged and reported as a 500
func respondServiceError(w http.ResponseWriter, err error) {
	var ve validation.ValidationError
	switch {
	case errors.As(err, &ve):
		respondError(w, http.StatusBadRequest, ve.Error())
	case errors.Is(err, service.ErrNotFound):
		respondError(w, http.StatusNotFound, "Resource not found")
	case errors.Is(err, service.ErrUsernameTaken):
		respondError(w, http.StatusConflict, "Username already taken")
	case errors.Is(err, service.ErrInvalidCredentials):
		respondError(w, http.StatusUnauthorized, "Invalid username or password")
	case errors.Is(err, service.ErrInvalidSession):
		respondError(w, http.StatusUnauthorized, "Invalid or expired session")
	case errors.Is(err, service.ErrInvalidToken):
		respondError(w, http.StatusBadRequest, "Invalid or expired token")
	case errors.Is(err, service.ErrLevelLocked):
		respondError(w, http.StatusForbidden, "Level is locked")
	case errors.Is(err, service.ErrOutOfLives):
		respondError(w, http.StatusForbidden, "No lives remaining")
	case errors.Is(err, service.ErrInsufficientLives):
		respondError(w, http.StatusBadRequest, "Not enough lives")
	case errors.Is(err, service.ErrInsufficientDiamonds):
		respondError(w, http.StatusBadRequest, "Not enough diamonds")
	case errors.Is(err, service.ErrExerciseMismatch):
		respondError(w, http.StatusBadRequest, "Exercise does not belong to this level")
	case errors.Is(err, service.ErrAllExercisesDone):
		respondError(w, http.StatusConflict, "All exercises in this level are done")
	default:
		log.Printf("Internal error: %v", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}
