package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"linguatrail/internal/service"
	"linguatrail/internal/validation"
)

func TestRespondErrorWritesStatusAndBody(t *testing.T) {
	recorder := httptest.NewRecorder()

	respondError(recorder, http.StatusTeapot, "Teapot")

	if recorder.Code != http.StatusTeapot {
		t.Fatalf("expected status 418, got %d", recorder.Code)
	}
	if ct := recorder.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected JSON content type, got %q", ct)
	}

	var body map[string]string
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body["message"] != "Teapot" {
		t.Fatalf("expected message 'Teapot', got %q", body["message"])
	}
}

func TestRespondServiceErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"Not found", service.ErrNotFound, http.StatusNotFound},
		{"Wrapped not found", fmt.Errorf("load level: %w", service.ErrNotFound), http.StatusNotFound},
		{"Username taken", service.ErrUsernameTaken, http.StatusConflict},
		{"Invalid credentials", service.ErrInvalidCredentials, http.StatusUnauthorized},
		{"Invalid session", service.ErrInvalidSession, http.StatusUnauthorized},
		{"Invalid token", service.ErrInvalidToken, http.StatusBadRequest},
		{"Level locked", service.ErrLevelLocked, http.StatusForbidden},
		{"Out of lives", service.ErrOutOfLives, http.StatusForbidden},
		{"Insufficient diamonds", service.ErrInsufficientDiamonds, http.StatusBadRequest},
		{"Exercise mismatch", service.ErrExerciseMismatch, http.StatusBadRequest},
		{"All exercises done", service.ErrAllExercisesDone, http.StatusConflict},
		{"Validation error", validation.ValidationError{Field: "username", Message: "username is required"}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			respondServiceError(recorder, tt.err)
			if recorder.Code != tt.status {
				t.Errorf("Expected status %d, got %d", tt.status, recorder.Code)
			}
		})
	}
}

func TestRespondServiceErrorLogsUnknownErrors(t *testing.T) {
	var buf bytes.Buffer
	logger := log.Default()
	originalOutput := logger.Writer()
	logger.SetOutput(&buf)
	defer logger.SetOutput(originalOutput)

	recorder := httptest.NewRecorder()
	respondServiceError(recorder, errors.New("boom"))

	if recorder.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", recorder.Code)
	}
	if !strings.Contains(buf.String(), "boom") {
		t.Fatalf("expected log to include error, got %q", buf.String())
	}
}

func TestDecodeJSONRejectsMalformedBody(t *testing.T) {
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader("{not json"))

	var dst struct {
		Username string `json:"username"`
	}
	if decodeJSON(recorder, request, &dst) {
		t.Fatal("expected decodeJSON to fail")
	}
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", recorder.Code)
	}
}
