package handlers

import (
	"net/http"

	"linguatrail/internal/service"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	authService          *service.AuthService
	emailService         *service.EmailService
	oauthProviders       map[string]OAuthProvider
	oauthRedirectBaseURL string
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService, emailService *service.EmailService, oauthProviders map[string]OAuthProvider, oauthRedirectBaseURL string) *AuthHandler {
	return &AuthHandler{
		authService:          authService,
		emailService:         emailService,
		oauthProviders:       oauthProviders,
		oauthRedirectBaseURL: oauthRedirectBaseURL,
	}
}

// Register handles account creation and logs the new user in
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.authService.Register(req.Username, req.Email, req.Password)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	if user.Email != "" && h.emailService.IsEnabled() {
		// Welcome email failures must not fail registration
		_ = h.emailService.SendWelcomeEmail(r.Context(), user.Email, user.Username)
	}

	session, _, err := h.authService.Login(req.Username, req.Password)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	setSessionCookie(w, session)

	respondJSON(w, http.StatusCreated, toUserView(user))
}

// Login authenticates a user and sets the session cookie
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	session, user, err := h.authService.Login(req.Username, req.Password)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	setSessionCookie(w, session)
	respondJSON(w, http.StatusOK, toUserView(user))
}

// Logout invalidates the session and clears the cookie
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookieName); err == nil {
		_ = h.authService.Logout(cookie.Value)
	}
	clearSessionCookie(w)
	respondJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

// ForgotPassword creates a reset token and emails it. Always responds
// OK so account existence is not revealed
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.authService.RequestPasswordReset(r.Context(), h.emailService, req.Email); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "If that email exists, a reset link has been sent"})
}

// ResetPassword sets a new password from a reset token
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token    string `json:"token"`
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.authService.ResetPassword(req.Token, req.Password); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Password updated"})
}
