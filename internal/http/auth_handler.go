package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"skillswap/internal/auth"
)

// AuthHandler handles credential-based authentication endpoints.
type AuthHandler struct {
	authService  *auth.Service
	logger       *slog.Logger
	secureCookie bool
	sessionTTL   time.Duration
	webmailURL   string
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *auth.Service, env string, sessionTTL time.Duration, webmailURL string, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		logger:       logger,
		secureCookie: !strings.EqualFold(env, "development"),
		sessionTTL:   sessionTTL,
		webmailURL:   webmailURL,
	}
}

type registerRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
	PhotoURL    string `json:"photoURL"`
}

type registerResponse struct {
	User    userPayload `json:"user"`
	Warning string      `json:"warning,omitempty"`
}

// Register handles POST /api/auth/register
// Creates a password account and signs the new user in. Profile decoration
// failures after the account exists are reported as a warning, not an error:
// the account is real and the session is issued either way.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		writeJSONError(w, err)
		return
	}

	user, err := h.authService.Register(r.Context(), auth.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.DisplayName,
		PhotoURL: req.PhotoURL,
	})

	resp := registerResponse{}
	if err != nil {
		if user == nil || !errors.Is(err, auth.ErrProfileIncomplete) {
			writeAuthError(w, err, h.logger)
			return
		}
		h.logger.Warn("registration completed without profile", "user_id", user.ID, "error", err)
		resp.Warning = "Account created, but the profile could not be saved. You can update it later."
	}

	token, err := h.authService.CreateSession(r.Context(), user.ID, r.UserAgent(), clientIPFromRequest(r))
	if err != nil {
		h.logger.Error("register: session creation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create session")
		return
	}
	setSessionCookie(w, token, h.sessionTTL, h.secureCookie)

	h.logger.Info("user registered", "user_id", user.ID, "email", user.Email)

	resp.User = toUserPayload(user)
	writeJSON(w, http.StatusCreated, resp)
}

type loginRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	RedirectTo string `json:"redirectTo,omitempty"`
}

type loginResponse struct {
	User       userPayload `json:"user"`
	RedirectTo string      `json:"redirectTo"`
}

// Login handles POST /api/auth/login
// Verifies credentials, issues a session cookie, and echoes back the
// validated post-login destination so the client can resume an interrupted
// navigation. Unsafe or absent redirect targets fall back to "/".
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		writeJSONError(w, err)
		return
	}

	user, err := h.authService.AuthenticateWithPassword(r.Context(), req.Email, req.Password)
	if err != nil {
		writeAuthError(w, err, h.logger)
		return
	}

	token, err := h.authService.CreateSession(r.Context(), user.ID, r.UserAgent(), clientIPFromRequest(r))
	if err != nil {
		h.logger.Error("login: session creation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create session")
		return
	}
	setSessionCookie(w, token, h.sessionTTL, h.secureCookie)

	redirectTo := "/"
	if req.RedirectTo != "" && isValidRedirectPath(req.RedirectTo) {
		redirectTo = req.RedirectTo
	}

	h.logger.Info("user logged in", "user_id", user.ID)

	writeJSON(w, http.StatusOK, loginResponse{
		User:       toUserPayload(user),
		RedirectTo: redirectTo,
	})
}

// Logout handles POST /api/auth/logout
// Revokes the current session and clears the cookie. Logging out without a
// session is not an error.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookieName); err == nil && cookie.Value != "" {
		if err := h.authService.DeleteSession(r.Context(), cookie.Value); err != nil {
			h.logger.Error("logout: session deletion failed", "error", err)
		}
	}

	clearSessionCookie(w, h.secureCookie)
	w.WriteHeader(http.StatusNoContent)
}

// SessionStatus handles GET /api/session
// Reports the caller's current authentication state. Clients poll or
// re-check this after navigation; 401 means signed out, 200 carries the
// current user. Expired sessions are indistinguishable from absent ones.
func (h *AuthHandler) SessionStatus(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r, h.authService, h.logger)
	if user == nil {
		unauthorized(w)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": toUserPayload(user)})
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

// ForgotPassword handles POST /api/auth/forgot-password
// Sends a single-use reset link to the account's email. The response points
// the client at a webmail inbox so it can offer a "check your email" jump.
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		writeJSONError(w, err)
		return
	}

	if err := h.authService.StartPasswordReset(r.Context(), req.Email); err != nil {
		writeAuthError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message":    "Password reset email sent",
		"webmailUrl": h.webmailURL,
	})
}

type resetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// ResetPassword handles POST /api/auth/reset-password
// Consumes a reset token and sets the new password. Tokens are single use;
// a second attempt with the same token fails.
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		writeJSONError(w, err)
		return
	}

	if err := h.authService.CompletePasswordReset(r.Context(), req.Token, req.Password); err != nil {
		writeAuthError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Password updated. You can sign in now."})
}
