package http

import (
	"log/slog"
	"net/http"

	"skillswap/internal/auth"
)

// ProfileHandler serves the signed-in user's profile.
type ProfileHandler struct {
	authService *auth.Service
	logger      *slog.Logger
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(authService *auth.Service, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{authService: authService, logger: logger}
}

// Get handles GET /api/profile
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		unauthorized(w)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": toUserPayload(user)})
}

type profileUpdateRequest struct {
	DisplayName *string `json:"displayName"`
	PhotoURL    *string `json:"photoURL"`
}

// Update handles PUT /api/profile
// Absent fields are left untouched; email cannot be changed here.
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		unauthorized(w)
		return
	}

	var req profileUpdateRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		writeJSONError(w, err)
		return
	}

	updated, err := h.authService.UpdateProfile(r.Context(), user.ID, auth.ProfileUpdate{
		Name:      req.DisplayName,
		AvatarURL: req.PhotoURL,
	})
	if err != nil {
		writeAuthError(w, err, h.logger)
		return
	}

	h.logger.Info("profile updated", "user_id", user.ID)
	writeJSON(w, http.StatusOK, map[string]any{"user": toUserPayload(updated)})
}
