package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"log/slog"

	"skillswap/internal/auth"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

const maxJSONBodyBytes int64 = 1 << 20

var errPayloadTooLarge = errors.New("payload too large")

func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst any) error {
	limited := http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
	defer func() {
		_ = limited.Close()
	}()

	decoder := json.NewDecoder(limited)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return fmt.Errorf("%w (max %d bytes)", errPayloadTooLarge, maxErr.Limit)
		}
		return err
	}
	return nil
}

func writeJSONError(w http.ResponseWriter, err error) {
	if errors.Is(err, errPayloadTooLarge) {
		writeError(w, http.StatusRequestEntityTooLarge, "payload too large")
		return
	}
	// Return generic message to avoid leaking internal JSON parsing details
	writeError(w, http.StatusBadRequest, "invalid request body")
}

// writeAuthError translates auth package errors into HTTP responses. Coded
// provider errors carry both the friendly message and the raw code so the
// client keeps its own mapping; the "auth/" prefix is stripped from messages.
func writeAuthError(w http.ResponseWriter, err error, logger *slog.Logger) {
	if coded := auth.AsAuthError(err); coded != nil {
		writeJSON(w, statusForAuthCode(coded.Code), map[string]string{
			"error": coded.Friendly(),
			"code":  coded.Code,
		})
		return
	}

	if errors.Is(err, auth.ErrWeakPassword) {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": err.Error(),
			"code":  "auth/weak-password",
		})
		return
	}

	logger.Error("auth error", "error", err)
	writeError(w, http.StatusInternalServerError, "unexpected error")
}

func statusForAuthCode(code string) int {
	switch code {
	case auth.ErrUserNotFound.Code:
		return http.StatusNotFound
	case auth.ErrInvalidCredentials.Code:
		return http.StatusUnauthorized
	case auth.ErrTooManyRequests.Code:
		return http.StatusTooManyRequests
	case auth.ErrEmailInUse.Code:
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}

// userPayload is the JSON shape of an identity as API clients see it.
type userPayload struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	DisplayName   string    `json:"displayName"`
	PhotoURL      string    `json:"photoURL"`
	EmailVerified bool      `json:"emailVerified"`
	CreatedAt     time.Time `json:"createdAt"`
	LastLoginAt   time.Time `json:"lastLoginAt"`
}

func toUserPayload(user *auth.User) userPayload {
	return userPayload{
		ID:            user.ID.String(),
		Email:         user.Email,
		DisplayName:   user.Name,
		PhotoURL:      user.AvatarURL,
		EmailVerified: user.EmailVerified,
		CreatedAt:     user.CreatedAt,
		LastLoginAt:   user.LastLoginAt,
	}
}
