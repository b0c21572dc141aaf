package auth

import (
	"time"

	"github.com/google/uuid"
)

// User represents an authenticated identity mirrored to API clients.
// Email is immutable after creation; name and avatar are mutable through
// profile updates. Password hashes never appear on this struct.
type User struct {
	ID              uuid.UUID
	Email           string
	Name            string
	AvatarURL       string
	OAuthProvider   string
	OAuthProviderID string
	EmailVerified   bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
	LastLoginAt     time.Time
}

// Session represents an authenticated user session.
type Session struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	ExpiresAt time.Time
	CreatedAt time.Time
	UserAgent string
	IPAddress string
}

// GoogleClaims contains the relevant claims from a Google ID token.
type GoogleClaims struct {
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// RegisterInput captures the data needed to create a password account.
type RegisterInput struct {
	Email    string
	Password string
	Name     string
	PhotoURL string
}

// ProfileUpdate describes a partial profile edit. Nil fields are left
// untouched; empty strings clear the field.
type ProfileUpdate struct {
	Name      *string
	AvatarURL *string
}
