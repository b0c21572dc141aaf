package auth

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for user and session persistence.
type Repository interface {
	// User operations
	FindUserByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindUserByEmail(ctx context.Context, email string) (*User, error)
	FindUserByOAuth(ctx context.Context, provider, providerID string) (*User, error)
	CreateUser(ctx context.Context, user User, passwordHash string) (User, error)
	UpdateUserProfile(ctx context.Context, id uuid.UUID, name, avatarURL string) error
	UpdateUserLogin(ctx context.Context, id uuid.UUID, name, avatarURL string) error
	LinkOAuth(ctx context.Context, id uuid.UUID, provider, providerID string) error

	// Credential operations; hash is empty for federated-only accounts.
	PasswordHash(ctx context.Context, id uuid.UUID) (string, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error

	// Session operations
	CreateSession(ctx context.Context, session Session, tokenHash string) error
	FindSessionByTokenHash(ctx context.Context, tokenHash string) (*Session, *User, error)
	DeleteSession(ctx context.Context, id uuid.UUID) error
	DeleteExpiredSessions(ctx context.Context) (int64, error)
}
