package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const resetTokenTTL = 1 * time.Hour

// Service provides authentication business logic: password and federated
// sign-in, opaque cookie sessions, profile edits, and password resets.
type Service struct {
	repo        Repository
	limiter     LoginLimiter
	resetTokens ResetTokenStore
	mailer      Mailer
	sessionTTL  time.Duration
}

// NewService creates a new auth Service.
func NewService(repo Repository, limiter LoginLimiter, resetTokens ResetTokenStore, mailer Mailer, sessionTTL time.Duration) *Service {
	if sessionTTL == 0 {
		sessionTTL = 12 * time.Hour
	}
	return &Service{
		repo:        repo,
		limiter:     limiter,
		resetTokens: resetTokens,
		mailer:      mailer,
		sessionTTL:  sessionTTL,
	}
}

// Register creates a password account. Validation happens before any
// repository call, and every violated password rule is reported together.
// The profile fields are applied in a second, non-atomic step: if that step
// fails the account still exists, and the created user is returned alongside
// an error wrapping ErrProfileIncomplete.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*User, error) {
	email, err := NormalizeEmail(input.Email)
	if err != nil {
		return nil, err
	}

	if err := ValidatePassword(input.Password); err != nil {
		return nil, err
	}

	existing, err := s.repo.FindUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailInUse
	}

	hash, err := HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	created, err := s.repo.CreateUser(ctx, User{
		ID:            uuid.New(),
		Email:         email,
		EmailVerified: false,
		CreatedAt:     now,
		UpdatedAt:     now,
		LastLoginAt:   now,
	}, hash)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	name := strings.TrimSpace(input.Name)
	photoURL := strings.TrimSpace(input.PhotoURL)
	if name == "" && photoURL == "" {
		return &created, nil
	}

	if err := s.repo.UpdateUserProfile(ctx, created.ID, name, photoURL); err != nil {
		return &created, fmt.Errorf("%w: %v", ErrProfileIncomplete, err)
	}
	created.Name = name
	created.AvatarURL = photoURL

	return &created, nil
}

// AuthenticateWithPassword verifies an email/password pair. Unknown emails
// and bad passwords are reported as distinct coded errors; repeated failures
// trip the login limiter.
func (s *Service) AuthenticateWithPassword(ctx context.Context, email, password string) (*User, error) {
	key := strings.ToLower(strings.TrimSpace(email))
	if key == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	if tooMany, err := s.limiter.TooMany(ctx, key); err == nil && tooMany {
		return nil, ErrTooManyRequests
	}

	user, err := s.repo.FindUserByEmail(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		_ = s.limiter.RecordFailure(ctx, key)
		return nil, ErrUserNotFound
	}

	hash, err := s.repo.PasswordHash(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("load credential: %w", err)
	}
	if hash == "" {
		// Federated-only account; there is no password to match.
		_ = s.limiter.RecordFailure(ctx, key)
		return nil, ErrInvalidCredentials
	}

	if err := VerifyPassword(hash, password); err != nil {
		_ = s.limiter.RecordFailure(ctx, key)
		return nil, ErrInvalidCredentials
	}

	_ = s.limiter.Reset(ctx, key)

	if err := s.repo.UpdateUserLogin(ctx, user.ID, user.Name, user.AvatarURL); err != nil {
		return nil, fmt.Errorf("update user login: %w", err)
	}
	user.LastLoginAt = time.Now()

	return user, nil
}

// CreateOrUpdateFederatedUser finds an existing user by OAuth credentials,
// links the provider to an existing account with the same email, or creates
// a new account.
func (s *Service) CreateOrUpdateFederatedUser(ctx context.Context, claims *GoogleClaims) (*User, error) {
	existing, err := s.repo.FindUserByOAuth(ctx, "google", claims.Sub)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}

	if existing != nil {
		if err := s.repo.UpdateUserLogin(ctx, existing.ID, claims.Name, claims.Picture); err != nil {
			return nil, fmt.Errorf("update user login: %w", err)
		}
		existing.Name = claims.Name
		existing.AvatarURL = claims.Picture
		existing.LastLoginAt = time.Now()
		return existing, nil
	}

	email := strings.ToLower(strings.TrimSpace(claims.Email))

	// Same email, new provider: link rather than duplicate the account.
	byEmail, err := s.repo.FindUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	if byEmail != nil {
		if err := s.repo.LinkOAuth(ctx, byEmail.ID, "google", claims.Sub); err != nil {
			return nil, fmt.Errorf("link provider: %w", err)
		}
		if err := s.repo.UpdateUserLogin(ctx, byEmail.ID, claims.Name, claims.Picture); err != nil {
			return nil, fmt.Errorf("update user login: %w", err)
		}
		byEmail.OAuthProvider = "google"
		byEmail.OAuthProviderID = claims.Sub
		byEmail.Name = claims.Name
		byEmail.AvatarURL = claims.Picture
		byEmail.LastLoginAt = time.Now()
		return byEmail, nil
	}

	now := time.Now()
	newUser := User{
		ID:              uuid.New(),
		Email:           email,
		Name:            claims.Name,
		AvatarURL:       claims.Picture,
		OAuthProvider:   "google",
		OAuthProviderID: claims.Sub,
		EmailVerified:   claims.EmailVerified,
		CreatedAt:       now,
		UpdatedAt:       now,
		LastLoginAt:     now,
	}

	created, err := s.repo.CreateUser(ctx, newUser, "")
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	return &created, nil
}

// UpdateProfile applies a partial profile edit. Email is immutable and is
// not part of ProfileUpdate by construction.
func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, update ProfileUpdate) (*User, error) {
	user, err := s.repo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	name := user.Name
	if update.Name != nil {
		name = strings.TrimSpace(*update.Name)
	}
	avatarURL := user.AvatarURL
	if update.AvatarURL != nil {
		avatarURL = strings.TrimSpace(*update.AvatarURL)
	}

	if err := s.repo.UpdateUserProfile(ctx, userID, name, avatarURL); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}

	user.Name = name
	user.AvatarURL = avatarURL
	user.UpdatedAt = time.Now()
	return user, nil
}

// CreateSession creates a new session for the given user and returns the
// opaque session token. Only the SHA-256 hash of the token is persisted.
func (s *Service) CreateSession(ctx context.Context, userID uuid.UUID, userAgent, ipAddress string) (string, error) {
	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	token := base64.URLEncoding.EncodeToString(tokenBytes)
	tokenHash := hashToken(token)

	now := time.Now()
	session := Session{
		ID:        uuid.New(),
		UserID:    userID,
		ExpiresAt: now.Add(s.sessionTTL),
		CreatedAt: now,
		UserAgent: truncateString(userAgent, 512),
		IPAddress: truncateString(ipAddress, 45),
	}

	if err := s.repo.CreateSession(ctx, session, tokenHash); err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}

	return token, nil
}

// ValidateSession checks if the token is valid and returns the associated
// user. Expired sessions are deleted on sight, so a signed-out-elsewhere or
// timed-out identity is observed as absent on the very next request.
func (s *Service) ValidateSession(ctx context.Context, token string) (*User, error) {
	if token == "" {
		return nil, nil
	}

	tokenHash := hashToken(token)
	session, user, err := s.repo.FindSessionByTokenHash(ctx, tokenHash)
	if err != nil {
		return nil, fmt.Errorf("find session: %w", err)
	}

	if session == nil || user == nil {
		return nil, nil
	}

	if time.Now().After(session.ExpiresAt) {
		_ = s.repo.DeleteSession(ctx, session.ID)
		return nil, nil
	}

	return user, nil
}

// DeleteSession removes the session associated with the given token.
// Deleting an unknown token is a no-op, so sign-out is idempotent.
func (s *Service) DeleteSession(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	tokenHash := hashToken(token)
	session, _, err := s.repo.FindSessionByTokenHash(ctx, tokenHash)
	if err != nil {
		return fmt.Errorf("find session: %w", err)
	}

	if session == nil {
		return nil
	}

	return s.repo.DeleteSession(ctx, session.ID)
}

// CleanupExpiredSessions removes all expired sessions from the store.
func (s *Service) CleanupExpiredSessions(ctx context.Context) (int64, error) {
	return s.repo.DeleteExpiredSessions(ctx)
}

// StartPasswordReset issues a single-use reset token and dispatches it via
// the configured mailer. The token hash is stored with a one-hour TTL.
func (s *Service) StartPasswordReset(ctx context.Context, email string) error {
	normalized, err := NormalizeEmail(email)
	if err != nil {
		return err
	}

	key := "reset:" + normalized
	if tooMany, err := s.limiter.TooMany(ctx, key); err == nil && tooMany {
		return ErrTooManyRequests
	}
	_ = s.limiter.RecordFailure(ctx, key)

	user, err := s.repo.FindUserByEmail(ctx, normalized)
	if err != nil {
		return fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return ErrUserNotFound
	}

	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return fmt.Errorf("generate reset token: %w", err)
	}
	token := base64.RawURLEncoding.EncodeToString(tokenBytes)

	if err := s.resetTokens.Save(ctx, hashToken(token), user.ID, resetTokenTTL); err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}

	if err := s.mailer.SendPasswordReset(ctx, user.Email, token); err != nil {
		return fmt.Errorf("send reset mail: %w", err)
	}

	return nil
}

// CompletePasswordReset consumes a reset token and installs the new
// password. The password policy applies here exactly as it does at
// registration.
func (s *Service) CompletePasswordReset(ctx context.Context, token, newPassword string) error {
	if err := ValidatePassword(newPassword); err != nil {
		return err
	}

	userID, err := s.resetTokens.Consume(ctx, hashToken(token))
	if err != nil {
		if errors.Is(err, ErrResetTokenNotFound) {
			return ErrInvalidResetToken
		}
		return fmt.Errorf("consume reset token: %w", err)
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}

	if err := s.repo.UpdatePassword(ctx, userID, hash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	return nil
}

// hashToken returns the SHA-256 hash of the token as a hex string.
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// truncateString truncates a string to the given max length.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen]
}
