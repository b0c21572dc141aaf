package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// LoginLimiter throttles credential attempts per key (lowercased email).
// Implementations are best-effort: the Service fails open when a limiter
// errors, so a degraded backing store never locks every user out.
type LoginLimiter interface {
	TooMany(ctx context.Context, key string) (bool, error)
	RecordFailure(ctx context.Context, key string) error
	Reset(ctx context.Context, key string) error
}

// ErrResetTokenNotFound is returned by ResetTokenStore when a token hash is
// unknown, expired, or already consumed.
var ErrResetTokenNotFound = errors.New("reset token not found")

// ResetTokenStore keeps single-use password-reset tokens with a TTL.
// Consume removes the token so each one redeems at most once.
type ResetTokenStore interface {
	Save(ctx context.Context, tokenHash string, userID uuid.UUID, ttl time.Duration) error
	Consume(ctx context.Context, tokenHash string) (uuid.UUID, error)
}

const (
	maxLoginFailures   = 5
	loginFailureWindow = 15 * time.Minute
)

// MemoryLoginLimiter tracks failures in-process, ideal for local development
// or tests. Counts reset after the failure window elapses.
type MemoryLoginLimiter struct {
	mu       sync.Mutex
	failures map[string]*failureWindow
}

type failureWindow struct {
	count   int
	started time.Time
}

// NewMemoryLoginLimiter constructs an empty limiter.
func NewMemoryLoginLimiter() *MemoryLoginLimiter {
	return &MemoryLoginLimiter{failures: make(map[string]*failureWindow)}
}

func (l *MemoryLoginLimiter) TooMany(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	window, ok := l.failures[key]
	if !ok {
		return false, nil
	}
	if time.Since(window.started) > loginFailureWindow {
		delete(l.failures, key)
		return false, nil
	}
	return window.count >= maxLoginFailures, nil
}

func (l *MemoryLoginLimiter) RecordFailure(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	window, ok := l.failures[key]
	if !ok || time.Since(window.started) > loginFailureWindow {
		l.failures[key] = &failureWindow{count: 1, started: time.Now()}
		return nil
	}
	window.count++
	return nil
}

func (l *MemoryLoginLimiter) Reset(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.failures, key)
	return nil
}

// MemoryResetTokenStore keeps reset tokens in-process.
type MemoryResetTokenStore struct {
	mu     sync.Mutex
	tokens map[string]memoryResetToken
}

type memoryResetToken struct {
	userID    uuid.UUID
	expiresAt time.Time
}

// NewMemoryResetTokenStore constructs an empty store.
func NewMemoryResetTokenStore() *MemoryResetTokenStore {
	return &MemoryResetTokenStore{tokens: make(map[string]memoryResetToken)}
}

func (s *MemoryResetTokenStore) Save(_ context.Context, tokenHash string, userID uuid.UUID, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tokens[tokenHash] = memoryResetToken{userID: userID, expiresAt: time.Now().Add(ttl)}
	return nil
}

func (s *MemoryResetTokenStore) Consume(_ context.Context, tokenHash string) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	token, ok := s.tokens[tokenHash]
	if !ok {
		return uuid.Nil, ErrResetTokenNotFound
	}
	delete(s.tokens, tokenHash)

	if time.Now().After(token.expiresAt) {
		return uuid.Nil, ErrResetTokenNotFound
	}
	return token.userID, nil
}
