package auth

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemoryRepository stores users and sessions in process, ideal for local
// development or tests.
type InMemoryRepository struct {
	mu        sync.RWMutex
	users     map[uuid.UUID]User
	passwords map[uuid.UUID]string
	sessions  map[string]Session // keyed by token hash
}

// NewInMemoryRepository constructs an empty repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		users:     make(map[uuid.UUID]User),
		passwords: make(map[uuid.UUID]string),
		sessions:  make(map[string]Session),
	}
}

func (r *InMemoryRepository) FindUserByID(_ context.Context, id uuid.UUID) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	return &user, nil
}

func (r *InMemoryRepository) FindUserByEmail(_ context.Context, email string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	lowered := strings.ToLower(email)
	for _, user := range r.users {
		if strings.ToLower(user.Email) == lowered {
			u := user
			return &u, nil
		}
	}
	return nil, nil
}

func (r *InMemoryRepository) FindUserByOAuth(_ context.Context, provider, providerID string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if user.OAuthProvider == provider && user.OAuthProviderID == providerID {
			u := user
			return &u, nil
		}
	}
	return nil, nil
}

func (r *InMemoryRepository) CreateUser(_ context.Context, user User, passwordHash string) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.users[user.ID] = user
	if passwordHash != "" {
		r.passwords[user.ID] = passwordHash
	}
	return user, nil
}

func (r *InMemoryRepository) UpdateUserProfile(_ context.Context, id uuid.UUID, name, avatarURL string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return ErrUserNotFound
	}
	user.Name = name
	user.AvatarURL = avatarURL
	user.UpdatedAt = time.Now()
	r.users[id] = user
	return nil
}

func (r *InMemoryRepository) UpdateUserLogin(_ context.Context, id uuid.UUID, name, avatarURL string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return ErrUserNotFound
	}
	user.Name = name
	user.AvatarURL = avatarURL
	now := time.Now()
	user.LastLoginAt = now
	user.UpdatedAt = now
	r.users[id] = user
	return nil
}

func (r *InMemoryRepository) LinkOAuth(_ context.Context, id uuid.UUID, provider, providerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return ErrUserNotFound
	}
	user.OAuthProvider = provider
	user.OAuthProviderID = providerID
	user.UpdatedAt = time.Now()
	r.users[id] = user
	return nil
}

func (r *InMemoryRepository) PasswordHash(_ context.Context, id uuid.UUID) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.passwords[id], nil
}

func (r *InMemoryRepository) UpdatePassword(_ context.Context, id uuid.UUID, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return ErrUserNotFound
	}
	r.passwords[id] = passwordHash
	return nil
}

func (r *InMemoryRepository) CreateSession(_ context.Context, session Session, tokenHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[tokenHash] = session
	return nil
}

func (r *InMemoryRepository) FindSessionByTokenHash(_ context.Context, tokenHash string) (*Session, *User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.sessions[tokenHash]
	if !ok {
		return nil, nil, nil
	}
	user, ok := r.users[session.UserID]
	if !ok {
		return nil, nil, nil
	}
	s, u := session, user
	return &s, &u, nil
}

func (r *InMemoryRepository) DeleteSession(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for hash, session := range r.sessions {
		if session.ID == id {
			delete(r.sessions, hash)
			return nil
		}
	}
	return nil
}

func (r *InMemoryRepository) DeleteExpiredSessions(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	var removed int64
	for hash, session := range r.sessions {
		if now.After(session.ExpiresAt) {
			delete(r.sessions, hash)
			removed++
		}
	}
	return removed, nil
}

// ActiveSessionCount reports how many sessions are currently stored. It
// exists so tests can assert the create/delete lifecycle leaves nothing
// behind.
func (r *InMemoryRepository) ActiveSessionCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.sessions)
}
