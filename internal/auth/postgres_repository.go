package auth

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgresRepository.
func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const userColumns = `id, email, name, avatar_url, oauth_provider, oauth_provider_id, email_verified, created_at, updated_at, last_login_at`

// FindUserByID looks up a user by primary key.
func (r *PostgresRepository) FindUserByID(ctx context.Context, id uuid.UUID) (*User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	var row userRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return row.toUser(), nil
}

// FindUserByEmail looks up a user by email address, case-insensitively.
func (r *PostgresRepository) FindUserByEmail(ctx context.Context, email string) (*User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = LOWER($1)`

	var row userRow
	if err := r.db.GetContext(ctx, &row, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return row.toUser(), nil
}

// FindUserByOAuth looks up a user by their OAuth provider and provider ID.
func (r *PostgresRepository) FindUserByOAuth(ctx context.Context, provider, providerID string) (*User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE oauth_provider = $1 AND oauth_provider_id = $2`

	var row userRow
	if err := r.db.GetContext(ctx, &row, query, provider, providerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return row.toUser(), nil
}

// CreateUser inserts a new user. passwordHash may be empty for accounts that
// only ever sign in through a federated provider.
func (r *PostgresRepository) CreateUser(ctx context.Context, user User, passwordHash string) (User, error) {
	const query = `
		INSERT INTO users (id, email, name, avatar_url, password_hash, oauth_provider, oauth_provider_id, email_verified, created_at, updated_at, last_login_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	var hash any
	if passwordHash != "" {
		hash = passwordHash
	}

	_, err := r.db.ExecContext(ctx, query,
		user.ID,
		user.Email,
		user.Name,
		user.AvatarURL,
		hash,
		user.OAuthProvider,
		user.OAuthProviderID,
		user.EmailVerified,
		user.CreatedAt,
		user.UpdatedAt,
		user.LastLoginAt,
	)
	if err != nil {
		return User{}, err
	}

	return user, nil
}

// UpdateUserProfile sets the mutable profile fields.
func (r *PostgresRepository) UpdateUserProfile(ctx context.Context, id uuid.UUID, name, avatarURL string) error {
	const query = `UPDATE users SET name = $2, avatar_url = $3, updated_at = $4 WHERE id = $1`

	_, err := r.db.ExecContext(ctx, query, id, name, avatarURL, time.Now())
	return err
}

// UpdateUserLogin updates the user's last login time and refreshes profile data.
func (r *PostgresRepository) UpdateUserLogin(ctx context.Context, id uuid.UUID, name, avatarURL string) error {
	const query = `UPDATE users SET name = $2, avatar_url = $3, last_login_at = $4, updated_at = $4 WHERE id = $1`

	_, err := r.db.ExecContext(ctx, query, id, name, avatarURL, time.Now())
	return err
}

// LinkOAuth attaches a federated identity to an existing account.
func (r *PostgresRepository) LinkOAuth(ctx context.Context, id uuid.UUID, provider, providerID string) error {
	const query = `UPDATE users SET oauth_provider = $2, oauth_provider_id = $3, updated_at = $4 WHERE id = $1`

	_, err := r.db.ExecContext(ctx, query, id, provider, providerID, time.Now())
	return err
}

// PasswordHash returns the stored bcrypt hash, or "" for federated-only accounts.
func (r *PostgresRepository) PasswordHash(ctx context.Context, id uuid.UUID) (string, error) {
	const query = `SELECT password_hash FROM users WHERE id = $1`

	var hash sql.NullString
	if err := r.db.GetContext(ctx, &hash, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", err
	}
	return hash.String, nil
}

// UpdatePassword replaces the stored credential hash.
func (r *PostgresRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	const query = `UPDATE users SET password_hash = $2, updated_at = $3 WHERE id = $1`

	_, err := r.db.ExecContext(ctx, query, id, passwordHash, time.Now())
	return err
}

// CreateSession inserts a new session.
func (r *PostgresRepository) CreateSession(ctx context.Context, session Session, tokenHash string) error {
	const query = `
		INSERT INTO user_sessions (id, user_id, session_token_hash, expires_at, created_at, user_agent, ip_address)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(ctx, query,
		session.ID,
		session.UserID,
		tokenHash,
		session.ExpiresAt,
		session.CreatedAt,
		session.UserAgent,
		session.IPAddress,
	)
	return err
}

// FindSessionByTokenHash looks up a session and its associated user by token hash.
func (r *PostgresRepository) FindSessionByTokenHash(ctx context.Context, tokenHash string) (*Session, *User, error) {
	const query = `
		SELECT
			s.id, s.user_id, s.expires_at, s.created_at, s.user_agent, s.ip_address,
			u.email, u.name, u.avatar_url, u.oauth_provider, u.oauth_provider_id, u.email_verified,
			u.created_at AS user_created_at, u.updated_at AS user_updated_at, u.last_login_at
		FROM user_sessions s
		JOIN users u ON s.user_id = u.id
		WHERE s.session_token_hash = $1
	`

	var row sessionUserRow
	if err := r.db.GetContext(ctx, &row, query, tokenHash); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, nil
		}
		return nil, nil, err
	}

	return row.toSession(), row.toUser(), nil
}

// DeleteSession removes a session.
func (r *PostgresRepository) DeleteSession(ctx context.Context, id uuid.UUID) error {
	const query = `DELETE FROM user_sessions WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

// DeleteExpiredSessions removes all expired sessions.
func (r *PostgresRepository) DeleteExpiredSessions(ctx context.Context) (int64, error) {
	const query = `DELETE FROM user_sessions WHERE expires_at < $1`
	result, err := r.db.ExecContext(ctx, query, time.Now())
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// userRow is a database row representation of User.
type userRow struct {
	ID              uuid.UUID `db:"id"`
	Email           string    `db:"email"`
	Name            string    `db:"name"`
	AvatarURL       string    `db:"avatar_url"`
	OAuthProvider   string    `db:"oauth_provider"`
	OAuthProviderID string    `db:"oauth_provider_id"`
	EmailVerified   bool      `db:"email_verified"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
	LastLoginAt     time.Time `db:"last_login_at"`
}

func (r *userRow) toUser() *User {
	return &User{
		ID:              r.ID,
		Email:           r.Email,
		Name:            r.Name,
		AvatarURL:       r.AvatarURL,
		OAuthProvider:   r.OAuthProvider,
		OAuthProviderID: r.OAuthProviderID,
		EmailVerified:   r.EmailVerified,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
		LastLoginAt:     r.LastLoginAt,
	}
}

// sessionUserRow is a database row for the session + user join query.
type sessionUserRow struct {
	// Session fields
	ID        uuid.UUID `db:"id"`
	UserID    uuid.UUID `db:"user_id"`
	ExpiresAt time.Time `db:"expires_at"`
	CreatedAt time.Time `db:"created_at"`
	UserAgent string    `db:"user_agent"`
	IPAddress string    `db:"ip_address"`

	// User fields
	Email           string    `db:"email"`
	Name            string    `db:"name"`
	AvatarURL       string    `db:"avatar_url"`
	OAuthProvider   string    `db:"oauth_provider"`
	OAuthProviderID string    `db:"oauth_provider_id"`
	EmailVerified   bool      `db:"email_verified"`
	UserCreatedAt   time.Time `db:"user_created_at"`
	UserUpdatedAt   time.Time `db:"user_updated_at"`
	LastLoginAt     time.Time `db:"last_login_at"`
}

func (r *sessionUserRow) toSession() *Session {
	return &Session{
		ID:        r.ID,
		UserID:    r.UserID,
		ExpiresAt: r.ExpiresAt,
		CreatedAt: r.CreatedAt,
		UserAgent: r.UserAgent,
		IPAddress: r.IPAddress,
	}
}

func (r *sessionUserRow) toUser() *User {
	return &User{
		ID:              r.UserID,
		Email:           r.Email,
		Name:            r.Name,
		AvatarURL:       r.AvatarURL,
		OAuthProvider:   r.OAuthProvider,
		OAuthProviderID: r.OAuthProviderID,
		EmailVerified:   r.EmailVerified,
		CreatedAt:       r.UserCreatedAt,
		UpdatedAt:       r.UserUpdatedAt,
		LastLoginAt:     r.LastLoginAt,
	}
}
