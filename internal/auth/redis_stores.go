package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisLoginLimiter counts failures in Redis so the attempt budget holds
// across replicas. Keys expire with the failure window.
type RedisLoginLimiter struct {
	client *redis.Client
	prefix string
}

// NewRedisLoginLimiter creates a Redis-backed login limiter.
func NewRedisLoginLimiter(client *redis.Client) *RedisLoginLimiter {
	return &RedisLoginLimiter{client: client, prefix: "login_failures:"}
}

func (l *RedisLoginLimiter) key(k string) string {
	return l.prefix + k
}

func (l *RedisLoginLimiter) TooMany(ctx context.Context, key string) (bool, error) {
	count, err := l.client.Get(ctx, l.key(key)).Int()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("limiter: get failures: %w", err)
	}
	return count >= maxLoginFailures, nil
}

func (l *RedisLoginLimiter) RecordFailure(ctx context.Context, key string) error {
	count, err := l.client.Incr(ctx, l.key(key)).Result()
	if err != nil {
		return fmt.Errorf("limiter: incr failures: %w", err)
	}
	if count == 1 {
		if err := l.client.Expire(ctx, l.key(key), loginFailureWindow).Err(); err != nil {
			return fmt.Errorf("limiter: set window: %w", err)
		}
	}
	return nil
}

func (l *RedisLoginLimiter) Reset(ctx context.Context, key string) error {
	return l.client.Del(ctx, l.key(key)).Err()
}

// RedisResetTokenStore keeps reset tokens in Redis with their TTL; Redis
// expiry handles abandonment, GETDEL handles single use.
type RedisResetTokenStore struct {
	client *redis.Client
	prefix string
}

// NewRedisResetTokenStore creates a Redis-backed reset token store.
func NewRedisResetTokenStore(client *redis.Client) *RedisResetTokenStore {
	return &RedisResetTokenStore{client: client, prefix: "password_reset:"}
}

func (s *RedisResetTokenStore) key(tokenHash string) string {
	return s.prefix + tokenHash
}

func (s *RedisResetTokenStore) Save(ctx context.Context, tokenHash string, userID uuid.UUID, ttl time.Duration) error {
	if ttl <= 0 {
		return fmt.Errorf("reset token: ttl must be positive")
	}
	return s.client.Set(ctx, s.key(tokenHash), userID.String(), ttl).Err()
}

func (s *RedisResetTokenStore) Consume(ctx context.Context, tokenHash string) (uuid.UUID, error) {
	val, err := s.client.GetDel(ctx, s.key(tokenHash)).Result()
	if errors.Is(err, redis.Nil) {
		return uuid.Nil, ErrResetTokenNotFound
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("reset token: get: %w", err)
	}

	userID, err := uuid.Parse(val)
	if err != nil {
		return uuid.Nil, fmt.Errorf("reset token: corrupt value: %w", err)
	}
	return userID, nil
}
