package tokens

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrTokenNotFound is returned when a refresh token is unknown or expired.
var ErrTokenNotFound = errors.New("refresh token not found")

// Store persists refresh tokens and tracks login attempts.
type Store interface {
	SaveRefreshToken(ctx context.Context, token string, userID int64, ttl time.Duration) error
	UserIDForToken(ctx context.Context, token string) (int64, error)
	DeleteRefreshToken(ctx context.Context, token string) error
	// RegisterLoginAttempt counts an attempt for the key inside the window
	// and returns the running total.
	RegisterLoginAttempt(ctx context.Context, key string, window time.Duration) (int64, error)
}

type redisStore struct {
	client *redis.Client
}

// NewRedisStore connects to Redis. Accepts a bare host:port or a redis://
// URL.
func NewRedisStore(addr, password string, db int) Store {
	parsedAddr := addr
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		parsedAddr = strings.TrimPrefix(strings.TrimPrefix(addr, "redis://"), "rediss://")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Printf("WARN: Redis ping failed on initialization: %v (address: %s)", err, parsedAddr)
	}
	return &redisStore{client: client}
}

func refreshKey(token string) string {
	return "auth:refresh:" + token
}

func attemptKey(key string) string {
	return "auth:attempts:" + key
}

func (s *redisStore) SaveRefreshToken(ctx context.Context, token string, userID int64, ttl time.Duration) error {
	return s.client.Set(ctx, refreshKey(token), strconv.FormatInt(userID, 10), ttl).Err()
}

func (s *redisStore) UserIDForToken(ctx context.Context, token string) (int64, error) {
	value, err := s.client.Get(ctx, refreshKey(token)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, ErrTokenNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("get refresh token: %w", err)
	}
	userID, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse refresh token owner: %w", err)
	}
	return userID, nil
}

func (s *redisStore) DeleteRefreshToken(ctx context.Context, token string) error {
	return s.client.Del(ctx, refreshKey(token)).Err()
}

func (s *redisStore) RegisterLoginAttempt(ctx context.Context, key string, window time.Duration) (int64, error) {
	redisKey := attemptKey(key)
	count, err := s.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return 0, err
	}
	if count == 1 {
		if err := s.client.Expire(ctx, redisKey, window).Err(); err != nil {
			return count, err
		}
	}
	return count, nil
}
