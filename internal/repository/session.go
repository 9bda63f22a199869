package repository

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/admanager/ad-server-go/internal/model"
	"github.com/admanager/ad-server-go/internal/redis"
	"github.com/admanager/ad-server-go/internal/util"
)

const sessionLoginIDField = "loginId"

// SessionStore keeps admin sessions in Redis. Expiry is enforced by Redis
// through the key TTL; callers never poll for it.
type SessionStore interface {
	Create(ctx context.Context, loginID string, ttl time.Duration) (string, error)
	Get(ctx context.Context, token string) (*model.AdminSession, error)
	Delete(ctx context.Context, token string) error
}

type redisSessionStore struct {
	client *goredis.Client
}

func NewSessionStore(client *goredis.Client) SessionStore {
	return &redisSessionStore{client: client}
}

func (s *redisSessionStore) Create(ctx context.Context, loginID string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		return "", fmt.Errorf("session ttl must be positive")
	}

	token, err := util.GenerateSessionToken()
	if err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}

	key := redis.AdminSessionKey(token)
	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, key, sessionLoginIDField, loginID)
	pipe.Expire(ctx, key, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}

	return token, nil
}

func (s *redisSessionStore) Get(ctx context.Context, token string) (*model.AdminSession, error) {
	if token == "" {
		return nil, nil
	}

	values, err := s.client.HGetAll(ctx, redis.AdminSessionKey(token)).Result()
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	loginID := values[sessionLoginIDField]
	if loginID == "" {
		return nil, nil
	}

	return &model.AdminSession{Token: token, LoginID: loginID}, nil
}

func (s *redisSessionStore) Delete(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.client.Del(ctx, redis.AdminSessionKey(token)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
