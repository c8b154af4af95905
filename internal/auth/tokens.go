package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/odyssey-erp/odyssey-users/internal/authz"
)

// TokenStore keeps opaque bearer tokens in Redis.
type TokenStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewTokenStore constructs a TokenStore.
func NewTokenStore(client *redis.Client, prefix string, ttl time.Duration) *TokenStore {
	if prefix == "" {
		prefix = "odyssey:token"
	}
	return &TokenStore{client: client, prefix: prefix, ttl: ttl}
}

// TTL returns the lifetime of issued tokens.
func (s *TokenStore) TTL() time.Duration {
	return s.ttl
}

// Issue stores p under a fresh token.
func (s *TokenStore) Issue(ctx context.Context, p Principal) (string, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("auth: encode principal: %w", err)
	}
	token := uuid.NewString()
	if err := s.client.Set(ctx, s.key(token), payload, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("auth: store token: %w", err)
	}
	return token, nil
}

// Resolve implements authz.TokenResolver.
func (s *TokenStore) Resolve(ctx context.Context, token string) (authz.Actor, error) {
	if token == "" {
		return nil, ErrTokenNotFound
	}
	payload, err := s.client.Get(ctx, s.key(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrTokenNotFound
		}
		return nil, fmt.Errorf("auth: load token: %w", err)
	}
	var p Principal
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, fmt.Errorf("auth: decode principal: %w", err)
	}
	return &p, nil
}

// Revoke deletes token. Unknown tokens are not an error.
func (s *TokenStore) Revoke(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, s.key(token)).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("auth: revoke token: %w", err)
	}
	return nil
}

func (s *TokenStore) key(token string) string {
	return s.prefix + ":" + token
}

var _ authz.TokenResolver = (*TokenStore)(nil)
